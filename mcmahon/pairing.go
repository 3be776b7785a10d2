/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

import (
	"fmt"
	"math/rand/v2"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"
)

const DefaultSampleSize = 10000

// Pairer searches for a low cost pairing by sampling random orderings of
// each division. It is a Monte-Carlo search: larger sample sizes give better
// pairings but nothing guarantees the global optimum.
type Pairer struct {
	SampleSize int
	// Validate rejects orderings that repeat an already played pair.
	Validate bool
	// Workers bounds the sampling goroutines; <= 0 uses GOMAXPROCS.
	Workers int
	// Rand seeds every sample. Results depend only on its state, never on
	// Workers.
	Rand *rand.Rand
	// Cost overrides the tournament's scoring policy when set.
	Cost CostFunc
}

func NewPairer(sampleSize int, r *rand.Rand) *Pairer {
	return &Pairer{
		SampleSize: sampleSize,
		Validate:   true,
		Rand:       r,
	}
}

type candidate struct {
	index    int
	cost     int
	ordering []PlayerID
}

// Generate returns the next round's pairing as a flat sequence of ids where
// positions 2k and 2k+1 face each other. It folds the latest round into the
// tournament's pairing history but otherwise leaves t untouched, so it may be
// rerun freely until the result is passed to StartNewRound.
func (pr *Pairer) Generate(t *Tournament) ([]PlayerID, error) {
	t.foldLatestRound()
	firstRound := len(t.Rounds) == 0

	cost := pr.Cost
	if cost == nil {
		cost = t.Scoring.Cost()
	}
	rng := pr.Rand
	if rng == nil {
		rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}

	divs, byDiv := t.Divisions()
	if len(divs) == 0 {
		return nil, ErrNoActivePlayers
	}
	var pairing []PlayerID
	for _, div := range divs {
		ids := byDiv[div]
		if len(ids)%2 != 0 {
			return nil, fmt.Errorf("%w: division %d has %d players",
				ErrOddPlayerCount, div, len(ids))
		}
		best, err := pr.sampleDivision(t, ids, cost, rng)
		if err != nil {
			return nil, fmt.Errorf("division %d: %w", div, err)
		}
		pairing = append(pairing, best...)
	}

	if firstRound && len(divs) == 1 {
		pairing = sortPairsByID(pairing)
	}

	return pairing, nil
}

func (pr *Pairer) sampleDivision(t *Tournament, ids []PlayerID,
	cost CostFunc, rng *rand.Rand) ([]PlayerID, error) {

	n := pr.SampleSize
	if n <= 0 {
		n = DefaultSampleSize
	}
	// per-sample seeds are drawn up front so that the ordering a given
	// sample index sees does not depend on how samples are spread over
	// workers
	seeds := make([][2]uint64, n)
	for i := range seeds {
		seeds[i] = [2]uint64{rng.Uint64(), rng.Uint64()}
	}

	workers := pr.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > n {
		workers = n
	}

	results := make([]candidate, workers)
	var g errgroup.Group
	for w := 0; w < workers; w++ {
		g.Go(func() error {
			results[w] = pr.sampleStride(t, ids, cost, seeds, w, workers)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := candidate{index: -1}
	for _, c := range results {
		if c.index < 0 {
			continue
		}
		if best.index < 0 || c.cost < best.cost ||
			(c.cost == best.cost && c.index < best.index) {
			best = c
		}
	}
	if best.index < 0 {
		return nil, fmt.Errorf("%w: %d samples of %d players", ErrNoValidPairing,
			n, len(ids))
	}

	return best.ordering, nil
}

// sampleStride evaluates samples start, start+stride, ... and returns the
// cheapest valid one, or a candidate with index -1.
func (pr *Pairer) sampleStride(t *Tournament, ids []PlayerID, cost CostFunc,
	seeds [][2]uint64, start int, stride int) candidate {

	best := candidate{index: -1}
	src := rand.NewPCG(0, 0)
	r := rand.New(src)
	ordering := make([]PlayerID, len(ids))
	for i := start; i < len(seeds); i += stride {
		copy(ordering, ids)
		src.Seed(seeds[i][0], seeds[i][1])
		r.Shuffle(len(ordering), func(a, b int) {
			ordering[a], ordering[b] = ordering[b], ordering[a]
		})
		if pr.Validate && !t.pairingIsValid(ordering) {
			continue
		}
		c := t.PairingCost(ordering, cost)
		// indexes only grow within a stride so strict < keeps the earliest
		if best.index < 0 || c < best.cost {
			best = candidate{
				index:    i,
				cost:     c,
				ordering: append([]PlayerID(nil), ordering...),
			}
		}
	}

	return best
}

// sortPairsByID orders each pair low id first and the pairs by their low id.
// Pair membership is preserved.
func sortPairsByID(pairing []PlayerID) []PlayerID {
	pairs := make([]Pair, 0, len(pairing)/2)
	for i := 0; i+1 < len(pairing); i += 2 {
		pairs = append(pairs, NewPair(pairing[i], pairing[i+1]))
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].A < pairs[j].A })

	out := make([]PlayerID, 0, len(pairing))
	for _, p := range pairs {
		out = append(out, p.A, p.B)
	}
	return out
}
