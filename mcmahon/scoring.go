/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

import "fmt"

// Recompute rebuilds Score, SOS and SODOS for every registered player from
// the finished rounds. Scores are finalized over the whole history first;
// SOS and SODOS are summed afterwards from those final scores.
func (t *Tournament) Recompute() error {
	var finished []*Round
	for _, r := range t.Rounds {
		if r.IsFinished() {
			finished = append(finished, r)
		}
	}
	for _, r := range finished {
		for _, m := range r.Matches {
			if _, ok := t.Players[m.White]; !ok {
				return fmt.Errorf("%w: %d in match", ErrUnknownPlayer, m.White)
			}
			if _, ok := t.Players[m.Black]; !ok {
				return fmt.Errorf("%w: %d in match", ErrUnknownPlayer, m.Black)
			}
			if m.Loser() == NoPlayer {
				return fmt.Errorf("%w: %d in match %d vs %d", ErrInvalidWinner,
					m.Winner, m.White, m.Black)
			}
		}
	}

	for _, p := range t.Players {
		p.Score = p.InitialScore
		p.SOS = 0
		p.SODOS = 0
	}

	// phase 1: scores
	for _, r := range finished {
		for _, m := range r.Matches {
			t.Players[m.Winner].Score++
		}
	}

	// phase 2: opponent sums from the final scores
	for _, r := range finished {
		for _, m := range r.Matches {
			w, l := t.Players[m.Winner], t.Players[m.Loser()]
			w.SOS += l.Score
			l.SOS += w.Score
			w.SODOS += l.Score
		}
	}

	return nil
}

// SeedScore gives the McMahon starting score for rank: every rank at or
// above bar shares the top score and every rank at or below floor starts at
// zero. Ranks skip zero (1k is directly below 1d), so the ladder is closed up
// before measuring distance from the floor.
func SeedScore(rank int, bar int, floor int) int {
	r, b, f := ladder(rank), ladder(bar), ladder(floor)
	if b < f {
		b, f = f, b
	}
	if r > b {
		r = b
	}
	if r < f {
		r = f
	}

	return r - f
}

func ladder(rank int) int {
	if rank < 0 {
		return rank + 1
	}
	return rank
}

// SeedFor returns the initial score t assigns to a newly added player of
// the given rank.
func (t *Tournament) SeedFor(rank int) int {
	if !t.Seeding.Enabled {
		return 0
	}
	return SeedScore(rank, t.Seeding.Bar, t.Seeding.Floor)
}
