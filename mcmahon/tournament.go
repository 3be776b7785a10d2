/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// Scoring selects the pairing cost policy for a tournament.
type Scoring int

const (
	ScoringStandard Scoring = iota
	ScoringHandicap
)

func (s Scoring) String() string {
	if s == ScoringHandicap {
		return "handicap"
	}
	return "standard"
}

func ParseScoring(s string) (Scoring, error) {
	switch s {
	case "", "standard":
		return ScoringStandard, nil
	case "handicap":
		return ScoringHandicap, nil
	default:
		return ScoringStandard, fmt.Errorf("unknown scoring policy %q", s)
	}
}

// Cost returns the pairing cost function for the policy.
func (s Scoring) Cost() CostFunc {
	if s == ScoringHandicap {
		return HandicapCost
	}
	return StandardCost
}

// Seeding configures the McMahon bar and floor used to give newly added
// players their initial score.
type Seeding struct {
	Enabled bool
	Bar     int
	Floor   int
}

// Tournament is the single aggregate owning every Player, Round and Match.
// Callers hold it explicitly and pass it to each operation.
type Tournament struct {
	Name    string
	Date    time.Time
	Scoring Scoring
	Seeding Seeding

	Players map[PlayerID]*Player
	NextID  PlayerID
	Rounds  []*Round
	// History holds every pair that has already been played.
	History map[Pair]struct{}
	Active  map[PlayerID]struct{}
	// DivisionNames maps imported division names (lower case) to numbers.
	DivisionNames map[string]int
}

func NewTournament(name string, scoring Scoring) *Tournament {
	return &Tournament{
		Name:    name,
		Scoring: scoring,
		Players: make(map[PlayerID]*Player),
		History: make(map[Pair]struct{}),
		Active:  make(map[PlayerID]struct{}),

		DivisionNames: make(map[string]int),
	}
}

// AddPlayer registers p under the next id and marks it active.
func (t *Tournament) AddPlayer(p *Player) PlayerID {
	id := t.NextID
	t.Players[id] = p
	t.Active[id] = struct{}{}
	t.NextID++

	return id
}

// DropPlayer removes id from future pairings. Its past matches are kept.
func (t *Tournament) DropPlayer(id PlayerID) error {
	if _, ok := t.Players[id]; !ok {
		return fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	delete(t.Active, id)

	return nil
}

func (t *Tournament) IsActive(id PlayerID) bool {
	_, ok := t.Active[id]
	return ok
}

// Player returns the registered player for id.
func (t *Tournament) Player(id PlayerID) (*Player, error) {
	p, ok := t.Players[id]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPlayer, id)
	}
	return p, nil
}

// ActiveIDs returns the active player ids in ascending order.
func (t *Tournament) ActiveIDs() []PlayerID {
	ids := make([]PlayerID, 0, len(t.Active))
	for id := range t.Active {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// Divisions groups the active players by division. Division numbers are
// returned in ascending order and ids within a division ascend as well.
func (t *Tournament) Divisions() ([]int, map[int][]PlayerID) {
	byDiv := make(map[int][]PlayerID)
	for _, id := range t.ActiveIDs() {
		div := t.Players[id].Division
		byDiv[div] = append(byDiv[div], id)
	}
	var divs []int
	for d := range byDiv {
		divs = append(divs, d)
	}
	sort.Ints(divs)

	return divs, byDiv
}

// DivisionFor returns the number of the named division, allocating the
// next unused number the first time a name is seen. Names are matched case
// insensitively.
func (t *Tournament) DivisionFor(name string) int {
	key := strings.ToLower(strings.TrimSpace(name))
	if n, ok := t.DivisionNames[key]; ok {
		return n
	}
	if t.DivisionNames == nil {
		t.DivisionNames = make(map[string]int)
	}

	next := 0
	if len(t.Players) > 0 || len(t.DivisionNames) > 0 {
		next = math.MinInt
		for _, p := range t.Players {
			next = max(next, p.Division)
		}
		for _, n := range t.DivisionNames {
			next = max(next, n)
		}
		next++
	}
	t.DivisionNames[key] = next

	return next
}

// Played reports whether a and b have already been paired.
func (t *Tournament) Played(a PlayerID, b PlayerID) bool {
	_, ok := t.History[NewPair(a, b)]
	return ok
}

// foldLatestRound adds the most recent round's pairs to History. Folding the
// same round twice has no further effect.
func (t *Tournament) foldLatestRound() {
	if len(t.Rounds) == 0 {
		return
	}
	for _, m := range t.Rounds[len(t.Rounds)-1].Matches {
		t.History[m.Pair()] = struct{}{}
	}
}

// RoundIsFinished reports whether every match of round idx (0-based) has a
// winner. An out of range index is never finished.
func (t *Tournament) RoundIsFinished(idx int) bool {
	if idx < 0 || idx >= len(t.Rounds) {
		return false
	}
	return t.Rounds[idx].IsFinished()
}

// CurrentRound returns the latest round, or nil before the first round.
func (t *Tournament) CurrentRound() *Round {
	if len(t.Rounds) == 0 {
		return nil
	}
	return t.Rounds[len(t.Rounds)-1]
}

// StartNewRound turns pairing, read as consecutive pairs, into a new round.
// The higher scored player of each pair takes white and boards are numbered
// from the top score down.
func (t *Tournament) StartNewRound(pairing []PlayerID) error {
	if n := len(t.Rounds); n > 0 && !t.RoundIsFinished(n-1) {
		return fmt.Errorf("%w: round %d", ErrRoundNotFinished, n)
	}
	if len(pairing) == 0 {
		return fmt.Errorf("%w: pairing is empty", ErrNoActivePlayers)
	}
	if len(pairing)%2 != 0 {
		return fmt.Errorf("%w: pairing has %d players", ErrOddPlayerCount,
			len(pairing))
	}
	seen := make(map[PlayerID]bool, len(pairing))
	for _, id := range pairing {
		if _, ok := t.Players[id]; !ok {
			return fmt.Errorf("%w: %d in pairing", ErrUnknownPlayer, id)
		}
		if seen[id] {
			return fmt.Errorf("player %d appears twice in pairing", id)
		}
		seen[id] = true
	}

	remaining := append([]PlayerID(nil), pairing...)
	var matches []*Match
	for len(remaining) >= 2 {
		n := len(remaining)
		one, two := remaining[n-1], remaining[n-2]
		remaining = remaining[:n-2]
		if t.outranks(two, one) {
			one, two = two, one
		}
		matches = append(matches, NewMatch(one, two))
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return t.Players[matches[i].White].Score >
			t.Players[matches[j].White].Score
	})
	t.Rounds = append(t.Rounds, &Round{Matches: matches})

	return nil
}

// outranks decides board color: higher score, then higher rank, then the
// lower id takes white.
func (t *Tournament) outranks(a PlayerID, b PlayerID) bool {
	pa, pb := t.Players[a], t.Players[b]
	if pa.Score != pb.Score {
		return pa.Score > pb.Score
	}
	if pa.Rank != pb.Rank {
		return pa.Rank > pb.Rank
	}
	return a < b
}

// AddResult records winner on the 1-based board of round idx (0-based) and
// credits the winner's score immediately. Entering a different winner for an
// already decided board moves the point.
func (t *Tournament) AddResult(idx int, board int, winner PlayerID) error {
	if idx < 0 || idx >= len(t.Rounds) {
		return fmt.Errorf("%w: %d (have %d)", ErrRoundNotFound, idx+1,
			len(t.Rounds))
	}
	m, err := t.Rounds[idx].Board(board)
	if err != nil {
		return err
	}
	if winner == NoPlayer {
		return fmt.Errorf("%w: a winner is required", ErrInvalidWinner)
	}
	prior := m.Winner
	if err := m.SetWinner(winner); err != nil {
		return err
	}
	if prior == winner {
		return nil
	}
	if p, ok := t.Players[prior]; ok {
		p.Score--
	}
	if p, ok := t.Players[winner]; ok {
		p.Score++
	}

	return nil
}
