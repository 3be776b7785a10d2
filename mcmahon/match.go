/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

import "fmt"

// Color is the side a player takes on a board.
type Color int

const (
	White Color = iota
	Black
)

func (c Color) String() string {
	if c == White {
		return "w"
	}
	return "b"
}

// Match is one board's pairing for a round. Players are referenced by id
// only; the tournament owns the Player values.
type Match struct {
	White  PlayerID `yaml:"white"`
	Black  PlayerID `yaml:"black"`
	Winner PlayerID `yaml:"winner"`
}

// NewMatch returns an undecided match.
func NewMatch(white PlayerID, black PlayerID) *Match {
	return &Match{White: white, Black: black, Winner: NoPlayer}
}

// SetWinner records the result. winner must be White, Black or NoPlayer.
func (m *Match) SetWinner(winner PlayerID) error {
	if winner != m.White && winner != m.Black && winner != NoPlayer {
		return fmt.Errorf("%w: player %d not in match %d vs %d",
			ErrInvalidWinner, winner, m.White, m.Black)
	}
	m.Winner = winner

	return nil
}

// HasWinner reports whether a result has been entered.
func (m *Match) HasWinner() bool {
	return m.Winner != NoPlayer
}

// Loser returns the other participant, or NoPlayer if undecided.
func (m *Match) Loser() PlayerID {
	switch m.Winner {
	case m.White:
		return m.Black
	case m.Black:
		return m.White
	default:
		return NoPlayer
	}
}

// Has reports whether id plays in this match and with which color.
func (m *Match) Has(id PlayerID) (Color, bool) {
	switch id {
	case m.White:
		return White, true
	case m.Black:
		return Black, true
	default:
		return White, false
	}
}

func (m *Match) Pair() Pair {
	return NewPair(m.White, m.Black)
}

func (m Match) String() string {
	if m.HasWinner() {
		return fmt.Sprintf("<Match white=%d black=%d winner=%d>", m.White,
			m.Black, m.Winner)
	}
	return fmt.Sprintf("<Match white=%d black=%d winner=none>", m.White,
		m.Black)
}

// Pair is an unordered pair of player ids; NewPair normalizes it so that
// A < B and a Pair can be used as a map key.
type Pair struct {
	A PlayerID
	B PlayerID
}

func NewPair(x PlayerID, y PlayerID) Pair {
	if y < x {
		x, y = y, x
	}
	return Pair{A: x, B: y}
}

// Round holds one round's matches; board n is Matches[n-1].
type Round struct {
	Matches []*Match `yaml:"matches"`
}

// Board returns the match on the 1-based board number.
func (r *Round) Board(board int) (*Match, error) {
	if board < 1 || board > len(r.Matches) {
		return nil, fmt.Errorf("%w: board %d (round has %d)", ErrBoardNotFound,
			board, len(r.Matches))
	}
	return r.Matches[board-1], nil
}

// IsFinished reports whether every board has a winner.
func (r *Round) IsFinished() bool {
	for _, m := range r.Matches {
		if !m.HasWinner() {
			return false
		}
	}
	return true
}
