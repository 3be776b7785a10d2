/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

import "errors"

var (
	ErrInvalidWinner    = errors.New("winner is not a participant of the match")
	ErrRoundNotFinished = errors.New("last round is not yet finished")
	ErrNoValidPairing   = errors.New("no valid pairing found among samples")
	ErrUnknownPlayer    = errors.New("unknown player")
	ErrOddPlayerCount   = errors.New("odd number of players in division")
	ErrRoundNotFound    = errors.New("no such round")
	ErrBoardNotFound    = errors.New("no such board")
	ErrNoActivePlayers  = errors.New("no active players to pair")
)

var preconditionErrs = []error{
	ErrInvalidWinner,
	ErrRoundNotFinished,
	ErrNoValidPairing,
	ErrUnknownPlayer,
	ErrOddPlayerCount,
	ErrRoundNotFound,
	ErrBoardNotFound,
	ErrNoActivePlayers,
}

// IsPrecondition reports whether err stems from a request the tournament
// refused in its current state. Such errors leave the tournament unchanged
// and are safe to report to the user and retry.
func IsPrecondition(err error) bool {
	for _, e := range preconditionErrs {
		if errors.Is(err, e) {
			return true
		}
	}

	return false
}
