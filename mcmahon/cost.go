/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

// CostFunc scores a single pairing of a and b; lower is better.
type CostFunc func(a *Player, b *Player) int

// StandardCost is the absolute score difference.
func StandardCost(a *Player, b *Player) int {
	return abs(a.Score - b.Score)
}

// HandicapCost weights score balance twice as heavily as rank balance.
func HandicapCost(a *Player, b *Player) int {
	return 2*abs(a.Score-b.Score) + abs(a.Rank-b.Rank)
}

// PairingCost sums cost over the consecutive pairs of ordering.
func (t *Tournament) PairingCost(ordering []PlayerID, cost CostFunc) int {
	sum := 0
	for i := 0; i+1 < len(ordering); i += 2 {
		sum += cost(t.Players[ordering[i]], t.Players[ordering[i+1]])
	}
	return sum
}

// pairingIsValid reports whether no consecutive pair of ordering was played
// before.
func (t *Tournament) pairingIsValid(ordering []PlayerID) bool {
	for i := 0; i+1 < len(ordering); i += 2 {
		if t.Played(ordering[i], ordering[i+1]) {
			return false
		}
	}
	return true
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
