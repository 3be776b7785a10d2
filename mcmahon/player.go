/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

import (
	"fmt"
	"strconv"
	"strings"
)

// PlayerID identifies a player within a single tournament. Ids are handed out
// by the tournament and are never reused.
type PlayerID int

// NoPlayer marks an unset player reference, e.g. a match without a winner.
const NoPlayer PlayerID = -1

// Player holds a participant's identity and scoring state.
type Player struct {
	Name     string `yaml:"name"`
	Rank     int    `yaml:"rank"`
	AgaID    int    `yaml:"aga_id"`
	Division int    `yaml:"division"`

	InitialScore int `yaml:"initial_score"`
	Score        int `yaml:"score"`
	SOS          int `yaml:"sos"`
	SODOS        int `yaml:"sodos"`
}

// NewPlayer returns a player whose score starts at initialScore.
func NewPlayer(name string, rank int, agaID int, division int,
	initialScore int) *Player {

	return &Player{
		Name:         name,
		Rank:         rank,
		AgaID:        agaID,
		Division:     division,
		InitialScore: initialScore,
		Score:        initialScore,
	}
}

func (p Player) String() string {
	return fmt.Sprintf("%s(%s %d)", p.Name, RankToString(p.Rank), p.Score)
}

// RankToString renders an AGA style rank: positive values are dan, negative
// values are kyu.
func RankToString(rank int) string {
	switch {
	case rank > 0:
		return fmt.Sprintf("%dd", rank)
	case rank < 0:
		return fmt.Sprintf("%dk", -rank)
	default:
		return "?"
	}
}

// ParseRank accepts "3d", "5k", "3 dan", "12 kyu" or a signed integer.
func ParseRank(s string) (int, error) {
	raw := strings.ToLower(strings.TrimSpace(s))
	raw = strings.ReplaceAll(raw, " ", "")
	if raw == "" {
		return 0, fmt.Errorf("empty rank")
	}

	if n, err := strconv.Atoi(raw); err == nil {
		if n == 0 {
			return 0, fmt.Errorf("rank 0 is not valid")
		}
		return n, nil
	}

	sign := 0
	switch {
	case strings.HasSuffix(raw, "dan"):
		raw, sign = strings.TrimSuffix(raw, "dan"), 1
	case strings.HasSuffix(raw, "kyu"):
		raw, sign = strings.TrimSuffix(raw, "kyu"), -1
	case strings.HasSuffix(raw, "d"):
		raw, sign = strings.TrimSuffix(raw, "d"), 1
	case strings.HasSuffix(raw, "k"):
		raw, sign = strings.TrimSuffix(raw, "k"), -1
	default:
		return 0, fmt.Errorf("unrecognized rank %q", s)
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("unrecognized rank %q", s)
	}

	return sign * n, nil
}
