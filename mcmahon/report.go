/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package mcmahon

import (
	"fmt"
	"sort"
	"strings"
)

// Standings returns the active player ids ordered by score, then SOS, then
// SODOS (all descending), then id.
func (t *Tournament) Standings() []PlayerID {
	ids := t.ActiveIDs()
	t.sortByStanding(ids)
	return ids
}

func (t *Tournament) sortByStanding(ids []PlayerID) {
	sort.SliceStable(ids, func(i, j int) bool {
		a, b := t.Players[ids[i]], t.Players[ids[j]]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if a.SOS != b.SOS {
			return a.SOS > b.SOS
		}
		if a.SODOS != b.SODOS {
			return a.SODOS > b.SODOS
		}
		return ids[i] < ids[j]
	})
}

// WallResult is one player's result in one finished round.
type WallResult struct {
	Played   bool
	Won      bool
	Opponent int // wall position of the opponent, 1-based
	Color    Color
}

func (r WallResult) String() string {
	if !r.Played {
		return ""
	}
	sign := "-"
	if r.Won {
		sign = "+"
	}
	return fmt.Sprintf("%s%d%v", sign, r.Opponent, r.Color)
}

// WallRow is one line of the wall list.
type WallRow struct {
	Position int
	ID       PlayerID
	Player   *Player
	Dropped  bool
	Results  []WallResult
}

// WallList ranks every registered player, dropped ones included so that past
// opponents can always be referenced, and lists their result in each
// finished round.
func (t *Tournament) WallList() []WallRow {
	ids := make([]PlayerID, 0, len(t.Players))
	for id := range t.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	t.sortByStanding(ids)

	position := make(map[PlayerID]int, len(ids))
	for idx, id := range ids {
		position[id] = idx + 1
	}

	rows := make([]WallRow, 0, len(ids))
	for _, id := range ids {
		row := WallRow{
			Position: position[id],
			ID:       id,
			Player:   t.Players[id],
			Dropped:  !t.IsActive(id),
		}
		for _, r := range t.Rounds {
			if !r.IsFinished() {
				continue
			}
			var res WallResult
			for _, m := range r.Matches {
				color, ok := m.Has(id)
				if !ok {
					continue
				}
				opp := m.White
				if color == White {
					opp = m.Black
				}
				res = WallResult{
					Played:   true,
					Won:      m.Winner == id,
					Opponent: position[opp],
					Color:    color,
				}
				break
			}
			row.Results = append(row.Results, res)
		}
		rows = append(rows, row)
	}

	return rows
}

func (t *Tournament) finishedRoundCount() int {
	n := 0
	for _, r := range t.Rounds {
		if r.IsFinished() {
			n++
		}
	}
	return n
}

// BuildWallListOutput formats the wall list into an aligned table.
func BuildWallListOutput(t *Tournament) string {
	if len(t.Players) == 0 {
		return "No players registered\n"
	}
	headers := []string{"No", "Name", "Rank", "Score", "SOS"}
	for i := 1; i <= t.finishedRoundCount(); i++ {
		headers = append(headers, fmt.Sprintf("R%d", i))
	}

	dropped := false
	var rows [][]string
	for _, wr := range t.WallList() {
		name := wr.Player.Name
		if wr.Dropped {
			name += "*"
			dropped = true
		}
		row := []string{
			fmt.Sprintf("%d.", wr.Position),
			name,
			RankToString(wr.Player.Rank),
			fmt.Sprintf("%d", wr.Player.Score),
			fmt.Sprintf("%d", wr.Player.SOS),
		}
		for _, res := range wr.Results {
			row = append(row, res.String())
		}
		rows = append(rows, row)
	}

	var sb strings.Builder
	writeTable(&sb, headers, rows)
	if dropped {
		sb.WriteString("* withdrawn\n")
	}

	return sb.String()
}

// BuildStandingsOutput formats the active players' standings.
func BuildStandingsOutput(t *Tournament) string {
	ids := t.Standings()
	if len(ids) == 0 {
		return "No active players\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Standings after %d round(s):\n\n",
		t.finishedRoundCount()))
	headers := []string{"Place", "Name", "Rank", "Score", "SOS", "SODOS"}
	var rows [][]string
	var prior *Player
	for idx, id := range ids {
		p := t.Players[id]
		place := fmt.Sprintf("%d.", idx+1)
		if prior != nil && prior.Score == p.Score && prior.SOS == p.SOS &&
			prior.SODOS == p.SODOS {
			place = ""
		}
		prior = p
		rows = append(rows, []string{
			place,
			p.Name,
			RankToString(p.Rank),
			fmt.Sprintf("%d", p.Score),
			fmt.Sprintf("%d", p.SOS),
			fmt.Sprintf("%d", p.SODOS),
		})
	}
	writeTable(&sb, headers, rows)

	return sb.String()
}

// BuildPairingsOutput formats the latest round's boards.
func BuildPairingsOutput(t *Tournament) string {
	r := t.CurrentRound()
	if r == nil {
		return "No rounds have been paired\n"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Round %d Pairings:\n\n", len(t.Rounds)))
	headers := []string{"Board", "White", "Black", "Result"}
	var rows [][]string
	for idx, m := range r.Matches {
		result := ""
		switch m.Winner {
		case m.White:
			result = "1-0"
		case m.Black:
			result = "0-1"
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d.", idx+1),
			describe(t, m.White),
			describe(t, m.Black),
			result,
		})
	}
	writeTable(&sb, headers, rows)

	return sb.String()
}

func describe(t *Tournament, id PlayerID) string {
	p, ok := t.Players[id]
	if !ok {
		return fmt.Sprintf("#%d?", id)
	}
	return fmt.Sprintf("%s #%d", p, id)
}

func writeTable(sb *strings.Builder, headers []string, rows [][]string) {
	colWidths := make([]int, len(headers))
	for i, h := range headers {
		colWidths[i] = len(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	writeRow := func(cells []string) {
		var line strings.Builder
		for i, cell := range cells {
			line.WriteString(fmt.Sprintf("%-*s  ", colWidths[i], cell))
		}
		sb.WriteString(strings.TrimRight(line.String(), " "))
		sb.WriteString("\n")
	}
	writeRow(headers)
	for _, row := range rows {
		writeRow(row)
	}
	sb.WriteString("\n")
}
