/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package roster

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/mikeb26/mcmahon-td/internal"
	"github.com/mikeb26/mcmahon-td/mcmahon"
)

const openHTML = `<html><body>
<table><tr><td>Spring Open registration</td></tr></table>
<table>
<tr><th>Name</th><th>Rank</th><th>AGA ID</th><th>Division</th></tr>
<tr><td>Ann Lee</td><td>3d</td><td>101</td><td>Open</td></tr>
<tr><td>Bob Ray</td><td>5 kyu</td><td>102</td><td>Kyu</td></tr>
<tr><td>Cat Kim</td><td>2D</td><td></td><td>open</td></tr>
<tr><td>Bad Rank</td><td>zero</td><td>104</td><td>Open</td></tr>
<tr><td></td><td>1d</td><td>105</td><td>Open</td></tr>
</table></body></html>`

func TestParse(t *testing.T) {
	got, err := Parse(strings.NewReader(openHTML))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Entry{
		{Name: "Ann Lee", Rank: 3, AgaID: 101, DivisionName: "Open"},
		{Name: "Bob Ray", Rank: -5, AgaID: 102, DivisionName: "Kyu"},
		{Name: "Cat Kim", Rank: 2, AgaID: 0, DivisionName: "open"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNumericDivisionsAndMissingColumns(t *testing.T) {
	html := `<table>
<tr><td>Player</td><td>Div</td><td>Rank</td></tr>
<tr><td>Ann</td><td>2</td><td>-3</td></tr>
<tr><td>Bob</td><td>1</td><td>4</td></tr>
</table>`
	got, err := Parse(strings.NewReader(html))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []Entry{
		{Name: "Ann", Rank: -3, Division: 2},
		{Name: "Bob", Rank: 4, Division: 1},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Parse mismatch (-want +got):\n%s", diff)
	}

	if _, err := Parse(strings.NewReader("<table><tr><td>x</td></tr></table>")); err == nil {
		t.Errorf("expected error for page without a registration table")
	}
}

func TestLoadAll(t *testing.T) {
	var agents []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		agents = append(agents, r.Header.Get("User-Agent"))
		w.Write([]byte(openHTML))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "extra.html")
	extra := `<table><tr><th>Name</th><th>Rank</th></tr>
<tr><td>Dan Wu</td><td>7k</td></tr></table>`
	if err := os.WriteFile(path, []byte(extra), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	l := NewLoader(srv.Client())
	got, err := l.LoadAll(context.Background(), []string{srv.URL + "/open", path})
	if err != nil {
		t.Fatalf("LoadAll: %v", err)
	}
	if len(got) != 4 || got[3].Name != "Dan Wu" || got[0].Name != "Ann Lee" {
		t.Errorf("unexpected entries %+v", got)
	}
	if len(agents) != 1 || agents[0] != internal.UserAgent {
		t.Errorf("unexpected user agents %v", agents)
	}

	if _, err := l.LoadAll(context.Background(), []string{srv.URL + "/missing"}); err == nil {
		t.Errorf("expected error for missing roster")
	}
	if _, err := l.Load(context.Background(), filepath.Join(t.TempDir(), "nope.html")); err == nil {
		t.Errorf("expected error for missing file")
	}
}

func TestRegisterSeedsAndSkipsDuplicates(t *testing.T) {
	tourney := mcmahon.NewTournament("t", mcmahon.ScoringStandard)
	tourney.Seeding = mcmahon.Seeding{Enabled: true, Bar: 2, Floor: -5}
	tourney.AddPlayer(mcmahon.NewPlayer("Ann Lee", 3, 101, 0, 6))

	entries := []Entry{
		{Name: "Ann Lee", Rank: 3, AgaID: 101},
		{Name: "Bob Ray", Rank: -5, AgaID: 102},
		{Name: "Cat Kim", Rank: 2},
		{Name: "Dan Wu", Rank: -1},
		{Name: "Bob Twin", Rank: -5, AgaID: 102},
	}
	ids := Register(tourney, entries)
	if diff := cmp.Diff([]mcmahon.PlayerID{1, 2, 3}, ids); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	wantScores := map[mcmahon.PlayerID]int{
		1: mcmahon.SeedScore(-5, 2, -5),
		2: mcmahon.SeedScore(2, 2, -5),
		3: mcmahon.SeedScore(-1, 2, -5),
	}
	for id, want := range wantScores {
		p, err := tourney.Player(id)
		if err != nil {
			t.Fatalf("Player(%d): %v", id, err)
		}
		if p.InitialScore != want || p.Score != want {
			t.Errorf("player %v: expected seed %d, got %d/%d", p.Name, want,
				p.InitialScore, p.Score)
		}
	}
	if wantScores[1] != 0 || wantScores[2] != 6 || wantScores[3] != 4 {
		t.Errorf("unexpected seed ladder %v", wantScores)
	}
}

func TestRegisterNamedDivisionsAcrossImports(t *testing.T) {
	first := `<table><tr><th>Name</th><th>Rank</th><th>Division</th></tr>
<tr><td>Ann</td><td>3d</td><td>Open</td></tr>
<tr><td>Bob</td><td>5k</td><td>Kyu</td></tr></table>`
	second := `<table><tr><th>Name</th><th>Rank</th><th>Division</th></tr>
<tr><td>Cat</td><td>8k</td><td>kyu</td></tr>
<tr><td>Dan</td><td>1d</td><td>OPEN</td></tr></table>`

	tourney := mcmahon.NewTournament("t", mcmahon.ScoringStandard)
	for _, html := range []string{first, second} {
		entries, err := Parse(strings.NewReader(html))
		if err != nil {
			t.Fatalf("Parse: %v", err)
		}
		Register(tourney, entries)
	}

	want := map[string]int{"Ann": 0, "Bob": 1, "Cat": 1, "Dan": 0}
	for _, p := range tourney.Players {
		if p.Division != want[p.Name] {
			t.Errorf("%v: expected division %d, got %d", p.Name, want[p.Name],
				p.Division)
		}
	}
	divs, _ := tourney.Divisions()
	if diff := cmp.Diff([]int{0, 1}, divs); diff != "" {
		t.Errorf("divisions mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterNamedDivisionAfterNumbered(t *testing.T) {
	tourney := mcmahon.NewTournament("t", mcmahon.ScoringStandard)
	tourney.AddPlayer(mcmahon.NewPlayer("Ann", 3, 1, 2, 0))
	Register(tourney, []Entry{{Name: "Bob", Rank: -5, DivisionName: "Kyu"}})
	if got := tourney.Players[1].Division; got != 3 {
		t.Errorf("named division should not reuse numbered one, got %d", got)
	}
}
