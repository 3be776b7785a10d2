/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mikeb26/mcmahon-td/mcmahon"
	"github.com/mikeb26/mcmahon-td/store"
)

type harness struct {
	t    *testing.T
	file string
}

func newHarness(t *testing.T) *harness {
	file := filepath.Join(t.TempDir(), "club.yaml")
	t.Setenv("MM_FILE", file)
	t.Setenv("MM_S3_BUCKET", "")
	t.Setenv("MM_SAMPLE_SIZE", "500")
	t.Setenv("MM_SEED", "7")
	t.Setenv("MM_WEBCACHE_BUCKET", "")

	return &harness{t: t, file: file}
}

// mmtd runs one command and returns its stdout, stderr and exit status.
func (h *harness) mmtd(args ...string) (string, string, int) {
	var out, errOut bytes.Buffer
	code := run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), code
}

func (h *harness) mustRun(args ...string) string {
	h.t.Helper()
	out, errOut, code := h.mmtd(args...)
	if code != exitOK {
		h.t.Fatalf("mmtd %v: exit %d: %s", args, code, errOut)
	}
	return out
}

func (h *harness) load() *mcmahon.Tournament {
	h.t.Helper()
	t, err := store.NewFileStore(h.file).Load(context.Background())
	if err != nil {
		h.t.Fatalf("Load: %v", err)
	}
	return t
}

func TestUnknownCommandAndHelp(t *testing.T) {
	h := newHarness(t)
	out, errOut, code := h.mmtd("bogus")
	if code != exitFailure || !strings.Contains(errOut, "Unknown command") {
		t.Errorf("unexpected result %d %q", code, errOut)
	}
	if !strings.Contains(out, "Usage: mmtd") {
		t.Errorf("expected usage text")
	}
	if out := h.mustRun("help"); !strings.Contains(out, "new-round") {
		t.Errorf("help text missing commands")
	}
	if _, _, code := h.mmtd(); code != exitFailure {
		t.Errorf("expected failure without a command")
	}
}

func TestCreateTwiceIsPrecondition(t *testing.T) {
	h := newHarness(t)
	out := h.mustRun("create", "--name", "Club Night", "--date", "2026-04-11",
		"--handicap")
	if !strings.Contains(out, `handicap tournament "Club Night"`) {
		t.Errorf("unexpected create output %q", out)
	}
	_, errOut, code := h.mmtd("create")
	if code != exitPrecondition {
		t.Errorf("expected exit %d, got %d (%s)", exitPrecondition, code, errOut)
	}

	tourney := h.load()
	if tourney.Scoring != mcmahon.ScoringHandicap || tourney.Date.Year() != 2026 {
		t.Errorf("unexpected tournament %+v", tourney)
	}
}

func TestTournamentFlow(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create", "--mcmahon", "--bar", "2d", "--floor", "10k")
	players := []struct{ name, rank string }{
		{"Ann", "3d"}, {"Bob", "1d"}, {"Cat", "1k"}, {"Dan", "5k"},
	}
	for _, p := range players {
		out := h.mustRun("add-player", "--name", p.name, "--rank", p.rank)
		if !strings.Contains(out, "Added player") {
			t.Errorf("unexpected add-player output %q", out)
		}
	}
	h.mustRun("add-player", "--name", "Eve", "--rank", "2k", "--score", "0")
	h.mustRun("add-player", "--name", "Fay", "--rank", "4k")
	h.mustRun("drop-player", "--id", "5")

	tourney := h.load()
	if tourney.Players[0].InitialScore != mcmahon.SeedScore(3, 2, -10) {
		t.Errorf("Ann was not seeded: %v", tourney.Players[0])
	}
	if tourney.Players[4].InitialScore != 0 {
		t.Errorf("explicit --score ignored: %v", tourney.Players[4])
	}

	// 5 active players cannot be paired without a bye
	h.mustRun("drop-player", "--id", "4")
	out := h.mustRun("new-round")
	if !strings.HasPrefix(out, "Round 1 Pairings:") {
		t.Errorf("unexpected new-round output %q", out)
	}

	_, _, code := h.mmtd("new-round")
	if code != exitPrecondition {
		t.Errorf("pairing an unfinished round should exit %d, got %d",
			exitPrecondition, code)
	}
	_, _, code = h.mmtd("result", "--board", "9", "--winner", "white")
	if code != exitPrecondition {
		t.Errorf("bad board should exit %d, got %d", exitPrecondition, code)
	}
	_, _, code = h.mmtd("result", "--board", "1", "--winner", "5")
	if code != exitPrecondition {
		t.Errorf("winner outside the match should exit %d, got %d",
			exitPrecondition, code)
	}

	h.mustRun("result", "--board", "1", "--winner", "white")
	h.mustRun("result", "--round", "1", "--board", "2", "--winner", "black")
	tourney = h.load()
	if !tourney.RoundIsFinished(0) {
		t.Fatalf("round 1 should be finished")
	}
	m := tourney.Rounds[0].Matches[0]
	if m.Winner != m.White {
		t.Errorf("board 1 winner should be white: %v", m)
	}

	out = h.mustRun("standings")
	if !strings.HasPrefix(out, "Standings after 1 round(s):") {
		t.Errorf("unexpected standings output %q", out)
	}
	out = h.mustRun("wall")
	if !strings.Contains(out, "R1") || !strings.Contains(out, "* withdrawn") {
		t.Errorf("unexpected wall output %q", out)
	}

	out = h.mustRun("new-round", "--samples", "200", "--workers", "2")
	if !strings.HasPrefix(out, "Round 2 Pairings:") {
		t.Errorf("unexpected new-round output %q", out)
	}
	tourney = h.load()
	for _, m := range tourney.Rounds[1].Matches {
		for _, prev := range tourney.Rounds[0].Matches {
			if m.Pair() == prev.Pair() {
				t.Errorf("round 2 repeats pairing %v", m)
			}
		}
	}
	if out := h.mustRun("pairings"); !strings.HasPrefix(out, "Round 2 Pairings:") {
		t.Errorf("unexpected pairings output %q", out)
	}
}

func TestImport(t *testing.T) {
	h := newHarness(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<table><tr><th>Name</th><th>Rank</th><th>AGA ID</th></tr>
<tr><td>Ann</td><td>3d</td><td>11</td></tr>
<tr><td>Bob</td><td>4k</td><td>12</td></tr></table>`)
	}))
	defer srv.Close()

	h.mustRun("create")
	out := h.mustRun("import", srv.URL+"/roster")
	if !strings.Contains(out, "Imported 2 of 2 players") {
		t.Errorf("unexpected import output %q", out)
	}
	out = h.mustRun("import", srv.URL+"/roster")
	if !strings.Contains(out, "Imported 0 of 2 players") {
		t.Errorf("re-import should skip known AGA ids: %q", out)
	}
	if n := len(h.load().Players); n != 2 {
		t.Errorf("expected 2 players, got %d", n)
	}
	if _, _, code := h.mmtd("import"); code != exitFailure {
		t.Errorf("import without sources should fail")
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{nil, exitOK},
		{fmt.Errorf("x: %w", mcmahon.ErrNoValidPairing), exitPrecondition},
		{fmt.Errorf("x: %w", store.ErrExists), exitPrecondition},
		{fmt.Errorf("x: %w", store.ErrNotFound), exitFailure},
		{errUsage, exitFailure},
	}
	for _, tc := range tests {
		if got := exitCode(tc.err); got != tc.want {
			t.Errorf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestImportKeepsNamedDivisionsAcrossRuns(t *testing.T) {
	h := newHarness(t)
	pages := map[string]string{
		"/a": `<table><tr><th>Name</th><th>Rank</th><th>Division</th></tr>
<tr><td>Ann</td><td>3d</td><td>Open</td></tr>
<tr><td>Bob</td><td>5k</td><td>Kyu</td></tr></table>`,
		"/b": `<table><tr><th>Name</th><th>Rank</th><th>Division</th></tr>
<tr><td>Cat</td><td>9k</td><td>Kyu</td></tr></table>`,
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pages[r.URL.Path])
	}))
	defer srv.Close()

	h.mustRun("create")
	h.mustRun("import", srv.URL+"/a")
	h.mustRun("import", srv.URL+"/b")

	tourney := h.load()
	if bob, cat := tourney.Players[1], tourney.Players[2]; bob.Division != cat.Division {
		t.Errorf("Kyu players split across divisions %d and %d", bob.Division,
			cat.Division)
	}
	if tourney.Players[0].Division == tourney.Players[2].Division {
		t.Errorf("Open and Kyu share division %d", tourney.Players[0].Division)
	}
}

func TestStaleLockIsPrecondition(t *testing.T) {
	h := newHarness(t)
	h.mustRun("create")
	lock := h.file + ".lock"
	if err := os.WriteFile(lock, []byte("crashed\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	_, errOut, code := h.mmtd("add-player", "--name", "X", "--rank", "3d",
		"--lock-timeout", "100ms")
	if code != exitPrecondition {
		t.Errorf("expected exit %d, got %d (%s)", exitPrecondition, code, errOut)
	}
	if !strings.Contains(errOut, lock) {
		t.Errorf("expected lock file in error, got %q", errOut)
	}

	t.Setenv("MM_LOCK_TIMEOUT", "50ms")
	_, errOut, code = h.mmtd("add-player", "--name", "Y", "--rank", "1k")
	if code != exitPrecondition || !strings.Contains(errOut, lock) {
		t.Errorf("expected exit %d with MM_LOCK_TIMEOUT, got %d (%s)",
			exitPrecondition, code, errOut)
	}
	if n := len(h.load().Players); n != 0 {
		t.Errorf("locked updates should not save, got %d players", n)
	}
}
