/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mikeb26/mcmahon-td/internal"
	"github.com/mikeb26/mcmahon-td/mcmahon"
	"github.com/mikeb26/mcmahon-td/roster"
	"github.com/mikeb26/mcmahon-td/store"
)

func handleCreate(ctx context.Context, env *cmdEnv, args []string) error {
	fs, sf := newFlagSet(env, "create")
	name := fs.String("name", "", "Tournament name (default: file name)")
	date := fs.String("date", "", "Tournament date")
	handicap := fs.Bool("handicap", false, "Pair by rank as well as score")
	mm := fs.Bool("mcmahon", false, "Seed initial scores from rank")
	bar := fs.String("bar", "3d", "McMahon bar")
	floor := fs.String("floor", "20k", "McMahon floor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	scoring := mcmahon.ScoringStandard
	if *handicap {
		scoring = mcmahon.ScoringHandicap
	}
	if *name == "" {
		base := filepath.Base(*sf.file)
		*name = strings.TrimSuffix(base, filepath.Ext(base))
	}
	t := mcmahon.NewTournament(*name, scoring)

	var err error
	t.Date, err = internal.ParseDateOrZero(*date)
	if err != nil {
		return fmt.Errorf("bad --date %q: %w", *date, err)
	}
	if *mm {
		t.Seeding.Enabled = true
		if t.Seeding.Bar, err = mcmahon.ParseRank(*bar); err != nil {
			return fmt.Errorf("bad --bar: %w", err)
		}
		if t.Seeding.Floor, err = mcmahon.ParseRank(*floor); err != nil {
			return fmt.Errorf("bad --floor: %w", err)
		}
	}

	s, err := sf.open(ctx, env)
	if err != nil {
		return err
	}
	if err := s.Create(ctx, t); err != nil {
		return err
	}
	fmt.Fprintf(env.out, "Created %v tournament %q in %v\n", t.Scoring, t.Name, s)

	return nil
}

func handleAddPlayer(ctx context.Context, env *cmdEnv, args []string) error {
	fs, sf := newFlagSet(env, "add-player")
	name := fs.String("name", "", "Player name")
	rankStr := fs.String("rank", "", "Rank, e.g. 3d or 5k")
	aga := fs.Int("aga", 0, "AGA id")
	division := fs.Int("division", 0, "Division")
	score := fs.Int("score", 0, "Initial score (default: McMahon seed)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("%w: --name is required", errUsage)
	}
	rank, err := mcmahon.ParseRank(*rankStr)
	if err != nil {
		return fmt.Errorf("bad --rank: %w", err)
	}
	scoreSet := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "score" {
			scoreSet = true
		}
	})

	s, err := sf.open(ctx, env)
	if err != nil {
		return err
	}
	return store.Update(ctx, s, func(t *mcmahon.Tournament) error {
		initial := *score
		if !scoreSet {
			initial = t.SeedFor(rank)
		}
		p := mcmahon.NewPlayer(*name, rank, *aga, *division, initial)
		id := t.AddPlayer(p)
		fmt.Fprintf(env.out, "Added player %d: %v\n", id, p)
		return nil
	})
}

func handleImport(ctx context.Context, env *cmdEnv, args []string) error {
	fs, sf := newFlagSet(env, "import")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return fmt.Errorf("%w: at least one roster url or file is required",
			errUsage)
	}

	client := internal.NewCachedHttpClient(ctx, internal.RosterCacheMaxAge,
		env.cfg.WebCacheBucket)
	entries, err := roster.NewLoader(client).LoadAll(ctx, fs.Args())
	if err != nil {
		return err
	}

	s, err := sf.open(ctx, env)
	if err != nil {
		return err
	}
	return store.Update(ctx, s, func(t *mcmahon.Tournament) error {
		ids := roster.Register(t, entries)
		for _, id := range ids {
			fmt.Fprintf(env.out, "Added player %d: %v\n", id, t.Players[id])
		}
		fmt.Fprintf(env.out, "Imported %d of %d players\n", len(ids),
			len(entries))
		return nil
	})
}

func handleDropPlayer(ctx context.Context, env *cmdEnv, args []string) error {
	fs, sf := newFlagSet(env, "drop-player")
	id := fs.Int("id", -1, "Player id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := sf.open(ctx, env)
	if err != nil {
		return err
	}
	return store.Update(ctx, s, func(t *mcmahon.Tournament) error {
		if err := t.DropPlayer(mcmahon.PlayerID(*id)); err != nil {
			return err
		}
		fmt.Fprintf(env.out, "Dropped player %d: %v\n", *id,
			t.Players[mcmahon.PlayerID(*id)])
		return nil
	})
}

func handleNewRound(ctx context.Context, env *cmdEnv, args []string) error {
	fs, sf := newFlagSet(env, "new-round")
	samples := fs.Int("samples", env.cfg.SampleSize, "Orderings sampled per division")
	workers := fs.Int("workers", env.cfg.Workers, "Sampling goroutines (0: one per CPU)")
	seed := fs.Uint64("seed", env.cfg.Seed, "Random seed (0: random)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *samples <= 0 {
		return fmt.Errorf("%w: --samples must be positive", errUsage)
	}

	s, err := sf.open(ctx, env)
	if err != nil {
		return err
	}
	return store.Update(ctx, s, func(t *mcmahon.Tournament) error {
		if n := len(t.Rounds); n > 0 && !t.RoundIsFinished(n-1) {
			return fmt.Errorf("%w: round %d", mcmahon.ErrRoundNotFinished, n)
		}
		if err := t.Recompute(); err != nil {
			return err
		}

		pr := mcmahon.NewPairer(*samples, newRand(*seed))
		pr.Workers = *workers
		pairing, err := pr.Generate(t)
		if err != nil {
			return err
		}
		if err := t.StartNewRound(pairing); err != nil {
			return err
		}
		fmt.Fprintf(env.out, "%v", mcmahon.BuildPairingsOutput(t))
		return nil
	})
}

func newRand(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

func handleResult(ctx context.Context, env *cmdEnv, args []string) error {
	fs, sf := newFlagSet(env, "result")
	round := fs.Int("round", 0, "Round number (default: latest)")
	board := fs.Int("board", 0, "Board number")
	winner := fs.String("winner", "", "white, black or the winner's player id")
	if err := fs.Parse(args); err != nil {
		return err
	}

	s, err := sf.open(ctx, env)
	if err != nil {
		return err
	}
	return store.Update(ctx, s, func(t *mcmahon.Tournament) error {
		idx := *round - 1
		if *round == 0 {
			idx = len(t.Rounds) - 1
		}
		if idx < 0 || idx >= len(t.Rounds) {
			return fmt.Errorf("%w: %d (have %d)", mcmahon.ErrRoundNotFound,
				idx+1, len(t.Rounds))
		}
		m, err := t.Rounds[idx].Board(*board)
		if err != nil {
			return err
		}
		id, err := parseWinner(m, *winner)
		if err != nil {
			return err
		}
		if err := t.AddResult(idx, *board, id); err != nil {
			return err
		}
		fmt.Fprintf(env.out, "Round %d board %d: %v wins\n", idx+1, *board,
			t.Players[id])
		return nil
	})
}

func parseWinner(m *mcmahon.Match, s string) (mcmahon.PlayerID, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "white", "w":
		return m.White, nil
	case "black", "b":
		return m.Black, nil
	case "":
		return mcmahon.NoPlayer, fmt.Errorf("%w: --winner is required",
			mcmahon.ErrInvalidWinner)
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return mcmahon.NoPlayer, fmt.Errorf("%w: %q", mcmahon.ErrInvalidWinner, s)
	}

	return mcmahon.PlayerID(n), nil
}

// loadScored loads the tournament read-only with scores rebuilt from the
// finished rounds.
func loadScored(ctx context.Context, env *cmdEnv, name string,
	args []string) (*mcmahon.Tournament, error) {

	fs, sf := newFlagSet(env, name)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	s, err := sf.open(ctx, env)
	if err != nil {
		return nil, err
	}
	t, err := s.Load(ctx)
	if err != nil {
		return nil, err
	}
	if err := t.Recompute(); err != nil {
		return nil, err
	}

	return t, nil
}

func handleStandings(ctx context.Context, env *cmdEnv, args []string) error {
	t, err := loadScored(ctx, env, "standings", args)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%v", mcmahon.BuildStandingsOutput(t))
	return nil
}

func handlePairings(ctx context.Context, env *cmdEnv, args []string) error {
	fs, sf := newFlagSet(env, "pairings")
	if err := fs.Parse(args); err != nil {
		return err
	}
	s, err := sf.open(ctx, env)
	if err != nil {
		return err
	}
	t, err := s.Load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%v", mcmahon.BuildPairingsOutput(t))
	return nil
}

func handleWall(ctx context.Context, env *cmdEnv, args []string) error {
	t, err := loadScored(ctx, env, "wall", args)
	if err != nil {
		return err
	}
	fmt.Fprintf(env.out, "%v", mcmahon.BuildWallListOutput(t))
	return nil
}
