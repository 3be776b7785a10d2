/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mikeb26/mcmahon-td/internal"
	"github.com/mikeb26/mcmahon-td/mcmahon"
	"github.com/mikeb26/mcmahon-td/s3cache"
	"github.com/mikeb26/mcmahon-td/store"
)

//go:embed help.txt
var helpText string

const (
	exitOK           = 0
	exitFailure      = 1
	exitPrecondition = 2
)

var errUsage = errors.New("usage error")

// cmdEnv carries what every command handler needs.
type cmdEnv struct {
	cfg *internal.Config
	out io.Writer
}

// cmdHandler defines the signature for command handler functions.
type cmdHandler func(ctx context.Context, env *cmdEnv, args []string) error

// commands maps command names to their respective handler functions.
var commands = map[string]cmdHandler{
	"help":        handleHelp,
	"create":      handleCreate,
	"add-player":  handleAddPlayer,
	"import":      handleImport,
	"drop-player": handleDropPlayer,
	"new-round":   handleNewRound,
	"result":      handleResult,
	"standings":   handleStandings,
	"pairings":    handlePairings,
	"wall":        handleWall,
}

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, out io.Writer,
	errOut io.Writer) int {

	if len(args) < 1 {
		fmt.Fprintf(out, "%v", helpText)
		return exitFailure
	}
	handler, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(errOut, "Unknown command: %s\n", args[0])
		fmt.Fprintf(out, "%v", helpText)
		return exitFailure
	}

	cfg, err := internal.LoadConfig()
	if err != nil {
		fmt.Fprintf(errOut, "mmtd: %v\n", err)
		return exitFailure
	}
	err = handler(ctx, &cmdEnv{cfg: cfg, out: out}, args[1:])
	if err == nil {
		return exitOK
	}
	if errors.Is(err, flag.ErrHelp) {
		return exitOK
	}
	fmt.Fprintf(errOut, "mmtd %v: %v\n", args[0], err)

	return exitCode(err)
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case mcmahon.IsPrecondition(err), errors.Is(err, store.ErrExists),
		errors.Is(err, store.ErrLocked):
		return exitPrecondition
	default:
		return exitFailure
	}
}

// storeFlags registers the flags shared by every tournament command.
type storeFlags struct {
	file        *string
	bucket      *string
	lockTimeout *time.Duration
}

func newFlagSet(env *cmdEnv, name string) (*flag.FlagSet, storeFlags) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(env.out)
	sf := storeFlags{
		file:        fs.String("file", env.cfg.File, "Tournament file"),
		bucket:      fs.String("bucket", env.cfg.S3Bucket, "S3 bucket holding the tournament"),
		lockTimeout: fs.Duration("lock-timeout", env.cfg.LockTimeout,
			"How long to wait for another writer's lock"),
	}

	return fs, sf
}

func (sf storeFlags) open(ctx context.Context, env *cmdEnv) (store.Store, error) {
	if *sf.bucket == "" {
		fs := store.NewFileStore(*sf.file)
		fs.LockTimeout = *sf.lockTimeout
		return fs, nil
	}
	b := s3cache.NewBucket(*sf.bucket, env.cfg.S3Gzip)
	if err := b.Init(ctx); err != nil {
		return nil, err
	}

	return store.NewS3Store(b, *sf.file), nil
}

func handleHelp(ctx context.Context, env *cmdEnv, args []string) error {
	fmt.Fprintf(env.out, "%v", helpText)
	return nil
}
