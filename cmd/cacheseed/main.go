/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/mikeb26/mcmahon-td/internal"
	"github.com/mikeb26/mcmahon-td/roster"
)

// this program exists just to seed the http cache with registration pages
// ahead of an import on tournament day

const fetchDelay = 2 * time.Second

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: cacheseed <roster url>...\n")
		os.Exit(1)
	}
	ctx := context.Background()
	cfg, err := internal.LoadConfig()
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}
	client, err := newSeedClient(ctx, cfg)
	if err != nil {
		log.Fatalf("cacheseed: %v", err)
	}
	seed(ctx, roster.NewLoader(client), os.Args[1:], fetchDelay, os.Stdout)
}

// newSeedClient returns a client caching into the persistent web cache.
// There is no in-memory fallback.
func newSeedClient(ctx context.Context, cfg *internal.Config) (*http.Client, error) {
	if cfg.WebCacheBucket == "" {
		return nil, fmt.Errorf("MM_WEBCACHE_BUCKET is not set; nothing to seed into")
	}

	return internal.NewS3CachedHttpClient(ctx, internal.RosterCacheMaxAge,
		cfg.WebCacheBucket)
}

// seed fetches each source once, pausing between fetches. Failures are
// reported and skipped. It returns the number of sources seeded.
func seed(ctx context.Context, l *roster.Loader, srcs []string,
	delay time.Duration, out io.Writer) int {

	seeded := 0
	for idx, src := range srcs {
		if idx > 0 {
			time.Sleep(delay) // avoid pegging the registration site
		}
		entries, err := l.Load(ctx, src)
		if err != nil {
			// best effort
			log.Printf("cacheseed: %v", err)
			continue
		}
		seeded++
		fmt.Fprintf(out, "seeded %v (%d players)\n", src, len(entries))
	}

	return seeded
}
