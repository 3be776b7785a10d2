/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gregjones/httpcache"
)

func TestHttpClientCachesResponses(t *testing.T) {
	var hits atomic.Int32
	var agent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		agent.Store(r.Header.Get("User-Agent"))
		w.Header().Set("Cache-Control", "no-store")
		w.Write([]byte("<table></table>"))
	}))
	defer srv.Close()

	client := newCachedClient(httpcache.NewMemoryCache(), http.DefaultTransport,
		5*time.Minute)

	for i := 0; i < 3; i++ {
		resp, err := client.Get(srv.URL)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		data, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			t.Fatalf("Failed to read response body: %v", err)
		}
		if string(data) != "<table></table>" {
			t.Errorf("unexpected body %q", data)
		}
		if i > 0 && resp.Header.Get(httpcache.XFromCache) != "1" {
			t.Errorf("object not cached on fetch %d", i)
		}
	}
	if hits.Load() != 1 {
		t.Errorf("expected 1 origin hit, got %d", hits.Load())
	}
	if agent.Load() != UserAgent {
		t.Errorf("expected default user agent, got %v", agent.Load())
	}
}

func TestNewCachedHttpClientWithoutBucket(t *testing.T) {
	client := NewCachedHttpClient(context.Background(), time.Minute, "")
	if client == http.DefaultClient {
		t.Fatalf("expected a caching client")
	}
	if _, ok := client.Transport.(*httpcache.Transport); !ok {
		t.Errorf("expected httpcache transport, got %T", client.Transport)
	}
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("MM_FILE", "")
	os.Unsetenv("MM_FILE")
	t.Setenv("MM_SAMPLE_SIZE", "250")
	t.Setenv("MM_SEED", "42")

	cfg, err := LoadConfig(t.TempDir() + "/missing.env")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.File != "tournament.yaml" {
		t.Errorf("expected default file tournament.yaml, got %v", cfg.File)
	}
	if cfg.LockTimeout != 10*time.Second {
		t.Errorf("expected default lock timeout 10s, got %v", cfg.LockTimeout)
	}
	if cfg.SampleSize != 250 || cfg.Seed != 42 {
		t.Errorf("unexpected config %+v", cfg)
	}

	t.Setenv("MM_SAMPLE_SIZE", "0")
	if _, err := LoadConfig(t.TempDir() + "/missing.env"); err == nil {
		t.Errorf("expected error for zero sample size")
	}
}

func TestLoadConfigDotenv(t *testing.T) {
	path := t.TempDir() + "/test.env"
	if err := os.WriteFile(path, []byte("MM_WORKERS=3\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv("MM_WORKERS", "")
	os.Unsetenv("MM_WORKERS")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	os.Unsetenv("MM_WORKERS")
	if cfg.Workers != 3 {
		t.Errorf("expected workers from dotenv, got %d", cfg.Workers)
	}
}

func TestParseDateOrZero(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"", time.Time{}},
		{"null", time.Time{}},
		{"2026-04-11", time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)},
		{"April 11, 2026", time.Date(2026, 4, 11, 0, 0, 0, 0, time.UTC)},
	}
	for _, tc := range tests {
		got, err := ParseDateOrZero(tc.in)
		if err != nil {
			t.Errorf("ParseDateOrZero(%q): %v", tc.in, err)
			continue
		}
		if !got.Equal(tc.want) {
			t.Errorf("ParseDateOrZero(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
	if _, err := ParseDateOrZero("bogus"); err == nil {
		t.Errorf("expected error for garbage date")
	}
}

func TestNewS3CachedHttpClientRequiresBucket(t *testing.T) {
	if _, err := NewS3CachedHttpClient(context.Background(), time.Minute, ""); err == nil {
		t.Errorf("expected error without a bucket")
	}
}
