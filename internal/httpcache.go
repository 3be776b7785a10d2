/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package internal

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gregjones/httpcache"
	"github.com/mikeb26/mcmahon-td/s3cache"
)

// NewCachedHttpClient returns an http.Client that caches responses in the
// named S3 bucket. With no bucket, or if the bucket cannot be reached, it
// falls back to an in-memory cache. Origin cache headers are rewritten so
// every response is kept for maxAge.
func NewCachedHttpClient(ctx context.Context, maxAge time.Duration,
	bucket string) *http.Client {

	if bucket != "" {
		client, err := NewS3CachedHttpClient(ctx, maxAge, bucket)
		if err == nil {
			return client
		}
		log.Printf("httpcache: warning %v; falling back to memory cache", err)
	}

	return newCachedClient(httpcache.NewMemoryCache(), http.DefaultTransport,
		maxAge)
}

// NewS3CachedHttpClient is NewCachedHttpClient without the in-memory
// fallback: it fails if bucket is empty or cannot be reached.
func NewS3CachedHttpClient(ctx context.Context, maxAge time.Duration,
	bucket string) (*http.Client, error) {

	if bucket == "" {
		return nil, fmt.Errorf("no S3 cache bucket configured")
	}
	b := s3cache.NewBucket(bucket, false)
	if err := b.Init(ctx); err != nil {
		return nil, fmt.Errorf("failed to init S3 cache %v: %w", bucket, err)
	}

	return newCachedClient(s3cache.NewCache(ctx, b, true), http.DefaultTransport,
		maxAge), nil
}

func newCachedClient(cache httpcache.Cache, rt http.RoundTripper,
	maxAge time.Duration) *http.Client {

	hc := httpcache.NewTransport(cache)
	// origin servers for registration pages usually forbid caching, so the
	// headers are replaced before httpcache sees them
	hc.Transport = &HeaderOverrideTransport{
		wrappedRT: rt,
		Request: func(req *http.Request) {
			if req.Header.Get("User-Agent") == "" {
				req.Header.Set("User-Agent", UserAgent)
			}
		},
		Response: func(resp *http.Response) error {
			resp.Header.Del("Pragma")
			resp.Header.Del("Expires")
			resp.Header.Del("Cache-Control")
			resp.Header.Set("Cache-Control", fmt.Sprintf("public, max-age=%d", int(maxAge/time.Second)))
			return nil
		},
	}

	return &http.Client{Transport: hc}
}

type HeaderOverrideTransport struct {
	Request  func(req *http.Request)
	Response func(resp *http.Response) error

	wrappedRT http.RoundTripper
}

// RoundTrip applies Request and Response hooks around the underlying transport.
func (t *HeaderOverrideTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req2 := req.Clone(req.Context())
	if t.Request != nil {
		t.Request(req2)
	}

	resp, err := t.wrappedRT.RoundTrip(req2)
	if err != nil {
		return nil, err
	}

	if t.Response != nil {
		if err := t.Response(resp); err != nil {
			return nil, err
		}
	}
	return resp, nil
}
