/* Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 */
package s3cache

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log"
)

// Cache implements httpcache.Cache on top of a Bucket. httpcache's interface
// carries no context, so the one given to NewCache is used for every request.
type Cache struct {
	bucket    *Bucket
	logErrors bool
	ctx       context.Context
}

func NewCache(ctx context.Context, bucket *Bucket, logErrors bool) *Cache {
	return &Cache{
		bucket:    bucket,
		logErrors: logErrors,
		ctx:       ctx,
	}
}

func (c *Cache) Get(key string) ([]byte, bool) {
	data, err := c.bucket.Get(c.ctx, cacheKeyToObjectKey(key))
	if err != nil {
		// not found just indicates a cache miss
		if c.logErrors && !errors.Is(err, ErrNotFound) {
			log.Printf("%v", err)
		}
		return []byte{}, false
	}

	return data, true
}

func (c *Cache) Set(key string, data []byte) {
	if err := c.bucket.Put(c.ctx, cacheKeyToObjectKey(key), data); err != nil {
		if c.logErrors {
			log.Printf("%v", err)
		}
	}
}

func (c *Cache) Delete(key string) {
	if err := c.bucket.Delete(c.ctx, cacheKeyToObjectKey(key)); err != nil {
		if c.logErrors {
			log.Printf("%v", err)
		}
	}
}

func cacheKeyToObjectKey(key string) string {
	const PathPrefix = "s3cache"

	h := md5.New()
	io.WriteString(h, key)

	return fmt.Sprintf("/%v/%v", PathPrefix, hex.EncodeToString(h.Sum(nil)))
}
