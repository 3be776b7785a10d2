/* Copyright (c) 2013 The s3cache AUTHORS. All rights reserved.
 * Copyright (c) 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file in the current directory for license terms
 *
 * Package s3cache stores and retrieves objects in Amazon S3. Bucket is a thin
 * keyed blob store used for tournament persistence; Cache adapts a Bucket to
 * httpcache.Cache so fetched registration pages can be cached in S3. It is
 * based on the original github.com/sourcegraph/s3cache but uses
 * aws-sdk-go-v2.
 */
package s3cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ErrNotFound is returned when the requested object does not exist.
var ErrNotFound = errors.New("s3 object not found")

// Bucket reads and writes whole objects in a single S3 bucket.
type Bucket struct {
	// Config is the Amazon S3 configuration.
	Config aws.Config

	// Client is the s3 client used when interacting with S3. By default this
	// is initialized in Init() with the default Config, but callers can
	// override it with their own client.
	Client *s3.Client

	name string

	// gzip indicates whether objects are compressed on Put and decompressed
	// on Get. If true, object keys have the suffix ".gz" appended.
	gzip bool
}

// NewBucket returns a Bucket for the named S3 bucket. Callers must invoke
// Init() before use unless they supply their own Client.
func NewBucket(name string, gzip bool) *Bucket {
	return &Bucket{
		name: name,
		gzip: gzip,
	}
}

func (b *Bucket) Name() string {
	return b.name
}

// Init loads the default AWS configuration sources:
// * Environment Variables (e.g. AWS_ACCESS_KEY_ID and AWS_SECRET_KEY)
// * Shared Configuration and Shared Credentials files.
// and verifies that the bucket is reachable.
func (b *Bucket) Init(ctx context.Context) error {
	var err error
	b.Config, err = config.LoadDefaultConfig(ctx)
	if err != nil {
		return fmt.Errorf("s3cache.init: failed to load AWS config: %w", err)
	}
	b.Client = s3.NewFromConfig(b.Config)

	if _, err = b.Client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.name),
	}); err != nil {
		return fmt.Errorf("s3cache.init: head bucket failed for %s: %w", b.name, err)
	}

	return nil
}

func (b *Bucket) objectKey(key string) string {
	if b.gzip {
		return key + ".gz"
	}
	return key
}

// Get returns the object stored under key, or ErrNotFound.
func (b *Bucket) Get(ctx context.Context, key string) ([]byte, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	}

	resp, err := b.Client.GetObject(ctx, input)
	if err != nil {
		if isNotFound(err) {
			return nil, fmt.Errorf("%w: %v/%v", ErrNotFound, b.name, *input.Key)
		}
		return nil, fmt.Errorf("s3cache.get: failed to get object %v/%v: %w",
			b.name, *input.Key, err)
	}
	defer resp.Body.Close()

	var rdr io.Reader = resp.Body
	if b.gzip {
		gr, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("s3cache.get: failed to open compressed object %v/%v: %w",
				b.name, *input.Key, err)
		}
		defer gr.Close()
		rdr = gr
	}
	data, err := io.ReadAll(rdr)
	if err != nil {
		return nil, fmt.Errorf("s3cache.get: failed to read object %v/%v: %w",
			b.name, *input.Key, err)
	}

	return data, nil
}

// Put stores data under key, replacing any existing object.
func (b *Bucket) Put(ctx context.Context, key string, data []byte) error {
	input := &s3.PutObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
		Body:   bytes.NewReader(data),
	}

	if b.gzip {
		var buf bytes.Buffer
		gw := gzip.NewWriter(&buf)
		if _, err := gw.Write(data); err != nil {
			return fmt.Errorf("s3cache.put: failed to gzip data for %v/%v: %w",
				b.name, *input.Key, err)
		}
		if err := gw.Close(); err != nil {
			return fmt.Errorf("s3cache.put: failed to close gzip writer for %v/%v: %w",
				b.name, *input.Key, err)
		}
		input.Body = &buf
		input.ContentEncoding = aws.String("gzip")
	}

	if _, err := b.Client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("s3cache.put: put failed for %v/%v: %w", b.name,
			*input.Key, err)
	}

	return nil
}

// Exists reports whether an object is stored under key.
func (b *Bucket) Exists(ctx context.Context, key string) (bool, error) {
	_, err := b.Client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	})
	if err == nil {
		return true, nil
	}
	if isNotFound(err) {
		return false, nil
	}

	return false, fmt.Errorf("s3cache.exists: head failed for %v/%v: %w", b.name,
		b.objectKey(key), err)
}

func (b *Bucket) Delete(ctx context.Context, key string) error {
	_, err := b.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.name),
		Key:    aws.String(b.objectKey(key)),
	})
	if err != nil {
		return fmt.Errorf("s3cache.delete: delete failed for %v/%v: %w", b.name,
			b.objectKey(key), err)
	}

	return nil
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	code := apiErr.ErrorCode()

	return code == "NoSuchKey" || code == "NotFound"
}
