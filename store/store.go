/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package store persists tournaments as YAML documents on local disk or in
// Amazon S3.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/mikeb26/mcmahon-td/mcmahon"
)

var (
	ErrExists   = errors.New("tournament already exists")
	ErrNotFound = errors.New("tournament not found")
	ErrLocked   = errors.New("tournament is locked by another process")
)

// Store loads and saves a single tournament.
type Store interface {
	// Create saves t, failing with ErrExists if a tournament is already
	// stored at this location.
	Create(ctx context.Context, t *mcmahon.Tournament) error
	Load(ctx context.Context) (*mcmahon.Tournament, error)
	Save(ctx context.Context, t *mcmahon.Tournament) error
	// Lock claims exclusive write access until the returned func is called.
	Lock(ctx context.Context) (func() error, error)
	String() string
}

// Update loads the tournament under lock, applies fn and saves the result.
// Nothing is saved when fn fails.
func Update(ctx context.Context, s Store,
	fn func(t *mcmahon.Tournament) error) error {

	unlock, err := s.Lock(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := unlock(); err != nil {
			log.Printf("store.update: failed to unlock %v: %v", s, err)
		}
	}()

	t, err := s.Load(ctx)
	if err != nil {
		return err
	}
	if err := fn(t); err != nil {
		return err
	}
	if err := s.Save(ctx, t); err != nil {
		return fmt.Errorf("unable to save %v: %w", s, err)
	}

	return nil
}
