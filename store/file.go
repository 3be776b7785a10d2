/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mikeb26/mcmahon-td/mcmahon"
)

const lockPollInterval = 50 * time.Millisecond

// FileStore keeps a tournament in a local YAML file. Writers coordinate via
// a sibling ".lock" file holding the owner's token.
type FileStore struct {
	Path string
	// LockTimeout bounds how long Lock waits for another holder; zero waits
	// until the caller's context ends.
	LockTimeout time.Duration
}

func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

func (fs *FileStore) String() string {
	return fs.Path
}

func (fs *FileStore) Create(ctx context.Context, t *mcmahon.Tournament) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	f, err := os.OpenFile(fs.Path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %v", ErrExists, fs.Path)
		}
		return fmt.Errorf("unable to create %v: %w", fs.Path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("unable to write %v: %w", fs.Path, err)
	}

	return f.Close()
}

func (fs *FileStore) Load(ctx context.Context) (*mcmahon.Tournament, error) {
	data, err := os.ReadFile(fs.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %v", ErrNotFound, fs.Path)
		}
		return nil, fmt.Errorf("unable to read %v: %w", fs.Path, err)
	}
	t, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", fs.Path, err)
	}

	return t, nil
}

// Save replaces the file atomically by renaming a fully written temp file.
func (fs *FileStore) Save(ctx context.Context, t *mcmahon.Tournament) error {
	data, err := Encode(t)
	if err != nil {
		return err
	}
	dir, base := filepath.Split(fs.Path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, base+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to create temp file for %v: %w", fs.Path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write %v: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("unable to close %v: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), fs.Path); err != nil {
		return fmt.Errorf("unable to replace %v: %w", fs.Path, err)
	}

	return nil
}

func (fs *FileStore) lockPath() string {
	return fs.Path + ".lock"
}

// Lock creates the lock file, polling until ctx is done or LockTimeout
// passes if another process holds it. The returned func removes the lock only if it is still ours.
func (fs *FileStore) Lock(ctx context.Context) (func() error, error) {
	if fs.LockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, fs.LockTimeout)
		defer cancel()
	}
	token := uuid.NewString()
	for {
		err := tryLock(fs.lockPath(), token)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrLocked) {
			return nil, err
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v is held by %v (remove it if no other writer is running): %v",
				ErrLocked, fs.Path, fs.lockPath(), ctx.Err())
		case <-time.After(lockPollInterval):
		}
	}

	unlock := func() error {
		owner, err := os.ReadFile(fs.lockPath())
		if err != nil {
			return fmt.Errorf("unable to read lock %v: %w", fs.lockPath(), err)
		}
		if strings.TrimSpace(string(owner)) != token {
			return fmt.Errorf("lock %v was taken over by %s", fs.lockPath(),
				owner)
		}
		return os.Remove(fs.lockPath())
	}

	return unlock, nil
}

func tryLock(path string, token string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrLocked
		}
		return fmt.Errorf("unable to create lock %v: %w", path, err)
	}
	if _, err := f.WriteString(token + "\n"); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("unable to write lock %v: %w", path, err)
	}

	return f.Close()
}
