// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package docstore treats a single JSON file as a document collection shared by
concurrent requests and processes.

Every read happens under a shared advisory lock and every write under an
exclusive one, so readers never observe a half-written document and writers on
the same path are serialised.

Architecture:

  - Locks: gofrs/flock on a "<file>.lock" sidecar, bounded by a wait timeout.
  - Writes: the full document is written to a temp file, synced, then renamed
    over the target while the exclusive lock is held.
  - Tolerance: [File.Load] degrades a malformed document to the empty value and
    reports it on the logger. Write paths refuse to overwrite a malformed file.

There is no cache. Every operation re-reads from disk inside its lock scope.
*/
package docstore

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// lockRetryDelay is the polling interval while waiting for a contended lock.
const lockRetryDelay = 20 * time.Millisecond

var (
	// ErrLockTimeout is returned when a lock could not be acquired in time.
	ErrLockTimeout = errors.New("docstore: lock wait exceeded")

	// ErrMalformed is returned by strict reads of a document that is not valid JSON.
	ErrMalformed = errors.New("docstore: malformed document")
)

// # File Handle

// File is a JSON document of type T persisted at one path.
//
// A File holds no open descriptors between calls and is safe for concurrent use.
type File[T any] struct {
	path        string
	lockTimeout time.Duration
	logger      *slog.Logger
}

// Open describes the document at path. Nothing is touched on disk until the
// first read or write.
//
// A zero lockTimeout waits for as long as the caller's context allows.
func Open[T any](path string, lockTimeout time.Duration, logger *slog.Logger) *File[T] {
	if logger == nil {
		logger = slog.Default()
	}
	return &File[T]{path: path, lockTimeout: lockTimeout, logger: logger}
}

// Path returns the document's filesystem path.
func (file *File[T]) Path() string {
	return file.path
}

// # Whole-Document Operations

/*
Load reads the document under a shared lock.

A missing file yields the zero value of T. A malformed file also yields the
zero value; the condition is logged as "document_malformed" and not returned.

Returns:
  - T: The decoded document
  - error: Lock or I/O failures
*/
func (file *File[T]) Load(ctx context.Context) (T, error) {
	var empty T

	if _, err := os.Stat(file.path); errors.Is(err, fs.ErrNotExist) {
		return empty, nil
	}

	lock := flock.New(file.lockPath())
	if err := file.acquire(ctx, lock, false); err != nil {
		return empty, err
	}
	defer file.unlock(lock)

	raw, err := os.ReadFile(file.path)
	if errors.Is(err, fs.ErrNotExist) {
		return empty, nil
	}
	if err != nil {
		return empty, fmt.Errorf("docstore: read %s: %w", file.path, err)
	}

	doc, err := decode[T](raw)
	if err != nil {
		file.logger.WarnContext(ctx, "document_malformed",
			slog.String("path", file.path),
			slog.String("error", err.Error()),
		)
		return empty, nil
	}

	return doc, nil
}

// Save replaces the whole document under an exclusive lock, creating the file
// and its directory if absent.
func (file *File[T]) Save(ctx context.Context, doc T) error {
	handle, err := file.Acquire(ctx)
	if err != nil {
		return err
	}
	defer handle.Release()

	return handle.Write(doc)
}

/*
Update runs a read-modify-write cycle inside a single exclusive lock span.

The mutate callback receives a fresh copy read from disk. If it returns an
error nothing is written and that error is returned unchanged.
*/
func (file *File[T]) Update(ctx context.Context, mutate func(doc T) (T, error)) error {
	handle, err := file.Acquire(ctx)
	if err != nil {
		return err
	}
	defer handle.Release()

	doc, err := handle.Read()
	if err != nil {
		return err
	}

	next, err := mutate(doc)
	if err != nil {
		return err
	}

	return handle.Write(next)
}

// # Exclusive Sessions

// Acquire takes the exclusive lock and returns a [Handle] that keeps it until
// [Handle.Release]. It is the building block for multi-document transactions.
func (file *File[T]) Acquire(ctx context.Context) (*Handle[T], error) {
	if err := os.MkdirAll(filepath.Dir(file.path), 0o755); err != nil {
		return nil, fmt.Errorf("docstore: create directory for %s: %w", file.path, err)
	}

	lock := flock.New(file.lockPath())
	if err := file.acquire(ctx, lock, true); err != nil {
		return nil, err
	}

	return &Handle[T]{file: file, lock: lock}, nil
}

// # Internal Helpers

func (file *File[T]) lockPath() string {
	return file.path + ".lock"
}

// acquire blocks on the shared or exclusive lock until it is granted, the
// lock timeout elapses or ctx is done.
func (file *File[T]) acquire(ctx context.Context, lock *flock.Flock, exclusive bool) error {
	if file.lockTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, file.lockTimeout)
		defer cancel()
	}

	var (
		locked bool
		err    error
	)
	if exclusive {
		locked, err = lock.TryLockContext(ctx, lockRetryDelay)
	} else {
		locked, err = lock.TryRLockContext(ctx, lockRetryDelay)
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) || (err == nil && !locked) {
		return fmt.Errorf("%w: %s", ErrLockTimeout, file.path)
	}
	if err != nil {
		return fmt.Errorf("docstore: lock %s: %w", file.path, err)
	}

	return nil
}

func (file *File[T]) unlock(lock *flock.Flock) {
	if err := lock.Unlock(); err != nil {
		file.logger.Error("document_unlock_failed",
			slog.String("path", file.path),
			slog.Any("error", err),
		)
	}
}

// decode parses raw bytes. Blank input is the empty document.
func decode[T any](raw []byte) (T, error) {
	var doc T
	if len(bytes.TrimSpace(raw)) == 0 {
		return doc, nil
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		var empty T
		return empty, err
	}
	return doc, nil
}

// encode renders doc as indented, human-editable JSON.
func encode[T any](doc T) ([]byte, error) {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(doc); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
