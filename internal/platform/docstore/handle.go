// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package docstore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// # Handle

// Handle is an exclusive lock on one document.
//
// It remembers the bytes seen by [Handle.Read] so that a published write can
// be undone with [Handle.Restore] while the lock is still held.
type Handle[T any] struct {
	file     *File[T]
	lock     *flock.Flock
	original []byte
	existed  bool
	read     bool
	released bool
}

// Path returns the locked document's path.
func (handle *Handle[T]) Path() string {
	return handle.file.path
}

/*
Read loads the document fresh from disk.

Unlike [File.Load] it is strict: a malformed document returns [ErrMalformed]
so that the caller does not overwrite content it could not understand.
*/
func (handle *Handle[T]) Read() (T, error) {
	var empty T

	raw, err := os.ReadFile(handle.file.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		handle.original, handle.existed, handle.read = nil, false, true
		return empty, nil
	case err != nil:
		return empty, fmt.Errorf("docstore: read %s: %w", handle.file.path, err)
	}

	handle.original, handle.existed, handle.read = raw, true, true

	doc, err := decode[T](raw)
	if err != nil {
		return empty, fmt.Errorf("%w: %s: %v", ErrMalformed, handle.file.path, err)
	}

	return doc, nil
}

// Write stages and immediately publishes doc.
func (handle *Handle[T]) Write(doc T) error {
	staged, err := handle.Stage(doc)
	if err != nil {
		return err
	}
	return staged.Commit()
}

// Stage serialises doc into a synced temp file next to the target without
// making it visible. Call [Staged.Commit] to publish or [Staged.Discard].
func (handle *Handle[T]) Stage(doc T) (*Staged, error) {
	if handle.released {
		return nil, fmt.Errorf("docstore: stage %s: handle released", handle.file.path)
	}

	payload, err := encode(doc)
	if err != nil {
		return nil, fmt.Errorf("docstore: encode %s: %w", handle.file.path, err)
	}

	tempPath, err := writeTemp(handle.file.path, payload)
	if err != nil {
		return nil, err
	}

	return &Staged{tempPath: tempPath, target: handle.file.path}, nil
}

// Restore puts back the content observed by the last [Handle.Read]. A file
// that did not exist at read time is removed again.
func (handle *Handle[T]) Restore() error {
	if !handle.read {
		return fmt.Errorf("docstore: restore %s: document was never read", handle.file.path)
	}

	if !handle.existed {
		if err := os.Remove(handle.file.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("docstore: restore %s: %w", handle.file.path, err)
		}
		return nil
	}

	tempPath, err := writeTemp(handle.file.path, handle.original)
	if err != nil {
		return err
	}

	return (&Staged{tempPath: tempPath, target: handle.file.path}).Commit()
}

// Release drops the exclusive lock. It is safe to call more than once.
func (handle *Handle[T]) Release() error {
	if handle.released {
		return nil
	}
	handle.released = true

	if err := handle.lock.Unlock(); err != nil {
		return fmt.Errorf("docstore: unlock %s: %w", handle.file.path, err)
	}
	return nil
}

// # Staged Writes

// Staged is a fully written, not yet visible replacement for a document.
type Staged struct {
	tempPath string
	target   string
	done     bool
}

// Commit atomically replaces the target with the staged content.
func (staged *Staged) Commit() error {
	if staged.done {
		return nil
	}
	staged.done = true

	if err := os.Rename(staged.tempPath, staged.target); err != nil {
		_ = os.Remove(staged.tempPath)
		return fmt.Errorf("docstore: publish %s: %w", staged.target, err)
	}
	return nil
}

// Discard removes the staged content without publishing it.
func (staged *Staged) Discard() {
	if staged.done {
		return
	}
	staged.done = true
	_ = os.Remove(staged.tempPath)
}

// writeTemp writes payload to a synced temp file in target's directory.
func writeTemp(target string, payload []byte) (string, error) {
	temp, err := os.CreateTemp(filepath.Dir(target), filepath.Base(target)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("docstore: create temp for %s: %w", target, err)
	}

	tempPath := temp.Name()
	fail := func(err error) (string, error) {
		_ = temp.Close()
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("docstore: write %s: %w", target, err)
	}

	if _, err := temp.Write(payload); err != nil {
		return fail(err)
	}
	if err := temp.Sync(); err != nil {
		return fail(err)
	}
	if err := temp.Chmod(0o644); err != nil {
		return fail(err)
	}
	if err := temp.Close(); err != nil {
		_ = os.Remove(tempPath)
		return "", fmt.Errorf("docstore: write %s: %w", target, err)
	}

	return tempPath, nil
}
