// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/docstore"
	"github.com/taibuivan/inkwell/pkg/pointer"
)

// # Move Transaction

/*
moveTransaction holds exclusive locks on both report collections.

Locks are always taken active first, archive second. Every transaction uses
the same order, so two moves in opposite directions cannot deadlock.

Lifecycle:
 1. [beginMove] locks both files and reads them fresh.
 2. [moveTransaction.apply] edits the in-memory lists and writes both back.
 3. [moveTransaction.release] unlocks archive, then active.
*/
type moveTransaction struct {
	active  *docstore.Handle[[]Report]
	archive *docstore.Handle[[]Report]

	activeReports  []Report
	archiveReports []Report
}

// beginMove acquires both locks in order. If the second lock fails the first
// is released before returning, so a failed begin holds nothing.
func beginMove(ctx context.Context, active, archive *docstore.File[[]Report]) (*moveTransaction, error) {
	activeHandle, err := active.Acquire(ctx)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("lock active reports: %w", err))
	}

	archiveHandle, err := archive.Acquire(ctx)
	if err != nil {
		_ = activeHandle.Release()
		return nil, apperr.Storage(fmt.Errorf("lock archived reports: %w", err))
	}

	tx := &moveTransaction{active: activeHandle, archive: archiveHandle}

	// The lock says nothing about what is on disk now, so read both again.
	if tx.activeReports, err = activeHandle.Read(); err != nil {
		tx.release(ctx)
		return nil, apperr.Storage(err)
	}
	if tx.archiveReports, err = archiveHandle.Read(); err != nil {
		tx.release(ctx)
		return nil, apperr.Storage(err)
	}

	return tx, nil
}

/*
apply moves report id according to action and persists both collections.

Returns:
  - *Report: The moved report
  - error: NotFound, InvalidAction (nothing written) or Storage (nothing changed)
*/
func (tx *moveTransaction) apply(id string, action Action, at time.Time) (*Report, error) {
	source, index := tx.locate(id)
	if source == nil {
		return nil, apperr.NotFound("Report")
	}

	current := (*source)[index]
	next, ok := current.Status.Apply(action)
	if !ok {
		return nil, apperr.InvalidAction(fmt.Sprintf("Cannot %s a report that is %s", action, current.Status))
	}

	moved := current
	moved.Status = next
	moved.UpdatedAt = pointer.To(at.UTC())

	// Remove, then append to the collection matching the new status. For
	// in-place transitions source and target are the same list.
	*source = remove(*source, index)
	target := tx.list(next.Collection())
	*target = append(*target, moved)

	if err := tx.commit(); err != nil {
		return nil, err
	}

	return &moved, nil
}

// commit writes both collections, even when only one changed.
//
// Both payloads are staged before either is published. If publishing archive
// fails after active was published, active is restored to what was read.
func (tx *moveTransaction) commit() error {
	stagedActive, err := tx.active.Stage(dense(tx.activeReports))
	if err != nil {
		return apperr.Storage(err)
	}

	stagedArchive, err := tx.archive.Stage(dense(tx.archiveReports))
	if err != nil {
		stagedActive.Discard()
		return apperr.Storage(err)
	}

	if err := stagedActive.Commit(); err != nil {
		stagedArchive.Discard()
		return apperr.Storage(err)
	}

	if err := stagedArchive.Commit(); err != nil {
		if restoreErr := tx.active.Restore(); restoreErr != nil {
			return apperr.Storage(fmt.Errorf("%w (restore active: %v)", err, restoreErr))
		}
		return apperr.Storage(err)
	}

	return nil
}

// release unlocks in reverse acquisition order.
func (tx *moveTransaction) release(ctx context.Context) {
	for _, handle := range []*docstore.Handle[[]Report]{tx.archive, tx.active} {
		if err := handle.Release(); err != nil {
			ctxutil.GetLogger(ctx).ErrorContext(ctx, "report_unlock_failed",
				slog.String("path", handle.Path()),
				slog.Any("error", err),
			)
		}
	}
}

// locate searches active first, then archive.
func (tx *moveTransaction) locate(id string) (*[]Report, int) {
	for _, list := range []*[]Report{&tx.activeReports, &tx.archiveReports} {
		for index, report := range *list {
			if report.ID == id {
				return list, index
			}
		}
	}
	return nil, -1
}

func (tx *moveTransaction) list(name Collection) *[]Report {
	if name == CollectionArchive {
		return &tx.archiveReports
	}
	return &tx.activeReports
}

// remove returns a dense copy of reports without the element at index.
func remove(reports []Report, index int) []Report {
	out := make([]Report, 0, len(reports)-1)
	out = append(out, reports[:index]...)
	return append(out, reports[index+1:]...)
}
