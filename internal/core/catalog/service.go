// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/docstore"
	"github.com/taibuivan/inkwell/pkg/pagination"
	"github.com/taibuivan/inkwell/pkg/slice"
)

// # Service Layer

// Service serves the reconciled archive and maintains chapter records.
type Service struct {
	engine   *Engine
	chapters *docstore.File[map[string]ChapterRecord]
	pageSize int
}

// NewService constructs a new [Service]. A non-positive pageSize falls back
// to [pagination.DefaultLimit].
func NewService(engine *Engine, chapters *docstore.File[map[string]ChapterRecord], pageSize int) *Service {
	if pageSize < 1 {
		pageSize = pagination.DefaultLimit
	}
	return &Service{engine: engine, chapters: chapters, pageSize: pageSize}
}

// # Catalog Views

// Catalog returns the whole reconciled catalog.
func (service *Service) Catalog(ctx context.Context) ([]Entry, error) {
	entries, err := service.engine.Reconcile(ctx)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("reconcile catalog: %w", err))
	}
	return entries, nil
}

/*
Page returns one page of the catalog with the configured page size.

The requested page is clamped into [1, totalPages], or to 1 for an empty catalog.
*/
func (service *Service) Page(ctx context.Context, page int) ([]Entry, pagination.Meta, error) {
	entries, err := service.Catalog(ctx)
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	items, meta := pagination.Slice(entries, page, service.pageSize)
	return items, meta, nil
}

// Drift returns the entries that at least one source does not attest.
func (service *Service) Drift(ctx context.Context) ([]Entry, error) {
	entries, err := service.Catalog(ctx)
	if err != nil {
		return nil, err
	}
	return slice.Filter(entries, func(entry Entry) bool { return !entry.Complete() }), nil
}

// # Chapters

// Chapters groups the catalog against the stored chapter records without
// persisting anything.
func (service *Service) Chapters(ctx context.Context) (*Grouping, error) {
	entries, err := service.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	records, err := service.chapters.Load(ctx)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("load chapters: %w", err))
	}

	return Group(entries, records), nil
}

/*
SyncChapters groups the catalog and persists synthesized and removed chapter
records.

Description: The chapters file stays exclusively locked from the read to the
write, so concurrent syncs serialise. Nothing is written when no record changed.
A malformed chapters file is refused rather than overwritten.

Returns:
  - *Grouping: The grouping after the sync
  - error: Storage failures
*/
func (service *Service) SyncChapters(ctx context.Context) (*Grouping, error) {
	logger := ctxutil.GetLogger(ctx)

	handle, err := service.chapters.Acquire(ctx)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("lock chapters: %w", err))
	}
	defer func() {
		if err := handle.Release(); err != nil {
			logger.ErrorContext(ctx, "chapters_unlock_failed", slog.Any("error", err))
		}
	}()

	records, err := handle.Read()
	if err != nil {
		return nil, apperr.Storage(err)
	}

	entries, err := service.Catalog(ctx)
	if err != nil {
		return nil, err
	}

	grouping := Group(entries, records)
	if !grouping.Changed() {
		return grouping, nil
	}

	if err := handle.Write(grouping.Records); err != nil {
		return nil, apperr.Storage(err)
	}

	for _, key := range grouping.Synthesized {
		logger.InfoContext(ctx, "chapter_synthesized", slog.String("chapter", key))
	}
	for _, key := range grouping.Removed {
		logger.InfoContext(ctx, "chapter_removed", slog.String("chapter", key))
	}

	return grouping, nil
}
