// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/docstore"
)

// FileRepository implements [Repository] on two JSON array files.
type FileRepository struct {
	active  *docstore.File[[]Report]
	archive *docstore.File[[]Report]
}

// NewFileRepository binds the active and archive collection paths.
func NewFileRepository(activePath, archivePath string, lockTimeout time.Duration, logger *slog.Logger) *FileRepository {
	return &FileRepository{
		active:  docstore.Open[[]Report](activePath, lockTimeout, logger),
		archive: docstore.Open[[]Report](archivePath, lockTimeout, logger),
	}
}

// Collection implements [Repository].
func (repository *FileRepository) Collection(ctx context.Context, name Collection) ([]Report, error) {
	file, err := repository.file(name)
	if err != nil {
		return nil, err
	}

	reports, err := file.Load(ctx)
	if err != nil {
		return nil, apperr.Storage(fmt.Errorf("load %s reports: %w", name, err))
	}

	return dense(reports), nil
}

// Append implements [Repository].
func (repository *FileRepository) Append(ctx context.Context, report Report) error {
	err := repository.active.Update(ctx, func(reports []Report) ([]Report, error) {
		return append(dense(reports), report), nil
	})
	if err != nil {
		return apperr.Storage(fmt.Errorf("append report %s: %w", report.ID, err))
	}
	return nil
}

// Move implements [Repository] with a [moveTransaction].
func (repository *FileRepository) Move(ctx context.Context, id string, action Action, at time.Time) (*Report, error) {
	tx, err := beginMove(ctx, repository.active, repository.archive)
	if err != nil {
		return nil, err
	}
	defer tx.release(ctx)

	return tx.apply(id, action, at)
}

// Paths returns the active and archive file paths, for readiness probes.
func (repository *FileRepository) Paths() []string {
	return []string{repository.active.Path(), repository.archive.Path()}
}

func (repository *FileRepository) file(name Collection) (*docstore.File[[]Report], error) {
	switch name {
	case CollectionActive:
		return repository.active, nil
	case CollectionArchive:
		return repository.archive, nil
	}
	return nil, apperr.ValidationError(fmt.Sprintf("Unknown collection %q", name))
}

// dense guarantees a non-nil slice so an empty collection is written as [].
func dense(reports []Report) []Report {
	if reports == nil {
		return []Report{}
	}
	return reports
}
