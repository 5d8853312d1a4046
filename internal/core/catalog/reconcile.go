// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/pkg/natsort"
)

// # Reconciliation Engine

// Engine merges the metadata, image and page sources into one ordered catalog.
type Engine struct {
	metadata MetadataSource
	lowRes   Lister
	highRes  Lister
	pages    Lister
}

// NewEngine wires the four inputs. Images are attested by either resolution.
func NewEngine(metadata MetadataSource, lowRes, highRes, pages Lister) *Engine {
	return &Engine{metadata: metadata, lowRes: lowRes, highRes: highRes, pages: pages}
}

// snapshot is one consistent read of every source.
type snapshot struct {
	metadata map[string]Metadata
	lowRes   []string
	highRes  []string
	pages    []string
}

/*
Reconcile builds the catalog.

Description: The four inputs are read concurrently. The master id set is the
union of all of them, sorted in natural order. Each entry starts from its
metadata when present, else from the zero template, and carries the flags of
the sources that attested it.

Reconcile has no side effects. Two runs over unchanged sources return equal
catalogs.

Returns:
  - []Entry: The ordered catalog
  - error: Any source failure
*/
func (engine *Engine) Reconcile(ctx context.Context) ([]Entry, error) {
	snap, err := engine.read(ctx)
	if err != nil {
		return nil, err
	}

	lowRes := toSet(snap.lowRes)
	highRes := toSet(snap.highRes)
	pages := toSet(snap.pages)

	ids := make(map[string]struct{}, len(snap.metadata)+len(lowRes)+len(pages))
	for id := range snap.metadata {
		ids[id] = struct{}{}
	}
	for _, set := range []map[string]struct{}{lowRes, highRes, pages} {
		for id := range set {
			ids[id] = struct{}{}
		}
	}

	ordered := make([]string, 0, len(ids))
	for id := range ids {
		ordered = append(ordered, id)
	}
	slices.SortFunc(ordered, natsort.Compare)

	entries := make([]Entry, 0, len(ordered))
	for _, id := range ordered {
		meta, described := snap.metadata[id]
		_, low := lowRes[id]
		_, high := highRes[id]
		_, page := pages[id]

		entries = append(entries, buildEntry(id, meta, described, low, high, page))
	}

	ctxutil.GetLogger(ctx).DebugContext(ctx, "catalog_reconciled",
		slog.Int("entries", len(entries)),
		slog.Int("metadata", len(snap.metadata)),
		slog.Int("images", len(lowRes)),
		slog.Int("pages", len(pages)),
	)

	return entries, nil
}

// read loads every source concurrently. The first failure cancels the rest.
func (engine *Engine) read(ctx context.Context) (*snapshot, error) {
	snap := &snapshot{}
	group, groupCtx := errgroup.WithContext(ctx)

	group.Go(func() (err error) {
		snap.metadata, err = engine.metadata.Load(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		snap.lowRes, err = engine.lowRes.IDs(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		snap.highRes, err = engine.highRes.IDs(groupCtx)
		return err
	})
	group.Go(func() (err error) {
		snap.pages, err = engine.pages.IDs(groupCtx)
		return err
	})

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return snap, nil
}

// buildEntry applies the metadata or the zero template and the provenance flags.
func buildEntry(id string, meta Metadata, described, lowRes, highRes, page bool) Entry {
	entry := Entry{ID: id, LowRes: lowRes, HighRes: highRes}
	if described {
		entry.Kind = meta.Kind
		entry.Title = meta.Title
		entry.Transcript = meta.Transcript
		entry.ChapterKey = meta.Chapter
	}

	attested := map[Source]bool{
		SourceMetadata:     described,
		SourceImageAsset:   lowRes || highRes,
		SourceRenderedPage: page,
	}

	entry.Sources = make([]Source, 0, len(allSources))
	entry.Missing = make([]Source, 0, len(allSources))
	for _, source := range allSources {
		if attested[source] {
			entry.Sources = append(entry.Sources, source)
		} else {
			entry.Missing = append(entry.Missing, source)
		}
	}

	return entry
}

func toSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}
