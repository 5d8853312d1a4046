// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/core/report"
	"github.com/taibuivan/inkwell/internal/platform/docstore"
	"github.com/taibuivan/inkwell/internal/platform/sanitize"
	"github.com/taibuivan/inkwell/internal/platform/sec"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// fixture wires a file-backed service with a controllable clock.
type fixture struct {
	service     *report.Service
	repository  *report.FileRepository
	activePath  string
	archivePath string
	now         time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	dir := t.TempDir()
	f := &fixture{
		activePath:  filepath.Join(dir, "reports.json"),
		archivePath: filepath.Join(dir, "reports_archive.json"),
		now:         epoch,
	}

	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))
	f.repository = report.NewFileRepository(f.activePath, f.archivePath, 2*time.Second, logger)

	var sequence atomic.Int64
	f.service = report.NewService(
		f.repository,
		report.NewRateLimiter(f.repository, 10*time.Minute, 5),
		sec.NewIdentityHasher("test-secret"),
		sanitize.New(),
		report.Options{
			Now:   func() time.Time { return f.now },
			NewID: func() string { return fmt.Sprintf("r%03d", sequence.Add(1)) },
		},
	)

	return f
}

// collections reads both files straight from disk.
func (f *fixture) collections(t *testing.T) (active, archive []report.Report) {
	t.Helper()
	ctx := context.Background()

	active, err := docstore.Open[[]report.Report](f.activePath, time.Second, nil).Load(ctx)
	require.NoError(t, err)
	archive, err = docstore.Open[[]report.Report](f.archivePath, time.Second, nil).Load(ctx)
	require.NoError(t, err)

	return active, archive
}

// seed writes reports directly into the active and archive files.
func (f *fixture) seed(t *testing.T, active, archive []report.Report) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, docstore.Open[[]report.Report](f.activePath, time.Second, nil).Save(ctx, active))
	require.NoError(t, docstore.Open[[]report.Report](f.archivePath, time.Second, nil).Save(ctx, archive))
}

func validSubmission() report.Submission {
	return report.Submission{
		ComicID:     "2024-05-01",
		Kind:        string(report.KindImage),
		Description: "Speech bubble is empty",
		ClientIP:    "203.0.113.7",
	}
}

func ids(reports []report.Report) []string {
	out := make([]string, 0, len(reports))
	for _, r := range reports {
		out = append(out, r.ID)
	}
	return out
}
