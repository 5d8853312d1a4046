// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package app builds the domain services from configuration.

Both entry points (cmd/api and cmd/comicctl) share this wiring so that the
server and the CLI always read and write the same files with the same policy.
*/
package app

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/taibuivan/inkwell/internal/core/catalog"
	"github.com/taibuivan/inkwell/internal/core/report"
	"github.com/taibuivan/inkwell/internal/platform/config"
	"github.com/taibuivan/inkwell/internal/platform/docstore"
	"github.com/taibuivan/inkwell/internal/platform/sanitize"
	"github.com/taibuivan/inkwell/internal/platform/sec"
)

// Services holds every constructed domain service.
type Services struct {
	Reports     *report.Service
	ReportStore *report.FileRepository
	Catalog     *catalog.Service

	// Files lists every JSON collection, for readiness probes.
	Files []string

	// AssetDirs lists every listing directory.
	AssetDirs []string
}

// Build wires the report and catalog services on the real filesystem.
func Build(cfg *config.Config, logger *slog.Logger) *Services {
	return BuildOn(afero.NewOsFs(), cfg, logger)
}

// BuildOn is [Build] with the image and page listings read from filesystem.
func BuildOn(filesystem afero.Fs, cfg *config.Config, logger *slog.Logger) *Services {
	reportStore := report.NewFileRepository(cfg.ActiveReportsPath, cfg.ArchiveReportsPath, cfg.LockTimeout, logger)
	reports := report.NewService(
		reportStore,
		report.NewRateLimiter(reportStore, cfg.ReportRateWindow, cfg.ReportRateMax),
		sec.NewIdentityHasher(cfg.IdentitySecret),
		sanitize.New(),
		report.Options{},
	)

	engine := catalog.NewEngine(
		docstore.Open[map[string]catalog.Metadata](cfg.ComicsPath, cfg.LockTimeout, logger),
		catalog.NewDirLister(filesystem, cfg.ImageDir),
		catalog.NewDirLister(filesystem, cfg.ImageHDDir),
		catalog.NewDirLister(filesystem, cfg.PagesDir),
	)
	chapters := docstore.Open[map[string]catalog.ChapterRecord](cfg.ChaptersPath, cfg.LockTimeout, logger)

	return &Services{
		Reports:     reports,
		ReportStore: reportStore,
		Catalog:     catalog.NewService(engine, chapters, cfg.CatalogPageSize),
		Files:       append(reportStore.Paths(), cfg.ComicsPath, cfg.ChaptersPath),
		AssetDirs:   []string{cfg.ImageDir, cfg.ImageHDDir, cfg.PagesDir},
	}
}
