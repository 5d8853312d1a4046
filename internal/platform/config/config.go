// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (stores, services) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// # Configuration Schema

// Config holds all runtime configuration for the Inkwell server and CLI.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Report collections
	ActiveReportsPath  string `env:"ACTIVE_REPORTS_PATH"  envDefault:"./data/reports.json"`
	ArchiveReportsPath string `env:"ARCHIVE_REPORTS_PATH" envDefault:"./data/reports_archive.json"`

	// Catalog sources
	ComicsPath   string `env:"COMICS_PATH"   envDefault:"./data/comics.json"`
	ChaptersPath string `env:"CHAPTERS_PATH" envDefault:"./data/chapters.json"`
	ImageDir     string `env:"IMAGE_DIR"     envDefault:"./public/comics"`
	ImageHDDir   string `env:"IMAGE_HD_DIR"  envDefault:"./public/comics/hd"`
	PagesDir     string `env:"PAGES_DIR"     envDefault:"./pages"`

	// Moderation policy
	ReportRateWindow time.Duration `env:"REPORT_RATE_WINDOW" envDefault:"10m"`
	ReportRateMax    int           `env:"REPORT_RATE_MAX"    envDefault:"5"`

	// CatalogPageSize is the number of entries per archive page.
	CatalogPageSize int `env:"CATALOG_PAGE_SIZE" envDefault:"20"`

	// LockTimeout bounds how long a request waits for a collection lock.
	LockTimeout time.Duration `env:"LOCK_TIMEOUT" envDefault:"10s"`

	// IdentitySecret keys the one-way hash of submitter addresses and
	// anti-forgery tokens.
	IdentitySecret string `env:"IDENTITY_SECRET,required"`

	// Cryptographic keys for admin identity
	JWTPubKeyPath  string `env:"JWT_PUBLIC_KEY_PATH,required"`
	JWTPrivKeyPath string `env:"JWT_PRIVATE_KEY_PATH"`

	// Cross-Origin Resource Sharing
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// Use the 'env' package to map environment variables to struct fields.
	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validate rejects policy values that would disable a guard silently.
func (c *Config) validate() error {
	switch {
	case c.ReportRateWindow <= 0:
		return fmt.Errorf("config: REPORT_RATE_WINDOW must be positive, got %s", c.ReportRateWindow)
	case c.ReportRateMax < 1:
		return fmt.Errorf("config: REPORT_RATE_MAX must be at least 1, got %d", c.ReportRateMax)
	case c.CatalogPageSize < 1:
		return fmt.Errorf("config: CATALOG_PAGE_SIZE must be at least 1, got %d", c.CatalogPageSize)
	case strings.TrimSpace(c.IdentitySecret) == "":
		return fmt.Errorf("config: IDENTITY_SECRET must not be blank")
	}
	return c.validateCollections()
}

// validateCollections rejects two collections sharing one file. A move locks
// both report files, so a shared path would deadlock on its own lock.
func (c *Config) validateCollections() error {
	collections := []struct{ name, path string }{
		{"ACTIVE_REPORTS_PATH", c.ActiveReportsPath},
		{"ARCHIVE_REPORTS_PATH", c.ArchiveReportsPath},
		{"COMICS_PATH", c.ComicsPath},
		{"CHAPTERS_PATH", c.ChaptersPath},
	}

	seen := make(map[string]string, len(collections))
	for _, collection := range collections {
		if strings.TrimSpace(collection.path) == "" {
			return fmt.Errorf("config: %s must not be blank", collection.name)
		}

		key := filepath.Clean(collection.path)
		if absolute, err := filepath.Abs(key); err == nil {
			key = absolute
		}
		if other, taken := seen[key]; taken {
			return fmt.Errorf("config: %s and %s point to the same file %q", other, collection.name, collection.path)
		}
		seen[key] = collection.name
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// OriginAllowed reports whether a browser origin may call the API in production.
func (c *Config) OriginAllowed(origin string) bool {
	for _, allowed := range c.AllowedOrigins {
		if strings.EqualFold(strings.TrimSpace(allowed), origin) {
			return true
		}
	}
	return false
}
