// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package catalog reconciles the comic archive from three drifting sources.

Sources:

  - Metadata: comics.json, an object keyed by comic id.
  - Image assets: one file per comic in the low- and high-resolution directories.
  - Rendered pages: one file per comic in the pages directory.

Any id attested by any source becomes an [Entry]. Nothing is dropped because
one source lags; each entry records which sources saw it.

Entries are then grouped by chapter. Chapter records live in chapters.json,
an object keyed by chapter key.
*/
package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// # Provenance

// Source names one upstream system that can attest a comic id.
type Source string

const (
	SourceMetadata     Source = "metadata"
	SourceImageAsset   Source = "imageAsset"
	SourceRenderedPage Source = "renderedPage"
)

// allSources is the canonical flag order.
var allSources = []Source{SourceMetadata, SourceImageAsset, SourceRenderedPage}

// # Core Entities

// ChapterKey groups comics into chapters. It accepts a JSON string or number
// and keeps the original text of numbers, so "1.50" stays "1.50".
type ChapterKey string

// UnmarshalJSON implements [json.Unmarshaler].
func (key *ChapterKey) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		*key = ChapterKey(text)
		return nil
	}

	var number json.Number
	if err := json.Unmarshal(data, &number); err != nil {
		return fmt.Errorf("chapter key must be a string or number: %s", data)
	}
	*key = ChapterKey(number.String())
	return nil
}

// Metadata is one record of comics.json.
type Metadata struct {
	Kind       string      `json:"kind"`
	Title      string      `json:"title"`
	Transcript string      `json:"transcript"`
	Chapter    *ChapterKey `json:"chapter"`
}

// Entry is one reconciled comic.
//
// Entries with metadata only are future comics; entries without metadata are
// uploaded but not yet described. Both are valid.
type Entry struct {
	ID         string      `json:"id"`
	Kind       string      `json:"kind"`
	Title      string      `json:"title"`
	Transcript string      `json:"transcript"`
	ChapterKey *ChapterKey `json:"chapterKey"`

	// Sources lists the attesting sources in canonical order.
	Sources []Source `json:"sourceFlags"`

	// Image variants found on disk.
	LowRes  bool `json:"lowRes"`
	HighRes bool `json:"highRes"`

	// Missing lists the sources that did not attest this id.
	Missing []Source `json:"missing"`
}

// Complete reports whether every source attested the entry.
func (entry Entry) Complete() bool {
	return len(entry.Missing) == 0
}

// ChapterRecord is chapter-level metadata, stored apart from entries.
type ChapterRecord struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ChapterGroup is a chapter with its entries, sorted by id.
type ChapterGroup struct {
	Chapter ChapterRecord `json:"chapter"`
	Entries []Entry       `json:"entries"`
}
