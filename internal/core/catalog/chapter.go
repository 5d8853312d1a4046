// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"cmp"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/taibuivan/inkwell/pkg/natsort"
	"github.com/taibuivan/inkwell/pkg/pointer"
	"github.com/taibuivan/inkwell/pkg/slice"
)

// # Chapter Grouping

// PlaceholderDescription marks a chapter record created for a key that no
// curated record described yet.
const PlaceholderDescription = "Chapter details have not been written yet."

// Grouping is a catalog arranged by chapter.
type Grouping struct {
	// Chapters is every chapter record in display order, each with its entries.
	Chapters []ChapterGroup `json:"chapters"`

	// Unchaptered counts entries without a chapter key. They stay in the
	// catalog but belong to no group.
	Unchaptered int `json:"unchaptered"`

	// Records is the reconciled record set, keyed by chapter key.
	Records map[string]ChapterRecord `json:"-"`

	// Synthesized and Removed list the keys changed against the input records.
	Synthesized []string `json:"synthesized"`
	Removed     []string `json:"removed"`
}

// Changed reports whether the record set differs from the one grouped.
func (grouping *Grouping) Changed() bool {
	return len(grouping.Synthesized) > 0 || len(grouping.Removed) > 0
}

/*
Group arranges entries by chapter key against the stored chapter records.

Rules:
 1. Entries with no chapter key are left out of every group.
 2. A key used by an entry but missing from records gets a record with an
    empty title and [PlaceholderDescription].
 3. The empty-key record is dropped when no entry uses the empty key.
 4. Chapters are sorted with [CompareChapterKeys]; entries by id.

records is not modified.
*/
func Group(entries []Entry, records map[string]ChapterRecord) *Grouping {
	grouped := slice.GroupBy(entries, func(entry Entry) (string, bool) {
		return string(pointer.Val(entry.ChapterKey)), entry.ChapterKey != nil
	})

	grouping := &Grouping{
		Records:     make(map[string]ChapterRecord, len(records)+len(grouped)),
		Synthesized: []string{},
		Removed:     []string{},
	}

	// The map key is authoritative for the record id.
	for key, record := range records {
		record.ID = key
		grouping.Records[key] = record
	}

	for key := range grouped {
		if _, known := grouping.Records[key]; !known {
			grouping.Records[key] = ChapterRecord{ID: key, Description: PlaceholderDescription}
			grouping.Synthesized = append(grouping.Synthesized, key)
		}
	}

	if _, known := grouping.Records[""]; known {
		if _, used := grouped[""]; !used {
			delete(grouping.Records, "")
			grouping.Removed = append(grouping.Removed, "")
		}
	}

	slices.SortFunc(grouping.Synthesized, CompareChapterKeys)

	keys := slices.SortedFunc(maps.Keys(grouping.Records), CompareChapterKeys)
	grouping.Chapters = make([]ChapterGroup, 0, len(keys))
	for _, key := range keys {
		members := slices.Clone(grouped[key])
		if members == nil {
			members = []Entry{}
		}
		slices.SortFunc(members, func(a, b Entry) int { return natsort.Compare(a.ID, b.ID) })

		grouping.Chapters = append(grouping.Chapters, ChapterGroup{
			Chapter: grouping.Records[key],
			Entries: members,
		})
	}

	grouping.Unchaptered = slice.Count(entries, func(entry Entry) bool { return entry.ChapterKey == nil })

	return grouping
}

// # Chapter Ordering

// Tiers of [CompareChapterKeys].
const (
	tierNumeric = iota
	tierText
	tierEmpty
)

/*
CompareChapterKeys orders chapter keys in three tiers:

  - Numeric keys first, by value. A comma is read as the decimal separator.
  - Other non-empty keys next, in natural order ("Extra 2" before "Extra 10").
  - The empty key last.

For example ["10", "2", "Special", ""] sorts as ["2", "10", "Special", ""].
*/
func CompareChapterKeys(a, b string) int {
	tierA, valueA := classify(a)
	tierB, valueB := classify(b)

	if tierA != tierB {
		return cmp.Compare(tierA, tierB)
	}

	if tierA == tierNumeric {
		if c := cmp.Compare(valueA, valueB); c != 0 {
			return c
		}
	}

	return natsort.Compare(a, b)
}

func classify(key string) (int, float64) {
	if key == "" {
		return tierEmpty, 0
	}
	if value, ok := numericKey(key); ok {
		return tierNumeric, value
	}
	return tierText, 0
}

// numericKey parses keys such as "12", "-1", "3.5" and "3,5". Hex, exponents
// and NaN/Inf spellings are text.
func numericKey(key string) (float64, bool) {
	text := strings.TrimSpace(key)

	digits, separators := 0, 0
	for index, r := range text {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '.' || r == ',':
			separators++
		case (r == '-' || r == '+') && index == 0:
		default:
			return 0, false
		}
	}
	if digits == 0 || separators > 1 {
		return 0, false
	}

	value, err := strconv.ParseFloat(strings.Replace(text, ",", ".", 1), 64)
	if err != nil {
		return 0, false
	}
	return value, true
}
