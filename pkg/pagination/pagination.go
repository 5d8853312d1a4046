// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package pagination provides shared types and helpers for list endpoints.
//
// # Overview
//
// Collections in this system are small and fully materialised, so pages are
// cut from an in-memory ordered slice rather than pushed down to storage.
// Requested pages outside the valid range are clamped, never rejected.
package pagination

const (
	// DefaultLimit is the number of items per page if not specified.
	DefaultLimit = 20
	// DefaultPage is the starting page (1-indexed).
	DefaultPage = 1
)

// Meta is the pagination metadata included in API list responses.
type Meta struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NewMeta constructs pagination metadata for a response.
//
// # Clamping
//
// TotalPages is ceil(total/limit). The requested page is clamped into
// [1, TotalPages], or to 1 when there are no pages at all. A non-positive
// limit falls back to [DefaultLimit].
func NewMeta(page, limit, total int) Meta {
	if limit < 1 {
		limit = DefaultLimit
	}
	if total < 0 {
		total = 0
	}

	totalPages := (total + limit - 1) / limit

	switch {
	case totalPages == 0 || page < 1:
		page = DefaultPage
	case page > totalPages:
		page = totalPages
	}

	return Meta{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// Offset returns the index of the first item on the page.
func (m Meta) Offset() int {
	return (m.Page - 1) * m.Limit
}

// Bounds returns the half-open [start, end) index range of the page.
func (m Meta) Bounds() (start, end int) {
	start = m.Offset()
	if start > m.Total {
		start = m.Total
	}
	end = start + m.Limit
	if end > m.Total {
		end = m.Total
	}
	return start, end
}

// Slice cuts the requested page out of an ordered slice.
func Slice[T any](items []T, page, limit int) ([]T, Meta) {
	meta := NewMeta(page, limit, len(items))
	start, end := meta.Bounds()
	return items[start:end], meta
}
