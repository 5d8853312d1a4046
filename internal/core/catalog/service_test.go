// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/core/catalog"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
)

/*
TestPage_Clamps verifies page size, total pages and clamping of out-of-range
pages.
*/
func TestPage_Clamps(t *testing.T) {
	s := newSources(t)
	for i := 1; i <= 5; i++ {
		s.touch(t, fmt.Sprintf("/comics/2024-02-%02d.png", i))
	}
	service := catalog.NewService(s.engine(), s.chapters, 2)
	ctx := context.Background()

	tests := []struct {
		requested int
		wantPage  int
		wantFirst string
		wantLen   int
	}{
		{1, 1, "2024-02-01", 2},
		{3, 3, "2024-02-05", 1},
		{99, 3, "2024-02-05", 1},
		{0, 1, "2024-02-01", 2},
		{-4, 1, "2024-02-01", 2},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.requested), func(t *testing.T) {
			entries, meta, err := service.Page(ctx, tt.requested)
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, meta.Page)
			assert.Equal(t, 3, meta.TotalPages)
			assert.Equal(t, 5, meta.Total)
			require.Len(t, entries, tt.wantLen)
			assert.Equal(t, tt.wantFirst, entries[0].ID)
		})
	}
}

/*
TestPage_EmptyCatalog verifies that an empty catalog reports page 1 of 0.
*/
func TestPage_EmptyCatalog(t *testing.T) {
	s := newSources(t)
	entries, meta, err := catalog.NewService(s.engine(), s.chapters, 20).Page(context.Background(), 7)

	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, 1, meta.Page)
	assert.Equal(t, 0, meta.TotalPages)
}

/*
TestDrift_OnlyIncomplete verifies that drift lists entries missing a source
and skips fully attested ones.
*/
func TestDrift_OnlyIncomplete(t *testing.T) {
	s := newSources(t)
	s.describe(t, `{"a": {"title": "Complete"}, "b": {"title": "No assets"}}`)
	s.touch(t, "/comics/hd/a.png", "/pages/a.html", "/pages/c.html")

	drift, err := catalog.NewService(s.engine(), s.chapters, 20).Drift(context.Background())
	require.NoError(t, err)

	require.Len(t, drift, 2)
	assert.Equal(t, "b", drift[0].ID)
	assert.Equal(t, []catalog.Source{catalog.SourceImageAsset, catalog.SourceRenderedPage}, drift[0].Missing)
	assert.Equal(t, "c", drift[1].ID)
	assert.Equal(t, []catalog.Source{catalog.SourceMetadata, catalog.SourceImageAsset}, drift[1].Missing)
}

/*
TestSyncChapters_Persists verifies that synthesized and removed records are
written, and that a second sync is a no-op.
*/
func TestSyncChapters_Persists(t *testing.T) {
	s := newSources(t)
	ctx := context.Background()
	s.describe(t, `{"a": {"chapter": "1"}, "b": {"chapter": 2}}`)
	require.NoError(t, s.chapters.Save(ctx, map[string]catalog.ChapterRecord{
		"1": {ID: "1", Title: "One"},
		"":  {ID: "", Title: "Leftovers"},
	}))
	service := catalog.NewService(s.engine(), s.chapters, 20)

	grouping, err := service.SyncChapters(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, grouping.Synthesized)
	assert.Equal(t, []string{""}, grouping.Removed)

	stored, err := s.chapters.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]catalog.ChapterRecord{
		"1": {ID: "1", Title: "One"},
		"2": {ID: "2", Description: catalog.PlaceholderDescription},
	}, stored)

	before, err := os.Stat(s.chapters.Path())
	require.NoError(t, err)

	again, err := service.SyncChapters(ctx)
	require.NoError(t, err)
	assert.False(t, again.Changed())

	after, err := os.Stat(s.chapters.Path())
	require.NoError(t, err)
	assert.Equal(t, before.ModTime(), after.ModTime())
}

/*
TestChapters_ReadOnly verifies that the public grouping never writes.
*/
func TestChapters_ReadOnly(t *testing.T) {
	s := newSources(t)
	s.describe(t, `{"a": {"chapter": "9"}}`)

	grouping, err := catalog.NewService(s.engine(), s.chapters, 20).Chapters(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"9"}, grouping.Synthesized)

	_, statErr := os.Stat(s.chapters.Path())
	assert.True(t, os.IsNotExist(statErr))
}

/*
TestSyncChapters_MalformedFile verifies that a corrupt chapters file is not
overwritten.
*/
func TestSyncChapters_MalformedFile(t *testing.T) {
	s := newSources(t)
	s.describe(t, `{"a": {"chapter": "1"}}`)
	require.NoError(t, os.WriteFile(s.chapters.Path(), []byte("{oops"), 0o644))

	_, err := catalog.NewService(s.engine(), s.chapters, 20).SyncChapters(context.Background())

	assert.Equal(t, "STORAGE_ERROR", apperr.As(err).Code)
	raw, readErr := os.ReadFile(s.chapters.Path())
	require.NoError(t, readErr)
	assert.Equal(t, "{oops", string(raw))
}

/*
TestHTTP_Archive verifies the public archive endpoints.
*/
func TestHTTP_Archive(t *testing.T) {
	s := newSources(t)
	s.describe(t, `{"2024-03-01": {"title": "T", "chapter": "1"}}`)
	s.touch(t, "/pages/2024-03-02.html")

	router := chi.NewRouter()
	router.Mount("/api/v1/archive", catalog.NewHandler(catalog.NewService(s.engine(), s.chapters, 20)).Routes())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/archive?page=1", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"id":"2024-03-01"`)
	assert.Contains(t, recorder.Body.String(), `"sourceFlags":["renderedPage"]`)
	assert.Contains(t, recorder.Body.String(), `"total_pages":1`)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/archive/chapters", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"unchaptered":1`)
}

/*
TestHTTP_AdminCatalog verifies that the admin listing is read-only and that
only the sync endpoint writes chapter records.
*/
func TestHTTP_AdminCatalog(t *testing.T) {
	s := newSources(t)
	s.describe(t, `{"2024-03-01": {"title": "T", "chapter": "4"}}`)

	router := chi.NewRouter()
	router.Mount("/api/v1/admin/catalog", catalog.NewHandler(catalog.NewService(s.engine(), s.chapters, 20)).AdminRoutes())

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/api/v1/admin/catalog", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	_, statErr := os.Stat(s.chapters.Path())
	assert.True(t, os.IsNotExist(statErr), "listing must not write chapter records")

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPost, "/api/v1/admin/catalog/chapters/sync", nil))
	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"synthesized":["4"]`)

	stored, err := s.chapters.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.PlaceholderDescription, stored["4"].Description)
}
