// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report_test

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/inkwell/internal/core/report"
	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/pkg/pointer"
)

// # Submission

/*
TestSubmit_CreatesOpenReport verifies that one valid submission appends
exactly one open report to the active collection.
*/
func TestSubmit_CreatesOpenReport(t *testing.T) {
	f := newFixture(t)

	result, err := f.service.Submit(context.Background(), validSubmission())
	require.NoError(t, err)
	assert.False(t, result.Decoy)

	active, archive := f.collections(t)
	require.Len(t, active, 1)
	assert.Empty(t, archive)

	stored := active[0]
	assert.Equal(t, result.Report.ID, stored.ID)
	assert.Equal(t, report.StatusOpen, stored.Status)
	assert.Equal(t, epoch, stored.CreatedAt)
	assert.Equal(t, "2024-05-01", stored.ComicID)
	assert.NotEmpty(t, stored.SubmitterIPHash)
	assert.NotContains(t, stored.SubmitterIPHash, "203.0.113.7")
	assert.Nil(t, stored.UpdatedAt)
}

/*
TestSubmit_Validation covers the field gates, including the transcript rule
that accepts a suggested text in place of a description.
*/
func TestSubmit_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*report.Submission)
		wantErr bool
		field   string
	}{
		{"valid image report", func(*report.Submission) {}, false, ""},
		{"transcript with suggested text only", func(s *report.Submission) {
			s.Kind, s.Description, s.SuggestedText = "transcript", "", "Fixed line"
		}, false, ""},
		{"transcript with nothing", func(s *report.Submission) {
			s.Kind, s.Description, s.SuggestedText = "transcript", "", "  "
		}, true, report.FieldDescription},
		{"image without description", func(s *report.Submission) {
			s.Description, s.SuggestedText = "", "only suggested"
		}, true, report.FieldDescription},
		{"missing comic", func(s *report.Submission) { s.ComicID = "" }, true, report.FieldComicID},
		{"unknown kind", func(s *report.Submission) { s.Kind = "audio" }, true, report.FieldKind},
		{"missing kind", func(s *report.Submission) { s.Kind = "" }, true, report.FieldKind},
		{"comic id too long", func(s *report.Submission) {
			s.ComicID = strings.Repeat("x", report.MaxComicIDLength+1)
		}, true, report.FieldComicID},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			submission := validSubmission()
			tt.mutate(&submission)

			_, err := f.service.Submit(context.Background(), submission)

			active, _ := f.collections(t)
			if !tt.wantErr {
				require.NoError(t, err)
				assert.Len(t, active, 1)
				return
			}

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, "VALIDATION_ERROR", appErr.Code)
			assert.Contains(t, fieldNames(appErr), tt.field)
			assert.Empty(t, active)
		})
	}
}

/*
TestSubmit_Honeypot verifies the decoy: a success-shaped result with an id,
but nothing written.
*/
func TestSubmit_Honeypot(t *testing.T) {
	f := newFixture(t)
	submission := validSubmission()
	submission.Honeypot = "http://spam.example"

	result, err := f.service.Submit(context.Background(), submission)

	require.NoError(t, err)
	assert.True(t, result.Decoy)
	assert.NotEmpty(t, result.Report.ID)

	_, statErr := os.Stat(f.activePath)
	assert.True(t, os.IsNotExist(statErr))
}

/*
TestSubmit_RateLimit verifies the sliding window: five submissions pass, the
sixth is refused, and a sixth after the window passes again.
*/
func TestSubmit_RateLimit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		f.now = epoch.Add(time.Duration(i) * time.Minute)
		_, err := f.service.Submit(ctx, validSubmission())
		require.NoError(t, err, "submission %d", i+1)
	}

	f.now = epoch.Add(6 * time.Minute)
	_, err := f.service.Submit(ctx, validSubmission())
	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "RATE_LIMITED", appErr.Code)
	assert.Equal(t, 240, appErr.RetryAfter)

	// A different address is unaffected.
	other := validSubmission()
	other.ClientIP = "198.51.100.1"
	_, err = f.service.Submit(ctx, other)
	require.NoError(t, err)

	// The first report leaves the window at epoch+10m.
	f.now = epoch.Add(10*time.Minute + time.Second)
	_, err = f.service.Submit(ctx, validSubmission())
	require.NoError(t, err)

	active, _ := f.collections(t)
	assert.Len(t, active, 7)
}

/*
TestSubmit_Sanitizes verifies that plain fields lose markup and rich fields
keep only the inline allow-list.
*/
func TestSubmit_Sanitizes(t *testing.T) {
	f := newFixture(t)
	submission := validSubmission()
	submission.Kind = "transcript"
	submission.SubmitterName = "<b>Ann</b>"
	submission.Description = `<script>alert(1)</script>Typo`
	submission.SuggestedText = `<p onclick="x()"><em>Hello</em></p><img src=x>`

	result, err := f.service.Submit(context.Background(), submission)
	require.NoError(t, err)

	assert.Equal(t, "Ann", result.Report.SubmitterName)
	assert.Equal(t, "Typo", result.Report.Description)
	assert.Equal(t, "<p><em>Hello</em></p>", result.Report.SuggestedText)
}

/*
TestSubmit_MalformedCollection verifies that a corrupt active file is never
overwritten by an append.
*/
func TestSubmit_MalformedCollection(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, os.WriteFile(f.activePath, []byte("[{broken"), 0o644))

	_, err := f.service.Submit(context.Background(), validSubmission())

	appErr := apperr.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, "STORAGE_ERROR", appErr.Code)

	raw, readErr := os.ReadFile(f.activePath)
	require.NoError(t, readErr)
	assert.Equal(t, "[{broken", string(raw))
}

// # Moderation

/*
TestMove_CloseThenReopen verifies the round trip through the archive.
*/
func TestMove_CloseThenReopen(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.service.Submit(ctx, validSubmission())
	require.NoError(t, err)
	id := created.Report.ID

	f.now = epoch.Add(time.Hour)
	closed, err := f.service.Move(ctx, id, "close")
	require.NoError(t, err)
	assert.Equal(t, report.StatusClosed, closed.Status)

	active, archive := f.collections(t)
	assert.Empty(t, active)
	require.Len(t, archive, 1)
	assert.Equal(t, report.StatusClosed, archive[0].Status)
	assert.Equal(t, pointer.To(epoch.Add(time.Hour)), archive[0].UpdatedAt)

	reopened, err := f.service.Move(ctx, id, "reopen")
	require.NoError(t, err)
	assert.Equal(t, report.StatusOpen, reopened.Status)

	active, archive = f.collections(t)
	assert.Equal(t, []string{id}, ids(active))
	assert.Equal(t, report.StatusOpen, active[0].Status)
	assert.Empty(t, archive)

	// Immutable fields survive both moves.
	assert.Equal(t, created.Report.CreatedAt, active[0].CreatedAt)
	assert.Equal(t, created.Report.SubmitterIPHash, active[0].SubmitterIPHash)
}

/*
TestMove_InPlace verifies that spam and reopen keep the report in active.
*/
func TestMove_InPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.seed(t, []report.Report{
		{ID: "a", Status: report.StatusOpen},
		{ID: "b", Status: report.StatusOpen},
	}, nil)

	_, err := f.service.Move(ctx, "a", "spam")
	require.NoError(t, err)

	active, archive := f.collections(t)
	assert.Equal(t, []string{"b", "a"}, ids(active))
	assert.Equal(t, report.StatusSpam, active[1].Status)
	assert.Empty(t, archive)

	_, err = f.service.Move(ctx, "a", "reopen")
	require.NoError(t, err)

	active, _ = f.collections(t)
	assert.Equal(t, report.StatusOpen, active[1].Status)
}

/*
TestMove_Rejections verifies that every rejected move is NotFound or
InvalidAction and leaves both files untouched.
*/
func TestMove_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		action   string
		wantCode string
	}{
		{"missing report", "ghost", "close", "NOT_FOUND"},
		{"spam a closed report", "closed-1", "spam", "INVALID_ACTION"},
		{"close a spam report", "spam-1", "close", "INVALID_ACTION"},
		{"reopen an open report", "open-1", "reopen", "INVALID_ACTION"},
		{"unknown action", "open-1", "delete", "INVALID_ACTION"},
		{"unknown action on a missing report", "ghost", "delete", "INVALID_ACTION"},
		{"empty action", "open-1", "", "INVALID_ACTION"},
		{"empty id", "", "close", "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			seedActive := []report.Report{
				{ID: "open-1", Status: report.StatusOpen},
				{ID: "spam-1", Status: report.StatusSpam},
			}
			seedArchive := []report.Report{{ID: "closed-1", Status: report.StatusClosed}}
			f.seed(t, seedActive, seedArchive)

			_, err := f.service.Move(context.Background(), tt.id, tt.action)

			appErr := apperr.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, tt.wantCode, appErr.Code)

			active, archive := f.collections(t)
			assert.Equal(t, seedActive, active)
			assert.Equal(t, seedArchive, archive)
		})
	}
}

// # Listing

/*
TestList_FiltersAndOrders verifies status filtering and newest-first order.
*/
func TestList_FiltersAndOrders(t *testing.T) {
	f := newFixture(t)
	f.seed(t, []report.Report{
		{ID: "old", Status: report.StatusOpen, CreatedAt: epoch},
		{ID: "junk", Status: report.StatusSpam, CreatedAt: epoch.Add(time.Minute)},
		{ID: "new", Status: report.StatusOpen, CreatedAt: epoch.Add(time.Hour)},
	}, []report.Report{
		{ID: "done", Status: report.StatusClosed, CreatedAt: epoch},
	})
	ctx := context.Background()

	open, meta, err := f.service.List(ctx, "", 1, 20)
	require.NoError(t, err)
	assert.Equal(t, 2, meta.Total)
	require.Len(t, open, 2)
	assert.Equal(t, "new", open[0].ID)
	assert.Equal(t, "old", open[1].ID)

	spam, _, err := f.service.List(ctx, "spam", 1, 20)
	require.NoError(t, err)
	require.Len(t, spam, 1)
	assert.Equal(t, "junk", spam[0].ID)

	closed, _, err := f.service.List(ctx, "closed", 1, 20)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, "done", closed[0].ID)

	_, _, err = f.service.List(ctx, "deleted", 1, 20)
	assert.Equal(t, "VALIDATION_ERROR", apperr.As(err).Code)
}

func fieldNames(appErr *apperr.AppError) []string {
	names := make([]string, 0, len(appErr.Details))
	for _, detail := range appErr.Details {
		names = append(names, detail.Field)
	}
	return names
}
