// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"cmp"
	"context"
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/sanitize"
	"github.com/taibuivan/inkwell/internal/platform/validate"
	"github.com/taibuivan/inkwell/pkg/pagination"
	"github.com/taibuivan/inkwell/pkg/slice"
	"github.com/taibuivan/inkwell/pkg/uuid"
)

// # Service Layer

// IdentityHasher turns a network address into an opaque, stable key.
type IdentityHasher interface {
	Hash(addr string) string
}

// Options carries the replaceable collaborators of a [Service]. Zero fields
// fall back to the wall clock and UUID v7 ids.
type Options struct {
	Now   func() time.Time
	NewID func() string
}

// Service orchestrates report submission and moderation.
type Service struct {
	repository Repository
	limiter    *RateLimiter
	hasher     IdentityHasher
	sanitizer  *sanitize.Sanitizer
	now        func() time.Time
	newID      func() string
}

// NewService constructs a new [Service] with its required collaborators.
func NewService(repository Repository, limiter *RateLimiter, hasher IdentityHasher, sanitizer *sanitize.Sanitizer, options Options) *Service {
	service := &Service{
		repository: repository,
		limiter:    limiter,
		hasher:     hasher,
		sanitizer:  sanitizer,
		now:        options.Now,
		newID:      options.NewID,
	}
	if service.now == nil {
		service.now = time.Now
	}
	if service.newID == nil {
		service.newID = uuid.New
	}
	return service
}

// # Submission

// Submission is the raw, untrusted input of a report.
type Submission struct {
	ComicID       string
	Kind          string
	Description   string
	SuggestedText string
	OriginalText  string
	SubmitterName string

	// Honeypot is a hidden form field that only bots fill in.
	Honeypot string

	// ClientIP is the submitter's address as resolved by the transport.
	ClientIP string
}

// SubmitResult is the outcome of an accepted submission.
type SubmitResult struct {
	Report Report

	// Decoy is set when the honeypot tripped. Report was not persisted.
	Decoy bool
}

/*
Submit runs the submission pipeline.

Description: Each gate short-circuits. A tripped honeypot answers exactly like
a successful creation but persists nothing. Validation runs on the raw input,
then the sliding-window limiter, then sanitising, and finally the append to
the active collection.

Parameters:
  - ctx: context.Context
  - submission: Submission

Returns:
  - *SubmitResult: The stored (or decoy) report
  - error: ValidationError, RateLimited or Storage [apperr.AppError]
*/
func (service *Service) Submit(ctx context.Context, submission Submission) (*SubmitResult, error) {
	logger := ctxutil.GetLogger(ctx)
	now := service.now().UTC()

	// Bot trap
	if strings.TrimSpace(submission.Honeypot) != "" {
		logger.InfoContext(ctx, "report_honeypot_triggered")
		return &SubmitResult{
			Report: Report{ID: service.newID(), CreatedAt: now, Status: StatusOpen},
			Decoy:  true,
		}, nil
	}

	if err := validateSubmission(submission); err != nil {
		return nil, err
	}

	// Sliding window
	identity := service.hasher.Hash(submission.ClientIP)
	decision, err := service.limiter.CheckAndCount(ctx, identity, now)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		logger.WarnContext(ctx, "report_rate_limited", slog.Int("count", decision.Count))
		return nil, apperr.RateLimited(int(math.Ceil(decision.RetryAfter.Seconds())))
	}

	report := Report{
		ID:              service.newID(),
		ComicID:         service.sanitizer.PlainText(submission.ComicID),
		CreatedAt:       now,
		Status:          StatusOpen,
		SubmitterIPHash: identity,
		SubmitterName:   service.sanitizer.PlainText(submission.SubmitterName),
		Kind:            Kind(submission.Kind),
		Description:     service.sanitizer.PlainText(submission.Description),
		SuggestedText:   service.sanitizer.RichText(submission.SuggestedText),
		OriginalText:    service.sanitizer.RichText(submission.OriginalText),
	}

	if err := service.repository.Append(ctx, report); err != nil {
		logger.ErrorContext(ctx, "report_store_failed", slog.Any("error", err))
		return nil, err
	}

	logger.InfoContext(ctx, "report_submitted",
		slog.String("report_id", report.ID),
		slog.String("comic_id", report.ComicID),
		slog.String("kind", string(report.Kind)),
	)

	return &SubmitResult{Report: report}, nil
}

func validateSubmission(submission Submission) error {
	validator := &validate.Validator{}

	validator.Required(FieldComicID, submission.ComicID).
		MaxLen(FieldComicID, submission.ComicID, MaxComicIDLength)

	validator.Required(FieldKind, submission.Kind).
		OneOf(FieldKind, submission.Kind, Kinds()...)

	// Transcript reports may carry only a suggested correction.
	if Kind(submission.Kind) == KindTranscript {
		validator.RequireAny(FieldDescription, "A description or a suggested text is required",
			submission.Description, submission.SuggestedText)
	} else {
		validator.Required(FieldDescription, submission.Description)
	}

	validator.MaxLen(FieldDescription, submission.Description, MaxDescriptionLength).
		MaxLen(FieldSuggestedText, submission.SuggestedText, MaxTextLength).
		MaxLen(FieldOriginalText, submission.OriginalText, MaxTextLength).
		MaxLen(FieldSubmitterName, submission.SubmitterName, MaxSubmitterNameLength)

	return validator.Err()
}

// # Moderation

/*
Move applies a moderator action to a report.

Parameters:
  - ctx: context.Context
  - id: string (Report ID)
  - action: string (close, spam or reopen)

Returns:
  - *Report: The report after the move
  - error: NotFound, InvalidAction (including unknown actions) or Storage
*/
func (service *Service) Move(ctx context.Context, id, action string) (*Report, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.NotFound("Report")
	}
	if !Action(action).IsValid() {
		return nil, apperr.InvalidAction(fmt.Sprintf("Unknown action %q", action))
	}

	moved, err := service.repository.Move(ctx, id, Action(action), service.now())
	if err != nil {
		return nil, err
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "report_moved",
		slog.String("report_id", moved.ID),
		slog.String("action", action),
		slog.String("status", string(moved.Status)),
	)

	return moved, nil
}

/*
List returns one page of reports with the given status, newest first.

An empty status lists open reports.
*/
func (service *Service) List(ctx context.Context, status string, page, limit int) ([]View, pagination.Meta, error) {
	if status == "" {
		status = string(StatusOpen)
	}

	validator := &validate.Validator{}
	validator.OneOf(FieldStatus, status, string(StatusOpen), string(StatusSpam), string(StatusClosed))
	if err := validator.Err(); err != nil {
		return nil, pagination.Meta{}, err
	}

	wanted := Status(status)
	reports, err := service.repository.Collection(ctx, wanted.Collection())
	if err != nil {
		return nil, pagination.Meta{}, err
	}

	matching := slice.Filter(reports, func(report Report) bool { return report.Status == wanted })
	slices.SortStableFunc(matching, func(a, b Report) int {
		return cmp.Compare(b.CreatedAt.UnixNano(), a.CreatedAt.UnixNano())
	})

	items, meta := pagination.Slice(matching, page, limit)
	return slice.Map(items, Report.ToView), meta, nil
}
