// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package report implements reader error reports and their moderation.

Readers flag mistakes in a comic's translation (transcript, image, other).
Reports live in two JSON collections: "active" holds open and spam reports,
"archive" holds closed ones. A report is always in exactly one collection and
that collection always matches its status.

# Core Responsibility

  - Submission: validation, honeypot, sliding-window rate limit, sanitising.
  - Moderation: the close/spam/reopen state machine, applied as one
    transaction across both collection files.
*/
package report

import "time"

// # Domain Enums

// Status is the moderation state of a [Report].
type Status string

const (
	// StatusOpen is a report awaiting triage.
	StatusOpen Status = "open"

	// StatusSpam is a report judged to be abuse. It stays in the active collection.
	StatusSpam Status = "spam"

	// StatusClosed is a handled report, kept in the archive.
	StatusClosed Status = "closed"
)

// IsValid reports whether s is a recognised [Status] value.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusSpam, StatusClosed:
		return true
	}
	return false
}

// Collection returns the collection a report with status s must live in.
func (s Status) Collection() Collection {
	if s == StatusClosed {
		return CollectionArchive
	}
	return CollectionActive
}

// Kind classifies what a reader is reporting.
type Kind string

const (
	KindTranscript Kind = "transcript"
	KindImage      Kind = "image"
	KindOther      Kind = "other"
)

// Kinds lists every accepted [Kind], in display order.
func Kinds() []string {
	return []string{string(KindTranscript), string(KindImage), string(KindOther)}
}

// Action is a moderator command applied to a report.
type Action string

const (
	ActionClose  Action = "close"
	ActionSpam   Action = "spam"
	ActionReopen Action = "reopen"
)

// IsValid reports whether a is a recognised [Action].
func (a Action) IsValid() bool {
	switch a {
	case ActionClose, ActionSpam, ActionReopen:
		return true
	}
	return false
}

// Collection names one of the two persisted report collections.
type Collection string

const (
	CollectionActive  Collection = "active"
	CollectionArchive Collection = "archive"
)

// # State Machine

// Apply returns the status reached by applying action to s.
//
//	open   --close-->  closed   (active → archive)
//	open   --spam--->  spam     (active, in place)
//	spam   --reopen->  open     (active, in place)
//	closed --reopen->  open     (archive → active)
//
// Every other pair is rejected with ok=false.
func (s Status) Apply(action Action) (next Status, ok bool) {
	switch {
	case s == StatusOpen && action == ActionClose:
		return StatusClosed, true
	case s == StatusOpen && action == ActionSpam:
		return StatusSpam, true
	case s == StatusSpam && action == ActionReopen:
		return StatusOpen, true
	case s == StatusClosed && action == ActionReopen:
		return StatusOpen, true
	}
	return s, false
}

// # Core Entities

// Report is a reader-submitted error report.
//
// ID, ComicID, CreatedAt and SubmitterIPHash never change after creation.
// Status changes only through a move transaction.
type Report struct {
	ID        string    `json:"id"`
	ComicID   string    `json:"comicId"`
	CreatedAt time.Time `json:"createdAt"`
	Status    Status    `json:"status"`

	// SubmitterIPHash is a keyed one-way hash used only for rate limiting.
	SubmitterIPHash string `json:"submitterIpHash"`

	// User supplied, sanitised before storage.
	SubmitterName string `json:"submitterName"`
	Kind          Kind   `json:"kind"`
	Description   string `json:"description"`
	SuggestedText string `json:"suggestedText"`
	OriginalText  string `json:"originalText"`

	// UpdatedAt is the time of the last status change, nil until the first move.
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// View is the operator-facing projection of a [Report]. It omits the
// submitter hash, which is never shown to anyone.
type View struct {
	ID            string     `json:"id"`
	ComicID       string     `json:"comicId"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     *time.Time `json:"updatedAt,omitempty"`
	Status        Status     `json:"status"`
	Kind          Kind       `json:"kind"`
	SubmitterName string     `json:"submitterName"`
	Description   string     `json:"description"`
	SuggestedText string     `json:"suggestedText"`
	OriginalText  string     `json:"originalText"`
}

// ToView projects the report for operators.
func (r Report) ToView() View {
	return View{
		ID:            r.ID,
		ComicID:       r.ComicID,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
		Status:        r.Status,
		Kind:          r.Kind,
		SubmitterName: r.SubmitterName,
		Description:   r.Description,
		SuggestedText: r.SuggestedText,
		OriginalText:  r.OriginalText,
	}
}

// # Field Identifiers

// Request field names, used in validation details and form posts.
const (
	FieldComicID       = "comicId"
	FieldKind          = "reportType"
	FieldDescription   = "description"
	FieldSuggestedText = "suggestedText"
	FieldOriginalText  = "originalText"
	FieldSubmitterName = "submitterName"
	FieldHoneypot      = "website"
	FieldReportID      = "reportId"
	FieldAction        = "action"
	FieldReturnTo      = "returnTo"
	FieldStatus        = "status"
)

// Field length limits, in characters.
const (
	MaxComicIDLength       = 64
	MaxSubmitterNameLength = 100
	MaxDescriptionLength   = 2000
	MaxTextLength          = 10000
)
