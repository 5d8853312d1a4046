// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"time"
)

// # Report Data Access

// Repository defines the persistence contract for the two report collections.
type Repository interface {

	/*
		Collection returns every report stored in the named collection, in
		stored (insertion) order.

		Parameters:
		  - ctx: context.Context
		  - name: Collection (active or archive)

		Returns:
		  - []Report: The collection, empty if the file is absent or malformed
		  - error: Lock or I/O failures
	*/
	Collection(ctx context.Context, name Collection) ([]Report, error)

	/*
		Append adds a new report to the end of the active collection.

		Parameters:
		  - ctx: context.Context
		  - report: Report (Fully constructed, status open)

		Returns:
		  - error: Lock, I/O or malformed-collection failures
	*/
	Append(ctx context.Context, report Report) error

	/*
		Move applies action to the report with the given id across both
		collections as one transaction.

		Parameters:
		  - ctx: context.Context
		  - id: string
		  - action: Action
		  - at: time.Time (Recorded as UpdatedAt)

		Returns:
		  - *Report: The report as persisted after the move
		  - error: NotFound, InvalidAction or Storage [apperr.AppError]
	*/
	Move(ctx context.Context, id string, action Action, at time.Time) (*Report, error)
}
