// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"context"
	"time"

	"github.com/taibuivan/inkwell/pkg/slice"
)

// # Sliding Window Limiter

// Decision is the outcome of a [RateLimiter] check.
type Decision struct {
	Allowed bool

	// Count is the number of reports already inside the window.
	Count int

	// RetryAfter is how long until the oldest counted report leaves the
	// window. Zero when Allowed.
	RetryAfter time.Duration
}

/*
RateLimiter counts a submitter's reports in the trailing window of the active
collection.

The check and the later append run in separate lock spans. A burst of
concurrent submissions from one identity can therefore exceed Max by a few.
The limiter deters abuse; it is not a security boundary.
*/
type RateLimiter struct {
	repository Repository
	window     time.Duration
	max        int
}

// NewRateLimiter builds a limiter allowing limit reports per window.
func NewRateLimiter(repository Repository, window time.Duration, limit int) *RateLimiter {
	return &RateLimiter{repository: repository, window: window, max: limit}
}

/*
CheckAndCount decides whether identityHash may submit another report at now.

Parameters:
  - ctx: context.Context
  - identityHash: string (Keyed hash of the submitter address)
  - now: time.Time

Returns:
  - Decision: Denied once Count >= max
  - error: Storage failures loading the active collection
*/
func (limiter *RateLimiter) CheckAndCount(ctx context.Context, identityHash string, now time.Time) (Decision, error) {
	reports, err := limiter.repository.Collection(ctx, CollectionActive)
	if err != nil {
		return Decision{}, err
	}

	cutoff := now.Add(-limiter.window)
	recent := slice.Filter(reports, func(report Report) bool {
		return report.SubmitterIPHash == identityHash && report.CreatedAt.After(cutoff)
	})

	decision := Decision{Count: len(recent), Allowed: len(recent) < limiter.max}
	if decision.Allowed {
		return decision, nil
	}

	if len(recent) == 0 {
		decision.RetryAfter = limiter.window
		return decision, nil
	}

	oldest := recent[0].CreatedAt
	for _, report := range recent[1:] {
		if report.CreatedAt.Before(oldest) {
			oldest = report.CreatedAt
		}
	}
	decision.RetryAfter = max(oldest.Add(limiter.window).Sub(now), time.Second)

	return decision, nil
}
