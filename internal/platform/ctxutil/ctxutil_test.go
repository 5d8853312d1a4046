// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ctxutil_test

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/sec"
)

/*
TestContext_RequestID verifies that Request IDs can be injected and retrieved.
*/
func TestContext_RequestID(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, ctxutil.GetRequestID(ctx))

	ctx = ctxutil.WithRequestID(ctx, "test-request-id")
	assert.Equal(t, "test-request-id", ctxutil.GetRequestID(ctx))
}

/*
TestContext_Logger verifies that a custom logger can be stored in context.
*/
func TestContext_Logger(t *testing.T) {
	ctx := context.Background()
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	assert.Equal(t, slog.Default(), ctxutil.GetLogger(ctx))

	ctx = ctxutil.WithLogger(ctx, logger)
	assert.Equal(t, logger, ctxutil.GetLogger(ctx))
}

/*
TestContext_Operator verifies the operator check across roles.
*/
func TestContext_Operator(t *testing.T) {
	tests := []struct {
		name   string
		claims *sec.AuthClaims
		want   bool
	}{
		{"anonymous", nil, false},
		{"admin", &sec.AuthClaims{UserID: "u1", Role: "admin"}, true},
		{"moderator", &sec.AuthClaims{UserID: "u2", Role: "moderator"}, true},
		{"unknown_role", &sec.AuthClaims{UserID: "u3", Role: "reader"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			if tt.claims != nil {
				ctx = ctxutil.WithAuthUser(ctx, tt.claims)
			}
			assert.Equal(t, tt.want, ctxutil.IsOperator(ctx))
		})
	}
}

/*
TestContext_ClientIP verifies that the resolved address round-trips.
*/
func TestContext_ClientIP(t *testing.T) {
	ctx := ctxutil.WithClientIP(context.Background(), "198.51.100.4")
	assert.Equal(t, "198.51.100.4", ctxutil.GetClientIP(ctx))
}
