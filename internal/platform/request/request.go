// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package request provides utilities for extracting data from HTTP requests.

It wraps body decoding and query parsing so that handlers report bad input
with the same error codes.
*/
package requestutil

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/sec"
	"github.com/taibuivan/inkwell/internal/platform/validate"
)

/*
DecodeJSON reads at most limit bytes of the request body and decodes a single
JSON object into target.

Returns:
  - error: validate.ErrInvalidJSON if the body is not exactly one JSON object
    matching target, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}, limit int64) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, limit))

	var raw json.RawMessage
	if err := decoder.Decode(&raw); err != nil {
		return validate.ErrInvalidJSON
	}

	// Reject trailing garbage such as two concatenated objects.
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}

	// null, arrays and scalars would decode into a struct without complaint.
	if trimmed := bytes.TrimSpace(raw); len(trimmed) == 0 || trimmed[0] != '{' {
		return validate.ErrInvalidJSON
	}

	if err := json.Unmarshal(raw, target); err != nil {
		return validate.ErrInvalidJSON
	}

	return nil
}

/*
IntQuery parses an integer query parameter, returning fallback when it is
absent or not a number.
*/
func IntQuery(request *http.Request, name string, fallback int) int {
	raw := request.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}

/*
RequiredClaims ensures the request is authenticated and returns the operator claims.

Returns:
  - *sec.AuthClaims: The authenticated operator claims
  - error: apperr.Unauthorized if the request is not authenticated
*/
func RequiredClaims(request *http.Request) (*sec.AuthClaims, error) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}
	return claims, nil
}
