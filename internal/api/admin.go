// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"net/http"

	requestutil "github.com/taibuivan/inkwell/internal/platform/request"
	"github.com/taibuivan/inkwell/internal/platform/respond"
)

// FormTokenIssuer issues anti-forgery tokens for an operator.
type FormTokenIssuer interface {
	Issue(subject string) string
}

/*
NewAntiForgeryHandler handles GET /api/v1/admin/csrf.

Response:
  - 200: {token}: Echo it as X-CSRF-Token, or as the csrfToken form field
  - 401: Not authenticated
*/
func NewAntiForgeryHandler(issuer FormTokenIssuer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		claims, err := requestutil.RequiredClaims(request)
		if err != nil {
			respond.Error(writer, request, err)
			return
		}

		respond.OK(writer, map[string]string{"token": issuer.Issue(claims.UserID)})
	}
}
