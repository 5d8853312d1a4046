// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package report

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/inkwell/internal/platform/apperr"
	"github.com/taibuivan/inkwell/internal/platform/constants"
	"github.com/taibuivan/inkwell/internal/platform/ctxutil"
	"github.com/taibuivan/inkwell/internal/platform/middleware"
	requestutil "github.com/taibuivan/inkwell/internal/platform/request"
	"github.com/taibuivan/inkwell/internal/platform/respond"
	"github.com/taibuivan/inkwell/pkg/pagination"
)

// defaultReturnTo is where form-post moderation lands when no safe returnTo is given.
const defaultReturnTo = "/admin/reports"

// # Handler Implementation

// Handler implements the HTTP layer for report submission and moderation.
type Handler struct {
	service *Service
}

// NewHandler constructs a new report [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public submission router, mounted at /api/v1/reports.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.MethodNotAllowed(methodNotAllowed(http.MethodPost))

	router.Post("/", handler.submit)

	return router
}

// AdminRoutes returns the moderation router, mounted at /api/v1/admin/reports.
//
// The caller is responsible for authentication and anti-forgery checks.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Post("/move", handler.move)

	return router
}

// # Submission Endpoint

// submitRequest is the inbound JSON schema of a report.
type submitRequest struct {
	ComicID       string `json:"comicId"`
	ReportType    string `json:"reportType"`
	Description   string `json:"description"`
	SuggestedText string `json:"suggestedText"`
	OriginalText  string `json:"originalText"`
	SubmitterName string `json:"submitterName"`
	Website       string `json:"website"`
}

/*
POST /api/v1/reports.

Description: Accepts a reader error report. A filled honeypot receives the
same answer as a real creation.

Request:
  - comicId: string (required, max 64)
  - reportType: string (transcript, image, other)
  - description: string (required unless a transcript report carries suggestedText)
  - suggestedText, originalText: string (inline markup allowed)
  - submitterName: string (optional)

Response:
  - 201: {success, message, data: {id}}
  - 400: VALIDATION_ERROR or MALFORMED_INPUT
  - 405: METHOD_NOT_ALLOWED
  - 429: RATE_LIMITED
  - 500: STORAGE_ERROR
*/
func (handler *Handler) submit(writer http.ResponseWriter, request *http.Request) {
	var payload submitRequest
	if err := requestutil.DecodeJSON(request, &payload, constants.MaxReportBodyBytes); err != nil {
		respond.Failure(writer, request, err)
		return
	}

	result, err := handler.service.Submit(request.Context(), Submission{
		ComicID:       payload.ComicID,
		Kind:          payload.ReportType,
		Description:   payload.Description,
		SuggestedText: payload.SuggestedText,
		OriginalText:  payload.OriginalText,
		SubmitterName: payload.SubmitterName,
		Honeypot:      payload.Website,
		ClientIP:      clientIP(request),
	})
	if err != nil {
		respond.Failure(writer, request, err)
		return
	}

	respond.Outcome(writer, http.StatusCreated, "Thank you! Your report has been submitted.",
		map[string]string{"id": result.Report.ID})
}

// # Moderation Endpoints

/*
GET /api/v1/admin/reports.

Request:
  - status: string (open, spam, closed; default open)
  - page, limit: int

Response:
  - 200: []View: Paginated, newest first
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	views, meta, err := handler.service.List(request.Context(),
		request.URL.Query().Get(FieldStatus),
		requestutil.IntQuery(request, "page", pagination.DefaultPage),
		requestutil.IntQuery(request, "limit", pagination.DefaultLimit),
	)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, views, meta)
}

// moveRequest is the inbound JSON schema of a moderation action.
type moveRequest struct {
	ReportID string `json:"reportId"`
	Action   string `json:"action"`
}

/*
POST /api/v1/admin/reports/move.

Description: Applies close, spam or reopen. JSON posts are answered with
{success, message}. Form posts (reportId, action, returnTo) are answered with
a 303 redirect to returnTo carrying status and message query parameters.

Response:
  - 200: {success: true, message, data: View}
  - 303: Form post redirect
  - 400, 404, 409, 500: {success: false, message: "Failed to <action> report: ..."}
*/
func (handler *Handler) move(writer http.ResponseWriter, request *http.Request) {
	if isForm(request) {
		handler.moveForm(writer, request)
		return
	}

	var payload moveRequest
	if err := requestutil.DecodeJSON(request, &payload, constants.MaxReportBodyBytes); err != nil {
		respond.Failure(writer, request, err)
		return
	}

	moved, err := handler.service.Move(request.Context(), payload.ReportID, payload.Action)
	if err != nil {
		respond.Failure(writer, request, moveFailure(payload.Action, err))
		return
	}

	respond.Outcome(writer, http.StatusOK, moveMessage(Action(payload.Action)), moved.ToView())
}

func (handler *Handler) moveForm(writer http.ResponseWriter, request *http.Request) {
	request.Body = http.MaxBytesReader(writer, request.Body, constants.MaxReportBodyBytes)
	if err := request.ParseForm(); err != nil {
		respond.Failure(writer, request, apperr.Malformed("Invalid form payload"))
		return
	}

	action := request.PostForm.Get(FieldAction)
	target := safeReturnTo(request.PostForm.Get(FieldReturnTo))

	query := target.Query()
	if _, err := handler.service.Move(request.Context(), request.PostForm.Get(FieldReportID), action); err != nil {
		query.Set("status", "error")
		query.Set("message", apperr.As(moveFailure(action, err)).Message)
	} else {
		query.Set("status", "success")
		query.Set("message", moveMessage(Action(action)))
	}
	target.RawQuery = query.Encode()

	http.Redirect(writer, request, target.String(), http.StatusSeeOther)
}

// # Helpers

// moveFailure prefixes the client message with the action that failed.
func moveFailure(action string, err error) error {
	if !apperr.IsAppError(err) {
		err = apperr.Internal(err)
	}
	appError := apperr.As(err)
	if action == "" {
		action = "update"
	}

	failed := *appError
	failed.Message = fmt.Sprintf("Failed to %s report: %s", action, appError.Message)
	return &failed
}

func moveMessage(action Action) string {
	switch action {
	case ActionClose:
		return "Report closed."
	case ActionSpam:
		return "Report marked as spam."
	default:
		return "Report reopened."
	}
}

// safeReturnTo accepts only same-site absolute paths.
func safeReturnTo(raw string) *url.URL {
	fallback := &url.URL{Path: defaultReturnTo}
	if !strings.HasPrefix(raw, "/") || strings.HasPrefix(raw, "//") || strings.HasPrefix(raw, "/\\") {
		return fallback
	}

	target, err := url.Parse(raw)
	if err != nil || target.Scheme != "" || target.Host != "" {
		return fallback
	}
	return target
}

func isForm(request *http.Request) bool {
	return strings.HasPrefix(request.Header.Get("Content-Type"), "application/x-www-form-urlencoded")
}

func clientIP(request *http.Request) string {
	if ip := ctxutil.GetClientIP(request.Context()); ip != "" {
		return ip
	}
	return middleware.RealIP(request)
}

func methodNotAllowed(allowed ...string) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		writer.Header().Set("Allow", strings.Join(allowed, ", "))
		respond.Failure(writer, request, apperr.MethodNotAllowed())
	}
}
