// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	requestutil "github.com/taibuivan/inkwell/internal/platform/request"
	"github.com/taibuivan/inkwell/internal/platform/respond"
	"github.com/taibuivan/inkwell/pkg/pagination"
)

// # Handler Implementation

// Handler implements the HTTP layer of the archive.
type Handler struct {
	service *Service
}

// NewHandler constructs a new catalog [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the public archive router, mounted at /api/v1/archive.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.page)
	router.Get("/chapters", handler.chapters)

	return router
}

// AdminRoutes returns the catalog maintenance router, mounted at
// /api/v1/admin/catalog.
func (handler *Handler) AdminRoutes() chi.Router {
	router := chi.NewRouter()

	router.Get("/", handler.page)
	router.Get("/drift", handler.drift)
	router.Post("/chapters/sync", handler.syncChapters)

	return router
}

// # Archive Endpoints

/*
GET /api/v1/archive.

Request:
  - page: int (clamped into range)

Response:
  - 200: []Entry: Paginated, natural id order
  - 500: STORAGE_ERROR
*/
func (handler *Handler) page(writer http.ResponseWriter, request *http.Request) {
	entries, meta, err := handler.service.Page(request.Context(),
		requestutil.IntQuery(request, "page", pagination.DefaultPage))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, entries, meta)
}

/*
GET /api/v1/archive/chapters.

Response:
  - 200: Grouping: Sorted chapters with their entries
*/
func (handler *Handler) chapters(writer http.ResponseWriter, request *http.Request) {
	grouping, err := handler.service.Chapters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, grouping)
}

// # Maintenance Endpoints

// GET /api/v1/admin/catalog/drift lists entries missing from at least one source.
func (handler *Handler) drift(writer http.ResponseWriter, request *http.Request) {
	entries, err := handler.service.Drift(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, entries)
}

// POST /api/v1/admin/catalog/chapters/sync persists chapter record changes.
func (handler *Handler) syncChapters(writer http.ResponseWriter, request *http.Request) {
	grouping, err := handler.service.SyncChapters(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, grouping)
}
