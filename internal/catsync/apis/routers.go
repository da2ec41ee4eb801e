// Package apis implements the HTTP control surface: sync control and status,
// catalog queries, and health.
package apis

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/orchestrator"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/httpx"
)

// SyncController is the slice of the orchestrator the API needs.
type SyncController interface {
	StartSync(ctx context.Context, full bool) (string, apperrors.Error)
	Status() orchestrator.Status
}

type handlers struct {
	ctrl SyncController
}

// SyncRouter mounts the sync control endpoints.
func SyncRouter(r chi.Router, ctrl SyncController) {
	h := &handlers{ctrl: ctrl}
	table := []httpx.ResponseHandlerParam{
		{
			Method:  http.MethodPost,
			Path:    "/sync",
			Handler: h.startSync,
		},
		{
			Method:  http.MethodGet,
			Path:    "/sync/status",
			Handler: h.syncStatus,
		},
	}
	for _, handler := range table {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
}

// CatalogRouter mounts the catalog query endpoints. The caller must wrap it
// with the database connection middleware.
func CatalogRouter(r chi.Router) {
	table := []httpx.ResponseHandlerParam{
		{
			Method:  http.MethodGet,
			Path:    "/catalog",
			Handler: listCatalog,
		},
		{
			Method:  http.MethodGet,
			Path:    "/catalog/{noradID}",
			Handler: getCatalogObject,
		},
	}
	for _, handler := range table {
		r.Method(handler.Method, handler.Path, httpx.WrapHttpRsp(handler.Handler))
	}
}
