package apis

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/httpx"
)

type listCatalogRsp struct {
	Objects []models.ObjectSummary `json:"objects"`
	Limit   int                    `json:"limit"`
	Offset  int                    `json:"offset"`
	Total   int64                  `json:"total"`
}

func listCatalog(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	filter, err := parseObjectFilter(r.URL.Query())
	if err != nil {
		return nil, err
	}

	store := db.DB(ctx)
	if store == nil {
		return nil, httpx.ErrApplicationError("database unavailable")
	}

	objects, qerr := store.ListObjects(ctx, filter)
	if qerr != nil {
		return nil, qerr
	}
	total, qerr := store.CountObjects(ctx, filter)
	if qerr != nil {
		return nil, qerr
	}

	filter.Clamp()
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response: &listCatalogRsp{
			Objects: objects,
			Limit:   filter.Limit,
			Offset:  filter.Offset,
			Total:   total,
		},
	}, nil
}

func getCatalogObject(r *http.Request) (*httpx.Response, error) {
	ctx := r.Context()

	noradID, err := strconv.ParseInt(chi.URLParam(r, "noradID"), 10, 64)
	if err != nil || noradID <= 0 {
		return nil, httpx.ErrInvalidRequest("invalid norad id")
	}

	store := db.DB(ctx)
	if store == nil {
		return nil, httpx.ErrApplicationError("database unavailable")
	}

	detail, qerr := store.GetObject(ctx, noradID)
	if qerr != nil {
		return nil, qerr
	}
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   detail,
	}, nil
}

// parseObjectFilter maps listing query parameters onto an ObjectFilter.
// Absent parameters impose no constraint; non-numeric limit or offset values
// are rejected.
func parseObjectFilter(values url.Values) (models.ObjectFilter, error) {
	filter := models.ObjectFilter{
		OrbitClass: values.Get("orbit_class"),
		Country:    values.Get("country"),
		Band:       values.Get("band"),
		TagType:    values.Get("tag_type"),
		TagValue:   values.Get("tag_value"),
	}
	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, httpx.ErrInvalidRequest("invalid limit")
		}
		filter.Limit = n
	}
	if v := values.Get("offset"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return filter, httpx.ErrInvalidRequest("invalid offset")
		}
		filter.Offset = n
	}
	return filter, nil
}
