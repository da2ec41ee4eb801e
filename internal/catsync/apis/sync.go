package apis

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/common/httpx"
)

type startSyncReq struct {
	FullRefresh bool `json:"full_refresh"`
}

type startSyncRsp struct {
	RunID string `json:"run_id"`
}

// startSync accepts a sync request and returns 202 with the run ID, or 409
// when a run is already active. An empty body requests an incremental sync.
func (h *handlers) startSync(r *http.Request) (*httpx.Response, error) {
	req := startSyncReq{}
	if r.ContentLength > 0 {
		if err := httpx.GetRequestData(r, &req); err != nil {
			return nil, err
		}
	}

	runID, err := h.ctrl.StartSync(r.Context(), req.FullRefresh)
	if err != nil {
		return nil, err
	}
	log.Ctx(r.Context()).Info().Str("run_id", runID).Bool("full", req.FullRefresh).Msg("sync requested")

	return &httpx.Response{
		StatusCode: http.StatusAccepted,
		Location:   "/api/v1/sync/status",
		Response:   &startSyncRsp{RunID: runID},
	}, nil
}

func (h *handlers) syncStatus(r *http.Request) (*httpx.Response, error) {
	status := h.ctrl.Status()
	return &httpx.Response{
		StatusCode: http.StatusOK,
		Response:   &status,
	}, nil
}
