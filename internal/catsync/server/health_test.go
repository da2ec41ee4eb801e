package server

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestHealthWithoutStore(t *testing.T) {
	s, _ := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rr := executeRequest(s, req)

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, "unavailable", gjson.Get(readBody(t, rr), "status").String())
}

func TestCatalogWithoutStore(t *testing.T) {
	s, _ := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/catalog", nil)
	rr := executeRequest(s, req)
	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestCatalogInvalidNoradID(t *testing.T) {
	s, _ := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/catalog/not-a-number", nil)
	rr := executeRequest(s, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, readBody(t, rr), "invalid norad id")
}

func TestMetricsEndpoint(t *testing.T) {
	s, orc := newTestServer(t, &testSource{name: "alpha"})

	post, _ := http.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusAccepted, executeRequest(s, post).Code)
	orc.Wait()

	req, _ := http.NewRequest(http.MethodGet, "/metrics", nil)
	rr := executeRequest(s, req)
	require.Equal(t, http.StatusOK, rr.Code)
	body := readBody(t, rr)
	assert.Contains(t, body, "catalog_sync_runs_total")
	assert.Contains(t, body, "catalog_sync_in_progress")
}

func TestRequestIDHeader(t *testing.T) {
	s, _ := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	rr := executeRequest(s, req)
	assert.NotEmpty(t, rr.Header().Get("X-AetherLink-Request-ID"))
}
