package server

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestStartSyncAccepted(t *testing.T) {
	s, orc := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(`{"full_refresh": true}`))
	rr := executeRequest(s, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Equal(t, "/api/v1/sync/status", rr.Header().Get("Location"))
	body := readBody(t, rr)
	assert.NotEmpty(t, gjson.Get(body, "run_id").String())

	orc.Wait()
}

func TestStartSyncEmptyBody(t *testing.T) {
	s, orc := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rr := executeRequest(s, req)

	assert.Equal(t, http.StatusAccepted, rr.Code)
	orc.Wait()
}

func TestStartSyncConflict(t *testing.T) {
	blocked := &testSource{name: "alpha", block: make(chan struct{})}
	s, orc := newTestServer(t, blocked)

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rr := executeRequest(s, req)
	require.Equal(t, http.StatusAccepted, rr.Code)

	req2, _ := http.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	rr2 := executeRequest(s, req2)
	assert.Equal(t, http.StatusConflict, rr2.Code)
	assert.Contains(t, readBody(t, rr2), "already in progress")

	close(blocked.block)
	orc.Wait()
}

func TestStartSyncMalformedBody(t *testing.T) {
	s, _ := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodPost, "/api/v1/sync", strings.NewReader(`{not json`))
	rr := executeRequest(s, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSyncStatus(t *testing.T) {
	s, orc := newTestServer(t, &testSource{name: "alpha"})

	req, _ := http.NewRequest(http.MethodGet, "/api/v1/sync/status", nil)
	rr := executeRequest(s, req)
	require.Equal(t, http.StatusOK, rr.Code)
	body := readBody(t, rr)
	assert.Equal(t, "idle", gjson.Get(body, "state").String())
	assert.Equal(t, "IDLE", gjson.Get(body, "source_states.alpha").String())

	post, _ := http.NewRequest(http.MethodPost, "/api/v1/sync", nil)
	require.Equal(t, http.StatusAccepted, executeRequest(s, post).Code)
	orc.Wait()

	rr = executeRequest(s, req.Clone(req.Context()))
	require.Equal(t, http.StatusOK, rr.Code)
	body = readBody(t, rr)
	assert.Equal(t, "completed", gjson.Get(body, "state").String())
	assert.True(t, gjson.Get(body, "last_summary.succeeded").Bool())
	require.True(t, gjson.Get(body, "recent_log").IsArray())
	assert.NotEmpty(t, gjson.Get(body, "recent_log").Array())
}
