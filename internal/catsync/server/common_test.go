package server

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/observability"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/orchestrator"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/reconciler"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

type testStore struct{}

func (testStore) UpsertCatalogObject(ctx context.Context, obj *models.CatalogObject) (bool, apperrors.Error) {
	return true, nil
}

func (testStore) InsertElementSet(ctx context.Context, es *models.ElementSet) (bool, apperrors.Error) {
	return true, nil
}

func (testStore) UpsertTransmitter(ctx context.Context, tr *models.Transmitter) (bool, apperrors.Error) {
	return true, nil
}

func (testStore) UpsertClassificationTag(ctx context.Context, tag *models.ClassificationTag) apperrors.Error {
	return nil
}

func (testStore) GetWatermark(ctx context.Context, source string) (*models.SyncWatermark, apperrors.Error) {
	return nil, dberror.ErrNotFound.Msg("no watermark")
}

func (testStore) RecordSyncSuccess(ctx context.Context, source string, at time.Time, fetched int) apperrors.Error {
	return nil
}

func (testStore) RecordSyncFailure(ctx context.Context, source string, at time.Time, errMsg string) apperrors.Error {
	return nil
}

type testSource struct {
	name  string
	block chan struct{}
}

func (s *testSource) Name() string { return s.name }

func (s *testSource) Fetch(ctx context.Context, since *time.Time) (*models.IngestBatch, apperrors.Error) {
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, apperrors.New("fetch aborted").Err(ctx.Err())
		}
	}
	return &models.IngestBatch{}, nil
}

func newTestServer(t *testing.T, sources ...reconciler.Source) (*CatalogServer, *orchestrator.Orchestrator) {
	t.Helper()
	metrics, err := observability.NewSyncCollector(prometheus.NewRegistry())
	require.NoError(t, err)

	orc := orchestrator.New(orchestrator.Params{
		Reconciler:    reconciler.New(testStore{}, reconciler.PolicyRunStart),
		Sources:       sources,
		Metrics:       metrics,
		LogBufferSize: 16,
	})
	s, err := CreateNewServer(orc, metrics)
	require.NoError(t, err)
	s.MountHandlers()
	return s, orc
}

func executeRequest(s *CatalogServer, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)
	return rr
}

func readBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rr.Body)
	require.NoError(t, err)
	return string(b)
}
