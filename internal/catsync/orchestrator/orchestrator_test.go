package orchestrator

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/reconciler"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

type noopStore struct{}

func (noopStore) UpsertCatalogObject(ctx context.Context, obj *models.CatalogObject) (bool, apperrors.Error) {
	return true, nil
}

func (noopStore) InsertElementSet(ctx context.Context, es *models.ElementSet) (bool, apperrors.Error) {
	return true, nil
}

func (noopStore) UpsertTransmitter(ctx context.Context, tr *models.Transmitter) (bool, apperrors.Error) {
	return true, nil
}

func (noopStore) UpsertClassificationTag(ctx context.Context, tag *models.ClassificationTag) apperrors.Error {
	return nil
}

func (noopStore) GetWatermark(ctx context.Context, source string) (*models.SyncWatermark, apperrors.Error) {
	return nil, dberror.ErrNotFound.Msg("no watermark")
}

func (noopStore) RecordSyncSuccess(ctx context.Context, source string, at time.Time, fetched int) apperrors.Error {
	return nil
}

func (noopStore) RecordSyncFailure(ctx context.Context, source string, at time.Time, errMsg string) apperrors.Error {
	return nil
}

type stubSource struct {
	name    string
	err     apperrors.Error
	block   chan struct{}
	fetches int
}

func (s *stubSource) Name() string { return s.name }

func (s *stubSource) Fetch(ctx context.Context, since *time.Time) (*models.IngestBatch, apperrors.Error) {
	s.fetches++
	if s.block != nil {
		select {
		case <-s.block:
		case <-ctx.Done():
			return nil, apperrors.New("fetch aborted").Err(ctx.Err())
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return &models.IngestBatch{Records: []models.IngestRecord{{
		Object: &models.CatalogObject{NoradID: 25544, ObjectName: "ISS (ZARYA)"},
	}}}, nil
}

func newTestOrchestrator(sources ...reconciler.Source) *Orchestrator {
	return New(Params{
		Reconciler:    reconciler.New(noopStore{}, reconciler.PolicyRunStart),
		Sources:       sources,
		LogBufferSize: 16,
	})
}

func TestStartSyncRunsAllSources(t *testing.T) {
	a := &stubSource{name: "alpha"}
	b := &stubSource{name: "beta"}
	o := newTestOrchestrator(a, b)

	runID, err := o.StartSync(context.Background(), false)
	require.Nil(t, err)
	assert.NotEmpty(t, runID)
	o.Wait()

	st := o.Status()
	assert.Equal(t, RunStateCompleted, st.State)
	assert.Equal(t, runID, st.RunID)
	require.NotNil(t, st.LastSummary)
	assert.True(t, st.LastSummary.Succeeded)
	require.Len(t, st.LastSummary.Sources, 2)
	assert.Equal(t, 1, a.fetches)
	assert.Equal(t, 1, b.fetches)
	assert.Equal(t, reconciler.StateIdle, st.SourceStates["alpha"])
}

func TestStartSyncSingleFlight(t *testing.T) {
	blocked := &stubSource{name: "alpha", block: make(chan struct{})}
	o := newTestOrchestrator(blocked)

	first, err := o.StartSync(context.Background(), false)
	require.Nil(t, err)

	_, err = o.StartSync(context.Background(), false)
	require.NotNil(t, err)
	assert.True(t, errors.Is(err, ErrSyncInProgress))

	st := o.Status()
	assert.Equal(t, RunStateRunning, st.State)
	assert.Equal(t, first, st.RunID)

	close(blocked.block)
	o.Wait()

	// a finished run frees the slot
	_, err = o.StartSync(context.Background(), false)
	require.Nil(t, err)
	o.Wait()
}

func TestStartSyncFailureIsolation(t *testing.T) {
	failing := &stubSource{name: "alpha", err: apperrors.New("upstream down")}
	healthy := &stubSource{name: "beta"}
	o := newTestOrchestrator(failing, healthy)

	_, err := o.StartSync(context.Background(), false)
	require.Nil(t, err)
	o.Wait()

	st := o.Status()
	assert.Equal(t, RunStateFailed, st.State)
	require.NotNil(t, st.LastSummary)
	assert.False(t, st.LastSummary.Succeeded)
	require.Len(t, st.LastSummary.Sources, 2)
	assert.NotEmpty(t, st.LastSummary.Sources[0].Error)
	assert.Empty(t, st.LastSummary.Sources[1].Error)
	assert.Equal(t, 1, healthy.fetches, "one source failing must not stop the other")
}

func TestStatusRecentLogCarriesRunEvents(t *testing.T) {
	o := newTestOrchestrator(&stubSource{name: "alpha"})

	runID, err := o.StartSync(context.Background(), true)
	require.Nil(t, err)
	o.Wait()

	st := o.Status()
	require.NotEmpty(t, st.RecentLog)
	for _, entry := range st.RecentLog {
		assert.Equal(t, runID, gjson.GetBytes(entry, "run_id").String())
	}
	last := st.RecentLog[len(st.RecentLog)-1]
	assert.Equal(t, "sync run finished", gjson.GetBytes(last, "message").String())
}

func TestRunTimeoutAbortsSlowSource(t *testing.T) {
	slow := &stubSource{name: "alpha", block: make(chan struct{})}
	o := New(Params{
		Reconciler:    reconciler.New(noopStore{}, reconciler.PolicyRunStart),
		Sources:       []reconciler.Source{slow},
		RunTimeout:    50 * time.Millisecond,
		LogBufferSize: 16,
	})

	_, err := o.StartSync(context.Background(), false)
	require.Nil(t, err)
	o.Wait()

	st := o.Status()
	assert.Equal(t, RunStateFailed, st.State)
	require.Len(t, st.LastSummary.Sources, 1)
	assert.Contains(t, st.LastSummary.Sources[0].Error, "fetch aborted")
}
