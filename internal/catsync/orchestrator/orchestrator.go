// Package orchestrator coordinates sync runs: at most one run at a time,
// sources processed sequentially with failure isolation, and a ring-buffered
// run log exposed through the status surface.
package orchestrator

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/observability"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/reconciler"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// ErrSyncInProgress rejects a sync request while another run is active.
var ErrSyncInProgress apperrors.Error = apperrors.New("a sync run is already in progress").SetStatusCode(http.StatusConflict)

// Overall run states reported by Status.
type RunState string

const (
	RunStateIdle      RunState = "idle"
	RunStateRunning   RunState = "running"
	RunStateCompleted RunState = "completed"
	RunStateFailed    RunState = "failed"
)

// RunSummary aggregates one sync run across all sources.
type RunSummary struct {
	RunID      string              `json:"run_id"`
	Full       bool                `json:"full"`
	Succeeded  bool                `json:"succeeded"`
	StartedAt  time.Time           `json:"started_at"`
	FinishedAt time.Time           `json:"finished_at"`
	ElapsedMS  int64               `json:"elapsed_ms"`
	Sources    []reconciler.Result `json:"sources"`
}

// Status is the live view of the orchestrator.
type Status struct {
	State        RunState                    `json:"state"`
	RunID        string                      `json:"run_id,omitempty"`
	SourceStates map[string]reconciler.State `json:"source_states"`
	LastSummary  *RunSummary                 `json:"last_summary,omitempty"`
	RecentLog    []json.RawMessage           `json:"recent_log"`
}

// CatalogCounter reports the catalog size for the post-run gauge update.
type CatalogCounter interface {
	CountObjects(ctx context.Context) (int64, apperrors.Error)
}

type Params struct {
	Reconciler *reconciler.Reconciler
	Sources    []reconciler.Source
	Metrics    *observability.SyncCollector
	Counter    CatalogCounter
	// RunTimeout bounds a whole run across all sources; zero leaves runs
	// unbounded.
	RunTimeout    time.Duration
	LogBufferSize int
}

// Orchestrator runs sync cycles. A run, once started, goes to completion;
// there is no mid-flight cancellation.
type Orchestrator struct {
	rec        *reconciler.Reconciler
	sources    []reconciler.Source
	metrics    *observability.SyncCollector
	counter    CatalogCounter
	runTimeout time.Duration
	ring       *ringLog

	wg sync.WaitGroup

	mu      sync.Mutex
	running bool
	state   RunState
	runID   string
	last    *RunSummary
}

func New(p Params) *Orchestrator {
	return &Orchestrator{
		rec:        p.Reconciler,
		sources:    p.Sources,
		metrics:    p.Metrics,
		counter:    p.Counter,
		runTimeout: p.RunTimeout,
		ring:       newRingLog(p.LogBufferSize),
		state:      RunStateIdle,
	}
}

// StartSync begins an asynchronous run and returns its ID, or
// ErrSyncInProgress when a run is already active.
func (o *Orchestrator) StartSync(ctx context.Context, full bool) (string, apperrors.Error) {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return "", ErrSyncInProgress
	}
	runID, err := gonanoid.New(12)
	if err != nil {
		o.mu.Unlock()
		return "", apperrors.New("unable to generate run id").Err(err)
	}
	o.running = true
	o.state = RunStateRunning
	o.runID = runID
	o.mu.Unlock()

	o.ring.Reset()
	o.metrics.RunStarted()
	log.Ctx(ctx).Info().Str("run_id", runID).Bool("full", full).Msg("sync run accepted")

	// The run outlives the request that started it: it gets its own context
	// and a logger that tees every event into the ring buffer.
	runLogger := zerolog.New(zerolog.MultiLevelWriter(log.Logger, o.ring)).
		With().Timestamp().Str("run_id", runID).Logger()
	runCtx := runLogger.WithContext(context.Background())

	o.wg.Add(1)
	go o.run(runCtx, runID, full)
	return runID, nil
}

// Wait blocks until the active run, if any, finishes. Used by the one-shot
// CLI path and by tests.
func (o *Orchestrator) Wait() {
	o.wg.Wait()
}

// Status reports the orchestrator state, the last run summary, and the
// buffered run log.
func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()

	st := Status{
		State:        o.state,
		RunID:        o.runID,
		LastSummary:  o.last,
		SourceStates: make(map[string]reconciler.State, len(o.sources)),
		RecentLog:    o.ring.Entries(),
	}
	for _, src := range o.sources {
		st.SourceStates[src.Name()] = o.rec.StateOf(src.Name())
	}
	return st
}

func (o *Orchestrator) run(ctx context.Context, runID string, full bool) {
	defer o.wg.Done()
	if o.runTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.runTimeout)
		defer cancel()
	}

	summary := RunSummary{RunID: runID, Full: full, Succeeded: true, StartedAt: time.Now().UTC()}
	log.Ctx(ctx).Info().Bool("full", full).Int("sources", len(o.sources)).Msg("sync run started")

	for _, src := range o.sources {
		res := o.rec.SyncSource(ctx, src, full)
		summary.Sources = append(summary.Sources, res)
		o.metrics.ObserveSource(res.Source, res.Counts.Inserted, res.Counts.Updated,
			res.Counts.Skipped, res.Counts.Errors, res.FinishedAt.Sub(res.StartedAt), res.Err == nil)
		if res.Err != nil {
			summary.Succeeded = false
		}
	}

	summary.FinishedAt = time.Now().UTC()
	summary.ElapsedMS = summary.FinishedAt.Sub(summary.StartedAt).Milliseconds()

	if o.counter != nil {
		if n, err := o.counter.CountObjects(ctx); err == nil {
			o.metrics.SetCatalogSize(n)
		}
	}
	o.metrics.RunFinished(summary.Succeeded)
	log.Ctx(ctx).Info().Bool("succeeded", summary.Succeeded).
		Int64("elapsed_ms", summary.ElapsedMS).Msg("sync run finished")

	o.mu.Lock()
	o.running = false
	o.last = &summary
	if summary.Succeeded {
		o.state = RunStateCompleted
	} else {
		o.state = RunStateFailed
	}
	o.mu.Unlock()
}
