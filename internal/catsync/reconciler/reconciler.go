// Package reconciler drives one source through a sync cycle: decide between
// a delta and a full fetch from the stored watermark, merge the fetched batch
// into the store, and advance the watermark on success.
package reconciler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

// Per-source sync states. A failed source keeps StateFailed until its next
// run begins.
type State string

const (
	StateIdle     State = "IDLE"
	StateFetching State = "FETCHING"
	StateMerging  State = "MERGING"
	StateFailed   State = "FAILED"
)

// Watermark advancement policies.
const (
	PolicyRunStart     = "run_start"
	PolicyLatestRecord = "latest_record"
)

// Source is a catalog data provider. Fetch returns records changed since the
// given time, or everything when since is nil.
type Source interface {
	Name() string
	Fetch(ctx context.Context, since *time.Time) (*models.IngestBatch, apperrors.Error)
}

// Store is the slice of the database the reconciler needs.
type Store interface {
	db.CatalogManager
	db.SyncManager
}

// Counts aggregates merge outcomes for one run of one source.
type Counts struct {
	Fetched  int `json:"fetched"`
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Errors   int `json:"errors"`
}

// Result reports one source's sync run.
type Result struct {
	Source     string    `json:"source"`
	Full       bool      `json:"full"`
	Counts     Counts    `json:"counts"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
	Error      string    `json:"error,omitempty"`

	// Err is nil when the run succeeded; per-record failures do not fail a
	// run, only fetch and watermark failures do.
	Err apperrors.Error `json:"-"`
}

// Reconciler syncs sources into the store.
type Reconciler struct {
	store  Store
	policy string

	mu     sync.Mutex
	states map[string]State
}

func New(store Store, watermarkPolicy string) *Reconciler {
	if watermarkPolicy == "" {
		watermarkPolicy = PolicyRunStart
	}
	return &Reconciler{
		store:  store,
		policy: watermarkPolicy,
		states: make(map[string]State),
	}
}

// StateOf reports the current sync state of a source.
func (r *Reconciler) StateOf(source string) State {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.states[source]; ok {
		return s
	}
	return StateIdle
}

func (r *Reconciler) setState(source string, s State) {
	r.mu.Lock()
	r.states[source] = s
	r.mu.Unlock()
}

// SyncSource runs one full cycle for one source. Partial merges stay
// committed on failure; only a successful run advances the watermark.
func (r *Reconciler) SyncSource(ctx context.Context, src Source, full bool) Result {
	name := src.Name()
	res := Result{Source: name, StartedAt: time.Now().UTC()}
	r.setState(name, StateFetching)

	since, wmErr := r.fetchWindow(ctx, name, full)
	if wmErr != nil {
		return r.fail(ctx, res, wmErr)
	}
	res.Full = since == nil

	batch, fetchErr := src.Fetch(ctx, since)
	if fetchErr != nil {
		return r.fail(ctx, res, fetchErr)
	}

	r.setState(name, StateMerging)
	var latest time.Time
	res.Counts.Fetched = len(batch.Records)
	res.Counts.Skipped = batch.Skipped
	for i := range batch.Records {
		r.mergeRecord(ctx, &batch.Records[i], &res.Counts)
		if batch.Records[i].ObservedAt.After(latest) {
			latest = batch.Records[i].ObservedAt
		}
	}

	wmAt := res.StartedAt
	if r.policy == PolicyLatestRecord && !latest.IsZero() {
		wmAt = latest
	}
	if err := r.store.RecordSyncSuccess(ctx, name, wmAt, res.Counts.Fetched); err != nil {
		return r.fail(ctx, res, err)
	}

	res.FinishedAt = time.Now().UTC()
	r.setState(name, StateIdle)
	log.Ctx(ctx).Info().Str("source", name).Bool("full", res.Full).
		Int("fetched", res.Counts.Fetched).Int("inserted", res.Counts.Inserted).
		Int("updated", res.Counts.Updated).Int("skipped", res.Counts.Skipped).
		Int("errors", res.Counts.Errors).Msg("source sync completed")
	return res
}

// fetchWindow resolves the delta window: the last successful watermark, or
// nil for a full fetch when forced or when the source has never synced.
func (r *Reconciler) fetchWindow(ctx context.Context, source string, full bool) (*time.Time, apperrors.Error) {
	if full {
		return nil, nil
	}
	wm, err := r.store.GetWatermark(ctx, source)
	if err != nil {
		if errors.Is(err, dberror.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if wm.LastSuccess == nil {
		return nil, nil
	}
	return wm.LastSuccess, nil
}

// mergeRecord applies one record's parts in dependency order. A failed object
// upsert skips the record's dependent parts; every failure is counted and the
// run continues.
func (r *Reconciler) mergeRecord(ctx context.Context, rec *models.IngestRecord, c *Counts) {
	if rec.Object != nil {
		created, err := r.store.UpsertCatalogObject(ctx, rec.Object)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Int64("norad_id", rec.Object.NoradID).Msg("object merge failed")
			c.Errors++
			return
		}
		if created {
			c.Inserted++
		} else {
			c.Updated++
		}
	}

	if rec.Elements != nil {
		created, err := r.store.InsertElementSet(ctx, rec.Elements)
		switch {
		case err != nil:
			log.Ctx(ctx).Warn().Err(err).Int64("norad_id", rec.Elements.NoradID).Msg("element set merge failed")
			c.Errors++
		case created:
			c.Inserted++
		default:
			// same (norad_id, epoch) already ingested
			c.Skipped++
		}
	}

	if rec.Transmitter != nil {
		created, err := r.store.UpsertTransmitter(ctx, rec.Transmitter)
		switch {
		case errors.Is(err, dberror.ErrInvalidInput):
			// transmitter for an object the catalog does not track
			c.Skipped++
		case err != nil:
			log.Ctx(ctx).Warn().Err(err).Str("external_id", rec.Transmitter.ExternalID).Msg("transmitter merge failed")
			c.Errors++
		case created:
			c.Inserted++
		default:
			c.Updated++
		}
	}

	for i := range rec.Tags {
		if err := r.store.UpsertClassificationTag(ctx, &rec.Tags[i]); err != nil {
			if errors.Is(err, dberror.ErrInvalidInput) {
				c.Skipped++
				continue
			}
			log.Ctx(ctx).Warn().Err(err).Int64("norad_id", rec.Tags[i].NoradID).Msg("tag merge failed")
			c.Errors++
		}
	}
}

func (r *Reconciler) fail(ctx context.Context, res Result, cause apperrors.Error) Result {
	res.Err = cause
	res.Error = cause.ErrorAll()
	res.FinishedAt = time.Now().UTC()
	r.setState(res.Source, StateFailed)
	log.Ctx(ctx).Error().Err(cause).Str("source", res.Source).Msg("source sync failed")
	if err := r.store.RecordSyncFailure(ctx, res.Source, res.StartedAt, res.Error); err != nil {
		log.Ctx(ctx).Error().Err(err).Str("source", res.Source).Msg("unable to record sync failure")
	}
	return res
}
