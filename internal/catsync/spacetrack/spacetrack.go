// Package spacetrack adapts the Space-Track API to the ingestion pipeline:
// session login, element set and satellite catalog queries, and normalization
// of the ragged string-typed records Space-Track returns.
package spacetrack

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/config"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/upstream"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

const SourceName = "spacetrack"

// Source fetches orbital data from Space-Track. All requests go through one
// rate-limited client; Space-Track throttles aggressively, so the default
// pacing keeps consecutive requests about three seconds apart.
type Source struct {
	client   *upstream.Client
	baseURL  string
	identity string
	password string

	mu       sync.Mutex
	loggedIn bool
}

func New(cfg *config.SourceConfig) *Source {
	return &Source{
		client: upstream.New(upstream.Config{
			Name:           SourceName,
			MinInterval:    cfg.MinInterval(),
			RequestTimeout: cfg.GetRequestTimeout(),
			MaxAttempts:    cfg.MaxRetries,
			InitialBackoff: cfg.GetInitialBackoff(),
			MaxBackoff:     cfg.GetMaxBackoff(),
		}),
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		identity: cfg.Identity,
		password: cfg.Password,
	}
}

func (s *Source) Name() string {
	return SourceName
}

// Fetch retrieves element sets changed since the given time, or the full
// active catalog when since is nil. A full fetch additionally pulls the
// satellite catalog for ownership, launch metadata and classification tags.
func (s *Source) Fetch(ctx context.Context, since *time.Time) (*models.IngestBatch, apperrors.Error) {
	if err := s.login(ctx); err != nil {
		return nil, err
	}

	body, err := s.query(ctx, elementQueryPath(since))
	if err != nil {
		return nil, err
	}

	batch := &models.IngestBatch{}
	fetchedAt := time.Now().UTC()
	for _, r := range gjson.ParseBytes(body).Array() {
		rec, mapErr := mapElementRecord(r, fetchedAt)
		if mapErr != nil {
			log.Ctx(ctx).Warn().Err(mapErr).Msg("skipping malformed element record")
			batch.Skipped++
			continue
		}
		batch.Records = append(batch.Records, rec)
	}

	if since == nil {
		catBody, err := s.query(ctx, satcatQueryPath)
		if err != nil {
			return nil, err
		}
		for _, r := range gjson.ParseBytes(catBody).Array() {
			rec, mapErr := mapSatcatRecord(r)
			if mapErr != nil {
				log.Ctx(ctx).Warn().Err(mapErr).Msg("skipping malformed satcat record")
				batch.Skipped++
				continue
			}
			batch.Records = append(batch.Records, rec)
		}
	}

	return batch, nil
}

// login establishes the cookie session. Space-Track answers a bad credential
// POST with 200 and a JSON failure marker, so the body has to be inspected.
func (s *Source) login(ctx context.Context) apperrors.Error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loggedIn {
		return nil
	}
	if s.identity == "" {
		return upstream.ErrAuthFailed.Msg("no credentials configured for spacetrack")
	}

	form := url.Values{
		"identity": {s.identity},
		"password": {s.password},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/ajaxauth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return apperrors.New("unable to build login request").Err(err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, doErr := s.client.Do(ctx, req)
	if doErr != nil {
		if appErr, ok := doErr.(apperrors.Error); ok {
			return appErr
		}
		return upstream.ErrSourceUnavailable.Err(doErr)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return upstream.ErrSourceUnavailable.Err(readErr)
	}
	if gjson.GetBytes(body, "Login").String() == "Failed" {
		return upstream.ErrAuthFailed.Msg("spacetrack rejected credentials")
	}

	s.loggedIn = true
	log.Ctx(ctx).Info().Msg("spacetrack session established")
	return nil
}

func (s *Source) query(ctx context.Context, path string) ([]byte, apperrors.Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return nil, apperrors.New("unable to build query request").Err(err)
	}
	resp, doErr := s.client.Do(ctx, req)
	if doErr != nil {
		if appErr, ok := doErr.(apperrors.Error); ok {
			return nil, appErr
		}
		return nil, upstream.ErrSourceUnavailable.Err(doErr)
	}
	defer resp.Body.Close()

	body, readErr := io.ReadAll(resp.Body)
	if readErr != nil {
		return nil, upstream.ErrSourceUnavailable.Err(readErr)
	}
	return body, nil
}

const satcatQueryPath = "/basicspacedata/query/class/satcat/CURRENT/Y/DECAY/null-val" +
	"/orderby/NORAD_CAT_ID%20asc/format/json"

// elementQueryPath builds the tle_latest query: all objects still on orbit
// for a full fetch, or everything with an epoch past the watermark for a
// delta fetch.
func elementQueryPath(since *time.Time) string {
	if since == nil {
		return "/basicspacedata/query/class/tle_latest/ORDINAL/1/DECAY_DATE/null-val" +
			"/orderby/NORAD_CAT_ID%20asc/format/json"
	}
	ts := url.PathEscape(since.UTC().Format("2006-01-02 15:04:05"))
	return "/basicspacedata/query/class/tle_latest/ORDINAL/1/EPOCH/%3E" + ts +
		"/orderby/NORAD_CAT_ID%20asc/format/json"
}
