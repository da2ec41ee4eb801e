// Package satnogs adapts the SatNOGS transmitter database to the ingestion
// pipeline. The API is unauthenticated and returns the whole transmitter list
// in one response; delta fetches filter on each record's updated timestamp.
package satnogs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/sjson"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/config"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/upstream"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

const SourceName = "satnogs"

var jsonit = jsoniter.ConfigCompatibleWithStandardLibrary

// Source fetches transmitter metadata from the SatNOGS DB API.
type Source struct {
	client  *upstream.Client
	baseURL string
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
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
	}
}

func (s *Source) Name() string {
	return SourceName
}

// transmitterRecord is the subset of the SatNOGS transmitter document the
// engine normalizes. The full raw record is preserved in the payload column.
type transmitterRecord struct {
	UUID        string `json:"uuid"`
	Description string `json:"description"`
	Alive       bool   `json:"alive"`
	Type        string `json:"type"`
	UplinkLow   *int64 `json:"uplink_low"`
	DownlinkLow *int64 `json:"downlink_low"`
	Mode        string `json:"mode"`
	NoradCatID  int64  `json:"norad_cat_id"`
	Status      string `json:"status"`
	Service     string `json:"service"`
	Updated     string `json:"updated"`
}

// Fetch retrieves the transmitter list. The API has no server-side change
// filter, so delta fetches drop records not updated since the watermark.
func (s *Source) Fetch(ctx context.Context, since *time.Time) (*models.IngestBatch, apperrors.Error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		s.baseURL+"/transmitters/?format=json", nil)
	if err != nil {
		return nil, apperrors.New("unable to build transmitter request").Err(err)
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

	var items []json.RawMessage
	if err := jsonit.Unmarshal(body, &items); err != nil {
		return nil, upstream.ErrSourceUnavailable.MsgErr("satnogs returned an unparseable response", err)
	}

	batch := &models.IngestBatch{}
	for _, raw := range items {
		var tr transmitterRecord
		if err := jsonit.Unmarshal(raw, &tr); err != nil {
			log.Ctx(ctx).Warn().Err(err).Msg("skipping malformed transmitter record")
			batch.Skipped++
			continue
		}
		rec, mapErr := mapTransmitter(tr, raw)
		if mapErr != nil {
			log.Ctx(ctx).Warn().Err(mapErr).Msg("skipping malformed transmitter record")
			batch.Skipped++
			continue
		}
		if since != nil && !rec.ObservedAt.IsZero() && !rec.ObservedAt.After(*since) {
			continue
		}
		batch.Records = append(batch.Records, rec)
	}
	return batch, nil
}

// mapTransmitter normalizes one record. The derived frequency band is also
// stamped into the stored payload so raw consumers see it.
func mapTransmitter(tr transmitterRecord, raw []byte) (models.IngestRecord, error) {
	if tr.UUID == "" {
		return models.IngestRecord{}, fmt.Errorf("transmitter record without uuid")
	}
	if tr.NoradCatID <= 0 {
		return models.IngestRecord{}, fmt.Errorf("transmitter %s: missing norad_cat_id", tr.UUID)
	}

	t := &models.Transmitter{
		ExternalID:    tr.UUID,
		NoradID:       tr.NoradCatID,
		UplinkLowHz:   tr.UplinkLow,
		DownlinkLowHz: tr.DownlinkLow,
		Alive:         tr.Alive,
	}
	if tr.Description != "" {
		t.Description = &tr.Description
	}
	if tr.Mode != "" {
		t.Mode = &tr.Mode
	}
	if tr.Type != "" {
		t.Direction = &tr.Type
	}
	if tr.Status != "" {
		t.Status = &tr.Status
	}
	if tr.Service != "" {
		t.Service = &tr.Service
	}

	band := bandForRecord(tr)
	if band != "" {
		t.Band = &band
	}

	payload := raw
	if band != "" {
		if stamped, err := sjson.SetBytes(raw, "band", band); err == nil {
			payload = stamped
		}
	}
	if err := t.Payload.Set(payload); err != nil {
		return models.IngestRecord{}, fmt.Errorf("transmitter %s: %w", tr.UUID, err)
	}

	rec := models.IngestRecord{Transmitter: t}
	if at, err := time.Parse(time.RFC3339Nano, tr.Updated); err == nil {
		rec.ObservedAt = at.UTC()
	}
	if tr.Service != "" && !strings.EqualFold(tr.Service, "unknown") {
		rec.Tags = append(rec.Tags, models.ClassificationTag{
			NoradID:    tr.NoradCatID,
			TagType:    "purpose",
			TagValue:   strings.ToLower(tr.Service),
			Confidence: 0.6,
			Source:     SourceName,
		})
	}
	return rec, nil
}

// bandForRecord prefers the downlink frequency; uplink-only transmitters fall
// back to the uplink.
func bandForRecord(tr transmitterRecord) string {
	if tr.DownlinkLow != nil && *tr.DownlinkLow > 0 {
		return bandFor(*tr.DownlinkLow)
	}
	if tr.UplinkLow != nil && *tr.UplinkLow > 0 {
		return bandFor(*tr.UplinkLow)
	}
	return ""
}
