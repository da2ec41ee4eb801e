package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/dberror"
	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
	"github.com/MajorCrixus/AetherLink-sub001/internal/common/apperrors"
)

const objectColumns = `o.norad_id, o.object_name, o.country, o.launch_date, o.decay_date,
		o.object_type, o.orbit_class, o.period_min, o.inclination_deg, o.apogee_km,
		o.perigee_km, o.created_at, o.updated_at`

const elementColumns = `e.id, e.line1, e.line2, e.epoch, e.element_set_no, e.fetched_at`

// buildObjectFilter renders the WHERE clause shared by the listing and its
// count. Filter values are always bound as parameters; nothing
// caller-supplied is concatenated into the query text.
func buildObjectFilter(filter models.ObjectFilter) (string, []any) {
	var conds []string
	var args []any

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.OrbitClass != "" {
		conds = append(conds, "o.orbit_class = "+arg(filter.OrbitClass))
	}
	if filter.Country != "" {
		conds = append(conds, "o.country = "+arg(filter.Country))
	}
	if filter.Band != "" {
		conds = append(conds, `EXISTS (
			SELECT 1 FROM transmitters t
			WHERE t.norad_id = o.norad_id AND t.alive AND t.band = `+arg(filter.Band)+`)`)
	}
	if filter.TagType != "" || filter.TagValue != "" {
		tagConds := []string{"ct.norad_id = o.norad_id"}
		if filter.TagType != "" {
			tagConds = append(tagConds, "ct.tag_type = "+arg(filter.TagType))
		}
		if filter.TagValue != "" {
			tagConds = append(tagConds, "ct.tag_value = "+arg(filter.TagValue))
		}
		conds = append(conds, `EXISTS (
			SELECT 1 FROM classification_tags ct
			WHERE `+strings.Join(tagConds, " AND ")+`)`)
	}

	where := ""
	if len(conds) > 0 {
		where = "WHERE " + strings.Join(conds, " AND ")
	}
	return where, args
}

// buildListQuery assembles the catalog listing statement. The current element
// set is picked by a ROW_NUMBER window over the append-only element history.
func buildListQuery(filter models.ObjectFilter) (string, []any) {
	where, args := buildObjectFilter(filter)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	query := `
		WITH latest_elements AS (
			SELECT e.*, ROW_NUMBER() OVER (PARTITION BY e.norad_id ORDER BY e.epoch DESC) AS rn
			FROM element_sets e
		)
		SELECT ` + objectColumns + `, ` + elementColumns + `
		FROM catalog_objects o
		LEFT JOIN latest_elements e ON e.norad_id = o.norad_id AND e.rn = 1
		` + where + `
		ORDER BY o.norad_id
		LIMIT ` + arg(filter.Limit) + ` OFFSET ` + arg(filter.Offset) + `;`

	return query, args
}

// ListObjects returns a filtered, paginated page of catalog summaries with
// each object's current element set.
func (qm *queryManager) ListObjects(ctx context.Context, filter models.ObjectFilter) ([]models.ObjectSummary, apperrors.Error) {
	filter.Clamp()
	query, args := buildListQuery(filter)

	rows, err := qm.conn().QueryContext(ctx, query, args...)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to list catalog objects")
		return nil, dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	summaries := []models.ObjectSummary{}
	for rows.Next() {
		var s models.ObjectSummary
		es, scanErr := scanObjectWithElements(rows, &s.Object)
		if scanErr != nil {
			log.Ctx(ctx).Error().Err(scanErr).Msg("failed to scan catalog row")
			return nil, dberror.ErrDatabase.Err(scanErr)
		}
		s.Elements = es
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, dberror.ErrDatabase.Err(err)
	}

	return summaries, nil
}

// GetObject retrieves the full detail for one object: the merged catalog row,
// its current element set, all alive transmitters, and tags grouped by type.
func (qm *queryManager) GetObject(ctx context.Context, noradID int64) (*models.ObjectDetail, apperrors.Error) {
	query := `
		WITH latest_elements AS (
			SELECT e.*, ROW_NUMBER() OVER (PARTITION BY e.norad_id ORDER BY e.epoch DESC) AS rn
			FROM element_sets e
		)
		SELECT ` + objectColumns + `, ` + elementColumns + `
		FROM catalog_objects o
		LEFT JOIN latest_elements e ON e.norad_id = o.norad_id AND e.rn = 1
		WHERE o.norad_id = $1;
	`

	detail := &models.ObjectDetail{}
	row := qm.conn().QueryRowContext(ctx, query, noradID)
	es, err := scanObjectWithElements(row, &detail.Object)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, dberror.ErrNotFound.Msg("catalog object not found")
		}
		log.Ctx(ctx).Error().Err(err).Int64("norad_id", noradID).Msg("failed to retrieve catalog object")
		return nil, dberror.ErrDatabase.Err(err)
	}
	detail.Elements = es

	if err := qm.loadTransmitters(ctx, detail); err != nil {
		return nil, err
	}
	if err := qm.loadTags(ctx, detail); err != nil {
		return nil, err
	}

	return detail, nil
}

// CountObjects returns the number of objects matching the filter, ignoring
// its pagination fields. A zero filter counts the whole catalog.
func (qm *queryManager) CountObjects(ctx context.Context, filter models.ObjectFilter) (int64, apperrors.Error) {
	where, args := buildObjectFilter(filter)
	query := `SELECT count(*) FROM catalog_objects o ` + where + `;`

	var count int64
	err := qm.conn().QueryRowContext(ctx, query, args...).Scan(&count)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to count catalog objects")
		return 0, dberror.ErrDatabase.Err(err)
	}
	return count, nil
}

func (qm *queryManager) loadTransmitters(ctx context.Context, detail *models.ObjectDetail) apperrors.Error {
	query := `
		SELECT external_id, norad_id, description, uplink_low_hz, downlink_low_hz,
			band, mode, direction, alive, status, service, payload, updated_at
		FROM transmitters
		WHERE norad_id = $1 AND alive
		ORDER BY external_id;
	`
	rows, err := qm.conn().QueryContext(ctx, query, detail.Object.NoradID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to load transmitters")
		return dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	for rows.Next() {
		var tr models.Transmitter
		err := rows.Scan(&tr.ExternalID, &tr.NoradID, &tr.Description, &tr.UplinkLowHz,
			&tr.DownlinkLowHz, &tr.Band, &tr.Mode, &tr.Direction, &tr.Alive,
			&tr.Status, &tr.Service, &tr.Payload, &tr.UpdatedAt)
		if err != nil {
			return dberror.ErrDatabase.Err(err)
		}
		detail.Transmitters = append(detail.Transmitters, tr)
	}
	return nil
}

func (qm *queryManager) loadTags(ctx context.Context, detail *models.ObjectDetail) apperrors.Error {
	query := `
		SELECT norad_id, tag_type, tag_value, confidence, source, created_at
		FROM classification_tags
		WHERE norad_id = $1
		ORDER BY tag_type, tag_value;
	`
	rows, err := qm.conn().QueryContext(ctx, query, detail.Object.NoradID)
	if err != nil {
		log.Ctx(ctx).Error().Err(err).Msg("failed to load classification tags")
		return dberror.ErrDatabase.Err(err)
	}
	defer rows.Close()

	detail.Tags = make(map[string][]models.ClassificationTag)
	for rows.Next() {
		var tag models.ClassificationTag
		err := rows.Scan(&tag.NoradID, &tag.TagType, &tag.TagValue, &tag.Confidence,
			&tag.Source, &tag.CreatedAt)
		if err != nil {
			return dberror.ErrDatabase.Err(err)
		}
		detail.Tags[tag.TagType] = append(detail.Tags[tag.TagType], tag)
	}
	return nil
}

// rowScanner covers both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanObjectWithElements(row rowScanner, obj *models.CatalogObject) (*models.ElementSet, error) {
	var esID sql.NullInt64
	var line1, line2 sql.NullString
	var epoch, fetchedAt sql.NullTime
	var elementSetNo sql.NullInt32

	err := row.Scan(
		&obj.NoradID, &obj.ObjectName, &obj.Country, &obj.LaunchDate, &obj.DecayDate,
		&obj.ObjectType, &obj.OrbitClass, &obj.PeriodMin, &obj.InclinationDeg,
		&obj.ApogeeKm, &obj.PerigeeKm, &obj.CreatedAt, &obj.UpdatedAt,
		&esID, &line1, &line2, &epoch, &elementSetNo, &fetchedAt,
	)
	if err != nil {
		return nil, err
	}
	if !esID.Valid {
		return nil, nil
	}
	es := &models.ElementSet{
		ID:        esID.Int64,
		NoradID:   obj.NoradID,
		Line1:     line1.String,
		Line2:     line2.String,
		Epoch:     epoch.Time,
		FetchedAt: fetchedAt.Time,
	}
	if elementSetNo.Valid {
		n := int(elementSetNo.Int32)
		es.ElementSetNo = &n
	}
	return es, nil
}
