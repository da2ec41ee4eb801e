package spacetrack

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
)

// Space-Track serializes every field as a string; timestamps show up in a
// couple of shapes depending on the class queried.
var upstreamTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

func parseUpstreamTime(s string) (time.Time, bool) {
	for _, layout := range upstreamTimeFormats {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// mapElementRecord normalizes one tle_latest record into a catalog object
// plus its element set. Orbital scalars come from the record when present
// and are derived from the TLE lines otherwise.
func mapElementRecord(r gjson.Result, fetchedAt time.Time) (models.IngestRecord, error) {
	noradID := r.Get("NORAD_CAT_ID").Int()
	if noradID <= 0 {
		return models.IngestRecord{}, fmt.Errorf("missing or invalid NORAD_CAT_ID: %q", r.Get("NORAD_CAT_ID").String())
	}

	epoch, ok := parseUpstreamTime(r.Get("EPOCH").String())
	if !ok {
		return models.IngestRecord{}, fmt.Errorf("norad %d: unparseable EPOCH %q", noradID, r.Get("EPOCH").String())
	}

	obj := &models.CatalogObject{
		NoradID:    noradID,
		ObjectName: objectName(r, noradID),
	}
	if ot := normalizeObjectType(r.Get("OBJECT_TYPE").String()); ot != "" {
		obj.ObjectType = &ot
	}

	obj.PeriodMin = floatField(r, "PERIOD")
	obj.InclinationDeg = floatField(r, "INCLINATION")
	obj.ApogeeKm = floatField(r, "APOGEE")
	obj.PerigeeKm = floatField(r, "PERIGEE")

	line1 := r.Get("TLE_LINE1").String()
	line2 := r.Get("TLE_LINE2").String()

	if (obj.PeriodMin == nil || obj.ApogeeKm == nil || obj.PerigeeKm == nil) && line1 != "" && line2 != "" {
		if sc, ok := derivedScalars(line1, line2); ok {
			if obj.PeriodMin == nil {
				obj.PeriodMin = &sc.periodMin
			}
			if obj.InclinationDeg == nil {
				obj.InclinationDeg = &sc.inclinationDeg
			}
			if obj.ApogeeKm == nil {
				obj.ApogeeKm = &sc.apogeeKm
			}
			if obj.PerigeeKm == nil {
				obj.PerigeeKm = &sc.perigeeKm
			}
		}
	}
	if obj.ApogeeKm != nil && obj.PerigeeKm != nil {
		oc := classifyOrbit(*obj.ApogeeKm, *obj.PerigeeKm)
		obj.OrbitClass = &oc
	}

	rec := models.IngestRecord{Object: obj, ObservedAt: epoch}
	if line1 != "" && line2 != "" {
		es := &models.ElementSet{
			NoradID:   noradID,
			Line1:     line1,
			Line2:     line2,
			Epoch:     epoch,
			FetchedAt: fetchedAt,
		}
		if n := r.Get("ELEMENT_SET_NO"); n.Exists() && n.String() != "" {
			setNo := int(n.Int())
			es.ElementSetNo = &setNo
		}
		rec.Elements = es
	}
	return rec, nil
}

// mapSatcatRecord normalizes one satcat record: ownership and launch
// metadata merged into the object, plus classification tags for radar
// cross-section size and launch site.
func mapSatcatRecord(r gjson.Result) (models.IngestRecord, error) {
	noradID := r.Get("NORAD_CAT_ID").Int()
	if noradID <= 0 {
		return models.IngestRecord{}, fmt.Errorf("missing or invalid NORAD_CAT_ID: %q", r.Get("NORAD_CAT_ID").String())
	}

	obj := &models.CatalogObject{
		NoradID:    noradID,
		ObjectName: objectNameFrom(r.Get("SATNAME").String(), noradID),
	}
	if c := r.Get("COUNTRY").String(); c != "" {
		obj.Country = &c
	}
	if t, ok := parseUpstreamTime(r.Get("LAUNCH").String()); ok {
		obj.LaunchDate = &t
	}
	if t, ok := parseUpstreamTime(r.Get("DECAY").String()); ok {
		obj.DecayDate = &t
	}
	if ot := normalizeObjectType(r.Get("OBJECT_TYPE").String()); ot != "" {
		obj.ObjectType = &ot
	}
	obj.PeriodMin = floatField(r, "PERIOD")
	obj.InclinationDeg = floatField(r, "INCLINATION")
	obj.ApogeeKm = floatField(r, "APOGEE")
	obj.PerigeeKm = floatField(r, "PERIGEE")
	if obj.ApogeeKm != nil && obj.PerigeeKm != nil {
		oc := classifyOrbit(*obj.ApogeeKm, *obj.PerigeeKm)
		obj.OrbitClass = &oc
	}

	rec := models.IngestRecord{Object: obj}
	if rcs := r.Get("RCS_SIZE").String(); rcs != "" {
		rec.Tags = append(rec.Tags, models.ClassificationTag{
			NoradID:    noradID,
			TagType:    "rcs_size",
			TagValue:   strings.ToLower(rcs),
			Confidence: 1.0,
			Source:     SourceName,
		})
	}
	if site := r.Get("SITE").String(); site != "" {
		rec.Tags = append(rec.Tags, models.ClassificationTag{
			NoradID:    noradID,
			TagType:    "launch_site",
			TagValue:   site,
			Confidence: 1.0,
			Source:     SourceName,
		})
	}
	return rec, nil
}

// objectName prefers OBJECT_NAME, then the TLE title line, then a synthetic
// name so the store's non-empty name constraint always holds.
func objectName(r gjson.Result, noradID int64) string {
	if name := strings.TrimSpace(r.Get("OBJECT_NAME").String()); name != "" {
		return name
	}
	title := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(r.Get("TLE_LINE0").String()), "0 "))
	return objectNameFrom(title, noradID)
}

func objectNameFrom(name string, noradID int64) string {
	name = strings.TrimSpace(name)
	if name != "" {
		return name
	}
	return "OBJECT " + strconv.FormatInt(noradID, 10)
}

func normalizeObjectType(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case models.ObjectTypePayload, "PAY":
		return models.ObjectTypePayload
	case models.ObjectTypeRocketBody, "R/B":
		return models.ObjectTypeRocketBody
	case models.ObjectTypeDebris, "DEB":
		return models.ObjectTypeDebris
	case "":
		return ""
	default:
		return models.ObjectTypeUnknown
	}
}

// floatField returns a pointer to the parsed value, or nil when the field is
// absent, empty, or not a number.
func floatField(r gjson.Result, name string) *float64 {
	f := r.Get(name)
	if !f.Exists() || f.String() == "" {
		return nil
	}
	v, err := strconv.ParseFloat(f.String(), 64)
	if err != nil {
		return nil
	}
	return &v
}
