package spacetrack

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

const issLine1 = "1 25544U 98067A   19341.69339541  .00001735  00000-0  41216-4 0  9992"
const issLine2 = "2 25544  51.6439 211.2001 0007417  17.6667  85.6398 15.50103472202482"

func TestMapElementRecord(t *testing.T) {
	r := gjson.Parse(`{
		"NORAD_CAT_ID": "25544",
		"OBJECT_NAME": "ISS (ZARYA)",
		"OBJECT_TYPE": "PAYLOAD",
		"EPOCH": "2019-12-07 16:38:29",
		"TLE_LINE1": "` + issLine1 + `",
		"TLE_LINE2": "` + issLine2 + `",
		"ELEMENT_SET_NO": "999",
		"PERIOD": "92.90",
		"INCLINATION": "51.64",
		"APOGEE": "423.1",
		"PERIGEE": "413.5"
	}`)

	fetchedAt := time.Now().UTC()
	rec, err := mapElementRecord(r, fetchedAt)
	require.NoError(t, err)

	require.NotNil(t, rec.Object)
	assert.Equal(t, int64(25544), rec.Object.NoradID)
	assert.Equal(t, "ISS (ZARYA)", rec.Object.ObjectName)
	require.NotNil(t, rec.Object.ObjectType)
	assert.Equal(t, "PAYLOAD", *rec.Object.ObjectType)
	require.NotNil(t, rec.Object.PeriodMin)
	assert.Equal(t, 92.90, *rec.Object.PeriodMin)
	require.NotNil(t, rec.Object.OrbitClass)
	assert.Equal(t, "LEO", *rec.Object.OrbitClass)

	require.NotNil(t, rec.Elements)
	assert.Equal(t, int64(25544), rec.Elements.NoradID)
	assert.Equal(t, issLine1, rec.Elements.Line1)
	assert.Equal(t, time.Date(2019, 12, 7, 16, 38, 29, 0, time.UTC), rec.Elements.Epoch)
	require.NotNil(t, rec.Elements.ElementSetNo)
	assert.Equal(t, 999, *rec.Elements.ElementSetNo)
	assert.Equal(t, fetchedAt, rec.Elements.FetchedAt)
	assert.Equal(t, rec.Elements.Epoch, rec.ObservedAt)
}

func TestMapElementRecordDerivesScalars(t *testing.T) {
	// no PERIOD/APOGEE/PERIGEE fields: scalars must come from the TLE lines
	r := gjson.Parse(`{
		"NORAD_CAT_ID": "25544",
		"OBJECT_NAME": "ISS (ZARYA)",
		"EPOCH": "2019-12-07 16:38:29",
		"TLE_LINE1": "` + issLine1 + `",
		"TLE_LINE2": "` + issLine2 + `"
	}`)

	rec, err := mapElementRecord(r, time.Now().UTC())
	require.NoError(t, err)

	require.NotNil(t, rec.Object.PeriodMin)
	assert.InDelta(t, 92.9, *rec.Object.PeriodMin, 0.5)
	require.NotNil(t, rec.Object.InclinationDeg)
	assert.InDelta(t, 51.64, *rec.Object.InclinationDeg, 0.05)
	require.NotNil(t, rec.Object.ApogeeKm)
	assert.InDelta(t, 423, *rec.Object.ApogeeKm, 15)
	require.NotNil(t, rec.Object.PerigeeKm)
	assert.InDelta(t, 413, *rec.Object.PerigeeKm, 15)
	require.NotNil(t, rec.Object.OrbitClass)
	assert.Equal(t, "LEO", *rec.Object.OrbitClass)
}

func TestMapElementRecordTruncatedTLE(t *testing.T) {
	// short TLE lines must degrade to a record without derived scalars, not
	// take the whole run down
	r := gjson.Parse(`{
		"NORAD_CAT_ID": "25544",
		"OBJECT_NAME": "ISS (ZARYA)",
		"EPOCH": "2019-12-07 16:38:29",
		"TLE_LINE1": "1 25544U",
		"TLE_LINE2": "2 25544"
	}`)

	rec, err := mapElementRecord(r, time.Now().UTC())
	require.NoError(t, err)
	assert.Nil(t, rec.Object.PeriodMin)
	assert.Nil(t, rec.Object.ApogeeKm)
	assert.Nil(t, rec.Object.PerigeeKm)
	assert.Nil(t, rec.Object.OrbitClass)
	require.NotNil(t, rec.Elements)
	assert.Equal(t, "1 25544U", rec.Elements.Line1)
}

func TestMapElementRecordMalformed(t *testing.T) {
	_, err := mapElementRecord(gjson.Parse(`{"OBJECT_NAME": "MYSTERY"}`), time.Now())
	assert.Error(t, err)

	_, err = mapElementRecord(gjson.Parse(`{"NORAD_CAT_ID": "25544", "EPOCH": "not a time"}`), time.Now())
	assert.Error(t, err)
}

func TestMapElementRecordNameFallback(t *testing.T) {
	r := gjson.Parse(`{
		"NORAD_CAT_ID": "99999",
		"EPOCH": "2020-01-01 00:00:00",
		"TLE_LINE0": "0 SOME OBJECT"
	}`)
	rec, err := mapElementRecord(r, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "SOME OBJECT", rec.Object.ObjectName)
	assert.Nil(t, rec.Elements)

	r = gjson.Parse(`{"NORAD_CAT_ID": "99999", "EPOCH": "2020-01-01 00:00:00"}`)
	rec, err = mapElementRecord(r, time.Now())
	require.NoError(t, err)
	assert.Equal(t, "OBJECT 99999", rec.Object.ObjectName)
}

func TestMapSatcatRecord(t *testing.T) {
	r := gjson.Parse(`{
		"NORAD_CAT_ID": "25544",
		"SATNAME": "ISS (ZARYA)",
		"COUNTRY": "ISS",
		"LAUNCH": "1998-11-20",
		"SITE": "TTMTR",
		"RCS_SIZE": "LARGE",
		"OBJECT_TYPE": "PAYLOAD",
		"PERIOD": "92.9",
		"INCLINATION": "51.64",
		"APOGEE": "423",
		"PERIGEE": "413"
	}`)

	rec, err := mapSatcatRecord(r)
	require.NoError(t, err)

	require.NotNil(t, rec.Object.Country)
	assert.Equal(t, "ISS", *rec.Object.Country)
	require.NotNil(t, rec.Object.LaunchDate)
	assert.Equal(t, time.Date(1998, 11, 20, 0, 0, 0, 0, time.UTC), *rec.Object.LaunchDate)
	assert.Nil(t, rec.Object.DecayDate)

	require.Len(t, rec.Tags, 2)
	assert.Equal(t, "rcs_size", rec.Tags[0].TagType)
	assert.Equal(t, "large", rec.Tags[0].TagValue)
	assert.Equal(t, SourceName, rec.Tags[0].Source)
	assert.Equal(t, "launch_site", rec.Tags[1].TagType)
	assert.Equal(t, "TTMTR", rec.Tags[1].TagValue)
}

func TestNormalizeObjectType(t *testing.T) {
	assert.Equal(t, "PAYLOAD", normalizeObjectType("payload"))
	assert.Equal(t, "ROCKET BODY", normalizeObjectType("R/B"))
	assert.Equal(t, "DEBRIS", normalizeObjectType("DEB"))
	assert.Equal(t, "UNKNOWN", normalizeObjectType("TBA"))
	assert.Equal(t, "", normalizeObjectType(""))
}
