package spacetrack

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyOrbit(t *testing.T) {
	tests := []struct {
		name    string
		apogee  float64
		perigee float64
		want    string
	}{
		{"iss", 423, 413, "LEO"},
		{"starlink", 550, 540, "LEO"},
		{"gps", 20200, 20180, "MEO"},
		{"geostationary", 35793, 35779, "GEO"},
		{"molniya", 39700, 600, "HEO"},
		{"gto", 35900, 250, "HEO"},
		{"no data", 0, 0, "UNKNOWN"},
		{"inverted", 400, 500, "UNKNOWN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyOrbit(tt.apogee, tt.perigee))
		})
	}
}

func TestDerivedScalars(t *testing.T) {
	sc, ok := derivedScalars(issLine1, issLine2)
	require.True(t, ok)

	assert.InDelta(t, 92.9, sc.periodMin, 0.5)
	assert.InDelta(t, 51.64, sc.inclinationDeg, 0.05)
	assert.InDelta(t, 423, sc.apogeeKm, 15)
	assert.InDelta(t, 413, sc.perigeeKm, 15)
}

func TestDerivedScalarsRejectsBadLines(t *testing.T) {
	tests := []struct {
		name  string
		line1 string
		line2 string
	}{
		{"empty", "", ""},
		{"truncated line2", issLine1, issLine2[:40]},
		{"truncated line1", issLine1[:10], issLine2},
		{"garbage columns", issLine1, "2 25544  xxxxxxx 211.2001 0007417  17.6667  85.6398 15.50103472202482"},
		{"zero mean motion", issLine1, "2 25544  51.6439 211.2001 0007417  17.6667  85.6398 00.00000000202482"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := derivedScalars(tt.line1, tt.line2)
			assert.False(t, ok)
		})
	}
}
