package spacetrack

import (
	"math"
	"strconv"
	"strings"

	"github.com/MajorCrixus/AetherLink-sub001/internal/catsync/db/models"
)

const (
	earthRadiusKm = 6378.135

	geoAltitudeKm = 35786.0
	geoWindowKm   = 250.0
	leoCeilingKm  = 2000.0

	// standard TLE lines are 69 columns; anything shorter cannot carry the
	// element fields
	tleLineLen = 69
)

type orbitScalars struct {
	periodMin      float64
	inclinationDeg float64
	apogeeKm       float64
	perigeeKm      float64
}

// derivedScalars computes summary orbital scalars from the mean elements on
// line 2 of a TLE. This is pure element arithmetic; no propagation happens
// here. Truncated or garbled lines report ok=false so callers fall back to
// whatever scalars the record itself carried.
func derivedScalars(line1, line2 string) (orbitScalars, bool) {
	if len(line1) < tleLineLen || len(line2) < tleLineLen {
		return orbitScalars{}, false
	}

	// fixed column positions per the TLE format: inclination 9-16,
	// eccentricity 27-33 (implied leading decimal point), mean motion 53-63
	incl, err := tleFloat(line2[8:16])
	if err != nil {
		return orbitScalars{}, false
	}
	ecc, err := tleFloat("0." + strings.TrimSpace(line2[26:33]))
	if err != nil || ecc < 0 || ecc >= 1 {
		return orbitScalars{}, false
	}
	// mean motion in revolutions per day
	n, err := tleFloat(line2[52:63])
	if err != nil || n <= 0 || math.IsNaN(n) {
		return orbitScalars{}, false
	}

	period := 1440 / n
	// semi-major axis in km from the mean motion (WGS72 mu, km^3/s^2)
	const mu = 398600.8
	nRad := n * 2 * math.Pi / 86400
	a := math.Cbrt(mu / (nRad * nRad))
	apogee := a*(1+ecc) - earthRadiusKm
	perigee := a*(1-ecc) - earthRadiusKm

	return orbitScalars{
		periodMin:      period,
		inclinationDeg: incl,
		apogeeKm:       apogee,
		perigeeKm:      perigee,
	}, true
}

func tleFloat(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}

// classifyOrbit buckets an orbit by its apogee and perigee altitudes. The GEO
// window is a band around the geostationary altitude; eccentric orbits that
// cross it from a low perigee classify as HEO.
func classifyOrbit(apogeeKm, perigeeKm float64) string {
	switch {
	case apogeeKm <= 0 || perigeeKm <= 0 || perigeeKm > apogeeKm:
		return models.OrbitClassUnknown
	case apogeeKm < leoCeilingKm:
		return models.OrbitClassLEO
	case perigeeKm >= geoAltitudeKm-geoWindowKm && apogeeKm <= geoAltitudeKm+geoWindowKm:
		return models.OrbitClassGEO
	case apogeeKm > geoAltitudeKm-geoWindowKm && perigeeKm < geoAltitudeKm-geoWindowKm:
		return models.OrbitClassHEO
	default:
		return models.OrbitClassMEO
	}
}
