package geoquery

import (
	"sort"

	"github.com/mmcloughlin/geohash"
)

const (
	// Radius is clamped to this window before conversion to meters.
	MinRadiusMiles = 0.5
	MaxRadiusMiles = 5.0

	MetersPerMile = 1609.34
)

// Range is one geohash bounding-box scan: [Start, End).
type Range struct {
	Start string
	End   string
}

// ClampRadiusMeters clamps a requested radius to the supported window and
// converts it to meters.
func ClampRadiusMeters(radiusMiles float64) float64 {
	if radiusMiles < MinRadiusMiles {
		radiusMiles = MinRadiusMiles
	}
	if radiusMiles > MaxRadiusMiles {
		radiusMiles = MaxRadiusMiles
	}
	return radiusMiles * MetersPerMile
}

// CoverRanges computes the covering set of geohash ranges around a center
// point: the center cell plus its eight neighbors at a precision picked from
// the radius. Output is sorted and de-duplicated so fan-out order is
// deterministic.
func CoverRanges(lat, lng, radiusMiles float64) []Range {
	precision := coverPrecision(radiusMiles)

	center := geohash.EncodeWithPrecision(lat, lng, uint(precision))
	cells := append([]string{center}, geohash.Neighbors(center)...)

	sort.Strings(cells)
	ranges := make([]Range, 0, len(cells))
	seen := map[string]bool{}
	for _, cell := range cells {
		if seen[cell] {
			continue
		}
		seen[cell] = true
		// "~" sorts above the whole geohash alphabet, so this covers every
		// document prefixed by the cell.
		ranges = append(ranges, Range{Start: cell, End: cell + "~"})
	}
	return ranges
}

// coverPrecision trades cell size against fan-out width: 6-character cells
// (~1.2km) for tight radii, 5-character cells (~5km) otherwise.
func coverPrecision(radiusMiles float64) int {
	if radiusMiles <= 1.5 {
		return 6
	}
	return 5
}
