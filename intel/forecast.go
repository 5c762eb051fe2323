package intel

import (
	"fmt"
	"time"

	"go-spotscout/types"
)

const (
	forecastPoints    = 6
	volumeWeight      = 0.65
	busynessWeight    = 0.35
	forecastLowMax    = 0.34
	forecastHighMin   = 0.67
	hourVolumeCeiling = 5.0 // check-ins at one hour-of-day for full local confidence
)

// Forecast builds the 6-point crowd curve starting at the current hour. Each
// hour-of-day's score blends that hour's historical check-in volume with its
// average busyness, falling back to the global average when the hour has no
// data.
func Forecast(agg types.SpotAggregate, checkins []types.CheckinEvent, now time.Time, overallConfidence float64) []types.ForecastPoint {
	var counts [24]int
	var busyTotals [24]float64
	var busyCounts [24]int
	maxCount := 0

	for _, ev := range checkins {
		if !ev.HasCreatedAt {
			continue
		}
		hour := ev.CreatedAt.Hour()
		counts[hour]++
		if counts[hour] > maxCount {
			maxCount = counts[hour]
		}
		if ev.Busyness > 0 {
			busyTotals[hour] += ev.Busyness
			busyCounts[hour]++
		}
	}

	points := make([]types.ForecastPoint, 0, forecastPoints)
	for offset := 0; offset < forecastPoints; offset++ {
		hour := (now.Hour() + offset) % 24

		volume := 0.0
		if maxCount > 0 {
			volume = float64(counts[hour]) / float64(maxCount)
		}

		busyness := agg.AvgBusyness // global fallback for hours without data
		if busyCounts[hour] > 0 {
			busyness = busyTotals[hour] / float64(busyCounts[hour])
		}
		normalizedBusyness := 0.0
		if busyness > 0 {
			normalizedBusyness = clamp((busyness-1)/4, 0, 1)
		}

		score := clamp(volumeWeight*volume+busynessWeight*normalizedBusyness, 0, 1)

		local := clamp(float64(counts[hour])/hourVolumeCeiling, 0, 1)
		pointConfidence := clamp(0.7*overallConfidence+0.3*local, 0, 1)

		points = append(points, types.ForecastPoint{
			Offset:     offset,
			Label:      forecastLabel(offset),
			Level:      forecastLevel(score),
			Score:      score,
			Confidence: pointConfidence,
		})
	}
	return points
}

func forecastLabel(offset int) string {
	if offset == 0 {
		return "Now"
	}
	return fmt.Sprintf("+%dh", offset)
}

func forecastLevel(score float64) types.CrowdLevel {
	if score < forecastLowMax {
		return types.CrowdLow
	}
	if score < forecastHighMin {
		return types.CrowdModerate
	}
	return types.CrowdHigh
}
