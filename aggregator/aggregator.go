package aggregator

import (
	"math"
	"time"

	"go-spotscout/filters"
	"go-spotscout/types"
)

const (
	// PresenceHorizon bounds how old a check-in may be and still count as
	// "here now".
	PresenceHorizon = 2 * time.Hour

	earthRadiusKM = 6371.0
	kmPerMile     = 1.60934
)

// Aggregate folds a spot's check-in events into a SpotAggregate. The fold is
// pure and idempotent: calling it twice on the same inputs yields identical
// output, and nothing survives across recomputations. ref may be nil when no
// reference point is known; distance is then +Inf.
func Aggregate(doc types.SpotDoc, events []types.CheckinEvent, now time.Time, ref *types.LatLng) types.SpotAggregate {
	agg := types.SpotAggregate{
		SpotID:     doc.ID,
		Name:       doc.Name,
		Lat:        doc.Lat,
		Lng:        doc.Lng,
		HasCoords:  doc.Lat != 0 || doc.Lng != 0,
		PlaceTypes: doc.PlaceTypes,
		Tags:       doc.Tags,
		PriceLevel: doc.PriceLevel,
		Rating:     doc.Rating,
		OpenNow:    doc.OpenNow,
		Distance:   math.Inf(1),
	}

	var noise, busy, wifi, drink sum
	outletCounts := map[string]int{}
	outletOrder := []string{}
	tagVotes := map[string]int{}
	intentScores := map[string]int{}
	hereNow := map[string]bool{}
	laptopYes, laptopReported := 0, 0

	for _, ev := range events {
		if !filters.CheckinCounts(ev) {
			continue
		}
		agg.CheckinCount++

		noise.add(ev.NoiseLevel)
		busy.add(ev.Busyness)
		wifi.add(ev.WifiSpeed)
		drink.add(ev.DrinkQuality)

		if ev.OutletAvailability != "" {
			if outletCounts[ev.OutletAvailability] == 0 {
				outletOrder = append(outletOrder, ev.OutletAvailability)
			}
			outletCounts[ev.OutletAvailability]++
		}
		if ev.LaptopReported {
			laptopReported++
			if ev.LaptopFriendly {
				laptopYes++
			}
		}
		for _, tag := range ev.Tags {
			tagVotes[tag]++
		}
		if ev.Intent != "" {
			intentScores[ev.Intent]++
		}

		// Unparseable timestamps are excluded from presence, nothing else.
		if ev.HasCreatedAt && ev.UserID != "" && now.Sub(ev.CreatedAt) >= 0 && now.Sub(ev.CreatedAt) <= PresenceHorizon {
			hereNow[ev.UserID] = true
		}
	}

	agg.AvgNoiseLevel = noise.avg()
	agg.AvgBusyness = busy.avg()
	agg.AvgWifiSpeed = wifi.avg()
	agg.AvgDrinkQuality = drink.avg()
	agg.TopOutletAvailability = modal(outletCounts, outletOrder)
	if laptopReported > 0 {
		agg.LaptopFriendlyPct = float64(laptopYes) / float64(laptopReported)
	}
	if len(tagVotes) > 0 {
		agg.TagVotes = tagVotes
	}
	if len(intentScores) > 0 {
		agg.IntentScores = intentScores
	}
	agg.HereNowCount = len(hereNow)

	if ref != nil && agg.HasCoords {
		agg.Distance = HaversineMiles(ref.Lat, ref.Lng, doc.Lat, doc.Lng)
	}

	return agg
}

// sum is a running sum/count for one metric; zero readings mean "not reported"
// and stay out of the average.
type sum struct {
	total float64
	count int
}

func (s *sum) add(v float64) {
	if v > 0 {
		s.total += v
		s.count++
	}
}

// avg reports the rolling average rounded to one decimal, 0 when no data.
func (s *sum) avg() float64 {
	if s.count == 0 {
		return 0
	}
	return math.Round(s.total/float64(s.count)*10) / 10
}

// modal picks the highest-count value; ties break toward the value seen first.
func modal(counts map[string]int, order []string) string {
	best, bestCount := "", 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}

// HaversineMiles is the great-circle distance between two points in miles.
func HaversineMiles(lat1, lon1, lat2, lon2 float64) float64 {
	radLat1 := lat1 * math.Pi / 180
	radLat2 := lat2 * math.Pi / 180
	deltaLat := (lat2 - lat1) * math.Pi / 180
	deltaLon := (lon2 - lon1) * math.Pi / 180

	a := math.Sin(deltaLat/2)*math.Sin(deltaLat/2) +
		math.Cos(radLat1)*math.Cos(radLat2)*
			math.Sin(deltaLon/2)*math.Sin(deltaLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKM * c / kmPerMile
}
