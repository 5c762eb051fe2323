package intel

import (
	"math"
	"strings"
	"time"

	"go-spotscout/types"
)

const (
	crowdLowMax  = 2.1
	crowdHighMin = 3.8
)

// Keywords in a place's categories that shift the work-suitability score.
var (
	studyKeywords     = []string{"library", "university", "coworking", "book_store", "bookstore", "study", "campus"}
	nightlifeKeywords = []string{"bar", "night_club", "nightclub", "pub", "lounge", "nightlife", "casino"}
	positiveTags      = []string{"Wi-Fi", "Outlets", "Seating", "Quiet"}
)

// Score derives the full intelligence record from an aggregate, the raw
// check-ins behind it, and whatever external signals were available.
func Score(agg types.SpotAggregate, checkins []types.CheckinEvent, signals []types.ExternalSignal, now time.Time) *types.PlaceIntelligence {
	extRating, extReviews := averageExternalRating(signals)

	record := &types.PlaceIntelligence{
		WorkScore:       workScore(agg, extRating),
		CrowdLevel:      crowdLevel(agg),
		BestTime:        bestTime(checkins),
		Confidence:      confidence(agg.CheckinCount, len(signals) > 0),
		ExternalSignals: signals,
	}
	if record.ExternalSignals == nil {
		record.ExternalSignals = []types.ExternalSignal{}
	}
	record.CrowdForecast = Forecast(agg, checkins, now, record.Confidence)
	record.Highlights = highlights(agg, extRating, extReviews)
	record.UseCases = useCases(agg, record)
	return record
}

// workScore is a weighted linear combination of the aggregate's signals,
// clamped to [0, 100] and rounded.
func workScore(agg types.SpotAggregate, extRating float64) int {
	score := 50.0

	if agg.AvgWifiSpeed > 0 {
		score += (agg.AvgWifiSpeed - 3) * 8
	}
	if agg.LaptopFriendlyPct > 0 {
		score += (agg.LaptopFriendlyPct - 0.5) * 30
	}
	if agg.AvgNoiseLevel > 0 {
		score += (3 - agg.AvgNoiseLevel) * 6
	}
	if agg.AvgBusyness > 0 {
		score += (3 - agg.AvgBusyness) * 5
	}

	votes := 0
	for _, tag := range positiveTags {
		votes += agg.TagVotes[tag]
	}
	if votes > 0 {
		score += math.Log10(1+float64(votes)) * 8
	}

	if extRating > 0 {
		score += (extRating - 3.5) * 10
	}

	if hasKeyword(agg.PlaceTypes, studyKeywords) {
		score += 8
	}
	if hasKeyword(agg.PlaceTypes, nightlifeKeywords) {
		score -= 10
	}
	if agg.OpenNow {
		score += 2
	} else {
		score -= 2
	}

	return int(math.Round(clamp(score, 0, 100)))
}

// crowdLevel buckets the average busyness; unknown when no busyness data.
func crowdLevel(agg types.SpotAggregate) types.CrowdLevel {
	if agg.AvgBusyness == 0 {
		return types.CrowdUnknown
	}
	if agg.AvgBusyness <= crowdLowMax {
		return types.CrowdLow
	}
	if agg.AvgBusyness >= crowdHighMin {
		return types.CrowdHigh
	}
	return types.CrowdModerate
}

// bestTime picks the most frequent of the four fixed hour buckets across the
// check-in history, anytime when there is none.
func bestTime(checkins []types.CheckinEvent) types.BestTime {
	buckets := map[types.BestTime]int{}
	for _, ev := range checkins {
		if !ev.HasCreatedAt {
			continue
		}
		buckets[hourBucket(ev.CreatedAt.Hour())]++
	}

	best := types.BestAnytime
	bestCount := 0
	for _, candidate := range []types.BestTime{types.BestMorning, types.BestAfternoon, types.BestEvening, types.BestLate} {
		if buckets[candidate] > bestCount {
			best = candidate
			bestCount = buckets[candidate]
		}
	}
	return best
}

func hourBucket(hour int) types.BestTime {
	switch {
	case hour >= 6 && hour < 12:
		return types.BestMorning
	case hour >= 12 && hour < 17:
		return types.BestAfternoon
	case hour >= 17 && hour < 22:
		return types.BestEvening
	default:
		return types.BestLate
	}
}

func confidence(checkinCount int, hasExternal bool) float64 {
	c := math.Log10(1+float64(checkinCount)) / 2
	if hasExternal {
		c += 0.18
	}
	return clamp(c, 0.1, 0.95)
}

func highlights(agg types.SpotAggregate, extRating float64, extReviews int) []string {
	var list []string
	add := func(label string) {
		if len(list) < 4 {
			list = append(list, label)
		}
	}

	if agg.AvgWifiSpeed >= 4 {
		add("Fast WiFi")
	}
	if agg.TopOutletAvailability == types.OutletsPlenty || agg.TagVotes["Outlets"] >= 3 {
		add("Plenty of outlets")
	}
	if agg.AvgNoiseLevel > 0 && agg.AvgNoiseLevel <= 2 {
		add("Quiet space")
	}
	if agg.LaptopFriendlyPct >= 0.7 {
		add("Laptop crowd")
	}
	if extRating >= 4.5 && extReviews >= 50 {
		add("Highly rated")
	}
	if agg.AvgDrinkQuality >= 4 {
		add("Good coffee")
	}
	if agg.AvgBusyness > 0 && agg.AvgBusyness <= 2.5 {
		add("Usually has seats")
	}
	return list
}

// useCases caps at 3 and always emits at least the default.
func useCases(agg types.SpotAggregate, record *types.PlaceIntelligence) []string {
	var list []string
	add := func(label string) {
		if len(list) < 3 {
			list = append(list, label)
		}
	}

	if record.WorkScore >= 78 {
		add("Deep work")
	}
	if hasKeyword(agg.PlaceTypes, studyKeywords) || agg.IntentScores[string(types.IntentDeepWork)] > 0 {
		add("Study sessions")
	}
	if agg.AvgNoiseLevel >= 2 && agg.AvgNoiseLevel <= 4 && agg.AvgBusyness > 0 && agg.AvgBusyness <= 3.5 {
		add("Casual meetings")
	}
	if record.BestTime == types.BestEvening && hasKeyword(agg.PlaceTypes, nightlifeKeywords) {
		add("Evening hangout")
	}
	if len(list) == 0 {
		list = append(list, "Quick focus stop")
	}
	return list
}

func averageExternalRating(signals []types.ExternalSignal) (float64, int) {
	total, count, reviews := 0.0, 0, 0
	for _, sig := range signals {
		if sig.Rating > 0 {
			total += sig.Rating
			count++
		}
		reviews += sig.ReviewCount
	}
	if count == 0 {
		return 0, reviews
	}
	return total / float64(count), reviews
}

func hasKeyword(categories []string, keywords []string) bool {
	for _, category := range categories {
		lower := strings.ToLower(category)
		for _, keyword := range keywords {
			if strings.Contains(lower, keyword) {
				return true
			}
		}
	}
	return false
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
