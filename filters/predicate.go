package filters

import (
	"math"

	"go-spotscout/types"
)

// Thresholds used when a criterion has to be judged from aggregate signals.
const (
	highRatedMin    = 4.3
	notCrowdedMax   = 3.5
	studyScoreMin   = 3.5 // avg wifi needed to count as study-friendly
	studyNoiseMax   = 3.0
	meetingNoiseMin = 2.0
	meetingNoiseMax = 4.0
)

// noiseCeilings maps the named noise preference to the highest acceptable
// average noise level.
var noiseCeilings = map[string]float64{
	"quiet":    2.5,
	"moderate": 3.5,
	"lively":   5.0,
}

// MatchesClientFilters evaluates every locally-checkable criterion of the
// requested filter against a spot aggregate. This is the one shared predicate:
// the geo fan-out and the ranking pipeline both call it, so downgraded remote
// filters are still honored here even when the remote query could not apply
// them.
func MatchesClientFilters(spot types.SpotAggregate, f types.FilterState) bool {
	if f.DistanceMiles > 0 && !math.IsInf(spot.Distance, 1) && spot.Distance > f.DistanceMiles {
		return false
	}
	if f.NoiseLevel != "" && f.NoiseLevel != types.NoiseAny {
		ceiling, ok := noiseCeilings[f.NoiseLevel]
		if ok && spot.AvgNoiseLevel > 0 && spot.AvgNoiseLevel > ceiling {
			return false
		}
	}
	if f.NotCrowded && spot.AvgBusyness > notCrowdedMax {
		return false
	}
	if f.HighRated && !isHighRated(spot) {
		return false
	}
	if f.OpenNow && !spot.OpenNow {
		return false
	}
	if len(f.PriceLevels) > 0 && spot.PriceLevel > 0 && !containsInt(f.PriceLevels, spot.PriceLevel) {
		return false
	}
	if f.GoodForStudying && !isGoodForStudying(spot) {
		return false
	}
	if f.GoodForMeetings && !isGoodForMeetings(spot) {
		return false
	}
	return true
}

// CheckinCounts decides whether a check-in participates in shared aggregation.
// Only public check-ins count; friend-scoped ones stay out of the global view.
func CheckinCounts(ev types.CheckinEvent) bool {
	return ev.Visibility == "" || ev.Visibility == "public"
}

// SpotEligible excludes seeded demo documents from every query path.
func SpotEligible(doc types.SpotDoc) bool {
	return !doc.Demo
}

func isHighRated(spot types.SpotAggregate) bool {
	return spot.Rating >= highRatedMin || spot.AvgDrinkQuality >= 4.0
}

func isGoodForStudying(spot types.SpotAggregate) bool {
	if spot.AvgWifiSpeed >= studyScoreMin && (spot.AvgNoiseLevel == 0 || spot.AvgNoiseLevel <= studyNoiseMax) {
		return true
	}
	return spot.IntentScores[string(types.IntentDeepWork)] > 0
}

func isGoodForMeetings(spot types.SpotAggregate) bool {
	if spot.AvgNoiseLevel >= meetingNoiseMin && spot.AvgNoiseLevel <= meetingNoiseMax {
		return true
	}
	return spot.IntentScores[string(types.IntentCatchUp)] > 0
}

func containsInt(list []int, v int) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
