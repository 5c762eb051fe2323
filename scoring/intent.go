package scoring

import (
	"fmt"

	"go-spotscout/types"
)

// IntentResult is one spot's fit for a selected discovery intent.
type IntentResult struct {
	Score   float64
	Reasons []string
}

// ScoreForIntent rates a spot against a discovery intent and explains the
// rating. The score is the dominating vibe's score plus small adjustments
// from live signals; reasons name the signals that moved it.
func ScoreForIntent(spot types.SpotAggregate, intent types.DiscoveryIntent) IntentResult {
	scores := VibeScores(spot)
	vibe := IntentToVibe(intent)
	result := IntentResult{Score: VibeFor(scores, vibe)}

	addReason := func(format string, args ...interface{}) {
		result.Reasons = append(result.Reasons, fmt.Sprintf(format, args...))
	}

	if votes := spot.IntentScores[string(intent)]; votes > 0 && intent != types.IntentAny {
		addReason("Tagged %s by %d check-ins", intent, votes)
	}

	switch intent {
	case types.IntentDeepWork:
		if spot.AvgWifiSpeed >= 4 {
			addReason("Fast WiFi (%.1f/5)", spot.AvgWifiSpeed)
		}
		if spot.AvgNoiseLevel > 0 && spot.AvgNoiseLevel <= 2.5 {
			addReason("Quiet (%.1f/5 noise)", spot.AvgNoiseLevel)
		}
		if spot.TopOutletAvailability == types.OutletsPlenty {
			addReason("Plenty of outlets")
		}
	case types.IntentDateNight:
		if spot.AvgDrinkQuality >= 4 {
			addReason("Great drinks (%.1f/5)", spot.AvgDrinkQuality)
		}
		if spot.Rating >= 4.3 {
			addReason("Highly rated (%.1f)", spot.Rating)
		}
	case types.IntentCatchUp:
		if spot.HereNowCount > 0 {
			addReason("%d people here now", spot.HereNowCount)
		}
		if spot.AvgNoiseLevel >= 3 {
			addReason("Lively atmosphere")
		}
	case types.IntentQuickCoffee:
		if spot.AvgBusyness > 0 && spot.AvgBusyness <= 2.5 {
			addReason("Usually not busy")
		}
		if spot.OpenNow {
			addReason("Open now")
		}
	case types.IntentAesthetic:
		if spot.AvgDrinkQuality >= 4 {
			addReason("Great drinks (%.1f/5)", spot.AvgDrinkQuality)
		}
	}

	return result
}
