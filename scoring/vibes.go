package scoring

import (
	"go-spotscout/types"
)

const openNowBonus = 5.0

// Vibe names, used as IntentToVibe targets and ranking keys.
const (
	VibeStudy     = "study"
	VibeDate      = "date"
	VibeSocial    = "social"
	VibeQuick     = "quick"
	VibeAesthetic = "aesthetic"
)

// intentVibes is the fixed, total intent→vibe lookup. IntentAny maps to no
// vibe at all.
var intentVibes = map[types.DiscoveryIntent]string{
	types.IntentAny:         "",
	types.IntentDeepWork:    VibeStudy,
	types.IntentDateNight:   VibeDate,
	types.IntentCatchUp:     VibeSocial,
	types.IntentQuickCoffee: VibeQuick,
	types.IntentAesthetic:   VibeAesthetic,
}

// IntentToVibe maps a discovery intent to the vibe that dominates its ranking.
// The empty string means no single vibe dominates (the "any" intent).
func IntentToVibe(intent types.DiscoveryIntent) string {
	return intentVibes[intent]
}

// VibeScores maps a spot's aggregate onto the five affinity scores, each a
// weighted sum of ratio transforms of the raw signals clamped to [0, 100].
// Pure: same aggregate, same scores.
func VibeScores(spot types.SpotAggregate) types.VibeScores {
	quiet := 1 - normalize(spot.AvgNoiseLevel)
	lively := normalize(spot.AvgNoiseLevel)
	calm := 1 - normalize(spot.AvgBusyness)
	buzz := normalize(spot.AvgBusyness)
	wifi := normalize(spot.AvgWifiSpeed)
	drink := normalize(spot.AvgDrinkQuality)

	open := 0.0
	if spot.OpenNow {
		open = openNowBonus
	}

	scores := types.VibeScores{
		Study: clampScore(100*(0.30*wifi+
			0.25*quiet+
			0.15*calm+
			0.15*spot.LaptopFriendlyPct+
			0.10*intentRatio(spot, types.IntentDeepWork)+
			0.05*tagRatio(spot, "Quiet")) + open),

		Date: clampScore(100*(0.35*drink+
			0.25*moderate(spot.AvgNoiseLevel)+
			0.20*intentRatio(spot, types.IntentDateNight)+
			0.20*ratingRatio(spot.Rating)) + open),

		Social: clampScore(100*(0.35*lively+
			0.25*buzz+
			0.25*intentRatio(spot, types.IntentCatchUp)+
			0.15*tagRatio(spot, "Seating")) + open),

		Quick: clampScore(100*(0.40*calm+
			0.30*intentRatio(spot, types.IntentQuickCoffee)+
			0.30*drink) + open),

		Aesthetic: clampScore(100*(0.40*drink+
			0.35*intentRatio(spot, types.IntentAesthetic)+
			0.25*ratingRatio(spot.Rating)) + open),
	}
	return scores
}

// VibeFor returns the named vibe's score, or the mean of all five when no
// single vibe is named.
func VibeFor(scores types.VibeScores, vibe string) float64 {
	switch vibe {
	case VibeStudy:
		return scores.Study
	case VibeDate:
		return scores.Date
	case VibeSocial:
		return scores.Social
	case VibeQuick:
		return scores.Quick
	case VibeAesthetic:
		return scores.Aesthetic
	}
	return (scores.Study + scores.Date + scores.Social + scores.Quick + scores.Aesthetic) / 5
}

// normalize maps a 1-5 reading onto [0, 1]; 0 (no data) stays 0.
func normalize(v float64) float64 {
	if v <= 0 {
		return 0
	}
	return clamp01((v - 1) / 4)
}

// moderate peaks at the middle of the 1-5 scale, for vibes that want some
// life but not a crowd.
func moderate(v float64) float64 {
	if v <= 0 {
		return 0.5
	}
	n := normalize(v)
	return 1 - 2*abs(n-0.5)
}

func ratingRatio(rating float64) float64 {
	if rating <= 0 {
		return 0
	}
	return clamp01(rating / 5)
}

func intentRatio(spot types.SpotAggregate, intent types.DiscoveryIntent) float64 {
	if spot.CheckinCount == 0 {
		return 0
	}
	return clamp01(float64(spot.IntentScores[string(intent)]) / float64(spot.CheckinCount))
}

func tagRatio(spot types.SpotAggregate, tag string) float64 {
	if spot.CheckinCount == 0 {
		return 0
	}
	return clamp01(float64(spot.TagVotes[tag]) / float64(spot.CheckinCount))
}

func clampScore(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
