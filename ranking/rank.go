package ranking

import (
	"sort"

	"go-spotscout/types"
)

// Tolerances for the multi-key comparator: each key only decides when the
// previous key's difference stayed inside its tolerance.
const (
	vibeTolerance   = 0.5
	intentTolerance = 0.01
	queryTolerance  = 0.5
)

// Rank orders annotated spots with the fixed multi-key comparator:
// vibe match, intent score (when an intent is active), query boost,
// here-now count, distance, total check-in count, spot id. The id key makes
// the order total, so a given input always produces the same sequence.
func Rank(spots []types.RankedSpot, intent types.DiscoveryIntent) []types.RankedSpot {
	ordered := append([]types.RankedSpot(nil), spots...)
	intentActive := intent != types.IntentAny && intent != ""

	sort.SliceStable(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]

		if d := a.VibeMatch - b.VibeMatch; d >= vibeTolerance || d <= -vibeTolerance {
			return d > 0
		}
		if intentActive {
			if d := a.IntentScore - b.IntentScore; d >= intentTolerance || d <= -intentTolerance {
				return d > 0
			}
		}
		if d := a.QueryBoost - b.QueryBoost; d >= queryTolerance || d <= -queryTolerance {
			return d > 0
		}
		if a.Spot.HereNowCount != b.Spot.HereNowCount {
			return a.Spot.HereNowCount > b.Spot.HereNowCount
		}
		if a.Spot.Distance != b.Spot.Distance {
			return a.Spot.Distance < b.Spot.Distance
		}
		if a.Spot.CheckinCount != b.Spot.CheckinCount {
			return a.Spot.CheckinCount > b.Spot.CheckinCount
		}
		return a.Spot.SpotID < b.Spot.SpotID
	})

	return ordered
}
