package querylang

import (
	"strings"

	"go-spotscout/types"
)

// ParsedQuery is a free-text query broken into structured sub-filters plus
// residual match terms. The sub-filters participate in the merged ranking
// predicate; the terms only boost.
type ParsedQuery struct {
	Raw    string
	Terms  []string
	Filter types.FilterState
	// Intent inferred from the text; IntentAny when nothing matched.
	Intent           types.DiscoveryIntent
	IntentConfidence float64
}

// cue words that become structured sub-filters rather than match terms
var filterCues = map[string]func(*types.FilterState){
	"quiet":     func(f *types.FilterState) { f.NoiseLevel = "quiet" },
	"silent":    func(f *types.FilterState) { f.NoiseLevel = "quiet" },
	"lively":    func(f *types.FilterState) { f.NoiseLevel = "lively" },
	"open":      func(f *types.FilterState) { f.OpenNow = true },
	"cheap":     func(f *types.FilterState) { f.PriceLevels = []int{1, 2} },
	"study":     func(f *types.FilterState) { f.GoodForStudying = true },
	"studying":  func(f *types.FilterState) { f.GoodForStudying = true },
	"meeting":   func(f *types.FilterState) { f.GoodForMeetings = true },
	"meetings":  func(f *types.FilterState) { f.GoodForMeetings = true },
	"empty":     func(f *types.FilterState) { f.NotCrowded = true },
	"uncrowded": func(f *types.FilterState) { f.NotCrowded = true },
	"rated":     func(f *types.FilterState) { f.HighRated = true },
}

var intentCues = map[string]types.DiscoveryIntent{
	"work":      types.IntentDeepWork,
	"focus":     types.IntentDeepWork,
	"deadline":  types.IntentDeepWork,
	"date":      types.IntentDateNight,
	"romantic":  types.IntentDateNight,
	"friends":   types.IntentCatchUp,
	"hangout":   types.IntentCatchUp,
	"quick":     types.IntentQuickCoffee,
	"grab":      types.IntentQuickCoffee,
	"pretty":    types.IntentAesthetic,
	"instagram": types.IntentAesthetic,
	"aesthetic": types.IntentAesthetic,
}

// words that carry no match signal on their own
var stopWords = map[string]bool{
	"a": true, "an": true, "the": true, "for": true, "to": true, "and": true,
	"near": true, "me": true, "with": true, "good": true, "place": true,
	"spot": true, "now": true, "not": true, "crowded": true,
}

// Parse breaks a free-text query into cues and terms. Purely lexical; the
// optional NLP assists in this package refine the result when configured.
func Parse(query string) ParsedQuery {
	parsed := ParsedQuery{
		Raw:    query,
		Intent: types.IntentAny,
	}
	parsed.Filter.NoiseLevel = types.NoiseAny

	for _, word := range strings.Fields(strings.ToLower(query)) {
		word = strings.Trim(word, ".,!?\"'")
		if word == "" {
			continue
		}

		if apply, ok := filterCues[word]; ok {
			apply(&parsed.Filter)
			continue
		}
		if intent, ok := intentCues[word]; ok && parsed.Intent == types.IntentAny {
			parsed.Intent = intent
			parsed.IntentConfidence = 0.6 // lexical match only
		}
		if stopWords[word] {
			continue
		}
		parsed.Terms = append(parsed.Terms, word)
	}

	// "not crowded" spans two words; Fields sees them separately.
	if strings.Contains(strings.ToLower(query), "not crowded") {
		parsed.Filter.NotCrowded = true
	}

	return parsed
}

// Boost scores how strongly a spot matches the query's terms: partial name
// matches weigh most, then tag and category matches, then the inferred
// intent's vote count.
func Boost(spot types.SpotAggregate, parsed ParsedQuery) float64 {
	boost := 0.0
	name := strings.ToLower(spot.Name)

	for _, term := range parsed.Terms {
		if strings.Contains(name, term) {
			boost += 3
			continue
		}
		for _, tag := range spot.Tags {
			if strings.Contains(strings.ToLower(tag), term) {
				boost += 1.5
				break
			}
		}
		for _, placeType := range spot.PlaceTypes {
			if strings.Contains(strings.ToLower(placeType), term) {
				boost += 1
				break
			}
		}
	}

	if parsed.Intent != types.IntentAny {
		if votes := spot.IntentScores[string(parsed.Intent)]; votes > 0 {
			boost += parsed.IntentConfidence * float64(min(votes, 5))
		}
	}

	return boost
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
