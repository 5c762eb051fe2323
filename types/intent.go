package types

// DiscoveryIntent is a named discovery goal used to bias ranking.
type DiscoveryIntent string

const (
	IntentAny         DiscoveryIntent = "any"
	IntentDeepWork    DiscoveryIntent = "deep-work"
	IntentDateNight   DiscoveryIntent = "date-night"
	IntentCatchUp     DiscoveryIntent = "catch-up"
	IntentQuickCoffee DiscoveryIntent = "quick-coffee"
	IntentAesthetic   DiscoveryIntent = "aesthetic"
)

// VibeScores are the five affinity scores computed per spot, each 0-100.
type VibeScores struct {
	Study     float64 `json:"study"`
	Date      float64 `json:"date"`
	Social    float64 `json:"social"`
	Quick     float64 `json:"quick"`
	Aesthetic float64 `json:"aesthetic"`
}
