package types

import "time"

type CrowdLevel string

const (
	CrowdLow      CrowdLevel = "low"
	CrowdModerate CrowdLevel = "moderate"
	CrowdHigh     CrowdLevel = "high"
	CrowdUnknown  CrowdLevel = "unknown"
)

type BestTime string

const (
	BestMorning   BestTime = "morning"
	BestAfternoon BestTime = "afternoon"
	BestEvening   BestTime = "evening"
	BestLate      BestTime = "late"
	BestAnytime   BestTime = "anytime"
)

// ExternalSignal is one third-party source's view of a place.
type ExternalSignal struct {
	Source      string   `json:"source" firestore:"source"`
	Rating      float64  `json:"rating,omitempty" firestore:"rating,omitempty"`
	ReviewCount int      `json:"reviewCount,omitempty" firestore:"reviewCount,omitempty"`
	PriceLevel  int      `json:"priceLevel,omitempty" firestore:"priceLevel,omitempty"`
	Categories  []string `json:"categories,omitempty" firestore:"categories,omitempty"`
}

// ForecastPoint is one hour of the crowd forecast curve.
type ForecastPoint struct {
	Offset     int        `json:"offset"` // hours from now, 0..5
	Label      string     `json:"label"`  // "Now", "+1h", ... "+5h"
	Level      CrowdLevel `json:"level"`
	Score      float64    `json:"score"`      // 0..1
	Confidence float64    `json:"confidence"` // 0..1
}

// PlaceIntelligence is the cached, scored summary of a spot. Computed on
// demand, cached for 15 minutes, invalidated when a new check-in lands.
type PlaceIntelligence struct {
	WorkScore       int              `json:"workScore" firestore:"workScore"`
	CrowdLevel      CrowdLevel       `json:"crowdLevel" firestore:"crowdLevel"`
	BestTime        BestTime         `json:"bestTime" firestore:"bestTime"`
	Confidence      float64          `json:"confidence" firestore:"confidence"`
	Highlights      []string         `json:"highlights" firestore:"highlights"`
	UseCases        []string         `json:"useCases" firestore:"useCases"`
	ExternalSignals []ExternalSignal `json:"externalSignals" firestore:"externalSignals"`
	CrowdForecast   []ForecastPoint  `json:"crowdForecast" firestore:"crowdForecast"`
	ComputedAt      time.Time        `json:"computedAt" firestore:"computedAt"`
}
