package types

// LatLng is a plain coordinate pair.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// SpotDoc mirrors a spot document in Firestore.
type SpotDoc struct {
	ID         string   `firestore:"-"` // tell firestore to ignore
	Name       string   `firestore:"name"`
	Lat        float64  `firestore:"lat"`
	Lng        float64  `firestore:"lng"`
	Geohash    string   `firestore:"geohash"`
	PlaceTypes []string `firestore:"placeTypes"`
	Tags       []string `firestore:"tags"`
	PriceLevel int      `firestore:"priceLevel"`
	Rating     float64  `firestore:"rating"`
	OpenNow    bool     `firestore:"openNow"`
	// Denormalized flags kept on the document so they stay remote-queryable.
	GoodForStudying bool `firestore:"goodForStudying"`
	GoodForMeetings bool `firestore:"goodForMeetings"`
	Demo            bool `firestore:"demo,omitempty"`
}

// SpotAggregate holds the rolling statistics derived from a spot's check-ins,
// merged with the spot document's own metadata. It is recomputed on every read;
// no state survives across recomputations.
type SpotAggregate struct {
	SpotID    string  `json:"spotId"`
	Name      string  `json:"name"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
	HasCoords bool    `json:"hasCoords"`

	PlaceTypes []string `json:"placeTypes,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	PriceLevel int      `json:"priceLevel"`
	Rating     float64  `json:"rating"`
	OpenNow    bool     `json:"openNow"`

	CheckinCount          int            `json:"checkinCount"`
	AvgNoiseLevel         float64        `json:"avgNoiseLevel"`
	AvgBusyness           float64        `json:"avgBusyness"`
	AvgWifiSpeed          float64        `json:"avgWifiSpeed"`
	AvgDrinkQuality       float64        `json:"avgDrinkQuality"`
	TopOutletAvailability string         `json:"topOutletAvailability"`
	LaptopFriendlyPct     float64        `json:"laptopFriendlyPct"`
	TagVotes              map[string]int `json:"tagVotes,omitempty"`
	IntentScores          map[string]int `json:"intentScores,omitempty"`
	HereNowCount          int            `json:"hereNowCount"`

	// Distance from the query reference point in miles. +Inf when the spot
	// has no usable coordinates.
	Distance float64 `json:"distance"`
}

// RankedSpot annotates an aggregate/intelligence pair for one ranking pass.
type RankedSpot struct {
	Spot          SpotAggregate      `json:"spot"`
	Intel         *PlaceIntelligence `json:"intel,omitempty"`
	IntentScore   float64            `json:"intentScore"`
	IntentReasons []string           `json:"intentReasons,omitempty"`
	QueryBoost    float64            `json:"queryBoost"`
	Vibes         VibeScores         `json:"vibes"`
	VibeMatch     float64            `json:"vibeMatch"`
}

// StatusAdvisory tells the presentation layer how the pipeline degraded,
// it is never a hard failure.
type StatusAdvisory struct {
	ID      string `json:"id"`
	Level   string `json:"level"` // info | warning | error | success
	Message string `json:"message"`
}

const (
	StatusInfo    = "info"
	StatusWarning = "warning"
	StatusError   = "error"
	StatusSuccess = "success"
)
