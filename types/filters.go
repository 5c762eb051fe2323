package types

// FilterName identifies one criterion of a FilterState.
type FilterName string

const (
	FilterDistance        FilterName = "distance"
	FilterOpenNow         FilterName = "openNow"
	FilterNoiseLevel      FilterName = "noiseLevel"
	FilterNotCrowded      FilterName = "notCrowded"
	FilterPriceLevel      FilterName = "priceLevel"
	FilterHighRated       FilterName = "highRated"
	FilterGoodForStudying FilterName = "goodForStudying"
	FilterGoodForMeetings FilterName = "goodForMeetings"
)

// NoiseAny disables the noise criterion.
const NoiseAny = "any"

// FilterState is the full set of discovery criteria a user can request.
type FilterState struct {
	DistanceMiles   float64 `json:"distanceMiles"`
	OpenNow         bool    `json:"openNow"`
	NoiseLevel      string  `json:"noiseLevel"` // quiet | moderate | lively | any
	NotCrowded      bool    `json:"notCrowded"`
	PriceLevels     []int   `json:"priceLevels,omitempty"` // 1..4, empty = any
	HighRated       bool    `json:"highRated"`
	GoodForStudying bool    `json:"goodForStudying"`
	GoodForMeetings bool    `json:"goodForMeetings"`
}
