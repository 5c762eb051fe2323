package filters

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"go-spotscout/types"
)

func TestMatchesClientFiltersDistance(t *testing.T) {
	spot := types.SpotAggregate{Distance: 3.4}

	assert.True(t, MatchesClientFilters(spot, types.FilterState{DistanceMiles: 5}))
	assert.False(t, MatchesClientFilters(spot, types.FilterState{DistanceMiles: 2}))

	// unknown distance is never filtered out on distance alone
	unknown := types.SpotAggregate{Distance: math.Inf(1)}
	assert.True(t, MatchesClientFilters(unknown, types.FilterState{DistanceMiles: 2}))
}

func TestMatchesClientFiltersNoise(t *testing.T) {
	loud := types.SpotAggregate{AvgNoiseLevel: 4.2}
	quiet := types.SpotAggregate{AvgNoiseLevel: 1.8}

	filter := types.FilterState{NoiseLevel: "quiet"}
	assert.False(t, MatchesClientFilters(loud, filter))
	assert.True(t, MatchesClientFilters(quiet, filter))

	filter.NoiseLevel = types.NoiseAny
	assert.True(t, MatchesClientFilters(loud, filter))
}

func TestMatchesClientFiltersDowngradedRemoteStillApply(t *testing.T) {
	closed := types.SpotAggregate{OpenNow: false}
	pricey := types.SpotAggregate{OpenNow: true, PriceLevel: 4}

	filter := types.FilterState{OpenNow: true, PriceLevels: []int{1, 2}}
	assert.False(t, MatchesClientFilters(closed, filter))
	assert.False(t, MatchesClientFilters(pricey, filter))
}

func TestCheckinCounts(t *testing.T) {
	assert.True(t, CheckinCounts(types.CheckinEvent{Visibility: "public"}))
	assert.True(t, CheckinCounts(types.CheckinEvent{}))
	assert.False(t, CheckinCounts(types.CheckinEvent{Visibility: "friends"}))
	assert.False(t, CheckinCounts(types.CheckinEvent{Visibility: "close"}))
}

func TestSpotEligible(t *testing.T) {
	assert.True(t, SpotEligible(types.SpotDoc{ID: "a"}))
	assert.False(t, SpotEligible(types.SpotDoc{ID: "b", Demo: true}))
}
