package filters

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"go-spotscout/types"
)

func allRemoteActive() types.FilterState {
	return types.FilterState{
		OpenNow:         true,
		PriceLevels:     []int{1, 2},
		GoodForStudying: true,
		GoodForMeetings: true,
	}
}

func TestNormalizeWithinBudget(t *testing.T) {
	res := Normalize(allRemoteActive(), 4)

	assert.Empty(t, res.Downgraded)
	assert.Len(t, res.ActiveRemoteFilters, 4)
	assert.Equal(t, allRemoteActive(), res.Normalized)
}

func TestNormalizeDowngradesLowestPriorityFirst(t *testing.T) {
	res := Normalize(allRemoteActive(), 2)

	assert.Equal(t, []types.FilterName{types.FilterGoodForMeetings, types.FilterGoodForStudying}, res.Downgraded)
	assert.Equal(t, []types.FilterName{types.FilterOpenNow, types.FilterPriceLevel}, res.ActiveRemoteFilters)
	assert.True(t, res.Normalized.OpenNow)
	assert.NotEmpty(t, res.Normalized.PriceLevels)
	assert.False(t, res.Normalized.GoodForStudying)
	assert.False(t, res.Normalized.GoodForMeetings)
}

func TestNormalizeBudgetInvariant(t *testing.T) {
	for budget := 0; budget <= 5; budget++ {
		res := Normalize(allRemoteActive(), budget)
		assert.LessOrEqual(t, len(res.ActiveRemoteFilters), budget, "budget %d", budget)
	}
}

func TestNormalizeDeterministic(t *testing.T) {
	first := Normalize(allRemoteActive(), 1)
	second := Normalize(allRemoteActive(), 1)
	assert.Equal(t, first, second)
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	input := allRemoteActive()
	Normalize(input, 0)

	assert.Equal(t, allRemoteActive(), input)
}

func TestNormalizeNeverTouchesClientFilters(t *testing.T) {
	input := allRemoteActive()
	input.NotCrowded = true
	input.HighRated = true
	input.NoiseLevel = "quiet"
	input.DistanceMiles = 1.5

	res := Normalize(input, 0)

	assert.True(t, res.Normalized.NotCrowded)
	assert.True(t, res.Normalized.HighRated)
	assert.Equal(t, "quiet", res.Normalized.NoiseLevel)
	assert.Equal(t, 1.5, res.Normalized.DistanceMiles)
}

func TestClassificationsDisjoint(t *testing.T) {
	for _, name := range RemoteEligible() {
		assert.False(t, IsClientOnly(name), "%s classified both ways", name)
	}
}
