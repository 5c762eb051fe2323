package aggregator

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-spotscout/types"
)

var testNow = time.Date(2026, 3, 14, 15, 0, 0, 0, time.UTC)

func testDoc() types.SpotDoc {
	return types.SpotDoc{
		ID:   "spot-1",
		Name: "Night Owl Coffee",
		Lat:  37.7749,
		Lng:  -122.4194,
	}
}

func TestAggregateRollingAverages(t *testing.T) {
	events := []types.CheckinEvent{
		{UserID: "u1", NoiseLevel: 2, Busyness: 3, WifiSpeed: 5, HasCreatedAt: true, CreatedAt: testNow.Add(-time.Hour)},
		{UserID: "u2", NoiseLevel: 3, Busyness: 4, WifiSpeed: 4, HasCreatedAt: true, CreatedAt: testNow.Add(-30 * time.Minute)},
		{UserID: "u3", NoiseLevel: 2, Busyness: 2, HasCreatedAt: true, CreatedAt: testNow.Add(-3 * time.Hour)},
	}

	agg := Aggregate(testDoc(), events, testNow, nil)

	assert.Equal(t, 3, agg.CheckinCount)
	assert.InDelta(t, 2.3, agg.AvgNoiseLevel, 0.001)
	assert.InDelta(t, 3.0, agg.AvgBusyness, 0.001)
	// wifi was only reported twice; the zero reading stays out
	assert.InDelta(t, 4.5, agg.AvgWifiSpeed, 0.001)
}

func TestAggregateIdempotent(t *testing.T) {
	events := []types.CheckinEvent{
		{UserID: "u1", NoiseLevel: 2, Busyness: 1, OutletAvailability: types.OutletsPlenty, HasCreatedAt: true, CreatedAt: testNow.Add(-time.Minute)},
		{UserID: "u2", Busyness: 4, OutletAvailability: types.OutletsFew, Tags: []string{"Wi-Fi"}, Intent: string(types.IntentDeepWork)},
	}

	first := Aggregate(testDoc(), events, testNow, &types.LatLng{Lat: 37.78, Lng: -122.41})
	second := Aggregate(testDoc(), events, testNow, &types.LatLng{Lat: 37.78, Lng: -122.41})

	assert.Equal(t, first, second)
}

func TestAggregateHereNow(t *testing.T) {
	events := []types.CheckinEvent{
		{UserID: "u1", HasCreatedAt: true, CreatedAt: testNow.Add(-time.Hour)},
		{UserID: "u1", HasCreatedAt: true, CreatedAt: testNow.Add(-90 * time.Minute)}, // same user, counted once
		{UserID: "u2", HasCreatedAt: true, CreatedAt: testNow.Add(-3 * time.Hour)},    // outside horizon
		{UserID: "u3"}, // unparseable timestamp: excluded from presence only
		{UserID: "u4", HasCreatedAt: true, CreatedAt: testNow.Add(-5 * time.Minute)},
	}

	agg := Aggregate(testDoc(), events, testNow, nil)

	assert.Equal(t, 2, agg.HereNowCount)
	assert.Equal(t, 5, agg.CheckinCount)
}

func TestAggregateModalOutletsFirstSeenTie(t *testing.T) {
	events := []types.CheckinEvent{
		{UserID: "u1", OutletAvailability: types.OutletsSome},
		{UserID: "u2", OutletAvailability: types.OutletsPlenty},
		{UserID: "u3", OutletAvailability: types.OutletsPlenty},
		{UserID: "u4", OutletAvailability: types.OutletsSome},
	}

	agg := Aggregate(testDoc(), events, testNow, nil)
	assert.Equal(t, types.OutletsSome, agg.TopOutletAvailability)
}

func TestAggregateSkipsNonPublicCheckins(t *testing.T) {
	events := []types.CheckinEvent{
		{UserID: "u1", Visibility: "public", Busyness: 2},
		{UserID: "u2", Visibility: "friends", Busyness: 5},
		{UserID: "u3", Busyness: 2},
	}

	agg := Aggregate(testDoc(), events, testNow, nil)

	assert.Equal(t, 2, agg.CheckinCount)
	assert.InDelta(t, 2.0, agg.AvgBusyness, 0.001)
}

func TestAggregateDistance(t *testing.T) {
	ref := &types.LatLng{Lat: 37.7749, Lng: -122.4194}

	atRef := Aggregate(testDoc(), nil, testNow, ref)
	assert.InDelta(t, 0, atRef.Distance, 0.01)

	noCoords := testDoc()
	noCoords.Lat, noCoords.Lng = 0, 0
	unknown := Aggregate(noCoords, nil, testNow, ref)
	assert.True(t, math.IsInf(unknown.Distance, 1))
}

func TestHaversineMiles(t *testing.T) {
	// SF to LA is roughly 347 miles great-circle
	distance := HaversineMiles(37.7749, -122.4194, 34.0522, -118.2437)
	require.InDelta(t, 347, distance, 5)
}

func TestAggregateIntentVotes(t *testing.T) {
	events := []types.CheckinEvent{
		{UserID: "u1", Intent: string(types.IntentDeepWork)},
		{UserID: "u2", Intent: string(types.IntentDeepWork)},
		{UserID: "u3", Intent: string(types.IntentQuickCoffee)},
	}

	agg := Aggregate(testDoc(), events, testNow, nil)

	assert.Equal(t, 2, agg.IntentScores[string(types.IntentDeepWork)])
	assert.Equal(t, 1, agg.IntentScores[string(types.IntentQuickCoffee)])
}
