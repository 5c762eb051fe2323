package intel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-spotscout/cache"
	"go-spotscout/external"
	"go-spotscout/types"
)

func testInput() Input {
	return Input{
		PlaceID:   "spot-1",
		PlaceName: "Night Owl Coffee",
		Location:  &types.LatLng{Lat: 37.7749, Lng: -122.4194},
		Aggregate: types.SpotAggregate{
			SpotID:       "spot-1",
			CheckinCount: 12,
			AvgBusyness:  2.5,
			AvgWifiSpeed: 4.2,
		},
		Now: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
	}
}

func TestBuildIntelligenceCoalescesConcurrentCalls(t *testing.T) {
	var fetches int32
	release := make(chan struct{})

	fetch := func(ctx context.Context, req external.ProxyRequest) ([]types.ExternalSignal, error) {
		atomic.AddInt32(&fetches, 1)
		<-release
		return []types.ExternalSignal{{Source: "yelp", Rating: 4.4, ReviewCount: 120}}, nil
	}
	engine := NewEngine(cache.NewMemory(), fetch)

	const callers = 8
	results := make([]*types.PlaceIntelligence, callers)
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			record, err := engine.BuildIntelligence(context.Background(), testInput())
			require.NoError(t, err)
			results[i] = record
		}(i)
	}

	// Give every caller time to reach the engine before the fetch resolves.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches), "concurrent identical calls must share one fetch")
	for _, record := range results {
		require.NotNil(t, record)
		assert.Equal(t, results[0], record)
	}
}

func TestBuildIntelligenceServesFromCache(t *testing.T) {
	var fetches int32
	fetch := func(ctx context.Context, req external.ProxyRequest) ([]types.ExternalSignal, error) {
		atomic.AddInt32(&fetches, 1)
		return nil, nil
	}
	engine := NewEngine(cache.NewMemory(), fetch)

	first, err := engine.BuildIntelligence(context.Background(), testInput())
	require.NoError(t, err)
	second, err := engine.BuildIntelligence(context.Background(), testInput())
	require.NoError(t, err)

	assert.Equal(t, int32(1), atomic.LoadInt32(&fetches))
	assert.Equal(t, first.WorkScore, second.WorkScore)
}

func TestBuildIntelligenceExternalFailureYieldsEmptySignals(t *testing.T) {
	fetch := func(ctx context.Context, req external.ProxyRequest) ([]types.ExternalSignal, error) {
		return nil, errors.New("proxy exploded")
	}
	engine := NewEngine(cache.NewMemory(), fetch)

	record, err := engine.BuildIntelligence(context.Background(), testInput())

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Empty(t, record.ExternalSignals)
	assert.NotNil(t, record.ExternalSignals, "empty list, not nil")
}

func TestBuildIntelligenceSkipsFetchWithoutLocation(t *testing.T) {
	var fetches int32
	fetch := func(ctx context.Context, req external.ProxyRequest) ([]types.ExternalSignal, error) {
		atomic.AddInt32(&fetches, 1)
		return nil, nil
	}
	engine := NewEngine(cache.NewMemory(), fetch)

	in := testInput()
	in.Location = nil
	_, err := engine.BuildIntelligence(context.Background(), in)

	require.NoError(t, err)
	assert.Zero(t, atomic.LoadInt32(&fetches))
}

func TestInvalidateForcesRecompute(t *testing.T) {
	var fetches int32
	fetch := func(ctx context.Context, req external.ProxyRequest) ([]types.ExternalSignal, error) {
		atomic.AddInt32(&fetches, 1)
		return nil, nil
	}
	engine := NewEngine(cache.NewMemory(), fetch)

	in := testInput()
	_, err := engine.BuildIntelligence(context.Background(), in)
	require.NoError(t, err)

	engine.Invalidate(context.Background(), in.PlaceID, in.PlaceName, in.Location)

	_, err = engine.BuildIntelligence(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&fetches))
}

func TestCacheKeyRoundsCoordinates(t *testing.T) {
	a := CacheKey("spot-1", "", &types.LatLng{Lat: 37.77491, Lng: -122.41941})
	b := CacheKey("spot-1", "", &types.LatLng{Lat: 37.77493, Lng: -122.41944})
	c := CacheKey("spot-1", "", &types.LatLng{Lat: 37.78, Lng: -122.41941})

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestCacheKeyFallsBackToName(t *testing.T) {
	named := CacheKey("", "Night Owl Coffee", nil)
	assert.Contains(t, named, "Night Owl Coffee")
}
