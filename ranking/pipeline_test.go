package ranking

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-spotscout/cache"
	"go-spotscout/geoquery"
	"go-spotscout/intel"
	"go-spotscout/types"
)

func fakeFanout(docs []types.SpotDoc, rangeErr error) geoquery.Fanout {
	return geoquery.Fanout{
		Range: func(ctx context.Context, start, end string, limit int, filter types.FilterState) ([]types.SpotDoc, error) {
			if rangeErr != nil {
				return nil, rangeErr
			}
			return docs, nil
		},
		Fallback: func(ctx context.Context, limit int) ([]types.SpotDoc, error) {
			return docs, nil
		},
		Checkins: func(ctx context.Context, spotID string) ([]types.CheckinEvent, error) {
			if spotID == "busy" {
				return []types.CheckinEvent{
					{UserID: "u1", Busyness: 2, WifiSpeed: 4},
					{UserID: "u2", Busyness: 2},
				}, nil
			}
			return nil, nil
		},
	}
}

func testPipeline(docs []types.SpotDoc, rangeErr error) *Pipeline {
	engine := intel.NewEngine(cache.NewMemory(), nil)
	return NewPipeline(fakeFanout(docs, rangeErr), engine)
}

func nearbyDocs() []types.SpotDoc {
	return []types.SpotDoc{
		{ID: "busy", Name: "Bean There", Lat: 37.7752, Lng: -122.4190, OpenNow: true},
		{ID: "quiet-lib", Name: "Branch Library", Lat: 37.7760, Lng: -122.4180, PlaceTypes: []string{"library"}},
	}
}

func TestDiscoverReturnsOrderedListWithIntel(t *testing.T) {
	pipeline := testPipeline(nearbyDocs(), nil)

	resp := pipeline.Discover(context.Background(), Request{
		Center:      types.LatLng{Lat: 37.7749, Lng: -122.4194},
		RadiusMiles: 2,
	})

	require.Len(t, resp.Spots, 2)
	assert.Equal(t, types.StatusSuccess, resp.Status.Level)
	for _, ranked := range resp.Spots {
		require.NotNil(t, ranked.Intel, "every ranked spot carries intelligence")
		assert.GreaterOrEqual(t, ranked.Intel.WorkScore, 0)
		assert.LessOrEqual(t, ranked.Intel.WorkScore, 100)
	}
}

func TestDiscoverNetworkFailureYieldsAdvisoryNotPanic(t *testing.T) {
	pipeline := testPipeline(nil, errors.New("connection refused"))

	resp := pipeline.Discover(context.Background(), Request{
		Center:      types.LatLng{Lat: 37.7749, Lng: -122.4194},
		RadiusMiles: 2,
	})

	assert.NotNil(t, resp.Spots)
	assert.Empty(t, resp.Spots)
	assert.Equal(t, types.StatusError, resp.Status.Level)
	assert.NotEmpty(t, resp.Status.Message)
}

func TestDiscoverNoCheckinsAdvisory(t *testing.T) {
	docs := []types.SpotDoc{
		{ID: "fresh", Name: "New Cafe", Lat: 37.7752, Lng: -122.4190},
	}
	pipeline := testPipeline(docs, nil)

	resp := pipeline.Discover(context.Background(), Request{
		Center:      types.LatLng{Lat: 37.7749, Lng: -122.4194},
		RadiusMiles: 2,
	})

	require.Len(t, resp.Spots, 1)
	assert.Equal(t, types.StatusInfo, resp.Status.Level)
	assert.Contains(t, resp.Status.Message, "Showing nearby spots")
}

func TestDiscoverEmptyResultAdvisory(t *testing.T) {
	pipeline := testPipeline(nil, nil)

	resp := pipeline.Discover(context.Background(), Request{
		Center:      types.LatLng{Lat: 37.7749, Lng: -122.4194},
		RadiusMiles: 2,
	})

	assert.Empty(t, resp.Spots)
	assert.Equal(t, types.StatusWarning, resp.Status.Level)
}

func TestDiscoverQueryFilterApplies(t *testing.T) {
	docs := []types.SpotDoc{
		{ID: "busy", Name: "Bean There", Lat: 37.7752, Lng: -122.4190, OpenNow: true},
		{ID: "closed", Name: "Shut Cafe", Lat: 37.7751, Lng: -122.4191, OpenNow: false},
	}
	pipeline := testPipeline(docs, nil)

	resp := pipeline.Discover(context.Background(), Request{
		Center:      types.LatLng{Lat: 37.7749, Lng: -122.4194},
		RadiusMiles: 2,
		Query:       "open cafe",
	})

	require.Len(t, resp.Spots, 1)
	assert.Equal(t, "busy", resp.Spots[0].Spot.SpotID)
}

func TestDiscoverDeterministicOrdering(t *testing.T) {
	pipeline := testPipeline(nearbyDocs(), nil)
	req := Request{
		Center:      types.LatLng{Lat: 37.7749, Lng: -122.4194},
		RadiusMiles: 2,
		Intent:      types.IntentDeepWork,
	}

	first := pipeline.Discover(context.Background(), req)
	for i := 0; i < 5; i++ {
		again := pipeline.Discover(context.Background(), req)
		require.Len(t, again.Spots, len(first.Spots))
		for j := range first.Spots {
			assert.Equal(t, first.Spots[j].Spot.SpotID, again.Spots[j].Spot.SpotID)
		}
	}
}
