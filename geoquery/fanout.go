package geoquery

import (
	"context"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"cloud.google.com/go/firestore"

	"go-spotscout/aggregator"
	"go-spotscout/db"
	"go-spotscout/filters"
	"go-spotscout/types"
)

const (
	// PageSize bounds each per-range query.
	PageSize = 90
	// FallbackPageSize bounds the single unfiltered availability query.
	FallbackPageSize = 140
)

// timeNow is swappable so tests can pin the presence horizon.
var timeNow = time.Now

// RangeFetcher runs one remote-filtered geohash range scan.
type RangeFetcher func(ctx context.Context, start, end string, limit int, filter types.FilterState) ([]types.SpotDoc, error)

// FallbackFetcher runs the single unfiltered availability query.
type FallbackFetcher func(ctx context.Context, limit int) ([]types.SpotDoc, error)

// CheckinFetcher loads one spot's check-in events.
type CheckinFetcher func(ctx context.Context, spotID string) ([]types.CheckinEvent, error)

// Fanout issues the covering queries for a discovery pass and assembles the
// aggregates. The fetchers are injectable so the merge and filter logic tests
// without a live document store.
type Fanout struct {
	Range    RangeFetcher
	Fallback FallbackFetcher
	Checkins CheckinFetcher
}

// New binds a Fanout to the Firestore-backed queries.
func New(client *firestore.Client) Fanout {
	return Fanout{
		Range: func(ctx context.Context, start, end string, limit int, filter types.FilterState) ([]types.SpotDoc, error) {
			return db.SpotsByGeohashRange(ctx, client, start, end, limit, filter)
		},
		Fallback: func(ctx context.Context, limit int) ([]types.SpotDoc, error) {
			return db.SpotsUnfiltered(ctx, client, limit)
		},
		Checkins: func(ctx context.Context, spotID string) ([]types.CheckinEvent, error) {
			return db.FetchCheckins(ctx, client, spotID)
		},
	}
}

// FetchNearby returns the aggregates for every eligible spot inside the true
// radius, ordered by ascending distance. remoteFilter is the normalized
// (budget-respecting) filter pushed into the remote queries; clientFilter is
// the full requested filter evaluated locally.
func (f Fanout) FetchNearby(ctx context.Context, center types.LatLng, radiusMiles float64, remoteFilter, clientFilter types.FilterState) ([]types.SpotAggregate, map[string][]types.CheckinEvent, error) {
	if radiusMiles < MinRadiusMiles {
		radiusMiles = MinRadiusMiles
	}
	if radiusMiles > MaxRadiusMiles {
		radiusMiles = MaxRadiusMiles
	}

	docs, err := f.queryCover(ctx, center, radiusMiles, remoteFilter)
	if err != nil {
		return nil, nil, err
	}

	now := timeNow()
	var (
		mu       sync.Mutex
		results  []types.SpotAggregate
		eventMap = map[string][]types.CheckinEvent{}
		wg       sync.WaitGroup
	)

	for _, doc := range docs {
		if !filters.SpotEligible(doc) {
			continue
		}
		wg.Add(1)
		go func(doc types.SpotDoc) {
			defer wg.Done()

			events, err := f.Checkins(ctx, doc.ID)
			if err != nil {
				// A spot with unreachable check-ins still ranks on metadata.
				log.Printf("Check-in fetch failed for spot %s: %v", doc.ID, err)
			}

			agg := aggregator.Aggregate(doc, events, now, &center)

			// Bounding boxes over-select; re-check the true radius.
			if !math.IsInf(agg.Distance, 1) && agg.Distance > radiusMiles {
				return
			}
			if !filters.MatchesClientFilters(agg, clientFilter) {
				return
			}

			mu.Lock()
			results = append(results, agg)
			eventMap[doc.ID] = events
			mu.Unlock()
		}(doc)
	}
	wg.Wait()

	// Goroutine completion order is not deterministic, so distance ties fall
	// back to the spot id to keep repeated passes byte-identical.
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Distance != results[j].Distance {
			return results[i].Distance < results[j].Distance
		}
		return results[i].SpotID < results[j].SpotID
	})

	return results, eventMap, nil
}

// queryCover fans the covering ranges out concurrently and merges by document
// id, first seen wins. Shape errors (missing composite index and friends)
// degrade to the single unfiltered fallback query; network errors propagate.
func (f Fanout) queryCover(ctx context.Context, center types.LatLng, radiusMiles float64, remoteFilter types.FilterState) ([]types.SpotDoc, error) {
	ranges := CoverRanges(center.Lat, center.Lng, radiusMiles)

	pages := make([][]types.SpotDoc, len(ranges))
	errs := make([]error, len(ranges))

	var wg sync.WaitGroup
	for i, r := range ranges {
		wg.Add(1)
		go func(i int, r Range) {
			defer wg.Done()
			pages[i], errs[i] = f.Range(ctx, r.Start, r.End, PageSize, remoteFilter)
		}(i, r)
	}
	wg.Wait()

	for _, err := range errs {
		if err == nil {
			continue
		}
		if db.IsQueryShapeError(err) {
			log.Printf("Range query shape error, falling back to unfiltered scan: %v", err)
			return f.Fallback(ctx, FallbackPageSize)
		}
		return nil, err
	}

	return MergeFirstSeen(pages), nil
}

// MergeFirstSeen merges paginated results into a de-duplicated list; the
// first occurrence of a document id wins. Page order is the sorted range
// order, so the merge is deterministic.
func MergeFirstSeen(pages [][]types.SpotDoc) []types.SpotDoc {
	var merged []types.SpotDoc
	seen := map[string]bool{}
	for _, page := range pages {
		for _, doc := range page {
			if doc.ID == "" || seen[doc.ID] {
				continue
			}
			seen[doc.ID] = true
			merged = append(merged, doc)
		}
	}
	return merged
}
