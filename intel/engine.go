package intel

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"go-spotscout/cache"
	"go-spotscout/external"
	"go-spotscout/types"
)

// CacheTTL is how long a computed intelligence record stays fresh.
const CacheTTL = 15 * time.Minute

// SignalFetcher fetches external signals for a place. nil means the remote
// intelligence endpoint is unconfigured and the fetch is skipped.
type SignalFetcher func(ctx context.Context, req external.ProxyRequest) ([]types.ExternalSignal, error)

// Input carries everything needed to score one place.
type Input struct {
	PlaceID   string
	PlaceName string
	Location  *types.LatLng
	Aggregate types.SpotAggregate
	Checkins  []types.CheckinEvent
	// Now anchors the forecast and best-time buckets; zero means time.Now().
	Now time.Time
}

// Engine owns the intelligence TTL cache and the in-flight request table.
// Construct one per process and pass it by reference; there is no package
// state.
type Engine struct {
	store cache.Store
	fetch SignalFetcher

	mu       sync.Mutex
	inflight map[string]*inflightCall
}

type inflightCall struct {
	done  chan struct{}
	intel *types.PlaceIntelligence
}

func NewEngine(store cache.Store, fetch SignalFetcher) *Engine {
	return &Engine{
		store:    store,
		fetch:    fetch,
		inflight: map[string]*inflightCall{},
	}
}

// CacheKey builds the stable composite key for a place. Coordinates are
// rounded to ~100m so tiny GPS jitter still hits the same entry.
func CacheKey(placeID, placeName string, loc *types.LatLng) string {
	id := placeID
	if id == "" {
		id = placeName
	}
	lat, lng := 0.0, 0.0
	if loc != nil {
		lat, lng = loc.Lat, loc.Lng
	}
	return fmt.Sprintf("intel:%s:%.3f:%.3f", id, lat, lng)
}

// BuildIntelligence returns the cached record when fresh, joins an in-flight
// computation for the same key when one exists, and otherwise computes,
// caches, and returns a new record. Two concurrent callers with the same key
// trigger exactly one external-signal fetch.
func (e *Engine) BuildIntelligence(ctx context.Context, in Input) (*types.PlaceIntelligence, error) {
	key := CacheKey(in.PlaceID, in.PlaceName, in.Location)

	if cached := e.readCache(ctx, key); cached != nil {
		return cached, nil
	}

	e.mu.Lock()
	if call, ok := e.inflight[key]; ok {
		e.mu.Unlock()
		// Coalesce: await the in-progress computation instead of starting a
		// duplicate. A cancelled caller just stops awaiting; the computation
		// itself keeps running and still populates the cache.
		select {
		case <-call.done:
			return call.intel, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	call := &inflightCall{done: make(chan struct{})}
	e.inflight[key] = call
	e.mu.Unlock()

	// Detach from the caller's cancellation so an abandoned ranking pass does
	// not waste the work for the next caller.
	call.intel = e.compute(context.WithoutCancel(ctx), in)

	e.writeCache(context.Background(), key, call.intel)

	e.mu.Lock()
	delete(e.inflight, key)
	e.mu.Unlock()
	close(call.done)

	return call.intel, nil
}

// Invalidate drops the cached record for a place. Called when a new check-in
// or metric update lands.
func (e *Engine) Invalidate(ctx context.Context, placeID, placeName string, loc *types.LatLng) {
	key := CacheKey(placeID, placeName, loc)
	if err := e.store.Delete(ctx, key); err != nil {
		log.Printf("Failed to invalidate intelligence cache for %s: %v", key, err)
	}
}

// compute builds the full record. It cannot fail: every degraded path yields
// a usable record with empty external signals.
func (e *Engine) compute(ctx context.Context, in Input) *types.PlaceIntelligence {
	now := in.Now
	if now.IsZero() {
		now = time.Now()
	}

	signals := e.fetchSignals(ctx, in)

	record := Score(in.Aggregate, in.Checkins, signals, now)
	record.ComputedAt = now.UTC()
	return record
}

// fetchSignals runs the bounded external fetch. Skipped entirely when no
// stable location, no place identifier, or no configured fetcher; every skip
// and failure path returns the empty list.
func (e *Engine) fetchSignals(ctx context.Context, in Input) []types.ExternalSignal {
	if e.fetch == nil {
		return nil
	}
	if in.Location == nil || (in.Location.Lat == 0 && in.Location.Lng == 0) {
		return nil
	}
	if in.PlaceID == "" && in.PlaceName == "" {
		return nil
	}

	fetchCtx, cancel := context.WithTimeout(ctx, external.FetchTimeout)
	defer cancel()

	signals, err := e.fetch(fetchCtx, external.ProxyRequest{
		PlaceName: in.PlaceName,
		PlaceID:   in.PlaceID,
		Location:  *in.Location,
	})
	if err != nil {
		log.Printf("External signal fetch failed for %s: %v", in.PlaceName, err)
		return nil
	}
	return signals
}

func (e *Engine) readCache(ctx context.Context, key string) *types.PlaceIntelligence {
	data, ok, err := e.store.Get(ctx, key)
	if err != nil {
		// Storage trouble degrades to a recompute, never an error.
		log.Printf("Intelligence cache read failed for %s: %v", key, err)
		return nil
	}
	if !ok {
		return nil
	}
	var record types.PlaceIntelligence
	if err := json.Unmarshal(data, &record); err != nil {
		log.Printf("Dropping corrupt intelligence cache entry %s: %v", key, err)
		return nil
	}
	return &record
}

func (e *Engine) writeCache(ctx context.Context, key string, record *types.PlaceIntelligence) {
	data, err := json.Marshal(record)
	if err != nil {
		log.Printf("Failed to marshal intelligence for %s: %v", key, err)
		return
	}
	if err := e.store.Set(ctx, key, data, CacheTTL); err != nil {
		log.Printf("Intelligence cache write failed for %s: %v", key, err)
	}
}
