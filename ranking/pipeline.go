package ranking

import (
	"context"
	"log"
	"sync"

	"github.com/google/uuid"

	"go-spotscout/filters"
	"go-spotscout/geoquery"
	"go-spotscout/intel"
	"go-spotscout/querylang"
	"go-spotscout/scoring"
	"go-spotscout/types"
)

// DefaultRemoteBudget is how many remote-eligible filters the document store
// will accept in one composite query.
const DefaultRemoteBudget = 2

// Request is one discovery pass.
type Request struct {
	Center       types.LatLng
	RadiusMiles  float64
	Filter       types.FilterState
	Intent       types.DiscoveryIntent
	Query        string
	RemoteBudget int // 0 means DefaultRemoteBudget
}

// Response is what the presentation layer consumes: an ordered list plus an
// advisory when the pipeline degraded.
type Response struct {
	Spots  []types.RankedSpot   `json:"spots"`
	Status types.StatusAdvisory `json:"status"`
}

// Pipeline wires the fan-out, the intelligence engine, and the scorers into
// the final ranking pass.
type Pipeline struct {
	fanout geoquery.Fanout
	engine *intel.Engine
}

func NewPipeline(fanout geoquery.Fanout, engine *intel.Engine) *Pipeline {
	return &Pipeline{fanout: fanout, engine: engine}
}

// Discover runs one full ranking pass. It always returns an ordered list,
// possibly empty; lower-layer failures surface only through the advisory.
func (p *Pipeline) Discover(ctx context.Context, req Request) Response {
	budget := req.RemoteBudget
	if budget <= 0 {
		budget = DefaultRemoteBudget
	}

	parsed := querylang.Parse(req.Query)
	if req.Query != "" {
		parsed = querylang.Refine(ctx, parsed)
	}

	intent := req.Intent
	if intent == "" {
		intent = types.IntentAny
	}
	if intent == types.IntentAny && parsed.Intent != types.IntentAny {
		intent = parsed.Intent
	}

	norm := filters.Normalize(req.Filter, budget)
	if len(norm.Downgraded) > 0 {
		log.Printf("Remote filter budget %d exceeded; applying %v locally", budget, norm.Downgraded)
	}

	spots, eventMap, err := p.fanout.FetchNearby(ctx, req.Center, req.RadiusMiles, norm.Normalized, req.Filter)
	if err != nil {
		log.Printf("Discovery fan-out failed: %v", err)
		return Response{
			Spots:  []types.RankedSpot{},
			Status: advisory(types.StatusError, "Couldn't reach the spot database. Try again in a moment."),
		}
	}

	ranked := p.annotate(ctx, spots, eventMap, intent, parsed)
	ranked = Rank(ranked, intent)

	return Response{Spots: ranked, Status: deriveStatus(ranked)}
}

// annotate attaches scores and intelligence to every spot that survives the
// merged (filter ∪ parsed-query) predicate.
func (p *Pipeline) annotate(ctx context.Context, spots []types.SpotAggregate, eventMap map[string][]types.CheckinEvent, intent types.DiscoveryIntent, parsed querylang.ParsedQuery) []types.RankedSpot {
	vibe := scoring.IntentToVibe(intent)

	var kept []types.RankedSpot
	for _, spot := range spots {
		if !filters.MatchesClientFilters(spot, parsed.Filter) {
			continue
		}

		intentResult := scoring.ScoreForIntent(spot, intent)
		vibes := scoring.VibeScores(spot)

		kept = append(kept, types.RankedSpot{
			Spot:          spot,
			IntentScore:   intentResult.Score,
			IntentReasons: intentResult.Reasons,
			QueryBoost:    querylang.Boost(spot, parsed),
			Vibes:         vibes,
			VibeMatch:     scoring.VibeFor(vibes, vibe),
		})
	}

	// Intelligence fans out per spot; the engine coalesces duplicates and a
	// cancelled pass simply stops awaiting.
	var wg sync.WaitGroup
	for i := range kept {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			spot := kept[i].Spot
			loc := &types.LatLng{Lat: spot.Lat, Lng: spot.Lng}
			if !spot.HasCoords {
				loc = nil
			}
			record, err := p.engine.BuildIntelligence(ctx, intel.Input{
				PlaceID:   spot.SpotID,
				PlaceName: spot.Name,
				Location:  loc,
				Aggregate: spot,
				Checkins:  eventMap[spot.SpotID],
			})
			if err != nil {
				log.Printf("Intelligence unavailable for %s: %v", spot.SpotID, err)
				return
			}
			kept[i].Intel = record
		}(i)
	}
	wg.Wait()

	return kept
}

// deriveStatus produces the advisory shown alongside the list.
func deriveStatus(ranked []types.RankedSpot) types.StatusAdvisory {
	if len(ranked) == 0 {
		return advisory(types.StatusWarning, "No spots match right now. Try widening your filters.")
	}
	for _, spot := range ranked {
		if spot.Spot.CheckinCount > 0 {
			return advisory(types.StatusSuccess, "")
		}
	}
	return advisory(types.StatusInfo, "Showing nearby spots. No recent check-ins in this area yet.")
}

func advisory(level, message string) types.StatusAdvisory {
	return types.StatusAdvisory{ID: uuid.NewString(), Level: level, Message: message}
}
