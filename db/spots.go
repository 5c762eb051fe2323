package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"go-spotscout/types"
)

// SpotsByGeohashRange runs one bounded remote-filtered range scan over the
// spots collection. Active remote filters from the normalized filter state are
// pushed into the query; everything else is the caller's job.
func SpotsByGeohashRange(ctx context.Context, client *firestore.Client, start, end string, limit int, filter types.FilterState) ([]types.SpotDoc, error) {
	query := client.Collection(SpotsCollection).
		Where("geohash", ">=", start).
		Where("geohash", "<", end)

	if filter.OpenNow {
		query = query.Where("openNow", "==", true)
	}
	if len(filter.PriceLevels) > 0 {
		levels := make([]interface{}, 0, len(filter.PriceLevels))
		for _, level := range filter.PriceLevels {
			levels = append(levels, level)
		}
		query = query.Where("priceLevel", "in", levels)
	}
	if filter.GoodForStudying {
		query = query.Where("goodForStudying", "==", true)
	}
	if filter.GoodForMeetings {
		query = query.Where("goodForMeetings", "==", true)
	}

	docs, err := query.OrderBy("geohash", firestore.Asc).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("geohash range query [%s, %s) failed: %w", start, end, err)
	}

	return decodeSpots(docs), nil
}

// SpotsUnfiltered is the availability fallback: one larger unfiltered page
// against the same collection, precision traded for availability.
func SpotsUnfiltered(ctx context.Context, client *firestore.Client, limit int) ([]types.SpotDoc, error) {
	docs, err := client.Collection(SpotsCollection).Limit(limit).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("unfiltered spots query failed: %w", err)
	}
	return decodeSpots(docs), nil
}

// GetSpot fetches one spot document by id.
func GetSpot(ctx context.Context, client *firestore.Client, spotID string) (types.SpotDoc, error) {
	var spot types.SpotDoc
	doc, err := client.Collection(SpotsCollection).Doc(spotID).Get(ctx)
	if err != nil {
		return spot, fmt.Errorf("error getting spot doc %s: %w", spotID, err)
	}
	if err := doc.DataTo(&spot); err != nil {
		return spot, fmt.Errorf("error converting spot doc %s: %w", spotID, err)
	}
	spot.ID = doc.Ref.ID
	return spot, nil
}

// SaveIntelligence merges the computed record onto the spot's "intel" field.
// Merge-update only, unrelated fields are never touched.
func SaveIntelligence(ctx context.Context, client *firestore.Client, spotID string, record *types.PlaceIntelligence) error {
	_, err := client.Collection(SpotsCollection).Doc(spotID).Set(ctx, map[string]interface{}{
		"intel": record,
	}, firestore.MergeAll)
	if err != nil {
		return fmt.Errorf("failed to merge intel onto spot %s: %w", spotID, err)
	}
	return nil
}

// IsQueryShapeError reports whether a query failed for a shape reason (most
// often a missing composite index) that the local fallback path can recover
// from. Network-level errors are not shape errors and must propagate.
func IsQueryShapeError(err error) bool {
	// FromError unwraps, so wrapped query errors still classify.
	s, ok := status.FromError(err)
	if !ok {
		return false
	}
	switch s.Code() {
	case codes.FailedPrecondition, codes.InvalidArgument:
		return true
	}
	return false
}

func decodeSpots(docs []*firestore.DocumentSnapshot) []types.SpotDoc {
	var spots []types.SpotDoc
	for _, doc := range docs {
		var spot types.SpotDoc
		if err := doc.DataTo(&spot); err != nil {
			// A single malformed document never sinks the page.
			log.Printf("Skipping malformed spot doc %s: %v", doc.Ref.ID, err)
			continue
		}
		spot.ID = doc.Ref.ID
		spots = append(spots, spot)
	}
	return spots
}
