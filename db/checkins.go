package db

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"go-spotscout/types"
)

// CheckinStrategy is one way of locating a spot's check-in documents. The
// schema has moved once; each vintage gets its own strategy so they stay
// independently testable.
type CheckinStrategy struct {
	Name  string
	Fetch func(ctx context.Context, client *firestore.Client, spotID string) ([]types.CheckinEvent, error)
}

// CheckinStrategies returns the ordered list of query strategies. They are
// tried in sequence until one yields non-empty results.
func CheckinStrategies() []CheckinStrategy {
	return []CheckinStrategy{
		{Name: "checkins-collection", Fetch: checkinsFromCollection},
		{Name: "legacy-subcollection", Fetch: checkinsFromSubcollection},
	}
}

// FetchCheckins loads a spot's check-ins, falling through the strategy list.
// An empty result from every strategy is not an error.
func FetchCheckins(ctx context.Context, client *firestore.Client, spotID string) ([]types.CheckinEvent, error) {
	var lastErr error
	for _, strategy := range CheckinStrategies() {
		events, err := strategy.Fetch(ctx, client, spotID)
		if err != nil {
			lastErr = fmt.Errorf("checkin strategy %s failed: %w", strategy.Name, err)
			continue
		}
		if len(events) > 0 {
			return events, nil
		}
	}
	return nil, lastErr
}

// checkinsFromCollection reads the current schema: a top-level checkins
// collection keyed by spotId.
func checkinsFromCollection(ctx context.Context, client *firestore.Client, spotID string) ([]types.CheckinEvent, error) {
	docs, err := client.Collection(CheckinsCollection).
		Where("spotId", "==", spotID).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	events := make([]types.CheckinEvent, 0, len(docs))
	for _, doc := range docs {
		events = append(events, types.CheckinFromDoc(spotID, doc.Data()))
	}
	return events, nil
}

// checkinsFromSubcollection reads the legacy schema: check-ins nested under
// the spot document.
func checkinsFromSubcollection(ctx context.Context, client *firestore.Client, spotID string) ([]types.CheckinEvent, error) {
	docs, err := client.Collection(SpotsCollection).Doc(spotID).
		Collection(CheckinsCollection).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, err
	}

	events := make([]types.CheckinEvent, 0, len(docs))
	for _, doc := range docs {
		events = append(events, types.CheckinFromDoc(spotID, doc.Data()))
	}
	return events, nil
}
