package external

import (
	"context"
	"fmt"
	"os"
	"sync"

	"googlemaps.github.io/maps"

	"go-spotscout/types"
)

// mapsClient is a singleton maps client instance.
var (
	mapsClient *maps.Client
	clientOnce sync.Once
	clientErr  error
)

// InitMapsClient initializes and returns a singleton Google Maps client.
func InitMapsClient() (*maps.Client, error) {
	clientOnce.Do(func() {
		apiKey := os.Getenv("MAPS_CREDENTIALS")
		if apiKey == "" {
			clientErr = fmt.Errorf("MAPS_CREDENTIALS environment variable not set")
			return
		}
		mapsClient, clientErr = maps.NewClient(maps.WithAPIKey(apiKey))
	})
	return mapsClient, clientErr
}

// PlacesSignal looks a place up in Google Places and converts the result into
// one external signal. Returns nil when the place cannot be resolved.
func PlacesSignal(ctx context.Context, client *maps.Client, placeID, placeName string) (*types.ExternalSignal, error) {
	if client == nil {
		return nil, fmt.Errorf("maps client not configured")
	}

	if placeID == "" {
		resp, err := client.FindPlaceFromText(ctx, &maps.FindPlaceFromTextRequest{
			Input:     placeName,
			InputType: maps.FindPlaceFromTextInputTypeTextQuery,
		})
		if err != nil {
			return nil, err
		}
		if len(resp.Candidates) == 0 {
			return nil, nil
		}
		placeID = resp.Candidates[0].PlaceID
	}

	details, err := client.PlaceDetails(ctx, &maps.PlaceDetailsRequest{PlaceID: placeID})
	if err != nil {
		return nil, err
	}

	signal := types.ExternalSignal{
		Source:      "google_places",
		Rating:      float64(details.Rating),
		ReviewCount: details.UserRatingsTotal,
		PriceLevel:  details.PriceLevel,
		Categories:  details.Types,
	}
	return &signal, nil
}
