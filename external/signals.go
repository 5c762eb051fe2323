package external

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go-spotscout/types"
)

// FetchTimeout hard-caps the external-signal round trip. Expiry is treated as
// "no data" by the caller, never as a failure.
const FetchTimeout = 2400 * time.Millisecond

// ProxyRequest is the payload sent to the review-aggregator proxy.
type ProxyRequest struct {
	PlaceName string       `json:"placeName"`
	PlaceID   string       `json:"placeId,omitempty"`
	Location  types.LatLng `json:"location"`
}

type proxyResponse struct {
	ExternalSignals []types.ExternalSignal `json:"externalSignals"`
}

// FetchProxySignals posts to the signal proxy and returns whatever well-formed
// sources come back. Malformed entries are dropped silently.
func FetchProxySignals(ctx context.Context, proxyURL string, request ProxyRequest) ([]types.ExternalSignal, error) {
	payloadBytes, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, proxyURL, bytes.NewBuffer(payloadBytes))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("signal proxy returned status: " + resp.Status)
	}

	var parsed proxyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}

	return CleanSignals(parsed.ExternalSignals), nil
}

// CleanSignals drops entries no downstream consumer could use: unnamed
// sources, out-of-range ratings, negative counts.
func CleanSignals(signals []types.ExternalSignal) []types.ExternalSignal {
	var clean []types.ExternalSignal
	for _, sig := range signals {
		if sig.Source == "" {
			continue
		}
		if sig.Rating < 0 || sig.Rating > 5 {
			continue
		}
		if sig.ReviewCount < 0 {
			sig.ReviewCount = 0
		}
		if sig.PriceLevel < 0 || sig.PriceLevel > 4 {
			sig.PriceLevel = 0
		}
		clean = append(clean, sig)
	}
	return clean
}
