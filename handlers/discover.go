package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"go-spotscout/geoquery"
	"go-spotscout/ranking"
	"go-spotscout/types"
)

// DiscoverHandler runs one discovery ranking pass from query parameters.
func DiscoverHandler(c *gin.Context, pipeline *ranking.Pipeline) {
	lat, latErr := strconv.ParseFloat(c.Query("lat"), 64)
	lng, lngErr := strconv.ParseFloat(c.Query("lng"), 64)
	if latErr != nil || lngErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lat and lng are required"})
		return
	}

	radius := 2.0
	if raw := c.Query("radius"); raw != "" {
		if parsed, err := strconv.ParseFloat(raw, 64); err == nil {
			radius = parsed
		}
	}
	radius = clampRadius(radius)

	req := ranking.Request{
		Center:      types.LatLng{Lat: lat, Lng: lng},
		RadiusMiles: radius,
		Intent:      types.DiscoveryIntent(c.DefaultQuery("intent", string(types.IntentAny))),
		Query:       c.Query("q"),
		Filter:      filterFromQuery(c, radius),
	}

	c.JSON(http.StatusOK, pipeline.Discover(c.Request.Context(), req))
}

// clampRadius bounds the requested radius to the supported window so the
// remote fan-out and the local distance filter agree on one value.
func clampRadius(radius float64) float64 {
	if radius < geoquery.MinRadiusMiles {
		return geoquery.MinRadiusMiles
	}
	if radius > geoquery.MaxRadiusMiles {
		return geoquery.MaxRadiusMiles
	}
	return radius
}

func filterFromQuery(c *gin.Context, radius float64) types.FilterState {
	filter := types.FilterState{
		NoiseLevel:    c.DefaultQuery("noise", types.NoiseAny),
		DistanceMiles: radius,
	}
	filter.OpenNow = c.Query("openNow") == "true"
	filter.NotCrowded = c.Query("notCrowded") == "true"
	filter.HighRated = c.Query("highRated") == "true"
	filter.GoodForStudying = c.Query("goodForStudying") == "true"
	filter.GoodForMeetings = c.Query("goodForMeetings") == "true"

	if raw := c.Query("price"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if level, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && level >= 1 && level <= 4 {
				filter.PriceLevels = append(filter.PriceLevels, level)
			}
		}
	}

	return filter
}
