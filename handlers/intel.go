package handlers

import (
	"log"
	"net/http"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/gin-gonic/gin"

	"go-spotscout/aggregator"
	"go-spotscout/db"
	"go-spotscout/intel"
	"go-spotscout/types"
)

func aggregateFor(spot types.SpotDoc, events []types.CheckinEvent) types.SpotAggregate {
	return aggregator.Aggregate(spot, events, time.Now(), nil)
}

// SpotIntelHandler computes (or serves cached) intelligence for one spot and
// merges the result back onto the spot document.
func SpotIntelHandler(c *gin.Context, client *firestore.Client, engine *intel.Engine) {
	spotID := c.Param("id")

	spot, err := db.GetSpot(c.Request.Context(), client, spotID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
		return
	}

	events, err := db.FetchCheckins(c.Request.Context(), client, spotID)
	if err != nil {
		// Metadata-only intelligence still beats an error screen.
		log.Printf("Check-in fetch failed for spot %s: %v", spotID, err)
	}

	record, err := engine.BuildIntelligence(c.Request.Context(), intel.Input{
		PlaceID:   spotID,
		PlaceName: spot.Name,
		Location:  &types.LatLng{Lat: spot.Lat, Lng: spot.Lng},
		Aggregate: aggregateFor(spot, events),
		Checkins:  events,
	})
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	if err := db.SaveIntelligence(c.Request.Context(), client, spotID, record); err != nil {
		log.Printf("Intel write-back failed for spot %s: %v", spotID, err)
	}

	c.JSON(http.StatusOK, record)
}

// CheckinNotifyHandler invalidates a spot's cached intelligence after a new
// check-in or metric update.
func CheckinNotifyHandler(c *gin.Context, client *firestore.Client, engine *intel.Engine) {
	var request struct {
		SpotID   string `json:"spotId"`
		SpotName string `json:"spotName"`
	}
	if err := c.ShouldBindJSON(&request); err != nil || (request.SpotID == "" && request.SpotName == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "spotId or spotName is required"})
		return
	}
	if request.SpotID == "" {
		// Community-created spots are keyed by the hash of their name.
		request.SpotID = db.HashString(request.SpotName)
	}

	spot, err := db.GetSpot(c.Request.Context(), client, request.SpotID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "spot not found"})
		return
	}

	engine.Invalidate(c.Request.Context(), request.SpotID, spot.Name, &types.LatLng{Lat: spot.Lat, Lng: spot.Lng})
	c.JSON(http.StatusOK, gin.H{"invalidated": request.SpotID})
}
