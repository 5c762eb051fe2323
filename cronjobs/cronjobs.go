package cronjobs

import (
	"context"
	"log"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/robfig/cron/v3"

	"go-spotscout/aggregator"
	"go-spotscout/db"
	"go-spotscout/intel"
	"go-spotscout/types"
)

const refreshPageSize = 40

// InitCronJobs starts the background refresh: every 15 minutes one page of
// spots gets its intelligence recomputed and merged back onto the documents,
// so discovery passes mostly hit warm data. Spots without check-ins are
// skipped.
func InitCronJobs(firestoreClient *firestore.Client, engine *intel.Engine) {
	log.Println("\nStarting Cron Jobs -------------------------------------------------------")
	c := cron.New()

	_, err := c.AddFunc("*/15 * * * *", func() {
		log.Println("\nCronJob: Intelligence Refresh Running")
		refreshIntelligence(firestoreClient, engine)
	})
	if err != nil {
		log.Println("Error scheduling Intelligence Refresh:", err)
	}

	c.Start()
}

func refreshIntelligence(client *firestore.Client, engine *intel.Engine) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	spots, err := db.SpotsUnfiltered(ctx, client, refreshPageSize)
	if err != nil {
		log.Printf("Intelligence refresh: spot scan failed: %v", err)
		return
	}

	refreshed := 0
	for _, spot := range spots {
		events, err := db.FetchCheckins(ctx, client, spot.ID)
		if err != nil {
			log.Printf("Intelligence refresh: check-ins unavailable for %s: %v", spot.ID, err)
		}
		if len(events) == 0 {
			continue // nothing new to learn about this spot
		}

		record, err := engine.BuildIntelligence(ctx, intel.Input{
			PlaceID:   spot.ID,
			PlaceName: spot.Name,
			Location:  &types.LatLng{Lat: spot.Lat, Lng: spot.Lng},
			Aggregate: aggregator.Aggregate(spot, events, time.Now(), nil),
			Checkins:  events,
		})
		if err != nil {
			log.Printf("Intelligence refresh failed for %s: %v", spot.ID, err)
			continue
		}
		if err := db.SaveIntelligence(ctx, client, spot.ID, record); err != nil {
			log.Printf("Intelligence write-back failed for %s: %v", spot.ID, err)
			continue
		}
		refreshed++
	}

	log.Printf("Intelligence refresh complete: %d of %d spots updated", refreshed, len(spots))
}
