package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"go-spotscout/cache"
	"go-spotscout/cronjobs"
	"go-spotscout/db"
	"go-spotscout/external"
	"go-spotscout/geoquery"
	"go-spotscout/intel"
	"go-spotscout/querylang"
	"go-spotscout/ranking"
	"go-spotscout/routes"
	"go-spotscout/types"
)

func main() {
	// Load .env file
	err := godotenv.Load()
	if err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	clientURL := os.Getenv("CLIENT_URL")
	fmt.Println("CLIENT_URL: ", clientURL)

	// Init firestore
	firestoreClient, err := db.InitFirestore()
	if err != nil {
		log.Fatalf("Failed to initialize Firestore: %v", err)
	}
	defer db.CloseFirestore() // Firestore client is closed on exit

	// Cache substrate: Redis when configured, in-memory otherwise.
	var store cache.Store
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		redisStore, err := cache.NewRedis(context.Background(), addr, os.Getenv("REDIS_PASSWORD"), 0)
		if err != nil {
			log.Printf("Redis unavailable, falling back to in-memory cache: %v", err)
			store = cache.NewMemory()
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	} else {
		store = cache.NewMemory()
	}

	engine := intel.NewEngine(store, buildSignalFetcher())

	pipeline := ranking.NewPipeline(geoquery.New(firestoreClient), engine)

	// Warm the optional NLP client; discovery works without it.
	if _, err := querylang.InitLanguageClient(); err != nil {
		log.Printf("Query NLP disabled: %v", err)
	} else {
		defer querylang.CloseLanguageClient()
	}

	// Initialize cron jobs
	cronjobs.InitCronJobs(firestoreClient, engine)

	r := routes.SetupRouter(firestoreClient, pipeline, engine)
	if err := r.Run(":8080"); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}

// buildSignalFetcher wires whichever external sources are configured into one
// fetch. Returns nil when neither the proxy nor Google Places is available,
// which the engine treats as "skip external signals".
func buildSignalFetcher() intel.SignalFetcher {
	proxyURL := os.Getenv("SIGNAL_PROXY_URL")
	mapsClient, mapsErr := external.InitMapsClient()
	if mapsErr != nil {
		log.Printf("Google Places signals disabled: %v", mapsErr)
	}

	if proxyURL == "" && mapsClient == nil {
		return nil
	}

	return func(ctx context.Context, req external.ProxyRequest) ([]types.ExternalSignal, error) {
		var signals []types.ExternalSignal

		if proxyURL != "" {
			proxied, err := external.FetchProxySignals(ctx, proxyURL, req)
			if err != nil {
				log.Printf("Signal proxy failed for %s: %v", req.PlaceName, err)
			} else {
				signals = append(signals, proxied...)
			}
		}

		if mapsClient != nil {
			signal, err := external.PlacesSignal(ctx, mapsClient, "", req.PlaceName)
			if err != nil {
				log.Printf("Google Places lookup failed for %s: %v", req.PlaceName, err)
			} else if signal != nil {
				signals = append(signals, *signal)
			}
		}

		return signals, nil
	}
}
