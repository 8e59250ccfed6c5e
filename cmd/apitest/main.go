package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/afrimarkets/dashboard/internal/api"
	"github.com/afrimarkets/dashboard/internal/config"
	"github.com/afrimarkets/dashboard/internal/filter"
	"github.com/afrimarkets/dashboard/internal/market"
	"github.com/afrimarkets/dashboard/internal/probe"
)

func main() {
	host := flag.String("host", "localhost", "dashboard host used to pick the API URL")
	devURL := flag.String("dev-url", config.DefaultDevURL, "API URL for local hosts")
	prodURL := flag.String("prod-url", os.Getenv("MARKETS_API_URL"), "API URL for deployed hosts")
	origin := flag.String("origin", "", "Origin to send and check against CORS headers")
	refresh := flag.Bool("refresh", false, "also trigger POST /refresh")
	flag.Parse()

	baseURL := config.ResolveBaseURL(*host, *devURL, *prodURL)
	if baseURL == "" {
		log.Fatal("no API URL: set -prod-url or MARKETS_API_URL for non-local hosts")
	}

	var opts []api.ClientOption
	if *origin != "" {
		opts = append(opts, api.WithOrigin(*origin))
	}
	client := api.NewClient(baseURL, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Minute)
	defer cancel()

	fmt.Printf("API: %s\n", baseURL)

	// Test 1: Connectivity probe
	fmt.Println("\n=== Testing Connectivity ===")
	res := probe.New(probe.DefaultConfig(), client, nil).Probe(ctx)
	fmt.Printf("Connected: %v\n", res.Status.Connected)
	fmt.Printf("Message: %s\n", res.Status.Message)
	fmt.Printf("Attempts: %d, backoff: %v\n", res.Attempts, res.Backoff)
	if res.Status.Connected {
		fmt.Printf("Response time: %v\n", res.Status.ResponseTime)
		for k, v := range res.Status.Diagnostics {
			fmt.Printf("  %s: %v\n", k, v)
		}
	}
	if res.Fallback {
		fmt.Println("Dashboard would switch to demo data")
	}

	// Test 2: Load markets through the synchronizer
	fmt.Println("\n=== Testing LoadMarkets ===")
	syncer := market.New(market.DefaultConfig(), client, nil, nil)
	syncer.LoadMarkets(ctx)
	printSnapshot(syncer)

	// Test 3: Manual refresh
	if *refresh {
		fmt.Println("\n=== Testing RefreshMarkets ===")
		start := time.Now()
		syncer.RefreshMarkets(ctx)
		fmt.Printf("Refresh took %v\n", time.Since(start))
		printSnapshot(syncer)
		conn := syncer.Connectivity()
		fmt.Printf("Connected after refresh: %v (%s)\n", conn.Connected, conn.Message)
	}

	fmt.Println("\n=== All tests done ===")
}

func printSnapshot(syncer *market.Synchronizer) {
	snap, ok := syncer.Snapshot()
	if !ok {
		fmt.Println("No snapshot")
		return
	}
	fmt.Printf("State: %s, source: %s, last update: %s\n", syncer.State(), snap.Source, snap.UpdatedAt.Format(time.RFC3339))

	top := filter.Apply(snap.Records, filter.Spec{SortBy: filter.SortByChange, SortOrder: filter.Desc})
	for i, r := range top {
		if i >= 5 {
			break
		}
		change := "n/a"
		if r.ChangePercent != nil {
			change = r.ChangePercent.StringFixed(2) + "%"
		}
		fmt.Printf("  %d. %-6s %-28s %14s %-4s %8s\n", i+1, r.ID, r.Name, r.Value, r.Currency, change)
	}
	fmt.Printf("Currencies: %v\n", filter.UniqueValues(snap.Records, "currency"))
}
