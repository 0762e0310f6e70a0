package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/theoremus-urban-solutions/mnr-feed/config"
	"github.com/theoremus-urban-solutions/mnr-feed/feed"
	"github.com/theoremus-urban-solutions/mnr-feed/internal"
	"github.com/theoremus-urban-solutions/mnr-feed/schedule"
	"github.com/theoremus-urban-solutions/mnr-feed/timeutil"
)

func main() {
	configPath := flag.String("config", "agency.yml", "path to agency config file")
	mode := flag.String("mode", "station", "station|vehicles")
	stopID := flag.String("stop", "", "origin stop id (station mode)")
	flag.Parse()

	internal.InitLogging()
	defer internal.SyncLogging()
	log := internal.Logger()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalw("could not load config", "path", *configPath, "error", err)
	}

	loc, err := timeutil.Location(cfg.Agency.Timezone)
	if err != nil {
		log.Fatalw("unknown agency timezone", "tz", cfg.Agency.Timezone, "error", err)
	}
	store, err := schedule.NewSQLStore(cfg.DB.Location, loc)
	if err != nil {
		log.Fatalw("could not open schedule db", "error", err)
	}
	defer func() { _ = store.Close() }()

	svc, err := feed.NewService(cfg, store, log)
	if err != nil {
		log.Fatalw("could not build feed service", "error", err)
	}

	ctx := context.Background()
	var out any
	switch *mode {
	case "station":
		if *stopID == "" {
			log.Fatal("station mode requires -stop")
		}
		origin, err := store.GetStop(ctx, *stopID)
		if err != nil {
			log.Fatalw("stop lookup failed", "stop", *stopID, "error", err)
		}
		if origin == nil {
			log.Fatalw("unknown stop", "stop", *stopID)
		}
		out, err = svc.LoadStationFeed(ctx, *origin)
		if err != nil {
			log.Fatalw("station feed failed", "stop", *stopID, "error", err)
		}
	case "vehicles":
		out, err = svc.LoadVehicleFeeds(ctx)
		if err != nil {
			log.Fatalw("vehicle feeds failed", "error", err)
		}
	default:
		fmt.Fprintf(os.Stderr, "unknown mode %q\n", *mode)
		os.Exit(2)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatalw("could not encode output", "error", err)
	}
}
