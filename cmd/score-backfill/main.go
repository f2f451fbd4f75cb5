// Command score-backfill computes and persists beach scores for a date
// range, so dashboards and alert cycles hit precomputed rows instead of
// computing on demand.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/log"
	"github.com/crestwatch/surfcast/internal/scoring"
	"github.com/crestwatch/surfcast/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	regionID := flag.Uint("region", 0, "Region ID to backfill (0 = all regions)")
	startDate := flag.String("start", "", "First date to backfill (YYYY-MM-DD, default today)")
	endDate := flag.String("end", "", "Last date to backfill (YYYY-MM-DD, default same as -start)")
	flag.Parse()

	if err := log.Init(*debug, ""); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	start := database.DateOf(time.Now())
	if *startDate != "" {
		var err error
		start, err = database.ParseDate(*startDate)
		if err != nil {
			log.Fatalf("Invalid -start date: %v", err)
		}
	}
	end := start
	if *endDate != "" {
		var err error
		end, err = database.ParseDate(*endDate)
		if err != nil {
			log.Fatalf("Invalid -end date: %v", err)
		}
	}
	if end.Before(start) {
		log.Fatal("-end date is before -start date")
	}

	cfgData, err := loadConfig(*cfgFile, *cfgBackend)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db := database.NewClient(&cfgData.Database, log.GetSugaredLogger())
	if err := db.Connect(); err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := scoring.NewStore(db, nil, nil, log.GetSugaredLogger())
	ctx := context.Background()

	regions, err := targetRegions(ctx, db, *regionID)
	if err != nil {
		log.Fatalf("Failed to load regions: %v", err)
	}

	var computed, skipped int
	for _, region := range regions {
		beaches, err := db.BeachesByRegion(ctx, region.ID)
		if err != nil {
			log.Fatalf("Failed to load beaches for region %d: %v", region.ID, err)
		}

		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			for _, beach := range beaches {
				score, err := store.GetOrCompute(ctx, beach.ID, day)
				if err != nil {
					log.Fatalf("Failed to score beach %d on %s: %v", beach.ID, database.DateString(day), err)
				}
				if score == nil {
					skipped++
					continue
				}
				computed++
			}
		}
	}

	log.Infof("Backfill complete: %d scores written, %d beaches skipped (no forecast)", computed, skipped)
}

func targetRegions(ctx context.Context, db *database.Client, regionID uint) ([]database.Region, error) {
	regions, err := db.Regions(ctx)
	if err != nil {
		return nil, err
	}
	if regionID == 0 {
		return regions, nil
	}
	for _, r := range regions {
		if r.ID == regionID {
			return []database.Region{r}, nil
		}
	}
	return nil, fmt.Errorf("region %d not found", regionID)
}

func loadConfig(cfgFile, cfgBackend string) (*config.ConfigData, error) {
	filename, _ := filepath.Abs(cfgFile)

	var provider config.ConfigProvider
	switch cfgBackend {
	case "yaml":
		provider = config.NewYAMLProvider(filename)
	case "sqlite":
		var err error
		provider, err = config.NewSQLiteProvider(filename)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported configuration backend: %s", cfgBackend)
	}
	defer provider.Close()

	return provider.LoadConfig()
}
