// Command alert-cycle runs a single alert processing cycle and prints
// the resulting counters. Useful from cron or for manual testing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/crestwatch/surfcast/internal/alerting"
	"github.com/crestwatch/surfcast/internal/database"
	"github.com/crestwatch/surfcast/internal/log"
	"github.com/crestwatch/surfcast/internal/notify"
	"github.com/crestwatch/surfcast/internal/scoring"
	"github.com/crestwatch/surfcast/pkg/config"
)

func main() {
	cfgFile := flag.String("config", "config.yaml", "Path to configuration source")
	cfgBackend := flag.String("config-backend", "yaml", "Configuration backend type: 'yaml' or 'sqlite'")
	debug := flag.Bool("debug", false, "Turn on debugging output")
	userID := flag.String("user", "", "Only process alerts for this user ID (default all users)")
	date := flag.String("date", "", "Evaluate alerts as of this date (YYYY-MM-DD, default now)")
	dryRun := flag.Bool("dry-run", false, "Log matches instead of delivering notifications")
	flag.Parse()

	if err := log.Init(*debug, ""); err != nil {
		fmt.Printf("Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	asOf := time.Time{}
	if *date != "" {
		var err error
		asOf, err = database.ParseDate(*date)
		if err != nil {
			log.Fatalf("Invalid -date: %v", err)
		}
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
	dispatcher := buildDispatcher(cfgData, *dryRun)
	orch := alerting.NewOrchestrator(db, store, dispatcher, clockwork.NewRealClock(), nil, log.GetSugaredLogger())

	counters, err := orch.RunCycle(context.Background(), *userID, asOf)
	if err != nil {
		log.Fatalf("Alert cycle failed: %v", err)
	}

	fmt.Printf("alerts checked:     %d\n", counters.AlertsChecked)
	fmt.Printf("notifications sent: %d\n", counters.NotificationsSent)
	fmt.Printf("errors:             %d\n", counters.Errors)
	fmt.Printf("expired:            %d\n", counters.Expired)
	if counters.Errors > 0 {
		os.Exit(1)
	}
}

func buildDispatcher(cfgData *config.ConfigData, dryRun bool) *notify.Dispatcher {
	logger := log.GetSugaredLogger()
	dispatcher := notify.NewDispatcher(logger)
	dispatcher.Register(database.NotifyApp, notify.NewLog(logger))

	if dryRun {
		dispatcher.Register(database.NotifyEmail, notify.NewLog(logger))
		dispatcher.Register(database.NotifyWhatsApp, notify.NewLog(logger))
		return dispatcher
	}

	if cfgData.Notifiers.SMTP != nil {
		dispatcher.Register(database.NotifyEmail, notify.NewEmail(cfgData.Notifiers.SMTP))
	}
	if cfgData.Notifiers.Webhook != nil {
		dispatcher.Register(database.NotifyWhatsApp, notify.NewWebhook(cfgData.Notifiers.Webhook))
	}
	return dispatcher
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
