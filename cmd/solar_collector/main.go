// Responsible for storing solar production samples for the notifier.
// Ingests from the interpreter API websocket feed and, when configured,
// polls the inverter directly over Modbus TCP.
package main

import (
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/solarwatch/solar_notifier/pkg/config"
	"github.com/solarwatch/solar_notifier/pkg/feed"
	"github.com/solarwatch/solar_notifier/pkg/inverter"
	"github.com/solarwatch/solar_notifier/pkg/solardb"
)

func main() {
	cfg, err := config.LoadCollectorConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	// Initialize database
	solardb.InitializeDatabase()
	store := solardb.NewStore(solardb.GetDB())

	poller := inverter.NewPoller(*cfg)
	if poller.IsConfigured() {
		interval := time.Duration(cfg.PollIntervalSeconds) * time.Second
		go pollInverter(poller, store, interval)
	}

	go cleanupLoop(store, time.Duration(cfg.RetentionDays)*24*time.Hour)

	// Subscribe to websocket with revive
	feed.StartListener(cfg.InterpreterAPIHost, makeSampleHandler(store))
}

// makeSampleHandler stores the production delta between consecutive
// meter standings. The first sample only seeds the baseline.
func makeSampleHandler(store *solardb.Store) func(sample *feed.ProductionSample) {
	var lastTotalKwh float64

	return func(sample *feed.ProductionSample) {
		total := sample.TotalProductionKWH()
		defer func() { lastTotalKwh = total }()

		// Meter standings only count up; a lower value means a meter
		// swap or reset, so re-baseline.
		if lastTotalKwh == 0 || total < lastTotalKwh {
			return
		}

		ts, err := time.Parse(time.RFC3339, sample.Timestamp)
		if err != nil {
			ts = time.Now().UTC()
		}

		reading := solardb.ProductionReading{
			Timestamp: ts.UTC().Unix(),
			WattHours: solardb.KwhToWh(total - lastTotalKwh),
		}
		if err := store.InsertProductionReading(&reading); err != nil {
			log.WithError(err).Error("failed to store production reading")
		}
	}
}

func pollInverter(poller *inverter.Poller, store *solardb.Store, interval time.Duration) {
	var lastYieldKwh float64

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		yield, err := poller.ReadAccumulatedYieldKwh()
		if err != nil {
			log.WithError(err).Warn("inverter read failed")
			continue
		}

		if lastYieldKwh > 0 && yield >= lastYieldKwh {
			reading := solardb.ProductionReading{
				Timestamp: time.Now().UTC().Unix(),
				WattHours: solardb.KwhToWh(yield - lastYieldKwh),
			}
			if err := store.InsertProductionReading(&reading); err != nil {
				log.WithError(err).Error("failed to store inverter reading")
			}
		}
		lastYieldKwh = yield
	}
}

func cleanupLoop(store *solardb.Store, retention time.Duration) {
	if retention <= 0 {
		return
	}

	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for range ticker.C {
		if err := store.CleanupOldReadings(retention, time.Now()); err != nil {
			log.WithError(err).Error("cleanup failed")
		} else {
			log.Info("Cleaned up expired raw samples")
		}
	}
}
