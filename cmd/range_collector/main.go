// Range collector stores the readings broadcast by range_publisher.
// Depends on the range publisher being online.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/aggregator"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/config"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/pathing"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangeclient"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangedb"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangeutils"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
)

func main() {
	if err := pathing.EnsureDirs(); err != nil {
		log.Fatalf("Failed to create directories: %v", err)
	}
	if err := config.LoadRangeCollectorConfig(); err != nil {
		log.Fatalf("Failed to load range collector config: %v", err)
	}
	cfg := config.ActiveRangeCollectorConfig

	// Initialize database
	db, err := rangedb.NewDB(pathing.GetRangeDbPath())
	if err != nil {
		log.Fatalf("Failed to open range db: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go runAggregator(ctx, db, aggregator.Options{
		Retention: time.Duration(cfg.RetentionDays) * 24 * time.Hour,
	})

	options := rangeclient.DefaultOptions(cfg.PublisherHost)
	options.TLSEnabled = cfg.TLSEnabled
	options.PingBeforeDial = cfg.PingBeforeDial

	// Subscribe to websocket with revive
	c := newCollector(db)
	err = rangeclient.StartListener(ctx, options, c.handleRangeReading)
	if err != nil {
		log.Fatalf("Range listener stopped: %v", err)
	}
}

type collector struct {
	db *rangedb.DB
	// Last stored timestamp per frame id. The publisher repeats a reading on
	// connect and after a glitch.
	lastStored map[string]time.Time
}

// resumeWindow is how many stored readings are checked for the last one per
// frame id on start-up.
const resumeWindow = 100

func newCollector(db *rangedb.DB) *collector {
	c := &collector{db: db, lastStored: make(map[string]time.Time)}

	// The publisher resends its current reading on connect, which may already
	// be stored from before a restart.
	latest, err := db.LatestRangeReadings(resumeWindow)
	if err != nil {
		log.Printf("Failed to load last stored readings: %v", err)
		return c
	}
	for _, r := range latest {
		if _, ok := c.lastStored[r.FrameID]; ok {
			continue
		}
		c.lastStored[r.FrameID] = r.Time()
		log.Printf("Resuming %s after %.3f m at %s", r.FrameID, r.RangeMeters(), r.Time().Format(time.RFC3339))
	}
	return c
}

func (c *collector) handleRangeReading(reading *types.Reading) {
	if reading.Timestamp.IsZero() || !reading.Timestamp.After(c.lastStored[reading.FrameID]) {
		return
	}
	err := c.db.InsertRangeReading(&rangedb.RangeDbReading{
		Timestamp: reading.Timestamp.UnixMilli(),
		FrameID:   reading.FrameID,
		RangeMM:   rangeutils.MetersToMillimeters(reading.Range),
	})
	if err != nil {
		log.Printf("Failed to store range reading: %v", err)
		return
	}
	c.lastStored[reading.FrameID] = reading.Timestamp
}

// runAggregator rolls up the previous hour shortly after every full hour.
func runAggregator(ctx context.Context, db *rangedb.DB, options aggregator.Options) {
	for {
		next := time.Now().Truncate(time.Hour).Add(time.Hour + time.Minute)
		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Until(next)):
			// errors are logged by the aggregator, try again next hour
			aggregator.AggregateAndCleanup(db, time.Now(), options)
		}
	}
}
