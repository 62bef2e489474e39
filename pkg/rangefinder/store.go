package rangefinder

import (
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/monitoring"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
)

// Stats counts what the parser and store have seen since construction.
type Stats struct {
	Accepted  uint64 `json:"accepted"`
	Malformed uint64 `json:"malformed"`
	Overflows uint64 `json:"overflows"`
	Glitches  uint64 `json:"glitches"`
}

// ReadingStore caches the latest valid packet and turns it into readings.
type ReadingStore struct {
	config  types.SensorConfig
	reading types.Reading

	// TODO: voltage and strength are decoded but not published yet; add them
	// to types.Reading once the collector schema has columns for them.
	last       ParsedReading
	hasNewData bool
	stats      Stats

	now func() time.Time
	// onUpdate, when set, sees every accepted packet in arrival order.
	onUpdate func(ParsedReading)
}

func NewReadingStore(config types.SensorConfig) *ReadingStore {
	return &ReadingStore{
		config: config,
		reading: types.Reading{
			FrameID:       config.FrameID,
			RadiationType: config.RadiationType,
			FieldOfView:   config.FieldOfView,
			MinRange:      config.MinRange,
			MaxRange:      config.MaxRange,
		},
		now: time.Now,
	}
}

func (s *ReadingStore) Stats() Stats {
	return s.stats
}

func (s *ReadingStore) HasNewData() bool {
	return s.hasNewData
}

// Get stamps the cached distance with the current time and returns it. A
// distance at or beyond MaxRange is treated as a glitch: the previous range
// and timestamp are returned unchanged. The new-data flag is cleared either
// way.
func (s *ReadingStore) Get() types.Reading {
	if s.last.Distance < s.config.MaxRange {
		s.reading.Timestamp = s.now()
		s.reading.Range = s.last.Distance
	} else {
		s.stats.Glitches++
		monitoring.Logf("Detected sf11 glitch! %.2f m on %s is beyond max range %.2f m",
			s.last.Distance, s.config.FrameID, s.config.MaxRange)
	}
	s.hasNewData = false
	return s.reading
}

func (s *ReadingStore) update(parsed ParsedReading) {
	s.last = parsed
	s.hasNewData = true
	s.stats.Accepted++
	if s.onUpdate != nil {
		s.onUpdate(parsed)
	}
}
