package rangedb

import (
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangeutils"
)

// Ranges are stored as whole millimeters
type RangeDbReading struct {
	Timestamp int64  `db:"timestamp"` // unix millis
	FrameID   string `db:"frame_id"`
	RangeMM   uint32 `db:"range_mm"`
}

func (r RangeDbReading) RangeMeters() float64 {
	return rangeutils.MillimetersToMeters(r.RangeMM)
}

func (r RangeDbReading) Time() time.Time {
	return time.UnixMilli(r.Timestamp).UTC()
}

type AggregateRangeHourly struct {
	HourStart   int64  `db:"hour_start"`
	FrameID     string `db:"frame_id"`
	MinMM       uint32 `db:"min_mm"`
	MaxMM       uint32 `db:"max_mm"`
	AvgMM       uint32 `db:"avg_mm"`
	SampleCount uint32 `db:"sample_count"`
}
