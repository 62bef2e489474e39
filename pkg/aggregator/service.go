package aggregator

import (
	"database/sql"
	"log"
	"time"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/rangedb"
)

const secondsPerHour = int64(time.Hour / time.Second)

// roundToHourStart returns the Unix timestamp of the start of the hour for the given time
func roundToHourStart(t time.Time) int64 {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), 0, 0, 0, time.UTC).Unix()
}

// getHourEnd returns the Unix timestamp of the last second of the hour (next hour start - 1)
func getHourEnd(hourStart int64) int64 {
	return time.Unix(hourStart, 0).Add(time.Hour).Unix() - 1
}

// aggregateRangeHourly rolls up the readings of one hour per frame id.
// Readings are keyed in unix millis, aggregates in unix seconds.
func aggregateRangeHourly(db *rangedb.DB, hourStart int64) error {
	hourEnd := getHourEnd(hourStart)

	query := `
		SELECT
			frame_id,
			MIN(range_mm) as min_mm,
			MAX(range_mm) as max_mm,
			AVG(range_mm) as avg_mm,
			COUNT(*) as count
		FROM range_readings
		WHERE timestamp >= ? AND timestamp < ?
		GROUP BY frame_id
	`

	rows, err := db.Query(query, hourStart*1000, (hourEnd+1)*1000)
	if err != nil {
		return err
	}

	var aggregates []rangedb.AggregateRangeHourly
	for rows.Next() {
		a := rangedb.AggregateRangeHourly{HourStart: hourStart}
		var avg float64
		if err := rows.Scan(&a.FrameID, &a.MinMM, &a.MaxMM, &avg, &a.SampleCount); err != nil {
			rows.Close()
			return err
		}
		a.AvgMM = uint32(avg + 0.5)
		aggregates = append(aggregates, a)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return err
	}
	rows.Close()

	insertQuery := `
		INSERT OR REPLACE INTO aggregate_range_hourly
		(hour_start, frame_id, min_mm, max_mm, avg_mm, sample_count)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	for _, a := range aggregates {
		if _, err := db.Exec(insertQuery, a.HourStart, a.FrameID, a.MinMM, a.MaxMM, a.AvgMM, a.SampleCount); err != nil {
			return err
		}
	}
	return nil
}

// firstPendingHour returns the start of the oldest hour holding raw readings
// that no aggregate row covers yet.
func firstPendingHour(db *rangedb.DB) (int64, bool, error) {
	var lastAggregateHour sql.NullInt64
	if err := db.QueryRow("SELECT MAX(hour_start) FROM aggregate_range_hourly").Scan(&lastAggregateHour); err != nil {
		return 0, false, err
	}

	var since int64
	if lastAggregateHour.Valid {
		since = (getHourEnd(lastAggregateHour.Int64) + 1) * 1000
	}

	var oldest sql.NullInt64
	if err := db.QueryRow("SELECT MIN(timestamp) FROM range_readings WHERE timestamp >= ?", since).Scan(&oldest); err != nil {
		return 0, false, err
	}
	if !oldest.Valid {
		return 0, false, nil
	}
	return roundToHourStart(time.UnixMilli(oldest.Int64)), true, nil
}

// aggregatePendingHours rolls up every finished hour from the oldest
// unaggregated one up to and including lastHour. lastHour is always redone so
// late readings for it are picked up.
func aggregatePendingHours(db *rangedb.DB, lastHour int64) error {
	first, ok, err := firstPendingHour(db)
	if err != nil {
		return err
	}
	if !ok || first > lastHour {
		first = lastHour
	}

	for hourStart := first; hourStart <= lastHour; hourStart += secondsPerHour {
		if err := aggregateRangeHourly(db, hourStart); err != nil {
			return err
		}
	}
	if n := (lastHour-first)/secondsPerHour + 1; n > 1 {
		log.Printf("Backfilled %d hourly aggregates from %s", n, time.Unix(first, 0).UTC().Format(time.RFC3339))
	}
	return nil
}

// cleanupOldData removes raw readings older than the retention window. Only
// readings inside hours that have been aggregated are removed.
func cleanupOldData(db *rangedb.DB, now time.Time, retention time.Duration) error {
	cutoff := now.UTC().Add(-retention).UnixMilli()

	var lastAggregateHour sql.NullInt64
	if err := db.QueryRow("SELECT MAX(hour_start) FROM aggregate_range_hourly").Scan(&lastAggregateHour); err != nil {
		return err
	}

	// No aggregates yet
	if !lastAggregateHour.Valid {
		return nil
	}

	if covered := (getHourEnd(lastAggregateHour.Int64) + 1) * 1000; covered < cutoff {
		cutoff = covered
	}

	if _, err := db.Exec("DELETE FROM range_readings WHERE timestamp < ?", cutoff); err != nil {
		return err
	}

	log.Printf("Cleaned up readings older than %s", time.UnixMilli(cutoff).UTC().Format(time.RFC3339))
	return nil
}

// AggregateAndCleanup rolls up every finished hour not yet aggregated, then
// drops expired raw readings. Call it once per hour.
func AggregateAndCleanup(db *rangedb.DB, now time.Time, options Options) error {
	// Aggregate up to the previous hour (current hour is still ongoing)
	hourStart := roundToHourStart(now.Add(-time.Hour))

	log.Printf("Aggregating readings up to the hour starting at %s", time.Unix(hourStart, 0).UTC().Format(time.RFC3339))

	if err := aggregatePendingHours(db, hourStart); err != nil {
		log.Printf("Error aggregating hourly ranges: %v", err)
		return err
	}

	if err := cleanupOldData(db, now, options.Retention); err != nil {
		log.Printf("Error cleaning up old readings: %v", err)
		return err
	}

	log.Println("Aggregation and cleanup completed successfully")
	return nil
}
