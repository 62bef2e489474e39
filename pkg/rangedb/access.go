package rangedb

func (db *DB) InsertRangeReading(reading *RangeDbReading) error {
	_, err := db.Exec(
		"INSERT INTO range_readings (timestamp, frame_id, range_mm) "+
			"VALUES (?, ?, ?)",
		reading.Timestamp,
		reading.FrameID,
		reading.RangeMM,
	)
	return err
}

// LatestRangeReadings returns up to limit readings, newest first.
func (db *DB) LatestRangeReadings(limit int) ([]RangeDbReading, error) {
	rows, err := db.Query(
		"SELECT timestamp, frame_id, range_mm FROM range_readings "+
			"ORDER BY timestamp DESC LIMIT ?",
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var readings []RangeDbReading
	for rows.Next() {
		var r RangeDbReading
		if err := rows.Scan(&r.Timestamp, &r.FrameID, &r.RangeMM); err != nil {
			return nil, err
		}
		readings = append(readings, r)
	}
	return readings, rows.Err()
}

// HourlyAggregates returns the roll-ups starting in [from, to], oldest first.
func (db *DB) HourlyAggregates(from, to int64) ([]AggregateRangeHourly, error) {
	rows, err := db.Query(`
		SELECT hour_start, frame_id, min_mm, max_mm, avg_mm, sample_count
		FROM aggregate_range_hourly
		WHERE hour_start >= ? AND hour_start <= ?
		ORDER BY hour_start, frame_id
	`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var aggregates []AggregateRangeHourly
	for rows.Next() {
		var a AggregateRangeHourly
		if err := rows.Scan(&a.HourStart, &a.FrameID, &a.MinMM, &a.MaxMM, &a.AvgMM, &a.SampleCount); err != nil {
			return nil, err
		}
		aggregates = append(aggregates, a)
	}
	return aggregates, rows.Err()
}
