package rangedb

import (
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	db, err := NewDB(filepath.Join(t.TempDir(), "test-range.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestNewDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test-range.db")
	db, err := NewDB(path)
	require.NoError(t, err)
	require.NoError(t, db.InsertRangeReading(&RangeDbReading{Timestamp: 1, FrameID: "sf11", RangeMM: 5}))
	require.NoError(t, db.Close())

	// migrations are not applied twice
	db, err = NewDB(path)
	require.NoError(t, err)
	defer db.Close()
	readings, err := db.LatestRangeReadings(10)
	require.NoError(t, err)
	assert.Len(t, readings, 1)
}

func TestLatestRangeReadings(t *testing.T) {
	db := newTestDB(t)

	for i, mm := range []uint32{1000, 2000, 3000} {
		require.NoError(t, db.InsertRangeReading(&RangeDbReading{
			Timestamp: int64(1_700_000_000_000 + i*50),
			FrameID:   "sf11",
			RangeMM:   mm,
		}))
	}

	got, err := db.LatestRangeReadings(2)
	require.NoError(t, err)
	want := []RangeDbReading{
		{Timestamp: 1_700_000_000_100, FrameID: "sf11", RangeMM: 3000},
		{Timestamp: 1_700_000_000_050, FrameID: "sf11", RangeMM: 2000},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("readings mismatch (-want +got):\n%s", diff)
	}
}

func TestHourlyAggregates_Empty(t *testing.T) {
	db := newTestDB(t)
	got, err := db.HourlyAggregates(0, 1<<40)
	require.NoError(t, err)
	assert.Empty(t, got)
}
