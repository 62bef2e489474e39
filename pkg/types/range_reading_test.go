package types

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadingJson(t *testing.T) {
	reading := Reading{
		Timestamp:     time.Date(2026, time.March, 1, 12, 0, 0, 0, time.UTC),
		FrameID:       "sf11",
		RadiationType: Infrared,
		FieldOfView:   0.0035,
		MinRange:      0.2,
		MaxRange:      120,
		Range:         12.34,
	}

	data := reading.ToJsonBytes()
	assert.Contains(t, string(data), `"range":12.34`)
	assert.Contains(t, string(data), `"frame_id":"sf11"`)

	got := ReadingFromJsonBytes(data)
	require.NotNil(t, got)
	if diff := cmp.Diff(reading, *got); diff != "" {
		t.Errorf("reading mismatch (-want +got):\n%s", diff)
	}
}

func TestReadingFromJsonBytes_Rejects(t *testing.T) {
	assert.Nil(t, ReadingFromJsonBytes([]byte("not json")))
	assert.Nil(t, ReadingFromJsonBytes([]byte(`{"range": 1.0}`)))
}
