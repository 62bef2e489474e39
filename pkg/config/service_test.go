package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NotCoffee418/sf11_rangefinder/pkg/types"
)

func TestLoadOrCreate_WritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "range_publisher.toml")

	cfg := DefaultRangePublisherConfig()
	require.NoError(t, loadOrCreate(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `serial_device = "/dev/ttyUSB0"`)
	assert.Contains(t, string(data), "max_range = 120.0")

	// second load reads the file back
	loaded := &RangePublisherConfig{}
	require.NoError(t, loadOrCreate(path, loaded))
	if diff := cmp.Diff(cfg, loaded); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadOrCreate_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "range_publisher.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
serial_device = "/dev/ttyACM0"
baudrate = 9600
frame_id = "sf11_down"
`), 0644))

	cfg := DefaultRangePublisherConfig()
	require.NoError(t, loadOrCreate(path, cfg))
	assert.Equal(t, "/dev/ttyACM0", cfg.SerialDevice)
	assert.Equal(t, uint(9600), cfg.Baudrate)
	assert.Equal(t, "sf11_down", cfg.FrameID)
	assert.Equal(t, 120.0, cfg.MaxRange)
	assert.Equal(t, 20.0, cfg.PublishRate)
	require.NoError(t, cfg.Validate())
}

func TestLoadOrCreate_BadToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "range_collector.toml")
	require.NoError(t, os.WriteFile(path, []byte("publisher_host = "), 0644))

	assert.Error(t, loadOrCreate(path, DefaultRangeCollectorConfig()))
}

func TestSensorConfig(t *testing.T) {
	cfg := DefaultRangePublisherConfig()
	want := types.DefaultSF11Config("sf11")
	if diff := cmp.Diff(want, cfg.SensorConfig()); diff != "" {
		t.Errorf("sensor config mismatch (-want +got):\n%s", diff)
	}
}
