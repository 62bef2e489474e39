package config

import "github.com/NotCoffee418/sf11_rangefinder/pkg/types"

type RangeCollectorConfig struct {
	PublisherHost  string `toml:"publisher_host"`
	TLSEnabled     bool   `toml:"tls_enabled"`
	PingBeforeDial bool   `toml:"ping_before_dial"`
	// Raw readings older than this are dropped once aggregated
	RetentionDays int `toml:"retention_days"`
}

type RangePublisherConfig struct {
	SerialDevice string `toml:"serial_device"`
	Baudrate     uint   `toml:"baudrate"`
	// Upper bound, the sensor may report slower
	PublishRate float64 `toml:"publish_rate"`
	// Refuse to start when another process holds the port
	LockPort bool `toml:"lock_port"`
	// Replay a canned packet instead of opening SerialDevice
	MockSerial bool `toml:"mock_serial"`

	FrameID     string  `toml:"frame_id"`
	FieldOfView float64 `toml:"field_of_view"`
	MinRange    float64 `toml:"min_range"`
	MaxRange    float64 `toml:"max_range"`

	ListenAddress string `toml:"listen_address"`
	ListenPort    int    `toml:"listen_port"`
}

func (c *RangePublisherConfig) SensorConfig() types.SensorConfig {
	return types.SensorConfig{
		FrameID:       c.FrameID,
		RadiationType: types.Infrared,
		FieldOfView:   c.FieldOfView,
		MinRange:      c.MinRange,
		MaxRange:      c.MaxRange,
	}
}
