package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/NotCoffee418/sf11_rangefinder/pkg/pathing"
)

var (
	ActiveRangePublisherConfig *RangePublisherConfig
	ActiveRangeCollectorConfig *RangeCollectorConfig
)

func DefaultRangePublisherConfig() *RangePublisherConfig {
	return &RangePublisherConfig{
		SerialDevice:  "/dev/ttyUSB0",
		Baudrate:      115200,
		PublishRate:   20,
		LockPort:      true,
		FrameID:       "sf11",
		FieldOfView:   0.0035,
		MinRange:      0.2,
		MaxRange:      120,
		ListenAddress: "0.0.0.0",
		ListenPort:    9040,
	}
}

func DefaultRangeCollectorConfig() *RangeCollectorConfig {
	return &RangeCollectorConfig{
		PublisherHost: "localhost:9040",
		RetentionDays: 90,
	}
}

func LoadRangePublisherConfig() error {
	cfg := DefaultRangePublisherConfig()
	configPath := filepath.Join(pathing.GetConfigDir(), "range_publisher.toml")
	if err := loadOrCreate(configPath, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ActiveRangePublisherConfig = cfg
	return nil
}

func LoadRangeCollectorConfig() error {
	cfg := DefaultRangeCollectorConfig()
	configPath := filepath.Join(pathing.GetConfigDir(), "range_collector.toml")
	if err := loadOrCreate(configPath, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	ActiveRangeCollectorConfig = cfg
	return nil
}

// loadOrCreate decodes configPath into cfg. When the file does not exist it is
// created from the defaults already held by cfg.
func loadOrCreate(configPath string, cfg any) error {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		cfgFile, err := os.Create(configPath)
		if err != nil {
			return err
		}
		defer cfgFile.Close()
		return toml.NewEncoder(cfgFile).Encode(cfg)
	}

	// Keys missing from the file keep their defaults
	_, err := toml.DecodeFile(configPath, cfg)
	return err
}
