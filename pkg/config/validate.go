package config

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrInvalidConfig       = errors.New("invalid config")
	ErrUnsupportedBaudrate = errors.New("unsupported baudrate")
)

// Standard termios rates. B0 is left out, it hangs up the line.
var supportedBaudrates = map[uint]bool{
	50: true, 75: true, 110: true, 134: true, 150: true, 200: true,
	300: true, 600: true, 1200: true, 1800: true, 2400: true, 4800: true,
	9600: true, 19200: true, 38400: true, 57600: true, 115200: true,
	230400: true,
}

func IsSupportedBaudrate(baudrate uint) bool {
	return supportedBaudrates[baudrate]
}

// Validate checks the publisher config. It does not mutate it.
func (c *RangePublisherConfig) Validate() error {
	if !c.MockSerial && strings.TrimSpace(c.SerialDevice) == "" {
		return fmt.Errorf("%w: serial_device is empty", ErrInvalidConfig)
	}
	if !IsSupportedBaudrate(c.Baudrate) {
		return fmt.Errorf("%w %d", ErrUnsupportedBaudrate, c.Baudrate)
	}
	if c.PublishRate <= 0 {
		return fmt.Errorf("%w: publish_rate must be positive, got %v", ErrInvalidConfig, c.PublishRate)
	}
	if strings.TrimSpace(c.FrameID) == "" {
		return fmt.Errorf("%w: frame_id is empty", ErrInvalidConfig)
	}
	if c.FieldOfView <= 0 {
		return fmt.Errorf("%w: field_of_view must be positive, got %v", ErrInvalidConfig, c.FieldOfView)
	}
	if c.MinRange < 0 || c.MinRange >= c.MaxRange {
		return fmt.Errorf("%w: need 0 <= min_range < max_range, got %v and %v",
			ErrInvalidConfig, c.MinRange, c.MaxRange)
	}
	if c.ListenPort <= 0 || c.ListenPort > 65535 {
		return fmt.Errorf("%w: listen_port %d out of range", ErrInvalidConfig, c.ListenPort)
	}
	return nil
}

func (c *RangeCollectorConfig) Validate() error {
	if strings.TrimSpace(c.PublisherHost) == "" {
		return fmt.Errorf("%w: publisher_host is empty", ErrInvalidConfig)
	}
	if c.RetentionDays <= 0 {
		return fmt.Errorf("%w: retention_days must be positive, got %d", ErrInvalidConfig, c.RetentionDays)
	}
	return nil
}
