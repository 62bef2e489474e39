package types

import (
	"encoding/json"
	"log"
	"time"
)

// RadiationType tags the kind of emitter that produced a range.
type RadiationType uint8

const (
	Ultrasound RadiationType = 0
	Infrared   RadiationType = 1
)

// SensorConfig holds the static identity and calibration of a rangefinder.
// It is fixed when the sensor is constructed.
type SensorConfig struct {
	FrameID       string        `json:"frame_id"`
	RadiationType RadiationType `json:"radiation_type"`
	FieldOfView   float64       `json:"field_of_view"` // [rad]
	MinRange      float64       `json:"min_range"`     // [m]
	MaxRange      float64       `json:"max_range"`     // [m]
}

// DefaultSF11Config mirrors the datasheet values of the LightWare SF11/C.
func DefaultSF11Config(frameID string) SensorConfig {
	return SensorConfig{
		FrameID:       frameID,
		RadiationType: Infrared, // laser, closest match
		FieldOfView:   0.0035,
		MinRange:      0.2,
		MaxRange:      120,
	}
}

type Reading struct {
	Timestamp time.Time `json:"timestamp"`

	// Identity/calibration, copied from SensorConfig
	FrameID       string        `json:"frame_id"`
	RadiationType RadiationType `json:"radiation_type"`
	FieldOfView   float64       `json:"field_of_view"`
	MinRange      float64       `json:"min_range"`
	MaxRange      float64       `json:"max_range"`

	// Measured distance [m]
	Range float64 `json:"range"`
}

func (r *Reading) ToJsonBytes() []byte {
	data, err := json.Marshal(r)
	if err != nil {
		log.Printf("Error marshaling reading: %v", err)
		return nil
	}
	return data
}

// ReadingFromJsonBytes returns nil when the payload is not a reading.
func ReadingFromJsonBytes(data []byte) *Reading {
	var reading Reading
	if err := json.Unmarshal(data, &reading); err != nil {
		return nil
	}
	if reading.FrameID == "" {
		return nil
	}
	return &reading
}
