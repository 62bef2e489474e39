package rangeutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMetersToMillimeters(t *testing.T) {
	assert.Equal(t, uint32(12340), MetersToMillimeters(12.34))
	assert.Equal(t, uint32(200), MetersToMillimeters(0.2))
	assert.Equal(t, uint32(1), MetersToMillimeters(0.0005))
	assert.Equal(t, uint32(0), MetersToMillimeters(-1))
	assert.Equal(t, uint32(0), MetersToMillimeters(math.NaN()))
	assert.Equal(t, uint32(math.MaxUint32), MetersToMillimeters(1e12))
}

func TestMillimetersToMeters(t *testing.T) {
	assert.InDelta(t, 12.34, MillimetersToMeters(12340), 1e-9)
	assert.Equal(t, 0.0, MillimetersToMeters(0))
}
