package rangeutils

import "math"

// No negative values
func MetersToMillimeters(m float64) uint32 {
	if m < 0 || math.IsNaN(m) {
		return 0
	}
	if m >= math.MaxUint32/1000 {
		return math.MaxUint32
	}
	return uint32(math.Round(m * 1000))
}

func MillimetersToMeters(mm uint32) float64 {
	return float64(mm) / 1000
}
