package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance_SamePoint(t *testing.T) {
	assert.Equal(t, 0.0, HaversineDistance(-6.2, 106.8, -6.2, 106.8))
}

func TestHaversineDistance_KnownDistance(t *testing.T) {
	// Jakarta to Surabaya, roughly 663 km.
	distance := HaversineDistance(-6.2088, 106.8456, -7.2575, 112.7521)
	assert.InDelta(t, 663000, distance, 10000)
}

func TestHaversineDistance_ShortRange(t *testing.T) {
	// One thousandth of a degree of latitude is about 111 meters.
	distance := HaversineDistance(-6.2000, 106.8000, -6.2010, 106.8000)
	assert.InDelta(t, 111, distance, 1)
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := HaversineDistance(-6.2, 106.8, 1.3, 103.8)
	b := HaversineDistance(1.3, 103.8, -6.2, 106.8)
	assert.InDelta(t, a, b, 0.0001)
}
