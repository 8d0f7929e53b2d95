package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineDistance(t *testing.T) {
	cases := []struct {
		name string
		a, b Point
		want float64
		tol  float64
	}{
		{"same point", Point{-6.2, 106.8}, Point{-6.2, 106.8}, 0, 1e-9},
		{"one degree latitude", Point{0, 0}, Point{1, 0}, 111194.93, 0.5},
		{"jakarta to bandung", Point{-6.2088, 106.8456}, Point{-6.9175, 107.6191}, 116000, 2000},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := HaversineDistance(c.a, c.b)
			assert.InDelta(t, c.want, got, c.tol)
		})
	}
}

func TestHaversineDistance_Symmetric(t *testing.T) {
	a := Point{-7.2575, 112.7521}
	b := Point{-7.2600, 112.7550}
	assert.InDelta(t, HaversineDistance(a, b), HaversineDistance(b, a), 1e-9)
}

func TestOffset_RoundTrip(t *testing.T) {
	center := Point{-6.175392, 106.827153}
	for _, d := range []float64{1, 50, 100, 500} {
		north := Offset(center, d, 0)
		assert.InDelta(t, d, HaversineDistance(center, north), 1e-6)

		east := Offset(center, 0, d)
		assert.InDelta(t, d, HaversineDistance(center, east), 1e-3)
	}
}

func TestCircle_Contains_InclusiveBoundary(t *testing.T) {
	center := Point{-6.175392, 106.827153}
	fence := Circle{Center: center, RadiusMeters: 100}

	inside, d := fence.Contains(Offset(center, 100, 0))
	assert.True(t, inside)
	assert.InDelta(t, 100, d, 1e-6)

	inside, d = fence.Contains(Offset(center, 101, 0))
	assert.False(t, inside)
	assert.InDelta(t, 101, d, 1e-6)

	inside, _ = fence.Contains(center)
	assert.True(t, inside)
}

func TestValidCoordinates(t *testing.T) {
	assert.True(t, ValidCoordinates(0, 0))
	assert.True(t, ValidCoordinates(-90, 180))
	assert.False(t, ValidCoordinates(90.1, 0))
	assert.False(t, ValidCoordinates(0, -180.5))
	assert.False(t, ValidCoordinates(math.NaN(), 0))
}
