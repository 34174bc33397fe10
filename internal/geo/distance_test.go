package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversine(t *testing.T) {
	t.Run("Same point", func(t *testing.T) {
		assert.Equal(t, 0.0, Haversine(52.52, 13.405, 52.52, 13.405))
	})

	t.Run("Berlin to Hamburg", func(t *testing.T) {
		// Berlin (52.52, 13.405) to Hamburg (53.551, 9.994) is roughly 255 km.
		d := Haversine(52.52, 13.405, 53.551, 9.994)
		assert.InDelta(t, 255, d, 5)
	})

	t.Run("Rounded to tenth of a kilometer", func(t *testing.T) {
		d := Haversine(52.52, 13.405, 52.53, 13.41)
		assert.InDelta(t, d, math.Round(d*10)/10, 1e-9)
	})

	t.Run("Symmetric", func(t *testing.T) {
		a := Haversine(40.0, -74.0, 34.0, -118.0)
		b := Haversine(34.0, -118.0, 40.0, -74.0)
		assert.Equal(t, a, b)
	})
}
