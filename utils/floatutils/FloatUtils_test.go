package floatutils

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"gonum.org/v1/gonum/spatial/r1"
)

func TestClip(t *testing.T) {
	interval := r1.Interval{Min: -1, Max: 1}

	tests := []struct {
		name  string
		value float64
		want  float64
	}{
		{"inside", 0.25, 0.25},
		{"above", 3, 1},
		{"below", -7, -1},
		{"upper edge", 1, 1},
		{"positive infinity", math.Inf(1), 1},
		{"negative infinity", math.Inf(-1), -1},
		{"nan", math.NaN(), -1},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.want, ClipInterval(test.value, interval))
			assert.Equal(t, test.want, Clip(test.value, -1, 1))
		})
	}
}
