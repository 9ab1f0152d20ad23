package neat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStats(t *testing.T) {
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.Equal(t, 5.0, Mean(values))
	assert.InDelta(t, math.Sqrt(32.0/7.0), Stdev(values), 1e-12)
	assert.Equal(t, 9.0, MaxFloat(values))

	assert.Zero(t, Mean(nil))
	assert.Zero(t, Stdev([]float64{3}))
	assert.True(t, math.IsInf(MaxFloat(nil), -1))
}
