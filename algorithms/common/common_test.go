package common

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckChronology(t *testing.T) {
	t.Parallel()

	assert.NoError(t, CheckChronology(nil))
	assert.NoError(t, CheckChronology([]float64{0, 1, 1, 2}))

	err := CheckChronology([]float64{0, 1, 0.5, 2})
	var cerr *ChronologyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 1, cerr.Index1)
	assert.Equal(t, 2, cerr.Index2)
	assert.Equal(t, 1.0, cerr.Timestamp1)
	assert.Equal(t, 0.5, cerr.Timestamp2)
	assert.Contains(t, err.Error(), "chronological")
}

func TestInvalidParameterError_Message(t *testing.T) {
	t.Parallel()

	err := NewInvalidParameterError("window", -1.0)
	assert.Contains(t, err.Error(), "window")
	assert.Contains(t, err.Error(), "-1")

	err = NewInvalidParameterError("unit", "frames", "poses", "s", "ms")
	assert.Contains(t, err.Error(), "poses, s, ms")
}

func TestStatistics(t *testing.T) {
	t.Parallel()

	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 5.0, Mean(data), 1e-12)
	assert.InDelta(t, 2.13809, StandardDeviation(data), 1e-4)
	assert.Equal(t, 2.0, Min(data))
	assert.Equal(t, 9.0, Max(data))

	assert.Zero(t, Mean(nil))
	assert.Zero(t, Variance([]float64{3}))
	assert.Zero(t, Min(nil))
}

func TestRMS(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, 5.0, RMS([]float64{5, -5, 5, -5}), 1e-12)
	assert.Zero(t, RMS(nil))
}

func TestDistance3D(t *testing.T) {
	t.Parallel()

	assert.InDelta(t, math.Sqrt(3), Distance3D(0, 0, 0, 1, 1, 1), 1e-12)
	assert.Zero(t, Distance3D(1, 2, 3, 1, 2, 3))
}

func TestRound6(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0.123457, Round6(0.123456789))
	assert.Equal(t, 2.0, Round6(2.0000000000000004))
}
