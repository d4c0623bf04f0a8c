package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinelab/motionclean/algorithms/common"
	"github.com/kinelab/motionclean/algorithms/interpolate"
)

func TestGrid(t *testing.T) {
	t.Parallel()

	grid := Grid([]float64{0, 0.3, 2}, 4)
	require.Len(t, grid, 9)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2}, grid, 1e-12)
}

func TestGrid_NonZeroStart(t *testing.T) {
	t.Parallel()

	grid := Grid([]float64{1.5, 2.4}, 2)
	assert.InDeltaSlice(t, []float64{1.5, 2.0}, grid, 1e-12)
}

func TestResample_LinearDownsample(t *testing.T) {
	t.Parallel()

	// Line falling from 1 to 0 sampled at 5 Hz, resampled to 4 Hz.
	values := make([]float64, 11)
	ts := make([]float64, 11)
	for i := range values {
		values[i] = 1 - float64(i)/10
		ts[i] = float64(i) * 0.2
	}

	out, grid, err := Resample(values, ts, Options{Frequency: 4, Method: interpolate.Linear})
	require.NoError(t, err)
	require.Len(t, grid, 9)
	assert.InDeltaSlice(t, []float64{1, 0.875, 0.75, 0.625, 0.5, 0.375, 0.25, 0.125, 0}, out, 1e-9)
}

func TestResample_SameFrequencyIsIdentity(t *testing.T) {
	t.Parallel()

	values := []float64{3, 1, 4, 1, 5, 9, 2, 6}
	ts := make([]float64, len(values))
	for i := range ts {
		ts[i] = float64(i) * 0.1
	}

	out, grid, err := Resample(values, ts, Options{Frequency: 10, Method: interpolate.Linear})
	require.NoError(t, err)
	require.Len(t, out, len(values))
	assert.InDeltaSlice(t, values, out, 1e-9)
	assert.InDeltaSlice(t, ts, grid, 1e-9)
}

func TestResample_WindowedMatchesWhole(t *testing.T) {
	t.Parallel()

	n := 100
	values := make([]float64, n)
	ts := make([]float64, n)
	for i := range values {
		ts[i] = float64(i) * 0.01
		values[i] = math.Sin(2 * math.Pi * 1.3 * ts[i])
	}

	whole, grid, err := Resample(values, ts, Options{Frequency: 77, Method: interpolate.Linear})
	require.NoError(t, err)

	chunked, chunkedGrid, err := Resample(values, ts, Options{
		Frequency:    77,
		Method:       interpolate.Linear,
		WindowSize:   30,
		OverlapRatio: 0.5,
	})
	require.NoError(t, err)

	assert.Equal(t, grid, chunkedGrid)
	assert.InDeltaSlice(t, whole, chunked, 1e-9)
}

func TestResample_WindowedCubicStaysClose(t *testing.T) {
	t.Parallel()

	n := 200
	values := make([]float64, n)
	ts := make([]float64, n)
	for i := range values {
		ts[i] = float64(i) * 0.02
		values[i] = math.Sin(2 * math.Pi * 0.7 * ts[i])
	}

	out, _, err := Resample(values, ts, Options{
		Frequency:    40,
		Method:       interpolate.Cubic,
		WindowSize:   50,
		OverlapRatio: 0.25,
	})
	require.NoError(t, err)

	// The signal is smooth and densely sampled, so the resampled values
	// must track it closely regardless of the chunking.
	for i, v := range out {
		want := math.Sin(2 * math.Pi * 0.7 * (ts[0] + float64(i)/40))
		assert.InDelta(t, want, v, 1e-3)
	}
}

func TestResample_ReportsProgress(t *testing.T) {
	t.Parallel()

	n := 100
	values := make([]float64, n)
	ts := make([]float64, n)
	for i := range values {
		ts[i] = float64(i) * 0.01
		values[i] = float64(i)
	}

	var calls int
	_, _, err := Resample(values, ts, Options{
		Frequency:  50,
		Method:     interpolate.Linear,
		WindowSize: 20,
		Progress: func(stage string, done, total int) {
			calls++
			assert.Equal(t, "resample", stage)
			assert.LessOrEqual(t, done, total)
		},
	})
	require.NoError(t, err)
	assert.Positive(t, calls)
}

func TestResample_SingleSampleWindow(t *testing.T) {
	t.Parallel()

	values := []float64{0, 1, 2, 3, 4}
	ts := []float64{0, 1, 2, 3, 4}

	_, _, err := Resample(values, ts, Options{Frequency: 1, Method: interpolate.Linear, WindowSize: 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "single sample")
}

func TestResample_Validation(t *testing.T) {
	t.Parallel()

	values := []float64{0, 1, 2}
	ts := []float64{0, 1, 2}

	cases := []struct {
		name string
		opts Options
	}{
		{"zero frequency", Options{Frequency: 0, Method: interpolate.Linear}},
		{"negative frequency", Options{Frequency: -5, Method: interpolate.Linear}},
		{"unknown method", Options{Frequency: 1, Method: "sinc"}},
		{"overlap ratio of one", Options{Frequency: 1, Method: interpolate.Linear, OverlapRatio: 1}},
		{"negative window size", Options{Frequency: 1, Method: interpolate.Linear, WindowSize: -1}},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, _, err := Resample(values, ts, tc.opts)
			var perr *common.InvalidParameterError
			require.ErrorAs(t, err, &perr)
		})
	}
}

func TestResample_RejectsUnorderedTimestamps(t *testing.T) {
	t.Parallel()

	_, _, err := Resample([]float64{0, 1, 2}, []float64{0, 2, 1}, Options{Frequency: 1, Method: interpolate.Linear})
	var cerr *common.ChronologyError
	require.ErrorAs(t, err, &cerr)
}

func TestResample_LengthMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := Resample([]float64{0, 1}, []float64{0, 1, 2}, Options{Frequency: 1, Method: interpolate.Linear})
	require.Error(t, err)
}

func TestNumWindows(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 6, NumWindows(100, 30, 0.5))
	assert.Equal(t, 4, NumWindows(100, 25, 0))
	assert.Equal(t, 1, NumWindows(10, 10, 0.99))
}
