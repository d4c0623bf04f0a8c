// Package resample converts a timestamped channel to a uniform sampling
// grid. Long channels are cut into overlapping windows so that only one
// window's interpolation matrices are held at a time, and so that the
// edge ringing of higher-order interpolants never reaches the output:
// only the central region of each window is kept.
package resample

import (
	"fmt"
	"math"

	"github.com/kinelab/motionclean/algorithms/common"
	"github.com/kinelab/motionclean/algorithms/interpolate"
	"github.com/kinelab/motionclean/logging"
)

// Options configures one resampling call.
type Options struct {
	// Frequency is the target sampling rate in Hz. Must be positive.
	Frequency float64 `json:"frequency"`

	// Method selects the interpolation fitted inside each window.
	Method interpolate.Method `json:"method"`

	// WindowSize is the number of original samples per window. Zero, or
	// any value at or beyond the channel length, disables chunking and
	// treats the channel as a single window.
	WindowSize int `json:"window_size"`

	// OverlapRatio is the fraction of WindowSize shared between
	// consecutive windows. Zero means no overlap.
	OverlapRatio float64 `json:"overlap_ratio"`

	// Progress, when non-nil, receives per-window completion reports.
	Progress logging.ProgressFunc `json:"-"`
}

func (o Options) validate(n int) error {
	if o.Frequency <= 0 {
		return common.NewInvalidParameterError("frequency", o.Frequency, "a positive rate in Hz")
	}
	if !o.Method.Valid() {
		return common.NewInvalidParameterError("method", o.Method, interpolate.Methods()...)
	}
	if o.OverlapRatio < 0 || o.OverlapRatio >= 1 {
		return common.NewInvalidParameterError("overlapRatio", o.OverlapRatio, "a ratio in [0, 1)")
	}
	if o.WindowSize < 0 {
		return common.NewInvalidParameterError("windowSize", o.WindowSize, "zero or a positive sample count")
	}
	if n < 2 {
		return common.NewInvalidParameterError("values", n, "at least two samples")
	}
	return nil
}

// Grid builds the uniform target grid at frequency Hz spanning the
// original timestamps. The grid starts at the first timestamp and never
// extends past the last one.
func Grid(timestamps []float64, frequency float64) []float64 {
	start := common.Round6(timestamps[0])
	end := common.Round6(timestamps[len(timestamps)-1])

	step := 1 / frequency
	n := int(math.Floor((end-start)/step+1e-9)) + 1
	grid := make([]float64, n)
	for i := range grid {
		grid[i] = start + float64(i)*step
	}
	return grid
}

// NumWindows returns how many windows of windowSize samples, overlapping
// by overlapRatio, cover a channel of length samples. A trailing partial
// window counts.
func NumWindows(length, windowSize int, overlapRatio float64) int {
	overlap := int(math.Ceil(overlapRatio * float64(windowSize)))
	if windowSize <= overlap {
		return 1
	}
	return int(math.Ceil(float64(length-overlap) / float64(windowSize-overlap)))
}

// Resample interpolates the channel onto a uniform grid at
// opts.Frequency and returns the new values together with the grid. The
// same grid is produced for every channel sharing the original
// timestamps, so resampling each coordinate axis of each joint with the
// same options keeps all channels time-aligned.
func Resample(values, timestamps []float64, opts Options) ([]float64, []float64, error) {
	if len(values) != len(timestamps) {
		return nil, nil, fmt.Errorf("channel has %d values for %d timestamps", len(values), len(timestamps))
	}
	if err := opts.validate(len(values)); err != nil {
		return nil, nil, err
	}
	if err := common.CheckChronology(timestamps); err != nil {
		return nil, nil, err
	}

	grid := Grid(timestamps, opts.Frequency)

	windowSize := opts.WindowSize
	if windowSize == 0 || windowSize >= len(values) {
		out, err := interpolate.At(opts.Method, timestamps, values, grid)
		if err != nil {
			return nil, nil, err
		}
		return out, grid, nil
	}

	overlap := int(math.Ceil(opts.OverlapRatio * float64(windowSize)))
	numWindows := NumWindows(len(values), windowSize, opts.OverlapRatio)
	progress := logging.NewProgressReporter(opts.Progress, "resample", numWindows)

	out := make([]float64, len(grid))
	written := 0

	for i := 0; i < numWindows; i++ {
		startOrig := i * (windowSize - overlap)
		endOrig := min(startOrig+windowSize, len(values)-1)
		startRes := gridIndex(grid, timestamps[startOrig], opts.Frequency)
		endRes := gridIndex(grid, timestamps[endOrig], opts.Frequency)

		if endOrig-startOrig < 1 {
			return nil, nil, fmt.Errorf("window %d of %d spans a single sample at %g s: increase the window size",
				i+1, numWindows, timestamps[startOrig])
		}

		window, err := interpolate.At(opts.Method,
			timestamps[startOrig:endOrig+1], values[startOrig:endOrig+1],
			grid[startRes:endRes+1])
		if err != nil {
			return nil, nil, fmt.Errorf("window %d of %d (%g s to %g s): %w",
				i+1, numWindows, timestamps[startOrig], timestamps[endOrig], err)
		}

		// Keep only the central region of the window. The first window
		// keeps its own leading edge; the last window, by covering the
		// channel tail, keeps its trailing edge.
		sliceStart := 0
		if i > 0 {
			sliceStart = (written - startRes) / 2
		}
		destStart := startRes + sliceStart
		preserved := window[sliceStart:]
		copy(out[destStart:destStart+len(preserved)], preserved)
		written = destStart + len(preserved)

		progress.Step(i + 1)
	}
	progress.Done()

	return out, grid, nil
}

// gridIndex maps a timestamp onto the closest grid position.
func gridIndex(grid []float64, t, frequency float64) int {
	i := int(math.Round((t - grid[0]) * frequency))
	if i < 0 {
		return 0
	}
	if i >= len(grid) {
		return len(grid) - 1
	}
	return i
}
