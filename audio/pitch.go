package audio

import (
	"math"

	"github.com/kinelab/motionclean/algorithms/common"
)

// PitchOptions configures ComputePitch.
type PitchOptions struct {
	// FrameSize and HopSize are in samples. Zero values default to a
	// 40 ms frame with a 10 ms hop at the input rate.
	FrameSize int `json:"frame_size,omitempty"`
	HopSize   int `json:"hop_size,omitempty"`

	// MinFreq and MaxFreq bound the accepted fundamental, in Hz. Zero
	// values default to 75 and 600, the usual speech range.
	MinFreq float64 `json:"min_freq,omitempty"`
	MaxFreq float64 `json:"max_freq,omitempty"`

	// Threshold is the YIN aperiodicity threshold below which a frame
	// counts as voiced. Zero defaults to 0.15.
	Threshold float64 `json:"threshold,omitempty"`

	// Name names the output series.
	Name string `json:"name,omitempty"`
}

// ComputePitch computes a frame-wise fundamental frequency series using
// the YIN estimator (de Cheveigné & Kawahara 2002). Unvoiced frames are
// reported as 0 Hz, the sentinel InterpolateMissing recognizes, so a
// continuous pitch track is one WhichZero interpolation away. Frame
// timestamps sit at frame centers.
func ComputePitch(samples []float64, frequency float64, opts PitchOptions) (*Series, error) {
	if frequency <= 0 {
		return nil, common.NewInvalidParameterError("frequency", frequency, "a positive rate in Hz")
	}
	frameSize := opts.FrameSize
	if frameSize <= 0 {
		frameSize = int(math.Round(frequency * 0.04))
	}
	hopSize := opts.HopSize
	if hopSize <= 0 {
		hopSize = int(math.Round(frequency * 0.01))
	}
	if frameSize < 4 || hopSize < 1 || len(samples) < frameSize {
		return nil, common.NewInvalidParameterError("frameSize", frameSize,
			"a frame of at least 4 samples, shorter than the signal")
	}
	minFreq := opts.MinFreq
	if minFreq <= 0 {
		minFreq = 75
	}
	maxFreq := opts.MaxFreq
	if maxFreq <= 0 {
		maxFreq = 600
	}
	if minFreq >= maxFreq {
		return nil, common.NewInvalidParameterError("minFreq", minFreq, "a frequency lower than maxFreq")
	}
	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = 0.15
	}

	numFrames := (len(samples)-frameSize)/hopSize + 1
	values := make([]float64, numFrames)
	timestamps := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * hopSize
		values[i] = yinPitch(samples[start:start+frameSize], frequency, minFreq, maxFreq, threshold)
		timestamps[i] = (float64(start) + float64(frameSize)/2) / frequency
	}

	frameRate := frequency / float64(hopSize)
	return NewSeries(KindPitch, values, timestamps, frameRate, opts.Name)
}

// yinPitch runs YIN on a single frame: the cumulative mean normalized
// difference function is scanned for its first dip below the threshold
// inside the accepted lag range, and the dip position is refined by
// parabolic interpolation. A frame with no dip is unvoiced and yields 0.
func yinPitch(frame []float64, frequency, minFreq, maxFreq, threshold float64) float64 {
	half := len(frame) / 2

	diff := make([]float64, half)
	for tau := 0; tau < half; tau++ {
		sum := 0.0
		for j := 0; j < half; j++ {
			delta := frame[j] - frame[j+tau]
			sum += delta * delta
		}
		diff[tau] = sum
	}

	cmndf := make([]float64, half)
	cmndf[0] = 1
	runningSum := 0.0
	for tau := 1; tau < half; tau++ {
		runningSum += diff[tau]
		if runningSum == 0 {
			cmndf[tau] = 1
			continue
		}
		cmndf[tau] = diff[tau] / (runningSum / float64(tau))
	}

	minTau := max(int(frequency/maxFreq), 1)
	maxTau := min(int(math.Ceil(frequency/minFreq)), half-1)

	for tau := minTau; tau <= maxTau; tau++ {
		if cmndf[tau] >= threshold {
			continue
		}
		if tau+1 < half && cmndf[tau] >= cmndf[tau+1] {
			continue
		}
		period := refinePeak(cmndf, tau)
		pitch := frequency / period
		if pitch < minFreq || pitch > maxFreq {
			return 0
		}
		return pitch
	}
	return 0
}

// refinePeak refines an extremum position to sub-sample accuracy by
// fitting a parabola through the point and its two neighbours.
func refinePeak(data []float64, idx int) float64 {
	if idx <= 0 || idx >= len(data)-1 {
		return float64(idx)
	}
	y1, y2, y3 := data[idx-1], data[idx], data[idx+1]
	a := (y1 - 2*y2 + y3) / 2
	if a == 0 {
		return float64(idx)
	}
	b := (y3 - y1) / 2
	return float64(idx) - b/(2*a)
}
