package audio

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"

	"github.com/kinelab/motionclean/algorithms/common"
	"github.com/kinelab/motionclean/algorithms/interpolate"
	"github.com/kinelab/motionclean/algorithms/resample"
)

// EnvelopeOptions configures ExtractEnvelope.
type EnvelopeOptions struct {
	// FilterOver, when positive, low-passes the envelope below this
	// frequency in Hz before any resampling. 50 Hz keeps the slow
	// amplitude modulations relevant to speech-gesture work.
	FilterOver float64 `json:"filter_over,omitempty"`

	// Frequency, when positive, resamples the envelope to this rate.
	Frequency float64 `json:"frequency,omitempty"`

	// Method selects the resampling interpolation. Empty defaults to
	// cubic.
	Method interpolate.Method `json:"method,omitempty"`

	// WindowSize and OverlapRatio configure the resampling windows.
	WindowSize   int     `json:"window_size,omitempty"`
	OverlapRatio float64 `json:"overlap_ratio,omitempty"`

	// Name names the output series.
	Name string `json:"name,omitempty"`
}

// ExtractEnvelope computes the amplitude envelope of an audio signal as
// the magnitude of its analytic signal (Hilbert transform via FFT),
// optionally low-passed and resampled to a lower rate.
func ExtractEnvelope(samples []float64, frequency float64, opts EnvelopeOptions) (*Series, error) {
	if frequency <= 0 {
		return nil, common.NewInvalidParameterError("frequency", frequency, "a positive rate in Hz")
	}
	if len(samples) == 0 {
		return NewSeriesAtFrequency(KindEnvelope, nil, frequency, opts.Name)
	}

	envelope := hilbertMagnitude(samples)

	series, err := NewSeriesAtFrequency(KindEnvelope, envelope, frequency, opts.Name)
	if err != nil {
		return nil, err
	}

	if opts.FilterOver > 0 {
		series, err = series.FilterFrequencies(0, opts.FilterOver)
		if err != nil {
			return nil, err
		}
		series.Name = opts.Name
	}

	if opts.Frequency > 0 {
		method := opts.Method
		if method == "" {
			method = interpolate.Cubic
		}
		series, err = series.Resample(ResampleOptions{
			Options: resample.Options{
				Frequency:    opts.Frequency,
				Method:       method,
				WindowSize:   opts.WindowSize,
				OverlapRatio: opts.OverlapRatio,
			},
			Name: opts.Name,
		})
		if err != nil {
			return nil, err
		}
	}

	return series, nil
}

// hilbertMagnitude returns |analytic(x)|: the FFT spectrum with negative
// frequencies zeroed and positive frequencies doubled, transformed back.
func hilbertMagnitude(samples []float64) []float64 {
	n := len(samples)
	spectrum := fft.FFTReal(samples)

	half := n / 2
	for i := 1; i < half; i++ {
		spectrum[i] *= 2
	}
	for i := half + 1; i < n; i++ {
		spectrum[i] = 0
	}
	if n%2 != 0 && half >= 1 {
		spectrum[half] *= 2
	}

	analytic := fft.IFFT(spectrum)
	out := make([]float64, n)
	for i, v := range analytic {
		out[i] = cmplx.Abs(v)
	}
	return out
}

// IntensityOptions configures ComputeIntensity.
type IntensityOptions struct {
	// FrameSize and HopSize are in samples. Zero values default to a
	// 50 ms frame with a 10 ms hop at the input rate.
	FrameSize int `json:"frame_size,omitempty"`
	HopSize   int `json:"hop_size,omitempty"`

	// Name names the output series.
	Name string `json:"name,omitempty"`
}

// ComputeIntensity computes a frame-wise RMS intensity series. Frame
// timestamps sit at frame centers.
func ComputeIntensity(samples []float64, frequency float64, opts IntensityOptions) (*Series, error) {
	if frequency <= 0 {
		return nil, common.NewInvalidParameterError("frequency", frequency, "a positive rate in Hz")
	}
	frameSize := opts.FrameSize
	if frameSize <= 0 {
		frameSize = int(math.Round(frequency * 0.05))
	}
	hopSize := opts.HopSize
	if hopSize <= 0 {
		hopSize = int(math.Round(frequency * 0.01))
	}
	if frameSize < 1 || hopSize < 1 || len(samples) < frameSize {
		return nil, common.NewInvalidParameterError("frameSize", frameSize,
			"a frame shorter than the signal")
	}

	numFrames := (len(samples)-frameSize)/hopSize + 1
	values := make([]float64, numFrames)
	timestamps := make([]float64, numFrames)
	for i := 0; i < numFrames; i++ {
		start := i * hopSize
		values[i] = common.RMS(samples[start : start+frameSize])
		timestamps[i] = (float64(start) + float64(frameSize)/2) / frequency
	}

	frameRate := frequency / float64(hopSize)
	return NewSeries(KindIntensity, values, timestamps, frameRate, opts.Name)
}
