package audio

import (
	"fmt"
	"math"

	"github.com/kinelab/motionclean/algorithms/common"
)

// FormantOptions configures ComputeFormants.
type FormantOptions struct {
	// FrameSize and HopSize are in samples. Zero values default to a
	// 50 ms frame with a 10 ms hop at the input rate.
	FrameSize int `json:"frame_size,omitempty"`
	HopSize   int `json:"hop_size,omitempty"`

	// NumFormants is how many formant tracks to return, lowest first.
	// Zero defaults to 2 (F1 and F2).
	NumFormants int `json:"num_formants,omitempty"`

	// Order is the LPC order. Zero defaults to 2 + rate/1000, enough
	// poles for one resonance per kilohertz.
	Order int `json:"order,omitempty"`

	// PreEmphasis is the high-frequency boost coefficient applied before
	// analysis. Zero defaults to 0.97; pass a negative value to disable.
	PreEmphasis float64 `json:"pre_emphasis,omitempty"`

	// MinFreq and MaxFreq bound accepted formant frequencies, in Hz.
	// Zero values default to 50 and the Nyquist frequency.
	MinFreq float64 `json:"min_freq,omitempty"`
	MaxFreq float64 `json:"max_freq,omitempty"`

	// Name prefixes the output series names.
	Name string `json:"name,omitempty"`
}

// ComputeFormants extracts frame-wise formant tracks from a speech
// signal by modeling the vocal tract as an all-pole LPC filter and
// picking the peaks of its spectral envelope. It returns NumFormants
// series, lowest resonance first, each tagged with its formant number.
// Frames where a formant is not found carry 0 Hz, the sentinel
// InterpolateMissing recognizes. Frame timestamps sit at frame centers.
func ComputeFormants(samples []float64, frequency float64, opts FormantOptions) ([]*Series, error) {
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
	order := opts.Order
	if order <= 0 {
		order = 2 + int(frequency/1000)
	}
	if frameSize < order*2 || hopSize < 1 || len(samples) < frameSize {
		return nil, common.NewInvalidParameterError("frameSize", frameSize,
			fmt.Sprintf("a frame of at least %d samples, shorter than the signal", order*2))
	}
	numFormants := opts.NumFormants
	if numFormants <= 0 {
		numFormants = 2
	}
	preEmphasis := opts.PreEmphasis
	if preEmphasis == 0 {
		preEmphasis = 0.97
	}
	minFreq := opts.MinFreq
	if minFreq <= 0 {
		minFreq = 50
	}
	maxFreq := opts.MaxFreq
	if maxFreq <= 0 || maxFreq > frequency/2 {
		maxFreq = frequency / 2
	}

	window := hammingWindow(frameSize)

	numFrames := (len(samples)-frameSize)/hopSize + 1
	tracks := make([][]float64, numFormants)
	for f := range tracks {
		tracks[f] = make([]float64, numFrames)
	}
	timestamps := make([]float64, numFrames)

	frame := make([]float64, frameSize)
	for i := 0; i < numFrames; i++ {
		start := i * hopSize
		timestamps[i] = (float64(start) + float64(frameSize)/2) / frequency

		src := samples[start : start+frameSize]
		frame[0] = src[0] * window[0]
		for j := 1; j < frameSize; j++ {
			v := src[j]
			if preEmphasis > 0 {
				v -= preEmphasis * src[j-1]
			}
			frame[j] = v * window[j]
		}

		coeffs, ok := lpcCoefficients(frame, order)
		if !ok {
			continue
		}
		formants := envelopePeaks(coeffs, frequency, minFreq, maxFreq, numFormants)
		for f, freq := range formants {
			tracks[f][i] = freq
		}
	}

	frameRate := frequency / float64(hopSize)
	out := make([]*Series, numFormants)
	for f := range out {
		name := opts.Name
		if name != "" {
			name = fmt.Sprintf("%s F%d", name, f+1)
		}
		s, err := NewSeries(KindFormant, tracks[f], timestamps, frameRate, name)
		if err != nil {
			return nil, err
		}
		s.FormantNumber = f + 1
		out[f] = s
	}
	return out, nil
}

// lpcCoefficients fits an all-pole model of the given order to one
// frame via the Levinson-Durbin recursion on the frame's
// autocorrelation. A silent frame has no model and reports false.
func lpcCoefficients(frame []float64, order int) ([]float64, bool) {
	r := make([]float64, order+1)
	for lag := 0; lag <= order; lag++ {
		sum := 0.0
		for n := 0; n < len(frame)-lag; n++ {
			sum += frame[n] * frame[n+lag]
		}
		r[lag] = sum
	}
	if r[0] == 0 {
		return nil, false
	}

	a := make([]float64, order+1)
	a[0] = 1
	energy := r[0]

	for i := 1; i <= order; i++ {
		acc := r[i]
		for j := 1; j < i; j++ {
			acc -= a[j] * r[i-j]
		}
		if energy == 0 {
			return nil, false
		}
		k := acc / energy

		a[i] = k
		for j := 1; j <= i/2; j++ {
			aj, aij := a[j], a[i-j]
			a[j] = aj - k*aij
			if j != i-j {
				a[i-j] = aij - k*aj
			}
		}

		energy *= 1 - k*k
		if energy <= 0 {
			break
		}
	}
	return a, true
}

// envelopePeaks evaluates the LPC filter response 1/|A(e^jw)| on a
// uniform frequency grid and returns the first n local maxima inside
// the accepted band, refined to sub-bin accuracy. The coefficients are
// in predictor convention, so A(z) = 1 - sum a_i z^-i.
func envelopePeaks(coeffs []float64, frequency, minFreq, maxFreq float64, n int) []float64 {
	const nfft = 512
	envelope := make([]float64, nfft/2+1)
	for k := range envelope {
		omega := 2 * math.Pi * float64(k) / nfft
		re, im := 1.0, 0.0
		for i := 1; i < len(coeffs); i++ {
			angle := -float64(i) * omega
			re -= coeffs[i] * math.Cos(angle)
			im -= coeffs[i] * math.Sin(angle)
		}
		mag := math.Hypot(re, im)
		if mag > 0 {
			envelope[k] = 1 / mag
		}
	}

	binWidth := frequency / nfft
	var peaks []float64
	for k := 1; k < len(envelope)-1 && len(peaks) < n; k++ {
		if envelope[k] <= envelope[k-1] || envelope[k] <= envelope[k+1] {
			continue
		}
		freq := refinePeak(envelope, k) * binWidth
		if freq < minFreq || freq > maxFreq {
			continue
		}
		peaks = append(peaks, freq)
	}
	return peaks
}

// hammingWindow returns the n-point Hamming window.
func hammingWindow(n int) []float64 {
	out := make([]float64, n)
	if n == 1 {
		out[0] = 1
		return out
	}
	for i := range out {
		out[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return out
}
