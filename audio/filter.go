package audio

import (
	"math"

	"github.com/mjibson/go-dsp/fft"

	"github.com/kinelab/motionclean/algorithms/common"
)

// FilterFrequencies returns a copy of the series with frequency content
// below `below` Hz and above `over` Hz removed in the spectral domain.
// Pass zero to leave either bound open. The series must be uniformly
// sampled at its nominal frequency; resample first if it is not.
func (s *Series) FilterFrequencies(below, over float64) (*Series, error) {
	if below < 0 || over < 0 {
		return nil, common.NewInvalidParameterError("below/over", below, "non-negative frequencies in Hz")
	}
	if below > 0 && over > 0 && below >= over {
		return nil, common.NewInvalidParameterError("below", below, "a frequency lower than over")
	}
	if s.frequency <= 0 {
		return nil, common.NewInvalidParameterError("frequency", s.frequency, "a positive nominal rate in Hz")
	}
	if len(s.samples) == 0 {
		return s.derive(nil, nil, s.frequency, " +FF"), nil
	}

	n := len(s.samples)
	spectrum := fft.FFTReal(s.samples)
	binWidth := s.frequency / float64(n)

	for i := range spectrum {
		// Bin i and bin n-i carry the same frequency magnitude; zero
		// them together to keep the inverse transform real.
		freq := float64(i) * binWidth
		if i > n/2 {
			freq = float64(n-i) * binWidth
		}
		if (below > 0 && freq < below) || (over > 0 && freq > over) {
			spectrum[i] = 0
		}
	}

	filtered := fft.IFFT(spectrum)
	out := make([]float64, n)
	for i, v := range filtered {
		out[i] = real(v)
	}

	return s.derive(out, s.Timestamps(), s.frequency, " +FF"), nil
}

// Pad extends the series to a target duration by repeating the last
// sample, which aligns a derivative with a longer motion sequence before
// joint analysis. A target shorter than the series is a no-op.
func (s *Series) Pad(duration float64) *Series {
	if len(s.samples) == 0 || s.frequency <= 0 {
		return s.derive(s.Samples(), s.Timestamps(), s.frequency, " +PD")
	}

	step := 1 / s.frequency
	samples := s.Samples()
	timestamps := s.Timestamps()
	last := timestamps[len(timestamps)-1]
	extra := int(math.Floor((duration - last) * s.frequency))
	for i := 1; i <= extra; i++ {
		samples = append(samples, samples[len(s.samples)-1])
		timestamps = append(timestamps, last+float64(i)*step)
	}

	return s.derive(samples, timestamps, s.frequency, " +PD")
}
