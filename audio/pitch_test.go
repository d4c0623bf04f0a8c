package audio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinelab/motionclean/algorithms/common"
)

func TestComputePitch_PureTone(t *testing.T) {
	t.Parallel()

	fs := 8000.0
	samples := make([]float64, 8000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 220 * float64(i) / fs)
	}

	out, err := ComputePitch(samples, fs, PitchOptions{Name: "pitch"})
	require.NoError(t, err)

	assert.Equal(t, KindPitch, out.Kind)
	assert.Equal(t, 100.0, out.Frequency())
	require.Positive(t, out.Len())

	for i, v := range out.Samples() {
		assert.InDelta(t, 220, v, 5, "frame %d", i)
	}
}

func TestComputePitch_SilenceIsUnvoiced(t *testing.T) {
	t.Parallel()

	out, err := ComputePitch(make([]float64, 4000), 8000, PitchOptions{})
	require.NoError(t, err)

	for _, v := range out.Samples() {
		assert.Zero(t, v)
	}
}

func TestComputePitch_VoicedUnvoicedSegments(t *testing.T) {
	t.Parallel()

	// One second of silence followed by one second of a 150 Hz tone.
	fs := 8000.0
	samples := make([]float64, 16000)
	for i := 8000; i < 16000; i++ {
		samples[i] = math.Sin(2 * math.Pi * 150 * float64(i) / fs)
	}

	out, err := ComputePitch(samples, fs, PitchOptions{})
	require.NoError(t, err)

	values := out.Samples()
	ts := out.Timestamps()
	for i := range values {
		switch {
		case ts[i] < 0.95:
			assert.Zero(t, values[i], "frame %d at %g s", i, ts[i])
		case ts[i] > 1.05:
			assert.InDelta(t, 150, values[i], 5, "frame %d at %g s", i, ts[i])
		}
	}
}

func TestComputePitch_Validation(t *testing.T) {
	t.Parallel()

	var perr *common.InvalidParameterError

	_, err := ComputePitch(make([]float64, 100), 0, PitchOptions{})
	require.ErrorAs(t, err, &perr)

	_, err = ComputePitch(make([]float64, 10), 8000, PitchOptions{})
	require.ErrorAs(t, err, &perr)

	_, err = ComputePitch(make([]float64, 4000), 8000, PitchOptions{MinFreq: 500, MaxFreq: 100})
	require.ErrorAs(t, err, &perr)
}

func TestComputeFormants_TwoResonances(t *testing.T) {
	t.Parallel()

	// Two steady sinusoids stand in for vocal tract resonances; the LPC
	// envelope must peak at their frequencies.
	fs := 8000.0
	samples := make([]float64, 8000)
	for i := range samples {
		tt := float64(i) / fs
		samples[i] = math.Sin(2*math.Pi*500*tt) + 0.8*math.Sin(2*math.Pi*1500*tt)
	}

	out, err := ComputeFormants(samples, fs, FormantOptions{
		Name:        "speech",
		Order:       4,
		PreEmphasis: -1,
	})
	require.NoError(t, err)
	require.Len(t, out, 2)

	f1, f2 := out[0], out[1]
	assert.Equal(t, KindFormant, f1.Kind)
	assert.Equal(t, 1, f1.FormantNumber)
	assert.Equal(t, 2, f2.FormantNumber)
	assert.Equal(t, "speech F1", f1.Name)
	assert.Equal(t, "speech F2", f2.Name)
	require.Equal(t, f1.Len(), f2.Len())

	for i := 0; i < f1.Len(); i++ {
		assert.InDelta(t, 500, f1.Samples()[i], 60, "frame %d", i)
		assert.InDelta(t, 1500, f2.Samples()[i], 60, "frame %d", i)
	}
}

func TestComputeFormants_SingleResonanceRoundTrip(t *testing.T) {
	t.Parallel()

	// One pole pair fitted to one steady sinusoid: the envelope peak
	// must come back at the sinusoid's frequency, never at a notch.
	fs := 8000.0
	samples := make([]float64, 8000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 800 * float64(i) / fs)
	}

	out, err := ComputeFormants(samples, fs, FormantOptions{
		NumFormants: 1,
		Order:       2,
		PreEmphasis: -1,
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	for i, v := range out[0].Samples() {
		assert.InDelta(t, 800, v, 40, "frame %d", i)
	}
}

func TestComputeFormants_SilentFramesCarryZero(t *testing.T) {
	t.Parallel()

	out, err := ComputeFormants(make([]float64, 4000), 8000, FormantOptions{})
	require.NoError(t, err)
	for _, track := range out {
		for _, v := range track.Samples() {
			assert.Zero(t, v)
		}
	}
}

func TestComputeFormants_Validation(t *testing.T) {
	t.Parallel()

	var perr *common.InvalidParameterError

	_, err := ComputeFormants(make([]float64, 100), 0, FormantOptions{})
	require.ErrorAs(t, err, &perr)

	_, err = ComputeFormants(make([]float64, 10), 8000, FormantOptions{})
	require.ErrorAs(t, err, &perr)
}
