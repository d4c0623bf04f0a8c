// Package audio holds scalar audio-derivative streams (envelope, pitch,
// intensity, formants) and the temporal transforms they share with the
// motion package: windowed resampling and missing-data interpolation.
// Like the motion transforms, everything here is batch and
// non-destructive.
package audio

import (
	"fmt"
	"math"

	"github.com/kinelab/motionclean/algorithms/common"
	"github.com/kinelab/motionclean/algorithms/interpolate"
	"github.com/kinelab/motionclean/logging"
)

// Kind identifies which derivative a series holds. The kind is captured
// at construction and carried through every transform, so no transform
// has to inspect the series to know what to rebuild.
type Kind string

const (
	KindSample    Kind = "sample"
	KindEnvelope  Kind = "envelope"
	KindPitch     Kind = "pitch"
	KindIntensity Kind = "intensity"
	KindFormant   Kind = "formant"
)

// Series is a timestamped scalar channel with a nominal sampling
// frequency. Timestamps must be non-decreasing.
type Series struct {
	Name string
	Kind Kind

	// FormantNumber distinguishes F1, F2... for KindFormant series.
	FormantNumber int

	samples    []float64
	timestamps []float64
	frequency  float64
}

// NewSeries creates a series from parallel sample and timestamp arrays.
func NewSeries(kind Kind, samples, timestamps []float64, frequency float64, name string) (*Series, error) {
	if len(samples) != len(timestamps) {
		return nil, fmt.Errorf("series has %d samples for %d timestamps", len(samples), len(timestamps))
	}
	if err := common.CheckChronology(timestamps); err != nil {
		return nil, err
	}
	s := &Series{
		Name:       name,
		Kind:       kind,
		samples:    append([]float64(nil), samples...),
		timestamps: append([]float64(nil), timestamps...),
		frequency:  frequency,
	}
	return s, nil
}

// NewSeriesAtFrequency creates a series whose timestamps are generated
// from the nominal frequency, starting at zero.
func NewSeriesAtFrequency(kind Kind, samples []float64, frequency float64, name string) (*Series, error) {
	if frequency <= 0 {
		return nil, common.NewInvalidParameterError("frequency", frequency, "a positive rate in Hz")
	}
	timestamps := make([]float64, len(samples))
	for i := range timestamps {
		timestamps[i] = float64(i) / frequency
	}
	return NewSeries(kind, samples, timestamps, frequency, name)
}

// Samples returns a copy of the sample values.
func (s *Series) Samples() []float64 {
	return append([]float64(nil), s.samples...)
}

// Timestamps returns a copy of the timestamps.
func (s *Series) Timestamps() []float64 {
	return append([]float64(nil), s.timestamps...)
}

// Frequency returns the nominal sampling rate in Hz.
func (s *Series) Frequency() float64 {
	return s.frequency
}

// Len returns the number of samples.
func (s *Series) Len() int {
	return len(s.samples)
}

// Duration returns the elapsed time between the first and last sample.
func (s *Series) Duration() float64 {
	if len(s.timestamps) < 2 {
		return 0
	}
	return s.timestamps[len(s.timestamps)-1] - s.timestamps[0]
}

// derive builds a transform output preserving the series identity.
func (s *Series) derive(samples, timestamps []float64, frequency float64, suffix string) *Series {
	return &Series{
		Name:          s.Name + suffix,
		Kind:          s.Kind,
		FormantNumber: s.FormantNumber,
		samples:       samples,
		timestamps:    timestamps,
		frequency:     frequency,
	}
}

// Which selects the sentinel values InterpolateMissing treats as
// missing in a scalar channel.
type Which string

const (
	// WhichZero treats exact 0.0 samples as missing, the sentinel pitch
	// trackers emit for unvoiced frames.
	WhichZero Which = "zero"
	// WhichUnset treats NaN samples as missing.
	WhichUnset Which = "unset"
	// WhichBoth treats both sentinels as missing.
	WhichBoth Which = "both"
)

// MissingDataOptions configures one InterpolateMissing call.
type MissingDataOptions struct {
	// Method selects the interpolation for interior runs. Empty
	// defaults to cubic.
	Method interpolate.Method `json:"method,omitempty"`

	// Which selects the missing-value sentinels. Empty defaults to
	// WhichBoth.
	Which Which `json:"which,omitempty"`

	// MinDurationWarning is the gap duration, in seconds, above which a
	// missing run is reported. Zero or negative defaults to 0.1 s.
	MinDurationWarning float64 `json:"min_duration_warning,omitempty"`

	// Name overrides the output series name. Empty derives it from the
	// input name with a "+IM" suffix.
	Name string `json:"name,omitempty"`
}

// FillStats reports what one InterpolateMissing call did.
type FillStats struct {
	PointsFilled int     `json:"points_filled"`
	TotalPoints  int     `json:"total_points"`
	LongestGap   float64 `json:"longest_gap"`
	// Empty reports that the channel had no valid sample at all and was
	// filled from a placeholder anchor.
	Empty bool `json:"empty,omitempty"`
}

// InterpolateMissing fills sentinel samples from the neighbouring
// temporal points: leading and trailing runs extend the nearest valid
// sample as a constant, interior runs are interpolated with the chosen
// method between their bounding anchors. Valid samples carry over
// unchanged.
func (s *Series) InterpolateMissing(opts MissingDataOptions) (*Series, FillStats, error) {
	stats := FillStats{TotalPoints: len(s.samples)}

	if opts.Method == "" {
		opts.Method = interpolate.Cubic
	}
	if !opts.Method.Valid() {
		return nil, stats, common.NewInvalidParameterError("method", opts.Method, interpolate.Methods()...)
	}
	if opts.Which == "" {
		opts.Which = WhichBoth
	}
	switch opts.Which {
	case WhichZero, WhichUnset, WhichBoth:
	default:
		return nil, stats, common.NewInvalidParameterError("which", opts.Which,
			string(WhichZero), string(WhichUnset), string(WhichBoth))
	}
	if opts.MinDurationWarning <= 0 {
		opts.MinDurationWarning = 0.1
	}

	mask := make([]bool, len(s.samples))
	for i, v := range s.samples {
		switch opts.Which {
		case WhichZero:
			mask[i] = v == 0
		case WhichUnset:
			mask[i] = math.IsNaN(v)
		default:
			mask[i] = v == 0 || math.IsNaN(v)
		}
		if mask[i] {
			stats.PointsFilled++
		}
	}

	name := opts.Name
	if name == "" {
		name = s.Name + " +IM"
	}

	if stats.PointsFilled == 0 {
		out := s.derive(s.Samples(), s.Timestamps(), s.frequency, "")
		out.Name = name
		return out, stats, nil
	}

	for _, gap := range interpolate.FindGaps(mask, s.timestamps) {
		if gap.Duration > stats.LongestGap {
			stats.LongestGap = gap.Duration
		}
		if gap.Duration >= opts.MinDurationWarning {
			logging.Warn("long run of missing samples", logging.Fields{
				"series":   s.Name,
				"duration": gap.Duration,
				"from":     s.timestamps[gap.Start],
			})
		}
	}

	filled, empty, err := interpolate.FillChannel(s.samples, s.timestamps, mask, opts.Method)
	if err != nil {
		return nil, stats, err
	}
	if empty {
		stats.Empty = true
		logging.Warn("series has no valid sample, filling from placeholder", logging.Fields{
			"series": s.Name,
		})
	}

	out := s.derive(filled, s.Timestamps(), s.frequency, "")
	out.Name = name
	return out, stats, nil
}
