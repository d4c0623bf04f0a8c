package motion

import (
	"fmt"

	"github.com/kinelab/motionclean/algorithms/resample"
	"github.com/kinelab/motionclean/logging"
)

// ResampleOptions configures one Sequence.Resample call. The numeric
// fields mirror resample.Options; Name overrides the output sequence
// name, defaulting to the input name with a "+RS<frequency>" suffix.
type ResampleOptions struct {
	resample.Options
	Name string `json:"name,omitempty"`
}

// Resample interpolates every joint channel onto a uniform timestamp
// grid at the requested frequency, both to stabilize variable-framerate
// recordings and to up- or downsample. Each coordinate axis of each
// joint is resampled against the same grid, so all channels remain
// time-aligned. Unset joints cannot be resampled: interpolate missing
// data first.
//
// Resampling estimates positions between real measurements; treat
// upsampled output with care.
func (s *Sequence) Resample(opts ResampleOptions) (*Sequence, error) {
	if err := s.validateChronology(); err != nil {
		return nil, err
	}
	for i, p := range s.poses {
		for _, label := range p.labels {
			if p.joints[label].Unset {
				return nil, fmt.Errorf("joint %s is unset at pose %d: interpolate missing data before resampling", label, i)
			}
		}
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s +RS%g", s.Name, opts.Frequency)
	}

	logging.Debug("resampling sequence", logging.Fields{
		"sequence":  s.Name,
		"frequency": opts.Frequency,
		"method":    opts.Method,
		"rate_avg":  s.AverageFrequency(),
		"rate_min":  s.MinFrequency(),
		"rate_max":  s.MaxFrequency(),
	})

	labels := s.JointLabels()
	ts := s.Timestamps()

	var grid []float64
	channels := make(map[string][3][]float64, len(labels))
	for _, label := range labels {
		var resampled [3][]float64
		for axis := 0; axis < 3; axis++ {
			values, g, err := resample.Resample(s.channel(label, axis), ts, opts.Options)
			if err != nil {
				return nil, fmt.Errorf("joint %s: %w", label, err)
			}
			resampled[axis] = values
			grid = g
		}
		channels[label] = resampled
	}

	out := NewSequence(name)
	out.poses = make([]*Pose, len(grid))
	for i, t := range grid {
		pose := NewPose(t)
		for _, label := range labels {
			c := channels[label]
			pose.SetJoint(label, NewJoint(c[0][i], c[1][i], c[2][i]))
		}
		out.poses[i] = pose
	}

	return out, nil
}
