package audio

import (
	"fmt"

	"github.com/kinelab/motionclean/algorithms/resample"
)

// ResampleOptions configures one Series.Resample call. The numeric
// fields mirror resample.Options; Name overrides the output series
// name, defaulting to the input name with a "+RS<frequency>" suffix.
type ResampleOptions struct {
	resample.Options
	Name string `json:"name,omitempty"`
}

// Resample interpolates the series onto a uniform timestamp grid at the
// requested frequency. The output keeps the series kind, so an envelope
// stays an envelope after resampling. Resampling estimates samples
// between real measurements; treat upsampled output with care.
func (s *Series) Resample(opts ResampleOptions) (*Series, error) {
	values, grid, err := resample.Resample(s.samples, s.timestamps, opts.Options)
	if err != nil {
		return nil, err
	}

	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s +RS%g", s.Name, opts.Frequency)
	}

	out := s.derive(values, grid, opts.Frequency, "")
	out.Name = name
	return out, nil
}
