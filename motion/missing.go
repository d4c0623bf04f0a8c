package motion

import (
	"github.com/kinelab/motionclean/algorithms/common"
	"github.com/kinelab/motionclean/algorithms/interpolate"
	"github.com/kinelab/motionclean/logging"
)

// Which selects the sentinel values InterpolateMissingData treats as
// missing.
type Which string

const (
	// WhichZero treats an all-axes (0, 0, 0) position as missing, the
	// sentinel some trackers emit for an untracked joint.
	WhichZero Which = "zero"
	// WhichUnset treats explicitly unset positions as missing.
	WhichUnset Which = "unset"
	// WhichBoth treats both sentinels as missing.
	WhichBoth Which = "both"
)

// MissingDataOptions configures one InterpolateMissingData call.
type MissingDataOptions struct {
	// Method selects the interpolation used for interior runs. Empty
	// defaults to cubic.
	Method interpolate.Method `json:"method,omitempty"`

	// Which selects the missing-value sentinels. Empty defaults to
	// WhichBoth.
	Which Which `json:"which,omitempty"`

	// MinDurationWarning is the gap duration, in seconds, above which a
	// run of missing data is reported: long gaps make the interpolation
	// estimate unreliable. Zero or negative defaults to 0.1 s.
	MinDurationWarning float64 `json:"min_duration_warning,omitempty"`

	// Name overrides the output sequence name. Empty derives it from
	// the input name with a "+IM" suffix.
	Name string `json:"name,omitempty"`

	// Progress, when non-nil, receives per-joint completion reports.
	Progress logging.ProgressFunc `json:"-"`
}

func (o *MissingDataOptions) validate() error {
	if o.Method == "" {
		o.Method = interpolate.Cubic
	}
	if !o.Method.Valid() {
		return common.NewInvalidParameterError("method", o.Method, interpolate.Methods()...)
	}
	if o.Which == "" {
		o.Which = WhichBoth
	}
	switch o.Which {
	case WhichZero, WhichUnset, WhichBoth:
	default:
		return common.NewInvalidParameterError("which", o.Which,
			string(WhichZero), string(WhichUnset), string(WhichBoth))
	}
	if o.MinDurationWarning <= 0 {
		o.MinDurationWarning = 0.1
	}
	return nil
}

// FillStats reports what one InterpolateMissingData call did.
type FillStats struct {
	// PointsFilled counts joint positions replaced by interpolation.
	PointsFilled int `json:"points_filled"`
	// TotalPoints counts all joint positions inspected.
	TotalPoints int `json:"total_points"`
	// LongestGap is the duration of the longest missing run, in
	// seconds.
	LongestGap float64 `json:"longest_gap"`
	// EmptyChannels lists joints that had no valid position at all and
	// were filled from a placeholder anchor.
	EmptyChannels []string `json:"empty_channels,omitempty"`
}

// InterpolateMissingData detects joints matching the selected missing
// sentinels and fills them from the neighbouring temporal points: runs
// before the first valid value or after the last one extend the nearest
// valid position as a constant, interior runs are interpolated with the
// chosen method between their bounding anchors. Runs longer than the
// warning threshold are reported but still filled. A joint with no valid
// position anywhere is reported distinctly and filled from a placeholder
// anchor at the first timestamp.
//
// The input is left untouched. Valid positions carry over unchanged.
func (s *Sequence) InterpolateMissingData(opts MissingDataOptions) (*Sequence, FillStats, error) {
	var stats FillStats

	if err := opts.validate(); err != nil {
		return nil, stats, err
	}
	if err := s.validateChronology(); err != nil {
		return nil, stats, err
	}

	name := opts.Name
	if name == "" {
		name = s.Name + " +IM"
	}
	if len(s.poses) == 0 {
		return NewSequence(name), stats, nil
	}

	labels := s.JointLabels()
	ts := s.Timestamps()
	out := s.emptyWithTimestamps(name)
	progress := logging.NewProgressReporter(opts.Progress, "interpolate-missing", len(labels))
	stats.TotalPoints = len(s.poses) * len(labels)

	for li, label := range labels {
		progress.Step(li + 1)

		mask := make([]bool, len(s.poses))
		count := 0
		for i, p := range s.poses {
			if isMissing(p.joints[label], opts.Which) {
				mask[i] = true
				count++
			}
		}

		if count == 0 {
			for i, p := range s.poses {
				out.poses[i].SetJoint(label, p.joints[label])
			}
			continue
		}

		for _, gap := range interpolate.FindGaps(mask, ts) {
			if gap.Duration > stats.LongestGap {
				stats.LongestGap = gap.Duration
			}
			if gap.Duration >= opts.MinDurationWarning {
				logging.Warn("long run of missing coordinates", logging.Fields{
					"sequence": s.Name,
					"joint":    label,
					"duration": gap.Duration,
					"from":     ts[gap.Start],
				})
			}
		}

		var filled [3][]float64
		empty := false
		for axis := 0; axis < 3; axis++ {
			values := s.channel(label, axis)
			var err error
			filled[axis], empty, err = interpolate.FillChannel(values, ts, mask, opts.Method)
			if err != nil {
				return nil, stats, err
			}
		}
		if empty {
			stats.EmptyChannels = append(stats.EmptyChannels, label)
			logging.Warn("joint has no valid position, filling from placeholder", logging.Fields{
				"sequence": s.Name,
				"joint":    label,
			})
		}

		for i, p := range s.poses {
			j := p.joints[label]
			if mask[i] {
				j = j.WithPosition(filled[0][i], filled[1][i], filled[2][i])
				j.Provenance.Interpolated = true
				stats.PointsFilled++
			}
			out.poses[i].SetJoint(label, j)
		}
	}
	progress.Done()

	logging.Debug("missing data interpolation done", logging.Fields{
		"sequence":    s.Name,
		"filled":      stats.PointsFilled,
		"total":       stats.TotalPoints,
		"longest_gap": stats.LongestGap,
	})

	return out, stats, nil
}

func isMissing(j Joint, which Which) bool {
	switch which {
	case WhichZero:
		return j.IsZero()
	case WhichUnset:
		return j.Unset
	default:
		return j.Unset || j.IsZero()
	}
}
