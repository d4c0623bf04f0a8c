package motion

import (
	"math"

	"github.com/kinelab/motionclean/algorithms/common"
	"github.com/kinelab/motionclean/algorithms/interpolate"
	"github.com/kinelab/motionclean/logging"
)

// WindowUnit selects how JitterOptions.Window is interpreted.
type WindowUnit string

const (
	// UnitPoses interprets the window as a pose count. Recommended for
	// recordings with a variable framerate.
	UnitPoses WindowUnit = "poses"
	// UnitSeconds interprets the window as a duration in seconds.
	UnitSeconds WindowUnit = "s"
	// UnitMilliseconds interprets the window as a duration in
	// milliseconds.
	UnitMilliseconds WindowUnit = "ms"
)

// JitterOptions configures one CorrectJitter call.
type JitterOptions struct {
	// VelocityThreshold is the speed, in meters per second, above which
	// a joint displacement is considered aberrant. Values between 0.1
	// and 1 m/s correct tracking errors without touching biological
	// movement.
	VelocityThreshold float64 `json:"velocity_threshold"`

	// Window bounds the duration of a correctable anomaly, expressed in
	// WindowUnit. For pose counts, 3 to 5 poses works well on 10-15 Hz
	// recordings.
	Window float64 `json:"window"`

	// WindowUnit defaults to UnitPoses when empty.
	WindowUnit WindowUnit `json:"window_unit,omitempty"`

	// Method, when set, replaces the built-in linear correction:
	// over-threshold runs are marked unset and filled afterwards by
	// InterpolateMissingData with this method. Empty selects the
	// built-in linear correction.
	Method interpolate.Method `json:"method,omitempty"`

	// CorrectTwitches enables correction of anomalies that recover
	// below threshold within the window.
	CorrectTwitches bool `json:"correct_twitches"`

	// CorrectJumps enables correction of anomalies that never recover
	// within the window.
	CorrectJumps bool `json:"correct_jumps"`

	// Name overrides the output sequence name. Empty derives it from
	// the input name with a "+CJ" suffix.
	Name string `json:"name,omitempty"`

	// Progress, when non-nil, receives per-pose completion reports.
	Progress logging.ProgressFunc `json:"-"`
}

// DefaultJitterOptions returns options correcting both twitches and
// jumps with the built-in linear method and a window counted in poses.
func DefaultJitterOptions(velocityThreshold, window float64) JitterOptions {
	return JitterOptions{
		VelocityThreshold: velocityThreshold,
		Window:            window,
		WindowUnit:        UnitPoses,
		CorrectTwitches:   true,
		CorrectJumps:      true,
	}
}

func (o *JitterOptions) validate() error {
	if o.VelocityThreshold <= 0 {
		return common.NewInvalidParameterError("velocityThreshold", o.VelocityThreshold,
			"a positive speed in m/s")
	}
	if o.Window <= 0 {
		return common.NewInvalidParameterError("window", o.Window,
			"a positive pose count or duration")
	}
	if o.WindowUnit == "" {
		o.WindowUnit = UnitPoses
	}
	switch o.WindowUnit {
	case UnitPoses, UnitSeconds, UnitMilliseconds:
	default:
		return common.NewInvalidParameterError("windowUnit", o.WindowUnit,
			string(UnitPoses), string(UnitSeconds), string(UnitMilliseconds))
	}
	if o.Method != "" && !o.Method.Valid() {
		return common.NewInvalidParameterError("method", o.Method, interpolate.Methods()...)
	}
	return nil
}

// JitterStats reports what one CorrectJitter call did, so the caller can
// judge the quality of the recording.
type JitterStats struct {
	// CorrectedPoints counts individual joint positions rewritten.
	CorrectedPoints int `json:"corrected_points"`
	// Twitches counts anomalies that recovered within the window.
	Twitches int `json:"twitches"`
	// Jumps counts anomalies bounded by the window end.
	Jumps int `json:"jumps"`
	// MissingFilled counts points filled by the delegated interpolation
	// pass when a non-default method is selected.
	MissingFilled int `json:"missing_filled,omitempty"`
}

// CorrectJitter detects and corrects rapid twitches and jumps in the
// sequence. These short, implausibly fast displacements typically come
// from poor automatic detection of a joint in space. Iterating poses
// chronologically, each joint's instantaneous velocity is measured
// against its last accepted position; an over-threshold displacement is
// classified by scanning up to Window subsequent poses for a recovery
// below threshold (twitch) or none (jump), and the intermediate points
// are corrected between the two anchors.
//
// The input is left untouched. The returned sequence has the same pose
// count and timestamps, and the returned stats count corrections.
func (s *Sequence) CorrectJitter(opts JitterOptions) (*Sequence, JitterStats, error) {
	var stats JitterStats

	if err := opts.validate(); err != nil {
		return nil, stats, err
	}
	if err := s.validateChronology(); err != nil {
		return nil, stats, err
	}
	if len(s.poses) == 0 {
		return NewSequence(opts.Name), stats, nil
	}

	name := opts.Name
	if name == "" {
		name = s.Name + " +CJ"
	}

	window := opts.Window
	unit := opts.WindowUnit
	if unit == UnitMilliseconds {
		window /= 1000
		unit = UnitSeconds
	}

	labels := s.JointLabels()
	out := s.emptyWithTimestamps(name)
	progress := logging.NewProgressReporter(opts.Progress, "correct-jitter", len(s.poses))

	// Joints corrected by run, kept for the delegated interpolation pass
	// when a non-default method is selected.
	var delegated map[string][]int
	if opts.Method != "" {
		delegated = make(map[string][]int, len(labels))
	}

	for _, label := range labels {
		out.poses[0].SetJoint(label, rawCopy(s.poses[0].joints[label]))
	}

	n := len(s.poses)
	for p := 1; p < n; p++ {
		progress.Step(p)

		effWindow := s.effectiveWindow(p, window, unit)

		for _, label := range labels {
			if _, already := out.poses[p].Joint(label); already {
				// Corrected by an earlier run in this pass; touching it
				// again would cascade corrections.
				continue
			}

			raw := s.poses[p].joints[label]
			accepted := out.poses[p-1].joints[label]
			velocity := velocityBetween(accepted, raw, s.TimeBetween(p-1, p))

			if velocity <= opts.VelocityThreshold || p == n-1 {
				out.poses[p].SetJoint(label, rawCopy(raw))
				continue
			}

			if effWindow < 2 {
				// Too small to bound an anomaly; keep the raw point.
				out.poses[p].SetJoint(label, rawCopy(raw))
				flagOverThreshold(out.poses[p], label)
				continue
			}

			corrected := false
			delay := s.TimeBetween(p-1, p)
			for k := p + 1; k < min(p+effWindow, n); k++ {
				velocityAt := velocityBetween(accepted, s.poses[k].joints[label], delay)

				if velocityAt < opts.VelocityThreshold && opts.CorrectTwitches {
					stats.CorrectedPoints += s.correctRun(out, p-1, k, label)
					stats.Twitches++
					if delegated != nil {
						delegated[label] = append(delegated[label], runIndices(p, k)...)
					}
					corrected = true
					break
				}

				if k == p+effWindow-1 || k == n-1 {
					if opts.CorrectJumps {
						stats.CorrectedPoints += s.correctRun(out, p-1, k, label)
						stats.Jumps++
						if delegated != nil {
							delegated[label] = append(delegated[label], runIndices(p, k)...)
						}
						corrected = true
					}
					break
				}
			}

			if corrected {
				flagOverThreshold(out.poses[p], label)
			} else {
				out.poses[p].SetJoint(label, rawCopy(raw))
				flagOverThreshold(out.poses[p], label)
			}
		}
	}
	progress.Done()

	if opts.Method != "" {
		for label, indices := range delegated {
			for _, i := range indices {
				j := out.poses[i].joints[label]
				j.Unset = true
				out.poses[i].SetJoint(label, j)
			}
		}

		filled, fillStats, err := out.InterpolateMissingData(MissingDataOptions{
			Method:   opts.Method,
			Which:    WhichUnset,
			Name:     name,
			Progress: opts.Progress,
		})
		if err != nil {
			return nil, stats, err
		}
		out = filled
		stats.MissingFilled = fillStats.PointsFilled
	}

	logging.Debug("jitter correction done", logging.Fields{
		"sequence":  s.Name,
		"corrected": stats.CorrectedPoints,
		"twitches":  stats.Twitches,
		"jumps":     stats.Jumps,
	})

	return out, stats, nil
}

// correctRun rewrites the joint positions strictly between the start and
// end anchors, interpolating linearly in time between the accepted
// position at start and the raw position at end. Runs shorter than two
// intervals carry the raw point over instead: there is nothing between
// the anchors to correct, or the anomaly sits at the end of the
// sequence with no forward anchor.
func (s *Sequence) correctRun(out *Sequence, start, end int, label string) int {
	if end-start < 2 {
		if _, already := out.poses[start+1].Joint(label); !already {
			out.poses[start+1].SetJoint(label, rawCopy(s.poses[start+1].joints[label]))
		}
		return 0
	}

	before := out.poses[start].joints[label]
	after := s.poses[end].joints[label]
	t0 := s.poses[start].Timestamp
	t1 := s.poses[end].Timestamp

	corrected := 0
	for q := start + 1; q < end; q++ {
		if _, already := out.poses[q].Joint(label); already {
			continue
		}

		elapsed := (s.poses[q].Timestamp - t0) / (t1 - t0)
		x := before.X - elapsed*(before.X-after.X)
		y := before.Y - elapsed*(before.Y-after.Y)
		z := before.Z - elapsed*(before.Z-after.Z)

		j := s.poses[q].joints[label].WithPosition(x, y, z)
		j.Provenance = Provenance{CorrectedJitter: true}
		out.poses[q].SetJoint(label, j)
		corrected++
	}
	return corrected
}

// effectiveWindow converts a duration window to a pose count by walking
// forward from pose p until the cumulative elapsed time reaches the
// requested duration, then keeping whichever count lands closest to the
// target. A duration exactly between two counts resolves to the larger
// count. Pose-unit windows pass through unchanged.
func (s *Sequence) effectiveWindow(p int, window float64, unit WindowUnit) int {
	if unit == UnitPoses {
		return int(window)
	}

	n := len(s.poses)
	effWindow := 0
	timeDiff, prevDiff := 0.0, 0.0
	for i := p; i < n; i++ {
		effWindow = i - p
		timeDiff = s.TimeBetween(p, i)
		if timeDiff >= window {
			break
		}
		prevDiff = timeDiff
	}

	if p+effWindow != n-1 && math.Abs(window-prevDiff) < math.Abs(window-timeDiff) {
		effWindow--
	}
	return effWindow
}

// velocityBetween returns the speed of the displacement between two
// joint positions over dt seconds. Displacement over a zero interval is
// treated as infinitely fast.
func velocityBetween(from, to Joint, dt float64) float64 {
	dist := from.DistanceTo(to)
	if dt <= 0 {
		if dist == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return dist / dt
}

func rawCopy(j Joint) Joint {
	j.Provenance = Provenance{}
	return j
}

func flagOverThreshold(p *Pose, label string) {
	if j, ok := p.Joint(label); ok {
		j.Provenance.VelocityOverThreshold = true
		p.SetJoint(label, j)
	}
}

func runIndices(from, to int) []int {
	out := make([]int, 0, to-from)
	for i := from; i < to; i++ {
		out = append(out, i)
	}
	return out
}
