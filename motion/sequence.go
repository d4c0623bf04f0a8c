package motion

import (
	"fmt"
	"math"

	"github.com/kinelab/motionclean/algorithms/common"
)

// Sequence is a chronological list of poses. Timestamps must be
// non-decreasing; a violation is fatal (the data is corrupt upstream)
// and is reported as a *common.ChronologyError, never auto-corrected.
// All poses carry the same joint label set.
type Sequence struct {
	Name  string
	poses []*Pose
}

// NewSequence creates an empty named sequence.
func NewSequence(name string) *Sequence {
	return &Sequence{Name: name}
}

// AddPose appends a pose, enforcing chronological order and a joint
// label set consistent with the poses already present.
func (s *Sequence) AddPose(p *Pose) error {
	if n := len(s.poses); n > 0 {
		last := s.poses[n-1]
		if p.Timestamp < last.Timestamp {
			return &common.ChronologyError{
				Index1:     n - 1,
				Index2:     n,
				Timestamp1: last.Timestamp,
				Timestamp2: p.Timestamp,
			}
		}
		if !sameLabels(last.labels, p.labels) {
			return fmt.Errorf("pose %d carries joint labels %v, sequence carries %v",
				n, p.labels, last.labels)
		}
	}
	s.poses = append(s.poses, p)
	return nil
}

// Len returns the number of poses.
func (s *Sequence) Len() int {
	return len(s.poses)
}

// Pose returns the pose at index i.
func (s *Sequence) Pose(i int) *Pose {
	return s.poses[i]
}

// JointLabels returns the shared joint label set in insertion order.
func (s *Sequence) JointLabels() []string {
	if len(s.poses) == 0 {
		return nil
	}
	return s.poses[0].Labels()
}

// Timestamps returns every pose timestamp in order.
func (s *Sequence) Timestamps() []float64 {
	out := make([]float64, len(s.poses))
	for i, p := range s.poses {
		out[i] = p.Timestamp
	}
	return out
}

// Duration returns the elapsed time between the first and last pose.
func (s *Sequence) Duration() float64 {
	if len(s.poses) < 2 {
		return 0
	}
	return s.poses[len(s.poses)-1].Timestamp - s.poses[0].Timestamp
}

// TimeBetween returns the elapsed time between two pose indices.
func (s *Sequence) TimeBetween(i, j int) float64 {
	return s.poses[j].Timestamp - s.poses[i].Timestamp
}

// Copy returns a deep copy of the sequence.
func (s *Sequence) Copy() *Sequence {
	out := NewSequence(s.Name)
	out.poses = make([]*Pose, len(s.poses))
	for i, p := range s.poses {
		out.poses[i] = p.Copy()
	}
	return out
}

// SamplingRates returns the instantaneous rate between each pair of
// consecutive poses, in Hz. Pairs sharing a timestamp are reported as
// +Inf by the division and excluded from the summary statistics.
func (s *Sequence) SamplingRates() []float64 {
	if len(s.poses) < 2 {
		return nil
	}
	out := make([]float64, len(s.poses)-1)
	for i := 1; i < len(s.poses); i++ {
		out[i-1] = 1 / (s.poses[i].Timestamp - s.poses[i-1].Timestamp)
	}
	return out
}

// AverageFrequency returns the mean instantaneous sampling rate.
func (s *Sequence) AverageFrequency() float64 {
	return common.Mean(finiteRates(s.SamplingRates()))
}

// MinFrequency returns the lowest instantaneous sampling rate.
func (s *Sequence) MinFrequency() float64 {
	return common.Min(finiteRates(s.SamplingRates()))
}

// MaxFrequency returns the highest instantaneous sampling rate.
func (s *Sequence) MaxFrequency() float64 {
	return common.Max(finiteRates(s.SamplingRates()))
}

// validateChronology re-checks the timestamp ordering invariant before a
// transform runs, in case the sequence was assembled without AddPose.
func (s *Sequence) validateChronology() error {
	return common.CheckChronology(s.Timestamps())
}

// emptyWithTimestamps builds the skeleton of a transform output: same
// pose count and timestamps, no joints yet.
func (s *Sequence) emptyWithTimestamps(name string) *Sequence {
	out := NewSequence(name)
	out.poses = make([]*Pose, len(s.poses))
	for i, p := range s.poses {
		out.poses[i] = p.copyWithoutJoints()
	}
	return out
}

// channel extracts one coordinate axis of one joint across all poses.
func (s *Sequence) channel(label string, axis int) []float64 {
	out := make([]float64, len(s.poses))
	for i, p := range s.poses {
		j := p.joints[label]
		switch axis {
		case 0:
			out[i] = j.X
		case 1:
			out[i] = j.Y
		default:
			out[i] = j.Z
		}
	}
	return out
}

func finiteRates(rates []float64) []float64 {
	out := rates[:0:0]
	for _, r := range rates {
		if r > 0 && !math.IsInf(r, 1) {
			out = append(out, r)
		}
	}
	return out
}

func sameLabels(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	set := make(map[string]struct{}, len(a))
	for _, l := range a {
		set[l] = struct{}{}
	}
	for _, l := range b {
		if _, ok := set[l]; !ok {
			return false
		}
	}
	return true
}
