package motion

import (
	"github.com/kinelab/motionclean/algorithms/common"
	"github.com/kinelab/motionclean/logging"
)

// AutoReference asks ReReference to detect the reference joint itself:
// SpineMid (Kinect labeling) or Chest (Qualisys labeling).
const AutoReference = "auto"

// ReReferenceOptions configures one ReReference call.
type ReReferenceOptions struct {
	// ReferenceJoint is the label of the joint whose movement is
	// removed from every other joint. AutoReference (or empty) detects
	// SpineMid or Chest.
	ReferenceJoint string `json:"reference_joint,omitempty"`

	// PlaceAtZero pins the reference joint at the origin; otherwise it
	// stays at its first-pose position.
	PlaceAtZero bool `json:"place_at_zero"`

	// Name overrides the output sequence name. Empty derives it from
	// the input name with a "+RF" suffix.
	Name string `json:"name,omitempty"`

	// Progress, when non-nil, receives per-pose completion reports.
	Progress logging.ProgressFunc `json:"-"`
}

// ReReference re-expresses every joint position relative to a reference
// joint, across all poses, removing the global displacement of the body
// so that only movement relative to the trunk remains. Output joints
// carry the ReReferenced provenance flag.
func (s *Sequence) ReReference(opts ReReferenceOptions) (*Sequence, error) {
	if err := s.validateChronology(); err != nil {
		return nil, err
	}
	if len(s.poses) == 0 {
		return NewSequence(opts.Name), nil
	}

	labels := s.JointLabels()
	ref := opts.ReferenceJoint
	if ref == "" || ref == AutoReference {
		switch {
		case contains(labels, "SpineMid"):
			ref = "SpineMid"
		case contains(labels, "Chest"):
			ref = "Chest"
		default:
			return nil, common.NewInvalidParameterError("referenceJoint", opts.ReferenceJoint,
				"a joint label present in the sequence (auto-detection found neither SpineMid nor Chest)")
		}
	} else if !contains(labels, ref) {
		return nil, common.NewInvalidParameterError("referenceJoint", ref, labels...)
	}

	name := opts.Name
	if name == "" {
		name = s.Name + " +RF"
	}

	var startX, startY, startZ float64
	if !opts.PlaceAtZero {
		first := s.poses[0].joints[ref]
		startX, startY, startZ = first.X, first.Y, first.Z
	}

	out := s.emptyWithTimestamps(name)
	progress := logging.NewProgressReporter(opts.Progress, "re-reference", len(s.poses))

	for p, pose := range s.poses {
		progress.Step(p + 1)

		cur := pose.joints[ref]
		diffX := cur.X - startX
		diffY := cur.Y - startY
		diffZ := cur.Z - startZ

		for _, label := range labels {
			src := pose.joints[label]
			var j Joint
			if label == ref {
				j = src.WithPosition(startX, startY, startZ)
			} else {
				j = src.WithPosition(src.X-diffX, src.Y-diffY, src.Z-diffZ)
			}
			j.Provenance = Provenance{ReReferenced: true}
			out.poses[p].SetJoint(label, j)
		}
	}
	progress.Done()

	return out, nil
}

func contains(labels []string, label string) bool {
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}
