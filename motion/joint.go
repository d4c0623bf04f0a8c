// Package motion holds the timestamped pose data model and the temporal
// cleaning transforms for 3D joint tracking: jitter correction,
// missing-data interpolation, windowed resampling and re-referencing.
// Every transform consumes a Sequence and returns a new one; inputs are
// never mutated.
package motion

import (
	"github.com/kinelab/motionclean/algorithms/common"
)

// Provenance records what processing produced one joint position. Each
// transform attaches a fresh record to its output joints; records are
// carried by value and never mutated in place.
type Provenance struct {
	CorrectedJitter       bool `json:"corrected_jitter,omitempty"`
	ReReferenced          bool `json:"re_referenced,omitempty"`
	Interpolated          bool `json:"interpolated,omitempty"`
	VelocityOverThreshold bool `json:"velocity_over_threshold,omitempty"`
}

// Joint is one tracked 3D position. Unset marks a position the tracker
// never produced, distinct from a numeric (0, 0, 0) reading.
type Joint struct {
	X, Y, Z    float64
	Unset      bool
	Provenance Provenance
}

// NewJoint creates a set joint at the given coordinates with blank
// provenance.
func NewJoint(x, y, z float64) Joint {
	return Joint{X: x, Y: y, Z: z}
}

// UnsetJoint creates an explicitly absent joint.
func UnsetJoint() Joint {
	return Joint{Unset: true}
}

// IsZero reports whether all three coordinates read exactly zero, the
// sentinel some trackers emit for an untracked joint.
func (j Joint) IsZero() bool {
	return !j.Unset && j.X == 0 && j.Y == 0 && j.Z == 0
}

// DistanceTo returns the Euclidean distance to another joint position.
func (j Joint) DistanceTo(o Joint) float64 {
	return common.Distance3D(j.X, j.Y, j.Z, o.X, o.Y, o.Z)
}

// WithPosition returns a copy of the joint moved to new coordinates.
func (j Joint) WithPosition(x, y, z float64) Joint {
	j.X, j.Y, j.Z = x, y, z
	j.Unset = false
	return j
}
