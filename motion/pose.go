package motion

// Pose is one timestamped snapshot of every tracked joint. Joint labels
// keep their insertion order so channels line up across poses.
type Pose struct {
	Timestamp float64
	labels    []string
	joints    map[string]Joint
}

// NewPose creates an empty pose at the given timestamp in seconds.
func NewPose(timestamp float64) *Pose {
	return &Pose{
		Timestamp: timestamp,
		joints:    make(map[string]Joint),
	}
}

// SetJoint stores the joint under label, keeping first-seen label order.
func (p *Pose) SetJoint(label string, j Joint) {
	if _, ok := p.joints[label]; !ok {
		p.labels = append(p.labels, label)
	}
	p.joints[label] = j
}

// Joint returns the joint stored under label.
func (p *Pose) Joint(label string) (Joint, bool) {
	j, ok := p.joints[label]
	return j, ok
}

// Labels returns the joint labels in insertion order.
func (p *Pose) Labels() []string {
	out := make([]string, len(p.labels))
	copy(out, p.labels)
	return out
}

// Len returns the number of joints in the pose.
func (p *Pose) Len() int {
	return len(p.labels)
}

// Copy returns a deep copy of the pose.
func (p *Pose) Copy() *Pose {
	out := NewPose(p.Timestamp)
	for _, label := range p.labels {
		out.SetJoint(label, p.joints[label])
	}
	return out
}

// copyWithoutJoints returns a pose sharing only the timestamp.
func (p *Pose) copyWithoutJoints() *Pose {
	return NewPose(p.Timestamp)
}
