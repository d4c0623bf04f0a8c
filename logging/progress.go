package logging

// ProgressFunc receives periodic progress reports from long-running batch
// loops. done counts processed elements out of total. It is purely
// informational: returning from it is the only way it interacts with the
// caller, and passing nil disables reporting entirely.
type ProgressFunc func(stage string, done, total int)

// ProgressReporter throttles progress callbacks so that a tight numeric
// loop can call Step on every iteration without flooding the callback.
// Reports fire every stepPercent percent of total, mirroring the 10%
// console markers of interactive use.
type ProgressReporter struct {
	fn          ProgressFunc
	stage       string
	total       int
	stepPercent int
	nextAt      int
}

// NewProgressReporter creates a reporter for a loop over total elements.
// fn may be nil, in which case every method is a no-op.
func NewProgressReporter(fn ProgressFunc, stage string, total int) *ProgressReporter {
	return &ProgressReporter{
		fn:          fn,
		stage:       stage,
		total:       total,
		stepPercent: 10,
		nextAt:      10,
	}
}

// Step reports progress for element done out of the reporter's total,
// firing the callback only when another stepPercent slice has completed.
func (p *ProgressReporter) Step(done int) {
	if p == nil || p.fn == nil || p.total <= 0 {
		return
	}
	for done*100 >= p.nextAt*p.total && p.nextAt <= 100 {
		p.fn(p.stage, done, p.total)
		p.nextAt += p.stepPercent
	}
}

// Done reports completion of the whole loop.
func (p *ProgressReporter) Done() {
	if p == nil || p.fn == nil {
		return
	}
	p.fn(p.stage, p.total, p.total)
}
