package interpolate

import (
	"sort"

	"gonum.org/v1/gonum/interp"

	"github.com/kinelab/motionclean/algorithms/common"
)

// Method selects an interpolation method by name. The spline methods are
// backed by gonum/interp; the step methods are implemented locally.
type Method string

const (
	Linear   Method = "linear"
	Nearest  Method = "nearest"
	Previous Method = "previous"
	Next     Method = "next"
	Cubic    Method = "cubic"
	PCHIP    Method = "pchip"
	Akima    Method = "akima"
)

// Methods returns the names of every supported interpolation method.
func Methods() []string {
	return []string{
		string(Linear), string(Nearest), string(Previous), string(Next),
		string(Cubic), string(PCHIP), string(Akima),
	}
}

// Valid reports whether m names a supported method.
func (m Method) Valid() bool {
	switch m {
	case Linear, Nearest, Previous, Next, Cubic, PCHIP, Akima:
		return true
	}
	return false
}

// Predictor evaluates a fitted interpolant at a single point.
type Predictor interface {
	Predict(x float64) float64
}

// Fit fits the chosen method to (xs, ys) anchor pairs. xs must be
// non-decreasing; pairs sharing a timestamp with their predecessor are
// dropped before fitting, since the underlying interpolants require
// strictly increasing abscissae. At least two distinct anchors are
// required.
func Fit(m Method, xs, ys []float64) (Predictor, error) {
	if !m.Valid() {
		return nil, common.NewInvalidParameterError("method", m, Methods()...)
	}
	if len(xs) != len(ys) {
		return nil, common.NewInvalidParameterError("values", len(ys),
			"as many values as timestamps")
	}
	if err := common.CheckChronology(xs); err != nil {
		return nil, err
	}

	xs, ys = dedupe(xs, ys)
	if len(xs) < 2 {
		return nil, common.NewInvalidParameterError("timestamps", len(xs),
			"at least two samples with distinct timestamps")
	}

	switch m {
	case Linear:
		var p interp.PiecewiseLinear
		if err := p.Fit(xs, ys); err != nil {
			return nil, err
		}
		return p, nil
	case Cubic:
		var p interp.NaturalCubic
		if err := p.Fit(xs, ys); err != nil {
			return nil, err
		}
		return &p, nil
	case PCHIP:
		var p interp.FritschButland
		if err := p.Fit(xs, ys); err != nil {
			return nil, err
		}
		return &p, nil
	case Akima:
		var p interp.AkimaSpline
		if err := p.Fit(xs, ys); err != nil {
			return nil, err
		}
		return &p, nil
	case Next:
		var p interp.PiecewiseConstant
		if err := p.Fit(xs, ys); err != nil {
			return nil, err
		}
		return p, nil
	case Nearest:
		return &stepPredictor{xs: xs, ys: ys, mode: stepNearest}, nil
	case Previous:
		return &stepPredictor{xs: xs, ys: ys, mode: stepPrevious}, nil
	}
	return nil, common.NewInvalidParameterError("method", m, Methods()...)
}

// At fits method on the (xs, ys) anchors and evaluates the interpolant at
// every target point. Targets outside the anchor range are clamped to the
// nearest anchor, so the edges extend as constants instead of
// extrapolating. A single anchor predicts a constant series.
func At(m Method, xs, ys, targets []float64) ([]float64, error) {
	if len(xs) == 1 && len(ys) == 1 {
		out := make([]float64, len(targets))
		for i := range out {
			out[i] = ys[0]
		}
		return out, nil
	}

	p, err := Fit(m, xs, ys)
	if err != nil {
		return nil, err
	}

	lo, hi := xs[0], xs[len(xs)-1]
	out := make([]float64, len(targets))
	for i, t := range targets {
		if t < lo {
			t = lo
		} else if t > hi {
			t = hi
		}
		out[i] = p.Predict(t)
	}
	return out, nil
}

// dedupe drops anchors that repeat the previous timestamp, keeping the
// first occurrence. Assumes xs is already non-decreasing.
func dedupe(xs, ys []float64) ([]float64, []float64) {
	outX := make([]float64, 0, len(xs))
	outY := make([]float64, 0, len(ys))
	for i := range xs {
		if i > 0 && xs[i] == outX[len(outX)-1] {
			continue
		}
		outX = append(outX, xs[i])
		outY = append(outY, ys[i])
	}
	return outX, outY
}

type stepMode int

const (
	stepNearest stepMode = iota
	stepPrevious
)

// stepPredictor implements the nearest and previous step interpolations,
// which gonum/interp does not provide directly.
type stepPredictor struct {
	xs   []float64
	ys   []float64
	mode stepMode
}

func (s *stepPredictor) Predict(x float64) float64 {
	// Index of the first anchor at or after x.
	i := sort.SearchFloat64s(s.xs, x)
	if i < len(s.xs) && s.xs[i] == x {
		return s.ys[i]
	}
	if i == 0 {
		return s.ys[0]
	}
	if i == len(s.xs) {
		return s.ys[len(s.ys)-1]
	}

	switch s.mode {
	case stepPrevious:
		return s.ys[i-1]
	default:
		// Midpoints resolve to the earlier anchor.
		if x-s.xs[i-1] <= s.xs[i]-x {
			return s.ys[i-1]
		}
		return s.ys[i]
	}
}
