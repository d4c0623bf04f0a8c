package interpolate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kinelab/motionclean/algorithms/common"
)

func TestAt_Linear(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2}
	ys := []float64{0, 10, 20}

	out, err := At(Linear, xs, ys, []float64{0, 0.5, 1.5, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 5, 15, 20}, out, 1e-12)
}

func TestAt_ClampsOutsideAnchorRange(t *testing.T) {
	t.Parallel()

	xs := []float64{1, 2}
	ys := []float64{5, 7}

	out, err := At(Linear, xs, ys, []float64{0, 3})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{5, 7}, out, 1e-12)
}

func TestAt_StepMethods(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2}
	ys := []float64{1, 2, 3}

	t.Run("nearest", func(t *testing.T) {
		t.Parallel()
		out, err := At(Nearest, xs, ys, []float64{0.4, 0.5, 0.6, 1, 1.9})
		require.NoError(t, err)
		// Midpoints resolve to the earlier anchor.
		assert.InDeltaSlice(t, []float64{1, 1, 2, 2, 3}, out, 1e-12)
	})

	t.Run("previous", func(t *testing.T) {
		t.Parallel()
		out, err := At(Previous, xs, ys, []float64{0.9, 1, 1.9, 2})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{1, 2, 2, 3}, out, 1e-12)
	})

	t.Run("next", func(t *testing.T) {
		t.Parallel()
		out, err := At(Next, xs, ys, []float64{0.1, 1, 1.1})
		require.NoError(t, err)
		assert.InDeltaSlice(t, []float64{2, 2, 3}, out, 1e-12)
	})
}

func TestAt_SplinesPassThroughAnchors(t *testing.T) {
	t.Parallel()

	xs := []float64{0, 1, 2, 3, 4}
	ys := []float64{0, 1, 0, -1, 0}

	for _, m := range []Method{Cubic, PCHIP, Akima} {
		m := m
		t.Run(string(m), func(t *testing.T) {
			t.Parallel()
			out, err := At(m, xs, ys, xs)
			require.NoError(t, err)
			assert.InDeltaSlice(t, ys, out, 1e-9)
		})
	}
}

func TestAt_SingleAnchorPredictsConstant(t *testing.T) {
	t.Parallel()

	out, err := At(Linear, []float64{1}, []float64{42}, []float64{0, 1, 2})
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{42, 42, 42}, out, 1e-12)
}

func TestAt_DuplicateTimestampsKeepFirst(t *testing.T) {
	t.Parallel()

	out, err := At(Linear, []float64{0, 0, 1}, []float64{5, 7, 9}, []float64{0.5})
	require.NoError(t, err)
	assert.InDelta(t, 7.0, out[0], 1e-12)
}

func TestFit_Errors(t *testing.T) {
	t.Parallel()

	t.Run("unknown method", func(t *testing.T) {
		t.Parallel()
		_, err := Fit(Method("spline9000"), []float64{0, 1}, []float64{0, 1})
		var perr *common.InvalidParameterError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, "method", perr.Parameter)
	})

	t.Run("too few anchors", func(t *testing.T) {
		t.Parallel()
		_, err := Fit(Linear, []float64{0}, []float64{1})
		assert.Error(t, err)
	})

	t.Run("length mismatch", func(t *testing.T) {
		t.Parallel()
		_, err := Fit(Linear, []float64{0, 1}, []float64{1})
		assert.Error(t, err)
	})

	t.Run("unordered timestamps", func(t *testing.T) {
		t.Parallel()
		_, err := Fit(Linear, []float64{1, 0}, []float64{1, 2})
		var cerr *common.ChronologyError
		require.ErrorAs(t, err, &cerr)
	})
}

func TestMethodValid(t *testing.T) {
	t.Parallel()

	for _, name := range Methods() {
		assert.True(t, Method(name).Valid(), name)
	}
	assert.False(t, Method("").Valid())
	assert.False(t, Method("bilinear").Valid())
}
