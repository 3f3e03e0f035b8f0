package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEStepWorkedExample(t *testing.T) {
	e := newEngine(t, weatherModel(t), "1", "1")

	p, err := e.EStep()
	require.NoError(t, err)
	require.Equal(t, 2, p.NumStates)
	require.Equal(t, 1, p.Steps())
	assert.InDelta(t, 0.0862, p.Likelihood, eps)

	// forward[0][i] * transition[i][j] * emission[j]["1"] * backward[1][j] / P(O)
	assert.InDelta(t, 0.16*0.6*0.2/0.0862, p.At(0, 0, 0), eps)
	assert.InDelta(t, 0.16*0.4*0.5/0.0862, p.At(0, 0, 1), eps)
	assert.InDelta(t, 0.10*0.5*0.2/0.0862, p.At(0, 1, 0), eps)
	assert.InDelta(t, 0.10*0.5*0.5/0.0862, p.At(0, 1, 1), eps)

	// Row k = i*N + j.
	assert.Equal(t, p.Table[2][0], p.At(0, 1, 0))
}

func TestMStepWorkedExample(t *testing.T) {
	e := newEngine(t, weatherModel(t), "1", "1")

	next, err := e.BaumWelchStep()
	require.NoError(t, err)
	assertTable(t, [][]float64{
		{0.0192 / 0.0512, 0.032 / 0.0512},
		{0.01 / 0.035, 0.025 / 0.035},
	}, next)
}

// The general M-step must agree with the four flattened-index formulas used
// for a two-state model.
func TestMStepTwoStateFormulas(t *testing.T) {
	e := newEngine(t, weatherModel(t), "1", "2", "3", "3", "1", "2")

	p, err := e.EStep()
	require.NoError(t, err)
	next, err := e.MStep(p)
	require.NoError(t, err)

	sum := func(k int) float64 {
		var s float64
		for _, v := range p.Table[k] {
			s += v
		}
		return s
	}
	e0, e1, e2, e3 := sum(0), sum(1), sum(2), sum(3)

	assert.InDelta(t, e0/(e0+e1), next[0][0], eps)
	assert.InDelta(t, e1/(e0+e1), next[0][1], eps)
	assert.InDelta(t, e2/(e2+e3), next[1][0], eps)
	assert.InDelta(t, e3/(e2+e3), next[1][1], eps)
}

func TestMStepKeepsUnvisitedRow(t *testing.T) {
	m, err := NewModel(
		[]string{"A", "B"},
		[]string{"x", "y"},
		[]float64{1, 0},
		[][]float64{{1, 0}, {0.3, 0.7}},
		[][]float64{{0.5, 0.5}, {0.5, 0.5}},
	)
	require.NoError(t, err)
	e := newEngine(t, m, "x", "y", "x")

	next, err := e.BaumWelchStep()
	require.NoError(t, err)
	assert.InDelta(t, 1, next[0][0], eps)
	assert.Zero(t, next[0][1])
	assert.Equal(t, []float64{0.3, 0.7}, next[1])
}

func TestMStepRejectsMismatchedPosterior(t *testing.T) {
	e := newEngine(t, weatherModel(t), "1", "1")

	_, err := e.MStep(nil)
	assert.ErrorIs(t, err, ErrMalformedModel)

	_, err = e.MStep(&Posterior{NumStates: 3, Table: make([][]float64, 9)})
	assert.ErrorIs(t, err, ErrMalformedModel)
}

func TestStatePosteriorsWorkedExample(t *testing.T) {
	e := newEngine(t, weatherModel(t), "1", "1")

	gamma, err := e.StatePosteriors()
	require.NoError(t, err)
	assertTable(t, [][]float64{
		{0.16 * 0.32 / 0.0862, 0.10 * 0.35 / 0.0862},
		{0.0292 / 0.0862, 0.057 / 0.0862},
	}, gamma)
}

func TestReestimateInitialAndEmission(t *testing.T) {
	m := weatherModel(t)
	e := newEngine(t, m, "1", "3", "1")

	gamma, err := e.StatePosteriors()
	require.NoError(t, err)

	initial := e.ReestimateInitial(gamma)
	assert.InDelta(t, gamma[0][0], initial[0], eps)
	assert.InDelta(t, 1, initial[0]+initial[1], eps)

	emission := e.ReestimateEmission(gamma)
	for s := range 2 {
		visits := gamma[0][s] + gamma[1][s] + gamma[2][s]
		assert.InDelta(t, (gamma[0][s]+gamma[2][s])/visits, emission[s][0], eps)
		assert.Zero(t, emission[s][1], "symbol 2 never observed")
		assert.InDelta(t, gamma[1][s]/visits, emission[s][2], eps)
	}

	_, err = m.WithParameters(initial, m.Transition, emission)
	assert.NoError(t, err)
}
