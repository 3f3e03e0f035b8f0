package hmm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulidiriba/Hidden-Markov-Model/engine"
)

var iceCream = []string{"2", "3", "3", "2", "3", "2", "3", "2", "2", "3", "1", "3", "3", "1", "1", "1", "2", "1", "1", "1", "3", "1", "2", "1", "1", "1", "2", "3", "3", "2", "3", "2", "2"}

func assertStochastic(t *testing.T, rows [][]float64) {
	t.Helper()
	for i, row := range rows {
		var sum float64
		for _, v := range row {
			sum += v
		}
		assert.InDelta(t, 1, sum, 1e-9, "row %d", i)
	}
}

func TestTrainImprovesLikelihood(t *testing.T) {
	def := Example()

	var seen []Iteration
	cfg := DefaultTrainConfig()
	cfg.MaxIterations = 50
	cfg.OnIteration = func(it Iteration) { seen = append(seen, it) }

	res, err := Train(def.Model, iceCream, &cfg)
	require.NoError(t, err)

	require.Len(t, res.LogLikelihoods, res.Iterations+1)
	require.Len(t, seen, res.Iterations)
	for i := 1; i < len(res.LogLikelihoods); i++ {
		assert.GreaterOrEqual(t, res.LogLikelihoods[i], res.LogLikelihoods[i-1]-1e-12, "iteration %d", i)
		assert.Equal(t, i, seen[i-1].N)
		assert.Equal(t, res.LogLikelihoods[i], seen[i-1].LogLikelihood)
	}
	assert.Greater(t, res.LogLikelihoods[res.Iterations], res.LogLikelihoods[0])

	assertStochastic(t, res.Model.Transition)
	// Only transitions are re-estimated by default.
	assert.Equal(t, def.Model.Initial, res.Model.Initial)
	assert.Equal(t, def.Model.Emission, res.Model.Emission)
}

func TestTrainFullUpdate(t *testing.T) {
	def := Example()
	cfg := DefaultTrainConfig()
	cfg.MaxIterations = 1000
	cfg.UpdateInitial = true
	cfg.UpdateEmission = true

	res, err := Train(def.Model, iceCream, &cfg)
	require.NoError(t, err)

	assert.True(t, res.Converged)
	assertStochastic(t, res.Model.Transition)
	assertStochastic(t, res.Model.Emission)
	assertStochastic(t, [][]float64{res.Model.Initial})
	for i := 1; i < len(res.LogLikelihoods); i++ {
		assert.GreaterOrEqual(t, res.LogLikelihoods[i], res.LogLikelihoods[i-1]-1e-9, "iteration %d", i)
	}
}

func TestTrainStopsAtMaxIterations(t *testing.T) {
	def := Example()
	cfg := DefaultTrainConfig()
	cfg.MaxIterations = 2
	cfg.Epsilon = 0

	res, err := Train(def.Model, iceCream, &cfg)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Iterations)
	assert.Len(t, res.LogLikelihoods, 3)
}

func TestTrainZeroIterations(t *testing.T) {
	def := Example()
	res, err := Train(def.Model, iceCream, &TrainConfig{})
	require.NoError(t, err)
	assert.Same(t, def.Model, res.Model)
	assert.Zero(t, res.Iterations)
}

func TestTrainSingleObservation(t *testing.T) {
	def := Example()
	_, err := Train(def.Model, []string{"1"}, nil)
	assert.ErrorIs(t, err, engine.ErrNoTransitions)
}

func TestTrainUnknownSymbol(t *testing.T) {
	def := Example()
	_, err := Train(def.Model, []string{"1", "x"}, nil)
	assert.ErrorIs(t, err, engine.ErrUnknownSymbol)
}
