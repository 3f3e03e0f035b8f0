package hmm

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bulidiriba/Hidden-Markov-Model/engine"
)

func TestAnalyzeExample(t *testing.T) {
	def := Example()
	r, err := Analyze(def.Model, def.Observations)
	require.NoError(t, err)

	assert.Equal(t, []string{"Hot", "Cold"}, r.States)
	assert.InDelta(t, 0.0862, r.Likelihood, 1e-12)
	assert.InDelta(t, 0.0292, r.Forward[1][0], 1e-12)
	assert.InDelta(t, 0.35, r.Backward[0][1], 1e-12)
	assert.Equal(t, []string{"Hot", "Cold"}, r.StepBest)
	assert.Equal(t, []string{"Hot", "Cold"}, r.Path)
	assert.Equal(t, []int{0, 1}, r.PathIDs)
	assert.InDelta(t, 0.032, r.PathProbability, 1e-12)
	require.Len(t, r.Posterior, 4)
	require.Len(t, r.Transition, 2)
	assert.InDelta(t, 0.375, r.Transition[0][0], 1e-12)
}

func TestAnalyzeSingleObservation(t *testing.T) {
	def := Example()
	r, err := Analyze(def.Model, []string{"3"})
	require.NoError(t, err)

	assert.Nil(t, r.Posterior)
	assert.Nil(t, r.Transition)

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.NotContains(t, string(data), `"transition"`)
}

func TestAnalyzeImpossibleSequence(t *testing.T) {
	m, err := engine.NewModel(
		[]string{"A", "B"},
		[]string{"x", "y"},
		[]float64{0.5, 0.5},
		[][]float64{{0.5, 0.5}, {0.5, 0.5}},
		[][]float64{{1, 0}, {1, 0}},
	)
	require.NoError(t, err)

	r, err := Analyze(m, []string{"x", "y"})
	require.NoError(t, err)

	assert.Zero(t, r.Likelihood)
	assert.Equal(t, [][]float64{{0.5, 0.5}, {0, 0}}, r.Forward)
	assert.Equal(t, [][]float64{{0.5, 0.5}, {0, 0}}, r.Viterbi)
	assert.Equal(t, [][]float64{{0, 0}, {1, 1}}, r.Backward)
	assert.Zero(t, r.PathProbability)
	assert.Nil(t, r.Posterior)
	assert.Nil(t, r.Transition)
	assert.Contains(t, r.EMError, engine.ErrNonFinitePosterior.Error())

	data, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"em_error"`)
	assert.NotContains(t, string(data), `"posterior"`)
}

func TestAnalyzeErrors(t *testing.T) {
	def := Example()

	_, err := Analyze(def.Model, []string{"1", "4"})
	assert.ErrorIs(t, err, engine.ErrUnknownSymbol)

	_, err = Analyze(def.Model, nil)
	assert.ErrorIs(t, err, engine.ErrEmptySequence)
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "weather.json")
	doc := `{
  "states": ["Hot", "Cold"],
  "symbols": ["1", "2", "3"],
  "initial": [0.8, 0.2],
  "transition": [[0.6, 0.4], [0.5, 0.5]],
  "emission": [[0.2, 0.4, 0.4], [0.5, 0.4, 0.1]],
  "observations": ["3", "1", "2"]
}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	def, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"3", "1", "2"}, def.Observations)
	assert.Equal(t, Example().Model, def.Model)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	doc := "states: [a, b]\nsymbols: [x]\ninitial: [0.5, 0.5]\ntransition: [[0.9, 0.9], [0.5, 0.5]]\nemission: [[1], [1]]\n"
	require.NoError(t, os.WriteFile(path, []byte(doc), 0644))

	_, err := Load(path)
	assert.ErrorIs(t, err, engine.ErrMalformedModel)
}
