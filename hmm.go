// Package hmm runs forward, backward, Viterbi and Baum-Welch over discrete
// hidden Markov models.
//
//	def := hmm.Example()
//	report, _ := hmm.Analyze(def.Model, def.Observations)
//	fmt.Println(report.Likelihood) // 0.0862
//	fmt.Println(report.Path)       // [Hot Cold]
//
// The algorithms live in the engine package; this package loads model files,
// collects results into a Report and drives Baum-Welch iterations.
package hmm

import (
	"errors"
	"fmt"

	"github.com/bulidiriba/Hidden-Markov-Model/engine"
	"github.com/bulidiriba/Hidden-Markov-Model/internal/modelfile"
)

// Definition is a model together with an optional observation sequence.
type Definition struct {
	Model        *engine.Model
	Observations []string
}

// Report holds the results of every algorithm for one observation sequence.
type Report struct {
	States       []string    `json:"states"`
	Observations []string    `json:"observations"`
	Likelihood   float64     `json:"likelihood"`
	Forward      [][]float64 `json:"forward"`
	Backward     [][]float64 `json:"backward"`
	Viterbi      [][]float64 `json:"viterbi"`
	// StepBest is the highest-scoring state at each step of the Viterbi table.
	StepBest    []string `json:"step_best"`
	StepBestIDs []int    `json:"step_best_ids"`
	// Path is the most probable state sequence recovered by traceback.
	Path            []string `json:"path"`
	PathIDs         []int    `json:"path_ids"`
	PathProbability float64  `json:"path_probability"`
	// Posterior and Transition are omitted for a single observation.
	Posterior  [][]float64 `json:"posterior,omitempty"`
	Transition [][]float64 `json:"transition,omitempty"`
	// EMError is set, and Posterior and Transition omitted, when the sequence
	// likelihood is zero or underflows and cannot normalize posteriors.
	EMError string `json:"em_error,omitempty"`
}

// Load reads a model definition from a JSON or YAML file.
func Load(path string) (*Definition, error) {
	f, err := modelfile.Read(path)
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}
	m, err := f.Model()
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}
	return &Definition{Model: m, Observations: f.Observations}, nil
}

// Analyze runs all algorithms on the observations and collects the results.
func Analyze(model *engine.Model, observations []string) (*Report, error) {
	e, err := engine.New(model, observations)
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}

	v := e.Viterbi()
	r := &Report{
		States:          model.States.Labels(),
		Observations:    e.Observations(),
		Likelihood:      e.Likelihood(),
		Forward:         e.Forward(),
		Backward:        e.Backward(),
		Viterbi:         v.Table,
		StepBest:        engine.Labels(model.States, v.StepBest),
		StepBestIDs:     v.StepBest,
		Path:            engine.Labels(model.States, v.Path),
		PathIDs:         v.Path,
		PathProbability: v.Probability,
	}

	p, err := e.EStep()
	switch {
	case errors.Is(err, engine.ErrNonFinitePosterior):
		r.EMError = err.Error()
		return r, nil
	case err != nil:
		return nil, fmt.Errorf("hmm: %w", err)
	}
	r.Posterior = p.Table
	next, err := e.MStep(p)
	switch {
	case errors.Is(err, engine.ErrNoTransitions):
		r.Posterior = nil
	case err != nil:
		return nil, fmt.Errorf("hmm: %w", err)
	default:
		r.Transition = next
	}
	return r, nil
}
