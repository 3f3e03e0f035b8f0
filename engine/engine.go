// Package engine implements inference and learning for discrete hidden Markov
// models: the forward, backward and Viterbi algorithms and one Baum-Welch
// expectation/maximization step over a single observation sequence.
//
//	m, _ := engine.NewModel(
//	    []string{"Hot", "Cold"}, []string{"1", "2", "3"},
//	    []float64{0.8, 0.2},
//	    [][]float64{{0.6, 0.4}, {0.5, 0.5}},
//	    [][]float64{{0.2, 0.4, 0.4}, {0.5, 0.4, 0.1}},
//	)
//	e, _ := engine.New(m, []string{"1", "1"})
//	fmt.Println(e.Forward())   // [[0.16 0.1] [0.0292 0.057]]
//	fmt.Println(e.Viterbi().Path)
//
// Probabilities are multiplied directly, without scaling or log-space
// arithmetic. Long sequences underflow to zero; the E-step reports this as
// ErrNonFinitePosterior.
package engine

import "fmt"

// Engine runs the HMM algorithms for one model and one observation sequence.
// It holds no state between calls and is safe for concurrent use.
type Engine struct {
	model   *Model
	symbols []string
	obs     []int // symbol index per time step
}

// New binds a model to an observation sequence. Every observation is resolved
// to its symbol index here, so the algorithms never see an unknown symbol.
func New(model *Model, observations []string) (*Engine, error) {
	if model == nil {
		return nil, fmt.Errorf("engine: nil model: %w", ErrMalformedModel)
	}
	if len(observations) == 0 {
		return nil, fmt.Errorf("engine: %w", ErrEmptySequence)
	}
	obs := make([]int, len(observations))
	for t, sym := range observations {
		id := model.Symbols.Get(sym)
		if id < 0 {
			return nil, fmt.Errorf("engine: %w", &SymbolError{Position: t, Symbol: sym})
		}
		obs[t] = id
	}
	return &Engine{
		model:   model,
		symbols: append([]string(nil), observations...),
		obs:     obs,
	}, nil
}

// Model returns the engine's model.
func (e *Engine) Model() *Model {
	return e.model
}

// Len returns the number of observations T.
func (e *Engine) Len() int {
	return len(e.obs)
}

// Observations returns a copy of the observation symbols.
func (e *Engine) Observations() []string {
	return append([]string(nil), e.symbols...)
}

// ObservationIndices returns a copy of the resolved symbol indices.
func (e *Engine) ObservationIndices() []int {
	return append([]int(nil), e.obs...)
}
