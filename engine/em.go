package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// Posterior holds pairwise posteriors P(q_t = i, q_{t+1} = j | O).
type Posterior struct {
	NumStates int `json:"num_states"`
	// Table[PairIndex(i, j, NumStates)][t], t in [0, T-2].
	Table [][]float64 `json:"table"`
	// Likelihood is the P(O) used as the normalizer.
	Likelihood float64 `json:"likelihood"`
}

// PairIndex flattens the ordered state pair (i, j) into a row of Posterior.Table.
func PairIndex(i, j, numStates int) int {
	return i*numStates + j
}

// At returns P(q_t = i, q_{t+1} = j | O).
func (p *Posterior) At(t, i, j int) float64 {
	return p.Table[PairIndex(i, j, p.NumStates)][t]
}

// Steps returns the number of transition steps, T-1.
func (p *Posterior) Steps() int {
	if len(p.Table) == 0 {
		return 0
	}
	return len(p.Table[0])
}

// EStep computes the pairwise posterior table from freshly computed forward and
// backward tables. For T = 1 the table has N*N rows and no columns.
func (e *Engine) EStep() (*Posterior, error) {
	alpha := e.Forward()
	beta := e.Backward()
	pO, err := e.likelihood(alpha, beta)
	if err != nil {
		return nil, err
	}

	m := e.model
	T := len(e.obs)
	N := m.NumStates()
	table := newTable(N*N, T-1)
	for t := range T - 1 {
		next := e.obs[t+1]
		for i := range N {
			for j := range N {
				num := alpha[t][i] * m.Transition[i][j] * m.Emission[j][next] * beta[t+1][j]
				table[PairIndex(i, j, N)][t] = num / pO
			}
		}
	}
	return &Posterior{NumStates: N, Table: table, Likelihood: pO}, nil
}

// MStep re-estimates the transition matrix from pairwise posteriors:
//
//	new[i][j] = sum_t p(t,i,j) / sum_j' sum_t p(t,i,j')
//
// A source state with no expected outgoing transitions keeps its current row.
func (e *Engine) MStep(p *Posterior) ([][]float64, error) {
	N := e.model.NumStates()
	if p == nil || p.NumStates != N || len(p.Table) != N*N {
		return nil, fmt.Errorf("engine: posterior does not match a %d-state model: %w", N, ErrMalformedModel)
	}
	if p.Steps() == 0 {
		return nil, fmt.Errorf("engine: %w", ErrNoTransitions)
	}

	next := newTable(N, N)
	for i := range N {
		for j := range N {
			next[i][j] = floats.Sum(p.Table[PairIndex(i, j, N)])
		}
		total := floats.Sum(next[i])
		if math.IsNaN(total) || math.IsInf(total, 0) {
			return nil, fmt.Errorf("engine: expected transitions from state %d: %w", i, ErrNonFinitePosterior)
		}
		if total == 0 {
			copy(next[i], e.model.Transition[i])
			continue
		}
		floats.Scale(1/total, next[i])
	}
	return next, nil
}

// BaumWelchStep runs the E-step then the M-step and returns the new transition matrix.
func (e *Engine) BaumWelchStep() ([][]float64, error) {
	p, err := e.EStep()
	if err != nil {
		return nil, err
	}
	return e.MStep(p)
}

// ReestimateInitial returns the initial distribution implied by gamma[0].
func (e *Engine) ReestimateInitial(gamma [][]float64) []float64 {
	initial := append([]float64(nil), gamma[0]...)
	if total := floats.Sum(initial); total > 0 {
		floats.Scale(1/total, initial)
	}
	return initial
}

// ReestimateEmission returns the emission matrix implied by state posteriors:
// expected visits to s while emitting o, over expected visits to s.
// A state with no expected visits keeps its current row.
func (e *Engine) ReestimateEmission(gamma [][]float64) [][]float64 {
	m := e.model
	N := m.NumStates()
	emission := newTable(N, m.NumSymbols())
	for s := range N {
		var visits float64
		for t, o := range e.obs {
			emission[s][o] += gamma[t][s]
			visits += gamma[t][s]
		}
		if visits == 0 {
			copy(emission[s], m.Emission[s])
			continue
		}
		floats.Scale(1/visits, emission[s])
	}
	return emission
}
