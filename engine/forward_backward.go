package engine

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// likelihoodRelTol bounds the relative disagreement between the forward and
// backward likelihoods.
const likelihoodRelTol = 1e-9

// minNormal is the smallest normal float64. Below it the likelihood has lost
// precision to gradual underflow.
const minNormal = 0x1p-1022

// Forward computes forward[t][s] = P(o_0..o_t, q_t = s).
// Returns a fresh [T][N] table.
func (e *Engine) Forward() [][]float64 {
	return e.sweep(forwardInTime, sumProduct).cells
}

// Backward computes backward[t][s] = P(o_{t+1}..o_{T-1} | q_t = s).
// Returns a fresh [T][N] table with the last row set to 1.
func (e *Engine) Backward() [][]float64 {
	return e.sweep(backwardInTime, sumProduct).cells
}

// Likelihood returns P(O) as the sum of the last forward row.
func (e *Engine) Likelihood() float64 {
	alpha := e.Forward()
	return floats.Sum(alpha[len(alpha)-1])
}

// BackwardLikelihood returns P(O) computed from the backward table:
// sum over s of initial[s] * emission[s][o_0] * backward[0][s].
func (e *Engine) BackwardLikelihood() float64 {
	return e.backwardLikelihood(e.Backward())
}

func (e *Engine) backwardLikelihood(beta [][]float64) float64 {
	var sum float64
	for s := range e.model.NumStates() {
		sum += e.base(forwardInTime, s) * beta[0][s]
	}
	return sum
}

// likelihood checks that both directions agree and returns the forward value.
// A zero, subnormal or non-finite likelihood cannot normalize posteriors.
func (e *Engine) likelihood(alpha, beta [][]float64) (float64, error) {
	fwd := floats.Sum(alpha[len(alpha)-1])
	bwd := e.backwardLikelihood(beta)

	if !(fwd >= minNormal) || math.IsInf(fwd, 0) {
		return 0, fmt.Errorf("engine: sequence likelihood is %v: %w", fwd, ErrNonFinitePosterior)
	}
	if !likelihoodsAgree(fwd, bwd) {
		return 0, fmt.Errorf("engine: forward %v, backward %v: %w", fwd, bwd, ErrLikelihoodMismatch)
	}
	return fwd, nil
}

// likelihoodsAgree reports whether a and b are within likelihoodRelTol of each
// other relative to the larger one, at any magnitude.
func likelihoodsAgree(a, b float64) bool {
	return math.Abs(a-b) <= likelihoodRelTol*math.Max(math.Abs(a), math.Abs(b))
}

// StatePosteriors computes gamma[t][s] = P(q_t = s | O).
// Returns a [T][N] table whose rows sum to 1.
func (e *Engine) StatePosteriors() ([][]float64, error) {
	alpha := e.Forward()
	beta := e.Backward()
	pO, err := e.likelihood(alpha, beta)
	if err != nil {
		return nil, err
	}

	T := len(alpha)
	N := e.model.NumStates()
	gamma := newTable(T, N)
	for t := range T {
		floats.MulTo(gamma[t], alpha[t], beta[t])
		floats.Scale(1/pO, gamma[t])
	}
	return gamma, nil
}
