package engine

import "gonum.org/v1/gonum/floats"

// ViterbiResult holds the max-product trellis and the two decodings derived from it.
type ViterbiResult struct {
	// Table[t][s] is the probability of the best state path ending in s at t.
	Table [][]float64
	// Predecessor[t][s] is the state at t-1 on that best path. Row 0 is all zeros.
	Predecessor [][]int
	// StepBest[t] is argmax_s Table[t][s]: the best-scoring state at each step
	// taken on its own. It is not a traceback chain, so consecutive entries need
	// not be linked by the recurrence.
	StepBest []int
	// Path is the most probable state sequence, traced back from the best final
	// state through Predecessor.
	Path []int
	// Probability is the probability of Path jointly with the observations.
	Probability float64
}

// Viterbi runs the max-product recurrence. Ties resolve to the lowest state index.
func (e *Engine) Viterbi() *ViterbiResult {
	tr := e.sweep(forwardInTime, maxProduct)
	T := len(tr.cells)

	stepBest := make([]int, T)
	for t := range T {
		stepBest[t] = floats.MaxIdx(tr.cells[t])
	}

	path := make([]int, T)
	path[T-1] = stepBest[T-1]
	for t := T - 2; t >= 0; t-- {
		path[t] = tr.from[t+1][path[t+1]]
	}

	return &ViterbiResult{
		Table:       tr.cells,
		Predecessor: tr.from,
		StepBest:    stepBest,
		Path:        path,
		Probability: tr.cells[T-1][path[T-1]],
	}
}

// Labels maps state indices to their labels in the given alphabet.
func Labels(states *Alphabet, ids []int) []string {
	labels := make([]string, len(ids))
	for i, id := range ids {
		labels[i] = states.Label(id)
	}
	return labels
}
