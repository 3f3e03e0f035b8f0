package engine

// semiring selects how the terms reaching a cell are combined.
type semiring int

const (
	sumProduct semiring = iota
	maxProduct
)

// direction selects the order in which trellis rows are filled.
type direction int

const (
	forwardInTime direction = iota
	backwardInTime
)

// trellis is the result of one dynamic-programming sweep.
type trellis struct {
	cells [][]float64 // [T][N]
	from  [][]int     // [T][N] neighbour attaining the max; maxProduct only
}

// sweep fills a T x N table. Row 0 (forward) or row T-1 (backward) is the base
// case; every other row combines the N terms coming from the previously filled
// row. For maxProduct the lowest-indexed neighbour wins ties.
func (e *Engine) sweep(dir direction, op semiring) trellis {
	T := len(e.obs)
	N := e.model.NumStates()

	tr := trellis{cells: newTable(T, N)}
	if op == maxProduct {
		tr.from = make([][]int, T)
		for t := range T {
			tr.from[t] = make([]int, N)
		}
	}

	start, step := 0, 1
	if dir == backwardInTime {
		start, step = T-1, -1
	}

	for s := range N {
		tr.cells[start][s] = e.base(dir, s)
	}

	for t := start + step; t >= 0 && t < T; t += step {
		prev := tr.cells[t-step]
		for s := range N {
			acc, arg := 0.0, 0
			for k := range N {
				v := e.term(dir, t, s, k, prev[k])
				switch op {
				case sumProduct:
					acc += v
				case maxProduct:
					if k == 0 || v > acc {
						acc, arg = v, k
					}
				}
			}
			tr.cells[t][s] = acc
			if tr.from != nil {
				tr.from[t][s] = arg
			}
		}
	}
	return tr
}

func (e *Engine) base(dir direction, s int) float64 {
	if dir == backwardInTime {
		return 1
	}
	return e.model.Initial[s] * e.model.Emission[s][e.obs[0]]
}

// term is the contribution of neighbour k, whose filled value is p, to cell (t, s).
// Forward: k is the state at t-1. Backward: k is the state at t+1.
func (e *Engine) term(dir direction, t, s, k int, p float64) float64 {
	m := e.model
	if dir == backwardInTime {
		return m.Transition[s][k] * m.Emission[k][e.obs[t+1]] * p
	}
	return p * m.Transition[k][s] * m.Emission[s][e.obs[t]]
}
