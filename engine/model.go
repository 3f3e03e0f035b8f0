package engine

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Tolerance is the allowed deviation of a distribution's sum from 1.
const Tolerance = 1e-6

// Model holds the parameters of a discrete HMM.
//
// A Model is immutable once built: NewModel copies its inputs and the engine
// only reads them. Callers must not modify the exported slices.
type Model struct {
	States     *Alphabet   `json:"states"`
	Symbols    *Alphabet   `json:"symbols"`
	Initial    []float64   `json:"initial"`    // [N]
	Transition [][]float64 `json:"transition"` // [N][N], from -> to
	Emission   [][]float64 `json:"emission"`   // [N][M], state -> symbol
}

// NewModel validates and copies the given parameters into a Model.
func NewModel(states, symbols []string, initial []float64, transition, emission [][]float64) (*Model, error) {
	if len(states) == 0 {
		return nil, malformed("no states")
	}
	if len(symbols) == 0 {
		return nil, malformed("no observation symbols")
	}
	stateAlpha, err := NewAlphabet(states...)
	if err != nil {
		return nil, malformed("states: %v", err)
	}
	symbolAlpha, err := NewAlphabet(symbols...)
	if err != nil {
		return nil, malformed("symbols: %v", err)
	}

	m := &Model{
		States:     stateAlpha,
		Symbols:    symbolAlpha,
		Initial:    append([]float64(nil), initial...),
		Transition: copyMatrix(transition),
		Emission:   copyMatrix(emission),
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// Validate checks shapes and that every distribution sums to 1 within Tolerance.
func (m *Model) Validate() error {
	N := m.NumStates()
	M := m.NumSymbols()

	if len(m.Initial) != N {
		return malformed("initial has %d entries, want %d", len(m.Initial), N)
	}
	if err := checkDistribution("initial", m.Initial); err != nil {
		return err
	}

	if len(m.Transition) != N {
		return malformed("transition has %d rows, want %d", len(m.Transition), N)
	}
	for i, row := range m.Transition {
		if len(row) != N {
			return malformed("transition row %d has %d entries, want %d", i, len(row), N)
		}
		if err := checkDistribution("transition row "+m.States.Label(i), row); err != nil {
			return err
		}
	}

	if len(m.Emission) != N {
		return malformed("emission has %d rows, want %d", len(m.Emission), N)
	}
	for i, row := range m.Emission {
		if len(row) != M {
			return malformed("emission row %d has %d entries, want %d", i, len(row), M)
		}
		if err := checkDistribution("emission row "+m.States.Label(i), row); err != nil {
			return err
		}
	}
	return nil
}

// NumStates returns N.
func (m *Model) NumStates() int {
	return m.States.Size()
}

// NumSymbols returns M.
func (m *Model) NumSymbols() int {
	return m.Symbols.Size()
}

// WithTransition returns a copy of the model using the given transition matrix.
func (m *Model) WithTransition(transition [][]float64) (*Model, error) {
	return NewModel(m.States.ToStr, m.Symbols.ToStr, m.Initial, transition, m.Emission)
}

// WithParameters returns a copy of the model with all three distributions replaced.
func (m *Model) WithParameters(initial []float64, transition, emission [][]float64) (*Model, error) {
	return NewModel(m.States.ToStr, m.Symbols.ToStr, initial, transition, emission)
}

func checkDistribution(name string, p []float64) error {
	for i, v := range p {
		if math.IsNaN(v) || v < 0 || v > 1+Tolerance {
			return malformed("%s: entry %d = %v is not a probability", name, i, v)
		}
	}
	if sum := floats.Sum(p); math.Abs(sum-1) > Tolerance {
		return malformed("%s sums to %v, want 1", name, sum)
	}
	return nil
}

func copyMatrix(src [][]float64) [][]float64 {
	if src == nil {
		return nil
	}
	dst := make([][]float64, len(src))
	for i, row := range src {
		dst[i] = append([]float64(nil), row...)
	}
	return dst
}

func newTable(rows, cols int) [][]float64 {
	table := make([][]float64, rows)
	for i := range rows {
		table[i] = make([]float64, cols)
	}
	return table
}
