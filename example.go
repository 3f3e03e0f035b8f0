package hmm

import "github.com/bulidiriba/Hidden-Markov-Model/engine"

// Example returns the two-state weather model: hidden Hot/Cold days observed
// through the number of ice creams eaten (1, 2 or 3).
func Example() *Definition {
	m, err := engine.NewModel(
		[]string{"Hot", "Cold"},
		[]string{"1", "2", "3"},
		[]float64{0.8, 0.2},
		[][]float64{
			{0.6, 0.4},
			{0.5, 0.5},
		},
		[][]float64{
			{0.2, 0.4, 0.4},
			{0.5, 0.4, 0.1},
		},
	)
	if err != nil {
		panic(err)
	}
	return &Definition{Model: m, Observations: []string{"1", "1"}}
}
