package engine

import (
	"errors"
	"math"
	"testing"
)

func TestAlphabet(t *testing.T) {
	a, err := NewAlphabet("hello", "world")
	if err != nil {
		t.Fatal(err)
	}
	if id := a.Add("hello"); id != 0 {
		t.Errorf("Add duplicate = %d, want 0", id)
	}
	if a.Size() != 2 {
		t.Errorf("Size = %d, want 2", a.Size())
	}
	if a.Get("missing") != -1 {
		t.Error("Get missing should return -1")
	}
	if a.Label(1) != "world" {
		t.Errorf("Label(1) = %q, want world", a.Label(1))
	}

	if _, err := NewAlphabet("a", "b", "a"); err == nil {
		t.Error("expected error for duplicate label")
	}
}

func TestNewModelCopiesInputs(t *testing.T) {
	initial := []float64{0.5, 0.5}
	trans := [][]float64{{0.5, 0.5}, {0.5, 0.5}}
	m, err := NewModel([]string{"A", "B"}, []string{"x"}, initial, trans, [][]float64{{1}, {1}})
	if err != nil {
		t.Fatal(err)
	}
	initial[0] = 0.9
	trans[0][0] = 0.9
	if m.Initial[0] != 0.5 || m.Transition[0][0] != 0.5 {
		t.Error("model shares storage with caller slices")
	}
}

func TestNewModelMalformed(t *testing.T) {
	states := []string{"A", "B"}
	symbols := []string{"x", "y"}
	okInit := []float64{0.5, 0.5}
	okTrans := [][]float64{{0.5, 0.5}, {0.5, 0.5}}
	okEmit := [][]float64{{0.5, 0.5}, {0.5, 0.5}}

	tests := []struct {
		name       string
		states     []string
		symbols    []string
		initial    []float64
		transition [][]float64
		emission   [][]float64
	}{
		{"no states", nil, symbols, nil, nil, nil},
		{"no symbols", states, nil, okInit, okTrans, nil},
		{"duplicate state", []string{"A", "A"}, symbols, okInit, okTrans, okEmit},
		{"duplicate symbol", states, []string{"x", "x"}, okInit, okTrans, okEmit},
		{"initial length", states, symbols, []float64{1}, okTrans, okEmit},
		{"initial sum", states, symbols, []float64{0.5, 0.6}, okTrans, okEmit},
		{"negative", states, symbols, []float64{1.5, -0.5}, okTrans, okEmit},
		{"nan", states, symbols, []float64{math.NaN(), 1}, okTrans, okEmit},
		{"transition rows", states, symbols, okInit, [][]float64{{1, 0}}, okEmit},
		{"transition ragged", states, symbols, okInit, [][]float64{{1, 0}, {1}}, okEmit},
		{"transition sum", states, symbols, okInit, [][]float64{{0.5, 0.5}, {0.2, 0.2}}, okEmit},
		{"emission rows", states, symbols, okInit, okTrans, [][]float64{{0.5, 0.5}}},
		{"emission width", states, symbols, okInit, okTrans, [][]float64{{1}, {1}}},
		{"emission sum", states, symbols, okInit, okTrans, [][]float64{{0.5, 0.5}, {0.9, 0.2}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewModel(tt.states, tt.symbols, tt.initial, tt.transition, tt.emission)
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrMalformedModel) {
				t.Errorf("error %v is not ErrMalformedModel", err)
			}
		})
	}
}

func TestNewModelWithinTolerance(t *testing.T) {
	_, err := NewModel(
		[]string{"A", "B", "C"},
		[]string{"x"},
		[]float64{0.33, 0.33, 0.3400001},
		[][]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}},
		[][]float64{{1}, {1}, {1}},
	)
	if err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
