package engine

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownSymbol is returned when an observation is not in the model's vocabulary.
	ErrUnknownSymbol = errors.New("symbol not found")
	// ErrMalformedModel is returned when model parameters have the wrong shape or a
	// distribution does not sum to 1.
	ErrMalformedModel = errors.New("malformed model")
	// ErrEmptySequence is returned for an observation sequence of length zero.
	ErrEmptySequence = errors.New("empty observation sequence")
	// ErrNonFinitePosterior is returned when the sequence likelihood is zero, so
	// posteriors cannot be normalized.
	ErrNonFinitePosterior = errors.New("non-finite posterior")
	// ErrNoTransitions is returned by the M-step when the sequence has a single
	// observation and there is nothing to re-estimate.
	ErrNoTransitions = errors.New("no transitions to estimate")
	// ErrLikelihoodMismatch is returned when the forward and backward likelihoods disagree.
	ErrLikelihoodMismatch = errors.New("forward and backward likelihoods differ")
)

// SymbolError reports an observation that is missing from the vocabulary.
type SymbolError struct {
	Position int
	Symbol   string
}

func (e *SymbolError) Error() string {
	return fmt.Sprintf("observation %d: %q: %v", e.Position, e.Symbol, ErrUnknownSymbol)
}

func (e *SymbolError) Unwrap() error {
	return ErrUnknownSymbol
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("engine: %s: %w", fmt.Sprintf(format, args...), ErrMalformedModel)
}
