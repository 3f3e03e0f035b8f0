package hmm

import (
	"fmt"
	"log/slog"
	"math"

	"github.com/bulidiriba/Hidden-Markov-Model/engine"
)

// TrainConfig holds Baum-Welch iteration settings.
type TrainConfig struct {
	MaxIterations int
	// Epsilon stops training once an iteration improves the log-likelihood by less.
	Epsilon float64
	// The transition matrix is always re-estimated; these add the other parameters.
	UpdateInitial  bool
	UpdateEmission bool
	// OnIteration, if set, is called after every completed iteration.
	OnIteration func(Iteration)
}

// DefaultTrainConfig returns the default iteration settings.
func DefaultTrainConfig() TrainConfig {
	return TrainConfig{
		MaxIterations: 100,
		Epsilon:       1e-6,
	}
}

// Iteration reports the state after one E/M update.
type Iteration struct {
	N             int     `json:"iteration"`
	LogLikelihood float64 `json:"log_likelihood"`
}

// TrainResult holds the trained model and the likelihood history.
type TrainResult struct {
	Model      *engine.Model `json:"-"`
	Iterations int           `json:"iterations"`
	Converged  bool          `json:"converged"`
	// LogLikelihoods[0] is for the starting model, then one entry per iteration.
	LogLikelihoods []float64 `json:"log_likelihoods"`
}

// Train repeats Baum-Welch steps on a single observation sequence until the
// log-likelihood stops improving or MaxIterations is reached.
func Train(model *engine.Model, observations []string, config *TrainConfig) (*TrainResult, error) {
	cfg := DefaultTrainConfig()
	if config != nil {
		cfg = *config
	}

	e, err := engine.New(model, observations)
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}
	p, err := e.EStep()
	if err != nil {
		return nil, fmt.Errorf("hmm: %w", err)
	}
	ll := math.Log(p.Likelihood)

	result := &TrainResult{Model: model, LogLikelihoods: []float64{ll}}
	slog.Debug("EM start", "log_likelihood", ll, "states", model.NumStates(), "observations", len(observations))

	for result.Iterations < cfg.MaxIterations {
		next, err := update(e, p, cfg)
		if err != nil {
			return nil, fmt.Errorf("hmm: iteration %d: %w", result.Iterations+1, err)
		}

		e, err = engine.New(next, observations)
		if err != nil {
			return nil, fmt.Errorf("hmm: %w", err)
		}
		p, err = e.EStep()
		if err != nil {
			return nil, fmt.Errorf("hmm: iteration %d: %w", result.Iterations+1, err)
		}
		nextLL := math.Log(p.Likelihood)

		result.Model = next
		result.Iterations++
		result.LogLikelihoods = append(result.LogLikelihoods, nextLL)
		slog.Debug("EM iteration", "iteration", result.Iterations, "log_likelihood", nextLL)
		if cfg.OnIteration != nil {
			cfg.OnIteration(Iteration{N: result.Iterations, LogLikelihood: nextLL})
		}

		if nextLL-ll < cfg.Epsilon {
			result.Converged = true
			slog.Debug("EM converged", "iteration", result.Iterations, "improvement", nextLL-ll)
			break
		}
		ll = nextLL
	}
	return result, nil
}

// update runs the M-step for the engine's current posteriors and returns the
// re-estimated model.
func update(e *engine.Engine, p *engine.Posterior, cfg TrainConfig) (*engine.Model, error) {
	m := e.Model()
	transition, err := e.MStep(p)
	if err != nil {
		return nil, err
	}

	initial, emission := m.Initial, m.Emission
	if cfg.UpdateInitial || cfg.UpdateEmission {
		gamma, err := e.StatePosteriors()
		if err != nil {
			return nil, err
		}
		if cfg.UpdateInitial {
			initial = e.ReestimateInitial(gamma)
		}
		if cfg.UpdateEmission {
			emission = e.ReestimateEmission(gamma)
		}
	}
	return m.WithParameters(initial, transition, emission)
}
