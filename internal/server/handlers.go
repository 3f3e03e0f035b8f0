package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	hmm "github.com/bulidiriba/Hidden-Markov-Model"
	"github.com/bulidiriba/Hidden-Markov-Model/engine"
	"github.com/bulidiriba/Hidden-Markov-Model/internal/modelfile"
)

type Handler struct {
	metrics *Metrics
}

// AnalyzeRequest is a model definition with the sequence to analyze.
type AnalyzeRequest struct {
	modelfile.File
}

func (a *AnalyzeRequest) Bind(r *http.Request) error {
	if len(a.Observations) == 0 {
		return errors.New("observations are required")
	}
	return nil
}

// TrainRequest is a model definition, a training sequence and EM settings.
// Zero Iterations or Epsilon select the defaults.
type TrainRequest struct {
	modelfile.File
	Iterations     int     `json:"iterations" validate:"gte=0,lte=10000"`
	Epsilon        float64 `json:"epsilon" validate:"gte=0"`
	UpdateInitial  bool    `json:"update_initial"`
	UpdateEmission bool    `json:"update_emission"`
}

func (t *TrainRequest) Bind(r *http.Request) error {
	if len(t.Observations) == 0 {
		return errors.New("observations are required")
	}
	return nil
}

// TrainResponse carries the trained model in model-file shape.
type TrainResponse struct {
	*hmm.TrainResult
	Model *modelfile.File `json:"model"`
}

// Analyze runs every algorithm on the posted sequence.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	data := &AnalyzeRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	model, ok := buildModel(w, r, data, &data.File)
	if !ok {
		return
	}

	report, err := hmm.Analyze(model, data.Observations)
	if err != nil {
		slog.Debug("Analyze failed", "error", err)
		render.Render(w, r, errRenderer(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, report)
}

// Train runs Baum-Welch on the posted sequence.
func (h *Handler) Train(w http.ResponseWriter, r *http.Request) {
	data := &TrainRequest{}
	if err := render.Bind(r, data); err != nil {
		render.Render(w, r, ErrInvalidRequest(err))
		return
	}
	model, ok := buildModel(w, r, data, &data.File)
	if !ok {
		return
	}

	cfg := hmm.DefaultTrainConfig()
	if data.Iterations > 0 {
		cfg.MaxIterations = data.Iterations
	}
	if data.Epsilon > 0 {
		cfg.Epsilon = data.Epsilon
	}
	cfg.UpdateInitial = data.UpdateInitial
	cfg.UpdateEmission = data.UpdateEmission
	cfg.OnIteration = func(hmm.Iteration) { h.metrics.emIterations.Inc() }

	res, err := hmm.Train(model, data.Observations, &cfg)
	if err != nil {
		slog.Debug("Train failed", "error", err)
		render.Render(w, r, errRenderer(err))
		return
	}
	render.Status(r, http.StatusOK)
	render.JSON(w, r, &TrainResponse{
		TrainResult: res,
		Model:       modelfile.FromModel(res.Model, nil),
	})
}

// buildModel validates the request and builds its model, writing the error
// reply itself when that fails.
func buildModel(w http.ResponseWriter, r *http.Request, req any, f *modelfile.File) (*engine.Model, bool) {
	if err := modelfile.ValidateStruct(req); err != nil {
		render.Render(w, r, ErrValidation(err, modelfile.Messages(err)))
		return nil, false
	}
	model, err := f.Model()
	if err != nil {
		render.Render(w, r, errRenderer(err))
		return nil, false
	}
	return model, true
}
