package server

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/bulidiriba/Hidden-Markov-Model/engine"
)

// ErrResponse is the JSON body of every error reply.
type ErrResponse struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText    string   `json:"status"`
	ErrorText     string   `json:"error,omitempty"`
	ErrValidation []string `json:"validation,omitempty"`
}

func (e *ErrResponse) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.HTTPStatusCode)
	return nil
}

func ErrInvalidRequest(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
	}
}

func ErrValidation(err error, messages []string) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Invalid request.",
		ErrorText:      err.Error(),
		ErrValidation:  messages,
	}
}

func ErrUnprocessable(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusUnprocessableEntity,
		StatusText:     "Posterior is not finite.",
		ErrorText:      err.Error(),
	}
}

func ErrInternalServerError(err error) render.Renderer {
	return &ErrResponse{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
		ErrorText:      err.Error(),
	}
}

// errRenderer maps engine errors to replies.
func errRenderer(err error) render.Renderer {
	switch {
	case errors.Is(err, engine.ErrUnknownSymbol),
		errors.Is(err, engine.ErrMalformedModel),
		errors.Is(err, engine.ErrEmptySequence),
		errors.Is(err, engine.ErrNoTransitions):
		return ErrInvalidRequest(err)
	case errors.Is(err, engine.ErrNonFinitePosterior):
		return ErrUnprocessable(err)
	}
	return ErrInternalServerError(err)
}
