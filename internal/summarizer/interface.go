package summarizer

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model produced no text.
var ErrEmptyResponse = errors.New("empty response from model")

// Summarizer sends a rendered prompt to a hosted text model.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}
