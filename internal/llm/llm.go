// Package llm wraps the generative collaborators that produce
// optimization suggestions. Clients return the model text as-is; the
// recovery package owns making sense of it.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse indicates the collaborator returned no usable text.
var ErrEmptyResponse = errors.New("empty response from model")

// Client is the minimal surface the analyzer needs from a generative
// collaborator. Generate sends prompt plus a JSON-encoded input payload
// and returns the raw model text without interpreting it.
type Client interface {
	Name() string
	Generate(ctx context.Context, prompt string, input any) (string, error)
	Close() error
}

// PermanentError marks a failure that will not resolve with retries,
// such as a rejected request or an exceeded context window.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}
