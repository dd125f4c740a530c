// Package llm provides the text-generation capability used by the word game.
//
// The game only needs ask(prompt) -> text. Anything that can answer a prompt
// satisfies Model: the Anthropic adapter, a plain function, or Unavailable
// when no model is configured.
package llm

import (
	"context"
	"errors"
)

// ErrUnavailable is returned by Unavailable.
var ErrUnavailable = errors.New("llm: no model configured")

// Model answers a single prompt with text.
type Model interface {
	Ask(ctx context.Context, prompt string) (string, error)
}

// Func adapts a function to Model.
type Func func(ctx context.Context, prompt string) (string, error)

// Ask calls f.
func (f Func) Ask(ctx context.Context, prompt string) (string, error) { return f(ctx, prompt) }

// Unavailable always fails, so callers fall back to their defaults.
type Unavailable struct{}

// Ask returns ErrUnavailable.
func (Unavailable) Ask(context.Context, string) (string, error) { return "", ErrUnavailable }
