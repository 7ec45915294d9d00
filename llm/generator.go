// Package llm produces short natural-language player descriptions through an
// OpenAI-compatible chat completions endpoint (GitHub Models by default).
//
// The generator makes exactly one attempt per call. Retry, pacing and
// cooldown policy belong to the callers in package describe.
package llm

import (
	"context"
	"errors"
	"fmt"
)

// ErrMissingCredential is returned by New when no API token is configured.
var ErrMissingCredential = errors.New("llm: GITHUB_TOKEN is not set")

// Generator turns a player profile into a description.
type Generator interface {
	Generate(ctx context.Context, p Profile) (string, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, p Profile) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, p Profile) (string, error) {
	return f(ctx, p)
}

// Kind classifies a generation failure.
type Kind int

const (
	// KindOther covers transport errors, timeouts, non-429 statuses and empty completions.
	KindOther Kind = iota
	// KindRateLimited means the provider answered 429.
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindRateLimited:
		return "rate_limited"
	default:
		return "other"
	}
}

// GenerationError is the only error type Generate returns.
type GenerationError struct {
	Kind Kind
	// StatusCode is the HTTP status from the provider, 0 when no response arrived.
	StatusCode int
	// Timeout is set when the per-call deadline expired.
	Timeout bool
	Err     error
}

func (e *GenerationError) Error() string {
	switch {
	case e.Timeout:
		return fmt.Sprintf("generate description (%s, timeout): %v", e.Kind, e.Err)
	case e.StatusCode != 0:
		return fmt.Sprintf("generate description (%s, status %d): %v", e.Kind, e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("generate description (%s): %v", e.Kind, e.Err)
	}
}

func (e *GenerationError) Unwrap() error { return e.Err }

// KindOf returns the classification of err. Errors that are not a
// GenerationError are treated as KindOther.
func KindOf(err error) Kind {
	var ge *GenerationError
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return KindOther
}

// IsRateLimited reports whether err is a rate-limit rejection.
func IsRateLimited(err error) bool {
	return err != nil && KindOf(err) == KindRateLimited
}
