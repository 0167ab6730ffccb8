// Package provider wraps the outbound call to the external language-model
// service. It exposes a narrow Completer interface consumed by the
// dispatcher, a typed Error carrying a stable failure classification, and two
// implementations: an OpenAI-compatible HTTP client and a deterministic mock
// used in tests and credential-less environments.
//
// The package makes exactly one attempt per completion; retry policy, if any,
// belongs to the caller. Every failure is translated into *Error before it
// crosses the package boundary, so callers can map outcomes to transport
// status codes without inspecting transport internals.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/tbourn/go-text-gateway/internal/prompt"
)

// Kind classifies a provider failure. The values are stable and surface in
// error envelopes and history records.
type Kind string

const (
	// KindTimeout: the bounded completion window elapsed before a response.
	KindTimeout Kind = "timeout"
	// KindUpstream: transport failure or a non-success provider status.
	KindUpstream Kind = "upstream_error"
	// KindInvalidResponse: the provider answered but the payload was
	// undecodable or carried no completion text.
	KindInvalidResponse Kind = "invalid_response"
)

// Error is the only error type returned by Completer implementations.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("provider %s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("provider %s: %s", e.Kind, e.Message)
}

// Unwrap exposes the underlying cause for errors.Is/As chains.
func (e *Error) Unwrap() error { return e.Err }

// AsError extracts a *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

// Completer issues one completion call for a shaped prompt. Implementations
// must honor ctx for cancellation, bound their own execution time, and return
// *Error for every failure.
type Completer interface {
	Complete(ctx context.Context, p prompt.Prompt) (string, error)
}
