// Package prompt implements the pure mapping from (mode, raw input) to the
// provider request: a system instruction, the user text, and a sampling
// temperature. It performs no I/O and holds no state; given identical
// arguments it always produces identical output.
package prompt

import (
	"errors"
	"strings"

	"github.com/tbourn/go-text-gateway/internal/domain"
)

// Validation errors surfaced to the dispatcher before any provider call.
var (
	// ErrEmptyInput is returned when the input is empty after trimming.
	ErrEmptyInput = errors.New("input text is empty")

	// ErrUnknownMode is returned for a mode outside the supported set.
	ErrUnknownMode = errors.New("unknown mode")
)

// Prompt is a fully shaped provider request. Input carries the trimmed user
// text; System carries the per-mode instruction (empty for generate, which
// passes the input through unchanged).
type Prompt struct {
	Mode        domain.Mode
	System      string
	Input       string
	Temperature float32
}

// Per-mode instruction templates and sampling temperatures.
const (
	titleInstruction     = "Provide a concise title."
	summarizeInstruction = "Summarize the following text."
	keywordsInstruction  = "Extract distinct keywords as a comma separated list."
)

// Build shapes the provider prompt for the given mode. The input must be
// non-empty after trimming whitespace for every mode; violations return
// ErrEmptyInput and nothing reaches the provider or the history log.
func Build(mode domain.Mode, input string) (Prompt, error) {
	cleaned := strings.TrimSpace(input)
	if cleaned == "" {
		return Prompt{}, ErrEmptyInput
	}

	switch mode {
	case domain.ModeGenerate:
		return Prompt{Mode: mode, Input: cleaned, Temperature: 0.2}, nil
	case domain.ModeTitle:
		return Prompt{Mode: mode, System: titleInstruction, Input: cleaned, Temperature: 0.1}, nil
	case domain.ModeSummarize:
		return Prompt{Mode: mode, System: summarizeInstruction, Input: cleaned, Temperature: 0.3}, nil
	case domain.ModeKeywords:
		return Prompt{Mode: mode, System: keywordsInstruction, Input: cleaned, Temperature: 0.0}, nil
	default:
		return Prompt{}, ErrUnknownMode
	}
}
