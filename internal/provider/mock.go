// Deterministic mock completer.
//
// Used when MOCK_MODE is enabled (tests, local development, environments
// without provider credentials). Outputs depend only on the prompt, never on
// the network or the clock.
package provider

import (
	"context"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tbourn/go-text-gateway/internal/domain"
	"github.com/tbourn/go-text-gateway/internal/prompt"
)

// Clip budgets count characters, not bytes.
const (
	mockTitleMaxWords = 12
	mockTitleMaxChars = 80
	mockSummaryChars  = 150
)

var mockWordRE = regexp.MustCompile(`\b\w+\b`)

// MockClient returns canned, deterministic completions per mode.
type MockClient struct{}

// NewMockClient constructs the mock completer.
func NewMockClient() *MockClient { return &MockClient{} }

// Complete returns the canned completion for the prompt's mode. It never
// fails and never blocks beyond a context check.
func (m *MockClient) Complete(ctx context.Context, p prompt.Prompt) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", classify(ctx, "canceled", err)
	}

	switch p.Mode {
	case domain.ModeTitle:
		words := strings.Fields(p.Input)
		if len(words) > mockTitleMaxWords {
			words = words[:mockTitleMaxWords]
		}
		return clipRunes(strings.Join(words, " "), mockTitleMaxChars), nil

	case domain.ModeSummarize:
		if utf8.RuneCountInString(p.Input) <= mockSummaryChars {
			return p.Input, nil
		}
		clipped := strings.TrimRight(clipRunes(p.Input, mockSummaryChars), " \t\n")
		return clipped + "...", nil

	case domain.ModeKeywords:
		words := mockWordRE.FindAllString(strings.ToLower(p.Input), -1)
		seen := make(map[string]struct{}, len(words))
		uniq := make([]string, 0, len(words))
		for _, w := range words {
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			uniq = append(uniq, w)
		}
		sort.Strings(uniq)
		return strings.Join(uniq, ", "), nil

	default: // generate
		return "(mock) you said: " + p.Input, nil
	}
}

// clipRunes truncates s to at most max runes without splitting a multibyte
// character.
func clipRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	r := []rune(s)
	return string(r[:max])
}
