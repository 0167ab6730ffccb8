package provider

import (
	"context"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/tbourn/go-text-gateway/internal/domain"
	"github.com/tbourn/go-text-gateway/internal/prompt"
)

func mockComplete(t *testing.T, mode domain.Mode, input string) string {
	t.Helper()
	p, err := prompt.Build(mode, input)
	if err != nil {
		t.Fatalf("prompt.Build: %v", err)
	}
	out, err := NewMockClient().Complete(context.Background(), p)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	return out
}

func TestMock_Generate_EchoesInput(t *testing.T) {
	got := mockComplete(t, domain.ModeGenerate, "hello there")
	if got != "(mock) you said: hello there" {
		t.Fatalf("unexpected generate output: %q", got)
	}
}

func TestMock_Title_FirstTwelveWords(t *testing.T) {
	input := "one two three four five six seven eight nine ten eleven twelve thirteen fourteen"
	got := mockComplete(t, domain.ModeTitle, input)
	want := "one two three four five six seven eight nine ten eleven twelve"
	if got != want {
		t.Fatalf("title = %q, want %q", got, want)
	}
}

func TestMock_Title_ClipsToEightyChars(t *testing.T) {
	// Few words, each long enough that 12 words exceed 80 chars.
	input := strings.Repeat("abcdefghij ", 12)
	got := mockComplete(t, domain.ModeTitle, input)
	if len(got) != 80 {
		t.Fatalf("expected 80-char clip, got %d chars: %q", len(got), got)
	}
}

func TestMock_Title_ClipCountsRunesNotBytes(t *testing.T) {
	// One long word whose 80th byte lands inside a two-byte rune.
	input := strings.Repeat("a", 79) + "αα"
	got := mockComplete(t, domain.ModeTitle, input)
	if !utf8.ValidString(got) {
		t.Fatalf("title is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 80 {
		t.Fatalf("expected an 80-rune clip, got %d runes: %q", n, got)
	}
	if !strings.HasSuffix(got, "α") {
		t.Fatalf("clip should end on a whole character: %q", got)
	}
}

func TestMock_Summarize_ShortInputPassesThrough(t *testing.T) {
	input := "already short enough"
	if got := mockComplete(t, domain.ModeSummarize, input); got != input {
		t.Fatalf("short input must pass through, got %q", got)
	}
}

func TestMock_Summarize_LongInputClippedWithEllipsis(t *testing.T) {
	input := strings.Repeat("x", 140) + " tail words beyond the budget"
	got := mockComplete(t, domain.ModeSummarize, input)
	if !strings.HasSuffix(got, "...") {
		t.Fatalf("expected ellipsis suffix, got %q", got)
	}
	if len(got) > 153 { // 150-char clip plus "..."
		t.Fatalf("summary too long (%d chars): %q", len(got), got)
	}
	if strings.HasSuffix(strings.TrimSuffix(got, "..."), " ") {
		t.Fatalf("trailing whitespace should be trimmed before the ellipsis: %q", got)
	}
}

func TestMock_Summarize_RuneBudget(t *testing.T) {
	// 150 two-byte runes stay within the character budget despite 300 bytes.
	exact := strings.Repeat("α", 150)
	if got := mockComplete(t, domain.ModeSummarize, exact); got != exact {
		t.Fatalf("150-rune input must pass through unchanged, got %q", got)
	}

	got := mockComplete(t, domain.ModeSummarize, strings.Repeat("α", 151))
	if !utf8.ValidString(got) {
		t.Fatalf("summary is not valid UTF-8: %q", got)
	}
	if want := strings.Repeat("α", 150) + "..."; got != want {
		t.Fatalf("summary = %q, want %q", got, want)
	}
}

func TestMock_Keywords_SortedUniqueLowercase(t *testing.T) {
	got := mockComplete(t, domain.ModeKeywords, "Banana apple banana Cherry apple")
	if got != "apple, banana, cherry" {
		t.Fatalf("keywords = %q", got)
	}
}

func TestMock_Deterministic(t *testing.T) {
	a := mockComplete(t, domain.ModeKeywords, "Go routines and Go channels")
	b := mockComplete(t, domain.ModeKeywords, "Go routines and Go channels")
	if a != b {
		t.Fatalf("mock output must be deterministic: %q vs %q", a, b)
	}
}

func TestMock_CanceledContext_ReturnsError(t *testing.T) {
	p, _ := prompt.Build(domain.ModeGenerate, "hi")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewMockClient().Complete(ctx, p)
	if _, ok := AsError(err); !ok {
		t.Fatalf("expected *Error for canceled context, got %v", err)
	}
}
