package prompt

import (
	"testing"

	"github.com/tbourn/go-text-gateway/internal/domain"
)

func TestBuild_TrimsInput_AndIsDeterministic(t *testing.T) {
	p1, err := Build(domain.ModeGenerate, "  hello world \n")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p1.Input != "hello world" {
		t.Fatalf("expected trimmed input, got %q", p1.Input)
	}
	p2, err := Build(domain.ModeGenerate, "  hello world \n")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if p1 != p2 {
		t.Fatalf("identical arguments must yield identical prompts: %+v vs %+v", p1, p2)
	}
}

func TestBuild_EmptyAfterTrim_ReturnsErrEmptyInput(t *testing.T) {
	for _, in := range []string{"", "   ", "\n\t "} {
		if _, err := Build(domain.ModeTitle, in); err != ErrEmptyInput {
			t.Fatalf("Build(%q): expected ErrEmptyInput, got %v", in, err)
		}
	}
}

func TestBuild_UnknownMode(t *testing.T) {
	if _, err := Build(domain.Mode("translate"), "hi"); err != ErrUnknownMode {
		t.Fatalf("expected ErrUnknownMode, got %v", err)
	}
}

func TestBuild_PerModeShape(t *testing.T) {
	cases := []struct {
		mode       domain.Mode
		wantSystem string
		wantTemp   float32
	}{
		{domain.ModeGenerate, "", 0.2},
		{domain.ModeTitle, titleInstruction, 0.1},
		{domain.ModeSummarize, summarizeInstruction, 0.3},
		{domain.ModeKeywords, keywordsInstruction, 0.0},
	}
	for _, tc := range cases {
		p, err := Build(tc.mode, "input text")
		if err != nil {
			t.Fatalf("Build(%s): %v", tc.mode, err)
		}
		if p.Mode != tc.mode || p.System != tc.wantSystem || p.Temperature != tc.wantTemp {
			t.Fatalf("Build(%s) = %+v, want system=%q temp=%v", tc.mode, p, tc.wantSystem, tc.wantTemp)
		}
		if p.Input != "input text" {
			t.Fatalf("Build(%s): input mangled: %q", tc.mode, p.Input)
		}
	}
}
