package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
)

type stubRecognizer struct {
	spans []Span
	err   error
	calls int
}

func (s *stubRecognizer) DetectPersons(ctx context.Context, text string) ([]Span, error) {
	s.calls++
	return s.spans, s.err
}

func TestRedactPatternRules(t *testing.T) {
	r := NewRedactor(nil, zap.NewNop())

	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:     "email",
			input:    "Contact: jane.doe@example.com for details. Python expert.",
			contains: []string{"[EMAIL]", "Python expert"},
			absent:   []string{"jane.doe@example.com"},
		},
		{
			name:     "phone",
			input:    "Call me at +1 (555) 123-4567 anytime",
			contains: []string{"[PHONE]"},
			absent:   []string{"555"},
		},
		{
			name:     "date of birth",
			input:    "Date of Birth: 12/03/1990",
			contains: []string{"[DOB REDACTED]"},
			absent:   []string{"1990"},
		},
		{
			name:     "street address",
			input:    "Lives at 42 Elm Street in town",
			contains: []string{"[ADDRESS]"},
			absent:   []string{"42 Elm Street"},
		},
		{
			name:     "linkedin profile keeps host",
			input:    "See linkedin.com/in/jane-doe for history",
			contains: []string{"linkedin.com/in/[PROFILE]"},
			absent:   []string{"jane-doe"},
		},
		{
			name:     "github profile keeps host",
			input:    "Code at github.com/janedoe",
			contains: []string{"github.com/[PROFILE]"},
			absent:   []string{"janedoe"},
		},
		{
			name:     "generic url",
			input:    "Portfolio: https://janedoe.dev/projects",
			contains: []string{"[URL]"},
			absent:   []string{"janedoe.dev"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.Redact(context.Background(), tt.input)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("Redact(%q) = %q, want it to contain %q", tt.input, got, want)
				}
			}
			for _, gone := range tt.absent {
				if strings.Contains(got, gone) {
					t.Errorf("Redact(%q) = %q, %q should have been redacted", tt.input, got, gone)
				}
			}
		})
	}
}

func TestRedactEmptyInput(t *testing.T) {
	r := NewRedactor(&stubRecognizer{}, zap.NewNop())
	if got := r.Redact(context.Background(), ""); got != "" {
		t.Errorf("Redact(\"\") = %q, want empty", got)
	}
}

func TestRedactPersonSpans(t *testing.T) {
	text := "Jane Doe is a Python developer. Jane Doe lives nearby."
	rec := &stubRecognizer{spans: []Span{
		{Start: 0, End: 8},
		{Start: 32, End: 40},
	}}
	r := NewRedactor(rec, zap.NewNop())

	got := r.Redact(context.Background(), text)

	if strings.Contains(got, "Jane Doe") {
		t.Errorf("name still present: %q", got)
	}
	if strings.Count(got, "[NAME]") != 2 {
		t.Errorf("expected two [NAME] markers, got %q", got)
	}
	if !strings.Contains(got, "Python developer") {
		t.Errorf("skill vocabulary must survive redaction: %q", got)
	}
}

func TestRedactDegradesWhenRecognizerFails(t *testing.T) {
	rec := &stubRecognizer{err: errors.New("model unavailable")}
	r := NewRedactor(rec, zap.NewNop())

	got := r.Redact(context.Background(), "Reach jane@example.com about Python roles")

	if !strings.Contains(got, "[EMAIL]") {
		t.Errorf("pattern rules must still run on recognizer failure: %q", got)
	}
	if !strings.Contains(got, "Python") {
		t.Errorf("content beyond PII must survive: %q", got)
	}
}

func TestMaskSpansOutOfRangeIgnored(t *testing.T) {
	text := "short text"
	got := maskSpans(text, []Span{
		{Start: -1, End: 4},
		{Start: 5, End: 100},
		{Start: 7, End: 7},
	})
	if got != text {
		t.Errorf("invalid spans must be ignored, got %q", got)
	}
}

func TestMaskSpansOverlapCollapses(t *testing.T) {
	// Overlapping spans keep the rightmost replacement only.
	text := "abcdefghij"
	got := maskSpans(text, []Span{
		{Start: 2, End: 6},
		{Start: 4, End: 8},
	})
	if strings.Count(got, "[NAME]") != 1 {
		t.Errorf("overlapping spans should collapse to one marker, got %q", got)
	}
}
