package services

import (
	"context"
	"regexp"
	"sort"

	"go.uber.org/zap"
)

// nerCharLimit bounds how much text is sent to the NER backend per
// document. Text beyond the cap is still redacted by the pattern rules.
const nerCharLimit = 100_000

// Span is a half-open [Start, End) byte range inside the analyzed text.
type Span struct {
	Start int
	End   int
}

// PersonRecognizer detects PERSON name spans in text. Implementations are
// expected to be safe for concurrent use.
type PersonRecognizer interface {
	DetectPersons(ctx context.Context, text string) ([]Span, error)
}

var (
	emailRE    = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	phoneRE    = regexp.MustCompile(`\+?\d[\d \t\-().]{7,}\d`)
	dobRE      = regexp.MustCompile(`(?i)\b(?:Date\s+of\s+Birth|DOB|Born\s+on)[:\s]+\d{1,2}[/\-.]\d{1,2}[/\-.]\d{2,4}\b`)
	addressRE  = regexp.MustCompile(`(?i)\b\d{1,5}\s+[A-Za-z ]{3,40}(?:Street|St|Avenue|Ave|Road|Rd|Boulevard|Blvd|Lane|Ln|Drive|Dr|Court|Ct|Way|Place|Pl)\b`)
	linkedinRE = regexp.MustCompile(`(?i)linkedin\.com/in/[\w\-]+`)
	githubRE   = regexp.MustCompile(`(?i)github\.com/[\w\-]+`)
	urlRE      = regexp.MustCompile(`https?://\S+|www\.\S+`)
)

// Redactor masks personally identifying spans: PERSON names via the
// recognizer, plus emails, phones, DOB phrases, street addresses, profile
// URLs and remaining URLs via pattern rules. Skill, role and tool
// vocabulary is left untouched.
type Redactor struct {
	recognizer PersonRecognizer
	logger     *zap.Logger
}

// NewRedactor builds a redactor. A nil recognizer means pattern-only
// redaction.
func NewRedactor(recognizer PersonRecognizer, logger *zap.Logger) *Redactor {
	return &Redactor{recognizer: recognizer, logger: logger}
}

// Redact masks PII in cleaned resume text. If the NER backend is
// unavailable the pattern rules still run; redaction never fails the
// pipeline.
func (r *Redactor) Redact(ctx context.Context, text string) string {
	if text == "" {
		return ""
	}

	prefix := text
	remainder := ""
	if len(text) > nerCharLimit {
		prefix = text[:nerCharLimit]
		remainder = text[nerCharLimit:]
	}

	if r.recognizer != nil {
		spans, err := r.recognizer.DetectPersons(ctx, prefix)
		if err != nil {
			r.logger.Warn("person detection unavailable, using pattern redaction only", zap.Error(err))
		} else {
			prefix = maskSpans(prefix, spans)
		}
	}

	prefix = applyPatternRules(prefix)
	if remainder != "" {
		remainder = applyPatternRules(remainder)
	}
	return prefix + remainder
}

// maskSpans replaces spans in reverse offset order so earlier replacements
// do not shift the offsets of later ones. Overlapping spans collapse into
// the rightmost one.
func maskSpans(text string, spans []Span) string {
	sort.Slice(spans, func(i, j int) bool { return spans[i].Start > spans[j].Start })

	limit := len(text)
	for _, s := range spans {
		if s.Start < 0 || s.End > len(text) || s.Start >= s.End {
			continue
		}
		if s.End > limit {
			continue
		}
		text = text[:s.Start] + "[NAME]" + text[s.End:]
		limit = s.Start
	}
	return text
}

func applyPatternRules(text string) string {
	text = emailRE.ReplaceAllString(text, "[EMAIL]")
	text = phoneRE.ReplaceAllString(text, "[PHONE]")
	text = dobRE.ReplaceAllString(text, "[DOB REDACTED]")
	text = addressRE.ReplaceAllString(text, "[ADDRESS]")
	text = linkedinRE.ReplaceAllString(text, "linkedin.com/in/[PROFILE]")
	text = githubRE.ReplaceAllString(text, "github.com/[PROFILE]")
	text = urlRE.ReplaceAllString(text, "[URL]")
	return text
}
