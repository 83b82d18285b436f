package services

import "errors"

// Pipeline error kinds. Callers discriminate with errors.Is; everything else
// raised during an analysis is a generic failure recorded on the record.
var (
	// ErrUnsupportedFormat is returned for content types the extractor
	// does not handle.
	ErrUnsupportedFormat = errors.New("unsupported content type")

	// ErrExtractionFailed is returned when a document is unreadable or
	// yields no text after every extraction strategy.
	ErrExtractionFailed = errors.New("extraction failed")

	// ErrEmptyText is returned when no usable text reaches the scoring
	// stage.
	ErrEmptyText = errors.New("no extractable text")

	// ErrModelUnavailable is returned when the embedding or NER backend
	// is unreachable. Redaction degrades to pattern rules; embedding
	// failure is fatal to the analysis.
	ErrModelUnavailable = errors.New("model unavailable")
)
