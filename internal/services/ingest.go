package services

import (
	"context"

	"go.uber.org/zap"
)

// IngestResult carries the derived text fields for an uploaded document.
// On extraction failure only Err is set; a document with no extractable
// text is still persisted by the caller, it just cannot be analyzed.
type IngestResult struct {
	RawText      string
	CleanedText  string
	RedactedText string
	Sections     map[string]string
	Err          error
}

type IngestService interface {
	Ingest(ctx context.Context, path, contentType string) IngestResult
}

type ingestService struct {
	extractor ExtractorService
	redactor  *Redactor
	logger    *zap.Logger
}

func NewIngestService(extractor ExtractorService, redactor *Redactor, logger *zap.Logger) IngestService {
	return &ingestService{
		extractor: extractor,
		redactor:  redactor,
		logger:    logger,
	}
}

// Ingest runs the document pipeline once per upload: extract, clean,
// redact, then segment the redacted text.
func (s *ingestService) Ingest(ctx context.Context, path, contentType string) IngestResult {
	raw, err := s.extractor.Extract(path, contentType)
	if err != nil {
		s.logger.Warn("document extraction failed",
			zap.String("path", path),
			zap.String("content_type", contentType),
			zap.Error(err),
		)
		return IngestResult{Err: err}
	}

	cleaned := Clean(raw)
	redacted := s.redactor.Redact(ctx, cleaned)
	sections := Segment(redacted)

	s.logger.Info("document ingested",
		zap.String("path", path),
		zap.Int("raw_chars", len(raw)),
		zap.Int("sections", len(sections)),
	)

	return IngestResult{
		RawText:      raw,
		CleanedText:  cleaned,
		RedactedText: redacted,
		Sections:     sections,
	}
}
