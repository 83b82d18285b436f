package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumatch/internal/models"
)

// directionEmbedder gives resumes that mention FastAPI a vector at a fixed
// angle to everything else, so the chain test lands on a score strictly
// between the extremes.
type directionEmbedder struct{}

func (directionEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if strings.Contains(text, "FastAPI") {
		return []float32{0.8, 0.6}, nil
	}
	return []float32{1, 0}, nil
}

func (directionEmbedder) ModelName() string { return "direction-embedder" }

const ingestDOCXBody = `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>Jane Candidate</w:t></w:r></w:p>
    <w:p><w:r><w:t>jane.candidate@example.com</w:t></w:r></w:p>
    <w:p><w:r><w:t>Skills</w:t></w:r></w:p>
    <w:p><w:r><w:t>Python, FastAPI, PostgreSQL</w:t></w:r></w:p>
  </w:body>
</w:document>`

// TestIngestThenAnalyze walks one document through the whole chain: DOCX
// extraction, cleaning, redaction and segmentation via Ingest, then a full
// match analysis against a job description over the ingested fields.
func TestIngestThenAnalyze(t *testing.T) {
	path := writeTestDOCX(t, ingestDOCXBody)

	ingest := NewIngestService(NewExtractorService(), NewRedactor(nil, zap.NewNop()), zap.NewNop())
	result := ingest.Ingest(context.Background(), path, ContentTypeDOCX)
	if result.Err != nil {
		t.Fatalf("unexpected ingest error: %v", result.Err)
	}

	if !strings.Contains(result.RawText, "Python, FastAPI, PostgreSQL") {
		t.Fatalf("raw text missing skills line:\n%s", result.RawText)
	}
	if !strings.Contains(result.RedactedText, "[EMAIL]") ||
		strings.Contains(result.RedactedText, "jane.candidate@example.com") {
		t.Errorf("email must be masked in redacted text:\n%s", result.RedactedText)
	}
	if _, ok := result.Sections["skills"]; !ok {
		t.Fatalf("expected a skills section, got %v", result.Sections)
	}

	taxonomyPath := writeSkillsFile(t, `
- python
- docker
- postgresql
- fastapi
`)

	analysisRepo := newFakeAnalysisRepo()
	resumeRepo := newFakeResumeRepo()
	jobRepo := newFakeJobRepo()
	analyzer := NewAnalyzerService(
		analysisRepo,
		resumeRepo,
		jobRepo,
		newFakeEmbeddingRepo(),
		directionEmbedder{},
		NewTaxonomy(taxonomyPath),
		nil,
		zap.NewNop(),
	)

	resume := &models.Resume{
		ID:               uuid.New(),
		OriginalFilename: "resume.docx",
		ContentType:      ContentTypeDOCX,
		RedactedText:     &result.RedactedText,
		Sections:         result.Sections,
	}
	resumeRepo.Create(resume)

	job := &models.Job{ID: uuid.New(), Description: "Looking for Python, Docker and PostgreSQL engineers."}
	jobRepo.Create(job)

	analysis := &models.Analysis{
		ID:       uuid.New(),
		ResumeID: resume.ID,
		JobID:    job.ID,
		Status:   models.StatusQueued,
	}
	analysisRepo.Create(analysis)

	if err := analyzer.Analyze(context.Background(), analysis.ID); err != nil {
		t.Fatalf("unexpected analyze error: %v", err)
	}

	got, _ := analysisRepo.FindByID(analysis.ID)
	if got.Status != models.StatusDone {
		t.Fatalf("status = %s, want done", got.Status)
	}
	if want := []string{"postgresql", "python"}; len(got.MatchingSkills) != 2 ||
		got.MatchingSkills[0] != want[0] || got.MatchingSkills[1] != want[1] {
		t.Errorf("matching skills = %v, want %v", got.MatchingSkills, want)
	}
	if len(got.MissingSkills) != 1 || got.MissingSkills[0] != "docker" {
		t.Errorf("missing skills = %v, want [docker]", got.MissingSkills)
	}
	if got.MatchScorePercent == nil {
		t.Fatal("expected a match score")
	}
	if *got.MatchScorePercent != 90.0 {
		t.Errorf("score = %v, want 90", *got.MatchScorePercent)
	}
	if *got.MatchScorePercent <= 0 || *got.MatchScorePercent >= 100 {
		t.Errorf("a partial match must score strictly between 0 and 100, got %v", *got.MatchScorePercent)
	}
	if _, ok := got.SectionSummary["skills"]; !ok {
		t.Errorf("section summary missing skills: %v", got.SectionSummary)
	}
}

func TestIngestExtractionFailure(t *testing.T) {
	ingest := NewIngestService(NewExtractorService(), NewRedactor(nil, zap.NewNop()), zap.NewNop())

	result := ingest.Ingest(context.Background(), "/nonexistent/resume.docx", ContentTypeDOCX)
	if result.Err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if !errors.Is(result.Err, ErrExtractionFailed) {
		t.Errorf("expected ErrExtractionFailed, got %v", result.Err)
	}
	if result.RawText != "" || result.CleanedText != "" || result.RedactedText != "" {
		t.Error("a failed extraction must not leave partial text fields")
	}
	if result.Sections != nil {
		t.Errorf("a failed extraction must not produce sections: %v", result.Sections)
	}
}
