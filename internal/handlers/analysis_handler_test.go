package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
	"resumatch/internal/services"
)

type stubBatchAnalyzer struct {
	analyses []models.Analysis
	err      error
}

func (s *stubBatchAnalyzer) Analyze(ctx context.Context, analysisID uuid.UUID) error {
	return nil
}

func (s *stubBatchAnalyzer) Rank(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID) ([]models.Analysis, error) {
	return s.analyses, s.err
}

func (s *stubBatchAnalyzer) Compare(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID) ([]models.Analysis, error) {
	return s.analyses, s.err
}

type fakeResumeLookup struct {
	resumes        map[uuid.UUID]models.Resume
	findByIDCalls  int
	findByIDsCalls int
}

func (f *fakeResumeLookup) Create(resume *models.Resume) error { return nil }

func (f *fakeResumeLookup) FindByID(id uuid.UUID) (*models.Resume, error) {
	f.findByIDCalls++
	if r, ok := f.resumes[id]; ok {
		return &r, nil
	}
	return nil, fmt.Errorf("resume not found: %w", repositories.ErrNotFound)
}

func (f *fakeResumeLookup) FindByIDs(ids []uuid.UUID) ([]models.Resume, error) {
	f.findByIDsCalls++
	var out []models.Resume
	for _, id := range ids {
		if r, ok := f.resumes[id]; ok {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeResumeLookup) FindAll() ([]models.Resume, error)               { return nil, nil }
func (f *fakeResumeLookup) List(offset, limit int) ([]models.Resume, error) { return nil, nil }
func (f *fakeResumeLookup) Count() (int64, error)                           { return 0, nil }

func newBatchTestApp(analyzer services.AnalyzerService, resumeRepo repositories.ResumeRepository) *fiber.App {
	h := NewAnalysisHandler(nil, resumeRepo, nil, nil, analyzer, nil, nil)
	app := fiber.New()
	app.Post("/jobs/:id/rank", h.HandleRank)
	app.Post("/compare", h.HandleCompare)
	return app
}

func TestHandleRankJobNotFound(t *testing.T) {
	analyzer := &stubBatchAnalyzer{err: fmt.Errorf("job not found: %w", repositories.ErrNotFound)}
	app := newBatchTestApp(analyzer, &fakeResumeLookup{})

	req := httptest.NewRequest("POST", "/jobs/"+uuid.New().String()+"/rank", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusNotFound {
		t.Errorf("status = %d, want %d", resp.StatusCode, fiber.StatusNotFound)
	}
}

func TestHandleRankInternalError(t *testing.T) {
	analyzer := &stubBatchAnalyzer{err: errors.New("connection refused")}
	app := newBatchTestApp(analyzer, &fakeResumeLookup{})

	req := httptest.NewRequest("POST", "/jobs/"+uuid.New().String()+"/rank", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusInternalServerError {
		t.Errorf("repository failures must not read as 404: status = %d, want %d",
			resp.StatusCode, fiber.StatusInternalServerError)
	}
}

func TestHandleRankBatchesFilenameLookup(t *testing.T) {
	first := models.Resume{ID: uuid.New(), OriginalFilename: "alice.pdf"}
	second := models.Resume{ID: uuid.New(), OriginalFilename: "bob.docx"}
	repo := &fakeResumeLookup{resumes: map[uuid.UUID]models.Resume{
		first.ID:  first,
		second.ID: second,
	}}

	highScore := 90.0
	lowScore := 40.0
	analyzer := &stubBatchAnalyzer{analyses: []models.Analysis{
		{ID: uuid.New(), ResumeID: first.ID, JobID: uuid.New(), Status: models.StatusDone, MatchScorePercent: &highScore},
		{ID: uuid.New(), ResumeID: second.ID, JobID: uuid.New(), Status: models.StatusDone, MatchScorePercent: &lowScore},
	}}
	app := newBatchTestApp(analyzer, repo)

	req := httptest.NewRequest("POST", "/jobs/"+uuid.New().String()+"/rank", nil)
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, fiber.StatusOK)
	}

	var body models.RankResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(body.Ranked) != 2 {
		t.Fatalf("expected 2 ranked items, got %d", len(body.Ranked))
	}
	if body.Ranked[0].OriginalFilename != "alice.pdf" || body.Ranked[1].OriginalFilename != "bob.docx" {
		t.Errorf("filenames = %q, %q", body.Ranked[0].OriginalFilename, body.Ranked[1].OriginalFilename)
	}

	// Filenames resolve with one batch query, never per analysis.
	if repo.findByIDsCalls != 1 {
		t.Errorf("FindByIDs calls = %d, want 1", repo.findByIDsCalls)
	}
	if repo.findByIDCalls != 0 {
		t.Errorf("FindByID calls = %d, want 0", repo.findByIDCalls)
	}
}

func TestHandleCompareStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		analyzeErr error
		wantStatus int
	}{
		{"unknown job", fmt.Errorf("job not found: %w", repositories.ErrNotFound), fiber.StatusNotFound},
		{"repository failure", errors.New("connection refused"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &stubBatchAnalyzer{err: tt.analyzeErr}
			app := newBatchTestApp(analyzer, &fakeResumeLookup{})

			payload, _ := json.Marshal(models.CompareRequest{JobID: uuid.New().String()})
			req := httptest.NewRequest("POST", "/compare", bytes.NewReader(payload))
			req.Header.Set("Content-Type", "application/json")

			resp, err := app.Test(req)
			if err != nil {
				t.Fatalf("request failed: %v", err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}
