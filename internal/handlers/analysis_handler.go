package handlers

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
	"resumatch/internal/services"
)

const similarResultLimit = 5

type AnalysisHandler struct {
	analysisRepo  repositories.AnalysisRepository
	resumeRepo    repositories.ResumeRepository
	jobRepo       repositories.JobRepository
	embeddingRepo repositories.EmbeddingRepository
	analyzer      services.AnalyzerService
	worker        services.Worker
	vectorIndex   services.VectorIndex
}

func NewAnalysisHandler(
	analysisRepo repositories.AnalysisRepository,
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	embeddingRepo repositories.EmbeddingRepository,
	analyzer services.AnalyzerService,
	worker services.Worker,
	vectorIndex services.VectorIndex,
) *AnalysisHandler {
	return &AnalysisHandler{
		analysisRepo:  analysisRepo,
		resumeRepo:    resumeRepo,
		jobRepo:       jobRepo,
		embeddingRepo: embeddingRepo,
		analyzer:      analyzer,
		worker:        worker,
		vectorIndex:   vectorIndex,
	}
}

// HandleAnalyze handles POST /analyze. An existing analysis for the pair
// is returned as-is unless it failed, in which case a fresh attempt is
// queued.
func (h *AnalysisHandler) HandleAnalyze(c *fiber.Ctx) error {
	var req models.AnalyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	resumeID, err := uuid.Parse(req.ResumeID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume_id format",
		})
	}
	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job_id format",
		})
	}

	resume, err := h.resumeRepo.FindByID(resumeID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up resume",
		})
	}
	if _, err := h.jobRepo.FindByID(jobID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up job",
		})
	}

	if strings.TrimSpace(resume.ScoringText()) == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "resume has no extractable text and cannot be analyzed",
		})
	}

	existing, err := h.analysisRepo.FindByPair(resumeID, jobID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up existing analysis",
		})
	}
	if existing != nil && existing.Status != models.StatusFailed {
		return c.JSON(models.AnalysisResponseFrom(existing))
	}

	analysis := models.Analysis{
		ID:        uuid.New(),
		ResumeID:  resumeID,
		JobID:     jobID,
		Status:    models.StatusQueued,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	if err := h.analysisRepo.Create(&analysis); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to create analysis",
		})
	}

	h.worker.Enqueue(analysis.ID)

	return c.Status(fiber.StatusAccepted).JSON(models.AnalysisResponseFrom(&analysis))
}

// HandleGetAnalysis handles GET /analyses/:id.
func (h *AnalysisHandler) HandleGetAnalysis(c *fiber.Ctx) error {
	analysisID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid analysis ID format",
		})
	}

	analysis, err := h.analysisRepo.FindByID(analysisID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "analysis not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up analysis",
		})
	}

	return c.JSON(models.AnalysisResponseFrom(analysis))
}

// HandleRank handles POST /jobs/:id/rank.
func (h *AnalysisHandler) HandleRank(c *fiber.Ctx) error {
	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job ID format",
		})
	}

	var req models.RankRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid request payload",
			})
		}
	}

	resumeIDs, err := parseUUIDs(req.ResumeIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	analyses, err := h.analyzer.Rank(c.Context(), jobID, resumeIDs)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to rank resumes",
		})
	}

	filenames, err := h.resumeFilenames(analyses)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up resumes",
		})
	}

	ranked := make([]models.RankItem, 0, len(analyses))
	for i := range analyses {
		a := &analyses[i]
		ranked = append(ranked, models.RankItem{
			ResumeID:           a.ResumeID.String(),
			OriginalFilename:   filenames[a.ResumeID],
			MatchScorePercent:  a.MatchScorePercent,
			MatchingSkills:     a.MatchingSkills,
			MissingSkillsCount: len(a.MissingSkills),
			Explanation:        a.Explanation,
			AnalysisID:         a.ID.String(),
		})
	}

	return c.JSON(models.RankResponse{
		JobID:  jobID.String(),
		Ranked: ranked,
	})
}

// HandleCompare handles POST /compare.
func (h *AnalysisHandler) HandleCompare(c *fiber.Ctx) error {
	var req models.CompareRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request payload",
		})
	}

	jobID, err := uuid.Parse(req.JobID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid job_id format",
		})
	}

	resumeIDs, err := parseUUIDs(req.ResumeIDs)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	analyses, err := h.analyzer.Compare(c.Context(), jobID, resumeIDs)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "job not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to compare resumes",
		})
	}

	comparisons := make([]models.AnalysisResponse, 0, len(analyses))
	for i := range analyses {
		comparisons = append(comparisons, models.AnalysisResponseFrom(&analyses[i]))
	}

	return c.JSON(models.CompareResponse{
		JobID:       jobID.String(),
		Comparisons: comparisons,
	})
}

// HandleSimilarResumes handles GET /resumes/:id/similar.
func (h *AnalysisHandler) HandleSimilarResumes(c *fiber.Ctx) error {
	resumeID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid resume ID format",
		})
	}

	if _, err := h.resumeRepo.FindByID(resumeID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "resume not found",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up resume",
		})
	}

	embedding, err := h.embeddingRepo.FindByOwner(models.ResumeOwner(resumeID))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to look up resume embedding",
		})
	}
	if embedding == nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "resume has not been analyzed yet, no embedding available",
		})
	}

	if h.vectorIndex == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "vector index is not configured",
		})
	}

	hits, err := h.vectorIndex.SimilarResumes(c.Context(), embedding.Vector, similarResultLimit, resumeID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "vector index search failed",
		})
	}

	similar := make([]models.SimilarResumeItem, 0, len(hits))
	for _, hit := range hits {
		similar = append(similar, models.SimilarResumeItem{
			ResumeID:         hit.ResumeID,
			OriginalFilename: hit.Filename,
			Score:            hit.Score,
		})
	}

	return c.JSON(models.SimilarResumesResponse{
		ResumeID: resumeID.String(),
		Similar:  similar,
	})
}

// resumeFilenames resolves original filenames for a batch of analyses with
// a single lookup.
func (h *AnalysisHandler) resumeFilenames(analyses []models.Analysis) (map[uuid.UUID]string, error) {
	if len(analyses) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(analyses))
	for i := range analyses {
		ids = append(ids, analyses[i].ResumeID)
	}
	resumes, err := h.resumeRepo.FindByIDs(ids)
	if err != nil {
		return nil, err
	}
	filenames := make(map[uuid.UUID]string, len(resumes))
	for i := range resumes {
		filenames[resumes[i].ID] = resumes[i].OriginalFilename
	}
	return filenames, nil
}

func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fiber.NewError(fiber.StatusBadRequest, "invalid resume ID in resume_ids: "+s)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
