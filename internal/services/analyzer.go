package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"resumatch/internal/models"
	"resumatch/internal/repositories"
)

// AnalyzerService drives the full match pipeline for one (resume, job)
// pair and resolves batch ranking and comparison requests.
type AnalyzerService interface {
	// Analyze runs the pipeline for an existing analysis record and
	// leaves it in a terminal state: done with all computed fields, or
	// failed with an error message.
	Analyze(ctx context.Context, analysisID uuid.UUID) error
	// Rank resolves analyses for the given resumes (all resumes when nil)
	// against a job and returns them sorted by score descending.
	Rank(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID) ([]models.Analysis, error)
	// Compare is Rank without the final score sort.
	Compare(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID) ([]models.Analysis, error)
}

type analyzerService struct {
	analysisRepo  repositories.AnalysisRepository
	resumeRepo    repositories.ResumeRepository
	jobRepo       repositories.JobRepository
	embeddingRepo repositories.EmbeddingRepository
	embedder      Embedder
	taxonomy      *Taxonomy
	vectorIndex   VectorIndex
	logger        *zap.Logger
}

func NewAnalyzerService(
	analysisRepo repositories.AnalysisRepository,
	resumeRepo repositories.ResumeRepository,
	jobRepo repositories.JobRepository,
	embeddingRepo repositories.EmbeddingRepository,
	embedder Embedder,
	taxonomy *Taxonomy,
	vectorIndex VectorIndex,
	logger *zap.Logger,
) AnalyzerService {
	return &analyzerService{
		analysisRepo:  analysisRepo,
		resumeRepo:    resumeRepo,
		jobRepo:       jobRepo,
		embeddingRepo: embeddingRepo,
		embedder:      embedder,
		taxonomy:      taxonomy,
		vectorIndex:   vectorIndex,
		logger:        logger,
	}
}

// Analyze implements AnalyzerService.
func (s *analyzerService) Analyze(ctx context.Context, analysisID uuid.UUID) error {
	if err := s.analysisRepo.UpdateStatus(analysisID, models.StatusRunning); err != nil {
		return fmt.Errorf("failed to mark analysis running: %w", err)
	}

	analysis, err := s.analysisRepo.FindByID(analysisID)
	if err != nil {
		return fmt.Errorf("failed to load analysis: %w", err)
	}

	resume, err := s.resumeRepo.FindByID(analysis.ResumeID)
	if err != nil {
		return s.fail(analysisID, fmt.Errorf("resume not found: %w", err))
	}

	job, err := s.jobRepo.FindByID(analysis.JobID)
	if err != nil {
		return s.fail(analysisID, fmt.Errorf("job not found: %w", err))
	}

	if err := s.runPipeline(ctx, analysis, resume, job); err != nil {
		return s.fail(analysisID, err)
	}

	s.logger.Info("analysis completed",
		zap.String("analysis_id", analysisID.String()),
		zap.String("resume_id", resume.ID.String()),
		zap.String("job_id", job.ID.String()),
	)
	return nil
}

// fail records the triggering error on the analysis so it is never left in
// a non-terminal state.
func (s *analyzerService) fail(analysisID uuid.UUID, cause error) error {
	if err := s.analysisRepo.UpdateError(analysisID, cause.Error()); err != nil {
		s.logger.Error("failed to record analysis error",
			zap.String("analysis_id", analysisID.String()),
			zap.Error(err),
		)
	}
	return cause
}

func (s *analyzerService) runPipeline(ctx context.Context, analysis *models.Analysis, resume *models.Resume, job *models.Job) error {
	resumeText := resume.ScoringText()
	if strings.TrimSpace(resumeText) == "" {
		return fmt.Errorf("%w: resume %s", ErrEmptyText, resume.ID)
	}
	jdText := job.Description

	resumeOwner := models.ResumeOwner(resume.ID)
	jobOwner := models.JobOwner(job.ID)

	cachedResume, err := s.embeddingRepo.FindByOwner(resumeOwner)
	if err != nil {
		return err
	}
	cachedJob, err := s.embeddingRepo.FindByOwner(jobOwner)
	if err != nil {
		return err
	}

	var resumeVec, jobVec []float32
	if cachedResume != nil {
		resumeVec = cachedResume.Vector
	}
	if cachedJob != nil {
		jobVec = cachedJob.Vector
	}

	match, err := ComputeMatchScore(ctx, s.embedder, resumeText, jdText, resumeVec, jobVec)
	if err != nil {
		return err
	}

	if cachedResume == nil {
		if err := s.storeEmbedding(resumeOwner, match.ResumeVector); err != nil {
			return err
		}
		s.indexResumeVector(ctx, resume, match.ResumeVector)
	}
	if cachedJob == nil {
		if err := s.storeEmbedding(jobOwner, match.JobVector); err != nil {
			return err
		}
	}

	skills, err := s.taxonomy.Skills()
	if err != nil {
		return fmt.Errorf("failed to load skills taxonomy: %w", err)
	}
	resumeSkills := ExtractSkills(resumeText, skills)
	jobSkills := ExtractSkills(jdText, skills)
	matching, missing := Overlap(resumeSkills, jobSkills)

	sections := resume.Sections
	if len(sections) == 0 {
		sections = Segment(resumeText)
	}

	explanation := BuildExplanation(matching, missing, match.Score, sections)
	suggestions := BuildSuggestions(missing, sections, match.Score)

	result := &repositories.AnalysisResultData{
		MatchScorePercent: match.Score,
		MatchingSkills:    matching,
		MissingSkills:     missing,
		SectionSummary:    SummarizeSections(sections),
		Explanation:       explanation,
		Suggestions:       suggestions,
	}
	if err := s.analysisRepo.UpdateResult(analysis.ID, result); err != nil {
		return fmt.Errorf("failed to save analysis result: %w", err)
	}
	return nil
}

func (s *analyzerService) storeEmbedding(owner models.EmbeddingOwner, vector []float32) error {
	embedding := &models.Embedding{
		ID:        uuid.New(),
		OwnerKind: owner.Kind,
		OwnerID:   owner.ID,
		Vector:    vector,
		ModelName: s.embedder.ModelName(),
	}
	if err := s.embeddingRepo.CreateIfAbsent(embedding); err != nil {
		return fmt.Errorf("failed to cache %s embedding: %w", owner.Kind, err)
	}
	return nil
}

// indexResumeVector mirrors newly computed resume vectors into the vector
// index. Best-effort only.
func (s *analyzerService) indexResumeVector(ctx context.Context, resume *models.Resume, vector []float32) {
	if s.vectorIndex == nil {
		return
	}
	if err := s.vectorIndex.IndexResume(ctx, resume.ID, resume.OriginalFilename, vector); err != nil {
		s.logger.Warn("failed to index resume vector",
			zap.String("resume_id", resume.ID.String()),
			zap.Error(err),
		)
	}
}

// Rank implements AnalyzerService.
func (s *analyzerService) Rank(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID) ([]models.Analysis, error) {
	return s.resolveBatch(ctx, jobID, resumeIDs, true)
}

// Compare implements AnalyzerService.
func (s *analyzerService) Compare(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID) ([]models.Analysis, error) {
	return s.resolveBatch(ctx, jobID, resumeIDs, false)
}

// resolveBatch reuses the existing analysis for each (resume, job) pair and
// runs a fresh one otherwise. Resumes whose fresh analysis fails are
// logged and skipped; one failure never aborts the batch.
func (s *analyzerService) resolveBatch(ctx context.Context, jobID uuid.UUID, resumeIDs []uuid.UUID, sortByScore bool) ([]models.Analysis, error) {
	if _, err := s.jobRepo.FindByID(jobID); err != nil {
		return nil, err
	}

	var resumes []models.Resume
	var err error
	if len(resumeIDs) > 0 {
		resumes, err = s.resumeRepo.FindByIDs(resumeIDs)
	} else {
		resumes, err = s.resumeRepo.FindAll()
	}
	if err != nil {
		return nil, err
	}

	analyses := make([]models.Analysis, 0, len(resumes))
	for _, resume := range resumes {
		existing, err := s.analysisRepo.FindByPair(resume.ID, jobID)
		if err != nil {
			s.logger.Warn("failed to look up existing analysis, skipping resume",
				zap.String("resume_id", resume.ID.String()),
				zap.Error(err),
			)
			continue
		}
		if existing != nil {
			analyses = append(analyses, *existing)
			continue
		}

		analysis := &models.Analysis{
			ID:       uuid.New(),
			ResumeID: resume.ID,
			JobID:    jobID,
			Status:   models.StatusRunning,
		}
		if err := s.analysisRepo.Create(analysis); err != nil {
			s.logger.Warn("failed to create analysis, skipping resume",
				zap.String("resume_id", resume.ID.String()),
				zap.Error(err),
			)
			continue
		}

		if err := s.Analyze(ctx, analysis.ID); err != nil {
			s.logger.Warn("analysis failed for resume, skipping",
				zap.String("resume_id", resume.ID.String()),
				zap.Error(err),
			)
			continue
		}

		completed, err := s.analysisRepo.FindByID(analysis.ID)
		if err != nil {
			s.logger.Warn("failed to reload completed analysis",
				zap.String("analysis_id", analysis.ID.String()),
				zap.Error(err),
			)
			continue
		}
		analyses = append(analyses, *completed)
	}

	if sortByScore {
		// Stable: ties keep the order resumes were processed in.
		sort.SliceStable(analyses, func(i, j int) bool {
			return scoreOf(&analyses[i]) > scoreOf(&analyses[j])
		})
	}
	return analyses, nil
}

// scoreOf sorts analyses with no score (reused failed records) to the
// bottom.
func scoreOf(a *models.Analysis) float64 {
	if a.MatchScorePercent == nil {
		return -1
	}
	return *a.MatchScorePercent
}
