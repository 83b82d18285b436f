package repositories

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"resumatch/internal/models"
)

type AnalysisRepository interface {
	Create(analysis *models.Analysis) error
	FindByID(id uuid.UUID) (*models.Analysis, error)
	// FindByPair returns the latest analysis for a (resume, job) pair
	// regardless of status, or nil when none exists.
	FindByPair(resumeID, jobID uuid.UUID) (*models.Analysis, error)
	UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error
	UpdateResult(id uuid.UUID, result *AnalysisResultData) error
	UpdateError(id uuid.UUID, errorMsg string) error
	FindPending(limit int) ([]models.Analysis, error)
}

// AnalysisResultData carries the computed fields written when an analysis
// transitions to done.
type AnalysisResultData struct {
	MatchScorePercent float64
	MatchingSkills    []string
	MissingSkills     []string
	SectionSummary    map[string]string
	Explanation       string
	Suggestions       []string
}

type analysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) AnalysisRepository {
	return &analysisRepository{db: db}
}

func (r *analysisRepository) Create(analysis *models.Analysis) error {
	if err := r.db.Create(analysis).Error; err != nil {
		return fmt.Errorf("failed to create analysis: %w", err)
	}
	return nil
}

func (r *analysisRepository) FindByID(id uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	if err := r.db.Where("id = ?", id).First(&analysis).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("analysis not found: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("failed to find analysis: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) FindByPair(resumeID, jobID uuid.UUID) (*models.Analysis, error) {
	var analysis models.Analysis
	err := r.db.
		Where("resume_id = ? AND job_id = ?", resumeID, jobID).
		Order("created_at DESC").
		First(&analysis).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find analysis for pair: %w", err)
	}
	return &analysis, nil
}

func (r *analysisRepository) UpdateStatus(id uuid.UUID, status models.AnalysisStatus) error {
	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}
	return nil
}

func (r *analysisRepository) UpdateResult(id uuid.UUID, data *AnalysisResultData) error {
	// Struct-based update so the JSON serializer applies to the jsonb
	// columns; Select forces writes even for empty slices.
	updates := models.Analysis{
		Status:            models.StatusDone,
		MatchScorePercent: &data.MatchScorePercent,
		MatchingSkills:    data.MatchingSkills,
		MissingSkills:     data.MissingSkills,
		SectionSummary:    data.SectionSummary,
		Explanation:       &data.Explanation,
		Suggestions:       data.Suggestions,
		UpdatedAt:         time.Now(),
	}
	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Select(
			"status", "match_score_percent", "matching_skills", "missing_skills",
			"section_summary", "explanation", "suggestions", "updated_at",
		).
		Updates(updates)

	if result.Error != nil {
		return fmt.Errorf("failed to update result: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}
	return nil
}

func (r *analysisRepository) UpdateError(id uuid.UUID, errorMsg string) error {
	result := r.db.Model(&models.Analysis{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":        models.StatusFailed,
			"error_message": errorMsg,
			"updated_at":    time.Now(),
		})

	if result.Error != nil {
		return fmt.Errorf("failed to update error: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("analysis not found")
	}
	return nil
}

func (r *analysisRepository) FindPending(limit int) ([]models.Analysis, error) {
	var analyses []models.Analysis
	err := r.db.
		Where("status = ?", models.StatusQueued).
		Order("created_at ASC").
		Limit(limit).
		Find(&analyses).Error
	if err != nil {
		return nil, fmt.Errorf("failed to find pending analyses: %w", err)
	}
	return analyses, nil
}
