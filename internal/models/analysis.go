package models

import (
	"time"

	"github.com/google/uuid"
)

type AnalysisStatus string

const (
	StatusQueued  AnalysisStatus = "queued"
	StatusRunning AnalysisStatus = "running"
	StatusDone    AnalysisStatus = "done"
	StatusFailed  AnalysisStatus = "failed"
)

// Analysis is one match evaluation of a resume against a job description.
// Queued and running are transient; done and failed are terminal.
type Analysis struct {
	ID                uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	ResumeID          uuid.UUID         `gorm:"type:uuid;not null;index" json:"resume_id"`
	JobID             uuid.UUID         `gorm:"type:uuid;not null;index" json:"job_id"`
	Status            AnalysisStatus    `gorm:"type:varchar(20);not null;default:'queued'" json:"status"`
	MatchScorePercent *float64          `gorm:"type:decimal(5,2)" json:"match_score_percent,omitempty"`
	MatchingSkills    []string          `gorm:"type:jsonb;serializer:json" json:"matching_skills,omitempty"`
	MissingSkills     []string          `gorm:"type:jsonb;serializer:json" json:"missing_skills,omitempty"`
	SectionSummary    map[string]string `gorm:"type:jsonb;serializer:json" json:"section_summary,omitempty"`
	Explanation       *string           `gorm:"type:text" json:"explanation,omitempty"`
	Suggestions       []string          `gorm:"type:jsonb;serializer:json" json:"suggestions,omitempty"`
	ErrorMessage      *string           `gorm:"type:text" json:"error_message,omitempty"`
	CreatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt         time.Time         `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`

	// Relations
	Resume Resume `gorm:"foreignKey:ResumeID" json:"-"`
	Job    Job    `gorm:"foreignKey:JobID" json:"-"`
}

func (Analysis) TableName() string {
	return "analyses"
}

// Terminal reports whether the analysis reached a final state.
func (a *Analysis) Terminal() bool {
	return a.Status == StatusDone || a.Status == StatusFailed
}
