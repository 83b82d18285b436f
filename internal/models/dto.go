package models

import "time"

type ResumeUploadResponse struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	SHA256           string    `json:"sha256"`
	ExtractionStatus string    `json:"extraction_status"`
	ExtractionError  *string   `json:"extraction_error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type ResumeListItem struct {
	ID               string    `json:"id"`
	OriginalFilename string    `json:"original_filename"`
	ContentType      string    `json:"content_type"`
	SizeBytes        int64     `json:"size_bytes"`
	ExtractionError  *string   `json:"extraction_error,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

type ResumeListResponse struct {
	Items    []ResumeListItem `json:"items"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

type JobCreateRequest struct {
	Title       *string `json:"title"`
	Description string  `json:"description"`
}

type AnalyzeRequest struct {
	ResumeID string `json:"resume_id"`
	JobID    string `json:"job_id"`
}

type AnalysisResponse struct {
	ID                string            `json:"id"`
	ResumeID          string            `json:"resume_id"`
	JobID             string            `json:"job_id"`
	Status            string            `json:"status"`
	MatchScorePercent *float64          `json:"match_score_percent,omitempty"`
	MatchingSkills    []string          `json:"matching_skills,omitempty"`
	MissingSkills     []string          `json:"missing_skills,omitempty"`
	SectionSummary    map[string]string `json:"section_summary,omitempty"`
	Explanation       *string           `json:"explanation,omitempty"`
	Suggestions       []string          `json:"suggestions,omitempty"`
	ErrorMessage      *string           `json:"error_message,omitempty"`
	CreatedAt         time.Time         `json:"created_at"`
	UpdatedAt         time.Time         `json:"updated_at"`
}

// AnalysisResponseFrom flattens an Analysis row into its API shape.
func AnalysisResponseFrom(a *Analysis) AnalysisResponse {
	return AnalysisResponse{
		ID:                a.ID.String(),
		ResumeID:          a.ResumeID.String(),
		JobID:             a.JobID.String(),
		Status:            string(a.Status),
		MatchScorePercent: a.MatchScorePercent,
		MatchingSkills:    a.MatchingSkills,
		MissingSkills:     a.MissingSkills,
		SectionSummary:    a.SectionSummary,
		Explanation:       a.Explanation,
		Suggestions:       a.Suggestions,
		ErrorMessage:      a.ErrorMessage,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

type RankRequest struct {
	ResumeIDs []string `json:"resume_ids,omitempty"`
}

type RankItem struct {
	ResumeID           string   `json:"resume_id"`
	OriginalFilename   string   `json:"original_filename"`
	MatchScorePercent  *float64 `json:"match_score_percent,omitempty"`
	MatchingSkills     []string `json:"matching_skills,omitempty"`
	MissingSkillsCount int      `json:"missing_skills_count"`
	Explanation        *string  `json:"explanation,omitempty"`
	AnalysisID         string   `json:"analysis_id"`
}

type RankResponse struct {
	JobID  string     `json:"job_id"`
	Ranked []RankItem `json:"ranked"`
}

type CompareRequest struct {
	JobID     string   `json:"job_id"`
	ResumeIDs []string `json:"resume_ids,omitempty"`
}

type CompareResponse struct {
	JobID       string             `json:"job_id"`
	Comparisons []AnalysisResponse `json:"comparisons"`
}

type SimilarResumeItem struct {
	ResumeID         string  `json:"resume_id"`
	OriginalFilename string  `json:"original_filename"`
	Score            float32 `json:"score"`
}

type SimilarResumesResponse struct {
	ResumeID string              `json:"resume_id"`
	Similar  []SimilarResumeItem `json:"similar"`
}
