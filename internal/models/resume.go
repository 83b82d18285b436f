package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID               uuid.UUID         `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OriginalFilename string            `gorm:"type:text;not null" json:"original_filename"`
	StoredPath       string            `gorm:"type:text;not null" json:"-"`
	ContentType      string            `gorm:"type:text;not null" json:"content_type"`
	SizeBytes        int64             `gorm:"not null" json:"size_bytes"`
	SHA256           string            `gorm:"type:varchar(64);index" json:"sha256"`
	RawText          *string           `gorm:"type:text" json:"-"`
	CleanedText      *string           `gorm:"type:text" json:"-"`
	RedactedText     *string           `gorm:"type:text" json:"redacted_text,omitempty"`
	Sections         map[string]string `gorm:"type:jsonb;serializer:json" json:"sections,omitempty"`
	ExtractionError  *string           `gorm:"type:text" json:"extraction_error,omitempty"`
	CreatedAt        time.Time         `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Resume) TableName() string {
	return "resumes"
}

// ScoringText returns the text used for matching, preferring the redacted
// form, then the cleaned form, then the raw extraction.
func (r *Resume) ScoringText() string {
	for _, t := range []*string{r.RedactedText, r.CleanedText, r.RawText} {
		if t != nil && strings.TrimSpace(*t) != "" {
			return *t
		}
	}
	return ""
}
