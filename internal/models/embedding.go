package models

import (
	"time"

	"github.com/google/uuid"
)

type OwnerKind string

const (
	OwnerKindResume OwnerKind = "resume"
	OwnerKindJob    OwnerKind = "job"
)

// EmbeddingOwner identifies the entity an embedding belongs to. It is a
// tagged value rather than a string pair so callers cannot construct an
// owner with an unknown kind.
type EmbeddingOwner struct {
	Kind OwnerKind
	ID   uuid.UUID
}

func ResumeOwner(id uuid.UUID) EmbeddingOwner {
	return EmbeddingOwner{Kind: OwnerKindResume, ID: id}
}

func JobOwner(id uuid.UUID) EmbeddingOwner {
	return EmbeddingOwner{Kind: OwnerKindJob, ID: id}
}

// Embedding caches one vector per owning entity. The unique index enforces
// at most one row per (owner_kind, owner_id); rows are written once and
// never overwritten.
type Embedding struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	OwnerKind OwnerKind `gorm:"type:varchar(16);not null;uniqueIndex:idx_embeddings_owner" json:"owner_kind"`
	OwnerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_embeddings_owner" json:"owner_id"`
	Vector    []float32 `gorm:"type:jsonb;serializer:json" json:"-"`
	ModelName string    `gorm:"type:varchar(256);not null" json:"model_name"`
	CreatedAt time.Time `gorm:"type:timestamp;default:now()" json:"created_at"`
}

func (Embedding) TableName() string {
	return "embeddings"
}
