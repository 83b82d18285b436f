package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"resumatch/internal/models"
)

type EmbeddingRepository interface {
	// FindByOwner returns the cached embedding for an owner, or nil when
	// none has been stored yet.
	FindByOwner(owner models.EmbeddingOwner) (*models.Embedding, error)
	// CreateIfAbsent stores a new embedding unless one already exists for
	// the owner. Existing rows are never overwritten.
	CreateIfAbsent(embedding *models.Embedding) error
	FindAllByKind(kind models.OwnerKind) ([]models.Embedding, error)
}

type embeddingRepository struct {
	db *gorm.DB
}

func NewEmbeddingRepository(db *gorm.DB) EmbeddingRepository {
	return &embeddingRepository{db: db}
}

// FindByOwner implements EmbeddingRepository.
func (r *embeddingRepository) FindByOwner(owner models.EmbeddingOwner) (*models.Embedding, error) {
	var embedding models.Embedding
	err := r.db.
		Where("owner_kind = ? AND owner_id = ?", owner.Kind, owner.ID).
		First(&embedding).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find embedding: %w", err)
	}
	return &embedding, nil
}

// CreateIfAbsent implements EmbeddingRepository.
func (r *embeddingRepository) CreateIfAbsent(embedding *models.Embedding) error {
	existing, err := r.FindByOwner(models.EmbeddingOwner{Kind: embedding.OwnerKind, ID: embedding.OwnerID})
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	if err := r.db.Create(embedding).Error; err != nil {
		// A concurrent writer may have won the race against the unique
		// index; the cache entry exists either way.
		if raced, lookupErr := r.FindByOwner(models.EmbeddingOwner{Kind: embedding.OwnerKind, ID: embedding.OwnerID}); lookupErr == nil && raced != nil {
			return nil
		}
		return fmt.Errorf("failed to create embedding: %w", err)
	}
	return nil
}

// FindAllByKind implements EmbeddingRepository.
func (r *embeddingRepository) FindAllByKind(kind models.OwnerKind) ([]models.Embedding, error) {
	var embeddings []models.Embedding
	if err := r.db.Where("owner_kind = ?", kind).Find(&embeddings).Error; err != nil {
		return nil, fmt.Errorf("failed to list embeddings: %w", err)
	}
	return embeddings, nil
}
