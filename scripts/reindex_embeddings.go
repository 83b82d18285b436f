package main

import (
	"context"
	"log"

	"resumatch/internal/config"
	"resumatch/internal/logger"
	"resumatch/internal/models"
	"resumatch/internal/repositories"
	"resumatch/internal/services"
)

// Rebuilds the vector index from the embeddings cached in Postgres.
// Useful after pointing at a fresh Qdrant instance or changing the
// collection name.
func main() {
	cfg := config.Load()

	zlog, err := logger.New(cfg.Server.Env)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zlog.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}

	resumeRepo := repositories.NewResumeRepository(db)
	embeddingRepo := repositories.NewEmbeddingRepository(db)

	vectorIndex, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, zlog)
	if err != nil {
		log.Fatalf("failed to initialize vector index: %v", err)
	}

	ctx := context.Background()
	if err := vectorIndex.EnsureCollection(ctx); err != nil {
		log.Fatalf("failed to initialize collection: %v", err)
	}

	embeddings, err := embeddingRepo.FindAllByKind(models.OwnerKindResume)
	if err != nil {
		log.Fatalf("failed to load resume embeddings: %v", err)
	}
	log.Printf("reindexing %d resume embeddings", len(embeddings))

	indexed := 0
	failed := 0
	for _, embedding := range embeddings {
		filename := ""
		if resume, err := resumeRepo.FindByID(embedding.OwnerID); err == nil {
			filename = resume.OriginalFilename
		}

		if err := vectorIndex.IndexResume(ctx, embedding.OwnerID, filename, embedding.Vector); err != nil {
			log.Printf("failed to index resume %s: %v", embedding.OwnerID, err)
			failed++
			continue
		}
		indexed++
	}

	log.Printf("reindex complete: %d indexed, %d failed", indexed, failed)
}
