package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

const resumeVectorSize = 768

// SimilarResume is one hit from a vector-index search.
type SimilarResume struct {
	ResumeID string
	Filename string
	Score    float32
}

// VectorIndex maintains a searchable index of resume embeddings. Indexing
// is best-effort: the analysis cache in Postgres stays authoritative and
// an index failure never fails an analysis.
type VectorIndex interface {
	EnsureCollection(ctx context.Context) error
	IndexResume(ctx context.Context, resumeID uuid.UUID, filename string, vector []float32) error
	SimilarResumes(ctx context.Context, vector []float32, limit int, exclude uuid.UUID) ([]SimilarResume, error)
}

type qdrantIndex struct {
	client         *qdrant.Client
	collectionName string
	logger         *zap.Logger
}

func NewQdrantIndex(urlStr, apiKey, collectionName string, logger *zap.Logger) (VectorIndex, error) {
	parsed, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid Qdrant URL: %w", err)
	}

	host := parsed.Hostname()
	useTLS := parsed.Scheme == "https"

	// gRPC port; the REST port in the URL is ignored unless overridden.
	port := 6334
	if p := parsed.Port(); p != "" {
		if v, err := strconv.Atoi(p); err == nil {
			port = v
		}
	}

	client, err := qdrant.NewClient(&qdrant.Config{
		Host:   host,
		Port:   port,
		APIKey: apiKey,
		UseTLS: useTLS,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	return &qdrantIndex{
		client:         client,
		collectionName: collectionName,
		logger:         logger,
	}, nil
}

// EnsureCollection implements VectorIndex.
func (q *qdrantIndex) EnsureCollection(ctx context.Context) error {
	exists, err := q.client.CollectionExists(ctx, q.collectionName)
	if err != nil {
		return fmt.Errorf("failed to check collection: %w", err)
	}
	if exists {
		return nil
	}

	err = q.client.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: q.collectionName,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     resumeVectorSize,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	q.logger.Info("qdrant collection created", zap.String("collection", q.collectionName))
	return nil
}

// IndexResume implements VectorIndex. The point ID is the resume ID, so
// re-indexing the same resume is a no-op overwrite of identical data.
func (q *qdrantIndex) IndexResume(ctx context.Context, resumeID uuid.UUID, filename string, vector []float32) error {
	point := &qdrant.PointStruct{
		Id:      qdrant.NewID(resumeID.String()),
		Vectors: qdrant.NewVectors(vector...),
		Payload: qdrant.NewValueMap(map[string]interface{}{
			"resume_id": resumeID.String(),
			"filename":  filename,
		}),
	}

	_, err := q.client.Upsert(ctx, &qdrant.UpsertPoints{
		CollectionName: q.collectionName,
		Points:         []*qdrant.PointStruct{point},
	})
	if err != nil {
		return fmt.Errorf("failed to upsert resume vector: %w", err)
	}
	return nil
}

// SimilarResumes implements VectorIndex.
func (q *qdrantIndex) SimilarResumes(ctx context.Context, vector []float32, limit int, exclude uuid.UUID) ([]SimilarResume, error) {
	filter := &qdrant.Filter{
		MustNot: []*qdrant.Condition{
			qdrant.NewMatch("resume_id", exclude.String()),
		},
	}

	points, err := q.client.Query(ctx, &qdrant.QueryPoints{
		CollectionName: q.collectionName,
		Query:          qdrant.NewQuery(vector...),
		Filter:         filter,
		Limit:          qdrant.PtrOf(uint64(limit)),
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search resume vectors: %w", err)
	}

	var results []SimilarResume
	for _, point := range points {
		result := SimilarResume{Score: point.Score}

		if id, ok := point.Payload["resume_id"]; ok {
			if val, ok := id.GetKind().(*qdrant.Value_StringValue); ok {
				result.ResumeID = val.StringValue
			}
		}
		if name, ok := point.Payload["filename"]; ok {
			if val, ok := name.GetKind().(*qdrant.Value_StringValue); ok {
				result.Filename = val.StringValue
			}
		}

		results = append(results, result)
	}
	return results, nil
}
