package services

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/genai"
)

const (
	embeddingModel = "text-embedding-004"

	// embedCharBudget keeps inputs inside the embedding model's token
	// limit. Longer texts are truncated with a visible marker.
	embedCharBudget = 8000
)

// Embedder produces fixed-length unit vectors for text. Vectors from the
// same model are comparable via cosine similarity; identical input and
// model version yield identical vectors.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	ModelName() string
}

type geminiEmbedder struct {
	client *genai.Client
	model  string
}

func NewGeminiEmbedder(client *genai.Client) Embedder {
	return &geminiEmbedder{
		client: client,
		model:  embeddingModel,
	}
}

// ModelName implements Embedder.
func (g *geminiEmbedder) ModelName() string {
	return g.model
}

// Embed implements Embedder.
func (g *geminiEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	text = TruncateForEmbedding(text)

	result, err := g.client.Models.EmbedContent(ctx, g.model, genai.Text(text), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrModelUnavailable, err)
	}
	if result == nil || len(result.Embeddings) == 0 {
		return nil, fmt.Errorf("%w: empty embedding result", ErrModelUnavailable)
	}

	return normalizeVector(result.Embeddings[0].Values), nil
}

// TruncateForEmbedding caps text at the embedding character budget. The
// marker documents that truncation happened; it carries no semantics.
func TruncateForEmbedding(text string) string {
	if len(text) > embedCharBudget {
		return text[:embedCharBudget] + "... [truncated]"
	}
	return text
}

func normalizeVector(vec []float32) []float32 {
	var sum float64
	for _, v := range vec {
		sum += float64(v) * float64(v)
	}
	norm := math.Sqrt(sum)
	if norm == 0 {
		return vec
	}

	out := make([]float32, len(vec))
	for i, v := range vec {
		out[i] = float32(float64(v) / norm)
	}
	return out
}

// CosineSimilarity returns the cosine of the angle between two vectors in
// [-1, 1]. Either vector having zero norm yields exactly 0.0; this is the
// degenerate-input policy, not an error.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	for i := n; i < len(a); i++ {
		normA += float64(a[i]) * float64(a[i])
	}
	for i := n; i < len(b); i++ {
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// SimilarityToScore maps cosine similarity to a match percentage with the
// linear rule clamp((cos+1)/2*100, 0, 100), rounded to two decimals. The
// mapping is deliberately uncalibrated: 1 -> 100, 0 -> 50, -1 -> 0.
func SimilarityToScore(cosSim float64) float64 {
	score := (cosSim + 1.0) / 2.0 * 100.0
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}
	return math.Round(score*100) / 100
}

// MatchScore is the result of scoring one resume against one job.
type MatchScore struct {
	Score        float64
	ResumeVector []float32
	JobVector    []float32
}

// ComputeMatchScore scores resume text against job text, reusing any
// supplied cached vectors and embedding only the missing side(s).
func ComputeMatchScore(
	ctx context.Context,
	embedder Embedder,
	resumeText, jdText string,
	cachedResumeVec, cachedJobVec []float32,
) (MatchScore, error) {
	resumeVec := cachedResumeVec
	if resumeVec == nil {
		var err error
		resumeVec, err = embedder.Embed(ctx, resumeText)
		if err != nil {
			return MatchScore{}, fmt.Errorf("failed to embed resume text: %w", err)
		}
	}

	jobVec := cachedJobVec
	if jobVec == nil {
		var err error
		jobVec, err = embedder.Embed(ctx, jdText)
		if err != nil {
			return MatchScore{}, fmt.Errorf("failed to embed job description: %w", err)
		}
	}

	cosSim := CosineSimilarity(resumeVec, jobVec)
	return MatchScore{
		Score:        SimilarityToScore(cosSim),
		ResumeVector: resumeVec,
		JobVector:    jobVec,
	}, nil
}
