package services

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
)

type stubEmbedder struct {
	vectors map[string][]float32
	err     error
	calls   int
}

func (s *stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	if vec, ok := s.vectors[text]; ok {
		return vec, nil
	}
	return []float32{1, 0, 0}, nil
}

func (s *stubEmbedder) ModelName() string { return "stub-embedder" }

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{"identical vectors", []float32{1, 2, 3}, []float32{1, 2, 3}, 1.0},
		{"opposite vectors", []float32{1, 0}, []float32{-1, 0}, -1.0},
		{"orthogonal vectors", []float32{1, 0}, []float32{0, 1}, 0.0},
		{"zero vector left", []float32{0, 0}, []float32{1, 1}, 0.0},
		{"zero vector right", []float32{1, 1}, []float32{0, 0}, 0.0},
		{"both zero", []float32{0, 0}, []float32{0, 0}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("CosineSimilarity(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCosineSimilaritySymmetric(t *testing.T) {
	a := []float32{0.3, -0.5, 0.8}
	b := []float32{-0.1, 0.9, 0.4}
	if got, want := CosineSimilarity(a, b), CosineSimilarity(b, a); math.Abs(got-want) > 1e-12 {
		t.Errorf("cosine not symmetric: %v vs %v", got, want)
	}
}

func TestSimilarityToScore(t *testing.T) {
	tests := []struct {
		name     string
		cosSim   float64
		expected float64
	}{
		{"perfect similarity", 1.0, 100.0},
		{"no similarity", 0.0, 50.0},
		{"opposite", -1.0, 0.0},
		{"halfway positive", 0.5, 75.0},
		{"clamped above", 2.0, 100.0},
		{"clamped below", -2.0, 0.0},
		{"rounded to two decimals", 0.123456, 56.17},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SimilarityToScore(tt.cosSim); got != tt.expected {
				t.Errorf("SimilarityToScore(%v) = %v, want %v", tt.cosSim, got, tt.expected)
			}
		})
	}
}

func TestSimilarityToScoreMonotonic(t *testing.T) {
	prev := -1.0
	for cos := -1.0; cos <= 1.0; cos += 0.05 {
		score := SimilarityToScore(cos)
		if score < prev {
			t.Fatalf("score decreased at cos=%v: %v < %v", cos, score, prev)
		}
		prev = score
	}
}

func TestTruncateForEmbedding(t *testing.T) {
	short := "a short resume"
	if got := TruncateForEmbedding(short); got != short {
		t.Errorf("short text must pass through unchanged, got %q", got)
	}

	long := strings.Repeat("a", embedCharBudget+500)
	got := TruncateForEmbedding(long)
	if !strings.HasSuffix(got, "... [truncated]") {
		t.Errorf("long text must carry the truncation marker, got tail %q", got[len(got)-30:])
	}
	if len(got) >= len(long) {
		t.Errorf("truncated text is not shorter: %d >= %d", len(got), len(long))
	}
}

func TestNormalizeVector(t *testing.T) {
	out := normalizeVector([]float32{3, 4})
	var norm float64
	for _, v := range out {
		norm += float64(v) * float64(v)
	}
	if math.Abs(norm-1.0) > 1e-6 {
		t.Errorf("normalized vector has norm %v, want 1", math.Sqrt(norm))
	}

	zero := normalizeVector([]float32{0, 0})
	if zero[0] != 0 || zero[1] != 0 {
		t.Errorf("zero vector must pass through, got %v", zero)
	}
}

func TestComputeMatchScore(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{
		"resume": {1, 0},
		"job":    {0, 1},
	}}

	match, err := ComputeMatchScore(context.Background(), embedder, "resume", "job", nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if match.Score != 50.0 {
		t.Errorf("orthogonal vectors should score 50, got %v", match.Score)
	}
	if embedder.calls != 2 {
		t.Errorf("expected 2 embed calls, got %d", embedder.calls)
	}
}

func TestComputeMatchScoreReusesCachedVectors(t *testing.T) {
	embedder := &stubEmbedder{}
	cached := []float32{1, 0}

	match, err := ComputeMatchScore(context.Background(), embedder, "resume", "job", cached, cached)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder.calls != 0 {
		t.Errorf("cached vectors must skip embedding, got %d calls", embedder.calls)
	}
	if match.Score != 100.0 {
		t.Errorf("identical cached vectors should score 100, got %v", match.Score)
	}
}

func TestComputeMatchScoreEmbedsOnlyMissingSide(t *testing.T) {
	embedder := &stubEmbedder{vectors: map[string][]float32{"job": {1, 0, 0}}}

	_, err := ComputeMatchScore(context.Background(), embedder, "resume", "job", []float32{1, 0, 0}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder.calls != 1 {
		t.Errorf("expected 1 embed call for the uncached side, got %d", embedder.calls)
	}
}

func TestComputeMatchScoreEmbedderError(t *testing.T) {
	embedder := &stubEmbedder{err: errors.New("backend down")}

	_, err := ComputeMatchScore(context.Background(), embedder, "resume", "job", nil, nil)
	if err == nil {
		t.Fatal("expected error when embedding fails")
	}
}
