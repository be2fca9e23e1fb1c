package domain

import "math"

// Point is a vector plus payload handed to the vector store.
type Point struct {
	ID      string
	Vector  []float32
	Payload PointPayload
}

// PointPayload is stored alongside each vector and returned on query.
type PointPayload struct {
	OriginalID string        `json:"original_id"`
	Title      string        `json:"title"`
	Text       string        `json:"text"`
	Metadata   ChunkMetadata `json:"metadata"`
}

// ScoredPoint is a query hit ranked by cosine similarity.
type ScoredPoint struct {
	ID      string
	Score   float64
	Payload PointPayload
}

// CosineSimilarity returns the cosine of the angle between a and b.
// Zero vectors and length mismatches score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
