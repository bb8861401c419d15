package domain

import "math"

// CosineSimilarity returns the cosine similarity of two vectors,
// equivalent to 1 minus their cosine distance. The result is in
// [-1, 1]; mismatched lengths and zero vectors score 0, so degraded
// zero-vector records never clear a positive retrieval threshold.
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
