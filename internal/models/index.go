package models

import (
	"math"
	"sort"
	"time"
)

// TenantIndex is the complete similarity-searchable structure for one tenant:
// an ordered collection of (chunk, embedding) pairs. There is exactly one
// authoritative on-disk copy per tenant and at most one in-memory copy inside
// the index cache. It is rebuilt only by the index builder, never mutated
// concurrently for the same tenant.
type TenantIndex struct {
	TenantID  string         `json:"tenant_id"`
	Model     string         `json:"model"` // embedding model name; must match query-time model
	Dimension int            `json:"dimension"`
	Chunks    []IndexedChunk `json:"chunks"`
	BuiltAt   time.Time      `json:"built_at"`
}

// SearchResult is one retrieved chunk with its similarity score.
type SearchResult struct {
	Chunk Chunk   `json:"chunk"`
	Score float64 `json:"score"`
}

// Len returns the number of indexed chunks.
func (idx *TenantIndex) Len() int {
	return len(idx.Chunks)
}

// Search returns the top-k chunks by cosine similarity to the query vector.
// Ties break by ascending chunk sequence index so results are stable across
// runs. Returns fewer than k results when the index holds fewer chunks.
func (idx *TenantIndex) Search(query []float32, k int) []SearchResult {
	if k <= 0 || len(idx.Chunks) == 0 {
		return nil
	}

	results := make([]SearchResult, 0, len(idx.Chunks))
	for _, ic := range idx.Chunks {
		results = append(results, SearchResult{
			Chunk: ic.Chunk,
			Score: cosineSimilarity(query, ic.Vector),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Chunk.Seq < results[j].Chunk.Seq
	})

	if k > len(results) {
		k = len(results)
	}
	return results[:k]
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched lengths compare over the shorter prefix; zero vectors score 0.
func cosineSimilarity(a, b []float32) float64 {
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

	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
