package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexWith(vectors map[int][]float32) *TenantIndex {
	idx := &TenantIndex{TenantID: "t", Dimension: 3}
	for seq, v := range vectors {
		idx.Chunks = append(idx.Chunks, IndexedChunk{
			Chunk:  Chunk{Seq: seq, Text: "chunk"},
			Vector: v,
		})
	}
	return idx
}

func TestSearchRanksByCosineSimilarity(t *testing.T) {
	idx := indexWith(map[int][]float32{
		0: {1, 0, 0},
		1: {0, 1, 0},
		2: {0.9, 0.1, 0},
	})

	results := idx.Search([]float32{1, 0, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, 0, results[0].Chunk.Seq)
	assert.Equal(t, 2, results[1].Chunk.Seq)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestSearchTieBreaksBySequence(t *testing.T) {
	// Identical vectors produce identical scores; order must follow Seq
	idx := &TenantIndex{TenantID: "t"}
	for _, seq := range []int{5, 1, 3} {
		idx.Chunks = append(idx.Chunks, IndexedChunk{
			Chunk:  Chunk{Seq: seq},
			Vector: []float32{1, 1, 0},
		})
	}

	results := idx.Search([]float32{1, 1, 0}, 3)
	require.Len(t, results, 3)
	assert.Equal(t, 1, results[0].Chunk.Seq)
	assert.Equal(t, 3, results[1].Chunk.Seq)
	assert.Equal(t, 5, results[2].Chunk.Seq)
}

func TestSearchFewerChunksThanK(t *testing.T) {
	idx := indexWith(map[int][]float32{0: {1, 0, 0}})

	results := idx.Search([]float32{1, 0, 0}, 4)
	assert.Len(t, results, 1)
}

func TestSearchEmptyIndex(t *testing.T) {
	idx := &TenantIndex{TenantID: "t"}
	assert.Nil(t, idx.Search([]float32{1, 0, 0}, 4))
	assert.Equal(t, 0, idx.Len())
}

func TestCosineSimilarityEdgeCases(t *testing.T) {
	// Zero vector scores 0 instead of dividing by zero
	assert.Equal(t, 0.0, cosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3}))

	// Mismatched lengths compare over the shorter prefix
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{1, 0, 5}), 1e-9)

	// Identical vectors score 1
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{0.3, 0.4}, []float32{0.3, 0.4}), 1e-9)
}
