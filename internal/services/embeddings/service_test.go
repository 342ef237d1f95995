package embeddings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/ternarybob/respondeo/internal/services/llm"
)

// fakeLLM returns canned vectors and can be programmed to fail the first N
// calls per text.
type fakeLLM struct {
	calls     int
	failFirst int
	failWith  error
}

func (f *fakeLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	if f.calls <= f.failFirst {
		if f.failWith != nil {
			return nil, f.failWith
		}
		return nil, errors.New("transient failure")
	}
	return []float32{float32(len(text)), 1, 0}, nil
}

func (f *fakeLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	return "", errors.New("not implemented")
}

func (f *fakeLLM) EmbeddingModel() string           { return "fake-embed-001" }
func (f *fakeLLM) HealthCheck(ctx context.Context) error { return nil }
func (f *fakeLLM) Close() error                     { return nil }

func fastRetry(attempts int) *llm.RetryConfig {
	return &llm.RetryConfig{
		MaxAttempts:       attempts,
		InitialBackoff:    time.Millisecond,
		MaxBackoff:        5 * time.Millisecond,
		BackoffMultiplier: 1.0,
	}
}

func TestEmbedChunksPairsVectorsInOrder(t *testing.T) {
	svc := NewService(&fakeLLM{}, fastRetry(3), 3, arbor.NewLogger())

	chunks := []models.Chunk{
		{Seq: 0, Text: "first chunk"},
		{Seq: 1, Text: "second"},
		{Seq: 2, Text: "third chunk text"},
	}

	indexed, err := svc.EmbedChunks(context.Background(), "12345678", chunks)
	require.NoError(t, err)
	require.Len(t, indexed, 3)

	for i, ic := range indexed {
		assert.Equal(t, chunks[i].Seq, ic.Chunk.Seq)
		assert.Len(t, ic.Vector, 3)
	}
}

func TestEmbedChunksRetriesTransientFailures(t *testing.T) {
	fake := &fakeLLM{failFirst: 2}
	svc := NewService(fake, fastRetry(3), 3, arbor.NewLogger())

	indexed, err := svc.EmbedChunks(context.Background(), "12345678", []models.Chunk{{Seq: 0, Text: "x"}})
	require.NoError(t, err)
	assert.Len(t, indexed, 1)
	assert.Equal(t, 3, fake.calls)
}

func TestEmbedChunksAllOrNothing(t *testing.T) {
	fake := &fakeLLM{failFirst: 100}
	svc := NewService(fake, fastRetry(2), 3, arbor.NewLogger())

	indexed, err := svc.EmbedChunks(context.Background(), "12345678", []models.Chunk{
		{Seq: 0, Text: "ok"},
		{Seq: 1, Text: "also ok"},
	})
	require.Error(t, err)
	assert.Nil(t, indexed, "a failed batch must not return partial results")

	var embErr *models.EmbeddingError
	require.ErrorAs(t, err, &embErr)
	assert.Equal(t, "12345678", embErr.TenantID)
	assert.Equal(t, 0, embErr.ChunkSeq)
	assert.Equal(t, 2, embErr.Attempts)
}

func TestEmbedChunksEmptyInput(t *testing.T) {
	svc := NewService(&fakeLLM{}, fastRetry(1), 3, arbor.NewLogger())

	indexed, err := svc.EmbedChunks(context.Background(), "12345678", nil)
	require.NoError(t, err)
	assert.Empty(t, indexed)
}

func TestGenerateEmbeddingRejectsEmptyText(t *testing.T) {
	svc := NewService(&fakeLLM{}, fastRetry(1), 3, arbor.NewLogger())

	_, err := svc.GenerateEmbedding(context.Background(), "")
	assert.Error(t, err)
}
