package answer

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
)

// fixedCache serves a single prebuilt index, or an error.
type fixedCache struct {
	idx *models.TenantIndex
	err error
}

func (c *fixedCache) Get(ctx context.Context, tenantID string) (*models.TenantIndex, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.idx, nil
}

func (c *fixedCache) Invalidate(tenantID string) {}
func (c *fixedCache) Len() int                   { return 1 }

// fakeEmbedder returns a fixed query vector.
type fakeEmbedder struct {
	vector []float32
	calls  int
}

func (f *fakeEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	return f.vector, nil
}

func (f *fakeEmbedder) EmbedChunks(ctx context.Context, tenantID string, chunks []models.Chunk) ([]models.IndexedChunk, error) {
	return nil, nil
}

func (f *fakeEmbedder) GenerateQueryEmbedding(ctx context.Context, query string) ([]float32, error) {
	f.calls++
	return f.vector, nil
}

func (f *fakeEmbedder) ModelName() string { return "fake-embed-001" }
func (f *fakeEmbedder) Dimension() int    { return 3 }

// recordingLLM captures the chat messages it was sent.
type recordingLLM struct {
	response string
	messages []interfaces.Message
	calls    int
}

func (l *recordingLLM) Embed(ctx context.Context, text string) ([]float32, error) {
	return nil, nil
}

func (l *recordingLLM) Chat(ctx context.Context, messages []interfaces.Message) (string, error) {
	l.calls++
	l.messages = messages
	return l.response, nil
}

func (l *recordingLLM) EmbeddingModel() string                { return "fake-embed-001" }
func (l *recordingLLM) HealthCheck(ctx context.Context) error { return nil }
func (l *recordingLLM) Close() error                          { return nil }

func populatedIndex() *models.TenantIndex {
	return &models.TenantIndex{
		TenantID: "03782433",
		Model:    "gemini-embedding-001",
		Chunks: []models.IndexedChunk{
			{Chunk: models.Chunk{Seq: 0, FileName: "report.pdf", PageStart: 1, PageEnd: 1, Text: "revenue was 4.2 million"}, Vector: []float32{1, 0, 0}},
			{Chunk: models.Chunk{Seq: 1, FileName: "report.pdf", PageStart: 2, PageEnd: 2, Text: "costs decreased"}, Vector: []float32{0, 1, 0}},
			{Chunk: models.Chunk{Seq: 2, FileName: "notes.pdf", PageStart: 1, PageEnd: 1, Text: "headcount grew"}, Vector: []float32{0.9, 0.1, 0}},
		},
	}
}

func TestAnswerRetrievesAndPrompts(t *testing.T) {
	llm := &recordingLLM{response: "Revenue was 4.2 million dollars."}
	svc := NewService(&fixedCache{idx: populatedIndex()}, &fakeEmbedder{vector: []float32{1, 0, 0}}, llm, 2, arbor.NewLogger())

	ans, err := svc.Answer(context.Background(), "03782433", "What was the revenue?")
	require.NoError(t, err)

	assert.Equal(t, "Revenue was 4.2 million dollars.", ans.Text)
	assert.Equal(t, "gemini-embedding-001", ans.Model)
	require.Len(t, ans.Sources, 2)

	// Most similar chunk first
	assert.Equal(t, 0, ans.Sources[0].Chunk.Seq)
	assert.Equal(t, 2, ans.Sources[1].Chunk.Seq)

	// Prompt carries retrieved context and the question
	require.Len(t, llm.messages, 2)
	assert.Equal(t, "system", llm.messages[0].Role)
	userMsg := llm.messages[1].Content
	assert.Contains(t, userMsg, "revenue was 4.2 million")
	assert.Contains(t, userMsg, "What was the revenue?")
	assert.Contains(t, userMsg, "report.pdf")

	// The chunk that missed the top-k cut stays out of the prompt
	assert.False(t, strings.Contains(userMsg, "costs decreased"))
}

func TestAnswerEmptyIndexShortCircuits(t *testing.T) {
	llm := &recordingLLM{response: "should never be used"}
	embedder := &fakeEmbedder{vector: []float32{1, 0, 0}}
	empty := &models.TenantIndex{TenantID: "03782433"}
	svc := NewService(&fixedCache{idx: empty}, embedder, llm, 4, arbor.NewLogger())

	ans, err := svc.Answer(context.Background(), "03782433", "Anything?")
	require.NoError(t, err)

	assert.Equal(t, NoContentAnswer, ans.Text)
	assert.Equal(t, 0, llm.calls, "the language model must not be invoked for an empty index")
	assert.Equal(t, 0, embedder.calls, "no embedding call is needed for an empty index")
}

func TestAnswerUnknownTenant(t *testing.T) {
	svc := NewService(&fixedCache{err: models.ErrTenantNotFound}, &fakeEmbedder{}, &recordingLLM{}, 4, arbor.NewLogger())

	_, err := svc.Answer(context.Background(), "99999999", "Anything?")
	assert.ErrorIs(t, err, models.ErrTenantNotFound)
}

func TestAnswerValidatesInput(t *testing.T) {
	svc := NewService(&fixedCache{idx: populatedIndex()}, &fakeEmbedder{}, &recordingLLM{}, 4, arbor.NewLogger())

	_, err := svc.Answer(context.Background(), "", "question")
	assert.Error(t, err)

	_, err = svc.Answer(context.Background(), "03782433", "")
	assert.Error(t, err)
}
