package badger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/interfaces"
	"github.com/ternarybob/respondeo/internal/models"
	"github.com/timshannon/badgerhold/v4"
)

func newTestDB(t *testing.T) *BadgerDB {
	t.Helper()

	tmpDir := t.TempDir()

	options := badgerhold.DefaultOptions
	options.Dir = tmpDir
	options.ValueDir = tmpDir
	options.Logger = nil

	store, err := badgerhold.Open(options)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	return &BadgerDB{store: store, logger: arbor.NewLogger()}
}

func TestDocumentRegistryRoundTrip(t *testing.T) {
	db := newTestDB(t)
	storage := NewDocumentStorage(db, arbor.NewLogger())

	doc := &models.Document{
		ID:        "doc-1",
		TenantID:  "03782433",
		Path:      "/data/documents/03782433/report.pdf",
		FileName:  "report.pdf",
		SizeBytes: 2048,
		PageCount: 3,
		Status:    models.IngestStatusIndexed,
		PageStrategies: map[int]models.ExtractStrategy{
			1: models.StrategyFast,
			2: models.StrategyOCR,
			3: models.StrategyNone,
		},
	}
	require.NoError(t, storage.SaveDocument(doc))
	assert.False(t, doc.CreatedAt.IsZero(), "SaveDocument should stamp CreatedAt")

	got, err := storage.GetDocument("doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.TenantID, got.TenantID)
	assert.Equal(t, models.StrategyOCR, got.PageStrategies[2])

	byPath, err := storage.GetDocumentByPath("03782433", doc.Path)
	require.NoError(t, err)
	assert.Equal(t, "doc-1", byPath.ID)

	_, err = storage.GetDocument("missing")
	assert.Error(t, err)
}

func TestDocumentRegistryTenantScoping(t *testing.T) {
	db := newTestDB(t)
	storage := NewDocumentStorage(db, arbor.NewLogger())

	for _, d := range []*models.Document{
		{ID: "doc-a", TenantID: "11111111", Path: "/docs/11111111/b.pdf", FileName: "b.pdf"},
		{ID: "doc-b", TenantID: "11111111", Path: "/docs/11111111/a.pdf", FileName: "a.pdf"},
		{ID: "doc-c", TenantID: "22222222", Path: "/docs/22222222/c.pdf", FileName: "c.pdf"},
	} {
		require.NoError(t, storage.SaveDocument(d))
	}

	docs, err := storage.ListDocuments("11111111")
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "a.pdf", docs[0].FileName, "documents should list in filename order")

	count, err := storage.CountDocuments("22222222")
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	tenants, err := storage.ListTenantIDs()
	require.NoError(t, err)
	assert.Equal(t, []string{"11111111", "22222222"}, tenants)

	require.NoError(t, storage.DeleteDocument("doc-c"))
	count, err = storage.CountDocuments("22222222")
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestKVStorage(t *testing.T) {
	db := newTestDB(t)
	kv := NewKVStorage(db, arbor.NewLogger())
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "Gemini_API_Key", "secret"))

	// Keys are case-insensitive
	val, err := kv.Get(ctx, "gemini_api_key")
	require.NoError(t, err)
	assert.Equal(t, "secret", val)

	_, err = kv.Get(ctx, "missing")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)

	all, err := kv.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)

	require.NoError(t, kv.Delete(ctx, "GEMINI_API_KEY"))
	_, err = kv.Get(ctx, "gemini_api_key")
	assert.ErrorIs(t, err, interfaces.ErrKeyNotFound)
}
