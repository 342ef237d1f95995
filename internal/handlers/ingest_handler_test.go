package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/respondeo/internal/models"
)

type stubIngestService struct {
	result    *models.IngestResult
	err       error
	ingesting bool
}

func (s *stubIngestService) IngestTenant(ctx context.Context, tenantID string) (*models.IngestResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.result, nil
}

func (s *stubIngestService) Ingesting(tenantID string) bool { return s.ingesting }

func postIngest(t *testing.T, h *IngestHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/ingest", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.IngestHandler(rec, req)
	return rec
}

func TestIngestHandler_SynchronousRun(t *testing.T) {
	svc := &stubIngestService{
		result: &models.IngestResult{TenantID: "acme", Documents: 2, Chunks: 17},
	}
	h := NewIngestHandler(svc, arbor.NewLogger())

	rec := postIngest(t, h, IngestRequest{TenantID: "acme", Wait: true})

	require.Equal(t, http.StatusOK, rec.Code)

	var got models.IngestResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, 2, got.Documents)
	assert.Equal(t, 17, got.Chunks)
}

func TestIngestHandler_NoDocuments(t *testing.T) {
	svc := &stubIngestService{err: models.ErrNoDocuments}
	h := NewIngestHandler(svc, arbor.NewLogger())

	rec := postIngest(t, h, IngestRequest{TenantID: "empty", Wait: true})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIngestHandler_ConflictWhenAlreadyRunning(t *testing.T) {
	svc := &stubIngestService{ingesting: true}
	h := NewIngestHandler(svc, arbor.NewLogger())

	rec := postIngest(t, h, IngestRequest{TenantID: "acme", Wait: true})

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestIngestHandler_BackgroundStart(t *testing.T) {
	svc := &stubIngestService{
		result: &models.IngestResult{TenantID: "acme"},
	}
	h := NewIngestHandler(svc, arbor.NewLogger())

	rec := postIngest(t, h, IngestRequest{TenantID: "acme"})

	assert.Equal(t, http.StatusAccepted, rec.Code)
}

func TestIngestStatusHandler(t *testing.T) {
	svc := &stubIngestService{ingesting: true}
	h := NewIngestHandler(svc, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/ingest/status?tenant_id=acme", nil)
	rec := httptest.NewRecorder()
	h.StatusHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, true, got["ingesting"])
}
