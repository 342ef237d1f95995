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

type stubAnswerService struct {
	answer *models.Answer
	err    error
	calls  int
}

func (s *stubAnswerService) Answer(ctx context.Context, tenantID, question string) (*models.Answer, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.answer, nil
}

func postAsk(t *testing.T, h *AskHandler, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/ask", bytes.NewReader(payload))
	rec := httptest.NewRecorder()
	h.AskHandler(rec, req)
	return rec
}

func TestAskHandler_Success(t *testing.T) {
	svc := &stubAnswerService{
		answer: &models.Answer{
			TenantID: "acme",
			Question: "What is the refund policy?",
			Text:     "Refunds are issued within 30 days.",
		},
	}
	h := NewAskHandler(svc, arbor.NewLogger())

	rec := postAsk(t, h, AskRequest{TenantID: "acme", Question: "What is the refund policy?"})

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var got models.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "acme", got.TenantID)
	assert.Equal(t, "Refunds are issued within 30 days.", got.Text)
	assert.Equal(t, 1, svc.calls)
}

func TestAskHandler_TenantNotFound(t *testing.T) {
	svc := &stubAnswerService{err: models.ErrTenantNotFound}
	h := NewAskHandler(svc, arbor.NewLogger())

	rec := postAsk(t, h, AskRequest{TenantID: "ghost", Question: "anything?"})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAskHandler_ValidatesInput(t *testing.T) {
	svc := &stubAnswerService{}
	h := NewAskHandler(svc, arbor.NewLogger())

	rec := postAsk(t, h, AskRequest{Question: "no tenant"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postAsk(t, h, AskRequest{TenantID: "acme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, 0, svc.calls)
}

func TestAskHandler_RejectsGet(t *testing.T) {
	h := NewAskHandler(&stubAnswerService{}, arbor.NewLogger())

	req := httptest.NewRequest(http.MethodGet, "/api/ask", nil)
	rec := httptest.NewRecorder()
	h.AskHandler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
