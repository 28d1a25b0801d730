package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/docqa/internal/docqa/handler"
	"github.com/kart-io/docqa/internal/docqa/router"
	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/errors"
)

// mockService implements biz.Service with canned results.
type mockService struct {
	ingestResult *model.IngestResult
	ingestErr    error
	answerResult *model.AnswerResult
	answerErr    error
	turns        []*model.ConversationTurn
	docs         []*model.Document
	clearErr     error
	stats        *model.Stats

	lastFilename string
	lastContent  []byte
	lastRequest  *model.AnswerRequest
	cleared      bool
}

func (m *mockService) Ingest(ctx context.Context, filename string, content []byte) (*model.IngestResult, error) {
	m.lastFilename = filename
	m.lastContent = content
	return m.ingestResult, m.ingestErr
}

func (m *mockService) Answer(ctx context.Context, req *model.AnswerRequest) (*model.AnswerResult, error) {
	m.lastRequest = req
	return m.answerResult, m.answerErr
}

func (m *mockService) History(ctx context.Context, userID string) ([]*model.ConversationTurn, error) {
	return m.turns, nil
}

func (m *mockService) Documents(ctx context.Context) ([]*model.Document, error) {
	return m.docs, nil
}

func (m *mockService) Clear(ctx context.Context) error {
	m.cleared = true
	return m.clearErr
}

func (m *mockService) Stats(ctx context.Context) (*model.Stats, error) {
	return m.stats, nil
}

func newTestRouter(svc *mockService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	router.Register(engine, handler.New(svc, 1<<20))
	return engine
}

func multipartUpload(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestUploadSuccess(t *testing.T) {
	svc := &mockService{ingestResult: &model.IngestResult{DocumentID: "d1", Filename: "a.txt", ChunkCount: 2}}
	engine := newTestRouter(svc)

	body, contentType := multipartUpload(t, "a.txt", []byte("hello world"))
	req := httptest.NewRequest(http.MethodPost, "/v1/docqa/documents", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "a.txt", svc.lastFilename)
	assert.Equal(t, []byte("hello world"), svc.lastContent)

	var resp struct {
		Code int                `json:"code"`
		Data model.IngestResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 0, resp.Code)
	assert.Equal(t, "d1", resp.Data.DocumentID)
	assert.Equal(t, 2, resp.Data.ChunkCount)
}

func TestUploadMissingFile(t *testing.T) {
	engine := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodPost, "/v1/docqa/documents", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUploadUnsupportedTypeMapsTo400(t *testing.T) {
	svc := &mockService{ingestErr: errors.ErrUnsupportedFileType}
	engine := newTestRouter(svc)

	body, contentType := multipartUpload(t, "a.exe", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/v1/docqa/documents", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, errors.ErrUnsupportedFileType.Code, resp.Code)
	assert.Equal(t, "Only PDF and TXT files are supported", resp.Message)
}

func TestUploadProcessingFailureMapsTo500(t *testing.T) {
	svc := &mockService{ingestErr: errors.ErrProvider.WithCause(assert.AnError)}
	engine := newTestRouter(svc)

	body, contentType := multipartUpload(t, "a.txt", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/v1/docqa/documents", body)
	req.Header.Set("Content-Type", contentType)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestAskSuccess(t *testing.T) {
	svc := &mockService{answerResult: &model.AnswerResult{
		Answer:      "the answer",
		Reasoning:   "the reasoning",
		References:  []model.Reference{{ChunkID: "c1"}},
		Suggestions: []string{"A?", "B?", "C?"},
	}}
	engine := newTestRouter(svc)

	body, _ := json.Marshal(map[string]any{"user_id": "u1", "question": "What is X?", "top_k": 10})
	req := httptest.NewRequest(http.MethodPost, "/v1/docqa/questions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, svc.lastRequest)
	assert.Equal(t, "u1", svc.lastRequest.UserID)
	assert.Equal(t, 10, svc.lastRequest.TopK)

	var resp struct {
		Data model.AnswerResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "the answer", resp.Data.Answer)
	assert.Len(t, resp.Data.Suggestions, 3)
}

func TestAskValidation(t *testing.T) {
	engine := newTestRouter(&mockService{})

	tests := []struct {
		name string
		body map[string]any
	}{
		{name: "missing user_id", body: map[string]any{"question": "q"}},
		{name: "missing question", body: map[string]any{"user_id": "u1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(tt.body)
			req := httptest.NewRequest(http.MethodPost, "/v1/docqa/questions", bytes.NewReader(body))
			req.Header.Set("Content-Type", "application/json")

			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHistoryRequiresUserID(t *testing.T) {
	engine := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/v1/docqa/history", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHistoryReturnsTurns(t *testing.T) {
	svc := &mockService{turns: []*model.ConversationTurn{
		{UserID: "u1", Question: "newest"},
		{UserID: "u1", Question: "older"},
	}}
	engine := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/docqa/history?user_id=u1", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data struct {
			History []model.ConversationTurn `json:"history"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.History, 2)
	assert.Equal(t, "newest", resp.Data.History[0].Question)
}

func TestClear(t *testing.T) {
	svc := &mockService{}
	engine := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/v1/docqa/system", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, svc.cleared)
}

func TestStats(t *testing.T) {
	svc := &mockService{stats: &model.Stats{DocumentCount: 2, PassageCount: 40, Collection: "documents", EmbeddingDim: 384}}
	engine := newTestRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/v1/docqa/stats", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"passage_count":40`)
}

func TestHealthz(t *testing.T) {
	engine := newTestRouter(&mockService{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
