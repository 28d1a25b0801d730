// Package handler provides HTTP handlers for the document QA service.
package handler

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/docqa/internal/docqa/biz"
	"github.com/kart-io/docqa/internal/docqa/metrics"
	"github.com/kart-io/docqa/internal/model"
	"github.com/kart-io/docqa/pkg/errors"
)

// answerTimeout bounds one question's embedding, retrieval, and generation.
const answerTimeout = 60 * time.Second

// Handler handles document QA HTTP requests.
type Handler struct {
	service       biz.Service
	maxUploadSize int64
}

// New creates a new Handler.
func New(service biz.Service, maxUploadSize int64) *Handler {
	return &Handler{
		service:       service,
		maxUploadSize: maxUploadSize,
	}
}

// SuccessResponse is a standard success response.
type SuccessResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeError(c *gin.Context, err error) {
	errno := errors.FromError(err)
	c.JSON(errno.HTTP, ErrorResponse{Code: errno.Code, Message: errno.Message})
}

func writeSuccess(c *gin.Context, data any) {
	c.JSON(http.StatusOK, SuccessResponse{Code: 0, Message: "success", Data: data})
}

// Upload ingests an uploaded document into the knowledge base.
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		writeError(c, errors.ErrBadRequest.WithMessage("missing file field: %v", err))
		return
	}
	if h.maxUploadSize > 0 && fileHeader.Size > h.maxUploadSize {
		writeError(c, errors.ErrBadRequest.WithMessage("file exceeds upload size limit"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		writeError(c, errors.ErrProcessing.WithCause(err))
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		writeError(c, errors.ErrProcessing.WithCause(err))
		return
	}

	result, err := h.service.Ingest(c.Request.Context(), fileHeader.Filename, content)
	if err != nil {
		writeError(c, err)
		return
	}

	writeSuccess(c, result)
}

// Ask answers a question against the knowledge base.
func (h *Handler) Ask(c *gin.Context) {
	var req model.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, errors.ErrBadRequest.WithMessage("%v", err))
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), answerTimeout)
	defer cancel()

	result, err := h.service.Answer(ctx, &req)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			c.JSON(http.StatusRequestTimeout, ErrorResponse{
				Code:    http.StatusRequestTimeout,
				Message: "Question timed out. Please try again or simplify your question.",
			})
			return
		}
		writeError(c, err)
		return
	}

	writeSuccess(c, result)
}

// History returns a user's conversation history, newest first.
func (h *Handler) History(c *gin.Context) {
	userID := c.Query("user_id")
	if userID == "" {
		writeError(c, errors.ErrBadRequest.WithMessage("user_id query parameter is required"))
		return
	}

	turns, err := h.service.History(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}

	writeSuccess(c, gin.H{"history": turns})
}

// Documents lists all ingested documents.
func (h *Handler) Documents(c *gin.Context) {
	docs, err := h.service.Documents(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	writeSuccess(c, gin.H{"documents": docs})
}

// Clear wipes both stores and recreates an empty index collection.
func (h *Handler) Clear(c *gin.Context) {
	if err := h.service.Clear(c.Request.Context()); err != nil {
		writeError(c, err)
		return
	}

	writeSuccess(c, gin.H{"message": "All data cleared"})
}

// Stats reports knowledge base statistics and service counters.
func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}

	writeSuccess(c, gin.H{
		"knowledge_base": stats,
		"service":        metrics.Get().Stats(),
	})
}

// Metrics exposes service counters in Prometheus text format.
func (h *Handler) Metrics(c *gin.Context) {
	c.String(http.StatusOK, metrics.Get().Export("docqa"))
}

// Healthz reports liveness.
func (h *Handler) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
