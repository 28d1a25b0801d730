// Package router provides document QA service routing.
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/docqa/internal/docqa/handler"
)

// Register registers the document QA routes.
func Register(engine *gin.Engine, h *handler.Handler) {
	engine.GET("/healthz", h.Healthz)
	engine.GET("/metrics", h.Metrics)

	v1 := engine.Group("/v1")
	{
		docqa := v1.Group("/docqa")
		{
			docqa.POST("/documents", h.Upload)
			docqa.GET("/documents", h.Documents)
			docqa.POST("/questions", h.Ask)
			docqa.GET("/history", h.History)
			docqa.GET("/stats", h.Stats)
			docqa.DELETE("/system", h.Clear)
		}
	}

	logger.Info("HTTP routes registered")
}
