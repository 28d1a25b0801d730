// Package docqa provides the document QA server implementation.
package docqa

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/kart-io/docqa/internal/docqa/biz"
	"github.com/kart-io/docqa/internal/docqa/handler"
	"github.com/kart-io/docqa/internal/docqa/router"
	"github.com/kart-io/docqa/internal/docqa/store"
	"github.com/kart-io/docqa/pkg/app"
	"github.com/kart-io/docqa/pkg/component/milvus"
	"github.com/kart-io/docqa/pkg/component/mongodb"
	"github.com/kart-io/docqa/pkg/component/ollama"
	docqaopts "github.com/kart-io/docqa/pkg/options/docqa"
	httpopts "github.com/kart-io/docqa/pkg/options/http"
	logopts "github.com/kart-io/docqa/pkg/options/logger"
	milvusopts "github.com/kart-io/docqa/pkg/options/milvus"
	mongodbopts "github.com/kart-io/docqa/pkg/options/mongodb"
	ollamaopts "github.com/kart-io/docqa/pkg/options/ollama"
)

// Name is the name of the application.
const Name = "docqa"

// Config contains application-related configurations.
type Config struct {
	HTTPOptions     *httpopts.Options
	LogOptions      *logopts.Options
	MilvusOptions   *milvusopts.Options
	MongoOptions    *mongodbopts.Options
	OllamaOptions   *ollamaopts.Options
	DocQAOptions    *docqaopts.Options
	ShutdownTimeout time.Duration
}

// Server represents the document QA server.
type Server struct {
	httpSrv         *http.Server
	index           store.VectorIndex
	docs            store.DocumentStore
	shutdownTimeout time.Duration
}

// NewServer initializes and returns a new Server instance.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	cfg.LogOptions.AddInitialField("service.name", Name)
	cfg.LogOptions.AddInitialField("service.version", app.GetVersion())
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting document QA service...")

	milvusClient, err := milvus.New(cfg.MilvusOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize milvus: %w", err)
	}
	logger.Info("Milvus client initialized")

	mongoClient, err := mongodb.NewWithContext(ctx, cfg.MongoOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mongodb: %w", err)
	}
	logger.Info("MongoDB client initialized")

	ollamaClient := ollama.New(cfg.OllamaOptions)
	if err := ollamaClient.Ping(ctx); err != nil {
		logger.Warnw("Ollama server not reachable at startup", "base_url", cfg.OllamaOptions.BaseURL, "error", err)
	}
	logger.Info("Ollama client initialized")

	index := store.NewMilvusIndex(milvusClient, cfg.DocQAOptions.Collection, cfg.DocQAOptions.EmbeddingDim)
	if err := index.Ensure(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure index collection: %w", err)
	}

	docs := store.NewMongoStore(mongoClient)
	if err := docs.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure mongodb indexes: %w", err)
	}

	service := biz.NewService(ollamaClient, ollamaClient, index, docs, cfg.DocQAOptions)

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger())
	engine.MaxMultipartMemory = cfg.HTTPOptions.MaxUploadSize

	router.Register(engine, handler.New(service, cfg.HTTPOptions.MaxUploadSize))

	return &Server{
		httpSrv: &http.Server{
			Addr:         cfg.HTTPOptions.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.HTTPOptions.ReadTimeout,
			WriteTimeout: cfg.HTTPOptions.WriteTimeout,
			IdleTimeout:  cfg.HTTPOptions.IdleTimeout,
		},
		index:           index,
		docs:            docs,
		shutdownTimeout: cfg.ShutdownTimeout,
	}, nil
}

// Run starts the HTTP server and blocks until the context is canceled.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Errorw("HTTP server shutdown failed", "error", err)
	}
	if err := s.index.Close(shutdownCtx); err != nil {
		logger.Errorw("Failed to close vector index", "error", err)
	}
	if err := s.docs.Close(); err != nil {
		logger.Errorw("Failed to close document store", "error", err)
	}

	logger.Info("Shutdown complete")
	return nil
}

// requestLogger logs each request with its status and latency.
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infow("Request handled",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start).String(),
			"client_ip", c.ClientIP(),
		)
	}
}
