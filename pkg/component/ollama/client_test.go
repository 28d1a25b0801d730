package ollama

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ollamaopts "github.com/kart-io/docqa/pkg/options/ollama"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts := ollamaopts.NewOptions()
	opts.BaseURL = srv.URL
	opts.MaxRetries = 0
	return New(opts), srv
}

func TestEmbedBatchesAllInputsInOneCall(t *testing.T) {
	var calls int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		assert.Equal(t, "/api/embed", r.URL.Path)

		var req EmbedRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, []string{"alpha", "beta", "gamma"}, req.Input)

		embeddings := make([][]float32, len(req.Input))
		for i := range embeddings {
			embeddings[i] = []float32{float32(i), 0.5}
		}
		json.NewEncoder(w).Encode(EmbedResponse{Model: req.Model, Embeddings: embeddings})
	}))

	got, err := client.Embed(context.Background(), []string{"alpha", "beta", "gamma"})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestEmbedEmptyInputSkipsRequest(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("unexpected request")
	}))

	got, err := client.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestEmbedCountMismatch(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(EmbedResponse{Embeddings: [][]float32{{0.1}}})
	}))

	_, err := client.Embed(context.Background(), []string{"a", "b"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "1 embeddings for 2 inputs")
}

func TestGenerate(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/generate", r.URL.Path)

		var req GenerateRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "You are a helper.", req.System)
		assert.False(t, req.Stream)

		json.NewEncoder(w).Encode(GenerateResponse{Response: "generated text", Done: true})
	}))

	got, err := client.Generate(context.Background(), "You are a helper.", "Say something.")
	require.NoError(t, err)
	assert.Equal(t, "generated text", got)
}

func TestGenerateServerError(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not found", http.StatusNotFound)
	}))

	_, err := client.Generate(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
}
