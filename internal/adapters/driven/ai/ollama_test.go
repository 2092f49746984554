package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/custodia-labs/foldersense/internal/core/domain"
	"github.com/custodia-labs/foldersense/internal/core/ports/driven"
)

func TestOllamaEmbedding_EmbedQuery(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/embeddings" {
			t.Errorf("expected /api/embeddings, got %s", r.URL.Path)
		}

		var req ollamaEmbeddingRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "nomic-embed-text" {
			t.Errorf("expected model nomic-embed-text, got %s", req.Model)
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float32{0.1, 0.2}})
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "nomic-embed-text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	vec, err := svc.EmbedQuery(context.Background(), "hello")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("expected 2 dimensions, got %d", len(vec))
	}
	if svc.Dimensions() != 2 {
		t.Errorf("expected dimensions learned as 2, got %d", svc.Dimensions())
	}
}

func TestOllamaEmbedding_ConcurrentEmbedQueries(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float32{0.1, 0.2, 0.3}})
	}))
	defer server.Close()

	svc, err := NewOllamaEmbedding(server.URL, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The batch worker fans out recommendations that share one live
	// embedding service, so simultaneous embeds must be safe.
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.EmbedQuery(context.Background(), "hello"); err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			_ = svc.Dimensions()
		}()
	}
	wg.Wait()

	if svc.Dimensions() != 3 {
		t.Errorf("expected dimensions learned as 3, got %d", svc.Dimensions())
	}
}

func TestOllamaEmbedding_Embed_Sequential(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ollamaEmbeddingResponse{Embedding: []float32{float32(calls)}})
	}))
	defer server.Close()

	svc, _ := NewOllamaEmbedding(server.URL, "")
	result, err := svc.Embed(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 requests, got %d", calls)
	}
	if len(result) != 3 || result[2][0] != 3 {
		t.Errorf("unexpected result: %v", result)
	}
}

func TestOllamaEmbedding_EmptyEmbedding(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"embedding": []}`))
	}))
	defer server.Close()

	svc, _ := NewOllamaEmbedding(server.URL, "")
	_, err := svc.EmbedQuery(context.Background(), "hello")
	if !errors.Is(err, domain.ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}
}

func TestOllamaJudgment_Classify(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/chat" {
			t.Errorf("expected /api/chat, got %s", r.URL.Path)
		}

		var req ollamaChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Stream {
			t.Error("streaming must be disabled")
		}

		resp := ollamaChatResponse{
			Message:         chatMessage{Role: "assistant", Content: `{"folderPath": "Inbox"}`},
			PromptEvalCount: 10,
			EvalCount:       5,
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	svc, err := NewOllamaJudgment(server.URL, "llama3.1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	reply, err := svc.Classify(context.Background(), driven.JudgmentRequest{
		System: "classify",
		User:   "note",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if reply.Text != `{"folderPath": "Inbox"}` {
		t.Errorf("unexpected reply text: %s", reply.Text)
	}
	if reply.TotalTokens != 15 {
		t.Errorf("expected 15 total tokens, got %d", reply.TotalTokens)
	}
}

func TestOllamaJudgment_Classify_EmptyContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"message": {"role": "assistant", "content": ""}}`))
	}))
	defer server.Close()

	svc, _ := NewOllamaJudgment(server.URL, "")
	_, err := svc.Classify(context.Background(), driven.JudgmentRequest{User: "u"})
	if !errors.Is(err, domain.ErrEmptyReply) {
		t.Errorf("expected ErrEmptyReply, got %v", err)
	}
}

func TestOllamaJudgment_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/tags" {
			t.Errorf("expected /api/tags, got %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, _ := NewOllamaJudgment(server.URL, "")
	if err := svc.Ping(context.Background()); err != nil {
		t.Errorf("expected no error from ping, got %v", err)
	}
}

func TestOllamaJudgment_Ping_Unreachable(t *testing.T) {
	svc, _ := NewOllamaJudgment("http://localhost:99999", "")
	err := svc.Ping(context.Background())
	if !errors.Is(err, domain.ErrTransport) {
		t.Errorf("expected ErrTransport, got %v", err)
	}
}
