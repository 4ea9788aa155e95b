package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/chunkid"
	"github.com/hyperjump/kotae/internal/config"
	"github.com/hyperjump/kotae/internal/embedding"
	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/llm"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/session"
	"github.com/hyperjump/kotae/internal/store"
	"github.com/hyperjump/kotae/internal/synthesis"
)

// newTestServer wires a full server over a temp store, a mock embedder and a
// scripted completion client. The retrieval floor is disabled so any stored
// chunk is retrievable.
func newTestServer(t *testing.T, script ...llm.Reply) (*Server, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	st, err := store.Open(dir+"/chunks.db", 4)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { st.Close() })
	embedder := embedding.NewMockEmbedder(4)
	t.Cleanup(func() { embedder.Close() })

	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Storage.DatabasePath = dir + "/chunks.db"
	cfg.Embedding.Dimensions = 4
	cfg.Retrieval.MinScore = -1

	engine := retrieval.NewEngine(embedder, st)
	pipeline := ingest.NewPipeline(embedder, st, ingest.NewChunker(50, 10), cfg.Embedding.BatchSize)
	sessions := session.NewStore()
	synth := synthesis.NewSynthesizer(engine, llm.NewMockClient(script...), sessions, nil,
		synthesis.Options{
			TopK:          cfg.Retrieval.TopK,
			MinScore:      cfg.Retrieval.MinScore,
			HistoryWindow: cfg.Session.HistoryWindow,
			MaxTokens:     cfg.LLM.MaxTokens,
			Temperature:   cfg.LLM.Temperature,
			MaxRetries:    cfg.LLM.MaxRetries,
		},
		synthesis.WithSleep(func(ctx context.Context, d time.Duration) error { return nil }),
	)
	return NewServer(synth, pipeline, st, sessions, cfg, zap.NewNop()), st
}

func seedChunk(t *testing.T, st *store.Store, source string, page int, text string) {
	t.Helper()
	hash := chunkid.ContentHash(text)
	chunk := models.Chunk{
		ID:             chunkid.ChunkID(source, hash),
		SourceDocument: source,
		PageNumber:     page,
		Text:           text,
		ContentHash:    hash,
	}
	emb := embedding.NewMockEmbedder(4)
	vec, _ := emb.Embed(context.Background(), text)
	if err := st.Upsert(context.Background(), []models.EmbeddedChunk{{Chunk: chunk, Embedding: vec}}); err != nil {
		t.Fatal(err)
	}
}

func TestHandleChat(t *testing.T) {
	srv, st := newTestServer(t, llm.Reply{Text: "The lever opens the valve."})
	seedChunk(t, st, "manual.pdf", 2, "Pull the lever to open the valve.")

	body, _ := json.Marshal(models.ChatRequest{Question: "What does the lever do?"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.handleChat(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out models.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Answer != "The lever opens the valve." {
		t.Errorf("answer: got %q", out.Answer)
	}
	if out.SessionID == "" {
		t.Error("a session id should be minted when the request has none")
	}
	if len(out.CitedSources) != 1 || out.CitedSources[0].SourceDocument != "manual.pdf" {
		t.Errorf("cited_sources: got %v", out.CitedSources)
	}
}

func TestHandleChat_SessionReuse(t *testing.T) {
	srv, st := newTestServer(t, llm.Reply{Text: "answer"})
	seedChunk(t, st, "manual.pdf", 1, "some context text")

	ask := func(sessionID string) models.ChatResponse {
		body, _ := json.Marshal(models.ChatRequest{SessionID: sessionID, Question: "question?"})
		r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
		w := httptest.NewRecorder()
		srv.handleChat(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
		}
		var out models.ChatResponse
		if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
			t.Fatal(err)
		}
		return out
	}

	first := ask("")
	second := ask(first.SessionID)
	if second.SessionID != first.SessionID {
		t.Errorf("session id changed: %q vs %q", first.SessionID, second.SessionID)
	}
	if srv.sessions.Len(first.SessionID) != 4 {
		t.Errorf("expected 4 turns after two exchanges, got %d", srv.sessions.Len(first.SessionID))
	}
}

func TestHandleChat_BlankQuestion(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(models.ChatRequest{Question: "   "})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleChat(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleChat_InsufficientContext(t *testing.T) {
	// Empty store: nothing to retrieve.
	srv, _ := newTestServer(t, llm.Reply{Text: "should never be asked"})
	body, _ := json.Marshal(models.ChatRequest{Question: "Anything?"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleChat(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out models.ChatResponse
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if !out.InsufficientContext {
		t.Error("expected insufficient_context to be set")
	}
}

func TestHandleChat_SynthesisFailure(t *testing.T) {
	srv, st := newTestServer(t, llm.Reply{Err: llm.ErrRateLimited})
	seedChunk(t, st, "manual.pdf", 1, "context")

	body, _ := json.Marshal(models.ChatRequest{SessionID: "sess", Question: "question?"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleChat(w, r)
	if w.Code != http.StatusBadGateway {
		t.Errorf("status: got %d, want 502", w.Code)
	}
	if srv.sessions.Len("sess") != 0 {
		t.Errorf("failed chat must not record turns, got %d", srv.sessions.Len("sess"))
	}
}

func TestHandleIngest_FileNotFound(t *testing.T) {
	srv, _ := newTestServer(t)
	body, _ := json.Marshal(models.IngestRequest{Path: "/nonexistent/file.pdf"})
	r := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader(body))
	w := httptest.NewRecorder()
	srv.handleIngest(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("status: got %d, want 404", w.Code)
	}
}

func TestHandleIngest_MissingPath(t *testing.T) {
	srv, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodPost, "/api/v1/ingest", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	srv.handleIngest(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", w.Code)
	}
}

func TestHandleDeleteSession(t *testing.T) {
	srv, _ := newTestServer(t)
	srv.sessions.Append("sess", models.Turn{Role: models.RoleUser, Text: "q"})

	router := srv.Router()
	r := httptest.NewRequest(http.MethodDelete, "/api/v1/sessions/sess", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	if srv.sessions.Len("sess") != 0 {
		t.Errorf("session not cleared: %d turns", srv.sessions.Len("sess"))
	}
}

func TestHandleStatus(t *testing.T) {
	srv, st := newTestServer(t)
	seedChunk(t, st, "a.pdf", 1, "first")
	seedChunk(t, st, "b.pdf", 1, "second")

	r := httptest.NewRequest(http.MethodGet, "/api/v1/status", nil)
	w := httptest.NewRecorder()
	srv.handleStatus(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status: got %d, body: %s", w.Code, w.Body.String())
	}
	var out struct {
		Documents       int64  `json:"documents"`
		Chunks          int64  `json:"chunks"`
		VectorIndexSize int    `json:"vector_index_size"`
		IngestionState  string `json:"ingestion_state"`
		DiskUsageBytes  *int64 `json:"disk_usage_bytes"`
	}
	if err := json.NewDecoder(w.Body).Decode(&out); err != nil {
		t.Fatal(err)
	}
	if out.Documents != 2 {
		t.Errorf("documents: got %d, want 2", out.Documents)
	}
	if out.Chunks != 2 {
		t.Errorf("chunks: got %d, want 2", out.Chunks)
	}
	if out.VectorIndexSize != 2 {
		t.Errorf("vector_index_size: got %d, want 2", out.VectorIndexSize)
	}
	if out.IngestionState == "" {
		t.Error("expected an ingestion_state")
	}
	if out.DiskUsageBytes == nil || *out.DiskUsageBytes < 1 {
		t.Errorf("disk_usage_bytes missing or empty: %v", out.DiskUsageBytes)
	}
}

func TestHandleHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	r := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.handleHealth(w, r)
	if w.Code != http.StatusOK {
		t.Errorf("status: got %d", w.Code)
	}
	var body map[string]interface{}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field: got %v", body["status"])
	}
	if _, ok := body["chunks_indexed"]; !ok {
		t.Error("missing chunks_indexed")
	}
}
