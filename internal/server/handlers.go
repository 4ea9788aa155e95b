package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/hyperjump/kotae/internal/ingest"
	"github.com/hyperjump/kotae/internal/models"
	"github.com/hyperjump/kotae/internal/retrieval"
	"github.com/hyperjump/kotae/internal/store"
	"github.com/hyperjump/kotae/internal/synthesis"
)

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		s.respondError(w, http.StatusBadRequest, "question is required")
		return
	}
	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}
	s.logger.Debug("chat request", zap.String("session", sessionID))

	resp, err := s.synth.Answer(r.Context(), sessionID, req.Question)
	if err != nil {
		switch {
		case errors.Is(err, retrieval.ErrInvalidQuery):
			s.respondError(w, http.StatusBadRequest, "question is required")
		case errors.Is(err, synthesis.ErrSynthesisFailed):
			s.logger.Error("synthesis failed", zap.String("session", sessionID), zap.Error(err))
			s.respondError(w, http.StatusBadGateway, "answer synthesis failed")
		default:
			s.logger.Error("chat failed", zap.String("session", sessionID), zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req models.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Path == "" {
		s.respondError(w, http.StatusBadRequest, "path is required")
		return
	}
	if _, err := os.Stat(req.Path); err != nil {
		if os.IsNotExist(err) {
			s.respondError(w, http.StatusNotFound, "file not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.logger.Debug("ingest request", zap.String("path", req.Path))

	result, err := s.pipeline.IngestFile(r.Context(), req.Path)
	if err != nil {
		if errors.Is(err, ingest.ErrNoContentExtracted) {
			s.respondJSON(w, http.StatusUnprocessableEntity, models.IngestResponse{
				Status:   "rejected",
				Document: req.Path,
				Reason:   "no content extracted",
			})
			return
		}
		s.logger.Error("ingestion failed", zap.String("path", req.Path), zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusCreated, models.IngestResponse{
		Status:   "ingested",
		Document: result.Document,
		Pages:    result.Pages,
		Chunks:   result.Chunks,
	})
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete session request", zap.String("session", id))
	s.sessions.Clear(id)
	s.respondJSON(w, http.StatusOK, map[string]string{"session_id": id, "status": "cleared"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":         "ok",
		"chunks_indexed": s.store.IndexSize(),
	})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	docCount, err := s.store.CountDocuments(ctx)
	if err != nil {
		s.logger.Error("status: count documents failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	chunkCount, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("status: count chunks failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	resp := map[string]interface{}{
		"documents":         docCount,
		"chunks":            chunkCount,
		"vector_index_size": s.store.IndexSize(),
		"ingestion_state":   s.pipeline.State().String(),
	}

	resp["config"] = map[string]interface{}{
		"embedding_model":      s.config.Embedding.Model,
		"embedding_dimensions": s.config.Embedding.Dimensions,
		"llm_model":            s.config.LLM.Model,
		"chunk_size":           s.config.Chunking.ChunkSize,
		"chunk_overlap":        s.config.Chunking.ChunkOverlap,
		"top_k":                s.config.Retrieval.TopK,
		"min_score":            s.config.Retrieval.MinScore,
		"database_path":        s.config.Storage.DatabasePath,
	}

	if diskBytes, err := store.DiskUsageBytes(s.config.Storage.DatabasePath); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
