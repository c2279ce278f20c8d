// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/upstream"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

const maxQueryLength = 4000

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encoding response", zap.Error(err))
	}
}

func (s *Server) sendError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

type researchRequest struct {
	Query        string `json:"query"`
	Model        string `json:"model"`
	ResearchType string `json:"research_type"`
	EnrichPrompt *bool  `json:"enrich_prompt"`
	MaxCitations *int   `json:"max_citations"`
}

// taskParams is the validated form of a research request handed to the
// background runner.
type taskParams struct {
	Query        string
	Model        string
	ResearchType types.ResearchType
	MaxCitations int
	EnrichPrompt bool
}

func (s *Server) validateRequest(req researchRequest) (taskParams, error) {
	if req.Query == "" {
		return taskParams{}, fmt.Errorf("query is required")
	}
	if len(req.Query) > maxQueryLength {
		return taskParams{}, fmt.Errorf("query exceeds %d characters", maxQueryLength)
	}

	model := req.Model
	if model == "" {
		model = s.cfg.Upstream.DefaultModel
	}
	if !upstream.KnownModel(model) {
		return taskParams{}, fmt.Errorf("unknown model %q", model)
	}

	rt := types.ResearchType(req.ResearchType)
	if req.ResearchType == "" {
		rt = types.ResearchCustom
	}
	if !rt.Valid() {
		return taskParams{}, fmt.Errorf("unknown research_type %q", req.ResearchType)
	}

	maxCitations := types.DefaultMaxCitations
	if req.MaxCitations != nil {
		maxCitations = *req.MaxCitations
	}
	if maxCitations < 5 || maxCitations > 100 {
		return taskParams{}, fmt.Errorf("max_citations must be between 5 and 100")
	}

	enrich := true
	if req.EnrichPrompt != nil {
		enrich = *req.EnrichPrompt
	}

	return taskParams{
		Query:        req.Query,
		Model:        model,
		ResearchType: rt,
		MaxCitations: maxCitations,
		EnrichPrompt: enrich,
	}, nil
}

type statusResponse struct {
	TaskID       string             `json:"task_id"`
	Status       types.TaskStatus   `json:"status"`
	CreatedAt    time.Time          `json:"created_at"`
	Query        string             `json:"query"`
	Model        string             `json:"model"`
	ResearchType types.ResearchType `json:"research_type"`
	Progress     string             `json:"progress,omitempty"`
	Error        string             `json:"error,omitempty"`
}

func statusFromTask(t types.ResearchTask) statusResponse {
	return statusResponse{
		TaskID:       t.TaskID,
		Status:       t.Status,
		CreatedAt:    t.CreatedAt,
		Query:        t.Query,
		Model:        t.Model,
		ResearchType: t.ResearchType,
		Progress:     t.Progress,
		Error:        t.Error,
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":            "healthy",
		"default_model":     s.cfg.Upstream.DefaultModel,
		"active_tasks":      s.registry.ActiveCount(),
		"completed_results": s.results.Len(),
	})
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"models":        upstream.Models(),
		"default_model": s.cfg.Upstream.DefaultModel,
	})
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var req researchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	params, err := s.validateRequest(req)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, err.Error())
		return
	}

	task := s.registry.Create(params.Query, params.Model, params.ResearchType)
	if err := s.store.SaveTask(task); err != nil {
		s.logger.Error("mirroring task to storage", zap.String("task_id", task.TaskID), zap.Error(err))
	}

	s.metrics.TasksSubmitted.WithLabelValues(string(params.ResearchType)).Inc()
	s.metrics.ActiveTasks.Set(float64(s.registry.ActiveCount()))

	s.logger.Info("research task accepted",
		zap.String("task_id", task.TaskID),
		zap.String("research_type", string(params.ResearchType)),
		zap.String("model", params.Model),
		zap.Int("max_citations", params.MaxCitations))

	s.pool.Submit(func() { s.runTask(task.TaskID, params) })

	s.writeJSON(w, http.StatusAccepted, statusFromTask(task))
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if task, ok := s.registry.Get(id); ok {
		s.writeJSON(w, http.StatusOK, statusFromTask(task))
		return
	}

	// Results reloaded from storage after a restart have no live
	// registry entry.
	if result, ok := s.results.Get(id); ok {
		s.writeJSON(w, http.StatusOK, statusResponse{
			TaskID:       result.TaskID,
			Status:       result.Status,
			CreatedAt:    result.CreatedAt,
			Query:        result.Query,
			Model:        result.Model,
			ResearchType: result.ResearchType,
			Error:        result.Error,
		})
		return
	}

	s.sendError(w, http.StatusNotFound, "Task not found")
}

type progressiveResponse struct {
	TaskID        string                     `json:"task_id"`
	Status        types.TaskStatus           `json:"status"`
	Progress      string                     `json:"progress"`
	PartialResult *types.ComprehensiveResult `json:"partial_result"`
	ResearchType  types.ResearchType         `json:"research_type"`
}

func (s *Server) handleProgressive(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	task, ok := s.registry.Get(id)
	if !ok {
		s.sendError(w, http.StatusNotFound, "Task not found")
		return
	}

	s.writeJSON(w, http.StatusOK, progressiveResponse{
		TaskID:        task.TaskID,
		Status:        task.Status,
		Progress:      task.Progress,
		PartialResult: task.PartialResult,
		ResearchType:  task.ResearchType,
	})
}

func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	result, ok := s.results.Get(r.PathValue("id"))
	if !ok {
		s.sendError(w, http.StatusNotFound, "Result not found")
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleAllResults(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.results.List())
}

type documentEntry struct {
	types.DocumentMeta
	DownloadURL string `json:"download_url"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	filter := types.ResearchType(r.URL.Query().Get("research_type"))
	if filter != "" && !filter.Valid() {
		s.sendError(w, http.StatusBadRequest, fmt.Sprintf("unknown research_type %q", filter))
		return
	}

	docs, err := s.docs.List(filter)
	if err != nil {
		s.logger.Error("listing documents", zap.Error(err))
		s.sendError(w, http.StatusInternalServerError, "failed to list documents")
		return
	}

	entries := make([]documentEntry, 0, len(docs))
	for _, d := range docs {
		entries = append(entries, documentEntry{
			DocumentMeta: d,
			DownloadURL:  fmt.Sprintf("/api/research/%s/download", d.TaskID),
		})
	}

	s.writeJSON(w, http.StatusOK, map[string]any{
		"documents":      entries,
		"total_count":    len(entries),
		"filter_applied": string(filter),
	})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	path, err := s.docs.Path(id)
	if err != nil {
		s.sendError(w, http.StatusNotFound, "Research document not found")
		return
	}
	if _, err := os.Stat(path); err != nil {
		s.sendError(w, http.StatusNotFound, "Research document not found")
		return
	}

	filename := filepath.Base(path)
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	http.ServeFile(w, r, path)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	// In-flight work for the task is not interrupted; once the
	// registry entry is gone its writes are dropped.
	s.registry.Delete(id)
	s.results.Delete(id)
	if err := s.store.Delete(id); err != nil {
		s.logger.Error("deleting task from storage", zap.String("task_id", id), zap.Error(err))
	}
	s.metrics.ActiveTasks.Set(float64(s.registry.ActiveCount()))

	s.writeJSON(w, http.StatusOK, map[string]string{"message": "Result deleted successfully"})
}
