// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/workflow"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

var startProgress = map[types.ResearchType]string{
	types.ResearchValidation: "Conducting idea validation analysis...",
	types.ResearchMarket:     "Performing market research analysis...",
	types.ResearchFinancial:  "Executing financial analysis...",
	types.ResearchCustom:     "Processing custom research query...",
}

// runTask executes one research task on a pool worker. Failures are
// captured into the task record; the worker never panics the process.
// There is no cancellation path: once running, a task finishes or
// times out at the phase ceiling.
func (s *Server) runTask(taskID string, params taskParams) {
	ctx := context.Background()
	start := time.Now()

	task, ok := s.registry.Get(taskID)
	if !ok {
		return // deleted while queued
	}

	if !s.registry.SetStatus(taskID, types.StatusRunning) {
		return
	}
	s.registry.SetProgress(taskID, "Initializing AI research...")
	if err := s.store.UpdateStatus(taskID, types.StatusRunning, "Initializing AI research..."); err != nil {
		s.logger.Error("mirroring task status", zap.String("task_id", taskID), zap.Error(err))
	}

	result := types.ResearchResult{
		TaskID:       taskID,
		Query:        params.Query,
		Model:        params.Model,
		ResearchType: params.ResearchType,
		CreatedAt:    task.CreatedAt,
	}

	if params.ResearchType == types.ResearchComprehensive {
		comp, err := s.orch.Comprehensive(ctx, taskID, s.registry, params.Query, params.Model, params.MaxCitations)
		if err != nil {
			s.failTask(result, err)
			return
		}
		result.Comprehensive = comp
	} else {
		s.registry.SetProgress(taskID, startProgress[params.ResearchType])

		outcome := s.runner.RunPhase(ctx, workflow.PhaseRequest{
			Phase:        workflow.PhaseForType(params.ResearchType),
			Query:        params.Query,
			Model:        params.Model,
			MaxCitations: params.MaxCitations,
			ResearchType: params.ResearchType,
			EnrichPrompt: params.EnrichPrompt && params.ResearchType == types.ResearchCustom,
		})
		if !outcome.Completed() {
			s.failTask(result, outcome.Err)
			return
		}
		result.Section = outcome.Section
	}

	elapsed := time.Since(start)
	completedAt := time.Now().UTC()
	result.Status = types.StatusCompleted
	result.CompletedAt = &completedAt
	result.ProcessingSeconds = float64(int(elapsed.Seconds()*10)) / 10
	result.ProcessingTimeFormatted = formatDuration(elapsed)

	if !s.registry.Complete(taskID, completedAt) {
		// Task deleted mid-run: drop the result entirely.
		s.logger.Info("discarding result for deleted task", zap.String("task_id", taskID))
		return
	}
	s.registry.SetProgress(taskID, fmt.Sprintf("Research completed successfully in %s", result.ProcessingTimeFormatted))

	docPath, err := s.docs.Save(result)
	if err != nil {
		s.logger.Error("saving research document", zap.String("task_id", taskID), zap.Error(err))
	} else {
		result.DocumentPath = docPath
	}

	s.results.Put(result)
	if err := s.store.Complete(result); err != nil {
		s.logger.Error("mirroring completed result", zap.String("task_id", taskID), zap.Error(err))
	}

	s.metrics.TasksFinished.WithLabelValues(string(types.StatusCompleted)).Inc()
	s.metrics.ActiveTasks.Set(float64(s.registry.ActiveCount()))

	s.logger.Info("research task completed",
		zap.String("task_id", taskID),
		zap.String("research_type", string(params.ResearchType)),
		zap.Int("citations", result.Citations()),
		zap.Int("words", result.Words()),
		zap.Duration("elapsed", elapsed))
}

func (s *Server) failTask(result types.ResearchResult, cause error) {
	if !s.registry.Fail(result.TaskID, cause.Error()) {
		return // deleted mid-run
	}

	result.Status = types.StatusFailed
	result.Error = cause.Error()
	s.results.Put(result)
	if err := s.store.Fail(result.TaskID, cause.Error()); err != nil {
		s.logger.Error("mirroring failed task", zap.String("task_id", result.TaskID), zap.Error(err))
	}

	s.metrics.TasksFinished.WithLabelValues(string(types.StatusFailed)).Inc()
	s.metrics.ActiveTasks.Set(float64(s.registry.ActiveCount()))

	s.logger.Warn("research task failed",
		zap.String("task_id", result.TaskID),
		zap.String("research_type", string(result.ResearchType)),
		zap.Error(cause))
}

func formatDuration(d time.Duration) string {
	secs := int(d.Seconds())
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}
