// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/format"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// TaskSink receives progress and partial-result updates during a
// comprehensive run. Implementations return false when the task id no
// longer exists; the orchestrator then stops publishing but keeps the
// phases running to completion.
type TaskSink interface {
	SetProgress(id, progress string) bool
	SetPartial(id string, partial *types.ComprehensiveResult) bool
}

// Orchestrator fans a comprehensive request out into the three fixed
// research phases, running them concurrently.
type Orchestrator struct {
	runner *Runner
	logger *zap.Logger
}

// NewOrchestrator builds an Orchestrator around a phase runner.
func NewOrchestrator(runner *Runner, logger *zap.Logger) *Orchestrator {
	return &Orchestrator{runner: runner, logger: logger}
}

// Comprehensive runs validation, market and financial research in
// parallel and merges the outcomes into one result. A failed phase is
// recorded as a failed section; the error is non-nil only when every
// phase fails. After each phase lands, an updated partial result is
// published to the sink so pollers see sections as they arrive.
func (o *Orchestrator) Comprehensive(ctx context.Context, taskID string, sink TaskSink, query, model string, maxCitations int) (*types.ComprehensiveResult, error) {
	sink.SetProgress(taskID, "Starting parallel comprehensive research (3 phases simultaneously)...")

	phases := []string{types.SectionValidation, types.SectionMarket, types.SectionFinancial}

	var wg sync.WaitGroup
	outcomes := make(chan PhaseOutcome, len(phases))
	for _, phase := range phases {
		wg.Add(1)
		go func(phase string) {
			defer wg.Done()
			outcomes <- o.runner.RunPhase(ctx, PhaseRequest{
				Phase:        phase,
				Query:        query,
				Model:        model,
				MaxCitations: maxCitations,
			})
		}(phase)
	}
	go func() {
		wg.Wait()
		close(outcomes)
	}()

	sink.SetProgress(taskID, "Running validation, market, and financial analysis in parallel...")

	sections := make(map[string]types.SectionResult, len(phases))
	sink.SetPartial(taskID, &types.ComprehensiveResult{
		Type:          "comprehensive",
		Sections:      sections,
		ExecutionMode: "parallel",
	})

	// Outcomes land here one at a time, so merging needs no extra
	// locking.
	landed := 0
	for outcome := range outcomes {
		landed++
		if outcome.Completed() {
			sections[outcome.Phase] = *outcome.Section
			o.logger.Info("research phase completed",
				zap.String("task_id", taskID),
				zap.String("phase", outcome.Phase),
				zap.Int("citations", outcome.Section.Citations),
				zap.Int("words", outcome.Section.WordCount))
		} else {
			sections[outcome.Phase] = format.FailedSection(outcome.Err.Error())
			o.logger.Warn("research phase failed",
				zap.String("task_id", taskID),
				zap.String("phase", outcome.Phase),
				zap.Bool("timed_out", outcome.TimedOut),
				zap.Error(outcome.Err))
		}

		partial := format.Comprehensive(sections)
		partial.ExecutionMode = "parallel"
		sink.SetPartial(taskID, &partial)
		sink.SetProgress(taskID, fmt.Sprintf("Completed %d/%d research phases...", landed, len(phases)))
	}

	result := format.Comprehensive(sections)
	result.ExecutionMode = "parallel"

	completed := result.CompletedSections()
	if completed == 0 {
		return nil, fmt.Errorf("all research phases failed")
	}

	result.UnifiedContent = UnifiedDocument(query, result.Sections)
	sink.SetPartial(taskID, &result)
	sink.SetProgress(taskID, fmt.Sprintf("Parallel execution completed: %d/%d phases successful. Generating unified document...", completed, len(phases)))

	return &result, nil
}
