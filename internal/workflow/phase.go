// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package workflow runs research phases against an AI backend and
// assembles comprehensive multi-phase results.
package workflow

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/format"
	"github.com/MajorAbdullah/ai-research-platform/internal/upstream"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// Backend is the AI capability the workflow needs. *upstream.Client
// satisfies it; tests substitute a mock.
type Backend interface {
	Submit(ctx context.Context, model, input string, maxToolCalls int) (string, error)
	Wait(ctx context.Context, id string, interval, ceiling time.Duration) (string, error)
	Enrich(ctx context.Context, query string, researchType types.ResearchType) (string, error)
}

// PhaseObserver receives timing for each finished phase. Nil observers
// are allowed.
type PhaseObserver interface {
	ObservePhase(phase, outcome string, d time.Duration)
}

// Runner executes individual research phases.
type Runner struct {
	backend      Backend
	logger       *zap.Logger
	observer     PhaseObserver
	pollInterval time.Duration
	phaseTimeout time.Duration
	maxToolCalls int
}

// NewRunner builds a Runner. observer may be nil.
func NewRunner(backend Backend, logger *zap.Logger, observer PhaseObserver, cfg types.UpstreamConfig) *Runner {
	return &Runner{
		backend:      backend,
		logger:       logger,
		observer:     observer,
		pollInterval: cfg.PollInterval,
		phaseTimeout: cfg.PhaseTimeout,
		maxToolCalls: cfg.MaxToolCalls,
	}
}

// PhaseRequest describes one research phase to run.
type PhaseRequest struct {
	Phase        string
	Query        string
	Model        string
	MaxCitations int
	ResearchType types.ResearchType
	EnrichPrompt bool
}

// PhaseOutcome is the result of one phase. Section is non-nil only on
// completion.
type PhaseOutcome struct {
	Phase    string
	Section  *types.SectionResult
	Err      error
	TimedOut bool
}

// Completed reports whether the phase produced a section.
func (o PhaseOutcome) Completed() bool {
	return o.Err == nil && o.Section != nil
}

// PhaseForType maps a single-phase research type to its phase name.
// Custom research maps to "custom", which PhasePrompt treats as a
// pass-through query.
func PhaseForType(rt types.ResearchType) string {
	switch rt {
	case types.ResearchValidation:
		return types.SectionValidation
	case types.ResearchMarket:
		return types.SectionMarket
	case types.ResearchFinancial:
		return types.SectionFinancial
	default:
		return "custom"
	}
}

// RunPhase submits one research phase and blocks until it finishes or
// times out. Enrichment failures fall back to the raw query; the phase
// still runs.
func (r *Runner) RunPhase(ctx context.Context, req PhaseRequest) PhaseOutcome {
	start := time.Now()
	outcome := r.runPhase(ctx, req)
	if r.observer != nil {
		status := "failed"
		if outcome.Completed() {
			status = "completed"
		}
		r.observer.ObservePhase(req.Phase, status, time.Since(start))
	}
	return outcome
}

func (r *Runner) runPhase(ctx context.Context, req PhaseRequest) PhaseOutcome {
	query := req.Query
	if req.EnrichPrompt {
		enriched, err := r.backend.Enrich(ctx, query, req.ResearchType)
		if err != nil {
			r.logger.Warn("prompt enrichment failed, using raw query",
				zap.String("phase", req.Phase),
				zap.Error(err))
		} else {
			query = enriched
		}
	}

	input := PhasePrompt(req.Phase, query, req.MaxCitations)

	id, err := r.backend.Submit(ctx, req.Model, input, r.maxToolCalls)
	if err != nil {
		return PhaseOutcome{Phase: req.Phase, Err: err}
	}

	r.logger.Info("research phase submitted",
		zap.String("phase", req.Phase),
		zap.String("model", req.Model),
		zap.String("response_id", id))

	output, err := r.backend.Wait(ctx, id, r.pollInterval, r.phaseTimeout)
	if err != nil {
		return PhaseOutcome{
			Phase:    req.Phase,
			Err:      err,
			TimedOut: errors.Is(err, upstream.ErrTimeout),
		}
	}

	section := format.Section(output, id)
	return PhaseOutcome{Phase: req.Phase, Section: &section}
}
