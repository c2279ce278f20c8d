// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the shared data model for the research platform:
// task records, phase results, document metadata, and configuration.
package types

import "time"

// TaskStatus indicates the lifecycle state of a research task.
type TaskStatus string

const (
	StatusPending   TaskStatus = "pending"
	StatusRunning   TaskStatus = "running"
	StatusCompleted TaskStatus = "completed"
	StatusFailed    TaskStatus = "failed"
)

// ResearchType selects which analysis a task performs.
type ResearchType string

const (
	ResearchCustom        ResearchType = "custom"
	ResearchValidation    ResearchType = "validation"
	ResearchMarket        ResearchType = "market"
	ResearchFinancial     ResearchType = "financial"
	ResearchComprehensive ResearchType = "comprehensive"
)

// Valid reports whether t is one of the accepted research types.
func (t ResearchType) Valid() bool {
	switch t {
	case ResearchCustom, ResearchValidation, ResearchMarket, ResearchFinancial, ResearchComprehensive:
		return true
	}
	return false
}

// ResearchTask is the live status record for one submitted request.
// The registry owns the canonical copy; everything handed out of the
// registry is a snapshot.
type ResearchTask struct {
	TaskID       string       `json:"task_id" yaml:"task_id"`
	Status       TaskStatus   `json:"status" yaml:"status"`
	Query        string       `json:"query" yaml:"query"`
	Model        string       `json:"model" yaml:"model"`
	ResearchType ResearchType `json:"research_type" yaml:"research_type"`

	// Progress is a human-readable status line, overwritten as the task
	// advances. Last write wins.
	Progress string `json:"progress,omitempty" yaml:"progress,omitempty"`

	// PartialResult is the in-flight snapshot of a comprehensive run,
	// populated so pollers can render sections before completion.
	PartialResult *ComprehensiveResult `json:"partial_result,omitempty" yaml:"partial_result,omitempty"`

	Error       string     `json:"error,omitempty" yaml:"error,omitempty"`
	CreatedAt   time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
}

// Clone returns a deep copy of the task.
func (t ResearchTask) Clone() ResearchTask {
	out := t
	if t.PartialResult != nil {
		out.PartialResult = t.PartialResult.Clone()
	}
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return out
}
