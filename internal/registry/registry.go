// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package registry is the process-wide task table: the single source of
// truth for what every research task is doing right now. One instance
// is created per server lifetime and passed explicitly to handlers and
// the background runner; there are no package-level globals.
package registry

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// Registry maps task id to its mutable ResearchTask record. All reads
// return deep-copied snapshots, so pollers never alias writer state.
// The mutex also serializes the orchestrator's merge writes to
// progress/partial_result.
type Registry struct {
	mu    sync.RWMutex
	tasks map[string]*types.ResearchTask
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{tasks: make(map[string]*types.ResearchTask)}
}

// Create inserts a new pending task and returns its snapshot.
func (r *Registry) Create(query, model string, researchType types.ResearchType) types.ResearchTask {
	task := &types.ResearchTask{
		TaskID:       uuid.NewString(),
		Status:       types.StatusPending,
		Query:        query,
		Model:        model,
		ResearchType: researchType,
		Progress:     "Task created, waiting to start...",
		CreatedAt:    time.Now().UTC(),
	}

	r.mu.Lock()
	r.tasks[task.TaskID] = task
	r.mu.Unlock()

	return task.Clone()
}

// Get returns a snapshot of the task, or false if the id is unknown.
func (r *Registry) Get(id string) (types.ResearchTask, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	task, ok := r.tasks[id]
	if !ok {
		return types.ResearchTask{}, false
	}
	return task.Clone(), true
}

// List returns snapshots of all tasks, in no particular order.
func (r *Registry) List() []types.ResearchTask {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]types.ResearchTask, 0, len(r.tasks))
	for _, task := range r.tasks {
		out = append(out, task.Clone())
	}
	return out
}

// ActiveCount returns the number of pending or running tasks.
func (r *Registry) ActiveCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, task := range r.tasks {
		if task.Status == types.StatusPending || task.Status == types.StatusRunning {
			n++
		}
	}
	return n
}

// SetStatus updates the task status. Returns false for unknown ids:
// writes against a deleted task are dropped, so an orphaned background
// runner becomes a no-op rather than resurrecting the record.
func (r *Registry) SetStatus(id string, status types.TaskStatus) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return false
	}
	task.Status = status
	return true
}

// SetProgress overwrites the human-readable progress line (last write wins).
func (r *Registry) SetProgress(id, progress string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return false
	}
	task.Progress = progress
	return true
}

// SetPartial stores a deep copy of the in-flight comprehensive snapshot.
func (r *Registry) SetPartial(id string, partial *types.ComprehensiveResult) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return false
	}
	task.PartialResult = partial.Clone()
	return true
}

// Complete marks the task completed at the given time.
func (r *Registry) Complete(id string, at time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return false
	}
	task.Status = types.StatusCompleted
	task.CompletedAt = &at
	return true
}

// Fail marks the task failed with an error string.
func (r *Registry) Fail(id, errMsg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	task, ok := r.tasks[id]
	if !ok {
		return false
	}
	task.Status = types.StatusFailed
	task.Error = errMsg
	return true
}

// Delete removes the task record. In-flight background work for the id
// is not stopped; its subsequent writes return false and are dropped.
func (r *Registry) Delete(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tasks[id]; !ok {
		return false
	}
	delete(r.tasks, id)
	return true
}
