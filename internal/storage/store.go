// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package storage mirrors research tasks and completed results to a
// SQLite database so they survive process restarts. The in-memory
// registry stays authoritative for live tasks; writes here are
// best-effort and callers log failures instead of failing the task.
package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

const dbFile = "research.db"

// Store persists research task state.
type Store struct {
	db *sql.DB
}

// Open opens or creates the task database at dataDir/research.db,
// creating the schema if needed.
func Open(cfg types.StorageConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(cfg.DataDir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS research_tasks (
			task_id TEXT PRIMARY KEY,
			query TEXT NOT NULL,
			model TEXT NOT NULL,
			research_type TEXT NOT NULL,
			status TEXT NOT NULL,
			progress TEXT,
			error TEXT,
			created_at TEXT NOT NULL,
			completed_at TEXT,
			result_json TEXT,
			document_path TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_status ON research_tasks(status)`,
		`CREATE INDEX IF NOT EXISTS idx_tasks_created ON research_tasks(created_at)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// SaveTask inserts the initial record for a newly submitted task.
func (s *Store) SaveTask(task types.ResearchTask) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO research_tasks
			(task_id, query, model, research_type, status, progress, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		task.TaskID, task.Query, task.Model, string(task.ResearchType),
		string(task.Status), task.Progress, task.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("saving task %s: %w", task.TaskID, err)
	}
	return nil
}

// UpdateStatus records a status and progress change.
func (s *Store) UpdateStatus(taskID string, status types.TaskStatus, progress string) error {
	_, err := s.db.Exec(
		`UPDATE research_tasks SET status = ?, progress = ? WHERE task_id = ?`,
		string(status), progress, taskID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", taskID, err)
	}
	return nil
}

// Fail records a terminal failure.
func (s *Store) Fail(taskID, errMsg string) error {
	_, err := s.db.Exec(
		`UPDATE research_tasks SET status = ?, error = ? WHERE task_id = ?`,
		string(types.StatusFailed), errMsg, taskID,
	)
	if err != nil {
		return fmt.Errorf("failing task %s: %w", taskID, err)
	}
	return nil
}

// Complete stores the finished result alongside the task record.
func (s *Store) Complete(result types.ResearchResult) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("marshaling result %s: %w", result.TaskID, err)
	}

	completedAt := ""
	if result.CompletedAt != nil {
		completedAt = result.CompletedAt.UTC().Format(time.RFC3339Nano)
	}

	_, err = s.db.Exec(
		`UPDATE research_tasks
		 SET status = ?, completed_at = ?, result_json = ?, document_path = ?
		 WHERE task_id = ?`,
		string(result.Status), completedAt, string(payload), result.DocumentPath, result.TaskID,
	)
	if err != nil {
		return fmt.Errorf("completing task %s: %w", result.TaskID, err)
	}
	return nil
}

// Delete removes the task record.
func (s *Store) Delete(taskID string) error {
	_, err := s.db.Exec(`DELETE FROM research_tasks WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("deleting task %s: %w", taskID, err)
	}
	return nil
}

// LoadCompleted returns the stored results of all completed and failed
// tasks, newest first. Used to warm the results cache at startup.
func (s *Store) LoadCompleted() ([]types.ResearchResult, error) {
	rows, err := s.db.Query(
		`SELECT task_id, query, model, research_type, status, error, created_at, result_json
		 FROM research_tasks
		 WHERE status IN (?, ?)
		 ORDER BY created_at DESC`,
		string(types.StatusCompleted), string(types.StatusFailed),
	)
	if err != nil {
		return nil, fmt.Errorf("loading completed tasks: %w", err)
	}
	defer rows.Close()

	var results []types.ResearchResult
	for rows.Next() {
		var (
			taskID, query, model, researchType, status, createdAt string
			errMsg, resultJSON                                    sql.NullString
		)
		if err := rows.Scan(&taskID, &query, &model, &researchType, &status, &errMsg, &createdAt, &resultJSON); err != nil {
			return nil, fmt.Errorf("scanning task row: %w", err)
		}

		if resultJSON.Valid && resultJSON.String != "" {
			var r types.ResearchResult
			if err := json.Unmarshal([]byte(resultJSON.String), &r); err != nil {
				return nil, fmt.Errorf("decoding result for task %s: %w", taskID, err)
			}
			results = append(results, r)
			continue
		}

		// Failed tasks may have no stored result payload.
		created, _ := time.Parse(time.RFC3339Nano, createdAt)
		results = append(results, types.ResearchResult{
			TaskID:       taskID,
			Status:       types.TaskStatus(status),
			Query:        query,
			Model:        model,
			ResearchType: types.ResearchType(researchType),
			Error:        errMsg.String,
			CreatedAt:    created,
		})
	}
	return results, rows.Err()
}
