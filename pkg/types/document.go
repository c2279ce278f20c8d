// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// DocumentMeta is the append-only metadata record written alongside
// each persisted research document. One record per document, keyed by
// task id.
type DocumentMeta struct {
	TaskID       string       `json:"task_id" yaml:"task_id"`
	IdeaName     string       `json:"idea_name" yaml:"idea_name"`
	ResearchType ResearchType `json:"research_type" yaml:"research_type"`
	Model        string       `json:"model_used" yaml:"model_used"`
	FilePath     string       `json:"file_path" yaml:"file_path"`
	WordCount    int          `json:"word_count" yaml:"word_count"`
	CreatedAt    time.Time    `json:"created_at" yaml:"created_at"`
	Archived     bool         `json:"archived,omitempty" yaml:"archived,omitempty"`
	ArchivedAt   *time.Time   `json:"archived_at,omitempty" yaml:"archived_at,omitempty"`
}
