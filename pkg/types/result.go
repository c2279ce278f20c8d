// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// PhaseStatus indicates the outcome of one research phase.
type PhaseStatus string

const (
	PhaseCompleted PhaseStatus = "completed"
	PhaseFailed    PhaseStatus = "failed"
)

// Phase names are the keys of ComprehensiveResult.Sections and the
// fixed assembly order of the unified document.
const (
	SectionValidation = "validation"
	SectionMarket     = "market"
	SectionFinancial  = "financial"
)

// SectionOrder is the fixed rendering order for comprehensive sections,
// independent of phase completion order.
var SectionOrder = []string{SectionValidation, SectionMarket, SectionFinancial}

// SectionResult holds the outcome of a single research phase. A failed
// phase carries Error and no output; a completed phase carries the raw
// and formatted text plus recomputed metrics.
type SectionResult struct {
	Status          PhaseStatus `json:"status" yaml:"status"`
	Output          string      `json:"output,omitempty" yaml:"output,omitempty"`
	FormattedOutput string      `json:"formatted_output,omitempty" yaml:"formatted_output,omitempty"`
	Citations       int         `json:"citations" yaml:"citations"`
	WordCount       int         `json:"word_count" yaml:"word_count"`
	ResponseID      string      `json:"response_id,omitempty" yaml:"response_id,omitempty"`
	Error           string      `json:"error,omitempty" yaml:"error,omitempty"`
}

// ComprehensiveResult aggregates the three concurrent research phases.
// Totals are always sums over completed sections; failed phases appear
// in Sections with status failed and contribute nothing.
type ComprehensiveResult struct {
	Type           string                   `json:"type" yaml:"type"`
	Sections       map[string]SectionResult `json:"sections" yaml:"sections"`
	TotalCitations int                      `json:"total_citations" yaml:"total_citations"`
	TotalWords     int                      `json:"total_words" yaml:"total_words"`
	UnifiedContent string                   `json:"unified_content,omitempty" yaml:"unified_content,omitempty"`
	ExecutionMode  string                   `json:"execution_mode,omitempty" yaml:"execution_mode,omitempty"`
}

// Clone returns a deep copy, so registry snapshots never alias the
// orchestrator's working state.
func (r *ComprehensiveResult) Clone() *ComprehensiveResult {
	if r == nil {
		return nil
	}
	out := *r
	out.Sections = make(map[string]SectionResult, len(r.Sections))
	for k, v := range r.Sections {
		out.Sections[k] = v
	}
	return &out
}

// CompletedSections counts sections with status completed.
func (r *ComprehensiveResult) CompletedSections() int {
	n := 0
	for _, s := range r.Sections {
		if s.Status == PhaseCompleted {
			n++
		}
	}
	return n
}

// ResearchResult is the completed (or failed) record served by the
// results endpoints and mirrored to storage. Exactly one of Section or
// Comprehensive is set for a completed task, depending on the research
// type.
type ResearchResult struct {
	TaskID       string       `json:"task_id" yaml:"task_id"`
	Status       TaskStatus   `json:"status" yaml:"status"`
	Query        string       `json:"query" yaml:"query"`
	Model        string       `json:"model" yaml:"model"`
	ResearchType ResearchType `json:"research_type" yaml:"research_type"`

	Section       *SectionResult       `json:"result,omitempty" yaml:"result,omitempty"`
	Comprehensive *ComprehensiveResult `json:"comprehensive_result,omitempty" yaml:"comprehensive_result,omitempty"`

	ProcessingSeconds       float64 `json:"processing_time" yaml:"processing_time"`
	ProcessingTimeFormatted string  `json:"processing_time_formatted" yaml:"processing_time_formatted"`

	DocumentPath string     `json:"document_path,omitempty" yaml:"document_path,omitempty"`
	CreatedAt    time.Time  `json:"created_at" yaml:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" yaml:"completed_at,omitempty"`
	Error        string     `json:"error,omitempty" yaml:"error,omitempty"`
}

// Citations returns the citation count regardless of result shape.
func (r ResearchResult) Citations() int {
	if r.Comprehensive != nil {
		return r.Comprehensive.TotalCitations
	}
	if r.Section != nil {
		return r.Section.Citations
	}
	return 0
}

// Words returns the word count regardless of result shape.
func (r ResearchResult) Words() int {
	if r.Comprehensive != nil {
		return r.Comprehensive.TotalWords
	}
	if r.Section != nil {
		return r.Section.WordCount
	}
	return 0
}
