// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package format post-processes raw research output into display-ready
// results: citation counts, word counts, and flattened formatted text.
// All functions are pure; no I/O.
package format

import (
	"regexp"
	"strings"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// citationRe matches markdown-style citations like [OpenAI (2025)](https://...).
// Every well-formed occurrence counts, including repeated URLs; malformed
// bracket/paren sequences do not match.
var citationRe = regexp.MustCompile(`\[([^\]]+)\]\(([^)]+)\)`)

// CitationCount returns the number of markdown citation occurrences in text.
func CitationCount(text string) int {
	if text == "" {
		return 0
	}
	return len(citationRe.FindAllStringIndex(text, -1))
}

// WordCount returns the whitespace-delimited token count of text.
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// Section shapes one completed phase output into a SectionResult with
// recomputed metrics and a flattened formatted_output field.
func Section(output, responseID string) types.SectionResult {
	return types.SectionResult{
		Status:          types.PhaseCompleted,
		Output:          output,
		FormattedOutput: output,
		Citations:       CitationCount(output),
		WordCount:       WordCount(output),
		ResponseID:      responseID,
	}
}

// FailedSection shapes a phase failure into a SectionResult marker.
func FailedSection(reason string) types.SectionResult {
	return types.SectionResult{
		Status: types.PhaseFailed,
		Error:  reason,
	}
}

// Comprehensive assembles a ComprehensiveResult from per-phase sections.
// Metrics are recomputed from each section's text rather than trusted
// from the incoming records, since sections may arrive already partially
// formatted. Totals cover completed sections only.
func Comprehensive(sections map[string]types.SectionResult) types.ComprehensiveResult {
	out := types.ComprehensiveResult{
		Type:     "comprehensive",
		Sections: make(map[string]types.SectionResult, len(sections)),
	}

	for name, s := range sections {
		if s.Status == types.PhaseCompleted {
			text := s.FormattedOutput
			if text == "" {
				text = s.Output
			}
			s.FormattedOutput = text
			s.Citations = CitationCount(text)
			s.WordCount = WordCount(text)
			out.TotalCitations += s.Citations
			out.TotalWords += s.WordCount
		}
		out.Sections[name] = s
	}

	return out
}
