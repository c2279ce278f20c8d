// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package docstore

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	m, err := New(types.DocumentsConfig{BaseDir: t.TempDir()})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return m
}

func completedResult(taskID string, rt types.ResearchType) types.ResearchResult {
	done := time.Now().UTC()
	return types.ResearchResult{
		TaskID:       taskID,
		Status:       types.StatusCompleted,
		Query:        "AI-Powered Fitness Coaching App!",
		Model:        "o3-deep-research",
		ResearchType: rt,
		Section: &types.SectionResult{
			Status:          types.PhaseCompleted,
			Output:          "The market is growing [r](http://a) fast.",
			FormattedOutput: "The market is growing [r](http://a) fast.",
			Citations:       1,
			WordCount:       6,
		},
		ProcessingTimeFormatted: "2m 5s",
		CreatedAt:               done.Add(-2 * time.Minute),
		CompletedAt:             &done,
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"AI-Powered Fitness Coaching App!", "ai_powered_fitness_coaching_app"},
		{"  spaces   everywhere  ", "spaces_everywhere"},
		{"Ünïcode & $ymbols", "ncode_ymbols"},
		{strings.Repeat("long ", 30), strings.Repeat("long_", 10)[:50]},
	}
	for _, tt := range tests {
		if got := sanitizeFilename(tt.in); got != tt.want {
			t.Errorf("sanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSaveWritesDocumentAndMetadata(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Save(completedResult("task-1", types.ResearchMarket))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if !strings.Contains(path, filepath.Join("market_research", "ai_powered_fitness_coaching_app_market_")) {
		t.Errorf("path = %q, want market_research folder with sanitized stem", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading document: %v", err)
	}
	doc := string(content)
	for _, want := range []string{
		"# AI-Powered Fitness Coaching App!",
		"**Research Type:** Market",
		"**AI Model:** o3-deep-research",
		"**Task ID:** `task-1`",
		"The market is growing [r](http://a) fast.",
		"## Research Metrics",
		"**Citations Found:** 1",
		"**Processing Time:** 2m 5s",
		"## Sources and References",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document missing %q", want)
		}
	}

	got, err := m.Path("task-1")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if got != path {
		t.Errorf("Path = %q, want %q", got, path)
	}
}

func TestSaveComprehensiveUsesUnifiedContent(t *testing.T) {
	m := newTestManager(t)

	result := completedResult("task-2", types.ResearchComprehensive)
	result.Section = nil
	result.Comprehensive = &types.ComprehensiveResult{
		Type: "comprehensive",
		Sections: map[string]types.SectionResult{
			types.SectionValidation: {Status: types.PhaseCompleted, FormattedOutput: "validation body"},
		},
		TotalCitations: 4,
		TotalWords:     120,
		UnifiedContent: "# Comprehensive Research Report: x\n\nunified body here",
		ExecutionMode:  "parallel",
	}

	path, err := m.Save(result)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.Contains(path, "comprehensive_research") {
		t.Errorf("path = %q, want comprehensive_research folder", path)
	}

	content, _ := os.ReadFile(path)
	if !strings.Contains(string(content), "unified body here") {
		t.Error("document missing unified content")
	}
	if !strings.Contains(string(content), "**Citations Found:** 4") {
		t.Error("document missing comprehensive citation total")
	}
}

// secondLevelHeadings re-parses the `## ` headings out of a rendered
// document body.
func secondLevelHeadings(doc string) []string {
	var out []string
	for _, line := range strings.Split(doc, "\n") {
		if strings.HasPrefix(line, "## ") {
			out = append(out, strings.TrimPrefix(line, "## "))
		}
	}
	return out
}

func TestRenderDocumentSectionHeadingsRoundTrip(t *testing.T) {
	phaseHeadings := map[string]string{
		types.SectionValidation: "Business Idea Validation",
		types.SectionMarket:     "Market Research & Analysis",
		types.SectionFinancial:  "Financial Analysis & Projections",
	}

	tests := []struct {
		name      string
		completed []string
	}{
		{"all phases", []string{types.SectionValidation, types.SectionMarket, types.SectionFinancial}},
		{"validation failed", []string{types.SectionMarket, types.SectionFinancial}},
		{"only financial", []string{types.SectionFinancial}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			done := make(map[string]bool, len(tt.completed))
			for _, name := range tt.completed {
				done[name] = true
			}

			sections := map[string]types.SectionResult{}
			for _, name := range types.SectionOrder {
				if done[name] {
					sections[name] = types.SectionResult{
						Status:          types.PhaseCompleted,
						FormattedOutput: "## " + phaseHeadings[name] + "\n\nfindings for the " + name + " phase",
					}
				} else {
					sections[name] = types.SectionResult{
						Status: types.PhaseFailed,
						Error:  "upstream error",
					}
				}
			}

			result := completedResult("task-r", types.ResearchComprehensive)
			result.Section = nil
			result.Comprehensive = &types.ComprehensiveResult{
				Type:          "comprehensive",
				Sections:      sections,
				ExecutionMode: "parallel",
			}

			doc := renderDocument(result, time.Now())

			var want []string
			for _, name := range types.SectionOrder {
				if done[name] {
					want = append(want, phaseHeadings[name])
				}
			}
			want = append(want, "Research Metrics")

			if got := secondLevelHeadings(doc); !reflect.DeepEqual(got, want) {
				t.Errorf("headings = %v, want %v", got, want)
			}
		})
	}
}

func TestListFiltersByType(t *testing.T) {
	m := newTestManager(t)

	if _, err := m.Save(completedResult("task-a", types.ResearchMarket)); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := m.Save(completedResult("task-b", types.ResearchValidation)); err != nil {
		t.Fatalf("Save: %v", err)
	}

	all, err := m.List("")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("List() = %d docs, want 2", len(all))
	}

	market, err := m.List(types.ResearchMarket)
	if err != nil {
		t.Fatalf("List(market): %v", err)
	}
	if len(market) != 1 || market[0].TaskID != "task-a" {
		t.Errorf("List(market) = %+v", market)
	}
}

func TestArchive(t *testing.T) {
	m := newTestManager(t)

	path, err := m.Save(completedResult("task-c", types.ResearchCustom))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	if err := m.Archive("task-c"); err != nil {
		t.Fatalf("Archive: %v", err)
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("original document still present after archive")
	}

	newPath, err := m.Path("task-c")
	if err != nil {
		t.Fatalf("Path: %v", err)
	}
	if !strings.Contains(newPath, archivesDir) {
		t.Errorf("archived path = %q", newPath)
	}
	if _, err := os.Stat(newPath); err != nil {
		t.Errorf("archived document missing: %v", err)
	}

	docs, _ := m.List("")
	if len(docs) != 1 || !docs[0].Archived || docs[0].ArchivedAt == nil {
		t.Errorf("metadata not marked archived: %+v", docs)
	}

	// Idempotent.
	if err := m.Archive("task-c"); err != nil {
		t.Errorf("second Archive: %v", err)
	}
}
