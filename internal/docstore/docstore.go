// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package docstore persists completed research as organized markdown
// documents with YAML metadata sidecars. Documents are grouped into
// folders by research type, with metadata/ keyed by task id and
// archives/ for retired documents.
package docstore

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/MajorAbdullah/ai-research-platform/internal/format"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

const (
	metadataDir = "metadata"
	archivesDir = "archives"
)

var typeFolders = map[types.ResearchType]string{
	types.ResearchComprehensive: "comprehensive_research",
	types.ResearchValidation:    "idea_validation",
	types.ResearchMarket:        "market_research",
	types.ResearchFinancial:     "financial_analysis",
	types.ResearchCustom:        "custom_research",
}

var (
	unsafeChars = regexp.MustCompile(`[^\w\s-]`)
	separators  = regexp.MustCompile(`[-\s]+`)
)

// Manager owns the research document tree rooted at baseDir.
type Manager struct {
	baseDir string
}

// New creates the document folder structure under cfg.BaseDir.
func New(cfg types.DocumentsConfig) (*Manager, error) {
	folders := []string{metadataDir, archivesDir}
	for _, f := range typeFolders {
		folders = append(folders, f)
	}
	for _, f := range folders {
		if err := os.MkdirAll(filepath.Join(cfg.BaseDir, f), 0o755); err != nil {
			return nil, fmt.Errorf("creating document folder %s: %w", f, err)
		}
	}
	return &Manager{baseDir: cfg.BaseDir}, nil
}

// sanitizeFilename converts an idea name to a safe lowercase filename
// stem, capped at 50 characters.
func sanitizeFilename(name string) string {
	s := unsafeChars.ReplaceAllString(name, "")
	s = separators.ReplaceAllString(s, "_")
	s = strings.ToLower(strings.Trim(s, "_"))
	if len(s) > 50 {
		s = s[:50]
	}
	return s
}

func folderForType(rt types.ResearchType) string {
	if f, ok := typeFolders[rt]; ok {
		return f
	}
	return typeFolders[types.ResearchCustom]
}

// Save renders the result as a markdown document, writes its metadata
// sidecar, and returns the document path relative to the platform's
// working directory.
func (m *Manager) Save(result types.ResearchResult) (string, error) {
	now := time.Now()
	stem := sanitizeFilename(result.Query)
	if stem == "" {
		stem = "research"
	}
	filename := fmt.Sprintf("%s_%s_%s.md", stem, result.ResearchType, now.Format("20060102_150405"))
	path := filepath.Join(m.baseDir, folderForType(result.ResearchType), filename)

	content := renderDocument(result, now)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("writing document: %w", err)
	}

	meta := types.DocumentMeta{
		TaskID:       result.TaskID,
		IdeaName:     result.Query,
		ResearchType: result.ResearchType,
		Model:        result.Model,
		FilePath:     path,
		WordCount:    format.WordCount(content),
		CreatedAt:    now.UTC(),
	}
	if err := m.writeMeta(meta); err != nil {
		return "", err
	}

	return path, nil
}

func (m *Manager) writeMeta(meta types.DocumentMeta) error {
	data, err := yaml.Marshal(meta)
	if err != nil {
		return fmt.Errorf("marshaling document metadata: %w", err)
	}
	metaPath := filepath.Join(m.baseDir, metadataDir, meta.TaskID+".yaml")
	if err := os.WriteFile(metaPath, data, 0o644); err != nil {
		return fmt.Errorf("writing document metadata: %w", err)
	}
	return nil
}

func (m *Manager) readMeta(taskID string) (types.DocumentMeta, error) {
	metaPath := filepath.Join(m.baseDir, metadataDir, taskID+".yaml")
	data, err := os.ReadFile(metaPath)
	if err != nil {
		return types.DocumentMeta{}, fmt.Errorf("reading document metadata for %s: %w", taskID, err)
	}
	var meta types.DocumentMeta
	if err := yaml.Unmarshal(data, &meta); err != nil {
		return types.DocumentMeta{}, fmt.Errorf("decoding document metadata for %s: %w", taskID, err)
	}
	return meta, nil
}

// Path returns the current document path for a task id.
func (m *Manager) Path(taskID string) (string, error) {
	meta, err := m.readMeta(taskID)
	if err != nil {
		return "", err
	}
	return meta.FilePath, nil
}

// List returns document metadata, newest first, optionally filtered by
// research type.
func (m *Manager) List(typeFilter types.ResearchType) ([]types.DocumentMeta, error) {
	entries, err := os.ReadDir(filepath.Join(m.baseDir, metadataDir))
	if err != nil {
		return nil, fmt.Errorf("reading metadata directory: %w", err)
	}

	var docs []types.DocumentMeta
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".yaml") {
			continue
		}
		meta, err := m.readMeta(strings.TrimSuffix(entry.Name(), ".yaml"))
		if err != nil {
			return nil, err
		}
		if typeFilter != "" && meta.ResearchType != typeFilter {
			continue
		}
		docs = append(docs, meta)
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].CreatedAt.After(docs[j].CreatedAt)
	})
	return docs, nil
}

// Archive moves a task's document into archives/ and marks its
// metadata accordingly.
func (m *Manager) Archive(taskID string) error {
	meta, err := m.readMeta(taskID)
	if err != nil {
		return err
	}
	if meta.Archived {
		return nil
	}

	dest := filepath.Join(m.baseDir, archivesDir, filepath.Base(meta.FilePath))
	if err := os.Rename(meta.FilePath, dest); err != nil {
		return fmt.Errorf("archiving document for %s: %w", taskID, err)
	}

	now := time.Now().UTC()
	meta.Archived = true
	meta.ArchivedAt = &now
	meta.FilePath = dest
	return m.writeMeta(meta)
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// renderDocument builds the markdown document body.
func renderDocument(result types.ResearchResult, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n", result.Query)
	fmt.Fprintf(&b, "**Research Type:** %s  \n", titleCase(string(result.ResearchType)))
	fmt.Fprintf(&b, "**AI Model:** %s  \n", result.Model)
	fmt.Fprintf(&b, "**Generated:** %s  \n", now.Format("January 2, 2006 at 3:04 PM"))
	fmt.Fprintf(&b, "**Task ID:** `%s`\n\n---\n\n", result.TaskID)

	switch {
	case result.Comprehensive != nil && result.Comprehensive.UnifiedContent != "":
		b.WriteString(result.Comprehensive.UnifiedContent)
		b.WriteString("\n\n")
	case result.Comprehensive != nil:
		for _, name := range types.SectionOrder {
			section, ok := result.Comprehensive.Sections[name]
			if !ok || section.Status != types.PhaseCompleted {
				continue
			}
			fmt.Fprintf(&b, "%s\n\n---\n\n", section.FormattedOutput)
		}
	case result.Section != nil:
		b.WriteString(result.Section.FormattedOutput)
		b.WriteString("\n\n")
	}

	citations := result.Citations()
	words := result.Words()

	b.WriteString("## Research Metrics\n\n")
	fmt.Fprintf(&b, "**Citations Found:** %d\n", citations)
	fmt.Fprintf(&b, "**Word Count:** %d\n", words)
	if result.ProcessingTimeFormatted != "" {
		fmt.Fprintf(&b, "**Processing Time:** %s\n", result.ProcessingTimeFormatted)
	}
	b.WriteString("\n")

	if citations > 0 {
		fmt.Fprintf(&b, "## Sources and References\n\n*This research contains %d citations and references from various sources. Sources are embedded within the research content above.*\n\n", citations)
	}

	fmt.Fprintf(&b, "---\n\n*This research report was generated using %s on %s. Task ID: %s*\n",
		result.Model, now.Format("January 2, 2006"), result.TaskID)

	return b.String()
}
