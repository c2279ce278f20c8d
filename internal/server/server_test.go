// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/portfolio"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// phaseScript scripts one phase of the fake backend.
type phaseScript struct {
	output string
	err    error
	gate   chan struct{} // Wait blocks until closed, when non-nil
}

type fakeBackend struct {
	mu     sync.Mutex
	phases map[string]phaseScript
}

func phaseOf(input string) string {
	switch {
	case strings.Contains(input, "idea validation analyst"):
		return "validation"
	case strings.Contains(input, "market research and strategy expert"):
		return "market"
	case strings.Contains(input, "finance analyst"):
		return "financial"
	default:
		return "custom"
	}
}

func (f *fakeBackend) Submit(ctx context.Context, model, input string, maxToolCalls int) (string, error) {
	return "resp_" + phaseOf(input), nil
}

func (f *fakeBackend) Wait(ctx context.Context, id string, interval, ceiling time.Duration) (string, error) {
	phase := strings.TrimPrefix(id, "resp_")
	f.mu.Lock()
	script := f.phases[phase]
	f.mu.Unlock()

	if script.gate != nil {
		select {
		case <-script.gate:
		case <-time.After(5 * time.Second):
			return "", fmt.Errorf("test gate never released")
		}
	}
	if script.err != nil {
		return "", script.err
	}
	return script.output, nil
}

func (f *fakeBackend) Enrich(ctx context.Context, query string, rt types.ResearchType) (string, error) {
	return "enriched: " + query, nil
}

// citedText builds output with an exact citation and word count.
func citedText(citations, words int) string {
	parts := make([]string, 0, words)
	for i := 0; i < citations; i++ {
		parts = append(parts, fmt.Sprintf("[s%d](http://example.com/%d)", i, i))
	}
	for len(parts) < words {
		parts = append(parts, "insight")
	}
	return strings.Join(parts, " ")
}

func testConfig(t *testing.T) types.Config {
	t.Helper()
	return types.Config{
		Server: types.ServerConfig{
			Addr:            ":0",
			Workers:         4,
			ShutdownTimeout: time.Second,
		},
		Upstream: types.UpstreamConfig{
			APIKey:          "sk-test",
			DefaultModel:    "o3-deep-research",
			EnrichmentModel: "gpt-4.1",
			PollInterval:    time.Millisecond,
			PhaseTimeout:    time.Second,
			MaxToolCalls:    40,
		},
		Storage:   types.StorageConfig{DataDir: t.TempDir()},
		Documents: types.DocumentsConfig{BaseDir: t.TempDir()},
	}
}

func newTestServer(t *testing.T, backend *fakeBackend) (*Server, *httptest.Server) {
	t.Helper()
	s, err := New(testConfig(t), zap.NewNop(), backend)
	require.NoError(t, err)

	ts := httptest.NewServer(s.routes())
	t.Cleanup(func() {
		ts.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.Shutdown(ctx)
	})
	return s, ts
}

func postJSON(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	require.NoError(t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// waitForStatus polls the status endpoint until the task reaches a
// terminal state.
func waitForStatus(t *testing.T, baseURL, taskID string, want types.TaskStatus) statusResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := http.Get(baseURL + "/api/research/" + taskID + "/status")
		require.NoError(t, err)
		status := decode[statusResponse](t, resp)
		if status.Status == want {
			return status
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("task %s never reached status %s", taskID, want)
	return statusResponse{}
}

func TestHealthAndModels(t *testing.T) {
	_, ts := newTestServer(t, &fakeBackend{phases: map[string]phaseScript{}})

	resp, err := http.Get(ts.URL + "/health")
	require.NoError(t, err)
	health := decode[map[string]any](t, resp)
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "o3-deep-research", health["default_model"])

	resp, err = http.Get(ts.URL + "/api/models")
	require.NoError(t, err)
	models := decode[struct {
		Models       map[string]struct{ Name string } `json:"models"`
		DefaultModel string                           `json:"default_model"`
	}](t, resp)
	assert.Len(t, models.Models, 2)
	assert.Contains(t, models.Models, "o4-mini-deep-research")
}

func TestSubmitValidation(t *testing.T) {
	_, ts := newTestServer(t, &fakeBackend{phases: map[string]phaseScript{}})

	tests := []struct {
		name string
		body map[string]any
	}{
		{"empty query", map[string]any{"query": ""}},
		{"long query", map[string]any{"query": strings.Repeat("x", 4001)}},
		{"unknown type", map[string]any{"query": "q", "research_type": "astrology"}},
		{"unknown model", map[string]any{"query": "q", "model": "gpt-2"}},
		{"citations too low", map[string]any{"query": "q", "max_citations": 4}},
		{"citations too high", map[string]any{"query": "q", "max_citations": 101}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postJSON(t, ts.URL+"/api/research", tt.body)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestCustomResearchLifecycle(t *testing.T) {
	backend := &fakeBackend{phases: map[string]phaseScript{
		"custom": {output: citedText(2, 40)},
	}}
	_, ts := newTestServer(t, backend)

	resp := postJSON(t, ts.URL+"/api/research", map[string]any{"query": "latest AI trends in 2026"})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	status := decode[statusResponse](t, resp)
	require.NotEmpty(t, status.TaskID)
	assert.Equal(t, types.StatusPending, status.Status)
	assert.Equal(t, types.ResearchCustom, status.ResearchType)
	assert.Equal(t, "o3-deep-research", status.Model)

	waitForStatus(t, ts.URL, status.TaskID, types.StatusCompleted)

	rresp, err := http.Get(ts.URL + "/api/research/" + status.TaskID + "/result")
	require.NoError(t, err)
	result := decode[types.ResearchResult](t, rresp)
	require.NotNil(t, result.Section)
	assert.Equal(t, 2, result.Section.Citations)
	assert.Equal(t, 40, result.Section.WordCount)
	assert.NotEmpty(t, result.ProcessingTimeFormatted)
	assert.NotEmpty(t, result.DocumentPath)

	// Document download.
	dresp, err := http.Get(ts.URL + "/api/research/" + status.TaskID + "/download")
	require.NoError(t, err)
	defer dresp.Body.Close()
	assert.Equal(t, http.StatusOK, dresp.StatusCode)
	assert.Contains(t, dresp.Header.Get("Content-Disposition"), "attachment")

	// Results listing includes the task.
	lresp, err := http.Get(ts.URL + "/api/research/results")
	require.NoError(t, err)
	all := decode[[]types.ResearchResult](t, lresp)
	require.Len(t, all, 1)
	assert.Equal(t, status.TaskID, all[0].TaskID)
}

func TestComprehensivePartialFailureScenario(t *testing.T) {
	backend := &fakeBackend{phases: map[string]phaseScript{
		"validation": {output: citedText(3, 100)},
		"market":     {output: citedText(5, 200)},
		"financial":  {err: fmt.Errorf("quota exhausted")},
	}}
	_, ts := newTestServer(t, backend)

	resp := postJSON(t, ts.URL+"/api/research", map[string]any{
		"query":         "AI-powered fitness coaching app",
		"research_type": "comprehensive",
		"max_citations": 20,
	})
	require.Equal(t, http.StatusAccepted, resp.StatusCode)
	status := decode[statusResponse](t, resp)

	waitForStatus(t, ts.URL, status.TaskID, types.StatusCompleted)

	rresp, err := http.Get(ts.URL + "/api/research/" + status.TaskID + "/result")
	require.NoError(t, err)
	result := decode[types.ResearchResult](t, rresp)
	require.NotNil(t, result.Comprehensive)

	assert.Equal(t, 8, result.Comprehensive.TotalCitations)
	assert.Equal(t, 300, result.Comprehensive.TotalWords)
	assert.Equal(t, "parallel", result.Comprehensive.ExecutionMode)

	fin := result.Comprehensive.Sections["financial"]
	assert.Equal(t, types.PhaseFailed, fin.Status)
	assert.Contains(t, fin.Error, "quota exhausted")

	assert.Contains(t, result.Comprehensive.UnifiedContent, "## Business Idea Validation")
	assert.NotContains(t, result.Comprehensive.UnifiedContent, "## Financial Analysis & Projections")

	// Progressive endpoint carries the final partial after completion.
	presp, err := http.Get(ts.URL + "/api/research/" + status.TaskID + "/progressive")
	require.NoError(t, err)
	prog := decode[progressiveResponse](t, presp)
	require.NotNil(t, prog.PartialResult)
	assert.Equal(t, 8, prog.PartialResult.TotalCitations)
}

func TestAllPhasesFailMarksTaskFailed(t *testing.T) {
	backend := &fakeBackend{phases: map[string]phaseScript{
		"validation": {err: fmt.Errorf("boom")},
		"market":     {err: fmt.Errorf("boom")},
		"financial":  {err: fmt.Errorf("boom")},
	}}
	_, ts := newTestServer(t, backend)

	resp := postJSON(t, ts.URL+"/api/research", map[string]any{
		"query":         "q",
		"research_type": "comprehensive",
	})
	status := decode[statusResponse](t, resp)

	final := waitForStatus(t, ts.URL, status.TaskID, types.StatusFailed)
	assert.Contains(t, final.Error, "all research phases failed")

	rresp, err := http.Get(ts.URL + "/api/research/" + status.TaskID + "/result")
	require.NoError(t, err)
	result := decode[types.ResearchResult](t, rresp)
	assert.Equal(t, types.StatusFailed, result.Status)
}

func TestUnknownTaskRoutes(t *testing.T) {
	_, ts := newTestServer(t, &fakeBackend{phases: map[string]phaseScript{}})

	for _, path := range []string{
		"/api/research/nope/status",
		"/api/research/nope/progressive",
		"/api/research/nope/result",
		"/api/research/nope/download",
	} {
		resp, err := http.Get(ts.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}
}

func TestDeleteWhileRunningDropsResult(t *testing.T) {
	gate := make(chan struct{})
	backend := &fakeBackend{phases: map[string]phaseScript{
		"custom": {output: citedText(1, 10), gate: gate},
	}}
	srv, ts := newTestServer(t, backend)

	resp := postJSON(t, ts.URL+"/api/research", map[string]any{"query": "q"})
	status := decode[statusResponse](t, resp)

	waitForStatus(t, ts.URL, status.TaskID, types.StatusRunning)

	req, err := http.NewRequest(http.MethodDelete, ts.URL+"/api/research/"+status.TaskID, nil)
	require.NoError(t, err)
	dresp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	dresp.Body.Close()
	require.Equal(t, http.StatusOK, dresp.StatusCode)

	close(gate)

	// The orphaned worker's writes must be dropped.
	assert.Eventually(t, func() bool {
		_, live := srv.registry.Get(status.TaskID)
		_, cached := srv.results.Get(status.TaskID)
		return !live && !cached
	}, 2*time.Second, 10*time.Millisecond)

	sresp, err := http.Get(ts.URL + "/api/research/" + status.TaskID + "/status")
	require.NoError(t, err)
	sresp.Body.Close()
	assert.Equal(t, http.StatusNotFound, sresp.StatusCode)
}

func TestDashboardEmpty(t *testing.T) {
	_, ts := newTestServer(t, &fakeBackend{phases: map[string]phaseScript{}})

	resp, err := http.Get(ts.URL + "/api/dashboard/overview")
	require.NoError(t, err)
	overview := decode[portfolio.Overview](t, resp)
	assert.Equal(t, 0, overview.TotalIdeas)
	assert.Equal(t, "$0", overview.TotalMarketOpportunity)

	iresp, err := http.Get(ts.URL + "/api/dashboard/ideas")
	require.NoError(t, err)
	listing := decode[struct {
		Ideas []portfolio.Idea `json:"ideas"`
	}](t, iresp)
	assert.Empty(t, listing.Ideas)
}

func TestDashboardReflectsCompletedResearch(t *testing.T) {
	backend := &fakeBackend{phases: map[string]phaseScript{
		"custom": {output: "a growing market with strong demand " + citedText(3, 20)},
	}}
	_, ts := newTestServer(t, backend)

	resp := postJSON(t, ts.URL+"/api/research", map[string]any{"query": "smart mirror startup"})
	status := decode[statusResponse](t, resp)
	waitForStatus(t, ts.URL, status.TaskID, types.StatusCompleted)

	iresp, err := http.Get(ts.URL + "/api/dashboard/ideas")
	require.NoError(t, err)
	listing := decode[struct {
		Ideas []portfolio.Idea `json:"ideas"`
	}](t, iresp)
	require.Len(t, listing.Ideas, 1)

	idea := listing.Ideas[0]
	assert.Equal(t, "smart mirror", idea.IdeaName)
	assert.Equal(t, status.TaskID, idea.IdeaID)
	assert.Equal(t, portfolio.StatusValidated, idea.Status)
	assert.Equal(t, 80, idea.Scores.MarketOpportunity)
	assert.Equal(t, 3, idea.ResearchData.TotalCitations)

	oresp, err := http.Get(ts.URL + "/api/dashboard/overview")
	require.NoError(t, err)
	overview := decode[portfolio.Overview](t, oresp)
	assert.Equal(t, 1, overview.TotalIdeas)
	assert.Equal(t, 80.0, overview.AvgMarketScore)
	assert.Equal(t, 100.0, overview.ValidationSuccessRate)
	assert.Equal(t, "$8.0B", overview.TotalMarketOpportunity)
}

func TestListDocuments(t *testing.T) {
	backend := &fakeBackend{phases: map[string]phaseScript{
		"custom": {output: citedText(1, 10)},
	}}
	_, ts := newTestServer(t, backend)

	resp := postJSON(t, ts.URL+"/api/research", map[string]any{"query": "solar funding landscape"})
	status := decode[statusResponse](t, resp)
	waitForStatus(t, ts.URL, status.TaskID, types.StatusCompleted)

	lresp, err := http.Get(ts.URL + "/api/research/documents")
	require.NoError(t, err)
	listing := decode[struct {
		Documents  []documentEntry `json:"documents"`
		TotalCount int             `json:"total_count"`
	}](t, lresp)
	require.Equal(t, 1, listing.TotalCount)
	assert.Equal(t, status.TaskID, listing.Documents[0].TaskID)
	assert.Equal(t, "/api/research/"+status.TaskID+"/download", listing.Documents[0].DownloadURL)

	fresp, err := http.Get(ts.URL + "/api/research/documents?research_type=market")
	require.NoError(t, err)
	filtered := decode[struct {
		TotalCount int `json:"total_count"`
	}](t, fresp)
	assert.Equal(t, 0, filtered.TotalCount)
}
