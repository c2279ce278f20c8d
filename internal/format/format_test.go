package format

import (
	"strings"
	"testing"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

func TestCitationCount(t *testing.T) {
	cases := []struct {
		name string
		text string
		want int
	}{
		{"empty", "", 0},
		{"none", "plain prose with no links at all", 0},
		{"single", "see [report](https://example.com/r)", 1},
		{"multiple", "[a](http://x) and [b](http://y) then [c](http://z)", 3},
		{"duplicate urls count separately", "[one](http://same) ... [two](http://same)", 2},
		{"unclosed bracket", "see [report(https://example.com)", 0},
		{"missing parens", "see [report] https://example.com", 0},
		{"empty label", "[](http://x)", 0},
		{"bare brackets", "array[3] and f(x)", 0},
		{"label with spaces", "[OpenAI annual report (2025)](https://openai.com/report)", 1},
		{"inline mix", "text [a](u1) text [b](u2) [broken]( [c](u3)", 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CitationCount(tc.text); got != tc.want {
				t.Errorf("CitationCount(%q) = %d, want %d", tc.text, got, tc.want)
			}
		})
	}
}

func TestWordCount(t *testing.T) {
	if got := WordCount("one two\tthree\nfour  five"); got != 5 {
		t.Errorf("WordCount = %d, want 5", got)
	}
	if got := WordCount(""); got != 0 {
		t.Errorf("WordCount(empty) = %d, want 0", got)
	}
}

func TestSection(t *testing.T) {
	text := "Findings [a](http://x). More detail [b](http://y)."
	s := Section(text, "resp_123")

	if s.Status != types.PhaseCompleted {
		t.Fatalf("status = %q, want completed", s.Status)
	}
	if s.Citations != 2 {
		t.Errorf("citations = %d, want 2", s.Citations)
	}
	if s.WordCount != WordCount(text) {
		t.Errorf("word count = %d, want %d", s.WordCount, WordCount(text))
	}
	if s.FormattedOutput != text {
		t.Errorf("formatted output not flattened from raw output")
	}
	if s.ResponseID != "resp_123" {
		t.Errorf("response id = %q", s.ResponseID)
	}
}

// Totals must be recomputed from section text; any counts already present
// in the incoming sections are ignored.
func TestComprehensiveRecomputesTotals(t *testing.T) {
	validation := strings.Repeat("word ", 100) + "[a](http://1) [b](http://2) [c](http://3)"
	market := strings.Repeat("word ", 200) + "[d](http://4) [e](http://5) [f](http://6) [g](http://7) [h](http://8)"

	sections := map[string]types.SectionResult{
		types.SectionValidation: {
			Status: types.PhaseCompleted,
			Output: validation,
			// Bogus embedded metrics that must not be trusted.
			Citations: 999,
			WordCount: 999,
		},
		types.SectionMarket: {
			Status:          types.PhaseCompleted,
			FormattedOutput: market,
			Citations:       -5,
		},
		types.SectionFinancial: {
			Status: types.PhaseFailed,
			Error:  "upstream request failed",
			// Failed sections never contribute, whatever they claim.
			Citations: 42,
			WordCount: 1000,
		},
	}

	result := Comprehensive(sections)

	wantCitations := 3 + 5
	wantWords := WordCount(validation) + WordCount(market)

	if result.TotalCitations != wantCitations {
		t.Errorf("total citations = %d, want %d", result.TotalCitations, wantCitations)
	}
	if result.TotalWords != wantWords {
		t.Errorf("total words = %d, want %d", result.TotalWords, wantWords)
	}

	// Invariant: totals equal the sum over present completed sections.
	sumC, sumW := 0, 0
	for _, s := range result.Sections {
		if s.Status == types.PhaseCompleted {
			sumC += s.Citations
			sumW += s.WordCount
		}
	}
	if result.TotalCitations != sumC || result.TotalWords != sumW {
		t.Errorf("totals (%d, %d) do not match section sums (%d, %d)",
			result.TotalCitations, result.TotalWords, sumC, sumW)
	}

	if _, ok := result.Sections[types.SectionFinancial]; !ok {
		t.Error("failed section dropped from result; want it present with status failed")
	}
	if result.Sections[types.SectionFinancial].Status != types.PhaseFailed {
		t.Error("failed section lost its failed status")
	}
}
