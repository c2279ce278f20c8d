// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package portfolio derives dashboard analytics from finished research:
// per-idea scores from content keyword analysis, an idea listing grouped
// by extracted idea name, and aggregate overview metrics. Everything is
// computed on demand from the results the server already holds; there is
// no separate analytics store.
package portfolio

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// Scores rates one idea on a 0-100 scale per dimension. RiskLevel is a
// 1-10 scale and currently fixed at its midpoint.
type Scores struct {
	MarketOpportunity    int `json:"market_opportunity"`
	TechnicalFeasibility int `json:"technical_feasibility"`
	CompetitiveAdvantage int `json:"competitive_advantage"`
	RiskLevel            int `json:"risk_level"`
}

// scoreIndicators shifts a base score by 5 per indicator phrase found
// in the content.
type scoreIndicators struct {
	base     int
	positive []string
	negative []string
}

var (
	marketIndicators = scoreIndicators{
		base:     70,
		positive: []string{"large market", "growing market", "opportunity", "demand", "potential"},
		negative: []string{"small market", "declining", "saturated", "competitive"},
	}
	feasibilityIndicators = scoreIndicators{
		base:     65,
		positive: []string{"feasible", "proven technology", "available tools", "straightforward"},
		negative: []string{"complex", "challenging", "difficult", "unproven", "experimental"},
	}
	advantageIndicators = scoreIndicators{
		base:     60,
		positive: []string{"unique", "innovative", "first-mover", "differentiated"},
		negative: []string{"crowded market", "many competitors", "commoditized"},
	}
)

func (si scoreIndicators) score(content string) int {
	s := si.base
	for _, phrase := range si.positive {
		if strings.Contains(content, phrase) {
			s += 5
		}
	}
	for _, phrase := range si.negative {
		if strings.Contains(content, phrase) {
			s -= 5
		}
	}
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}

// ScoreContent rates research text on each dimension by keyword
// analysis. Matching is case-insensitive; each indicator phrase counts
// at most once.
func ScoreContent(content string) Scores {
	c := strings.ToLower(content)
	return Scores{
		MarketOpportunity:    marketIndicators.score(c),
		TechnicalFeasibility: feasibilityIndicators.score(c),
		CompetitiveAdvantage: advantageIndicators.score(c),
		RiskLevel:            5,
	}
}

// industryOrder fixes the match precedence: the first industry with a
// keyword hit wins.
var industryOrder = []string{
	"technology", "healthcare", "fintech", "education",
	"e-commerce", "fitness", "entertainment", "food",
}

var industryKeywords = map[string][]string{
	"technology":    {"tech", "software", "ai", "blockchain", "iot", "cloud", "saas"},
	"healthcare":    {"health", "medical", "hospital", "patient", "therapy", "wellness", "pharma"},
	"fintech":       {"finance", "payment", "banking", "crypto", "trading", "investment", "loan"},
	"education":     {"education", "learning", "student", "school", "university", "course", "teaching"},
	"e-commerce":    {"ecommerce", "retail", "shopping", "marketplace", "store", "commerce"},
	"fitness":       {"fitness", "workout", "exercise", "gym", "sports", "training"},
	"entertainment": {"game", "media", "music", "video", "streaming", "entertainment"},
	"food":          {"food", "restaurant", "cooking", "delivery", "recipe", "meal"},
}

// DetectIndustry classifies content into a known industry, or "other".
func DetectIndustry(content string) string {
	c := strings.ToLower(content)
	for _, industry := range industryOrder {
		for _, keyword := range industryKeywords[industry] {
			if strings.Contains(c, keyword) {
				return industry
			}
		}
	}
	return "other"
}

var ideaNamePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)(?:idea|concept|startup|business).*?:\s*(.+)`),
	regexp.MustCompile(`(?i)(.+?)(?:\s+(?:startup|idea|business|app|platform|service))`),
	regexp.MustCompile(`^(.{1,50})`),
}

// IdeaName extracts a short idea name from a research query. Names
// shorter than six characters are rejected as noise; the fallback is
// the first five words.
func IdeaName(query string) string {
	for _, pat := range ideaNamePatterns {
		if m := pat.FindStringSubmatch(query); m != nil {
			name := strings.TrimSpace(m[1])
			if len(name) > 5 {
				return name
			}
		}
	}
	words := strings.Fields(query)
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, " ")
}

// Idea statuses, ordered by readiness.
const (
	StatusInitial    = "initial"
	StatusInProgress = "in-progress"
	StatusValidated  = "validated"
	StatusReady      = "ready"
)

// statusForScores maps score thresholds to a portfolio status.
func statusForScores(s Scores) string {
	switch {
	case s.MarketOpportunity > 80 && s.TechnicalFeasibility > 75:
		return StatusReady
	case s.MarketOpportunity > 60:
		return StatusValidated
	default:
		return StatusInProgress
	}
}

// ResearchData carries the per-idea metrics derived from the latest
// completed research.
type ResearchData struct {
	TotalCitations     int `json:"total_citations"`
	ResearchDepthScore int `json:"research_depth_score"`
}

// Idea is one dashboard portfolio entry. Results sharing an extracted
// idea name collapse into one entry; the newest completed research
// provides the scores.
type Idea struct {
	IdeaID        string       `json:"idea_id"`
	IdeaName      string       `json:"idea_name"`
	Description   string       `json:"description"`
	Industry      string       `json:"industry"`
	ResearchModel string       `json:"research_model"`
	Status        string       `json:"status"`
	CreatedAt     time.Time    `json:"created_at"`
	LastResearch  time.Time    `json:"last_research"`
	ResearchCount int          `json:"research_count"`
	Scores        Scores       `json:"scores"`
	ResearchData  ResearchData `json:"research_data"`
}

// Overview is the aggregate metrics block served by the dashboard.
type Overview struct {
	TotalIdeas               int     `json:"total_ideas"`
	AvgMarketScore           float64 `json:"avg_market_score"`
	IdeasReadyForDevelopment int     `json:"ideas_ready_for_development"`
	TotalMarketOpportunity   string  `json:"total_market_opportunity"`
	NewIdeasThisMonth        int     `json:"new_ideas_this_month"`
	AvgResearchDepth         float64 `json:"avg_research_depth"`
	ValidationSuccessRate    float64 `json:"validation_success_rate"`
}

// resultContent flattens a result to the text its scores are computed
// from.
func resultContent(r types.ResearchResult) string {
	if r.Comprehensive != nil {
		if r.Comprehensive.UnifiedContent != "" {
			return r.Comprehensive.UnifiedContent
		}
		var b strings.Builder
		for _, name := range types.SectionOrder {
			if s, ok := r.Comprehensive.Sections[name]; ok && s.Status == types.PhaseCompleted {
				b.WriteString(s.FormattedOutput)
				b.WriteString("\n")
			}
		}
		return b.String()
	}
	if r.Section != nil {
		return r.Section.FormattedOutput
	}
	return ""
}

func lastResearchTime(r types.ResearchResult) time.Time {
	if r.CompletedAt != nil {
		return *r.CompletedAt
	}
	return r.CreatedAt
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// Ideas groups results by extracted idea name into portfolio entries,
// sorted by last research time, newest first. Failed results appear
// with status initial and zero scores unless a later completed run
// supersedes them.
func Ideas(results []types.ResearchResult) []Idea {
	byName := make(map[string]*Idea)

	ordered := append([]types.ResearchResult(nil), results...)
	sort.Slice(ordered, func(i, j int) bool {
		return lastResearchTime(ordered[i]).Before(lastResearchTime(ordered[j]))
	})

	for _, r := range ordered {
		name := IdeaName(r.Query)
		at := lastResearchTime(r)

		idea, ok := byName[name]
		if !ok {
			idea = &Idea{
				IdeaName:    name,
				Description: truncate(r.Query, 500),
				Status:      StatusInitial,
				CreatedAt:   r.CreatedAt,
			}
			byName[name] = idea
		}
		idea.ResearchCount++
		idea.LastResearch = at

		if r.Status != types.StatusCompleted {
			if idea.IdeaID == "" {
				idea.IdeaID = r.TaskID
				idea.ResearchModel = r.Model
			}
			continue
		}

		content := resultContent(r)
		scores := ScoreContent(content)
		citations := r.Citations()

		idea.IdeaID = r.TaskID
		idea.ResearchModel = r.Model
		idea.Industry = DetectIndustry(r.Query + " " + content)
		idea.Status = statusForScores(scores)
		idea.Scores = scores
		idea.ResearchData = ResearchData{
			TotalCitations:     citations,
			ResearchDepthScore: depthScore(citations),
		}
	}

	ideas := make([]Idea, 0, len(byName))
	for _, idea := range byName {
		if idea.Industry == "" {
			idea.Industry = "other"
		}
		ideas = append(ideas, *idea)
	}
	sort.Slice(ideas, func(i, j int) bool {
		return ideas[i].LastResearch.After(ideas[j].LastResearch)
	})
	return ideas
}

// depthScore scales citations to a 0-100 research depth score.
func depthScore(citations int) int {
	if citations >= 50 {
		return 100
	}
	return citations * 2
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

// ComputeOverview aggregates ideas into the dashboard metrics block.
// now anchors the new-this-month window.
func ComputeOverview(ideas []Idea, now time.Time) Overview {
	if len(ideas) == 0 {
		return Overview{TotalMarketOpportunity: "$0"}
	}

	var marketSum, depthSum float64
	ready, validated, newThisMonth := 0, 0, 0
	for _, idea := range ideas {
		marketSum += float64(idea.Scores.MarketOpportunity)
		depthSum += float64(idea.ResearchData.ResearchDepthScore)
		switch idea.Status {
		case StatusReady:
			ready++
			validated++
		case StatusValidated:
			validated++
		}
		if idea.CreatedAt.Year() == now.Year() && idea.CreatedAt.Month() == now.Month() {
			newThisMonth++
		}
	}

	// Market opportunity is the top ten ideas' market scores scaled to
	// dollars, displayed in billions.
	topMarket := make([]int, 0, len(ideas))
	for _, idea := range ideas {
		topMarket = append(topMarket, idea.Scores.MarketOpportunity)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(topMarket)))
	if len(topMarket) > 10 {
		topMarket = topMarket[:10]
	}
	var opportunity float64
	for _, score := range topMarket {
		opportunity += float64(score) * 100_000_000
	}

	n := float64(len(ideas))
	return Overview{
		TotalIdeas:               len(ideas),
		AvgMarketScore:           round1(marketSum / n),
		IdeasReadyForDevelopment: ready,
		TotalMarketOpportunity:   fmt.Sprintf("$%.1fB", opportunity/1_000_000_000),
		NewIdeasThisMonth:        newThisMonth,
		AvgResearchDepth:         round1(depthSum / n),
		ValidationSuccessRate:    round1(float64(validated) / n * 100),
	}
}
