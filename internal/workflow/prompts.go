// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"fmt"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

const validationPromptTemplate = `You are an idea validation analyst. Analyze the following startup/product idea:

%s

Provide a comprehensive validation report following this structure:

## 1. Idea Restatement
- Restate the idea clearly in simple terms
- Define the core problem it is solving
- Identify the target users/customers
- Determine whether the idea is a must-have or nice-to-have

## 2. Problem Validation
- Assess whether the problem is significant enough to warrant a solution
- Evaluate current solutions/alternatives and their limitations
- Identify pain point severity (low, medium, high)
- Indicate whether users are actively searching for solutions

## 3. Solution Validation
- Analyze if the proposed solution is realistic and feasible with current technology
- Identify the unique selling point (USP)
- Highlight possible technical or adoption challenges
- Evaluate how well the solution matches the problem

## 4. Customer Validation
- Define customer personas (early adopters, mainstream users)
- Assess customer willingness to pay
- Evaluate demand signals (search trends, forums, existing communities)
- Identify potential early adopter segments

IMPORTANT: Limit your research to the top %d most relevant and reliable sources. Focus on quality over quantity for citations and references.`

const marketPromptTemplate = `You are a market research and strategy expert. Conduct comprehensive market research for:

%s

Generate a detailed market research report with the following sections:

## 1. Idea Summary
- Restate the idea clearly in plain language
- Define the problem it solves
- Identify the intended audience or customer segments
- Classify whether it is B2B, B2C, or B2B2C

## 2. Market Overview
- Estimate market size (TAM, SAM, SOM if possible)
- Provide growth trends (past 3-5 years + next 5 years projection)
- Identify key geographic regions driving demand
- Highlight seasonality or cyclical patterns

## 3. Customer & Demand Analysis
- Define the primary customers or users
- Identify pain points, needs, and current alternatives
- Evaluate customer willingness to pay and price sensitivity
- Note adoption challenges (technical, cultural, behavioral)

## 4. Competitive Landscape
- Identify direct competitors (same solution)
- Identify indirect competitors (alternative solutions)
- Identify substitutes (manual or non-digital options)
- Provide a competitor SWOT analysis
- Highlight gaps and market opportunities not addressed by current players

## 5. Differentiation & Value Proposition
- Explain what makes this idea unique
- Identify potential competitive advantages
- Discuss barriers to entry (IP, network effects, switching costs)

## 6. Business Model Potential
- Suggest possible revenue models
- Recommend customer acquisition channels
- Suggest retention strategies

## 7. Opportunities & Recommendations
- Recommend the best initial market entry strategy
- Suggest a niche or early adopter segment
- Identify potential partnerships or collaborations
- Suggest future expansion opportunities

IMPORTANT: Limit your research to the top %d most relevant and current sources. Prioritize recent industry reports, credible market research, and authoritative publications.`

const financialPromptTemplate = `You are a finance analyst specializing in startups and product evaluation.
Conduct a comprehensive financial analysis for:

%s

Generate a detailed financial analysis report with the following sections:

## 1. Idea Summary
- Restate the idea briefly in financial context
- Define the revenue-generating potential of the product/service
- Clarify whether it is B2B, B2C, or mixed

## 2. Market Financial Overview
- Estimate total addressable revenue opportunity
- Highlight key financial benchmarks in this industry
- Compare market financial health (growth rates, margins, capital intensity)

## 3. Revenue Model Analysis
- Outline potential revenue streams
- Estimate ARPU (Average Revenue per User) or average contract value
- Suggest possible pricing strategies

## 4. Key Metrics & KPIs
- CAC (Customer Acquisition Cost)
- LTV (Customer Lifetime Value)
- Churn rate
- Gross margin %%
- Burn rate and runway
- Payback period on CAC

## 5. Scenario & Sensitivity Analysis
- Best-case, base-case, and worst-case financial projections
- Key assumptions (adoption rate, retention, pricing)
- Sensitivity of profitability to changes in CAC, retention, pricing, and market growth

## 6. Strategic Recommendations
- Optimal financial strategy for launch
- Best approach for capital efficiency
- Recommendations on scaling vs. focusing on niche
- Steps to reach sustainable profitability

IMPORTANT: Limit your research to the top %d most relevant financial sources. Focus on credible industry benchmarks, financial reports, and authoritative business publications.`

const customCitationClause = `

IMPORTANT: Limit your research to the top %d most relevant and reliable sources. Focus on quality over quantity for citations and references.`

// PhasePrompt builds the research prompt for a phase. For custom
// research the query is used directly (after optional enrichment) with
// the citation limit appended.
func PhasePrompt(phase string, query string, maxCitations int) string {
	switch phase {
	case types.SectionValidation:
		return fmt.Sprintf(validationPromptTemplate, query, maxCitations)
	case types.SectionMarket:
		return fmt.Sprintf(marketPromptTemplate, query, maxCitations)
	case types.SectionFinancial:
		return fmt.Sprintf(financialPromptTemplate, query, maxCitations)
	default:
		return query + fmt.Sprintf(customCitationClause, maxCitations)
	}
}
