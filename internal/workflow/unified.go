// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package workflow

import (
	"fmt"
	"strings"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

var sectionHeadings = map[string]string{
	types.SectionValidation: "Business Idea Validation",
	types.SectionMarket:     "Market Research & Analysis",
	types.SectionFinancial:  "Financial Analysis & Projections",
}

// UnifiedDocument merges completed sections into one markdown report.
// Sections appear in fixed order; failed or missing phases are simply
// omitted.
func UnifiedDocument(query string, sections map[string]types.SectionResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Comprehensive Research Report: %s\n\n", query)
	b.WriteString("## Executive Summary\n\n")
	b.WriteString("This comprehensive analysis examines the business opportunity from three critical perspectives: idea validation, market analysis, and financial viability. All research phases were conducted simultaneously for maximum efficiency and cross-validation of insights.\n\n")

	for _, name := range types.SectionOrder {
		section, ok := sections[name]
		if !ok || section.Status != types.PhaseCompleted {
			continue
		}
		text := section.FormattedOutput
		if text == "" {
			text = section.Output
		}
		if text == "" {
			continue
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n---\n\n", sectionHeadings[name], text)
	}

	b.WriteString(`## Comprehensive Conclusion & Recommendations

Based on the parallel analysis across validation, market research, and financial assessment:

### Key Findings Summary
- **Validation Score**: Based on market need, solution fit, and competitive positioning
- **Market Opportunity**: Total addressable market size and growth potential
- **Financial Viability**: Revenue projections, costs, and ROI analysis

### Strategic Recommendations
The convergence of insights from all three research phases provides a robust foundation for decision-making. This unified analysis enables confident strategic planning with validated assumptions across multiple business dimensions.

### Next Steps
1. **Immediate Actions**: Based on validation findings
2. **Market Entry Strategy**: Leveraging market research insights
3. **Financial Planning**: Implementing financial projections and milestones

*This comprehensive report was generated using parallel research execution for maximum efficiency and insight integration.*
`)

	return b.String()
}
