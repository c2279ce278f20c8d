// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package upstream

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/responses"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

const enrichInstructionsTemplate = `You will be given a research task by a user. Your job is to produce a set of
instructions for a researcher that will complete the task. Do NOT complete the
task yourself, just provide instructions on how to complete it.

RESEARCH TYPE: %s

GUIDELINES:
1. **Maximize Specificity and Detail**
- Include all known user preferences and explicitly list key attributes or dimensions to consider
- It is of utmost importance that all details from the user are included in the instructions

2. **Fill in Unstated But Necessary Dimensions as Open-Ended**
- If certain attributes are essential for a meaningful output but the user has not provided them,
  explicitly state that they are open-ended or default to no specific constraint

3. **Avoid Unwarranted Assumptions**
- If the user has not provided a particular detail, do not invent one
- Instead, state the lack of specification and guide the researcher to treat it as flexible

4. **Use the First Person**
- Phrase the request from the perspective of the user

5. **Tables and Formatting**
- If tables would help organize information, explicitly request them
- Include expected output format with appropriate headers and structure

6. **Sources**
- Specify which sources should be prioritized
- For product research: prefer official brand sites and reputable e-commerce platforms
- For academic queries: prefer original papers and official journal publications
- Always request inline citations with full source metadata`

// Enrich rewrites a raw user query into detailed researcher
// instructions using the fast enrichment model. This is a synchronous
// call, not a background job.
func (c *Client) Enrich(ctx context.Context, query string, researchType types.ResearchType) (string, error) {
	resp, err := c.api.Responses.New(ctx, responses.ResponseNewParams{
		Model:        c.enrichModel,
		Input:        responses.ResponseNewParamsInputUnion{OfString: openai.String(query)},
		Instructions: openai.String(fmt.Sprintf(enrichInstructionsTemplate, researchType)),
	})
	if err != nil {
		return "", fmt.Errorf("enrich prompt: %w", err)
	}

	text := resp.OutputText()
	if text == "" {
		return "", fmt.Errorf("enrich prompt: empty output")
	}
	return text, nil
}
