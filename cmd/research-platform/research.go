// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/MajorAbdullah/ai-research-platform/internal/docstore"
	"github.com/MajorAbdullah/ai-research-platform/internal/upstream"
	"github.com/MajorAbdullah/ai-research-platform/internal/workflow"
	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research [query]",
	Short: "Run a one-shot research task and print the report",
	Long: `Research runs a single research task synchronously: submits it to the
AI backend, polls until completion, and prints the markdown report to
stdout. Progress goes to stderr.

Research types: custom (default), validation, market, financial,
comprehensive (all three phases in parallel).`,
	Args: cobra.ArbitraryArgs,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("query", "", "research query (or pass as positional args)")
	researchCmd.Flags().String("model", "", "research model (default from config)")
	researchCmd.Flags().String("type", "custom", "research type: custom, validation, market, financial, comprehensive")
	researchCmd.Flags().Int("max-citations", types.DefaultMaxCitations, "citation limit (5-100)")
	researchCmd.Flags().Bool("enrich", true, "enrich custom queries before research")
	researchCmd.Flags().Bool("save", false, "persist the report to the document store")
	researchCmd.Flags().Bool("json", false, "print the full result as JSON")
	researchCmd.Flags().Bool("verbose", false, "log backend activity to stderr")

	rootCmd.AddCommand(researchCmd)
}

// cliSink prints orchestrator progress to stderr and discards partials.
type cliSink struct{}

func (cliSink) SetProgress(id, progress string) bool {
	fmt.Fprintln(os.Stderr, progress)
	return true
}

func (cliSink) SetPartial(id string, partial *types.ComprehensiveResult) bool {
	return true
}

func runResearch(cmd *cobra.Command, args []string) error {
	query, _ := cmd.Flags().GetString("query")
	if query == "" && len(args) > 0 {
		query = strings.Join(args, " ")
	}
	if query == "" {
		return fmt.Errorf("a research query is required")
	}

	cfg := platformConfig()
	if cfg.Upstream.APIKey == "" {
		return fmt.Errorf("OpenAI API key is required: set OPENAI_API_KEY or .secrets/openai-api-key")
	}

	model, _ := cmd.Flags().GetString("model")
	if model == "" {
		model = cfg.Upstream.DefaultModel
	}
	if !upstream.KnownModel(model) {
		return fmt.Errorf("unknown model %q", model)
	}

	typeFlag, _ := cmd.Flags().GetString("type")
	rt := types.ResearchType(typeFlag)
	if !rt.Valid() {
		return fmt.Errorf("unknown research type %q", typeFlag)
	}

	maxCitations, _ := cmd.Flags().GetInt("max-citations")
	if maxCitations < 5 || maxCitations > 100 {
		return fmt.Errorf("max-citations must be between 5 and 100")
	}
	enrich, _ := cmd.Flags().GetBool("enrich")

	logger := zap.NewNop()
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		var err error
		if logger, err = zap.NewDevelopment(); err != nil {
			return err
		}
	}

	client, err := upstream.NewClient(cfg.Upstream.APIKey, cfg.Upstream.EnrichmentModel)
	if err != nil {
		return err
	}
	runner := workflow.NewRunner(client, logger, nil, cfg.Upstream)

	start := time.Now()
	result := types.ResearchResult{
		TaskID:       uuid.NewString(),
		Query:        query,
		Model:        model,
		ResearchType: rt,
		CreatedAt:    start.UTC(),
	}

	ctx := cmd.Context()
	if rt == types.ResearchComprehensive {
		orch := workflow.NewOrchestrator(runner, logger)
		comp, err := orch.Comprehensive(ctx, result.TaskID, cliSink{}, query, model, maxCitations)
		if err != nil {
			return err
		}
		result.Comprehensive = comp
	} else {
		fmt.Fprintf(os.Stderr, "Running %s research with %s...\n", rt, model)
		outcome := runner.RunPhase(ctx, workflow.PhaseRequest{
			Phase:        workflow.PhaseForType(rt),
			Query:        query,
			Model:        model,
			MaxCitations: maxCitations,
			ResearchType: rt,
			EnrichPrompt: enrich && rt == types.ResearchCustom,
		})
		if !outcome.Completed() {
			return outcome.Err
		}
		result.Section = outcome.Section
	}

	completedAt := time.Now().UTC()
	elapsed := time.Since(start)
	result.Status = types.StatusCompleted
	result.CompletedAt = &completedAt
	result.ProcessingSeconds = float64(int(elapsed.Seconds()*10)) / 10
	result.ProcessingTimeFormatted = fmt.Sprintf("%dm %ds", int(elapsed.Seconds())/60, int(elapsed.Seconds())%60)

	if save, _ := cmd.Flags().GetBool("save"); save {
		docs, err := docstore.New(cfg.Documents)
		if err != nil {
			return err
		}
		path, err := docs.Save(result)
		if err != nil {
			return err
		}
		result.DocumentPath = path
		fmt.Fprintf(os.Stderr, "Saved document: %s\n", path)
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	if result.Comprehensive != nil {
		fmt.Println(result.Comprehensive.UnifiedContent)
	} else {
		fmt.Println(result.Section.FormattedOutput)
	}
	fmt.Fprintf(os.Stderr, "\n%d citations, %d words, %s\n",
		result.Citations(), result.Words(), result.ProcessingTimeFormatted)
	return nil
}
