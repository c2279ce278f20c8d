// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/MajorAbdullah/ai-research-platform/internal/upstream"
)

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "List available research models",
	RunE: func(cmd *cobra.Command, args []string) error {
		models := upstream.Models()

		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(models)
		}

		ids := make([]string, 0, len(models))
		for id := range models {
			ids = append(ids, id)
		}
		sort.Strings(ids)

		for _, id := range ids {
			info := models[id]
			fmt.Printf("%s (%s)\n", info.Name, id)
			fmt.Printf("  %s\n", info.Description)
			fmt.Printf("  Best for: %s\n", info.BestFor)
			fmt.Printf("  Cost: %s, Speed: %s\n\n", info.Cost, info.Speed)
		}
		return nil
	},
}

func init() {
	modelsCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(modelsCmd)
}
