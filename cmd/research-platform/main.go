// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the research-platform CLI. The
// serve subcommand runs the HTTP API; research runs a one-shot
// research task from the terminal.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/MajorAbdullah/ai-research-platform/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Store

// rootCmd is the base command for the research-platform CLI.
var rootCmd = &cobra.Command{
	Use:   "research-platform",
	Short: "AI deep research platform",
	Long: `research-platform runs AI-powered deep research: business idea validation,
market research, financial analysis, comprehensive multi-phase reports, and
custom research queries with prompt enrichment.

The serve subcommand exposes the asynchronous HTTP API; research runs a
single research task from the terminal and prints the report.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if s.Len() > 0 {
			fmt.Fprintf(os.Stderr, "Loaded secrets: %v\n", s.Names())
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./research-platform.yaml or ~/.config/research-platform/config.yaml)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("research-platform")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "research-platform"))
		}
	}

	viper.SetEnvPrefix("RESEARCH_PLATFORM")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
