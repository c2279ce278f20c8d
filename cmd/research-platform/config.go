// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"os"

	"github.com/spf13/viper"

	"github.com/MajorAbdullah/ai-research-platform/pkg/types"
)

// platformConfig assembles the runtime configuration from the config
// file and environment, with defaults filled in by Normalize.
func platformConfig() types.Config {
	cfg := types.Config{
		Server: types.ServerConfig{
			Addr:            viper.GetString("server.addr"),
			Workers:         viper.GetInt("server.workers"),
			ShutdownTimeout: viper.GetDuration("server.shutdown_timeout"),
		},
		Upstream: types.UpstreamConfig{
			APIKey:          apiKey(),
			DefaultModel:    viper.GetString("upstream.default_model"),
			EnrichmentModel: viper.GetString("upstream.enrichment_model"),
			PollInterval:    viper.GetDuration("upstream.poll_interval"),
			PhaseTimeout:    viper.GetDuration("upstream.phase_timeout"),
			MaxToolCalls:    viper.GetInt("upstream.max_tool_calls"),
		},
		Storage: types.StorageConfig{
			DataDir: viper.GetString("storage.data_dir"),
		},
		Documents: types.DocumentsConfig{
			BaseDir: viper.GetString("documents.base_dir"),
		},
	}
	cfg.Normalize()
	return cfg
}

// apiKey resolves the OpenAI API key: config file, then environment,
// then .secrets/openai-api-key.
func apiKey() string {
	if key := viper.GetString("openai_api_key"); key != "" {
		return key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return loadedSecrets.OpenAIKey()
}
