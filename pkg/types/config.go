// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ServerConfig holds settings for the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (default ":8000").
	Addr string `json:"addr" yaml:"addr"`

	// Workers is the number of background execution slots (default 4).
	Workers int `json:"workers" yaml:"workers"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// UpstreamConfig holds settings for the research model API.
type UpstreamConfig struct {
	// APIKey authenticates against the OpenAI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// DefaultModel is the research model used when a request does not
	// name one (default "o3-deep-research").
	DefaultModel string `json:"default_model" yaml:"default_model"`

	// EnrichmentModel is the lightweight model used to rewrite queries
	// into researcher instructions (default "gpt-4.1").
	EnrichmentModel string `json:"enrichment_model" yaml:"enrichment_model"`

	// PollInterval is the delay between status polls of a background
	// response (default 5s).
	PollInterval time.Duration `json:"poll_interval" yaml:"poll_interval"`

	// PhaseTimeout is the wait ceiling for a single research phase
	// (default 1h). A phase that has not settled by then is reported as
	// timed out.
	PhaseTimeout time.Duration `json:"phase_timeout" yaml:"phase_timeout"`

	// MaxToolCalls caps tool invocations per research response (default 40).
	MaxToolCalls int `json:"max_tool_calls" yaml:"max_tool_calls"`
}

// StorageConfig holds settings for the SQLite task mirror.
type StorageConfig struct {
	// DataDir is the directory holding research.db (default "data").
	DataDir string `json:"data_dir" yaml:"data_dir"`
}

// DocumentsConfig holds settings for persisted research documents.
type DocumentsConfig struct {
	// BaseDir is the root of the document tree (default "research_documents").
	BaseDir string `json:"base_dir" yaml:"base_dir"`
}

// Config is the full platform configuration.
type Config struct {
	Server    ServerConfig    `json:"server" yaml:"server"`
	Upstream  UpstreamConfig  `json:"upstream" yaml:"upstream"`
	Storage   StorageConfig   `json:"storage" yaml:"storage"`
	Documents DocumentsConfig `json:"documents" yaml:"documents"`
}

// Defaults used when a config value is unset.
const (
	DefaultAddr            = ":8000"
	DefaultWorkers         = 4
	DefaultShutdownTimeout = 10 * time.Second
	DefaultModel           = "o3-deep-research"
	DefaultEnrichmentModel = "gpt-4.1"
	DefaultPollInterval    = 5 * time.Second
	DefaultPhaseTimeout    = time.Hour
	DefaultMaxToolCalls    = 40
	DefaultDataDir         = "data"
	DefaultDocumentsDir    = "research_documents"
	DefaultMaxCitations    = 15
)

// Normalize fills zero-valued fields with defaults.
func (c *Config) Normalize() {
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Workers <= 0 {
		c.Server.Workers = DefaultWorkers
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Upstream.DefaultModel == "" {
		c.Upstream.DefaultModel = DefaultModel
	}
	if c.Upstream.EnrichmentModel == "" {
		c.Upstream.EnrichmentModel = DefaultEnrichmentModel
	}
	if c.Upstream.PollInterval <= 0 {
		c.Upstream.PollInterval = DefaultPollInterval
	}
	if c.Upstream.PhaseTimeout <= 0 {
		c.Upstream.PhaseTimeout = DefaultPhaseTimeout
	}
	if c.Upstream.MaxToolCalls <= 0 {
		c.Upstream.MaxToolCalls = DefaultMaxToolCalls
	}
	if c.Storage.DataDir == "" {
		c.Storage.DataDir = DefaultDataDir
	}
	if c.Documents.BaseDir == "" {
		c.Documents.BaseDir = DefaultDocumentsDir
	}
}
