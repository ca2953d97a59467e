// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/trust-engine/internal/answer"
	"github.com/pdiddy/trust-engine/internal/assess"
	"github.com/pdiddy/trust-engine/internal/cache"
	"github.com/pdiddy/trust-engine/internal/entity"
	"github.com/pdiddy/trust-engine/internal/stream"
	"github.com/pdiddy/trust-engine/pkg/types"
)

const (
	defaultTimeout   = 120 * time.Second
	defaultUserAgent = "trust-engine/0.1"
	defaultModel     = "claude-sonnet-4-5-20250929"
	defaultDataDir   = "data"
)

// flagOrConfig prefers an explicitly set flag, then the viper config
// value, then the flag default.
func flagOrConfig(cmd *cobra.Command, flag, configKey string) string {
	if cmd.Flags().Changed(flag) {
		v, _ := cmd.Flags().GetString(flag)
		return v
	}
	if v := viper.GetString(configKey); v != "" {
		return v
	}
	v, _ := cmd.Flags().GetString(flag)
	return v
}

// engineConfig assembles the full configuration from flags, the config
// file, and loaded secrets.
func engineConfig(cmd *cobra.Command) types.EngineConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout == 0 {
		if timeout = viper.GetDuration("research.timeout"); timeout == 0 {
			timeout = defaultTimeout
		}
	}

	model := flagOrConfig(cmd, "model", "resolve.model")
	if model == "" {
		model = defaultModel
	}

	apiKey := secretDefault("anthropic-api-key", os.Getenv("ANTHROPIC_API_KEY"))

	ai := types.AIConfig{
		Model:  model,
		APIKey: apiKey,
	}

	return types.EngineConfig{
		Cache: types.CacheConfig{
			DataDir:    flagOrConfig(cmd, "data-dir", "cache.data_dir"),
			MaxHistory: viper.GetInt("cache.max_history"),
		},
		Registry: types.RegistryConfig{
			Path: flagOrConfig(cmd, "registry", "registry.path"),
		},
		Research: types.ResearchConfig{
			HTTPConfig: types.HTTPConfig{
				Timeout:   timeout,
				UserAgent: defaultUserAgent,
			},
			Endpoint:   flagOrConfig(cmd, "endpoint", "research.endpoint"),
			Token:      secretDefault("research-endpoint-token", viper.GetString("research.token")),
			MaxRetries: viper.GetInt("research.max_retries"),
		},
		Resolve: types.ResolveConfig{AIConfig: ai},
		Answer:  types.AnswerConfig{AIConfig: ai},
	}
}

// newExtractor returns a Claude-backed extractor, or nil when no API
// key is configured. Resolution without an extractor still handles
// hashes and registry-exact queries.
func newExtractor(cfg types.EngineConfig) entity.Extractor {
	if cfg.Resolve.APIKey == "" {
		return nil
	}
	return &entity.ClaudeExtractor{
		APIKey: cfg.Resolve.APIKey,
		Model:  cfg.Resolve.Model,
		Client: &http.Client{Timeout: 60 * time.Second},
	}
}

// newRunner wires the assessment pipeline from configuration. The
// returned store must be closed by the caller.
func newRunner(cfg types.EngineConfig) (*assess.Runner, *cache.Store, error) {
	store, err := cache.NewStore(cfg.Cache)
	if err != nil {
		return nil, nil, err
	}

	registry, err := entity.LoadRegistry(cfg.Registry.Path)
	if err != nil {
		store.Close()
		return nil, nil, err
	}

	runner := &assess.Runner{
		Cache:     store,
		Registry:  registry,
		Extractor: newExtractor(cfg),
		Stream: &stream.Client{
			Endpoint:   cfg.Research.Endpoint,
			HTTP:       &http.Client{Timeout: cfg.Research.Timeout},
			Token:      cfg.Research.Token,
			UserAgent:  cfg.Research.UserAgent,
			MaxRetries: cfg.Research.MaxRetries,
		},
		Warn: os.Stderr,
	}
	return runner, store, nil
}

// newAnswerer returns a Claude-backed answerer or an error when the API
// key is missing.
func newAnswerer(cfg types.EngineConfig) (answer.Answerer, error) {
	if cfg.Answer.APIKey == "" {
		return nil, fmt.Errorf("anthropic API key required: set ANTHROPIC_API_KEY or add .secrets/anthropic-api-key")
	}
	return &answer.ClaudeAnswerer{
		APIKey: cfg.Answer.APIKey,
		Model:  cfg.Answer.Model,
		Client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}
