// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "trust-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "claude-sonnet-4-5-20250929").
	Model string `json:"model" yaml:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries is the number of retry attempts for failed API calls (default 3).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// CacheConfig holds settings for the report cache and access history store.
type CacheConfig struct {
	// DataDir is the base directory for cache storage (contains trust.db).
	DataDir string `json:"data_dir" yaml:"data_dir"`

	// MaxHistory is the default maximum number of history rows returned
	// per user (default 50).
	MaxHistory int `json:"max_history" yaml:"max_history"`
}

// RegistryConfig holds settings for the known-entity registry.
type RegistryConfig struct {
	// Path is the YAML registry file. Entry order in the file is the
	// fuzzy-match tie-break order.
	Path string `json:"path" yaml:"path"`
}

// ResearchConfig holds settings for the research backend stream.
type ResearchConfig struct {
	HTTPConfig `yaml:",inline"`

	// Endpoint is the research backend URL. An empty endpoint is a hard
	// configuration error reported before any connection attempt.
	Endpoint string `json:"endpoint" yaml:"endpoint"`

	// Token is an optional bearer token for the research backend.
	Token string `json:"token,omitempty" yaml:"token,omitempty"`

	// MaxRetries is the retry budget for rate-limited requests.
	MaxRetries int `json:"max_retries" yaml:"max_retries"`
}

// ResolveConfig holds settings for entity resolution.
type ResolveConfig struct {
	AIConfig `yaml:",inline"`
}

// AnswerConfig holds settings for report question answering.
type AnswerConfig struct {
	AIConfig `yaml:",inline"`
}

// EngineConfig groups all stage configurations.
type EngineConfig struct {
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
	Registry RegistryConfig `json:"registry" yaml:"registry"`
	Research ResearchConfig `json:"research" yaml:"research"`
	Resolve  ResolveConfig  `json:"resolve" yaml:"resolve"`
	Answer   AnswerConfig   `json:"answer" yaml:"answer"`
}
