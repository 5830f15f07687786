// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads the consensusmind settings once at startup from
// defaults, an optional YAML file and CONSENSUSMIND_* environment variables,
// in increasing order of precedence.
package config

import (
	"errors"
	"math"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/consensusmind/pkg/types"
)

const (
	// EnvPrefix prefixes every environment override; "llm.endpoint" is read
	// from CONSENSUSMIND_LLM_ENDPOINT.
	EnvPrefix = "CONSENSUSMIND"

	// FileName is the config file name searched for without extension.
	FileName = "consensusmind"
)

// Defaults returns the settings used when neither file nor environment
// supplies a value.
func Defaults() types.Config {
	return types.Config{
		LLM: types.LLMConfig{
			Provider:    "openai",
			MaxTokens:   512,
			Temperature: 0.7,
			Timeout:     60 * time.Second,
		},
		Arxiv: types.ArxivConfig{
			UserAgent:       "consensusmind/0.1",
			Timeout:         30 * time.Second,
			DownloadTimeout: 120 * time.Second,
			PageSize:        100,
			PageDelay:       3 * time.Second,
			SortBy:          "relevance",
			SortOrder:       "descending",
		},
		PapersDir: filepath.Join("data", "papers"),
	}
}

// New returns a viper instance with every key defaulted and environment
// overrides enabled. Callers may bind command-line flags to it before Load.
func New() *viper.Viper {
	v := viper.New()
	d := Defaults()

	v.SetDefault("llm.provider", d.LLM.Provider)
	v.SetDefault("llm.endpoint", "")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)
	v.SetDefault("llm.temperature", d.LLM.Temperature)
	v.SetDefault("llm.timeout", d.LLM.Timeout)

	v.SetDefault("arxiv.base_url", "")
	v.SetDefault("arxiv.user_agent", d.Arxiv.UserAgent)
	v.SetDefault("arxiv.timeout", d.Arxiv.Timeout)
	v.SetDefault("arxiv.download_timeout", d.Arxiv.DownloadTimeout)
	v.SetDefault("arxiv.page_size", d.Arxiv.PageSize)
	v.SetDefault("arxiv.page_delay", d.Arxiv.PageDelay)
	v.SetDefault("arxiv.strict", d.Arxiv.Strict)
	v.SetDefault("arxiv.sort_by", d.Arxiv.SortBy)
	v.SetDefault("arxiv.sort_order", d.Arxiv.SortOrder)

	v.SetDefault("papers_dir", d.PapersDir)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads configFile, or searches ./consensusmind.yaml and
// ~/.config/consensusmind/consensusmind.yaml when configFile is empty, and
// returns the validated settings. A missing file is only an error when
// configFile names it explicitly. All failures are types.ErrConfig.
func Load(v *viper.Viper, configFile string) (*types.Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(FileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", FileName))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, types.ErrConfig.Wrap(err, "reading config file")
		}
	}

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, types.ErrConfig.Wrap(err, "decoding config")
	}
	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks ranges and formats that Load cannot express through
// defaults. It does not require llm.endpoint or llm.model: commands that
// never talk to the LLM run without them, and llm.NewClient rejects them
// when they are missing.
func Validate(cfg *types.Config) error {
	if cfg.LLM.Endpoint != "" {
		if u, err := url.Parse(cfg.LLM.Endpoint); err != nil || u.Scheme == "" || u.Host == "" {
			return types.ConfigField("llm.endpoint", "must be an absolute URL, got %q", cfg.LLM.Endpoint)
		}
	}
	if cfg.LLM.MaxTokens <= 0 {
		return types.ConfigField("llm.max_tokens", "must be > 0, got %d", cfg.LLM.MaxTokens)
	}
	if math.IsNaN(cfg.LLM.Temperature) || cfg.LLM.Temperature < 0 || cfg.LLM.Temperature > 2 {
		return types.ConfigField("llm.temperature", "must be in [0, 2], got %g", cfg.LLM.Temperature)
	}
	if cfg.LLM.Timeout <= 0 {
		return types.ConfigField("llm.timeout", "must be positive, got %v", cfg.LLM.Timeout)
	}
	if cfg.Arxiv.Timeout <= 0 {
		return types.ConfigField("arxiv.timeout", "must be positive, got %v", cfg.Arxiv.Timeout)
	}
	if cfg.Arxiv.DownloadTimeout <= 0 {
		return types.ConfigField("arxiv.download_timeout", "must be positive, got %v", cfg.Arxiv.DownloadTimeout)
	}
	if cfg.Arxiv.PageSize <= 0 {
		return types.ConfigField("arxiv.page_size", "must be > 0, got %d", cfg.Arxiv.PageSize)
	}
	if cfg.Arxiv.PageDelay < 0 {
		return types.ConfigField("arxiv.page_delay", "must not be negative, got %v", cfg.Arxiv.PageDelay)
	}
	if strings.TrimSpace(cfg.PapersDir) == "" {
		return types.ConfigField("papers_dir", "must not be empty")
	}
	return nil
}
