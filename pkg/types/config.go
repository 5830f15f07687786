package types

import "time"

// LLMConfig holds the settings the LLM client is constructed from.
type LLMConfig struct {
	// Provider selects the wire schema: "openai" (completions) or "anthropic".
	Provider string `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Endpoint is the base URL of the completion API
	// (e.g. "http://localhost:8000/v1"). Required.
	Endpoint string `json:"endpoint" yaml:"endpoint" mapstructure:"endpoint"`

	// APIKey authenticates against the endpoint. It may be empty for local
	// servers that require none.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Model is the model identifier sent with every request. Required.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// MaxTokens is the default generation bound used by the CLI (default 512).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`

	// Temperature is the default sampling temperature used by the CLI (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// Timeout bounds each completion call (default 60s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// ArxivConfig holds the settings the arXiv client is constructed from.
type ArxivConfig struct {
	// BaseURL overrides the arXiv query endpoint. Empty means the public API.
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty" mapstructure:"base_url"`

	// UserAgent is sent with every request (e.g. "consensusmind/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// Timeout bounds each search request (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// DownloadTimeout bounds each PDF download (default 120s).
	DownloadTimeout time.Duration `json:"download_timeout" yaml:"download_timeout" mapstructure:"download_timeout"`

	// PageSize is the number of entries requested per page when paging (default 100).
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	// PageDelay is the pause between consecutive paged requests (default 3s).
	PageDelay time.Duration `json:"page_delay" yaml:"page_delay" mapstructure:"page_delay"`

	// Strict makes malformed feed entries fail the search instead of being dropped.
	Strict bool `json:"strict" yaml:"strict" mapstructure:"strict"`

	// SortBy is one of relevance, lastUpdatedDate, submittedDate.
	SortBy string `json:"sort_by" yaml:"sort_by" mapstructure:"sort_by"`

	// SortOrder is ascending or descending.
	SortOrder string `json:"sort_order" yaml:"sort_order" mapstructure:"sort_order"`
}

// Config groups all settings read once at startup.
type Config struct {
	LLM   LLMConfig   `json:"llm" yaml:"llm" mapstructure:"llm"`
	Arxiv ArxivConfig `json:"arxiv" yaml:"arxiv" mapstructure:"arxiv"`

	// PapersDir is where downloaded PDFs are written (default "data/papers").
	PapersDir string `json:"papers_dir" yaml:"papers_dir" mapstructure:"papers_dir"`
}
