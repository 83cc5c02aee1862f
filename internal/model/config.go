package model

import "time"

// Config holds the complete ecosnap configuration.
// Values are layered as flags > ECOSNAP_* env > config file > DefaultConfig.
type Config struct {
	Notion      NotionConfig      `mapstructure:"notion" yaml:"notion"`
	GitHub      GitHubConfig      `mapstructure:"github" yaml:"github"`
	HTTP        HTTPConfig        `mapstructure:"http" yaml:"http"`
	Cache       CacheConfig       `mapstructure:"cache" yaml:"cache"`
	LLM         LLMConfig         `mapstructure:"llm" yaml:"llm"`
	Output      OutputConfig      `mapstructure:"output" yaml:"output"`
	Concurrency ConcurrencyConfig `mapstructure:"concurrency" yaml:"concurrency"`
}

// NotionConfig configures the knowledge-base side.
type NotionConfig struct {
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`
	Version string `mapstructure:"version" yaml:"version"`
	Token   string `mapstructure:"token" yaml:"-"`

	// TrackingDatabaseID lists GitHub references to include in snapshots.
	TrackingDatabaseID string `mapstructure:"tracking_database_id" yaml:"tracking_database_id"`

	// MeetingsDatabaseID is searched by title when resolving meeting names.
	MeetingsDatabaseID string `mapstructure:"meetings_database_id" yaml:"meetings_database_id"`

	// MeetingsDatabaseTitle locates the meetings database by search when no id is set.
	MeetingsDatabaseTitle string `mapstructure:"meetings_database_title" yaml:"meetings_database_title"`

	// TitleProperty is the database column holding row titles.
	TitleProperty string `mapstructure:"title_property" yaml:"title_property"`

	// StrictNames makes ambiguous title matches fail instead of falling through.
	StrictNames bool `mapstructure:"strict_names" yaml:"strict_names"`
}

// GitHubConfig configures the code-hosting side.
type GitHubConfig struct {
	BaseURL string   `mapstructure:"base_url" yaml:"base_url"`
	Token   string   `mapstructure:"token" yaml:"-"`
	Repos   []string `mapstructure:"repos" yaml:"repos"`
}

// HTTPConfig configures the shared HTTP transport.
type HTTPConfig struct {
	Timeout           time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent         string        `mapstructure:"user_agent" yaml:"user_agent"`
	HTTPProxy         string        `mapstructure:"http_proxy" yaml:"http_proxy"`
	HTTPSProxy        string        `mapstructure:"https_proxy" yaml:"https_proxy"`
	NoProxy           string        `mapstructure:"no_proxy" yaml:"no_proxy"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second" yaml:"requests_per_second"`
	Burst             int           `mapstructure:"burst" yaml:"burst"`
}

// CacheConfig configures the GitHub response cache.
type CacheConfig struct {
	Enabled   bool          `mapstructure:"enabled" yaml:"enabled"`
	Backend   string        `mapstructure:"backend" yaml:"backend"` // memory, disk, layered, redis
	Dir       string        `mapstructure:"dir" yaml:"dir"`
	TTL       time.Duration `mapstructure:"ttl" yaml:"ttl"`
	RedisAddr string        `mapstructure:"redis_addr" yaml:"redis_addr"`
}

// LLMConfig configures the optional chat-completion summarizer.
type LLMConfig struct {
	Model        string        `mapstructure:"model" yaml:"model"`
	APIKey       string        `mapstructure:"api_key" yaml:"-"`
	BaseURL      string        `mapstructure:"base_url" yaml:"base_url,omitempty"`
	SystemPrompt string        `mapstructure:"system_prompt" yaml:"system_prompt"`
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	MaxTokens    int           `mapstructure:"max_tokens" yaml:"max_tokens"`
}

// OutputConfig configures rendering.
type OutputConfig struct {
	Format  string `mapstructure:"format" yaml:"format"` // json or yaml
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`
}

// ConcurrencyConfig bounds parallel repository loads.
type ConcurrencyConfig struct {
	Workers int `mapstructure:"workers" yaml:"workers"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Notion: NotionConfig{
			BaseURL:       "https://api.notion.com/v1",
			Version:       "2022-06-28",
			TitleProperty: "Name",
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
		},
		HTTP: HTTPConfig{
			Timeout:           30 * time.Second,
			UserAgent:         "ecosnap/0.3 (+https://github.com/ppiankov/ecosnap)",
			RequestsPerSecond: 3,
			Burst:             5,
		},
		Cache: CacheConfig{
			Enabled: true,
			Backend: "layered",
			Dir:     defaultCacheDir(),
			TTL:     15 * time.Minute,
		},
		LLM: LLMConfig{
			Model:        "gpt-4-turbo",
			SystemPrompt: "You summarize meeting notes into short progress updates. Keep every action item and its owner.",
			Timeout:      60 * time.Second,
			MaxTokens:    1000,
		},
		Output: OutputConfig{
			Format: "json",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
	}
}
