package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ecosnap/internal/logging"
	"github.com/ppiankov/ecosnap/internal/model"
	"github.com/ppiankov/ecosnap/internal/printer"
)

// Version is set at build time with -ldflags.
var Version = "v0.3.0"

var (
	cfgFile  string
	verbose  bool
	logLevel string
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "ecosnap",
	Short: "ecosnap - progress snapshots from Notion and GitHub",
	Long: `ecosnap collects progress-tracking data into one snapshot.

It reads the GitHub references recorded in a Notion tracking database,
loads those issues and pull requests together with every issue of the
configured repositories, and writes the concatenated snapshot as JSON
or YAML. Snapshots can be diffed, and meeting pages can be rendered
(and optionally summarized) by name or URL.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := logLevel
		if verbose && level == "" {
			level = "debug"
		}
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		l := logging.Configure(logging.Config{Level: level, Format: os.Getenv("LOG_FORMAT")})
		cmd.SetContext(logging.WithLogger(cmd.Context(), &l))
		return nil
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "ecosnap %s\n", Version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.ecosnap/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")

	_ = viper.BindPFlag("output.verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig reads .env files, the config file and ECOSNAP_* variables
func initConfig() {
	for _, name := range []string{".env", filepath.Join(model.HomeDir(), ".env")} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			printer.Warning("could not load %s: %v", name, err)
		}
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(model.HomeDir())
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	setDefaults(viper.GetViper(), model.DefaultConfig())

	viper.SetEnvPrefix("ECOSNAP")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// setDefaults registers every key so that AutomaticEnv can see it.
func setDefaults(v *viper.Viper, d *model.Config) {
	v.SetDefault("notion.base_url", d.Notion.BaseURL)
	v.SetDefault("notion.version", d.Notion.Version)
	v.SetDefault("notion.token", d.Notion.Token)
	v.SetDefault("notion.tracking_database_id", d.Notion.TrackingDatabaseID)
	v.SetDefault("notion.meetings_database_id", d.Notion.MeetingsDatabaseID)
	v.SetDefault("notion.meetings_database_title", d.Notion.MeetingsDatabaseTitle)
	v.SetDefault("notion.title_property", d.Notion.TitleProperty)
	v.SetDefault("notion.strict_names", d.Notion.StrictNames)

	v.SetDefault("github.base_url", d.GitHub.BaseURL)
	v.SetDefault("github.token", d.GitHub.Token)
	v.SetDefault("github.repos", d.GitHub.Repos)

	v.SetDefault("http.timeout", d.HTTP.Timeout)
	v.SetDefault("http.user_agent", d.HTTP.UserAgent)
	v.SetDefault("http.http_proxy", d.HTTP.HTTPProxy)
	v.SetDefault("http.https_proxy", d.HTTP.HTTPSProxy)
	v.SetDefault("http.no_proxy", d.HTTP.NoProxy)
	v.SetDefault("http.requests_per_second", d.HTTP.RequestsPerSecond)
	v.SetDefault("http.burst", d.HTTP.Burst)

	v.SetDefault("cache.enabled", d.Cache.Enabled)
	v.SetDefault("cache.backend", d.Cache.Backend)
	v.SetDefault("cache.dir", d.Cache.Dir)
	v.SetDefault("cache.ttl", d.Cache.TTL)
	v.SetDefault("cache.redis_addr", d.Cache.RedisAddr)

	v.SetDefault("llm.model", d.LLM.Model)
	v.SetDefault("llm.api_key", d.LLM.APIKey)
	v.SetDefault("llm.base_url", d.LLM.BaseURL)
	v.SetDefault("llm.system_prompt", d.LLM.SystemPrompt)
	v.SetDefault("llm.timeout", d.LLM.Timeout)
	v.SetDefault("llm.max_tokens", d.LLM.MaxTokens)

	v.SetDefault("output.format", d.Output.Format)
	v.SetDefault("output.verbose", d.Output.Verbose)

	v.SetDefault("concurrency.workers", d.Concurrency.Workers)
}

// loadConfig decodes the effective configuration.
func loadConfig(v *viper.Viper) (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode configuration: %w", err)
	}
	if cfg.LLM.APIKey == "" {
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return cfg, nil
}
