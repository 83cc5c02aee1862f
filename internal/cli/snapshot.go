package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ecosnap/internal/logging"
	"github.com/ppiankov/ecosnap/internal/pipeline"
	"github.com/ppiankov/ecosnap/internal/printer"
	"github.com/ppiankov/ecosnap/internal/snapshot"
	"github.com/ppiankov/ecosnap/internal/worker"
)

var (
	githubTokenFlag string
	notionTokenFlag string
	snapOut         string
	snapFormat      string
	reposFile       string
	extraRepos      []string
	noCache         bool
	workers         int
)

// snapshotCmd represents the snapshot command
var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Collect tracked issues and repository items into one snapshot",
	Long: `Snapshot loads every GitHub reference listed in the Notion tracking
database, then every issue and pull request of the configured repositories,
and concatenates them (repository listings win over tracked copies).

Tokens are taken from --github-token/--notion-token, then GITHUB_TOKEN and
NOTION_TOKEN, then ~/.githubtoken, ~/.notiontoken and ./.notiontoken.

Example:
  ecosnap snapshot
  ecosnap snapshot --out snapshots/2024-03-01.json
  ecosnap snapshot --repo acme/api --repos-file repos.txt --format yaml`,
	Args: cobra.NoArgs,
	RunE: runSnapshot,
}

func init() {
	rootCmd.AddCommand(snapshotCmd)

	snapshotCmd.Flags().StringVar(&githubTokenFlag, "github-token", "", "GitHub personal access token")
	snapshotCmd.Flags().StringVar(&notionTokenFlag, "notion-token", "", "Notion integration token")
	snapshotCmd.Flags().StringVarP(&snapOut, "out", "o", "-", "output path (format from extension), - for stdout")
	snapshotCmd.Flags().StringVar(&snapFormat, "format", "", "stdout format: json or yaml (default from output.format)")
	snapshotCmd.Flags().StringVar(&reposFile, "repos-file", "", "file with one owner/repo per line")
	snapshotCmd.Flags().StringSliceVar(&extraRepos, "repo", nil, "additional owner/repo (repeatable)")
	snapshotCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the GitHub response cache")
	snapshotCmd.Flags().IntVar(&workers, "workers", 0, "concurrent repository loads (default from concurrency.workers)")

	_ = viper.BindPFlag("concurrency.workers", snapshotCmd.Flags().Lookup("workers"))
}

func runSnapshot(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return err
	}
	if noCache {
		cfg.Cache.Enabled = false
	}
	if cmd.Flags().Changed("workers") {
		cfg.Concurrency.Workers = workers
	}

	repos := cfg.GitHub.Repos
	if reposFile != "" {
		fromFile, err := worker.ReadListFile(reposFile)
		if err != nil {
			return fmt.Errorf("read repos file: %w", err)
		}
		repos = worker.MergeLists(repos, fromFile)
	}
	repos = worker.MergeLists(repos, extraRepos)

	t, err := newTransport(cfg)
	if err != nil {
		return err
	}
	defer t.close()

	gh, err := newGitHubClient(cfg, t, githubTokenFlag)
	if err != nil {
		return err
	}

	assembler := &pipeline.Assembler{
		Loader:  gh,
		Repos:   repos,
		Workers: cfg.Concurrency.Workers,
	}
	if cfg.Notion.TrackingDatabaseID != "" {
		nc, err := newNotionClient(cfg, t, notionTokenFlag)
		if err != nil {
			return err
		}
		assembler.Tracking = pipeline.NotionTracking(nc, cfg.Notion.TrackingDatabaseID, cfg.Notion.TitleProperty)
	} else {
		logging.FromContext(ctx).Warn().Msg("notion.tracking_database_id is not set; only repositories are loaded")
	}

	if verbose {
		printer.Step("Loading %d repositories with %d workers", len(repos), max(cfg.Concurrency.Workers, 1))
	}

	snap, err := assembler.Run(ctx)
	if err != nil {
		return fmt.Errorf("snapshot failed: %w", err)
	}

	if snapOut == "" || snapOut == "-" {
		format := snapFormat
		if format == "" {
			format = cfg.Output.Format
		}
		f, err := snapshot.ParseFormat(format)
		if err != nil {
			return err
		}
		return snapshot.Encode(os.Stdout, snap, f)
	}

	if err := snapshot.Write(snapOut, snap); err != nil {
		return err
	}
	printer.Success("Wrote %d items to %s (run %s)", len(snap.Items), snapOut, snap.RunID)
	return nil
}
