package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/ecosnap/internal/llm"
	"github.com/ppiankov/ecosnap/internal/pipeline"
	"github.com/ppiankov/ecosnap/internal/printer"
)

var (
	noteSections []string
	summarize    bool
	llmModel     string
)

// notesCmd represents the notes command
var notesCmd = &cobra.Command{
	Use:   "notes <meeting>",
	Short: "Render a meeting page as plain text",
	Long: `Notes resolves a meeting by name or URL, groups its blocks under their
top-level headings and prints them. Nested bulleted lists are flattened with
two spaces of indentation per level.

--section picks headings by exact, prefix or substring match.
--summarize sends the rendered text to the configured chat model.

Example:
  ecosnap notes "Weekly sync"
  ecosnap notes "Weekly sync" --section action --section decisions
  ecosnap notes https://www.notion.so/Weekly-sync-0123abcd --summarize`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		if llmModel != "" {
			cfg.LLM.Model = llmModel
		}

		t, err := newTransport(cfg)
		if err != nil {
			return err
		}
		defer t.close()

		nc, err := newNotionClient(cfg, t, notionTokenFlag)
		if err != nil {
			return err
		}
		r, err := newResolver(ctx, cfg, nc)
		if err != nil {
			return err
		}

		builder := &pipeline.NotesBuilder{Resolver: r, Blocks: nc}
		if summarize {
			chat, err := llm.NewChat(cfg.LLM, proxyConfig(cfg))
			if err != nil {
				return err
			}
			builder.Summarizer = chat
		}

		notes, err := builder.Build(ctx, args[0], noteSections...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprint(out, notes.Text)
		if notes.Summary != "" {
			fmt.Fprintf(out, "\n# Summary\n%s\n", notes.Summary)
			printer.Success("Summarized with %s", cfg.LLM.Model)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(notesCmd)
	notesCmd.Flags().StringVar(&notionTokenFlag, "notion-token", "", "Notion integration token")
	notesCmd.Flags().StringSliceVarP(&noteSections, "section", "s", nil, "heading to include (repeatable, partial match)")
	notesCmd.Flags().BoolVar(&summarize, "summarize", false, "summarize the notes with the configured chat model")
	notesCmd.Flags().StringVar(&llmModel, "llm-model", "", "chat model (default from llm.model)")
}
