package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <name-or-url>",
	Short: "Print the record id for a meeting name or Notion URL",
	Long: `Resolve searches the meetings database for a record whose title contains
the input. If exactly one record matches, its id is printed. Otherwise the
input is parsed as a https://www.notion.so/ page URL.

Example:
  ecosnap resolve "Weekly sync 2024-03-01"
  ecosnap resolve https://www.notion.so/acme/Weekly-sync-0123456789abcdef0123456789abcdef`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
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
		r, err := newResolver(cmd.Context(), cfg, nc)
		if err != nil {
			return err
		}

		id, err := r.Resolve(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
	resolveCmd.Flags().StringVar(&notionTokenFlag, "notion-token", "", "Notion integration token")
}
