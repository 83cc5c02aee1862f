package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/ecosnap/internal/printer"
	"github.com/ppiankov/ecosnap/internal/snapshot"
)

var diffFormat string

// diffCmd represents the diff command
var diffCmd = &cobra.Command{
	Use:   "diff <old> <new>",
	Short: "Compare two snapshots",
	Long: `Diff reports the items added, removed and changed between two snapshot
files written by 'ecosnap snapshot'.

Example:
  ecosnap diff snapshots/last-week.json snapshots/today.json
  ecosnap diff old.yaml new.yaml --format yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		old, err := snapshot.Load(args[0])
		if err != nil {
			return err
		}
		cur, err := snapshot.Load(args[1])
		if err != nil {
			return err
		}

		format, err := snapshot.ParseFormat(diffFormat)
		if err != nil {
			return err
		}

		delta := snapshot.Diff(old, cur)
		if err := snapshot.Encode(os.Stdout, delta, format); err != nil {
			return err
		}

		if delta.Empty() {
			printer.Success("No changes")
		} else {
			printer.Success("%d added, %d removed, %d changed", len(delta.Added), len(delta.Removed), len(delta.Changed))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(diffCmd)
	diffCmd.Flags().StringVar(&diffFormat, "format", "json", "output format: json or yaml")
}
