package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-sorter/internal/config"
	"github.com/kozaktomas/face-sorter/internal/gallery"
)

var validateCmd = &cobra.Command{
	Use:   "validate <labeled-folder>",
	Short: "Check the labeled folder against the naming and face-count rules",
	Long: `Check every file in the labeled folder: the filename must follow
<label>_<suffix>.<ext> (png/jpg/jpeg) and the image must contain exactly
one detectable face.

The policy controls handling: "ignore" and "warn" report all violations
(warn also logs each one), "raise" fails on the first.

Examples:
  face-sorter validate ./labeled
  face-sorter validate ./labeled --policy raise`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().String("policy", "warn", "Violation policy: ignore, warn, or raise")
	validateCmd.Flags().Bool("no-cache", false, "Disable the embedding cache even when DATABASE_URL is set")
}

func runValidate(cmd *cobra.Command, args []string) error {
	labeledDir := args[0]
	cfg := config.Load()

	policy, err := gallery.ParsePolicy(mustGetString(cmd, "policy"))
	if err != nil {
		return err
	}

	pipe, cleanup := newPipeline(cmd.Context(), cfg, !mustGetBool(cmd, "no-cache"))
	defer cleanup()

	report, err := gallery.Validate(cmd.Context(), labeledDir, pipe, policy)
	if err != nil {
		return err
	}

	fmt.Printf("Checked %d files: %d valid, %d violations\n",
		report.Checked, len(report.Valid), len(report.Violations))
	for _, v := range report.Violations {
		fmt.Printf("  %v\n", v.Err)
	}
	for _, w := range report.LabelWarnings {
		fmt.Printf("  advisory: %s\n", w)
	}
	return nil
}
