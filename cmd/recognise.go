package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-sorter/internal/classifier"
	"github.com/kozaktomas/face-sorter/internal/config"
	"github.com/kozaktomas/face-sorter/internal/gallery"
)

var recogniseCmd = &cobra.Command{
	Use:   "recognise <image> <labeled-folder>",
	Short: "List the persons of interest present in a single image",
	Long: `Build a gallery from the labeled folder and report which persons of
interest appear in the image. Faces nearest to a "none" example or
farther than the threshold from every labeled face are not reported.

Examples:
  face-sorter recognise party.jpg ./labeled
  face-sorter recognise party.jpg ./labeled --threshold 0.8 --json`,
	Args: cobra.ExactArgs(2),
	RunE: runRecognise,
}

func init() {
	rootCmd.AddCommand(recogniseCmd)

	recogniseCmd.Flags().Float64("threshold", 0, "Maximum Euclidean distance for a face match (default from config)")
	recogniseCmd.Flags().String("policy", "warn", "Labeled-folder violation policy: ignore, warn, or raise")
	recogniseCmd.Flags().Bool("json", false, "Output as JSON")
	recogniseCmd.Flags().Bool("no-cache", false, "Disable the embedding cache even when DATABASE_URL is set")
}

func runRecognise(cmd *cobra.Command, args []string) error {
	imagePath, labeledDir := args[0], args[1]
	cfg := config.Load()

	policy, err := gallery.ParsePolicy(mustGetString(cmd, "policy"))
	if err != nil {
		return err
	}

	threshold := mustGetFloat64(cmd, "threshold")
	if threshold <= 0 {
		threshold = cfg.Classifier.Threshold
	}

	pipe, cleanup := newPipeline(cmd.Context(), cfg, !mustGetBool(cmd, "no-cache"))
	defer cleanup()

	labels, err := classifier.Recognise(cmd.Context(), imagePath, labeledDir, pipe, threshold, policy)
	if err != nil {
		return err
	}

	if mustGetBool(cmd, "json") {
		if labels == nil {
			labels = []string{}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string][]string{"labels": labels})
	}

	if len(labels) == 0 {
		fmt.Println("No persons of interest recognised")
		return nil
	}
	for _, label := range labels {
		fmt.Println(label)
	}
	return nil
}
