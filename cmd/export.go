package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-sorter/internal/classifier"
	"github.com/kozaktomas/face-sorter/internal/config"
	"github.com/kozaktomas/face-sorter/internal/gallery"
)

var exportCmd = &cobra.Command{
	Use:   "export <raw-folder> <labeled-folder> <write-folder>",
	Short: "Sort raw images into per-person folders by face matching",
	Long: `Build a gallery from the labeled folder, classify every image in the raw
folder, and copy each image into the write subfolder of every person it
matches. An image matching several persons is copied once per person.

Labeled filenames follow <label>_<suffix>.<ext> with png/jpg/jpeg
extensions; the reserved label "none" marks faces not of interest.

Examples:
  # Sort a photo dump into per-person folders
  face-sorter export ./raw ./labeled ./sorted

  # Stricter matching and annotated output copies
  face-sorter export ./raw ./labeled ./sorted --threshold 0.8 --draw-boxes

  # Abort on labeled-folder problems instead of skipping them
  face-sorter export ./raw ./labeled ./sorted --policy raise`,
	Args: cobra.ExactArgs(3),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Float64("threshold", 0, "Maximum Euclidean distance for a face match (default from config)")
	exportCmd.Flags().String("policy", "warn", "Labeled-folder violation policy: ignore, warn, or raise")
	exportCmd.Flags().Int("workers", 0, "Number of parallel workers (default from config)")
	exportCmd.Flags().Bool("draw-boxes", false, "Draw face boxes and matched names on exported copies")
	exportCmd.Flags().Bool("no-cache", false, "Disable the embedding cache even when DATABASE_URL is set")
}

func runExport(cmd *cobra.Command, args []string) error {
	rawDir, labeledDir, writeDir := args[0], args[1], args[2]
	cfg := config.Load()

	policy, err := gallery.ParsePolicy(mustGetString(cmd, "policy"))
	if err != nil {
		return err
	}

	threshold := mustGetFloat64(cmd, "threshold")
	if threshold <= 0 {
		threshold = cfg.Classifier.Threshold
	}
	workers := mustGetInt(cmd, "workers")
	if workers <= 0 {
		workers = cfg.Classifier.Workers
	}

	pipe, cleanup := newPipeline(cmd.Context(), cfg, !mustGetBool(cmd, "no-cache"))
	defer cleanup()

	exporter := classifier.NewExporter(pipe)
	result, err := exporter.DetectAndExport(cmd.Context(), rawDir, labeledDir, writeDir, classifier.ExportOptions{
		Threshold: threshold,
		Policy:    policy,
		Workers:   workers,
		DrawBoxes: mustGetBool(cmd, "draw-boxes"),
		Progress:  true,
	})
	if err != nil {
		return err
	}

	fmt.Printf("\nProcessed %d images: %d exported, %d already present, %d failed\n",
		result.Processed, result.Exported, result.Skipped, len(result.Errors))
	for _, e := range result.Errors {
		fmt.Printf("  failed: %v\n", e)
	}
	return nil
}
