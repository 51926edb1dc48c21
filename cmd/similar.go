package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-sorter/internal/config"
	"github.com/kozaktomas/face-sorter/internal/gallery"
)

var similarCmd = &cobra.Command{
	Use:   "similar <image> <labeled-folder>",
	Short: "Show the labeled faces most similar to each face in an image",
	Long: `Detect every face in the image and list its nearest labeled examples by
embedding distance, using an approximate nearest-neighbor index over the
gallery. Useful for tuning the threshold and debugging mismatches: the
output shows which labeled example is pulling a face towards a label.

Example:
  face-sorter similar group.jpg ./labeled --k 5`,
	Args: cobra.ExactArgs(2),
	RunE: runSimilar,
}

func init() {
	rootCmd.AddCommand(similarCmd)

	similarCmd.Flags().Int("k", 3, "Number of nearest labeled examples per face")
	similarCmd.Flags().String("policy", "warn", "Labeled-folder violation policy: ignore, warn, or raise")
	similarCmd.Flags().Bool("no-cache", false, "Disable the embedding cache even when DATABASE_URL is set")
}

func runSimilar(cmd *cobra.Command, args []string) error {
	imagePath, labeledDir := args[0], args[1]
	cfg := config.Load()

	policy, err := gallery.ParsePolicy(mustGetString(cmd, "policy"))
	if err != nil {
		return err
	}
	k := mustGetInt(cmd, "k")

	pipe, cleanup := newPipeline(cmd.Context(), cfg, !mustGetBool(cmd, "no-cache"))
	defer cleanup()

	g, err := gallery.Build(cmd.Context(), labeledDir, pipe, gallery.BuildOptions{
		Policy:  policy,
		Workers: cfg.Classifier.Workers,
	})
	if err != nil {
		return err
	}
	index := gallery.NewIndex(g)

	faces, err := pipe.FacesFromFile(cmd.Context(), imagePath)
	if err != nil {
		return err
	}
	if len(faces) == 0 {
		fmt.Println("No faces detected")
		return nil
	}

	for _, face := range faces {
		fmt.Printf("face %d (score %.2f):\n", face.Index, face.DetScore)
		neighbors, err := index.Nearest(face.Embedding, k)
		if err != nil {
			return err
		}
		for _, n := range neighbors {
			fmt.Printf("  %-20s %s (distance %.4f)\n", n.Label, n.Source, n.Distance)
		}
	}
	return nil
}
