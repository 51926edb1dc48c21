package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-sorter/internal/classifier"
	"github.com/kozaktomas/face-sorter/internal/config"
	"github.com/kozaktomas/face-sorter/internal/faceapi"
)

var addNoneCmd = &cobra.Command{
	Use:   "add-none <image> <labeled-folder>",
	Short: "Mark every face in an image as not of interest",
	Long: `Detect all faces in the image and append each crop to the labeled folder
as a new exclusion-class example (none_<k>.png). Faces near an exclusion
example are suppressed in later export and recognise runs.

Running this twice on the same image stores the crops twice; duplicates
grow the gallery but do not change results.

Example:
  face-sorter add-none strangers.jpg ./labeled`,
	Args: cobra.ExactArgs(2),
	RunE: runAddNone,
}

func init() {
	rootCmd.AddCommand(addNoneCmd)
}

func runAddNone(cmd *cobra.Command, args []string) error {
	imagePath, labeledDir := args[0], args[1]
	cfg := config.Load()

	client := faceapi.NewClient(cfg.FaceAPI.URL)
	created, err := classifier.AddNone(cmd.Context(), imagePath, labeledDir, client)
	if err != nil {
		return err
	}

	if len(created) == 0 {
		fmt.Println("No faces detected, nothing added")
		return nil
	}
	fmt.Printf("Added %d exclusion examples:\n", len(created))
	for _, name := range created {
		fmt.Printf("  %s\n", name)
	}
	return nil
}
