package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "face-sorter",
	Short: "A CLI tool for sorting photo collections by the people in them",
	Long: `Face Sorter extracts, from a large unlabeled photo collection, the images
containing any of a small set of persons of interest, given only a handful
of labeled face examples per person. Faces are matched by embedding
distance against the labeled gallery; the reserved "none" class marks
faces explicitly not of interest.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env file is optional, don't fail if not found
	_ = godotenv.Load()
}
