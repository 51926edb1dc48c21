package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/kozaktomas/face-sorter/internal/config"
	"github.com/kozaktomas/face-sorter/internal/gallery"
	"github.com/kozaktomas/face-sorter/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve <labeled-folder>",
	Short: "Start the classification HTTP API",
	Long: `Start an HTTP server around a warm gallery built from the labeled folder.
The API exposes recognise, add-none, validate, and gallery inspection;
POST /api/gallery/reload rebuilds the gallery after labeled folder edits.`,
	Args: cobra.ExactArgs(1),
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().String("host", "0.0.0.0", "Host to bind to")
	serveCmd.Flags().String("policy", "warn", "Labeled-folder violation policy: ignore, warn, or raise")
	serveCmd.Flags().Bool("no-cache", false, "Disable the embedding cache even when DATABASE_URL is set")
}

func runServe(cmd *cobra.Command, args []string) error {
	labeledDir := args[0]
	cfg := config.Load()

	policy, err := gallery.ParsePolicy(mustGetString(cmd, "policy"))
	if err != nil {
		return err
	}

	pipe, cleanup := newPipeline(cmd.Context(), cfg, !mustGetBool(cmd, "no-cache"))
	defer cleanup()

	server := web.NewServer(pipe, labeledDir, cfg.Classifier.Threshold, policy,
		mustGetString(cmd, "host"), mustGetInt(cmd, "port"))

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start(cmd.Context())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-stop:
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return server.Shutdown(ctx)
	}
}
