package cmd

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/conceptmap/conceptmap/internal/quiz"
	"github.com/conceptmap/conceptmap/internal/server"
	"github.com/conceptmap/conceptmap/internal/wikidata"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interactive graph web API",
	Long: `serve starts the JSON API backing the interactive graph front end:
entity search, depth-1 traversal, per-node expansion, and quiz generation.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := wikidata.NewClient(&cfg.Wikidata, log)
	generator := quiz.New(&cfg.Ollama, log)

	srv := server.New(cfg, client, generator, log)
	return srv.ListenAndServe(ctx)
}
