// Package cmd implements the conceptmap command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/logger"
)

var (
	// Global flags
	cfgFile string
	debug   bool

	cfg *config.Config
	log *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "conceptmap",
	Short: "Map a concept's knowledge-graph neighborhood",
	Long: `conceptmap looks a concept up in Wikidata and expands its local
neighborhood into a labeled directed graph of (subject, predicate, object)
triples, ready for visualization or quiz generation.

Examples:
  # Map a concept interactively
  conceptmap map "Ada Lovelace"

  # Batched SPARQL traversal, two levels deep
  conceptmap map "Learning" --mode sparql --depth 2

  # Run the interactive web UI
  conceptmap serve`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if debug {
			cfg.Logging.Level = "debug"
		}
		log, err = logger.New(&cfg.Logging)
		return err
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(mapCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(versionCmd)
}
