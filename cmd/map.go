package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/conceptmap/conceptmap/internal/config"
	"github.com/conceptmap/conceptmap/internal/graph"
	"github.com/conceptmap/conceptmap/internal/output"
	"github.com/conceptmap/conceptmap/internal/traverse"
	"github.com/conceptmap/conceptmap/internal/wikidata"
)

var (
	depthFlag int
	modeFlag  string
	formats   []string
	outputDir string
)

var mapCmd = &cobra.Command{
	Use:   "map [term]",
	Short: "Traverse the neighborhood of a concept and export it",
	Long: `map searches Wikidata for a concept, lets you pick the entity you
meant, expands its neighborhood to the configured depth, prints the
discovered levels, and writes the selected export files.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runMap,
}

func init() {
	mapCmd.Flags().IntVar(&depthFlag, "depth", 0, "traversal depth 1-3 (default: config or prompt)")
	mapCmd.Flags().StringVar(&modeFlag, "mode", "", "expansion strategy: rest, sparql, hybrid (default: config)")
	mapCmd.Flags().StringSliceVar(&formats, "format", []string{"triples", "dot"}, "export formats: triples, dot, json, none")
	mapCmd.Flags().StringVar(&outputDir, "output-dir", ".", "directory for export files")
}

func runMap(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if modeFlag != "" {
		cfg.Mode = modeFlag
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	term := cfg.Term
	if len(args) > 0 {
		term = args[0]
	}
	if term == "" {
		var err error
		term, err = promptTerm(os.Stdin, os.Stdout)
		if err != nil {
			return err
		}
	}
	if term == "" {
		return fmt.Errorf("no search term provided")
	}

	client := wikidata.NewClient(&cfg.Wikidata, log)

	candidates, err := client.SearchEntities(ctx, term)
	if err != nil {
		candidates = nil
	}
	if len(candidates) == 0 {
		return fmt.Errorf("no results found for %q", term)
	}

	selected, err := promptCandidate(os.Stdin, os.Stdout, candidates)
	if err != nil {
		return err
	}

	depth := cfg.Depth
	if cmd.Flags().Changed("depth") {
		depth = depthFlag
	}
	if depth == 0 {
		depth = promptDepth(os.Stdin, os.Stdout)
	}
	depth = config.ClampDepth(depth)

	engine := traverse.New(client, traverse.Options{
		Mode:               cfg.Mode,
		MaxDepth:           depth,
		LimitRelations:     cfg.LimitRelations,
		LimitRelationsDeep: cfg.LimitRelationsDeep,
		HubThreshold:       cfg.HubThreshold,
	}, log.WithRun(uuid.NewString()))

	res, err := engine.Run(ctx, selected.ID, selected.Label)
	if err != nil {
		return err
	}
	if res.EdgeCount() == 0 {
		fmt.Println("No relations found.")
		return nil
	}

	if err := output.RenderTree(os.Stdout, res); err != nil {
		return err
	}

	return writeExports(res)
}

// writeExports writes one file per requested format into the output
// directory.
func writeExports(res *graph.Result) error {
	for _, format := range formats {
		var (
			name   string
			render func(*os.File) error
		)
		switch format {
		case "triples":
			name = output.TriplesFilename(res.StartLabel, res.MaxDepth)
			render = func(f *os.File) error { return output.WriteTriples(f, res) }
		case "dot":
			name = output.DOTFilename(res.StartLabel, res.MaxDepth)
			render = func(f *os.File) error { return output.RenderDOT(f, res) }
		case "json":
			name = output.JSONFilename(res.StartLabel, res.MaxDepth)
			render = func(f *os.File) error { return output.RenderJSON(f, res) }
		case "none":
			continue
		default:
			return fmt.Errorf("unknown format: %s (must be triples, dot, json, or none)", format)
		}

		path := filepath.Join(outputDir, name)
		f, err := os.Create(path)
		if err != nil {
			return fmt.Errorf("create export file: %w", err)
		}
		if err := render(f); err != nil {
			f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		fmt.Printf("Exported %s\n", path)
	}
	return nil
}
