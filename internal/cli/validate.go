package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
	"github.com/matzehuels/diagramkit/pkg/validate"
)

// fileResult is the validation outcome of one input file.
type fileResult struct {
	File   string          `json:"file"`
	Result validate.Result `json:"result"`
	Cached bool            `json:"cached"`
}

// invalidError reports how many inputs failed validation. It makes the
// command exit non-zero without printing usage.
type invalidError struct {
	invalid, total int
}

func (e *invalidError) Error() string {
	return fmt.Sprintf("%d of %d diagrams invalid", e.invalid, e.total)
}

// validateCommand checks one or more diagram files.
func (c *CLI) validateCommand() *cobra.Command {
	var (
		asJSON  bool
		noCache bool
		refresh bool
		jobs    int
	)

	cmd := &cobra.Command{
		Use:   "validate <diagram>...",
		Short: "Check diagrams against schema and physics rules",
		Long: `Check one or more diagram files (JSON or YAML) against the schema and
physics rules of their diagram type.

Each file gets a verdict and a table of errors and warnings. The command
exits with a non-zero status when any diagram is invalid. Results are cached
by content hash.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(cmd.Context(), noCache)
			if err != nil {
				return fmt.Errorf("initialize runner: %w", err)
			}
			defer runner.Close()

			results, err := validateFiles(cmd.Context(), runner, args, jobs, refresh)
			if err != nil {
				return err
			}
			return c.reportValidation(results, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached results")
	cmd.Flags().IntVarP(&jobs, "jobs", "j", runtime.NumCPU(), "files validated in parallel")

	return cmd
}

// validateFiles validates paths concurrently and returns results in input
// order. A file that cannot be read aborts the whole run.
func validateFiles(ctx context.Context, runner *pipeline.Runner, paths []string, jobs int, refresh bool) ([]fileResult, error) {
	results := make([]fileResult, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(max(jobs, 1))

	for i, path := range paths {
		g.Go(func() error {
			d, err := diagram.ReadFile(path)
			if err != nil {
				return err
			}
			res, hit, err := runner.ValidateWithCacheInfo(ctx, d, refresh)
			if err != nil {
				return fmt.Errorf("validate %s: %w", path, err)
			}
			results[i] = fileResult{File: path, Result: res, Cached: hit}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func (c *CLI) reportValidation(results []fileResult, asJSON bool) error {
	invalid := 0
	for _, r := range results {
		if !r.Result.Valid {
			invalid++
		}
	}

	if asJSON {
		enc := json.NewEncoder(c.Out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			printResult(c.Out, r.File, r.Result)
		}
		if len(results) > 1 {
			fmt.Fprintln(c.Out)
			printInfo(c.Out, "%d valid, %d invalid", len(results)-invalid, invalid)
		}
	}

	if invalid > 0 {
		return &invalidError{invalid: invalid, total: len(results)}
	}
	return nil
}
