package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/layout/debug"
	"github.com/matzehuels/diagramkit/pkg/pipeline"
)

// layoutFlags holds the layout command's file options.
type layoutFlags struct {
	output  string
	dotOut  string
	svgOut  string
	noCache bool
}

// layoutCommand computes element positions for a diagram.
func (c *CLI) layoutCommand() *cobra.Command {
	var flags layoutFlags
	opts := c.layoutOptions()

	cmd := &cobra.Command{
		Use:   "layout <diagram>",
		Short: "Compute a collision-free layout for a diagram",
		Long: `Compute a layout for a diagram: the object and force arrows of physics
diagrams, or the axes and points of coordinate planes and number lines.
Labels are moved until they no longer overlap.

The diagram is validated first. Invalid diagrams are rejected unless
--auto-correct is set. The output is a layout.json file. --collisions-dot and
--collisions-svg write a Graphviz picture of the element overlap graph for
debugging label placement.

Results are cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		PreRun: func(cmd *cobra.Command, args []string) {
			// flags default to the built-in values; fill the rest from config
			cfg := c.layoutOptions()
			for name, apply := range map[string]func(){
				"width":        func() { opts.Width = cfg.Width },
				"height":       func() { opts.Height = cfg.Height },
				"force-scale":  func() { opts.ForceScale = cfg.ForceScale },
				"font-size":    func() { opts.FontSize = cfg.FontSize },
				"labels":       func() { opts.ShowLabels = cfg.ShowLabels },
				"auto-correct": func() { opts.AutoCorrect = cfg.AutoCorrect },
			} {
				if !cmd.Flags().Changed(name) {
					apply()
				}
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], opts, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().StringVar(&flags.dotOut, "collisions-dot", "", "write the collision graph as DOT")
	cmd.Flags().StringVar(&flags.svgOut, "collisions-svg", "", "render the collision graph as SVG")
	cmd.Flags().BoolVar(&flags.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.Refresh, "refresh", false, "ignore cached results")

	cmd.Flags().Float64Var(&opts.Width, "width", opts.Width, "canvas width")
	cmd.Flags().Float64Var(&opts.Height, "height", opts.Height, "canvas height")
	cmd.Flags().Float64Var(&opts.ForceScale, "force-scale", opts.ForceScale, "arrow length per unit of force magnitude")
	cmd.Flags().Float64Var(&opts.FontSize, "font-size", opts.FontSize, "label font size")
	cmd.Flags().BoolVar(&opts.ShowLabels, "labels", opts.ShowLabels, "place force labels")
	cmd.Flags().BoolVar(&opts.AutoCorrect, "auto-correct", opts.AutoCorrect, "repair invalid diagrams before layout")

	return cmd
}

func (c *CLI) runLayout(ctx context.Context, input string, opts pipeline.Options, flags layoutFlags) error {
	d, err := diagram.ReadFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, flags.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()
	opts.Logger = c.Logger

	spin := newSpinner(ctx, os.Stderr, fmt.Sprintf("Computing %s layout...", d.Type))
	spin.Start()
	res, err := runner.Execute(ctx, d, opts)
	if err != nil {
		spin.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spin.Stop()
	if ctx.Err() != nil {
		return ctx.Err()
	}

	if res.Layout == nil {
		printResult(c.Out, input, res.Validation)
		printNextStep(c.Out, "Repair automatically", "diagramkit layout --auto-correct "+input)
		return &invalidError{invalid: 1, total: 1}
	}

	outputPath := flags.output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".layout.json"
	}
	data, err := pipeline.MarshalLayout(res.Layout)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputPath, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	if res.Corrected {
		printWarning(c.Out, "Diagram was auto-corrected before layout")
	}
	printSuccess(c.Out, "Layout complete")
	printFile(c.Out, outputPath)

	if flags.dotOut != "" || flags.svgOut != "" {
		if err := c.writeCollisionGraph(ctx, res.Layout, flags); err != nil {
			return err
		}
	}
	printLayoutStats(c.Out, res.Stats.Elements, res.Stats.Collisions, res.CacheInfo.LayoutHit)
	return nil
}

func (c *CLI) writeCollisionGraph(ctx context.Context, l *pipeline.Layout, flags layoutFlags) error {
	dot := debug.ToDOT(l.Elements(), l.Collisions)
	if flags.dotOut != "" {
		if err := os.WriteFile(flags.dotOut, []byte(dot), 0644); err != nil {
			return fmt.Errorf("write %s: %w", flags.dotOut, err)
		}
		printFile(c.Out, flags.dotOut)
	}
	if flags.svgOut != "" {
		svg, err := debug.RenderSVG(ctx, dot)
		if err != nil {
			return fmt.Errorf("render collision graph: %w", err)
		}
		if err := os.WriteFile(flags.svgOut, svg, 0644); err != nil {
			return fmt.Errorf("write %s: %w", flags.svgOut, err)
		}
		printFile(c.Out, flags.svgOut)
	}
	return nil
}
