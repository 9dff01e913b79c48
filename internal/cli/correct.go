package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/diagramkit/pkg/diagram"
	"github.com/matzehuels/diagramkit/pkg/validate"
)

// correctCommand repairs a diagram and writes the corrected copy.
func (c *CLI) correctCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "correct <diagram>",
		Short: "Repair common mistakes in a diagram",
		Long: `Repair common mistakes in a diagram: weights that do not point down, normal
forces that are not perpendicular to their surface, out-of-range angles and
missing defaults.

The corrected diagram is written as JSON to --output, or to stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := diagram.ReadFile(args[0])
			if err != nil {
				return err
			}
			before := validate.ValidateDiagram(d)
			fixed := validate.AutoCorrect(d)
			after := validate.ValidateDiagram(fixed)
			c.Logger.Debug("corrected", "file", args[0],
				"errors_before", len(before.Errors), "errors_after", len(after.Errors))

			if output == "" {
				data, err := diagram.Marshal(fixed)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(c.Out, string(data))
				return err
			}

			if err := diagram.WriteFile(fixed, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			printSuccess(c.Out, "Corrected %s", args[0])
			printFile(c.Out, output)
			printDetail(c.Out, "errors %d → %d, warnings %d → %d",
				len(before.Errors), len(after.Errors), len(before.Warnings), len(after.Warnings))
			if !after.Valid {
				printResult(c.Out, output, after)
				return &invalidError{invalid: 1, total: 1}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	return cmd
}
