package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// configCommand prints the effective configuration.
func (c *CLI) configCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration diagramkit runs with: the built-in defaults merged
with the file given by --config or $DIAGRAMKIT_CONFIG. The output is a valid
config file and a starting point for writing one.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprint(c.Out, c.config().String())
			return err
		},
	}
}
