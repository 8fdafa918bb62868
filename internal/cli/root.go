// internal/cli/root.go
package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-od/internal/console"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Schema  string // path to the .yaml/.yml/.toml dictionary schema
	Access  string // "user" | "factory"
	Verbose bool
}

// NewRootCommand creates the root command for odctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "odctl",
		Short: "odctl - object dictionary console",
		Long:  "Inspect and edit a schema-defined object dictionary, optionally synchronized with a Modbus TCP device.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.Schema == "" {
				return errors.New("--schema is required")
			}
			_, err := console.ParseAccess(opts.Access)
			return err
		},
		SilenceUsage:  true,
		SilenceErrors: true, // main logs the error
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.Schema, "schema", "s", "", "dictionary schema file (.yaml or .toml)")
	cmd.PersistentFlags().StringVar(&opts.Access, "access", "user", "access level (user|factory)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	// Add subcommands
	cmd.AddCommand(NewLsCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewSetCommand(opts))
	cmd.AddCommand(NewConsoleCommand(opts))
	cmd.AddCommand(NewRunCommand(opts))

	return cmd
}
