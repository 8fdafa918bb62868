// internal/cli/query.go
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-od/internal/console"
)

// NewLsCommand creates the ls command.
func NewLsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "ls [object]",
		Short:        "List objects or describe one",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(rootOpts, cmd, "ls "+strings.Join(args, " "))
		},
	}
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:          "get <object>[.<item>]",
		Short:        "Print the value of an object or one of its elements",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(rootOpts, cmd, "get "+args[0])
		},
	}
}

// NewSetCommand creates the set command.
func NewSetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set <object>[.<item>] <value>",
		Short: "Check a value against the schema by writing it",
		Long: `Write a value into a freshly built dictionary and print the result.

The dictionary is not persisted; set reports whether the schema
accepts the value (range, size and access checks).`,
		Args:         cobra.RangeArgs(1, 2),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOneShot(rootOpts, cmd, "set "+strings.Join(args, " "))
		},
	}
}

// runOneShot executes a single console command against the schema.
func runOneShot(opts *RootOptions, cmd *cobra.Command, line string) error {
	dict, err := loadDictionary(opts)
	if err != nil {
		return err
	}

	c := console.New(dict, console.Options{Access: accessOf(opts)})
	_, err = fmt.Fprintln(cmd.OutOrStdout(), c.Exec(line))
	return err
}
