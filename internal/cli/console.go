// internal/cli/console.go
package cli

import (
	"github.com/spf13/cobra"

	"github.com/tamzrod/modbus-od/internal/console"
)

// NewConsoleCommand creates the console command.
func NewConsoleCommand(rootOpts *RootOptions) *cobra.Command {
	var prompt string

	cmd := &cobra.Command{
		Use:   "console",
		Short: "Interactive console on the schema's dictionary",
		Long: `Start an interactive console (ls, get, set, status, help).

On a terminal the console offers line editing, history and Tab
completion of object names. Otherwise commands are read line by line.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			dict, err := loadDictionary(rootOpts)
			if err != nil {
				return err
			}
			c := console.New(dict, console.Options{
				Access: accessOf(rootOpts),
				Prompt: prompt,
			})
			return c.Interactive(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVar(&prompt, "prompt", console.DefaultPrompt, "console prompt")

	return cmd
}
