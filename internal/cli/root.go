// Package cli wires the dumm commands.
package cli

import (
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Dir      string
	LogLevel string
}

// NewRootCommand creates the root command. Without a subcommand it starts
// the interactive client, same as `dumm run`.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dumm",
		Short: "dumm - a social feed in your terminal",
		Long: `A terminal client for a mock social network: feed, stories, reels,
direct messages and live streams over in-memory fixtures.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(opts, cmd)
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.Dir, "dir", "C", "", "project directory (default: working directory)")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "override log.level from the config")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewScriptCommand(opts))
	cmd.AddCommand(NewInitCommand(opts))

	return cmd
}

// projectDir resolves --dir against the working directory.
func (o *RootOptions) projectDir() (string, error) {
	if o.Dir != "" {
		return o.Dir, nil
	}
	return os.Getwd()
}
