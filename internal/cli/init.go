package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kingrea/dumm/internal/config"
)

// InitOptions holds flags for the init command.
type InitOptions struct {
	*RootOptions
	User      string
	LoggedOut bool
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InitOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create .dumm/config.yaml",
		Long: `Create the .dumm directory with a default config.yaml.

An existing config is kept; --user and --logged-out update it in place.

Example:
  dumm init
  dumm init --user u2 --logged-out`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.User, "user", "u", "", "user the client acts as")
	cmd.Flags().BoolVar(&opts.LoggedOut, "logged-out", false, "start on the Login screen")

	return cmd
}

func runInit(opts *InitOptions, cmd *cobra.Command) error {
	dir, err := opts.projectDir()
	if err != nil {
		return fmt.Errorf("resolve project dir: %w", err)
	}
	if err := config.InitDir(dir); err != nil {
		return err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return err
	}
	if opts.User != "" {
		if err := cfg.SetCurrentUser(opts.User); err != nil {
			return err
		}
	}
	if cmd.Flags().Changed("logged-out") {
		if err := cfg.SetLoggedOut(opts.LoggedOut); err != nil {
			return err
		}
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", cfg.ProjectConfigPath())
	return nil
}
