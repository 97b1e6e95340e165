package cli

import (
	"github.com/spf13/cobra"

	"github.com/kingrea/dumm/internal/script"
)

// NewScriptCommand creates the script command.
func NewScriptCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "script <file>",
		Short: "Replay an action script and print the trace",
		Long: `Replay a YAML action script against a headless session.

Every step prints one line with the resulting screen, the active ids and an
optional note. Ids and the story clock are deterministic, so the output can
be diffed between runs.

Example:
  dumm script ./tour.yaml`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScript(rootOpts, args[0], cmd)
		},
	}
}

func runScript(opts *RootOptions, path string, cmd *cobra.Command) error {
	sc, err := script.Load(path)
	if err != nil {
		return err
	}
	env, err := loadEnvironment(opts)
	if err != nil {
		return err
	}
	defer env.close()

	cfg := env.cfg
	runner := script.NewRunner(env.seed,
		script.WithLogger(env.logger),
		script.WithJourney(env.journey),
		script.WithStoryDuration(cfg.Project.Stories.DefaultDuration),
		script.WithPageSize(cfg.Project.Feed.PageSize),
	)
	_, err = runner.Run(sc, cmd.OutOrStdout())
	return err
}
