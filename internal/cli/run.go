package cli

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/kingrea/dumm/internal/config"
	"github.com/kingrea/dumm/internal/logbook"
	"github.com/kingrea/dumm/internal/logging"
	"github.com/kingrea/dumm/internal/seed"
	"github.com/kingrea/dumm/internal/session"
	"github.com/kingrea/dumm/internal/store"
	"github.com/kingrea/dumm/internal/tui"
)

// NewRunCommand creates the run command.
func NewRunCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start the interactive client",
		Long: `Start the interactive client in the alternate screen.

The project's .dumm directory is created on first use. Logs go to
.dumm/logs/dumm.log and the journey log to .dumm/logs/journey.log.

Example:
  dumm run
  dumm run -C ./demo --log-level debug`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClient(rootOpts, cmd)
		},
	}
}

// environment is everything a command needs to build sessions.
type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	journey *logbook.Logbook
	seed    *seed.Seed
}

func (e *environment) close() {
	_ = e.logger.Sync()
}

// loadEnvironment initialises the project directory and loads config, logs
// and fixtures.
func loadEnvironment(opts *RootOptions) (*environment, error) {
	dir, err := opts.projectDir()
	if err != nil {
		return nil, fmt.Errorf("resolve project dir: %w", err)
	}
	if err := config.InitDir(dir); err != nil {
		return nil, err
	}
	cfg, err := config.Load(dir)
	if err != nil {
		return nil, err
	}
	level := cfg.Project.Log.Level
	if opts.LogLevel != "" {
		level = opts.LogLevel
	}
	logger, err := logging.New(cfg.LogPath(), level)
	if err != nil {
		return nil, err
	}
	env := &environment{cfg: cfg, logger: logger}
	if !cfg.Project.Log.DisableJourney {
		lb, err := logbook.New(cfg.JourneyPath())
		if err != nil {
			logger.Warn("journey log unavailable", zap.Error(err))
		} else {
			env.journey = lb
		}
	}
	if path := cfg.SeedPath(); path != "" {
		env.seed, err = seed.Load(path)
	} else {
		env.seed, err = seed.Default()
	}
	if err != nil {
		env.close()
		return nil, err
	}
	return env, nil
}

func runClient(opts *RootOptions, cmd *cobra.Command) error {
	env, err := loadEnvironment(opts)
	if err != nil {
		return err
	}
	defer env.close()

	cfg := env.cfg
	s := session.New(env.seed, session.Options{
		CurrentUserID: cfg.Project.Session.CurrentUser,
		Authenticated: cfg.Authenticated(),
		StoryDuration: cfg.Project.Stories.DefaultDuration,
		PageSize:      cfg.Project.Feed.PageSize,
		IDs:           store.UUIDGenerator{},
		Logger:        env.logger,
		Journey:       env.journey,
	})
	defer s.Shutdown()

	env.logger.Info("session started",
		zap.String("user", cfg.Project.Session.CurrentUser),
		zap.Bool("authenticated", cfg.Authenticated()))
	env.journey.Info("Session opened as %s", cfg.Project.Session.CurrentUser)

	app := tui.NewApp(s,
		tui.WithLogger(env.logger),
		tui.WithLogbook(env.journey),
		tui.WithTickInterval(cfg.Project.Stories.TickInterval),
	)
	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithOutput(cmd.OutOrStdout()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run client: %w", err)
	}
	env.journey.Info("Session closed")
	return nil
}
