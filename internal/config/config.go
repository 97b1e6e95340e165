// internal/config/config.go
//
// This package handles configuration and the .dumm directory structure.
// A project that runs dumm gets a .dumm/ folder with config.yaml and logs/.
// Values come from the file first, then DUMM_* environment variables, then
// the defaults in the struct tags.

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

const (
	// DummDir is the name of the directory created in each project.
	DummDir = ".dumm"

	maxPageSize = 50
)

const defaultProjectConfigYAML = `# dumm project configuration
version: 1

session:
  # User the client acts as. Must exist in the seed.
  current_user: u1
  # Start on the Login screen instead of the feed.
  logged_out: false

stories:
  default_duration: 5s
  tick_interval: 50ms

feed:
  page_size: 3

# Replace the embedded fixtures with your own file.
seed:
  path: ""

log:
  level: info
  disable_journey: false
`

// SessionConfig selects who the client acts as.
type SessionConfig struct {
	CurrentUser string `yaml:"current_user" env:"DUMM_CURRENT_USER" env-default:"u1"`
	LoggedOut   bool   `yaml:"logged_out" env:"DUMM_LOGGED_OUT"`
}

// StoriesConfig tunes story playback.
type StoriesConfig struct {
	DefaultDuration time.Duration `yaml:"default_duration" env:"DUMM_STORY_DURATION" env-default:"5s"`
	TickInterval    time.Duration `yaml:"tick_interval" env:"DUMM_TICK_INTERVAL" env-default:"50ms"`
}

// MarshalYAML writes durations as strings; yaml.v3 refuses to read them
// back from plain integers.
func (s StoriesConfig) MarshalYAML() (any, error) {
	return struct {
		DefaultDuration string `yaml:"default_duration"`
		TickInterval    string `yaml:"tick_interval"`
	}{s.DefaultDuration.String(), s.TickInterval.String()}, nil
}

// FeedConfig tunes feed pagination.
type FeedConfig struct {
	PageSize int `yaml:"page_size" env:"DUMM_PAGE_SIZE" env-default:"3"`
}

// SeedConfig points at an external fixture file.
type SeedConfig struct {
	Path string `yaml:"path" env:"DUMM_SEED_PATH"`
}

// LogConfig controls the structured log and the journey log.
type LogConfig struct {
	Level          string `yaml:"level" env:"DUMM_LOG_LEVEL" env-default:"info"`
	DisableJourney bool   `yaml:"disable_journey" env:"DUMM_DISABLE_JOURNEY"`
}

// ProjectConfig models .dumm/config.yaml.
type ProjectConfig struct {
	Version int           `yaml:"version" env-default:"1"`
	Session SessionConfig `yaml:"session"`
	Stories StoriesConfig `yaml:"stories"`
	Feed    FeedConfig    `yaml:"feed"`
	Seed    SeedConfig    `yaml:"seed"`
	Log     LogConfig     `yaml:"log"`
}

// Config holds the runtime configuration for one project directory.
type Config struct {
	// ProjectDir is the directory dumm was started from.
	ProjectDir string

	// DummProjectDir is ProjectDir/.dumm
	DummProjectDir string

	Project ProjectConfig
}

// InitDir creates .dumm/ with its logs directory and a default config.yaml
// when none exists yet.
//
// Structure created:
// .dumm/
// ├── config.yaml
// └── logs/         <- dumm.log and journey.log
func InitDir(projectDir string) error {
	dir := filepath.Join(projectDir, DummDir)
	if err := os.MkdirAll(filepath.Join(dir, "logs"), 0o755); err != nil {
		return fmt.Errorf("config: ensure dumm dir: %w", err)
	}
	return ensureProjectConfig(filepath.Join(dir, "config.yaml"))
}

// Load reads .dumm/config.yaml under projectDir. A missing file is not an
// error: the environment and defaults still apply.
func Load(projectDir string) (*Config, error) {
	cfg := &Config{
		ProjectDir:     projectDir,
		DummProjectDir: filepath.Join(projectDir, DummDir),
	}
	if err := cfg.loadProjectConfig(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Default returns the configuration used when no project file or
// environment overrides exist.
func Default(projectDir string) *Config {
	return &Config{
		ProjectDir:     projectDir,
		DummProjectDir: filepath.Join(projectDir, DummDir),
		Project:        defaultProjectConfig(),
	}
}

// ProjectConfigPath returns the on-disk location for the project config file.
func (c *Config) ProjectConfigPath() string {
	return filepath.Join(c.DummProjectDir, "config.yaml")
}

// LogsDir returns the path to the logs directory.
func (c *Config) LogsDir() string {
	return filepath.Join(c.DummProjectDir, "logs")
}

// LogPath is the structured log file.
func (c *Config) LogPath() string {
	return filepath.Join(c.LogsDir(), "dumm.log")
}

// JourneyPath is the human-readable journey log.
func (c *Config) JourneyPath() string {
	return filepath.Join(c.LogsDir(), "journey.log")
}

// Authenticated reports whether the session starts past the Login screen.
func (c *Config) Authenticated() bool { return !c.Project.Session.LoggedOut }

// SeedPath returns the external seed file, resolved against the project
// directory, or "" for the embedded fixtures.
func (c *Config) SeedPath() string {
	return resolvePath(c.ProjectDir, c.Project.Seed.Path)
}

// SetCurrentUser changes the acting user and persists the config.
func (c *Config) SetCurrentUser(id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("config: user id is required")
	}
	c.Project.Session.CurrentUser = id
	return c.Save()
}

// SetLoggedOut changes the starting auth state and persists the config.
func (c *Config) SetLoggedOut(loggedOut bool) error {
	c.Project.Session.LoggedOut = loggedOut
	return c.Save()
}

// Save validates the project config and writes it back to .dumm/config.yaml.
func (c *Config) Save() error {
	if c == nil {
		return fmt.Errorf("config: nil receiver")
	}
	c.Project.normalize()
	if err := c.Project.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	if err := os.MkdirAll(c.DummProjectDir, 0o755); err != nil {
		return fmt.Errorf("config: ensure dumm dir: %w", err)
	}
	data, err := yaml.Marshal(c.Project)
	if err != nil {
		return fmt.Errorf("config: encode config: %w", err)
	}
	if err := os.WriteFile(c.ProjectConfigPath(), data, 0o644); err != nil {
		return fmt.Errorf("config: write project config: %w", err)
	}
	return nil
}

func (c *Config) loadProjectConfig() error {
	path := c.ProjectConfigPath()
	var parsed ProjectConfig
	_, err := os.Stat(path)
	switch {
	case err == nil:
		if err := cleanenv.ReadConfig(path, &parsed); err != nil {
			return fmt.Errorf("config: parse %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
		if err := cleanenv.ReadEnv(&parsed); err != nil {
			return fmt.Errorf("config: read env: %w", err)
		}
	default:
		return fmt.Errorf("config: read %s: %w", path, err)
	}

	parsed.normalize()
	if err := parsed.validate(); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Project = parsed
	return nil
}

func defaultProjectConfig() ProjectConfig {
	return ProjectConfig{
		Version: 1,
		Session: SessionConfig{CurrentUser: "u1"},
		Stories: StoriesConfig{DefaultDuration: 5 * time.Second, TickInterval: 50 * time.Millisecond},
		Feed:    FeedConfig{PageSize: 3},
		Log:     LogConfig{Level: "info"},
	}
}

func (pc *ProjectConfig) normalize() {
	pc.Session.CurrentUser = strings.TrimSpace(pc.Session.CurrentUser)
	pc.Seed.Path = strings.TrimSpace(pc.Seed.Path)
	pc.Log.Level = strings.ToLower(strings.TrimSpace(pc.Log.Level))
}

func (pc *ProjectConfig) validate() error {
	if pc.Version != 1 {
		return fmt.Errorf("unsupported config version %d", pc.Version)
	}
	if pc.Session.CurrentUser == "" {
		return fmt.Errorf("session.current_user is required")
	}
	if pc.Stories.DefaultDuration <= 0 {
		return fmt.Errorf("stories.default_duration must be > 0")
	}
	if pc.Stories.TickInterval <= 0 {
		return fmt.Errorf("stories.tick_interval must be > 0")
	}
	if pc.Feed.PageSize < 1 || pc.Feed.PageSize > maxPageSize {
		return fmt.Errorf("feed.page_size must be between 1 and %d", maxPageSize)
	}
	return nil
}

func resolvePath(base, candidate string) string {
	trimmed := strings.TrimSpace(candidate)
	if trimmed == "" {
		return ""
	}
	if filepath.IsAbs(trimmed) {
		return filepath.Clean(trimmed)
	}
	return filepath.Clean(filepath.Join(base, trimmed))
}

func ensureProjectConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return os.WriteFile(path, []byte(defaultProjectConfigYAML), 0o644)
}
