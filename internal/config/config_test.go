package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, projectDir, body string) {
	t.Helper()
	dir := filepath.Join(projectDir, DummDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(strings.TrimSpace(body)), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWhenMissing(t *testing.T) {
	c, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Project != defaultProjectConfig() {
		t.Fatalf("expected defaults, got %+v", c.Project)
	}
	if !c.Authenticated() {
		t.Fatalf("expected authenticated session by default")
	}
	if c.SeedPath() != "" {
		t.Fatalf("expected embedded seed, got %q", c.SeedPath())
	}
}

func TestLoadParsesYaml(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
session:
  current_user: u3
  logged_out: true
stories:
  default_duration: 8s
feed:
  page_size: 5
seed:
  path: fixtures/seed.yaml
log:
  level: DEBUG
`)
	c, err := Load(projectDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	p := c.Project
	if p.Session.CurrentUser != "u3" || c.Authenticated() {
		t.Fatalf("unexpected session %+v", p.Session)
	}
	if p.Stories.DefaultDuration != 8*time.Second {
		t.Fatalf("default_duration = %s", p.Stories.DefaultDuration)
	}
	if p.Stories.TickInterval != 50*time.Millisecond {
		t.Fatalf("tick_interval should fall back to default, got %s", p.Stories.TickInterval)
	}
	if p.Feed.PageSize != 5 {
		t.Fatalf("page_size = %d", p.Feed.PageSize)
	}
	if p.Log.Level != "debug" {
		t.Fatalf("level not normalized: %q", p.Log.Level)
	}
	if want := filepath.Join(projectDir, "fixtures", "seed.yaml"); c.SeedPath() != want {
		t.Fatalf("seed path = %q, want %q", c.SeedPath(), want)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	projectDir := t.TempDir()
	writeConfig(t, projectDir, `
version: 1
feed:
  page_size: 5
`)
	t.Setenv("DUMM_PAGE_SIZE", "7")
	t.Setenv("DUMM_CURRENT_USER", "u4")
	t.Setenv("DUMM_STORY_DURATION", "2s")

	c, err := Load(projectDir)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if c.Project.Feed.PageSize != 7 {
		t.Fatalf("page_size = %d, want 7", c.Project.Feed.PageSize)
	}
	if c.Project.Session.CurrentUser != "u4" {
		t.Fatalf("current_user = %q", c.Project.Session.CurrentUser)
	}
	if c.Project.Stories.DefaultDuration != 2*time.Second {
		t.Fatalf("default_duration = %s", c.Project.Stories.DefaultDuration)
	}
}

func TestLoadValidation(t *testing.T) {
	cases := map[string]string{
		"version":   "version: 2",
		"page size": "version: 1\nfeed:\n  page_size: 99",
		"duration":  "version: 1\nstories:\n  tick_interval: -1s",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			projectDir := t.TempDir()
			writeConfig(t, projectDir, body)
			if _, err := Load(projectDir); err == nil {
				t.Fatalf("expected validation error but got none")
			}
		})
	}
}

func TestInitDirWritesTemplateOnce(t *testing.T) {
	projectDir := t.TempDir()
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	if _, err := os.Stat(filepath.Join(projectDir, DummDir, "logs")); err != nil {
		t.Fatalf("logs dir missing: %v", err)
	}
	c, err := Load(projectDir)
	if err != nil {
		t.Fatalf("template does not load: %v", err)
	}
	if c.Project != defaultProjectConfig() {
		t.Fatalf("template differs from defaults: %+v", c.Project)
	}

	custom := "version: 1\nsession:\n  current_user: u2\n"
	writeConfig(t, projectDir, custom)
	if err := InitDir(projectDir); err != nil {
		t.Fatalf("InitDir: %v", err)
	}
	data, err := os.ReadFile(c.ProjectConfigPath())
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(data)) != strings.TrimSpace(custom) {
		t.Fatalf("InitDir overwrote an existing config")
	}
}

func TestSaveRoundTrip(t *testing.T) {
	projectDir := t.TempDir()
	c := Default(projectDir)
	c.Project.Stories.DefaultDuration = 7 * time.Second
	if err := c.SetCurrentUser("u2"); err != nil {
		t.Fatalf("SetCurrentUser: %v", err)
	}
	if err := c.SetLoggedOut(true); err != nil {
		t.Fatalf("SetLoggedOut: %v", err)
	}

	reloaded, err := Load(projectDir)
	if err != nil {
		t.Fatalf("Load after save: %v", err)
	}
	if reloaded.Project.Session.CurrentUser != "u2" || reloaded.Authenticated() {
		t.Fatalf("session not persisted: %+v", reloaded.Project.Session)
	}
	if reloaded.Project.Stories.DefaultDuration != 7*time.Second {
		t.Fatalf("duration not persisted: %s", reloaded.Project.Stories.DefaultDuration)
	}
	if err := c.SetCurrentUser("  "); err == nil {
		t.Fatalf("expected error for blank user")
	}
}
