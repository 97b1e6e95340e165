package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kingrea/dumm/internal/config"
)

func TestRootCommand(t *testing.T) {
	cmd := NewRootCommand()
	require.NotNil(t, cmd)
	assert.Equal(t, "dumm", cmd.Use)
	assert.NotNil(t, cmd.RunE, "bare dumm starts the client")
}

func TestCommandPresence(t *testing.T) {
	cmd := NewRootCommand()
	for _, name := range []string{"run", "script", "init"} {
		t.Run(name, func(t *testing.T) {
			sub, _, err := cmd.Find([]string{name})
			require.NoError(t, err, "Command %s should exist", name)
			require.NotNil(t, sub)
			assert.Equal(t, name, sub.Name())
		})
	}
}

func TestGlobalFlags(t *testing.T) {
	cmd := NewRootCommand()

	dirFlag := cmd.PersistentFlags().Lookup("dir")
	require.NotNil(t, dirFlag)
	assert.Equal(t, "C", dirFlag.Shorthand)
	assert.Equal(t, "", dirFlag.DefValue)

	require.NotNil(t, cmd.PersistentFlags().Lookup("log-level"))
}

func TestInitCommandFlags(t *testing.T) {
	cmd := NewRootCommand()
	initCmd, _, err := cmd.Find([]string{"init"})
	require.NoError(t, err)

	userFlag := initCmd.Flags().Lookup("user")
	require.NotNil(t, userFlag)
	assert.Equal(t, "u", userFlag.Shorthand)

	loggedOut := initCmd.Flags().Lookup("logged-out")
	require.NotNil(t, loggedOut)
	assert.Equal(t, "false", loggedOut.DefValue)
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitWritesConfig(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "init", "-C", dir, "--user", "u2", "--logged-out")
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, config.DummDir, "config.yaml"))

	cfg, err := config.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "u2", cfg.Project.Session.CurrentUser)
	assert.False(t, cfg.Authenticated())
}

func TestScriptCommandPrintsTrace(t *testing.T) {
	dir := t.TempDir()
	out, err := execute(t, "script", "-C", dir, filepath.Join("testdata", "short.yaml"))
	require.NoError(t, err)
	assert.Equal(t,
		"# short\n"+
			"01 navigate -> screen=Discover profile=- conv=- live=- story=- modal=false\n"+
			"02 open_profile -> screen=Profile profile=u3 conv=- live=- story=- modal=false\n"+
			"03 back -> screen=Feed profile=- conv=- live=- story=- modal=false\n",
		out)

	_, err = os.Stat(filepath.Join(dir, config.DummDir, "logs", "journey.log"))
	assert.NoError(t, err, "journey log is written")
}

func TestScriptCommandErrors(t *testing.T) {
	_, err := execute(t, "script", "-C", t.TempDir(), filepath.Join("testdata", "missing.yaml"))
	assert.Error(t, err)

	_, err = execute(t, "script")
	assert.Error(t, err, "file argument is required")
}
