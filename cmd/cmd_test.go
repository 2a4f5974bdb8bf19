package cmd

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ramStory = "There was a boy named Ram. He studied Social Science. He lives happily ever after."

// setupCmd isolates a test from the environment and from flag values left on
// the package-level commands by earlier runs.
func setupCmd(t *testing.T) {
	t.Helper()
	for _, k := range []string{"ADDR", "PROVIDER", "MODEL", "BASE_URL", "STRATEGY", "LOG_LEVEL"} {
		t.Setenv("STORY_POLISHER_"+k, "")
	}
	t.Setenv("API_KEY", "")

	prev := slog.Default()
	t.Cleanup(func() {
		slog.SetDefault(prev)
		resetFlags(rootCmd.PersistentFlags())
		resetFlags(askCmd.Flags())
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
	})
}

func resetFlags(fs *pflag.FlagSet) {
	fs.VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetArgs(append(args, "--env-file", filepath.Join(t.TempDir(), "missing.env")))
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&out)
	err := rootCmd.Execute()
	return out.String(), err
}

func numberedLines(out string) []string {
	return strings.Split(strings.TrimSpace(out), "\n")
}

func TestAskFromStdin(t *testing.T) {
	setupCmd(t)
	t.Setenv("STORY_POLISHER_PROVIDER", "mock")

	out, err := run(t, ramStory, "ask")
	require.NoError(t, err)

	lines := numberedLines(out)
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "1. "))
	assert.True(t, strings.HasPrefix(lines[2], "3. "))
}

func TestAskFromFileIgnoresStdin(t *testing.T) {
	setupCmd(t)
	t.Setenv("STORY_POLISHER_PROVIDER", "mock")
	story := writeFile(t, "story.txt", ramStory)

	out, err := run(t, "", "ask", "--file", story)
	require.NoError(t, err)
	assert.Len(t, numberedLines(out), 3)
}

func TestAskEmptyStory(t *testing.T) {
	setupCmd(t)
	t.Setenv("STORY_POLISHER_PROVIDER", "mock")

	_, err := run(t, "  \n\t", "ask")
	assert.EqualError(t, err, "story is empty")
}

func TestAskMissingStoryFile(t *testing.T) {
	setupCmd(t)
	t.Setenv("STORY_POLISHER_PROVIDER", "mock")

	_, err := run(t, ramStory, "ask", "-f", filepath.Join(t.TempDir(), "nope.txt"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestAskUsesConfigFile(t *testing.T) {
	setupCmd(t)
	cfg := writeFile(t, "config.yaml", "llm:\n  provider: mock\n")

	out, err := run(t, ramStory, "ask", "--config", cfg)
	require.NoError(t, err)
	assert.Len(t, numberedLines(out), 3)
}

func TestExplicitConfigMustExist(t *testing.T) {
	setupCmd(t)
	t.Setenv("STORY_POLISHER_PROVIDER", "mock")

	_, err := run(t, ramStory, "ask", "--config", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestDefaultConfigIsOptional(t *testing.T) {
	setupCmd(t)
	t.Setenv("STORY_POLISHER_PROVIDER", "mock")

	c := &cobra.Command{}
	c.Flags().AddFlagSet(rootCmd.PersistentFlags())
	require.NoError(t, c.ParseFlags([]string{"--env-file", filepath.Join(t.TempDir(), "missing.env")}))
	// points nowhere, like a missing default, but was not set on the command line
	require.NoError(t, c.Flags().Lookup("config").Value.Set(filepath.Join(t.TempDir(), "absent.yaml")))

	cfg, err := loadConfig(c)
	require.NoError(t, err)
	assert.Equal(t, "mock", cfg.LLM.Provider)
	assert.Equal(t, "info", cfg.Log.Level)
}

func TestVerboseForcesDebug(t *testing.T) {
	setupCmd(t)
	t.Setenv("STORY_POLISHER_PROVIDER", "mock")
	t.Setenv("STORY_POLISHER_LOG_LEVEL", "error")

	c := &cobra.Command{}
	c.Flags().AddFlagSet(rootCmd.PersistentFlags())
	require.NoError(t, c.ParseFlags([]string{"-v", "--env-file", filepath.Join(t.TempDir(), "missing.env")}))

	cfg, err := loadConfig(c)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, slog.Default().Enabled(t.Context(), slog.LevelDebug))
}
