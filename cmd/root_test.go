package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spaghettifunk/anima-progress/engine/core"
)

func TestMain(m *testing.M) {
	core.SetLogOutput(io.Discard)
	os.Exit(m.Run())
}

func TestRootRunsForFrames(t *testing.T) {
	rootCmd.SetArgs([]string{"--frames", "3", "--log-level", "error"})
	require.NoError(t, rootCmd.Execute())
}

func TestRootWithConfigAndFeed(t *testing.T) {
	dir := t.TempDir()
	config := filepath.Join(dir, "testbed.toml")
	feed := filepath.Join(dir, "progress.txt")
	require.NoError(t, os.WriteFile(config, []byte("[application]\ntick_rate = 120\n"), 0o644))
	require.NoError(t, os.WriteFile(feed, []byte("0.3\n"), 0o644))

	rootCmd.SetArgs([]string{"--config", config, "--feed", feed, "--frames", "2", "--log-level", "error"})
	require.NoError(t, rootCmd.Execute())
}

func TestRootRejectsBadInput(t *testing.T) {
	rootCmd.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "missing.toml")})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"--log-level", "chatty", "--config", ""})
	assert.Error(t, rootCmd.Execute())

	rootCmd.SetArgs([]string{"extra"})
	assert.Error(t, rootCmd.Execute())
}
