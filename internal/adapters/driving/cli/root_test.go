package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the root command with the given args and a fresh config
// store backed by a temp directory.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("DOCENT_CONFIG_DIR", t.TempDir())
	configStore = nil
	t.Cleanup(func() { configStore = nil })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "docent version dev\n", out)
}

func TestConfigSetAndGet(t *testing.T) {
	t.Setenv("DOCENT_CONFIG_DIR", t.TempDir())
	configStore = nil
	t.Cleanup(func() { configStore = nil })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"config", "set", "embedding.provider", "ollama"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "embedding.provider set")

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "get", "embedding.provider"})
	require.NoError(t, rootCmd.Execute())
	assert.Equal(t, "ollama\n", buf.String())
}

func TestConfigGetUnsetKey(t *testing.T) {
	_, err := execute(t, "config", "get", "llm.model")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not set")
}

func TestConfigShowMasksAPIKeys(t *testing.T) {
	t.Setenv("DOCENT_CONFIG_DIR", t.TempDir())
	configStore = nil
	t.Cleanup(func() { configStore = nil })

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)

	rootCmd.SetArgs([]string{"config", "set", "llm.api_key", "sk-abcdef123456"})
	require.NoError(t, rootCmd.Execute())

	buf.Reset()
	rootCmd.SetArgs([]string{"config", "show"})
	require.NoError(t, rootCmd.Execute())
	assert.Contains(t, buf.String(), "***********3456")
	assert.NotContains(t, buf.String(), "sk-abcdef123456")
}
