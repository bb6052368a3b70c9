package config

import (
	"os"
	"path/filepath"
	"testing"

	"replyterm/internal/reply"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets the URL variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"REPLYTERM_API_URL", "VITE_API_URL", "REPLYTERM_VERBOSE"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Default(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()

	cfg, err := Load(NewViper(), dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultAPIURL, cfg.APIURL)
	assert.Equal(t, dir, cfg.ConfigDir)
	assert.False(t, cfg.Verbose)
	assert.Equal(t, filepath.Join(dir, "replyterm.log"), cfg.LogPath())
}

func TestLoad_EnvPrecedence(t *testing.T) {
	t.Run("legacy VITE_API_URL", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VITE_API_URL", "https://legacy.example.com")

		cfg, err := Load(NewViper(), t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "https://legacy.example.com", cfg.APIURL)
	})

	t.Run("REPLYTERM_API_URL wins", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("VITE_API_URL", "https://legacy.example.com")
		t.Setenv("REPLYTERM_API_URL", "https://replies.example.com")

		cfg, err := Load(NewViper(), t.TempDir())
		require.NoError(t, err)
		assert.Equal(t, "https://replies.example.com", cfg.APIURL)
	})

	t.Run("verbose from env", func(t *testing.T) {
		clearEnv(t)
		t.Setenv("REPLYTERM_VERBOSE", "true")

		cfg, err := Load(NewViper(), t.TempDir())
		require.NoError(t, err)
		assert.True(t, cfg.Verbose)
	})
}

func TestLoad_ConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: https://file.example.com\nverbose: true\n"), 0o644))

	cfg, err := Load(NewViper(), dir)
	require.NoError(t, err)
	assert.Equal(t, "https://file.example.com", cfg.APIURL)
	assert.True(t, cfg.Verbose)

	t.Setenv("REPLYTERM_API_URL", "https://env.example.com")
	cfg, err = Load(NewViper(), dir)
	require.NoError(t, err)
	assert.Equal(t, "https://env.example.com", cfg.APIURL, "env beats config file")
}

func TestLoad_FlagWins(t *testing.T) {
	clearEnv(t)
	t.Setenv("REPLYTERM_API_URL", "https://env.example.com")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("api-url", "", "")
	require.NoError(t, fs.Parse([]string{"--api-url", "http://flag.example.com:9000"}))

	v := NewViper()
	require.NoError(t, v.BindPFlag(KeyAPIURL, fs.Lookup("api-url")))

	cfg, err := Load(v, t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "http://flag.example.com:9000", cfg.APIURL)
}

func TestLoad_EnvFile(t *testing.T) {
	clearEnv(t)
	envFile := filepath.Join(t.TempDir(), "dev.env")
	require.NoError(t, os.WriteFile(envFile, []byte("VITE_API_URL=http://dotenv.example.com\n"), 0o644))

	cfg, err := Load(NewViper(), t.TempDir(), envFile)
	require.NoError(t, err)
	assert.Equal(t, "http://dotenv.example.com", cfg.APIURL)

	_, err = Load(NewViper(), t.TempDir(), filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoad_Invalid(t *testing.T) {
	clearEnv(t)

	v := NewViper()
	v.Set(KeyAPIURL, "   ")
	_, err := Load(v, t.TempDir())
	assert.ErrorIs(t, err, ErrMissingAPIURL)

	v = NewViper()
	v.Set(KeyAPIURL, "not a url")
	_, err = Load(v, t.TempDir())
	assert.ErrorIs(t, err, reply.ErrInvalidBaseURL)
}

func TestLoad_BrokenConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: [unclosed\n"), 0o644))

	_, err := Load(NewViper(), dir)
	assert.Error(t, err)
}
