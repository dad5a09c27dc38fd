package main

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zpdzap/padre/internal/config"
)

func parse(t *testing.T, args ...string) (*flags, *pflag.FlagSet) {
	t.Helper()
	var f flags
	fs := pflag.NewFlagSet("padre", pflag.ContinueOnError)
	f.register(fs)
	f.registerPersistent(fs)
	require.NoError(t, fs.Parse(args))
	return &f, fs
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, config.Save(dir, &config.Config{
		Browser:    "chromium",
		RemotePath: "/opt/padre",
		Auto:       "*.ipynb",
	}))

	tests := []struct {
		name        string
		env         string
		args        []string
		wantBrowser string
		wantAuto    string
		wantPath    string
	}{
		{"file", "", nil, "chromium", "*.ipynb", "/opt/padre"},
		{"env over file", "firefox", nil, "firefox", "*.ipynb", "/opt/padre"},
		{"flags over env", "firefox", []string{"-b", "links", "-a", "none", "-p", "/srv"}, "links", "none", "/srv"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(config.BrowserEnv, tt.env)
			f, fs := parse(t, append([]string{"--config-dir", dir}, tt.args...)...)

			cfg, err := f.loadConfig(fs)
			require.NoError(t, err)
			assert.Equal(t, tt.wantBrowser, cfg.Browser)
			assert.Equal(t, tt.wantAuto, cfg.Auto)
			assert.Equal(t, tt.wantPath, cfg.RemotePath)
		})
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv(config.BrowserEnv, "")
	f, fs := parse(t, "--config-dir", t.TempDir(), "-n", "-v")

	cfg, err := f.loadConfig(fs)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultBrowser, cfg.Browser)
	assert.Equal(t, config.DefaultAuto, cfg.Auto)
	assert.True(t, cfg.NoBrowser)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, config.DefaultAuto, cfg.AutoPattern())
}

func TestExactlyOneTarget(t *testing.T) {
	assert.NoError(t, exactlyOneTarget(nil, []string{"me@host:obs"}))
	for _, args := range [][]string{nil, {"a", "b"}} {
		assert.ErrorIs(t, exactlyOneTarget(nil, args), errArgCount)
	}
}
