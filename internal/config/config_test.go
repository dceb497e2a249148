package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs Load against an empty working directory so no stray config
// or .env file leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(Options{})
	require.NoError(t, err)

	assert.Equal(t, "file", cfg.Store.Driver)
	assert.Equal(t, "configuration", cfg.Store.Dir)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 5000, cfg.Client.TimeoutMs)
	assert.True(t, cfg.Rotator.Enabled)
	assert.InDelta(t, 50.8503, cfg.Rotator.FallbackLatitude, 1e-9)
	assert.InDelta(t, 4.3517, cfg.Rotator.FallbackLongitude, 1e-9)
	assert.Equal(t, "https://api.open-meteo.com/v1/forecast", cfg.Weather.Endpoint)
	assert.Equal(t, slog.LevelInfo, cfg.Log.SlogLevel())
}

func TestLoad_FileEnvAndFlagsLayer(t *testing.T) {
	dir := isolate(t)
	cfgFile := filepath.Join(dir, "custom.toml")
	require.NoError(t, os.WriteFile(cfgFile, []byte(`
[server]
addr = ":9000"

[store]
driver = "sqlite"
dir = "from-file"
`), 0644))
	t.Setenv("STATUSROTA_STORE_DIR", "from-env")
	t.Setenv("STATUSROTA_CLIENT_TIMEOUT_MS", "250")

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("addr", ":8080", "")
	flags.Bool("dry-run", false, "")
	require.NoError(t, flags.Parse([]string{"--dry-run"}))

	cfg, err := Load(Options{ConfigFile: cfgFile, Flags: flags})
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.Addr, "unset flag keeps file value")
	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "from-env", cfg.Store.Dir)
	assert.Equal(t, 250, cfg.Client.TimeoutMs)
	assert.Equal(t, int64(250), cfg.Client.Timeout().Milliseconds())
	assert.True(t, cfg.Rotator.DryRun)
}

func TestLoad_MissingExplicitConfigFails(t *testing.T) {
	dir := isolate(t)
	_, err := Load(Options{ConfigFile: filepath.Join(dir, "nope.toml")})
	assert.Error(t, err)
}

func TestLoad_DotEnvTokens(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DISCORD_TOKENS=\"abc, def;ghi\"\n"), 0644))
	t.Setenv("DISCORD_TOKENS", "")
	os.Unsetenv("DISCORD_TOKENS")

	cfg, err := Load(Options{})
	require.NoError(t, err)
	assert.Equal(t, []string{"abc", "def", "ghi"}, cfg.Discord.TokenList())
}

func TestDiscordConfig_TokenList(t *testing.T) {
	d := DiscordConfig{Tokens: "one\n two ;;three,"}
	assert.Equal(t, []string{"one", "two", "three"}, d.TokenList())
	assert.Empty(t, DiscordConfig{}.TokenList())
}

func TestLogConfig_SlogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, LogConfig{Level: "debug"}.SlogLevel())
	assert.Equal(t, slog.LevelWarn, LogConfig{Level: "WARN"}.SlogLevel())
	assert.Equal(t, slog.LevelInfo, LogConfig{Level: "loud"}.SlogLevel())
}
