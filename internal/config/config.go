// Package config loads statusrota settings from defaults, an optional config
// file, a .env file, STATUSROTA_* environment variables and command flags,
// in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. STATUSROTA_SERVER_ADDR.
const EnvPrefix = "STATUSROTA"

type Config struct {
	Store   StoreConfig   `mapstructure:"store"`
	Server  ServerConfig  `mapstructure:"server"`
	Client  ClientConfig  `mapstructure:"client"`
	Rotator RotatorConfig `mapstructure:"rotator"`
	Weather WeatherConfig `mapstructure:"weather"`
	Discord DiscordConfig `mapstructure:"discord"`
	Log     LogConfig     `mapstructure:"log"`
}

type StoreConfig struct {
	Driver     string `mapstructure:"driver"` // file or sqlite
	Dir        string `mapstructure:"dir"`
	SQLitePath string `mapstructure:"sqlite_path"`
}

type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// ClientConfig points the editor at a running server. An empty endpoint
// means the editor opens the store directly.
type ClientConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

func (c ClientConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMs) * time.Millisecond
}

type RotatorConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	DryRun            bool    `mapstructure:"dry_run"`
	FallbackLatitude  float64 `mapstructure:"fallback_latitude"`
	FallbackLongitude float64 `mapstructure:"fallback_longitude"`
	IdleSeconds       int     `mapstructure:"idle_seconds"`
}

type WeatherConfig struct {
	Endpoint  string `mapstructure:"endpoint"`
	TimeoutMs int    `mapstructure:"timeout_ms"`
}

type DiscordConfig struct {
	Endpoint string `mapstructure:"endpoint"`
	Tokens   string `mapstructure:"tokens"`
}

// TokenList splits Tokens on commas, semicolons and newlines.
func (d DiscordConfig) TokenList() []string {
	var out []string
	for _, t := range strings.FieldsFunc(d.Tokens, func(r rune) bool {
		return r == ',' || r == ';' || r == '\n'
	}) {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	File  string `mapstructure:"file"`
}

// SlogLevel maps Level onto slog levels; unknown values mean info.
func (l LogConfig) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return lvl
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "file")
	v.SetDefault("store.dir", "configuration")
	v.SetDefault("store.sqlite_path", filepath.Join("configuration", "statusrota.db"))
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("client.endpoint", "")
	v.SetDefault("client.timeout_ms", 5000)
	v.SetDefault("rotator.enabled", true)
	v.SetDefault("rotator.dry_run", false)
	v.SetDefault("rotator.fallback_latitude", 50.8503) // Brussels
	v.SetDefault("rotator.fallback_longitude", 4.3517)
	v.SetDefault("rotator.idle_seconds", 5)
	v.SetDefault("weather.endpoint", "https://api.open-meteo.com/v1/forecast")
	v.SetDefault("weather.timeout_ms", 5000)
	v.SetDefault("discord.endpoint", "https://discord.com")
	v.SetDefault("discord.tokens", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.file", "")
}

// FlagKeys maps command flag names onto configuration keys.
var FlagKeys = map[string]string{
	"store":    "store.driver",
	"dir":      "store.dir",
	"db":       "store.sqlite_path",
	"addr":     "server.addr",
	"endpoint": "client.endpoint",
	"rotate":   "rotator.enabled",
	"dry-run":  "rotator.dry_run",
	"log":      "log.level",
	"log-file": "log.file",
}

// Options locate the inputs of Load.
type Options struct {
	ConfigFile string         // explicit config file; must exist when set
	EnvFile    string         // .env file; ignored when missing
	Flags      *pflag.FlagSet // flags named in FlagKeys are bound when present
}

// Load resolves the configuration.
func Load(opts Options) (Config, error) {
	envFile := opts.EnvFile
	if envFile == "" {
		envFile = ".env"
	}
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("loading %s: %w", envFile, err)
	}

	v := viper.New()
	setDefaults(v)

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("statusrota")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "statusrota"))
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return Config{}, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// DISCORD_TOKENS is the historical name of the token variable.
	if err := v.BindEnv("discord.tokens", EnvPrefix+"_DISCORD_TOKENS", "DISCORD_TOKENS"); err != nil {
		return Config{}, fmt.Errorf("binding discord tokens: %w", err)
	}

	if opts.Flags != nil {
		for name, key := range FlagKeys {
			if f := opts.Flags.Lookup(name); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return Config{}, fmt.Errorf("binding flag --%s: %w", name, err)
				}
			}
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}
