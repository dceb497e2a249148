package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/atotto/clipboard"
	"github.com/mattn/go-isatty"
	"github.com/snowoball/statusrota/internal/cli"
	"github.com/snowoball/statusrota/internal/config"
	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/rotator"
	"github.com/snowoball/statusrota/internal/service"
	"github.com/snowoball/statusrota/internal/store"
)

var version = "dev"

func main() {
	root := cli.NewRootCmd(cli.Options{
		Version: version,
		Build:   build,
		IsInteractive: func() bool {
			return isatty.IsTerminal(os.Stdin.Fd()) || isatty.IsCygwinTerminal(os.Stdin.Fd())
		},
	})
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// build wires stores, clients and services from the loaded configuration.
func build(cfg config.Config, logger *slog.Logger) (*cli.Runtime, error) {
	rt := &cli.Runtime{Close: func() error { return nil }}

	// Config client: a remote server when an endpoint is set, otherwise the
	// local document store.
	if cfg.Client.Endpoint != "" {
		rt.Client = configapi.NewHTTPClient(configapi.ClientConfig{
			Endpoint: cfg.Client.Endpoint,
			Timeout:  cfg.Client.Timeout(),
		}, configapi.NewLogObserver(logger))
	} else {
		st, err := store.Open(store.Options{
			Driver:     store.Driver(cfg.Store.Driver),
			Dir:        cfg.Store.Dir,
			SQLitePath: cfg.Store.SQLitePath,
		}, store.WithLogger(logger))
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		rt.Store = st
		rt.Client = store.NewLocal(st)
		rt.Close = st.Close
	}

	// Wire services
	observer := service.NewLogUseCaseObserver(logger)
	rt.App = &cli.App{
		Presets:   service.NewPresetService(rt.Client, observer),
		Statuses:  service.NewStatusService(rt.Client, observer),
		Settings:  service.NewSettingsService(rt.Client, observer),
		Clipboard: clipboard.WriteAll,
	}

	// Rotator collaborators
	if cfg.Rotator.DryRun {
		rt.Publisher = rotator.NewLogPublisher(logger)
	} else {
		rt.Publisher = rotator.NewDiscordPublisher(cfg.Discord.Endpoint, cfg.Discord.TokenList(), logger)
	}
	weather := rotator.NewOpenMeteo(cfg.Weather.Endpoint, time.Duration(cfg.Weather.TimeoutMs)*time.Millisecond)
	fallback := domain.Location{
		Latitude:  cfg.Rotator.FallbackLatitude,
		Longitude: cfg.Rotator.FallbackLongitude,
	}
	rt.Variables = rotator.NewVariables(weather, fallback, logger)

	return rt, nil
}
