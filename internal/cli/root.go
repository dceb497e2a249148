package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/snowoball/statusrota/internal/config"
	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/rotator"
	"github.com/snowoball/statusrota/internal/service"
	"github.com/snowoball/statusrota/internal/store"
	"github.com/spf13/cobra"
)

// App holds the services the editor screens use.
type App struct {
	Presets  service.PresetService
	Statuses service.StatusService
	Settings service.SettingsService

	// Clipboard receives exported preset JSON.
	Clipboard func(text string) error
}

// Runtime is what a command works with once the configuration is loaded.
type Runtime struct {
	App    *App
	Client configapi.Client

	// Store is the local document store; nil when Client talks to a remote
	// server.
	Store store.Store

	Publisher rotator.Publisher
	Variables *rotator.Variables

	// Close releases the store and any other resources.
	Close func() error
}

// Builder wires a Runtime from configuration.
type Builder func(cfg config.Config, logger *slog.Logger) (*Runtime, error)

// Options configure NewRootCmd.
type Options struct {
	Version string
	Build   Builder

	// IsInteractive reports whether stdin is a terminal.
	IsInteractive func() bool

	// Out receives command output; defaults to stdout.
	Out io.Writer
}

// env is the per-invocation state shared by subcommands.
type env struct {
	opts    Options
	cfg     config.Config
	logger  *slog.Logger
	logFile io.Closer
}

// NewRootCmd creates the top-level "statusrota" command.
func NewRootCmd(opts Options) *cobra.Command {
	if opts.Out == nil {
		opts.Out = os.Stdout
	}
	if opts.IsInteractive == nil {
		opts.IsInteractive = func() bool { return false }
	}
	e := &env{opts: opts}

	var configFile, envFile string

	root := &cobra.Command{
		Use:           "statusrota",
		Short:         "Rotate a custom status through presets of rules",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(config.Options{
				ConfigFile: configFile,
				EnvFile:    envFile,
				Flags:      cmd.Flags(),
			})
			if err != nil {
				return err
			}
			e.cfg = cfg
			// The editor owns the terminal, so it only logs to a file.
			console := cmd.ErrOrStderr()
			if cmd.Name() == "edit" {
				console = io.Discard
			}
			return e.setupLogger(console)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if e.logFile != nil {
				return e.logFile.Close()
			}
			return nil
		},
	}
	root.SetOut(opts.Out)

	pf := root.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file (default ./statusrota.{toml,yaml,json})")
	pf.StringVar(&envFile, "env-file", "", "dotenv file (default .env)")
	pf.String("store", "file", "document store: file or sqlite")
	pf.String("dir", "configuration", "directory of the file store")
	pf.String("db", "", "database path of the sqlite store")
	pf.String("log", "info", "log level: debug, info, warn, error")
	pf.String("log-file", "", "append logs to this file")

	root.AddCommand(
		newServeCmd(e),
		newRotateCmd(e),
		newEditCmd(e),
		newShowCmd(e),
		newVersionCmd(e),
	)

	return root
}

// setupLogger installs the slog text handler for this invocation.
func (e *env) setupLogger(console io.Writer) error {
	w := console
	if e.cfg.Log.File != "" {
		f, err := os.OpenFile(e.cfg.Log.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		e.logFile = f
		w = f
	}
	e.logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: e.cfg.Log.SlogLevel()}))
	return nil
}

// runtime builds the Runtime for the loaded configuration.
func (e *env) runtime() (*Runtime, error) {
	if e.opts.Build == nil {
		return nil, fmt.Errorf("no runtime builder configured")
	}
	return e.opts.Build(e.cfg, e.logger)
}

// newRotator creates a rotator over rt with the configured idle wait.
func (e *env) newRotator(rt *Runtime) *rotator.Rotator {
	return rotator.New(rt.Client, rt.Publisher, rt.Variables, rotator.Options{
		Idle:   secondsOr(e.cfg.Rotator.IdleSeconds, rotator.DefaultIdle),
		Logger: e.logger,
	})
}
