package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

// ErrNoLocalStore is returned by commands that need the document store
// when the configuration points at a remote server.
var ErrNoLocalStore = errors.New("this command needs a local store; unset client.endpoint")

// ErrNotInteractive is returned by edit without a terminal.
var ErrNotInteractive = errors.New("edit needs an interactive terminal")

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func secondsOr(seconds int, fallback time.Duration) time.Duration {
	if seconds <= 0 {
		return fallback
	}
	return time.Duration(seconds) * time.Second
}

func newServeCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the configuration API and run the rotator",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := e.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.Store == nil {
				return ErrNoLocalStore
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			g, ctx := errgroup.WithContext(ctx)
			var changes <-chan configapi.Resource
			if e.cfg.Rotator.Enabled {
				if changes, err = rt.Store.Changes(ctx); err != nil {
					return fmt.Errorf("watching configuration: %w", err)
				}
			}
			g.Go(func() error {
				return server.Serve(ctx, e.cfg.Server.Addr, server.NewHandler(rt.Store, e.logger), e.logger)
			})
			if e.cfg.Rotator.Enabled {
				g.Go(func() error {
					return e.newRotator(rt).Run(ctx, changes)
				})
			}
			return g.Wait()
		},
	}
	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("rotate", true, "run the rotator alongside the server")
	cmd.Flags().Bool("dry-run", false, "log status updates instead of publishing them")
	return cmd
}

func newRotateCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rotate",
		Short: "Run only the rotator",
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := e.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			// Without a local store there is nothing to watch; the rotator
			// keeps the configuration it loaded at start.
			var changes <-chan configapi.Resource
			if rt.Store != nil {
				if changes, err = rt.Store.Changes(ctx); err != nil {
					return fmt.Errorf("watching configuration: %w", err)
				}
			}
			return e.newRotator(rt).Run(ctx, changes)
		},
	}
	cmd.Flags().Bool("dry-run", false, "log status updates instead of publishing them")
	cmd.Flags().String("endpoint", "", "read configuration from this server instead of the store")
	return cmd
}

func newEditCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit presets, statuses and settings in the terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !e.opts.IsInteractive() {
				return ErrNotInteractive
			}
			rt, err := e.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			p := tea.NewProgram(newAppModel(rt.App), tea.WithAltScreen(), tea.WithMouseCellMotion(), tea.WithContext(cmd.Context()))
			_, err = p.Run()
			if errors.Is(err, tea.ErrProgramKilled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().String("endpoint", "", "edit through this server instead of opening the store")
	return cmd
}

func newVersionCmd(e *env) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), "statusrota "+e.opts.Version)
			return err
		},
	}
}
