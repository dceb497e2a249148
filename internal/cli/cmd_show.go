package cli

import (
	"fmt"
	"strconv"

	"github.com/snowoball/statusrota/internal/cli/formatter"
	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/spf13/cobra"
)

func newShowCmd(e *env) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <presets|statuses|settings> [preset-id]",
		Short: "Print stored configuration",
		Long: `Print the stored presets, statuses or settings.

Examples:
  statusrota show presets
  statusrota show presets 2
  statusrota show statuses
  statusrota show settings`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			resource, err := configapi.ParseResource(args[0])
			if err != nil {
				return err
			}
			rt, err := e.runtime()
			if err != nil {
				return err
			}
			defer rt.Close()

			out, err := e.show(cmd, rt, resource, args[1:])
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().String("endpoint", "", "read from this server instead of the store")
	return cmd
}

func (e *env) show(cmd *cobra.Command, rt *Runtime, resource configapi.Resource, rest []string) (string, error) {
	ctx := cmd.Context()

	switch resource {
	case configapi.Statuses:
		statuses, err := rt.App.Statuses.List(ctx)
		if err != nil {
			return "", err
		}
		return formatter.FormatStatusList(statuses), nil

	case configapi.Settings:
		settings, ok, err := rt.App.Settings.Get(ctx)
		if err != nil {
			return "", err
		}
		ws, err := rt.App.Presets.Load(ctx)
		if err != nil {
			return "", err
		}
		return formatter.FormatSettings(settings, ok, ws.Presets) + "\n", nil
	}

	ws, err := rt.App.Presets.Load(ctx)
	if err != nil {
		return "", err
	}
	if len(rest) == 0 {
		active := -1
		if settings, ok, err := rt.App.Settings.Get(ctx); err == nil && ok {
			active = settings.PresetID
		}
		return formatter.FormatPresetList(ws.Presets, active), nil
	}

	id, err := strconv.Atoi(rest[0])
	if err != nil {
		return "", fmt.Errorf("preset id %q is not a number", rest[0])
	}
	i := domain.FindPreset(ws.Presets, id)
	if i < 0 {
		return "", fmt.Errorf("no preset with id %d", id)
	}
	return formatter.FormatPreset(ws.Presets[i], ws.Catalog), nil
}
