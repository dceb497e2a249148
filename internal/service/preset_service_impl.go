package service

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
)

type presetService struct {
	client   configapi.Client
	observer UseCaseObserver
}

func NewPresetService(client configapi.Client, observers ...UseCaseObserver) PresetService {
	return &presetService{
		client:   client,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *presetService) Load(ctx context.Context) (ws *Workspace, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "load-presets", fields)(&err)

	var catalog []domain.Status
	if err = s.client.Fetch(ctx, configapi.Statuses, &catalog); err != nil {
		return nil, fmt.Errorf("loading statuses: %w", err)
	}
	var presets []domain.Preset
	if err = s.client.Fetch(ctx, configapi.Presets, &presets); err != nil {
		return nil, fmt.Errorf("loading presets: %w", err)
	}
	fields["status_count"] = len(catalog)
	fields["preset_count"] = len(presets)

	return &Workspace{Catalog: catalog, Presets: presets}, nil
}

func (s *presetService) Submit(ctx context.Context, presets []domain.Preset, editing int, name string, rules []domain.Rule) (stored []domain.Preset, err error) {
	fields := map[string]any{"rule_count": len(rules)}
	defer observe(ctx, s.observer, "submit-preset", fields)(&err)

	if editing >= len(presets) {
		return nil, fmt.Errorf("%w: preset %d of %d", ErrNoSuchEntry, editing, len(presets))
	}

	next := clonePresets(presets)
	preset := domain.Preset{
		Name:     strings.TrimSpace(name),
		Statuses: numbered(rules),
	}
	if editing >= 0 {
		preset.ID = next[editing].ID
		next[editing] = preset
	} else {
		preset.ID = domain.NextID(next, domain.PresetKey)
		next = append(next, preset)
	}
	fields["preset_id"] = preset.ID

	if err = s.client.Replace(ctx, configapi.Presets, next, nil); err != nil {
		return nil, fmt.Errorf("saving presets: %w", err)
	}
	if err = s.client.Fetch(ctx, configapi.Presets, &stored); err != nil {
		return nil, fmt.Errorf("reloading presets: %w", err)
	}
	return stored, nil
}

func (s *presetService) Delete(ctx context.Context, presets []domain.Preset, index int) (stored []domain.Preset, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "delete-preset", fields)(&err)

	if index < 0 || index >= len(presets) {
		return nil, fmt.Errorf("%w: preset %d of %d", ErrNoSuchEntry, index, len(presets))
	}
	fields["preset_id"] = presets[index].ID

	next := slices.Delete(clonePresets(presets), index, index+1)
	if err = s.client.Replace(ctx, configapi.Presets, next, &stored); err != nil {
		return nil, fmt.Errorf("saving presets: %w", err)
	}
	return stored, nil
}

func clonePresets(presets []domain.Preset) []domain.Preset {
	out := make([]domain.Preset, len(presets))
	for i, p := range presets {
		out[i] = p.Clone()
	}
	return out
}

// numbered copies rules with sequence set from position.
func numbered(rules []domain.Rule) []domain.Rule {
	out := domain.CloneRules(rules)
	for i := range out {
		out[i].Sequence = i
		if out[i].Selection == nil {
			out[i].Selection = domain.None{}
		}
	}
	return out
}
