package service

import (
	"context"

	"github.com/snowoball/statusrota/internal/domain"
)

// Workspace is the data the preset editor works on: the status catalog and
// the preset collection, loaded in that order.
type Workspace struct {
	Catalog []domain.Status
	Presets []domain.Preset
}

type PresetService interface {
	// Load fetches the catalog, then the presets.
	Load(ctx context.Context) (*Workspace, error)

	// Submit stores rules under name, either into presets[editing] or, when
	// editing is negative, into a new preset with the next free id. The whole
	// collection is written and the stored collection returned.
	Submit(ctx context.Context, presets []domain.Preset, editing int, name string, rules []domain.Rule) ([]domain.Preset, error)

	// Delete removes presets[index] and writes the collection immediately.
	Delete(ctx context.Context, presets []domain.Preset, index int) ([]domain.Preset, error)
}

type StatusService interface {
	List(ctx context.Context) ([]domain.Status, error)
	Submit(ctx context.Context, statuses []domain.Status, editing int, draft StatusDraft) ([]domain.Status, error)
	Delete(ctx context.Context, statuses []domain.Status, index int) ([]domain.Status, error)
}

type SettingsService interface {
	// Get returns the current settings record, or a zero record with ok
	// false when none is stored.
	Get(ctx context.Context) (settings domain.Settings, ok bool, err error)
	Save(ctx context.Context, draft SettingsDraft) (domain.Settings, error)
}
