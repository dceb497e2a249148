package service

import (
	"context"
	"fmt"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
)

type settingsService struct {
	client   configapi.Client
	observer UseCaseObserver
}

func NewSettingsService(client configapi.Client, observers ...UseCaseObserver) SettingsService {
	return &settingsService{
		client:   client,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *settingsService) Get(ctx context.Context) (domain.Settings, bool, error) {
	var list []domain.Settings
	if err := s.client.Fetch(ctx, configapi.Settings, &list); err != nil {
		return domain.Settings{}, false, fmt.Errorf("loading settings: %w", err)
	}
	current, ok := domain.CurrentSettings(list)
	return current, ok, nil
}

// Save replaces the settings collection with the single record in draft.
func (s *settingsService) Save(ctx context.Context, draft SettingsDraft) (saved domain.Settings, err error) {
	settings := draft.Settings()
	fields := map[string]any{
		"active":    settings.Active,
		"preset_id": settings.PresetID,
	}
	defer observe(ctx, s.observer, "save-settings", fields)(&err)

	var stored []domain.Settings
	if err = s.client.Replace(ctx, configapi.Settings, []domain.Settings{settings}, &stored); err != nil {
		return domain.Settings{}, fmt.Errorf("saving settings: %w", err)
	}
	current, _ := domain.CurrentSettings(stored)
	return current, nil
}
