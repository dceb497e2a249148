package service

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
)

type statusService struct {
	client   configapi.Client
	observer UseCaseObserver
}

func NewStatusService(client configapi.Client, observers ...UseCaseObserver) StatusService {
	return &statusService{
		client:   client,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *statusService) List(ctx context.Context) ([]domain.Status, error) {
	var statuses []domain.Status
	if err := s.client.Fetch(ctx, configapi.Statuses, &statuses); err != nil {
		return nil, fmt.Errorf("loading statuses: %w", err)
	}
	return statuses, nil
}

// Submit writes the draft into statuses[editing], or appends it with the
// next free id when editing is negative. Ids are stored as strings.
func (s *statusService) Submit(ctx context.Context, statuses []domain.Status, editing int, draft StatusDraft) (stored []domain.Status, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "submit-status", fields)(&err)

	if editing >= len(statuses) {
		return nil, fmt.Errorf("%w: status %d of %d", ErrNoSuchEntry, editing, len(statuses))
	}

	next := slices.Clone(statuses)
	status := domain.Status{
		Emoji: strings.TrimSpace(draft.Emoji),
		Text:  strings.TrimSpace(draft.Text),
		Tags:  domain.ParseTags(draft.Tags),
	}
	if editing >= 0 {
		status.ID = next[editing].ID
		next[editing] = status
	} else {
		status.ID = domain.StatusID(strconv.Itoa(domain.NextID(next, domain.StatusKey)))
		next = append(next, status)
	}
	fields["status_id"] = string(status.ID)

	if err = s.client.Replace(ctx, configapi.Statuses, next, &stored); err != nil {
		return nil, fmt.Errorf("saving statuses: %w", err)
	}
	return stored, nil
}

// Delete removes statuses[index]. Rules that still reference it keep the id.
func (s *statusService) Delete(ctx context.Context, statuses []domain.Status, index int) (stored []domain.Status, err error) {
	fields := map[string]any{}
	defer observe(ctx, s.observer, "delete-status", fields)(&err)

	if index < 0 || index >= len(statuses) {
		return nil, fmt.Errorf("%w: status %d of %d", ErrNoSuchEntry, index, len(statuses))
	}
	fields["status_id"] = string(statuses[index].ID)

	next := slices.Delete(slices.Clone(statuses), index, index+1)
	if err = s.client.Replace(ctx, configapi.Statuses, next, &stored); err != nil {
		return nil, fmt.Errorf("saving statuses: %w", err)
	}
	return stored, nil
}
