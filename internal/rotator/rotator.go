// Package rotator cycles the active preset's rules and publishes the
// resulting statuses.
//
// Each step reads the first settings record. An inactive record idles for
// one interval. Otherwise the rule at the cursor is evaluated, its text is
// split into lines and every line is published, one interval apart. A
// configuration change reloads everything and restarts the preset from its
// first rule.
package rotator

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
)

// DefaultIdle is the wait used when there is no usable interval.
const DefaultIdle = 5 * time.Second

// Snapshot is the configuration the rotator works from.
type Snapshot struct {
	Settings []domain.Settings
	Presets  []domain.Preset
	Statuses []domain.Status
}

type Options struct {
	Idle   time.Duration
	Rand   *rand.Rand
	Logger *slog.Logger
	After  func(time.Duration) <-chan time.Time
}

type Rotator struct {
	client    configapi.Client
	publisher Publisher
	vars      *Variables
	logger    *slog.Logger
	rng       *rand.Rand
	idle      time.Duration
	after     func(time.Duration) <-chan time.Time

	snap     Snapshot
	cursor   int
	presetID int
	changes  <-chan configapi.Resource
}

func New(client configapi.Client, publisher Publisher, vars *Variables, opts Options) *Rotator {
	r := &Rotator{
		client:    client,
		publisher: publisher,
		vars:      vars,
		logger:    opts.Logger,
		rng:       opts.Rand,
		idle:      opts.Idle,
		after:     opts.After,
		presetID:  -1,
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	if r.rng == nil {
		r.rng = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0))
	}
	if r.idle <= 0 {
		r.idle = DefaultIdle
	}
	if r.after == nil {
		r.after = time.After
	}
	return r
}

// Load replaces the snapshot from the client. On error the previous
// snapshot stays in use.
func (r *Rotator) Load(ctx context.Context) error {
	var snap Snapshot
	if err := r.client.Fetch(ctx, configapi.Settings, &snap.Settings); err != nil {
		return err
	}
	if err := r.client.Fetch(ctx, configapi.Presets, &snap.Presets); err != nil {
		return err
	}
	if err := r.client.Fetch(ctx, configapi.Statuses, &snap.Statuses); err != nil {
		return err
	}
	r.snap = snap
	return nil
}

func (r *Rotator) reload(ctx context.Context) {
	if err := r.Load(ctx); err != nil {
		r.logger.Error("config_reload_failed", "error", err)
	} else {
		r.logger.Info("config_reloaded")
	}
	r.cursor = 0
	r.presetID = -1
}

// Run rotates until ctx is done. changes may be nil.
func (r *Rotator) Run(ctx context.Context, changes <-chan configapi.Resource) error {
	r.changes = changes
	if err := r.Load(ctx); err != nil {
		r.logger.Error("config_load_failed", "error", err)
	}
	r.logger.Info("rotator_started")

	for {
		settings, updates, interval := r.plan()

		if len(updates) == 0 {
			switch r.wait(ctx, interval) {
			case waitDone:
				return nil
			case waitChanged:
				r.reload(ctx)
			}
			continue
		}

	lines:
		for _, u := range updates {
			if needsValues(u) {
				u = Expand(u, r.vars.Values(ctx, settings))
			}
			if err := r.publisher.Publish(ctx, u); err != nil && !errors.Is(err, context.Canceled) {
				r.logger.Warn("publish_failed", "error", err)
			}

			switch r.wait(ctx, interval) {
			case waitDone:
				return nil
			case waitChanged:
				r.reload(ctx)
				break lines
			}
		}
	}
}

// plan advances the cursor by one rule and returns the updates to publish
// and the wait after each.
func (r *Rotator) plan() (domain.Settings, []Update, time.Duration) {
	settings, ok := domain.CurrentSettings(r.snap.Settings)
	if !ok {
		return settings, nil, r.idle
	}
	interval := time.Duration(settings.IntervalSeconds) * time.Second
	if interval <= 0 {
		interval = r.idle
	}
	if !settings.Active {
		return settings, nil, interval
	}

	if settings.PresetID != r.presetID {
		r.logger.Info("preset_switched", "preset_id", settings.PresetID)
		r.presetID = settings.PresetID
		r.cursor = 0
	}

	idx := domain.FindPreset(r.snap.Presets, settings.PresetID)
	if idx < 0 {
		r.logger.Warn("preset_not_found", "preset_id", settings.PresetID)
		return settings, nil, interval
	}
	rules := r.snap.Presets[idx].Statuses
	if len(rules) == 0 {
		return settings, nil, interval
	}

	if r.cursor >= len(rules) {
		r.cursor = 0
	}
	rule := rules[r.cursor]
	r.cursor++

	updates := evaluate(rule, r.snap.Statuses, r.rng)
	if updates == nil {
		r.logger.Warn("rule_unresolved", "preset_id", settings.PresetID, "sequence", rule.Sequence, "type", string(rule.Type()))
	}
	return settings, updates, interval
}

type waitResult int

const (
	waitElapsed waitResult = iota
	waitChanged
	waitDone
)

func (r *Rotator) wait(ctx context.Context, d time.Duration) waitResult {
	timer := r.after(d)
	for {
		select {
		case <-ctx.Done():
			return waitDone
		case _, ok := <-r.changes:
			if !ok {
				r.changes = nil
				continue
			}
			return waitChanged
		case <-timer:
			return waitElapsed
		}
	}
}
