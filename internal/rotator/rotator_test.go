package rotator

import (
	"context"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func immediate(time.Duration) <-chan time.Time {
	ch := make(chan time.Time, 1)
	ch <- time.Time{}
	return ch
}

func never(time.Duration) <-chan time.Time { return nil }

type recordingPublisher struct {
	mu      sync.Mutex
	updates []Update
	stopAt  int
	stop    context.CancelFunc
}

func (p *recordingPublisher) Publish(ctx context.Context, u Update) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updates = append(p.updates, u)
	if p.stopAt > 0 && len(p.updates) >= p.stopAt && p.stop != nil {
		p.stop()
	}
	return nil
}

func (p *recordingPublisher) texts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.updates))
	for i, u := range p.updates {
		out[i] = u.Text
	}
	return out
}

func catalog() []domain.Status {
	return []domain.Status{
		testutil.NewTestStatus("1", "first line\nsecond line", testutil.WithEmoji("☕")),
		testutil.NewTestStatus("2", "focus", testutil.WithEmoji("🎧")),
		testutil.NewTestStatus("3", "it is {{time_text}}", testutil.WithEmoji("{{weather_emoji}}")),
	}
}

func newTestRotator(t *testing.T, snap Snapshot, pub Publisher, after func(time.Duration) <-chan time.Time) *Rotator {
	t.Helper()
	client := testutil.NewTestClient(testutil.NewTestStore(t))
	testutil.Seed(t, client, configapi.Settings, snap.Settings)
	testutil.Seed(t, client, configapi.Presets, snap.Presets)
	testutil.Seed(t, client, configapi.Statuses, snap.Statuses)

	vars := NewVariables(stubWeather{w: Weather{Emoji: "⛅", Text: "12.0°C Partly cloudy"}}, domain.Location{}, quietLogger())
	return New(client, pub, vars, Options{
		Logger: quietLogger(),
		Rand:   rand.New(rand.NewPCG(1, 2)),
		After:  after,
	})
}

type stubWeather struct {
	w   Weather
	err error
}

func (s stubWeather) Current(context.Context, domain.Location) (Weather, error) {
	return s.w, s.err
}

func TestPlan_CyclesRulesAndWraps(t *testing.T) {
	r := newTestRotator(t, Snapshot{}, nil, never)
	r.snap = Snapshot{
		Settings: []domain.Settings{testutil.NewTestSettings(1, 30)},
		Presets: []domain.Preset{testutil.NewTestPreset(1, "p", testutil.WithRules(
			testutil.StaticRule("2"),
			testutil.NoneRule(),
		))},
		Statuses: catalog(),
	}

	var got []Update
	for i := 0; i < 3; i++ {
		_, updates, wait := r.plan()
		assert.Equal(t, 30*time.Second, wait)
		got = append(got, updates...)
	}
	assert.Equal(t, []Update{{Emoji: "🎧", Text: "focus"}, {}, {Emoji: "🎧", Text: "focus"}}, got)
}

func TestPlan_PresetSwitchRestartsSequence(t *testing.T) {
	r := newTestRotator(t, Snapshot{}, nil, never)
	r.snap = Snapshot{
		Settings: []domain.Settings{testutil.NewTestSettings(1, 10)},
		Presets: []domain.Preset{
			testutil.NewTestPreset(1, "a", testutil.WithRules(testutil.StaticRule("1"), testutil.StaticRule("2"))),
			testutil.NewTestPreset(2, "b", testutil.WithRules(testutil.StaticRule("2"), testutil.StaticRule("1"))),
		},
		Statuses: catalog(),
	}

	r.plan()
	assert.Equal(t, 1, r.cursor)

	r.snap.Settings[0].PresetID = 2
	_, updates, _ := r.plan()
	require.Len(t, updates, 1)
	assert.Equal(t, "focus", updates[0].Text)
	assert.Equal(t, 1, r.cursor)
}

func TestPlan_NothingToPublish(t *testing.T) {
	r := newTestRotator(t, Snapshot{}, nil, never)

	_, updates, wait := r.plan()
	assert.Nil(t, updates)
	assert.Equal(t, DefaultIdle, wait, "no settings record")

	r.snap.Settings = []domain.Settings{testutil.NewTestSettings(1, 7, testutil.WithActive(false))}
	_, updates, wait = r.plan()
	assert.Nil(t, updates)
	assert.Equal(t, 7*time.Second, wait, "inactive waits one interval")

	r.snap.Settings = []domain.Settings{testutil.NewTestSettings(9, 0)}
	_, updates, wait = r.plan()
	assert.Nil(t, updates)
	assert.Equal(t, DefaultIdle, wait, "missing preset and zero interval")
}

func TestEvaluate(t *testing.T) {
	rng := rand.New(rand.NewPCG(3, 4))
	cat := catalog()

	assert.Equal(t, []Update{{Emoji: "☕", Text: "first line"}, {Emoji: "☕", Text: "second line"}},
		evaluate(testutil.StaticRule("1"), cat, rng))
	assert.Equal(t, []Update{{}}, evaluate(testutil.NoneRule(), cat, rng))
	assert.Nil(t, evaluate(testutil.StaticRule("42"), cat, rng))
	assert.Nil(t, evaluate(domain.Rule{Selection: domain.Static{}}, cat, rng))
	assert.Nil(t, evaluate(testutil.RandomRule(""), cat, rng))

	seen := map[string]bool{}
	for i := 0; i < 200; i++ {
		u := evaluate(testutil.RandomRule("", "2", "3"), cat, rng)
		require.Len(t, u, 1)
		seen[u[0].Text] = true
	}
	assert.Equal(t, map[string]bool{"focus": true, "it is {{time_text}}": true}, seen)
}

func TestRun_PublishesEveryLineAndExpandsVariables(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := &recordingPublisher{stopAt: 4, stop: cancel}
	r := newTestRotator(t, Snapshot{
		Settings: []domain.Settings{testutil.NewTestSettings(1, 1)},
		Presets: []domain.Preset{testutil.NewTestPreset(1, "p", testutil.WithRules(
			testutil.StaticRule("1"),
			testutil.StaticRule("3"),
		))},
		Statuses: catalog(),
	}, pub, immediate)
	r.vars.now = func() time.Time { return time.Date(2026, 6, 21, 12, 0, 0, 0, time.UTC) }

	require.NoError(t, r.Run(ctx, nil))

	assert.Equal(t, []string{"first line", "second line", "it is Day", "first line"}, pub.texts())
	assert.Equal(t, "⛅", pub.updates[2].Emoji)
}

func TestRun_ChangeReloadsAndRestarts(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan configapi.Resource, 1)
	pub := &recordingPublisher{}
	r := newTestRotator(t, Snapshot{
		Settings: []domain.Settings{testutil.NewTestSettings(1, 1)},
		Presets: []domain.Preset{testutil.NewTestPreset(1, "p", testutil.WithRules(
			testutil.StaticRule("1"),
		))},
		Statuses: catalog(),
	}, pub, never)

	done := make(chan error, 1)
	go func() { done <- r.Run(ctx, changes) }()

	require.Eventually(t, func() bool { return len(pub.texts()) == 1 }, time.Second, 5*time.Millisecond)

	testutil.Seed(t, r.client, configapi.Statuses, []domain.Status{
		testutil.NewTestStatus("1", "replaced", testutil.WithEmoji("🆕")),
	})
	changes <- configapi.Statuses

	require.Eventually(t, func() bool { return len(pub.texts()) == 2 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"first line", "replaced"}, pub.texts())

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("rotator did not stop")
	}
}
