package cli

import (
	"context"
	"sync"
	"testing"

	"github.com/snowoball/statusrota/internal/configapi"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/service"
	"github.com/snowoball/statusrota/internal/store"
	"github.com/snowoball/statusrota/internal/teatest"
	"github.com/snowoball/statusrota/internal/testutil"
	"github.com/stretchr/testify/require"
)

// fakeClipboard records everything copied.
type fakeClipboard struct {
	mu     sync.Mutex
	copied []string
}

func (c *fakeClipboard) WriteAll(text string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.copied = append(c.copied, text)
	return nil
}

func (c *fakeClipboard) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.copied) == 0 {
		return ""
	}
	return c.copied[len(c.copied)-1]
}

// testEnv is an App over an in-memory store plus handles to inspect it.
type testEnv struct {
	App       *App
	Client    *store.Local
	Clipboard *fakeClipboard
}

func testApp(t *testing.T) *testEnv {
	t.Helper()
	return testAppOver(testutil.NewTestStore(t))
}

func testAppOver(st store.Store) *testEnv {
	client := testutil.NewTestClient(st)
	clip := &fakeClipboard{}
	return &testEnv{
		App: &App{
			Presets:   service.NewPresetService(client),
			Statuses:  service.NewStatusService(client),
			Settings:  service.NewSettingsService(client),
			Clipboard: clip.WriteAll,
		},
		Client:    client,
		Clipboard: clip,
	}
}

// seedCatalog stores the scenario catalog and presets.
func (e *testEnv) seed(t *testing.T, presets ...domain.Preset) {
	t.Helper()
	testutil.Seed(t, e.Client, configapi.Statuses, testutil.ScenarioCatalog())
	if presets == nil {
		presets = []domain.Preset{}
	}
	testutil.Seed(t, e.Client, configapi.Presets, presets)
}

func (e *testEnv) storedPresets(t *testing.T) []domain.Preset {
	t.Helper()
	var presets []domain.Preset
	require.NoError(t, e.Client.Fetch(context.Background(), configapi.Presets, &presets))
	return presets
}

func (e *testEnv) storedStatuses(t *testing.T) []domain.Status {
	t.Helper()
	var statuses []domain.Status
	require.NoError(t, e.Client.Fetch(context.Background(), configapi.Statuses, &statuses))
	return statuses
}

// TestDriver wraps teatest.Driver with inspection methods for the app
// model: the view stack, shared state and the output panel.
type TestDriver struct {
	*teatest.Driver
}

// NewTestDriver constructs the appModel, sets terminal size and drains
// Init(), which loads the preset list synchronously.
func NewTestDriver(t *testing.T, app *App) *TestDriver {
	t.Helper()

	m := newAppModel(app)
	d := teatest.New(t, m, teatest.WithSize(120, 40))
	d.DrainInit()

	return &TestDriver{Driver: d}
}

func (d *TestDriver) appModel() appModel {
	return d.Model.(appModel)
}

// ActiveViewID returns the ViewID of the top view on the stack.
func (d *TestDriver) ActiveViewID() ViewID {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ViewID(-1)
	}
	return v.ID()
}

// ActiveViewTitle returns the Title() of the top view on the stack.
func (d *TestDriver) ActiveViewTitle() string {
	m := d.appModel()
	v := m.activeView()
	if v == nil {
		return ""
	}
	return v.Title()
}

// ViewStackLen returns the number of views on the stack.
func (d *TestDriver) ViewStackLen() int {
	return len(d.appModel().viewStack)
}

// ViewStackIDs returns the ViewIDs of all views on the stack, bottom to top.
func (d *TestDriver) ViewStackIDs() []ViewID {
	m := d.appModel()
	ids := make([]ViewID, len(m.viewStack))
	for i, v := range m.viewStack {
		ids[i] = v.ID()
	}
	return ids
}

// State returns the shared state for inspection.
func (d *TestDriver) State() *SharedState {
	return d.appModel().state
}

// IsQuitting returns whether the app has signaled a quit.
func (d *TestDriver) IsQuitting() bool {
	return d.appModel().quitting || d.Quitting
}

// LastOutput returns the text currently shown in the output panel.
func (d *TestDriver) LastOutput() string {
	return d.appModel().lastOutput
}

// Editor returns the active preset editor, failing the test if another
// view is on top.
func (d *TestDriver) Editor() *presetEditorView {
	d.T.Helper()
	m := d.appModel()
	v, ok := m.activeView().(*presetEditorView)
	require.True(d.T, ok, "active view is %v, not the preset editor", d.ActiveViewID())
	return v
}

// rowY returns the screen line of the k-th rule row when every row above
// it takes a single line.
func rowY(k int) int {
	return headerLines + 3 + k
}
