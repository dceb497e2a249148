package cli

import (
	"testing"

	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func workPreset() domain.Preset {
	return testutil.NewTestPreset(1, "Work", testutil.WithRules(
		testutil.StaticRule("1"),
		testutil.StaticRule("2"),
		testutil.StaticRule("3"),
	))
}

func staticIDs(t *testing.T, p domain.Preset) []domain.StatusID {
	t.Helper()
	ids := make([]domain.StatusID, len(p.Statuses))
	for i, r := range p.Statuses {
		sel, ok := r.Selection.(domain.Static)
		require.True(t, ok, "rule %d is %s", i, r.Type())
		ids[i] = sel.ID
		assert.Equal(t, i, r.Sequence)
	}
	return ids
}

// =============================================================================
// Preset list
// =============================================================================

func TestTUI_PresetList_ShowsPresetsAndPreview(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset(), testutil.NewTestPreset(2, "Evenings"))

	d := NewTestDriver(t, env.App)

	assert.Equal(t, ViewPresetList, d.ActiveViewID())
	view := d.View()
	assert.Contains(t, view, "Work")
	assert.Contains(t, view, "Evenings")
	assert.Contains(t, view, "3 rules")
	assert.Contains(t, view, "🌅 A")
}

func TestTUI_PresetList_Empty(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	d := NewTestDriver(t, env.App)

	assert.Contains(t, d.View(), "No presets yet")
}

func TestTUI_PresetList_CursorNavigation(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset(), testutil.NewTestPreset(2, "Evenings"))

	d := NewTestDriver(t, env.App)

	d.PressKey('j')
	d.PressKey('j') // clamps at the last preset
	d.PressEnter()
	assert.Equal(t, "Preset 2", d.ActiveViewTitle())

	d.PressEsc()
	d.PressKey('k')
	d.PressEnter()
	assert.Equal(t, "Preset 1", d.ActiveViewTitle())
}

func TestTUI_PresetList_CopyToClipboard(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressKey('y')

	assert.Contains(t, d.LastOutput(), "Copied preset 1")
	assert.Contains(t, env.Clipboard.Last(), `"name": "Work"`)
	assert.Contains(t, env.Clipboard.Last(), `"type": "static"`)
}

func TestTUI_PresetList_DeleteCancelKeepsPreset(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressKey('d')
	assert.Equal(t, ViewForm, d.ActiveViewID())
	assert.Contains(t, d.View(), "Delete preset 1")

	d.PressEsc()
	assert.Equal(t, ViewPresetList, d.ActiveViewID())
	assert.Contains(t, d.LastOutput(), "Cancelled.")
	assert.Len(t, env.storedPresets(t), 1)
}

func TestTUI_PresetList_DeleteConfirmedWritesImmediately(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset(), testutil.NewTestPreset(2, "Evenings"))

	d := NewTestDriver(t, env.App)
	d.Send(presetDeleteConfirmedMsg{index: 0})

	stored := env.storedPresets(t)
	require.Len(t, stored, 1)
	assert.Equal(t, 2, stored[0].ID)
	assert.NotContains(t, d.View(), "Work")
}

func TestTUI_PresetList_QuitAndHelp(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	d := NewTestDriver(t, env.App)
	d.PressKey('?')
	assert.Equal(t, ViewHelp, d.ActiveViewID())
	assert.Equal(t, "Help", d.ActiveViewTitle())

	d.PressEsc()
	assert.Equal(t, ViewPresetList, d.ActiveViewID())

	d.PressKey('q')
	assert.True(t, d.IsQuitting())
}

// =============================================================================
// Preset editor
// =============================================================================

func TestTUI_Editor_CreatePreset(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	d := NewTestDriver(t, env.App)
	d.PressKey('n')
	require.Equal(t, ViewPresetEditor, d.ActiveViewID())
	assert.Equal(t, "New Preset", d.ActiveViewTitle())
	assert.Contains(t, d.View(), "No rules. Press a to add one.")

	d.Type("Evenings")
	d.PressTab() // leave the name field
	d.PressKey('a')
	d.PressRight() // none → random

	d.PressTab() // tag
	d.PressTab() // add selector
	d.PressRight()
	d.PressEnter() // add A
	assert.Contains(t, d.View(), "⟨🌅 A ✕⟩")

	d.PressCtrlS()

	assert.Equal(t, ViewPresetList, d.ActiveViewID())
	stored := env.storedPresets(t)
	require.Len(t, stored, 1)
	assert.Equal(t, 1, stored[0].ID)
	assert.Equal(t, "Evenings", stored[0].Name)
	require.Len(t, stored[0].Statuses, 1)
	assert.Equal(t, domain.Random{IDs: []domain.StatusID{"1"}}, stored[0].Statuses[0].Selection)
	assert.Contains(t, d.View(), "Evenings")
}

func TestTUI_Editor_QIsNotQuitInEditor(t *testing.T) {
	env := testApp(t)
	env.seed(t)

	d := NewTestDriver(t, env.App)
	d.PressKey('n')
	d.Type("quiet")

	assert.False(t, d.IsQuitting())
	assert.Equal(t, "quiet", d.Editor().name.Value())
}

func TestTUI_Editor_RemoveRuleAndSave(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()
	require.Equal(t, ViewPresetEditor, d.ActiveViewID())

	d.PressDown()
	d.PressKey('x')
	assert.Equal(t, 2, d.Editor().session.Len())

	d.PressCtrlS()

	stored := env.storedPresets(t)
	require.Len(t, stored, 1)
	assert.Equal(t, "Work", stored[0].Name)
	assert.Equal(t, []domain.StatusID{"1", "3"}, staticIDs(t, stored[0]))
}

func TestTUI_Editor_EscDiscards(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()
	d.PressKey('x')
	d.PressEsc()

	assert.Equal(t, ViewPresetList, d.ActiveViewID())
	assert.Len(t, env.storedPresets(t)[0].Statuses, 3)
}

func TestTUI_Editor_StaticChoiceSurvivesStructuralEdit(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()

	// Row 1: move the static selector from B to C.
	d.PressDown()
	d.PressTab()
	d.PressTab()
	d.PressRight()

	// A structural edit elsewhere keeps the unsaved choice.
	d.PressKey('a')
	d.PressCtrlS()

	stored := env.storedPresets(t)
	require.Len(t, stored[0].Statuses, 4)
	assert.Equal(t, domain.Static{ID: "3"}, stored[0].Statuses[1].Selection)
	assert.Equal(t, domain.RuleNone, stored[0].Statuses[3].Type())
}

func TestTUI_Editor_StaleReferencesAreMarked(t *testing.T) {
	env := testApp(t)
	env.seed(t, testutil.NewTestPreset(1, "Old", testutil.WithRules(
		testutil.StaticRule("9"),
		testutil.RandomRule("gone", "2", "8"),
	)))

	d := NewTestDriver(t, env.App)
	d.PressEnter()

	view := d.View()
	assert.Contains(t, view, "9 (missing)")
	assert.Contains(t, view, "gone (missing)")
	assert.Contains(t, view, "8 (missing)")

	d.PressCtrlS()
	stored := env.storedPresets(t)
	assert.Equal(t, domain.Static{ID: "9"}, stored[0].Statuses[0].Selection)
	assert.Equal(t, "gone", stored[0].Statuses[1].TagFilter)
	assert.Equal(t, domain.Random{IDs: []domain.StatusID{"2", "8"}}, stored[0].Statuses[1].Selection)
}

func TestTUI_Editor_KeyboardDrag(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()

	d.PressKey('m')
	assert.True(t, d.Editor().session.Drag().Active())
	d.PressDown()
	d.PressDown()
	d.PressEnter()
	assert.False(t, d.Editor().session.Drag().Active())

	d.PressCtrlS()
	assert.Equal(t, []domain.StatusID{"2", "3", "1"}, staticIDs(t, env.storedPresets(t)[0]))
}

func TestTUI_Editor_KeyboardDragAbort(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()

	d.PressKey('m')
	d.PressDown()
	d.PressEsc() // ends the drag, stays in the editor
	assert.Equal(t, ViewPresetEditor, d.ActiveViewID())
	assert.False(t, d.Editor().session.Drag().Active())

	d.PressCtrlS()
	assert.Equal(t, []domain.StatusID{"1", "2", "3"}, staticIDs(t, env.storedPresets(t)[0]))
}

func TestTUI_Editor_MouseDrag(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()

	d.Drag(10, rowY(2), rowY(0))
	assert.False(t, d.Editor().session.Drag().Active())

	d.PressCtrlS()
	assert.Equal(t, []domain.StatusID{"3", "1", "2"}, staticIDs(t, env.storedPresets(t)[0]))
}

func TestTUI_Editor_MouseReleaseOutsideRowsAborts(t *testing.T) {
	env := testApp(t)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()

	d.MousePress(10, rowY(0))
	d.MouseMotion(10, rowY(1))
	assert.Equal(t, d.Editor().session.RowIDs()[1], d.Editor().session.Drag().Hovered())
	d.MouseMotion(10, rowY(8))
	assert.Empty(t, d.Editor().session.Drag().Hovered())
	d.MouseRelease(10, rowY(8))
	assert.False(t, d.Editor().session.Drag().Active())

	d.PressCtrlS()
	assert.Equal(t, []domain.StatusID{"1", "2", "3"}, staticIDs(t, env.storedPresets(t)[0]))
}

func TestTUI_Editor_SaveFailureKeepsEdits(t *testing.T) {
	failing := testutil.NewFailingStore(testutil.NewTestStore(t))
	env := testAppOver(failing)
	env.seed(t, workPreset())

	d := NewTestDriver(t, env.App)
	d.PressEnter()
	d.PressKey('x')

	failing.FailWrites.Store(true)
	d.PressCtrlS()

	assert.Equal(t, ViewPresetEditor, d.ActiveViewID())
	assert.Contains(t, d.LastOutput(), "Save failed")
	assert.Contains(t, d.LastOutput(), testutil.ErrInjected.Error())
	assert.Contains(t, d.LastOutput(), "Your edits are still open.")

	// Dismiss the alert; the edit is still there and a retry succeeds.
	d.PressKey(' ')
	assert.Empty(t, d.LastOutput())
	assert.Equal(t, 2, d.Editor().session.Len())

	failing.FailWrites.Store(false)
	d.PressCtrlS()
	assert.Equal(t, ViewPresetList, d.ActiveViewID())
	assert.Equal(t, []domain.StatusID{"2", "3"}, staticIDs(t, env.storedPresets(t)[0]))
}
