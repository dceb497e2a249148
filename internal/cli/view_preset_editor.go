package cli

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/snowoball/statusrota/internal/cli/formatter"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/editor"
	"github.com/snowoball/statusrota/internal/sequence"
	"github.com/snowoball/statusrota/internal/service"
)

// presetsSavedMsg carries the reloaded collection after a submit.
type presetsSavedMsg struct {
	presets []domain.Preset
	err     error
}

// editorField is the control of a row that has keyboard focus.
type editorField int

const (
	fieldType editorField = iota
	fieldTag
	fieldValue // static selector or random add selector
	fieldChips
)

const labelWidth = 24

// rowSpan records which body lines a rule row occupies.
type rowSpan struct {
	id         sequence.RowID
	start, end int // end exclusive
}

// presetEditorView edits one preset through an editor.Session. The session
// lives exactly as long as the view.
type presetEditorView struct {
	state   *SharedState
	ws      *service.Workspace
	editing int // index into ws.Presets, or -1 for a new preset

	session *editor.Session
	name    textinput.Model

	nameFocused bool
	row         int
	field       editorField
	chip        int
	saving      bool
}

func newPresetEditorView(state *SharedState, ws *service.Workspace, editing int) *presetEditorView {
	var (
		name  string
		rules []domain.Rule
	)
	if editing >= 0 && editing < len(ws.Presets) {
		name = ws.Presets[editing].Name
		rules = ws.Presets[editing].Statuses
	} else {
		editing = -1
	}

	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "Preset name"
	ti.CharLimit = 80
	ti.SetValue(name)

	v := &presetEditorView{
		state:   state,
		ws:      ws,
		editing: editing,
		session: editor.NewSession(ws.Catalog, rules),
		name:    ti,
	}
	if v.session.Len() == 0 {
		v.focusName()
	}
	return v
}

func (v *presetEditorView) ID() ViewID { return ViewPresetEditor }

func (v *presetEditorView) Title() string {
	if v.editing < 0 {
		return "New Preset"
	}
	return fmt.Sprintf("Preset %d", v.ws.Presets[v.editing].ID)
}

func (v *presetEditorView) ShortHelp() []key.Binding {
	if v.session.Drag().Active() {
		return []key.Binding{
			key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "target")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
			key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "abort")),
		}
	}
	return []key.Binding{
		key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "field")),
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←→", "change")),
		key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add rule")),
		key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "remove rule")),
		key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
		key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "discard")),
	}
}

func (v *presetEditorView) Init() tea.Cmd { return nil }

func (v *presetEditorView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case presetsSavedMsg:
		v.saving = false
		if msg.err != nil {
			return v, showOutput(formatter.StyleRed.Render("Save failed: "+msg.err.Error()) +
				"\n" + formatter.Dim("Your edits are still open."))
		}
		return v, tea.Sequence(popView(), refreshView())

	case tea.MouseMsg:
		return v, v.handleMouse(msg)

	case tea.KeyMsg:
		return v, v.handleKey(msg)
	}
	return v, nil
}

// ── keyboard ─────────────────────────────────────────────────────────────────

func (v *presetEditorView) handleKey(msg tea.KeyMsg) tea.Cmd {
	if v.session.Drag().Active() {
		return v.handleDragKey(msg)
	}

	switch msg.String() {
	case "ctrl+s":
		return v.submit()
	case "esc":
		return popView()
	}

	if v.nameFocused {
		switch msg.String() {
		case "down", "tab", "enter":
			v.focusRow(0)
			return nil
		}
		var cmd tea.Cmd
		v.name, cmd = v.name.Update(msg)
		return cmd
	}

	id, ok := v.focusedID()

	switch msg.String() {
	case "up", "k":
		if v.row == 0 {
			v.focusName()
		} else {
			v.focusRow(v.row - 1)
		}
	case "down", "j":
		if v.row < v.session.Len()-1 {
			v.focusRow(v.row + 1)
		}
	case "tab":
		v.moveField(1)
	case "shift+tab":
		v.moveField(-1)
	case "left", "h":
		return v.changeField(id, -1)
	case "right", "l":
		return v.changeField(id, 1)
	case "enter":
		return v.activateField(id)
	case "a":
		added := v.session.AddRule()
		v.focusRow(slices.Index(v.session.RowIDs(), added))
		v.field = fieldType
	case "x":
		if ok {
			return v.apply(v.session.RemoveRule(id))
		}
	case "m":
		if ok {
			v.session.StartDrag(id)
			v.session.DragOver(id)
		}
	}
	return nil
}

func (v *presetEditorView) handleDragKey(msg tea.KeyMsg) tea.Cmd {
	ids := v.session.RowIDs()
	drag := v.session.Drag()
	hovered := slices.Index(ids, drag.Hovered())

	switch msg.String() {
	case "up", "k", "down", "j":
		next := hovered + 1
		if s := msg.String(); s == "up" || s == "k" {
			next = hovered - 1
		}
		if hovered < 0 {
			next = slices.Index(ids, drag.Source())
		}
		if next < 0 || next >= len(ids) {
			return nil
		}
		if hovered >= 0 {
			v.session.DragLeave(ids[hovered])
		}
		v.session.DragOver(ids[next])
	case "enter":
		return v.drop(drag.Source(), drag.Hovered())
	case "esc":
		v.session.EndDrag()
	}
	return nil
}

// moveField steps focus across the focused row's visible controls.
func (v *presetEditorView) moveField(delta int) {
	fields := v.fields()
	if len(fields) == 0 {
		return
	}
	i := slices.Index(fields, v.field)
	i = ((i+delta)%len(fields) + len(fields)) % len(fields)
	v.field = fields[i]
	v.chip = 0
}

func (v *presetEditorView) changeField(id sequence.RowID, delta int) tea.Cmd {
	rc, ok := v.focusedRow()
	if !ok {
		return nil
	}
	switch v.field {
	case fieldType:
		return v.apply(v.session.CycleType(id, delta))
	case fieldTag:
		return v.apply(v.session.CycleTagFilter(id, delta))
	case fieldValue:
		if rc.RuleType() == domain.RuleStatic {
			return v.apply(v.session.CycleStatic(id, delta))
		}
		return v.apply(v.session.CycleAdd(id, delta))
	case fieldChips:
		v.chip = min(max(v.chip+delta, 0), len(rc.Chips)-1)
	}
	return nil
}

func (v *presetEditorView) activateField(id sequence.RowID) tea.Cmd {
	rc, ok := v.focusedRow()
	if !ok {
		return nil
	}
	switch {
	case v.field == fieldValue && rc.RuleType() == domain.RuleRandom:
		return v.apply(v.session.AddCandidate(id))
	case v.field == fieldChips && v.chip < len(rc.Chips):
		return v.apply(v.session.RemoveCandidate(id, rc.Chips[v.chip].ID))
	case v.field == fieldType || v.field == fieldTag:
		v.moveField(1)
	}
	return nil
}

// ── mouse ────────────────────────────────────────────────────────────────────

// handleMouse routes pointer events to the drag engine: press picks a row
// up, motion moves the hover between rows, release drops on the row under
// the pointer or abandons the drag outside every row.
func (v *presetEditorView) handleMouse(msg tea.MouseMsg) tea.Cmd {
	_, spans := v.body()
	target := rowAtLine(spans, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || target == "" {
			return nil
		}
		v.focusRow(slices.Index(v.session.RowIDs(), target))
		v.session.StartDrag(target)
		v.session.DragOver(target)

	case tea.MouseActionMotion:
		drag := v.session.Drag()
		if !drag.Active() || target == drag.Hovered() {
			return nil
		}
		if drag.Hovered() != "" {
			v.session.DragLeave(drag.Hovered())
		}
		if target != "" {
			v.session.DragOver(target)
		}

	case tea.MouseActionRelease:
		drag := v.session.Drag()
		if !drag.Active() {
			return nil
		}
		if target == "" {
			v.session.EndDrag()
			return nil
		}
		return v.drop(drag.Source(), target)
	}
	return nil
}

func rowAtLine(spans []rowSpan, y int) sequence.RowID {
	for _, s := range spans {
		if y >= s.start && y < s.end {
			return s.id
		}
	}
	return ""
}

func (v *presetEditorView) drop(source, target sequence.RowID) tea.Cmd {
	if _, err := v.session.Drop(target); err != nil {
		return v.apply(err)
	}
	v.focusRow(slices.Index(v.session.RowIDs(), source))
	return nil
}

// ── focus helpers ────────────────────────────────────────────────────────────

func (v *presetEditorView) focusName() {
	v.nameFocused = true
	v.name.Focus()
}

func (v *presetEditorView) focusRow(i int) {
	v.nameFocused = false
	v.name.Blur()
	v.row = max(i, 0)
	v.clampFocus()
}

func (v *presetEditorView) focusedRow() (editor.RowControls, bool) {
	tree := v.session.Tree()
	if v.nameFocused || v.row >= len(tree.Rows) {
		return editor.RowControls{}, false
	}
	return tree.Rows[v.row], true
}

func (v *presetEditorView) focusedID() (sequence.RowID, bool) {
	rc, ok := v.focusedRow()
	return rc.ID, ok
}

// fields lists the controls the focused row shows for its type.
func (v *presetEditorView) fields() []editorField {
	rc, ok := v.focusedRow()
	if !ok {
		return nil
	}
	fields := []editorField{fieldType, fieldTag}
	switch rc.RuleType() {
	case domain.RuleStatic:
		fields = append(fields, fieldValue)
	case domain.RuleRandom:
		fields = append(fields, fieldValue)
		if len(rc.Chips) > 0 {
			fields = append(fields, fieldChips)
		}
	}
	return fields
}

// clampFocus keeps the focus on an existing row and a control that row shows.
func (v *presetEditorView) clampFocus() {
	if n := v.session.Len(); v.row >= n {
		v.row = max(n-1, 0)
	}
	fields := v.fields()
	if !slices.Contains(fields, v.field) {
		v.field = fieldType
		if len(fields) > 0 {
			v.field = fields[len(fields)-1]
		}
	}
	if rc, ok := v.focusedRow(); ok && v.chip >= len(rc.Chips) {
		v.chip = max(len(rc.Chips)-1, 0)
	}
}

// apply reports a failed edit and re-validates focus after a successful one.
func (v *presetEditorView) apply(err error) tea.Cmd {
	v.clampFocus()
	if err != nil {
		return showOutput(formatter.StyleRed.Render("Edit failed: " + err.Error()))
	}
	return nil
}

// ── submit ───────────────────────────────────────────────────────────────────

func (v *presetEditorView) submit() tea.Cmd {
	if v.saving {
		return nil
	}
	v.saving = true

	svc := v.state.App.Presets
	presets := v.ws.Presets
	editing := v.editing
	name := v.name.Value()
	rules := v.session.Rules()

	return func() tea.Msg {
		stored, err := svc.Submit(context.Background(), presets, editing, name, rules)
		return presetsSavedMsg{presets: stored, err: err}
	}
}

// ── rendering ────────────────────────────────────────────────────────────────

// body renders the view line by line and records where each row sits, so
// mouse events can be hit-tested against the same layout.
func (v *presetEditorView) body() ([]string, []rowSpan) {
	lines := []string{""}

	nameLabel := formatter.Dim("Name  ")
	if v.nameFocused {
		nameLabel = formatter.StyleHeader.Render("Name  ")
	}
	lines = append(lines, "  "+nameLabel+v.name.View(), "")

	tree := v.session.Tree()
	if len(tree.Rows) == 0 {
		lines = append(lines, "  "+formatter.Dim("No rules. Press a to add one."))
		return lines, nil
	}

	drag := v.session.Drag()
	spans := make([]rowSpan, 0, len(tree.Rows))
	for i, rc := range tree.Rows {
		start := len(lines)
		lines = append(lines, v.renderRow(i, rc, drag)...)
		spans = append(spans, rowSpan{id: rc.ID, start: start, end: len(lines)})
	}

	if v.saving {
		lines = append(lines, "", "  "+formatter.Dim("Saving..."))
	}
	return lines, spans
}

func (v *presetEditorView) renderRow(i int, rc editor.RowControls, drag editor.Drag) []string {
	focused := !v.nameFocused && i == v.row

	cursor := "  "
	if focused {
		cursor = formatter.StyleGreen.Render("▸ ")
	}

	grip := " "
	switch {
	case drag.Active() && drag.Source() == rc.ID:
		grip = formatter.StyleYellow.Render("≡")
	case drag.Active() && drag.Hovered() == rc.ID:
		grip = formatter.StyleYellow.Render("→")
	}

	ctl := func(f editorField, sel editor.Select) string {
		label := formatter.Truncate(sel.Label(), labelWidth)
		if sel.Selected >= 0 && sel.Options[sel.Selected].Stale {
			label = formatter.StyleRed.Render(label)
		}
		if focused && v.field == f {
			return formatter.StyleFocus.Render("‹ " + label + " ›")
		}
		return "[" + label + "]"
	}

	typeLabel := ctl(fieldType, rc.Type)
	if !(focused && v.field == fieldType) {
		typeLabel = formatter.RuleTypeStyle(rc.RuleType()).Render(typeLabel)
	}

	parts := []string{
		formatter.Dim(fmt.Sprintf("%2d.", i+1)),
		typeLabel,
		formatter.Dim("tag") + " " + ctl(fieldTag, rc.TagFilter),
	}
	switch rc.RuleType() {
	case domain.RuleStatic:
		parts = append(parts, formatter.Dim("status")+" "+ctl(fieldValue, rc.Static))
	case domain.RuleRandom:
		parts = append(parts, formatter.Dim("add")+" "+ctl(fieldValue, rc.Add))
	}

	lines := []string{cursor + grip + " " + strings.Join(parts, "  ")}

	if rc.RuleType() == domain.RuleRandom {
		lines = append(lines, "        "+v.renderChips(rc, focused))
	}
	return lines
}

func (v *presetEditorView) renderChips(rc editor.RowControls, focused bool) string {
	if len(rc.Chips) == 0 {
		return formatter.Dim("no statuses chosen")
	}
	chips := make([]string, len(rc.Chips))
	for j, c := range rc.Chips {
		text := "⟨" + formatter.Truncate(c.Label, labelWidth) + " ✕⟩"
		switch {
		case focused && v.field == fieldChips && v.chip == j:
			chips[j] = formatter.StyleFocus.Render(text)
		case c.Stale:
			chips[j] = formatter.StyleRed.Render(text)
		default:
			chips[j] = formatter.StylePurple.Render(text)
		}
	}
	return strings.Join(chips, " ")
}

func (v *presetEditorView) View() string {
	lines, _ := v.body()
	return strings.Join(lines, "\n")
}
