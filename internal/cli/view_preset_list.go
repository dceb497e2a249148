package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/snowoball/statusrota/internal/cli/formatter"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/service"
)

// workspaceLoadedMsg carries the catalog and presets, loaded in that order.
type workspaceLoadedMsg struct {
	ws  *service.Workspace
	err error
}

// presetDeleteConfirmedMsg is sent once the user confirmed deleting the
// preset at index.
type presetDeleteConfirmedMsg struct {
	index int
}

type presetsDeletedMsg struct {
	presets []domain.Preset
	err     error
}

// presetListView lists presets and launches the editor.
type presetListView struct {
	state   *SharedState
	ws      *service.Workspace
	cursor  int
	loading bool
	err     error
}

func newPresetListView(state *SharedState) *presetListView {
	return &presetListView{
		state:   state,
		loading: true,
	}
}

func (v *presetListView) ID() ViewID    { return ViewPresetList }
func (v *presetListView) Title() string { return "Presets" }

func (v *presetListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy")),
		key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "statuses")),
		key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "settings")),
	}
}

func (v *presetListView) Init() tea.Cmd {
	return v.load()
}

func (v *presetListView) load() tea.Cmd {
	svc := v.state.App.Presets
	return func() tea.Msg {
		ws, err := svc.Load(context.Background())
		return workspaceLoadedMsg{ws: ws, err: err}
	}
}

func (v *presetListView) presets() []domain.Preset {
	if v.ws == nil {
		return nil
	}
	return v.ws.Presets
}

func (v *presetListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case workspaceLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.ws = msg.ws
			v.clampCursor()
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case presetDeleteConfirmedMsg:
		return v, v.deletePreset(msg.index)

	case presetsDeletedMsg:
		if msg.err != nil {
			return v, showOutput(formatter.StyleRed.Render("Delete failed: " + msg.err.Error()))
		}
		if v.ws != nil {
			v.ws.Presets = msg.presets
		}
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *presetListView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	presets := v.presets()

	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(presets)-1 {
			v.cursor++
		}
	case "r":
		v.loading = true
		return v, v.load()
	case "c":
		return v, pushView(newStatusListView(v.state))
	case "s":
		return v, pushView(newSettingsView(v.state))
	}

	// Everything below needs a loaded workspace.
	if v.ws == nil {
		return v, nil
	}

	switch msg.String() {
	case "n":
		return v, pushView(newPresetEditorView(v.state, v.ws, -1))
	case "enter", "e":
		if v.cursor < len(presets) {
			return v, pushView(newPresetEditorView(v.state, v.ws, v.cursor))
		}
	case "d":
		if v.cursor < len(presets) {
			return v, v.confirmDelete(v.cursor)
		}
	case "y":
		if v.cursor < len(presets) {
			return v, v.copyPreset(presets[v.cursor])
		}
	}
	return v, nil
}

func (v *presetListView) confirmDelete(index int) tea.Cmd {
	p := v.presets()[index]
	confirmed := new(bool)
	form := confirmForm(fmt.Sprintf("Delete preset %d %q?", p.ID, p.Name), confirmed)
	return startWizard(v.state, "Delete Preset", form, func() tea.Cmd {
		if !*confirmed {
			return nil
		}
		return func() tea.Msg { return presetDeleteConfirmedMsg{index: index} }
	})
}

func (v *presetListView) deletePreset(index int) tea.Cmd {
	svc := v.state.App.Presets
	presets := v.presets()
	return func() tea.Msg {
		stored, err := svc.Delete(context.Background(), presets, index)
		return presetsDeletedMsg{presets: stored, err: err}
	}
}

func (v *presetListView) copyPreset(p domain.Preset) tea.Cmd {
	copyFn := v.state.App.Clipboard
	return func() tea.Msg {
		body, err := json.MarshalIndent(p, "", "  ")
		if err == nil {
			err = copyFn(string(body))
		}
		if err != nil {
			return cmdOutputMsg{output: formatter.StyleRed.Render("Copy failed: " + err.Error())}
		}
		return cmdOutputMsg{output: formatter.StyleGreen.Render(fmt.Sprintf("Copied preset %d to the clipboard.", p.ID))}
	}
}

func (v *presetListView) clampCursor() {
	if n := len(v.presets()); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *presetListView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading presets...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error()) +
			"\n  " + formatter.Dim("r: retry")
	}

	presets := v.presets()

	var b strings.Builder
	b.WriteString("\n")

	if len(presets) == 0 {
		b.WriteString("  " + formatter.Dim("No presets yet. Press n to create one.") + "\n")
		return b.String()
	}

	for i, p := range presets {
		cursor := "  "
		nameStyle := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			nameStyle = formatter.StyleBold
		}
		name := p.Name
		if name == "" {
			name = "(unnamed)"
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n",
			cursor,
			formatter.StyleGreen.Render(fmt.Sprintf("%-4d", p.ID)),
			nameStyle.Render(padRight(name, 28)),
			formatter.Dim(fmt.Sprintf("%d rules", len(p.Statuses))),
		)
	}

	if v.cursor < len(presets) {
		b.WriteString("\n" + indent(formatter.FormatPreset(presets[v.cursor], v.ws.Catalog), "  "))
	}

	return b.String()
}

// padRight pads s with spaces to width cells, truncating if needed.
func padRight(s string, width int) string {
	s = formatter.Truncate(s, width)
	if w := lipgloss.Width(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// indent prefixes every non-empty line of s.
func indent(s, prefix string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
