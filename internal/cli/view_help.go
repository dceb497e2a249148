package cli

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/snowoball/statusrota/internal/cli/formatter"
)

// helpView renders the key reference with glamour in a scrollable viewport.
type helpView struct {
	state *SharedState
	vp    viewport.Model
	width int
}

func newHelpView(state *SharedState) *helpView {
	v := &helpView{state: state, vp: viewport.New(0, 0)}
	v.resize()
	return v
}

func (v *helpView) ID() ViewID    { return ViewHelp }
func (v *helpView) Title() string { return "Help" }

func (v *helpView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("up", "down"), key.WithHelp("↑↓", "scroll")),
	}
}

func (v *helpView) Init() tea.Cmd { return nil }

// resize re-renders the markdown when the terminal width changed.
func (v *helpView) resize() {
	v.vp.Width = v.state.Width
	v.vp.Height = v.state.ContentHeight()
	if v.width == v.state.Width && v.vp.TotalLineCount() > 0 {
		return
	}
	v.width = v.state.Width
	v.vp.SetContent(formatter.RenderMarkdown(formatter.HelpMarkdown, v.state.Width-4))
}

func (v *helpView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if _, ok := msg.(tea.WindowSizeMsg); ok {
		v.resize()
		return v, nil
	}
	var cmd tea.Cmd
	v.vp, cmd = v.vp.Update(msg)
	return v, cmd
}

func (v *helpView) View() string {
	return v.vp.View()
}
