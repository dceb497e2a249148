package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/snowoball/statusrota/internal/cli/formatter"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/service"
)

type statusesLoadedMsg struct {
	statuses []domain.Status
	err      error
}

// statusesSavedMsg carries the stored catalog after an add, edit or delete.
type statusesSavedMsg struct {
	statuses []domain.Status
	err      error
}

// statusFormSubmittedMsg is sent when the status form completes.
type statusFormSubmittedMsg struct {
	editing int
	draft   service.StatusDraft
}

type statusDeleteConfirmedMsg struct {
	index int
}

// statusListView lists the status catalog.
type statusListView struct {
	state    *SharedState
	statuses []domain.Status
	cursor   int
	loading  bool
	err      error
}

func newStatusListView(state *SharedState) *statusListView {
	return &statusListView{
		state:   state,
		loading: true,
	}
}

func (v *statusListView) ID() ViewID    { return ViewStatusList }
func (v *statusListView) Title() string { return "Statuses" }

func (v *statusListView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
		key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	}
}

func (v *statusListView) Init() tea.Cmd {
	return v.load()
}

func (v *statusListView) load() tea.Cmd {
	svc := v.state.App.Statuses
	return func() tea.Msg {
		statuses, err := svc.List(context.Background())
		return statusesLoadedMsg{statuses: statuses, err: err}
	}
}

func (v *statusListView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case statusesLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.statuses = msg.statuses
			v.clampCursor()
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case statusFormSubmittedMsg:
		statuses := v.statuses
		return v, v.save(func(ctx context.Context, svc service.StatusService) ([]domain.Status, error) {
			return svc.Submit(ctx, statuses, msg.editing, msg.draft)
		})

	case statusDeleteConfirmedMsg:
		statuses := v.statuses
		return v, v.save(func(ctx context.Context, svc service.StatusService) ([]domain.Status, error) {
			return svc.Delete(ctx, statuses, msg.index)
		})

	case statusesSavedMsg:
		if msg.err != nil {
			return v, showOutput(formatter.StyleRed.Render("Save failed: " + msg.err.Error()))
		}
		v.statuses = msg.statuses
		v.clampCursor()
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *statusListView) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.cursor > 0 {
			v.cursor--
		}
	case "down", "j":
		if v.cursor < len(v.statuses)-1 {
			v.cursor++
		}
	case "n":
		return v, v.openForm(-1, service.StatusDraft{})
	case "enter", "e":
		if v.cursor < len(v.statuses) {
			return v, v.openForm(v.cursor, service.DraftFromStatus(v.statuses[v.cursor]))
		}
	case "d":
		if v.cursor < len(v.statuses) {
			return v, v.confirmDelete(v.cursor)
		}
	}
	return v, nil
}

func (v *statusListView) openForm(editing int, initial service.StatusDraft) tea.Cmd {
	draft := &initial
	title := "New Status"
	if editing >= 0 {
		title = "Edit Status " + string(v.statuses[editing].ID)
	}
	return startWizard(v.state, title, statusForm(draft), func() tea.Cmd {
		return func() tea.Msg { return statusFormSubmittedMsg{editing: editing, draft: *draft} }
	})
}

func (v *statusListView) confirmDelete(index int) tea.Cmd {
	s := v.statuses[index]
	confirmed := new(bool)
	form := confirmForm(fmt.Sprintf("Delete status %s %q?", s.ID, s.Label()), confirmed)
	return startWizard(v.state, "Delete Status", form, func() tea.Cmd {
		if !*confirmed {
			return nil
		}
		return func() tea.Msg { return statusDeleteConfirmedMsg{index: index} }
	})
}

func (v *statusListView) save(op func(context.Context, service.StatusService) ([]domain.Status, error)) tea.Cmd {
	svc := v.state.App.Statuses
	return func() tea.Msg {
		stored, err := op(context.Background(), svc)
		return statusesSavedMsg{statuses: stored, err: err}
	}
}

func (v *statusListView) clampCursor() {
	if n := len(v.statuses); v.cursor >= n {
		v.cursor = max(n-1, 0)
	}
}

func (v *statusListView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading statuses...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}

	var b strings.Builder
	b.WriteString("\n")

	if len(v.statuses) == 0 {
		b.WriteString("  " + formatter.Dim("No statuses yet. Press n to create one.") + "\n")
		return b.String()
	}

	for i, s := range v.statuses {
		cursor := "  "
		style := formatter.StyleFg
		if i == v.cursor {
			cursor = formatter.StyleGreen.Render("▸ ")
			style = formatter.StyleBold
		}
		fmt.Fprintf(&b, "%s%s %s  %s\n",
			cursor,
			formatter.StyleGreen.Render(padRight(string(s.ID), 4)),
			style.Render(padRight(formatter.StatusLabel(s, 40), 40)),
			formatter.StyleYellow.Render(formatter.FormatTags(s.Tags)),
		)
	}
	return b.String()
}

// statusForm edits emoji, text and comma-separated tags. Text may span
// several lines; each line is published as its own step.
func statusForm(draft *service.StatusDraft) *huh.Form {
	return themedForm(huh.NewGroup(
		huh.NewInput().
			Title("Emoji").
			Placeholder("☕").
			Value(&draft.Emoji),
		huh.NewText().
			Title("Text").
			Description("One step per line; {{time_text}} and friends are filled in.").
			Lines(3).
			Value(&draft.Text),
		huh.NewInput().
			Title("Tags").
			Placeholder("morning, focus").
			Value(&draft.Tags),
	))
}
