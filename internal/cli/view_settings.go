package cli

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/snowoball/statusrota/internal/cli/formatter"
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/service"
)

type settingsLoadedMsg struct {
	settings domain.Settings
	ok       bool
	presets  []domain.Preset
	err      error
}

type settingsFormSubmittedMsg struct {
	draft service.SettingsDraft
}

type settingsSavedMsg struct {
	settings domain.Settings
	err      error
}

// settingsView shows the settings card and edits it through a form.
type settingsView struct {
	state    *SharedState
	settings domain.Settings
	ok       bool
	presets  []domain.Preset
	loading  bool
	err      error
}

func newSettingsView(state *SharedState) *settingsView {
	return &settingsView{state: state, loading: true}
}

func (v *settingsView) ID() ViewID    { return ViewSettings }
func (v *settingsView) Title() string { return "Settings" }

func (v *settingsView) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter", "edit")),
	}
}

func (v *settingsView) Init() tea.Cmd { return v.load() }

func (v *settingsView) load() tea.Cmd {
	app := v.state.App
	return func() tea.Msg {
		ctx := context.Background()
		settings, ok, err := app.Settings.Get(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		ws, err := app.Presets.Load(ctx)
		if err != nil {
			return settingsLoadedMsg{err: err}
		}
		return settingsLoadedMsg{settings: settings, ok: ok, presets: ws.Presets}
	}
}

func (v *settingsView) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settingsLoadedMsg:
		v.loading = false
		v.err = msg.err
		if msg.err == nil {
			v.settings, v.ok, v.presets = msg.settings, msg.ok, msg.presets
		}
		return v, nil

	case refreshViewMsg:
		return v, v.load()

	case settingsFormSubmittedMsg:
		svc := v.state.App.Settings
		return v, func() tea.Msg {
			saved, err := svc.Save(context.Background(), msg.draft)
			return settingsSavedMsg{settings: saved, err: err}
		}

	case settingsSavedMsg:
		if msg.err != nil {
			return v, showOutput(formatter.StyleRed.Render("Save failed: " + msg.err.Error()))
		}
		v.settings, v.ok = msg.settings, true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "e":
			if v.loading || v.err != nil {
				return v, nil
			}
			return v, v.openForm()
		}
	}
	return v, nil
}

func (v *settingsView) openForm() tea.Cmd {
	draft := service.DraftFromSettings(v.settings)
	form := settingsForm(&draft, v.presets)
	return startWizard(v.state, "Edit Settings", form, func() tea.Cmd {
		return func() tea.Msg { return settingsFormSubmittedMsg{draft: draft} }
	})
}

func (v *settingsView) View() string {
	if v.loading {
		return "\n  " + formatter.Dim("Loading settings...")
	}
	if v.err != nil {
		return "\n  " + formatter.StyleRed.Render("Error: "+v.err.Error())
	}
	return "\n" + formatter.FormatSettings(v.settings, v.ok, v.presets)
}

// settingsForm edits every settings field. The preset is picked from the
// collection when there is one; numbers are free text and anything that is
// not a number is stored as 0.
func settingsForm(draft *service.SettingsDraft, presets []domain.Preset) *huh.Form {
	var preset huh.Field
	if len(presets) > 0 {
		opts := make([]huh.Option[string], 0, len(presets)+1)
		known := false
		for _, p := range presets {
			id := strconv.Itoa(p.ID)
			known = known || id == draft.PresetID
			opts = append(opts, huh.NewOption(id+"  "+p.Name, id))
		}
		if !known {
			opts = append(opts, huh.NewOption(draft.PresetID+"  (missing)", draft.PresetID))
		}
		preset = huh.NewSelect[string]().
			Title("Preset").
			Options(opts...).
			Value(&draft.PresetID)
	} else {
		preset = huh.NewInput().
			Title("Preset ID").
			Value(&draft.PresetID)
	}

	return themedForm(huh.NewGroup(
		huh.NewConfirm().
			Title("Rotation active").
			Affirmative("On").
			Negative("Off").
			Value(&draft.Active),
		preset,
		huh.NewInput().
			Title("Interval (seconds)").
			Placeholder("60").
			Value(&draft.Interval),
		huh.NewInput().
			Title("Latitude").
			Placeholder("50.8503").
			Value(&draft.Latitude),
		huh.NewInput().
			Title("Longitude").
			Placeholder("4.3517").
			Value(&draft.Longitude),
	))
}
