package cli

import tea "github.com/charmbracelet/bubbletea"

// Navigation messages used by views to request view transitions.
// The appModel handles these in its Update method.

// pushViewMsg pushes a new view onto the navigation stack.
type pushViewMsg struct {
	view View
}

// popViewMsg pops the current view off the navigation stack,
// returning to the previous view.
type popViewMsg struct{}

// refreshViewMsg asks every view on the stack to reload its data.
type refreshViewMsg struct{}

// cmdOutputMsg carries text shown in the output panel until the next key.
// Save failures use it as a blocking alert.
type cmdOutputMsg struct {
	output string
}

// wizardCompleteMsg is sent when a wizard form completes or is cancelled.
// The appModel handles it atomically: pop the wizard view, then run nextCmd.
type wizardCompleteMsg struct {
	nextCmd tea.Cmd
}

// pushView returns a tea.Cmd that pushes a view onto the stack.
func pushView(v View) tea.Cmd {
	return func() tea.Msg { return pushViewMsg{view: v} }
}

// popView returns a tea.Cmd that pops the current view.
func popView() tea.Cmd {
	return func() tea.Msg { return popViewMsg{} }
}

func refreshView() tea.Cmd {
	return func() tea.Msg { return refreshViewMsg{} }
}

// showOutput returns a tea.Cmd that displays output in the output panel.
func showOutput(output string) tea.Cmd {
	return func() tea.Msg { return cmdOutputMsg{output: output} }
}

// wizardCompleteOutput closes the wizard and shows output.
func wizardCompleteOutput(output string) wizardCompleteMsg {
	return wizardCompleteMsg{nextCmd: showOutput(output)}
}
