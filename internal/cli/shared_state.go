package cli

// SharedState holds context shared across all views via pointer.
type SharedState struct {
	App *App

	// Terminal dimensions
	Width  int
	Height int
}

// headerLines is the height of the title and separator drawn above the
// active view. Mouse rows are reported to views relative to it.
const headerLines = 2

// ContentHeight returns the available height for view content,
// accounting for header (2 lines: title + separator) and
// status bar (2 lines: separator + hints).
func (s *SharedState) ContentHeight() int {
	h := s.Height - headerLines - 2
	if h < 1 {
		return 1
	}
	return h
}
