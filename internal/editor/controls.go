// Package editor keeps the rule sequence of a preset and its interactive
// controls in step.
//
// The rendered Tree is the working copy of the sequence between structural
// edits. Every structural handler on Session extracts the whole tree, applies
// exactly one change to a fresh sequence.Model and renders the result, so an
// unsaved control edit in one row survives a change to another.
package editor

import (
	"slices"

	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/sequence"
)

// Option is one entry of a Select. Stale entries stand for stored values the
// current catalog no longer offers; they are shown so nothing is lost.
type Option struct {
	Value string
	Label string
	Stale bool
}

// Select is a single-choice control. Selected indexes Options, or is -1 when
// nothing is selected.
type Select struct {
	Options  []Option
	Selected int
}

func newSelect(options []Option, value string) Select {
	s := Select{Options: options, Selected: -1}
	s.Choose(value)
	return s
}

// Value returns the selected option's value, or "" when nothing is selected.
func (s Select) Value() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected].Value
}

// Label returns the selected option's label.
func (s Select) Label() string {
	if s.Selected < 0 || s.Selected >= len(s.Options) {
		return ""
	}
	return s.Options[s.Selected].Label
}

// Choose selects the option carrying value and reports whether one exists.
func (s *Select) Choose(value string) bool {
	i := slices.IndexFunc(s.Options, func(o Option) bool { return o.Value == value })
	if i < 0 {
		return false
	}
	s.Selected = i
	return true
}

// Cycle moves the selection by delta, wrapping at both ends.
func (s *Select) Cycle(delta int) {
	n := len(s.Options)
	if n == 0 {
		return
	}
	cur := s.Selected
	if cur < 0 {
		cur = 0
		if delta > 0 {
			delta--
		}
	}
	s.Selected = ((cur+delta)%n + n) % n
}

func (s Select) clone() Select {
	return Select{Options: slices.Clone(s.Options), Selected: s.Selected}
}

// Chip is one removable random candidate.
type Chip struct {
	ID    domain.StatusID
	Label string
	Stale bool
}

// RowControls are the live controls of one rule row. Which sub-controls are
// populated depends on the selected type: Static for static rules, Chips and
// Add for random rules, neither for none.
type RowControls struct {
	ID        sequence.RowID
	Type      Select
	TagFilter Select
	Static    Select
	Chips     []Chip
	Add       Select
}

// RuleType returns the type currently shown by the type selector.
func (r RowControls) RuleType() domain.RuleType {
	t, err := domain.ParseRuleType(r.Type.Value())
	if err != nil {
		return domain.RuleNone
	}
	return t
}

func (r RowControls) clone() RowControls {
	return RowControls{
		ID:        r.ID,
		Type:      r.Type.clone(),
		TagFilter: r.TagFilter.clone(),
		Static:    r.Static.clone(),
		Chips:     slices.Clone(r.Chips),
		Add:       r.Add.clone(),
	}
}

// Tree is the rendered form of a whole rule sequence.
type Tree struct {
	Rows []RowControls
}

// Row finds the controls of the row with the given id.
func (t Tree) Row(id sequence.RowID) (RowControls, int, bool) {
	for i, r := range t.Rows {
		if r.ID == id {
			return r, i, true
		}
	}
	return RowControls{}, -1, false
}

// Clone returns a deep copy of the tree.
func (t Tree) Clone() Tree {
	rows := make([]RowControls, len(t.Rows))
	for i, r := range t.Rows {
		rows[i] = r.clone()
	}
	return Tree{Rows: rows}
}
