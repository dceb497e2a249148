package editor

import (
	"fmt"
	"slices"

	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/sequence"
	"github.com/snowoball/statusrota/internal/tagfilter"
)

// Session is the editing context of one preset. It is created when editing
// starts and dropped on submit or cancel; nothing in it outlives the editor.
type Session struct {
	resolver tagfilter.Resolver
	tree     Tree
	drag     Drag
	opts     []sequence.Option
}

// NewSession renders rules against catalog. Rows get fresh identifiers.
func NewSession(catalog []domain.Status, rules []domain.Rule, opts ...sequence.Option) *Session {
	s := &Session{
		resolver: tagfilter.New(catalog),
		opts:     opts,
	}
	s.tree = Render(sequence.FromRules(rules, opts...).Rows(), s.resolver)
	return s
}

// Tree returns a copy of the current controls.
func (s *Session) Tree() Tree { return s.tree.Clone() }

// Rules extracts the current rule sequence with positional sequence numbers.
func (s *Session) Rules() []domain.Rule {
	return sequence.FromRows(Extract(s.tree), s.opts...).Rules()
}

// Len returns the number of rendered rows.
func (s *Session) Len() int { return len(s.tree.Rows) }

// reconcile runs one structural edit: extract every row from the live
// controls, apply delta to a model rebuilt from them, render the result.
func (s *Session) reconcile(delta func(m *sequence.Model) error) error {
	m := sequence.FromRows(Extract(s.tree), s.opts...)
	if err := delta(m); err != nil {
		return err
	}
	s.tree = Render(m.Rows(), s.resolver)
	return nil
}

func (s *Session) index(m *sequence.Model, id sequence.RowID) (int, error) {
	i := m.Index(id)
	if i < 0 {
		return -1, fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	return i, nil
}

// AddRule appends an empty none rule and returns its row id.
func (s *Session) AddRule() sequence.RowID {
	var id sequence.RowID
	_ = s.reconcile(func(m *sequence.Model) error {
		id = m.Insert(domain.NewRule(domain.RuleNone))
		return nil
	})
	return id
}

func (s *Session) RemoveRule(id sequence.RowID) error {
	return s.reconcile(func(m *sequence.Model) error {
		i, err := s.index(m, id)
		if err != nil {
			return err
		}
		return m.Remove(i)
	})
}

// ChangeType switches a row's rule type. Any actual change starts the row
// over with an empty selection.
func (s *Session) ChangeType(id sequence.RowID, t domain.RuleType) error {
	return s.reconcile(func(m *sequence.Model) error {
		i, err := s.index(m, id)
		if err != nil {
			return err
		}
		return m.SetType(i, t)
	})
}

// CycleType moves the row's type selector by delta and applies the result.
func (s *Session) CycleType(id sequence.RowID, delta int) error {
	rc, _, ok := s.tree.Row(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	sel := rc.Type.clone()
	sel.Cycle(delta)
	t, err := domain.ParseRuleType(sel.Value())
	if err != nil {
		return err
	}
	return s.ChangeType(id, t)
}

func (s *Session) ChangeTagFilter(id sequence.RowID, tag string) error {
	return s.reconcile(func(m *sequence.Model) error {
		i, err := s.index(m, id)
		if err != nil {
			return err
		}
		return m.SetTagFilter(i, tag)
	})
}

// CycleTagFilter moves the row's tag filter selector by delta and applies
// the result.
func (s *Session) CycleTagFilter(id sequence.RowID, delta int) error {
	rc, _, ok := s.tree.Row(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	sel := rc.TagFilter.clone()
	sel.Cycle(delta)
	return s.ChangeTagFilter(id, sel.Value())
}

// AddCandidate adds the status currently shown in the row's add selector.
// The placeholder adds nothing.
func (s *Session) AddCandidate(id sequence.RowID) error {
	rc, _, ok := s.tree.Row(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	status := domain.StatusID(rc.Add.Value())
	if status == "" {
		return nil
	}
	return s.reconcile(func(m *sequence.Model) error {
		i, err := s.index(m, id)
		if err != nil {
			return err
		}
		return m.AddRandomCandidate(i, status)
	})
}

func (s *Session) RemoveCandidate(id sequence.RowID, status domain.StatusID) error {
	return s.reconcile(func(m *sequence.Model) error {
		i, err := s.index(m, id)
		if err != nil {
			return err
		}
		return m.RemoveRandomCandidate(i, status)
	})
}

// CycleStatic moves a static row's selection by delta. The change lives only
// in the controls until the next structural edit extracts it.
func (s *Session) CycleStatic(id sequence.RowID, delta int) error {
	return s.editControls(id, func(rc *RowControls) {
		rc.Static.Cycle(delta)
	})
}

// CycleAdd moves a random row's add selector by delta.
func (s *Session) CycleAdd(id sequence.RowID, delta int) error {
	return s.editControls(id, func(rc *RowControls) {
		rc.Add.Cycle(delta)
	})
}

func (s *Session) editControls(id sequence.RowID, edit func(*RowControls)) error {
	_, i, ok := s.tree.Row(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRow, id)
	}
	edit(&s.tree.Rows[i])
	return nil
}

// StartDrag picks up a row. Unknown rows are ignored.
func (s *Session) StartDrag(id sequence.RowID) {
	if _, _, ok := s.tree.Row(id); ok {
		s.drag.Start(id)
	}
}

func (s *Session) DragOver(id sequence.RowID) { s.drag.Over(id) }

func (s *Session) DragLeave(id sequence.RowID) { s.drag.Leave(id) }

// EndDrag abandons the drag; the sequence is unchanged.
func (s *Session) EndDrag() { s.drag.End() }

// Drag returns the drag engine state.
func (s *Session) Drag() Drag { return s.drag }

// Drop finishes a drag onto target and moves the source row into target's
// position. It reports whether the sequence changed.
func (s *Session) Drop(target sequence.RowID) (bool, error) {
	source, ok := s.drag.Drop(target)
	if !ok {
		return false, nil
	}
	err := s.reconcile(func(m *sequence.Model) error {
		from, err := s.index(m, source)
		if err != nil {
			return err
		}
		to, err := s.index(m, target)
		if err != nil {
			return err
		}
		return m.Reorder(from, to)
	})
	return err == nil, err
}

// RowIDs lists the rendered row ids in order.
func (s *Session) RowIDs() []sequence.RowID {
	ids := make([]sequence.RowID, 0, len(s.tree.Rows))
	for _, r := range s.tree.Rows {
		ids = append(ids, r.ID)
	}
	return slices.Clip(ids)
}
