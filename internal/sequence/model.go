// Package sequence holds the ordered rule list of the preset being edited.
//
// Rows carry a stable synthetic identifier assigned when they are created.
// A rule's sequence number is never stored on the row: it is derived from
// the row's position when the list is serialized, so reordering is a pure
// splice.
package sequence

import (
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/snowoball/statusrota/internal/domain"
)

var (
	// ErrRowOutOfRange indicates an index outside the current sequence.
	ErrRowOutOfRange = errors.New("rule index out of range")

	// ErrTypeMismatch indicates a candidate operation on a rule whose type
	// does not carry that kind of candidate.
	ErrTypeMismatch = errors.New("operation does not apply to rule type")
)

// RowID identifies a row independently of its position.
type RowID string

// Row is one rule together with its stable identifier.
type Row struct {
	ID   RowID
	Rule domain.Rule
}

// Clone returns a deep copy of the row.
func (r Row) Clone() Row {
	return Row{ID: r.ID, Rule: r.Rule.Clone()}
}

// Model is the ordered rule collection of one editing session.
type Model struct {
	rows  []Row
	newID func() RowID
}

// Option configures a Model.
type Option func(*Model)

// WithIDSource overrides the row identifier generator.
func WithIDSource(fn func() RowID) Option {
	return func(m *Model) {
		m.newID = fn
	}
}

// New creates an empty model.
func New(opts ...Option) *Model {
	m := &Model{
		newID: func() RowID { return RowID(uuid.NewString()) },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// FromRules hydrates a model from stored rules, assigning fresh row ids.
func FromRules(rules []domain.Rule, opts ...Option) *Model {
	m := New(opts...)
	for _, r := range rules {
		m.Insert(r)
	}
	return m
}

// FromRows rebuilds a model from rows that already carry identifiers, such
// as rows extracted from rendered controls.
func FromRows(rows []Row, opts ...Option) *Model {
	m := New(opts...)
	m.rows = make([]Row, 0, len(rows))
	for _, r := range rows {
		if r.ID == "" {
			r.ID = m.newID()
		}
		m.rows = append(m.rows, r.Clone())
	}
	return m
}

// Len returns the number of rules.
func (m *Model) Len() int { return len(m.rows) }

// Rows returns a deep copy of the rows in order.
func (m *Model) Rows() []Row {
	out := make([]Row, len(m.rows))
	for i, r := range m.rows {
		out[i] = r.Clone()
	}
	return out
}

// Rules serializes the sequence, numbering each rule by its position.
func (m *Model) Rules() []domain.Rule {
	out := make([]domain.Rule, len(m.rows))
	for i, r := range m.rows {
		rule := r.Rule.Clone()
		rule.Sequence = i
		if rule.Selection == nil {
			rule.Selection = domain.None{}
		}
		out[i] = rule
	}
	return out
}

// Index returns the position of the row with id, or -1.
func (m *Model) Index(id RowID) int {
	return slices.IndexFunc(m.rows, func(r Row) bool { return r.ID == id })
}

// Rule returns the rule at index i.
func (m *Model) Rule(i int) (domain.Rule, error) {
	if err := m.check(i); err != nil {
		return domain.Rule{}, err
	}
	return m.rows[i].Rule.Clone(), nil
}

// Insert appends rule and returns the new row's identifier.
func (m *Model) Insert(rule domain.Rule) RowID {
	rule = rule.Clone()
	if rule.Selection == nil {
		rule.Selection = domain.None{}
	}
	id := m.newID()
	m.rows = append(m.rows, Row{ID: id, Rule: rule})
	return id
}

// Remove splices out the rule at index i.
func (m *Model) Remove(i int) error {
	if err := m.check(i); err != nil {
		return err
	}
	m.rows = slices.Delete(m.rows, i, i+1)
	return nil
}

// SetType changes the rule type at index i. Any actual change of type
// starts the rule over with the empty selection of the new type, so no value
// carries over from the previous type.
func (m *Model) SetType(i int, t domain.RuleType) error {
	if err := m.check(i); err != nil {
		return err
	}
	if m.rows[i].Rule.Type() == t {
		return nil
	}
	m.rows[i].Rule.Selection = domain.EmptySelection(t)
	return nil
}

// SetTagFilter replaces the tag filter at index i. The selection is left
// untouched.
func (m *Model) SetTagFilter(i int, tag string) error {
	if err := m.check(i); err != nil {
		return err
	}
	m.rows[i].Rule.TagFilter = tag
	return nil
}

// AddRandomCandidate appends id to a random rule's candidates. Adding an id
// that is already present is a no-op.
func (m *Model) AddRandomCandidate(i int, id domain.StatusID) error {
	sel, err := m.random(i)
	if err != nil {
		return err
	}
	m.rows[i].Rule.Selection = sel.With(id)
	return nil
}

// RemoveRandomCandidate removes id from a random rule's candidates.
func (m *Model) RemoveRandomCandidate(i int, id domain.StatusID) error {
	sel, err := m.random(i)
	if err != nil {
		return err
	}
	m.rows[i].Rule.Selection = sel.Without(id)
	return nil
}

// SetStaticCandidate replaces the status of a static rule. An empty id
// clears it.
func (m *Model) SetStaticCandidate(i int, id domain.StatusID) error {
	if err := m.check(i); err != nil {
		return err
	}
	if m.rows[i].Rule.Type() != domain.RuleStatic {
		return fmt.Errorf("%w: static candidate on %s rule", ErrTypeMismatch, m.rows[i].Rule.Type())
	}
	m.rows[i].Rule.Selection = domain.Static{ID: id}
	return nil
}

// Reorder moves the rule at from so that it ends up at index to, shifting
// the rules in between. The moved row keeps its identifier and fields.
func (m *Model) Reorder(from, to int) error {
	if err := m.check(from); err != nil {
		return err
	}
	if err := m.check(to); err != nil {
		return err
	}
	if from == to {
		return nil
	}
	moved := m.rows[from]
	m.rows = slices.Delete(m.rows, from, from+1)
	m.rows = slices.Insert(m.rows, to, moved)
	return nil
}

func (m *Model) random(i int) (domain.Random, error) {
	if err := m.check(i); err != nil {
		return domain.Random{}, err
	}
	sel, ok := m.rows[i].Rule.Selection.(domain.Random)
	if !ok {
		return domain.Random{}, fmt.Errorf("%w: random candidate on %s rule", ErrTypeMismatch, m.rows[i].Rule.Type())
	}
	return sel, nil
}

func (m *Model) check(i int) error {
	if i < 0 || i >= len(m.rows) {
		return fmt.Errorf("%w: %d (len %d)", ErrRowOutOfRange, i, len(m.rows))
	}
	return nil
}
