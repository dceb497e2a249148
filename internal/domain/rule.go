package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

// RuleType determines how a rule picks its status at rotation time.
type RuleType string

const (
	RuleNone   RuleType = "none"
	RuleStatic RuleType = "static"
	RuleRandom RuleType = "random"
)

// RuleTypes lists the rule types in selector order.
var RuleTypes = []RuleType{RuleNone, RuleRandom, RuleStatic}

// ErrUnknownRuleType is returned when decoding a rule with an unrecognized type.
var ErrUnknownRuleType = errors.New("unknown rule type")

// ParseRuleType validates s as a rule type.
func ParseRuleType(s string) (RuleType, error) {
	switch t := RuleType(s); t {
	case RuleNone, RuleStatic, RuleRandom:
		return t, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownRuleType, s)
}

// Selection is the status payload of a rule. Its concrete type fixes the
// rule type, so a static rule can never carry a candidate list.
type Selection interface {
	Type() RuleType
	Clone() Selection
	selection()
}

// None selects no status.
type None struct{}

// Static selects one fixed status. An empty ID means nothing chosen yet.
type Static struct {
	ID StatusID
}

// Random selects uniformly from an ordered, duplicate-free candidate list.
type Random struct {
	IDs []StatusID
}

func (None) Type() RuleType   { return RuleNone }
func (Static) Type() RuleType { return RuleStatic }
func (Random) Type() RuleType { return RuleRandom }

func (n None) Clone() Selection   { return n }
func (s Static) Clone() Selection { return s }
func (r Random) Clone() Selection {
	return Random{IDs: append([]StatusID{}, r.IDs...)}
}

func (None) selection()   {}
func (Static) selection() {}
func (Random) selection() {}

// Contains reports whether id is already a candidate.
func (r Random) Contains(id StatusID) bool {
	return slices.Contains(r.IDs, id)
}

// With returns a copy with id appended, or an unchanged copy if id is present.
func (r Random) With(id StatusID) Random {
	out := r.Clone().(Random)
	if !out.Contains(id) {
		out.IDs = append(out.IDs, id)
	}
	return out
}

// Without returns a copy with every occurrence of id removed.
func (r Random) Without(id StatusID) Random {
	out := Random{IDs: []StatusID{}}
	for _, existing := range r.IDs {
		if existing != id {
			out.IDs = append(out.IDs, existing)
		}
	}
	return out
}

// EmptySelection returns the starting selection for a rule of type t:
// no status, an unset static value, or an empty candidate list.
func EmptySelection(t RuleType) Selection {
	switch t {
	case RuleStatic:
		return Static{}
	case RuleRandom:
		return Random{IDs: []StatusID{}}
	default:
		return None{}
	}
}

// Rule is one entry of a preset's ordered sequence. Sequence mirrors the
// rule's position and is rewritten whenever a sequence is serialized.
type Rule struct {
	Sequence  int
	TagFilter string
	Selection Selection
}

// NewRule returns an empty rule of type t.
func NewRule(t RuleType) Rule {
	return Rule{Selection: EmptySelection(t)}
}

// Type returns the rule type implied by the selection.
func (r Rule) Type() RuleType {
	if r.Selection == nil {
		return RuleNone
	}
	return r.Selection.Type()
}

// Clone returns a deep copy of the rule.
func (r Rule) Clone() Rule {
	out := r
	if r.Selection != nil {
		out.Selection = r.Selection.Clone()
	}
	return out
}

// Candidates returns the status ids the rule may resolve to.
func (r Rule) Candidates() []StatusID {
	switch sel := r.Selection.(type) {
	case Static:
		if sel.ID == "" {
			return nil
		}
		return []StatusID{sel.ID}
	case Random:
		return append([]StatusID{}, sel.IDs...)
	}
	return nil
}

type ruleJSON struct {
	Sequence  int             `json:"sequence"`
	Type      RuleType        `json:"type"`
	TagFilter string          `json:"tagFilter"`
	Status    json.RawMessage `json:"status,omitempty"`
}

func (r Rule) MarshalJSON() ([]byte, error) {
	out := ruleJSON{
		Sequence:  r.Sequence,
		Type:      r.Type(),
		TagFilter: r.TagFilter,
	}

	switch sel := r.Selection.(type) {
	case Static:
		if sel.ID == "" {
			out.Status = json.RawMessage("null")
		} else {
			out.Status = encodeStatusID(sel.ID)
		}
	case Random:
		var buf bytes.Buffer
		buf.WriteByte('[')
		for i, id := range sel.IDs {
			if i > 0 {
				buf.WriteByte(',')
			}
			buf.Write(encodeStatusID(id))
		}
		buf.WriteByte(']')
		out.Status = buf.Bytes()
	}

	return json.Marshal(out)
}

func (r *Rule) UnmarshalJSON(data []byte) error {
	var in ruleJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	if in.Type == "" {
		in.Type = RuleNone
	}
	t, err := ParseRuleType(string(in.Type))
	if err != nil {
		return err
	}

	ids, err := decodeStatusIDs(in.Status)
	if err != nil {
		return fmt.Errorf("decoding status of %s rule: %w", t, err)
	}

	r.Sequence = in.Sequence
	r.TagFilter = in.TagFilter

	// Stored documents written by older editors can hold a scalar under a
	// random rule or a list under a static one; normalize both.
	switch t {
	case RuleStatic:
		sel := Static{}
		if len(ids) > 0 {
			sel.ID = ids[0]
		}
		r.Selection = sel
	case RuleRandom:
		sel := Random{IDs: []StatusID{}}
		for _, id := range ids {
			sel = sel.With(id)
		}
		r.Selection = sel
	default:
		r.Selection = None{}
	}
	return nil
}

// encodeStatusID writes numeric ids as JSON numbers and anything else as a
// JSON string.
func encodeStatusID(id StatusID) []byte {
	if n, err := strconv.Atoi(string(id)); err == nil && strconv.Itoa(n) == string(id) {
		return []byte(string(id))
	}
	b, _ := json.Marshal(string(id))
	return b
}

// decodeStatusIDs accepts null, a number, a string, or a list of numbers
// and strings.
func decodeStatusIDs(raw json.RawMessage) ([]StatusID, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}

	if raw[0] == '[' {
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, err
		}
		ids := make([]StatusID, 0, len(items))
		for _, item := range items {
			id, err := decodeStatusID(item)
			if err != nil {
				return nil, err
			}
			if id != "" {
				ids = append(ids, id)
			}
		}
		return ids, nil
	}

	id, err := decodeStatusID(raw)
	if err != nil || id == "" {
		return nil, err
	}
	return []StatusID{id}, nil
}

func decodeStatusID(raw json.RawMessage) (StatusID, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return "", err
	}
	switch val := v.(type) {
	case nil:
		return "", nil
	case json.Number:
		return StatusID(val.String()), nil
	case string:
		return StatusID(val), nil
	}
	return "", fmt.Errorf("status id must be a number or string, got %s", string(raw))
}
