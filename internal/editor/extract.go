package editor

import (
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/sequence"
)

// Extract reads the rule sequence back out of the current control values,
// in row order.
func Extract(tree Tree) []sequence.Row {
	rows := make([]sequence.Row, 0, len(tree.Rows))
	for i, rc := range tree.Rows {
		rule := domain.Rule{
			Sequence:  i,
			TagFilter: rc.TagFilter.Value(),
		}
		switch rc.RuleType() {
		case domain.RuleStatic:
			rule.Selection = domain.Static{ID: domain.StatusID(rc.Static.Value())}
		case domain.RuleRandom:
			sel := domain.Random{IDs: []domain.StatusID{}}
			for _, chip := range rc.Chips {
				sel = sel.With(chip.ID)
			}
			rule.Selection = sel
		default:
			rule.Selection = domain.None{}
		}
		rows = append(rows, sequence.Row{ID: rc.ID, Rule: rule})
	}
	return rows
}
