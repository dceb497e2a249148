package editor

import (
	"github.com/snowoball/statusrota/internal/domain"
	"github.com/snowoball/statusrota/internal/sequence"
	"github.com/snowoball/statusrota/internal/tagfilter"
)

const (
	allTagsLabel     = "All"
	unsetStaticLabel = "Select a status"
	addPlaceholder   = "Add a status"
	staleSuffix      = " (missing)"
)

// Render builds the controls for rows. It is pure: the same rows and catalog
// always produce the same tree.
func Render(rows []sequence.Row, resolver tagfilter.Resolver) Tree {
	tree := Tree{Rows: make([]RowControls, 0, len(rows))}
	for _, row := range rows {
		tree.Rows = append(tree.Rows, renderRow(row, resolver))
	}
	return tree
}

func renderRow(row sequence.Row, resolver tagfilter.Resolver) RowControls {
	rule := row.Rule
	rc := RowControls{
		ID:        row.ID,
		Type:      newSelect(typeOptions(), string(rule.Type())),
		TagFilter: newSelect(tagOptions(resolver, rule.TagFilter), rule.TagFilter),
		Static:    Select{Selected: -1},
		Add:       Select{Selected: -1},
	}

	switch sel := rule.Selection.(type) {
	case domain.Static:
		rc.Static = newSelect(staticOptions(resolver, rule.TagFilter, sel.ID), string(sel.ID))
	case domain.Random:
		rc.Chips = make([]Chip, 0, len(sel.IDs))
		for _, id := range sel.IDs {
			rc.Chips = append(rc.Chips, chipFor(resolver, id))
		}
		rc.Add = newSelect(addOptions(resolver, rule.TagFilter, sel), "")
	}
	return rc
}

func typeOptions() []Option {
	opts := make([]Option, 0, len(domain.RuleTypes))
	for _, t := range domain.RuleTypes {
		opts = append(opts, Option{Value: string(t), Label: string(t)})
	}
	return opts
}

func tagOptions(resolver tagfilter.Resolver, current string) []Option {
	opts := []Option{{Value: "", Label: allTagsLabel}}
	found := current == ""
	for _, tag := range resolver.AllTags() {
		opts = append(opts, Option{Value: tag, Label: tag})
		found = found || tag == current
	}
	if !found {
		opts = append(opts, Option{Value: current, Label: current + staleSuffix, Stale: true})
	}
	return opts
}

func staticOptions(resolver tagfilter.Resolver, tag string, current domain.StatusID) []Option {
	opts := []Option{{Value: "", Label: unsetStaticLabel}}
	found := current == ""
	for _, s := range resolver.Eligible(tag) {
		opts = append(opts, Option{Value: string(s.ID), Label: s.Label()})
		found = found || s.ID == current
	}
	if !found {
		opts = append(opts, staleOption(resolver, current))
	}
	return opts
}

// addOptions lists the eligible statuses not yet chosen, after a placeholder
// that adds nothing.
func addOptions(resolver tagfilter.Resolver, tag string, chosen domain.Random) []Option {
	opts := []Option{{Value: "", Label: addPlaceholder}}
	for _, s := range resolver.Eligible(tag) {
		if chosen.Contains(s.ID) {
			continue
		}
		opts = append(opts, Option{Value: string(s.ID), Label: s.Label()})
	}
	return opts
}

func chipFor(resolver tagfilter.Resolver, id domain.StatusID) Chip {
	if label := resolver.Label(id); label != "" {
		return Chip{ID: id, Label: label}
	}
	return Chip{ID: id, Label: string(id) + staleSuffix, Stale: true}
}

func staleOption(resolver tagfilter.Resolver, id domain.StatusID) Option {
	label := resolver.Label(id)
	if label == "" {
		label = string(id)
	}
	return Option{Value: string(id), Label: label + staleSuffix, Stale: true}
}
