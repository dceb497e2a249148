package rotator

import (
	"math/rand/v2"

	"github.com/snowoball/statusrota/internal/domain"
)

// Update is one status change sent to a publisher.
type Update struct {
	Emoji string
	Text  string
}

// evaluate resolves rule to the lines it publishes. A none rule clears the
// status with one empty update. A rule whose status cannot be resolved
// publishes nothing.
func evaluate(rule domain.Rule, catalog []domain.Status, rng *rand.Rand) []Update {
	var id domain.StatusID
	switch sel := rule.Selection.(type) {
	case domain.Static:
		id = sel.ID
	case domain.Random:
		if len(sel.IDs) == 0 {
			return nil
		}
		id = sel.IDs[rng.IntN(len(sel.IDs))]
	default:
		return []Update{{}}
	}

	status, ok := domain.FindStatus(catalog, id)
	if !ok {
		return nil
	}
	lines := status.Lines()
	out := make([]Update, len(lines))
	for i, line := range lines {
		out[i] = Update{Emoji: status.Emoji, Text: line}
	}
	return out
}
