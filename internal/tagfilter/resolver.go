// Package tagfilter derives tag sets from the status catalog and narrows the
// catalog to the statuses eligible under a tag filter.
package tagfilter

import (
	"slices"

	"github.com/snowoball/statusrota/internal/domain"
)

// Resolver answers tag questions over a fixed catalog snapshot.
type Resolver struct {
	catalog []domain.Status
}

func New(catalog []domain.Status) Resolver {
	return Resolver{catalog: slices.Clone(catalog)}
}

// Catalog returns the catalog in its stored order.
func (r Resolver) Catalog() []domain.Status {
	return slices.Clone(r.catalog)
}

// AllTags returns the sorted, duplicate-free union of every status's tags.
func (r Resolver) AllTags() []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, s := range r.catalog {
		for _, t := range s.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

// Eligible returns the statuses carrying tag, in catalog order. An empty tag
// means no filter.
func (r Resolver) Eligible(tag string) []domain.Status {
	if tag == "" {
		return r.Catalog()
	}
	var out []domain.Status
	for _, s := range r.catalog {
		if s.HasTag(tag) {
			out = append(out, s)
		}
	}
	return out
}

// Lookup finds a catalog entry by id.
func (r Resolver) Lookup(id domain.StatusID) (domain.Status, bool) {
	return domain.FindStatus(r.catalog, id)
}

// Label returns the display label for id, or an empty string when the id is
// not in the catalog.
func (r Resolver) Label(id domain.StatusID) string {
	if s, ok := r.Lookup(id); ok {
		return s.Label()
	}
	return ""
}
