package domain

import (
	"slices"
	"strings"
)

// StatusID identifies a status in the catalog. Catalog ids are usually
// numeric strings ("1", "2", ...) but any string is accepted.
type StatusID string

// UnmarshalJSON accepts the id as a JSON string or number.
func (id *StatusID) UnmarshalJSON(data []byte) error {
	v, err := decodeStatusID(data)
	if err != nil {
		return err
	}
	*id = v
	return nil
}

type Status struct {
	ID    StatusID `json:"status_id"`
	Emoji string   `json:"status_emoji"`
	Text  string   `json:"status_text"`
	Tags  []string `json:"tags"`
}

// HasTag reports whether the status carries tag.
func (s Status) HasTag(tag string) bool {
	return slices.Contains(s.Tags, tag)
}

// Label returns the single-line "glyph text" form used in option lists.
func (s Status) Label() string {
	text := strings.ReplaceAll(s.Text, "\n", " ")
	if s.Emoji == "" {
		return text
	}
	return s.Emoji + " " + text
}

// Lines splits a multi-line status text into the sub-steps the rotator
// publishes one after another.
func (s Status) Lines() []string {
	return strings.Split(s.Text, "\n")
}

// ParseTags splits a comma-separated tag list, trimming blanks and dropping
// empty entries.
func ParseTags(input string) []string {
	tags := []string{}
	for _, t := range strings.Split(input, ",") {
		t = strings.TrimSpace(t)
		if t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}
