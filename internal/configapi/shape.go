package configapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/snowoball/statusrota/internal/domain"
)

// Canonicalize decodes body as the declared list shape of resource and
// re-encodes it indented. Only the shape is checked; values are not
// validated.
func Canonicalize(resource Resource, body []byte) ([]byte, error) {
	var records any
	switch resource {
	case Settings:
		records = &[]domain.Settings{}
	case Presets:
		records = &[]domain.Preset{}
	case Statuses:
		records = &[]domain.Status{}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownResource, resource)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if err := dec.Decode(records); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidShape, err)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after %s list", ErrInvalidShape, resource)
	}
	if isNullList(records) {
		return []byte("[]"), nil
	}

	out, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", resource, err)
	}
	return out, nil
}

func isNullList(records any) bool {
	switch v := records.(type) {
	case *[]domain.Settings:
		return *v == nil
	case *[]domain.Preset:
		return *v == nil
	case *[]domain.Status:
		return *v == nil
	}
	return false
}
