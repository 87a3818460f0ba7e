package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// Template is the persisted feature set of an enrolled fingerprint.
// It never contains the raw image.
type Template struct {
	// Minutiae keeps extraction order; the matcher iterates it in this order.
	Minutiae []Minutia `json:"minutiae"`

	// ImageDigest is the hex digest of the preprocessed pixels used for audit.
	ImageDigest string `json:"image_hash"`
}

// Empty reports whether the template carries no minutiae.
func (t Template) Empty() bool {
	return len(t.Minutiae) == 0
}

// Encode serializes the template into its opaque storage form.
func (t Template) Encode() ([]byte, error) {
	if t.Minutiae == nil {
		t.Minutiae = []Minutia{}
	}
	b, err := json.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("failed to encode template: %w", err)
	}
	return b, nil
}

// DecodeTemplate parses a blob produced by Encode.
// Unknown minutia kinds are rejected so that a corrupted blob never matches.
func DecodeTemplate(data []byte) (Template, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Template{}, errors.New("empty template blob")
	}
	var t Template
	if err := json.Unmarshal(data, &t); err != nil {
		return Template{}, fmt.Errorf("failed to decode template: %w", err)
	}
	for i, m := range t.Minutiae {
		if !m.Kind.Valid() {
			return Template{}, fmt.Errorf("failed to decode template: minutia %d has unknown type %q", i, m.Kind)
		}
	}
	return t, nil
}
