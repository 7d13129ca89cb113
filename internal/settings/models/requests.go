package models

import (
	"strings"

	dErrors "confgate/pkg/domain-errors"
)

const (
	maxOverrideCount       = 256
	maxOverrideKeyLength   = 255
	maxOverrideValueLength = 4096
)

// UpdateRequest carries the flat key/value overrides decoded from an update
// request body.
type UpdateRequest struct {
	Overrides map[string]string
}

// Normalize trims the values of recognized keys. Opaque keys and their
// values pass through verbatim so the round-trip encoding stays lossless.
func (r *UpdateRequest) Normalize() {
	if r == nil {
		return
	}
	if v, ok := r.Overrides[KeyFolder]; ok {
		r.Overrides[KeyFolder] = strings.TrimSpace(v)
	}
	if v, ok := r.Overrides[KeyIdle]; ok {
		r.Overrides[KeyIdle] = strings.TrimSpace(v)
	}
}

// Follows validation order: Size -> Required -> Syntax -> Semantic.
// Typed conversion of recognized values happens in BuildFrom; this guards
// the shape of the override map itself.
func (r *UpdateRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}

	if len(r.Overrides) > maxOverrideCount {
		return dErrors.New(dErrors.CodeValidation, "too many overrides (max 256)")
	}
	for k, v := range r.Overrides {
		if len(k) > maxOverrideKeyLength {
			return dErrors.New(dErrors.CodeValidation, "override keys must be 255 characters or less")
		}
		if len(v) > maxOverrideValueLength {
			return dErrors.New(dErrors.CodeValidation, "override values must be 4096 characters or less")
		}
		if strings.TrimSpace(k) == "" {
			return dErrors.New(dErrors.CodeValidation, "override keys must not be blank")
		}
	}

	return nil
}
