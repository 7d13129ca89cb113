// Package models defines the configuration snapshot value and the flat
// key/value codec used at the transport boundary.
package models

import (
	"strings"
	"unicode/utf8"

	dErrors "confgate/pkg/domain-errors"
)

// Flat-map keys recognized by the codec. Every other key is carried as an
// opaque string setting.
const (
	KeyFolder = "folder"
	KeyIdle   = "idle"
)

const maxFolderLength = 4096

// Snapshot is one immutable configuration value. A changed configuration is
// always a new Snapshot built from (previous snapshot, override map) —
// instances are never mutated in place, so a reference obtained before an
// update stays valid for diffing against the replacement.
type Snapshot struct {
	folder string
	idle   Duration
	extra  map[string]string
}

// New constructs the initial snapshot from explicit values, as at process
// start. Updates go through BuildFrom instead.
func New(folder string, idle Duration) (*Snapshot, error) {
	if err := validateFolder(folder); err != nil {
		return nil, err
	}
	if idle < 0 {
		return nil, dErrors.New(dErrors.CodeValidation, "idle must not be negative")
	}
	return &Snapshot{folder: folder, idle: idle, extra: map[string]string{}}, nil
}

// BuildFrom derives a new snapshot from a base plus textual overrides.
// Known keys are type-validated and converted; unknown keys are preserved as
// opaque settings so future attributes degrade gracefully. Any conversion
// failure rejects the whole update — no partial application.
func BuildFrom(base *Snapshot, overrides map[string]string) (*Snapshot, error) {
	if base == nil {
		return nil, dErrors.New(dErrors.CodeInvariantViolation, "base snapshot is required")
	}

	next := &Snapshot{
		folder: base.folder,
		idle:   base.idle,
		extra:  make(map[string]string, len(base.extra)+len(overrides)),
	}
	for k, v := range base.extra {
		next.extra[k] = v
	}

	for k, v := range overrides {
		switch k {
		case KeyFolder:
			if err := validateFolder(v); err != nil {
				return nil, err
			}
			next.folder = v
		case KeyIdle:
			idle, err := ParseDuration(v)
			if err != nil {
				return nil, err
			}
			next.idle = idle
		default:
			next.extra[k] = v
		}
	}

	return next, nil
}

// ToFlatMap serializes the snapshot back to the textual key/value form
// accepted by BuildFrom. Recognized attributes and opaque settings all
// appear; the result is a fresh map the caller may own.
func (s *Snapshot) ToFlatMap() map[string]string {
	m := make(map[string]string, len(s.extra)+2)
	for k, v := range s.extra {
		m[k] = v
	}
	m[KeyFolder] = s.folder
	m[KeyIdle] = s.idle.String()
	return m
}

// Folder returns the resource-folder path.
func (s *Snapshot) Folder() string { return s.folder }

// Idle returns the maximum idle duration.
func (s *Snapshot) Idle() Duration { return s.idle }

// Setting looks up one setting by flat-map key, recognized or opaque.
func (s *Snapshot) Setting(key string) (string, bool) {
	switch key {
	case KeyFolder:
		return s.folder, true
	case KeyIdle:
		return s.idle.String(), true
	}
	v, ok := s.extra[key]
	return v, ok
}

// Equal reports exact equality of every attribute and opaque setting.
// Change detection for the folder uses FolderEqual instead; Equal exists for
// tests and rollback checks that need bit-for-bit comparison.
func (s *Snapshot) Equal(other *Snapshot) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.folder != other.folder || s.idle != other.idle {
		return false
	}
	if len(s.extra) != len(other.extra) {
		return false
	}
	for k, v := range s.extra {
		if ov, ok := other.extra[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// FolderEqual is the change-detection equality for resource-folder paths:
// case-insensitive, exact otherwise.
func FolderEqual(a, b string) bool {
	return strings.EqualFold(a, b)
}

func validateFolder(v string) error {
	if len(v) > maxFolderLength {
		return dErrors.New(dErrors.CodeValidation, "folder must be 4096 characters or less")
	}
	if strings.TrimSpace(v) == "" {
		return dErrors.New(dErrors.CodeValidation, "folder must not be blank")
	}
	if !utf8.ValidString(v) {
		return dErrors.New(dErrors.CodeValidation, "folder must be valid UTF-8")
	}
	if strings.ContainsRune(v, 0) {
		return dErrors.New(dErrors.CodeValidation, "folder must not contain NUL bytes")
	}
	return nil
}
