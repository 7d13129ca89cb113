package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, binders and catalog
// backends return these (optionally wrapped) so services can translate them
// into domain errors.
//
// These represent factual states about resources, not validation failures:
// - ErrNotFound: entry does not exist in a store or journal
// - ErrConflict: write lost to a uniqueness rule
// - ErrInvalidState: entity in wrong state for requested operation
// - ErrUnavailable: backend or resource folder temporarily unavailable
//
// For validation errors (bad input, missing fields), use pkg/domain-errors directly.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrUnavailable  = errors.New("unavailable")
)
