// Package domain defines typed identifiers shared across services.
//
// IDs are distinct types over uuid.UUID so the compiler rejects cross-type
// assignment (a ListenerID can never be passed where a DomainID is expected).
// Parse functions enforce the trust-boundary invariant: IDs must be valid,
// non-empty, non-nil UUIDs.
package domain

import (
	"github.com/google/uuid"

	dErrors "confgate/pkg/domain-errors"
)

// DomainID identifies a resource domain instance.
type DomainID uuid.UUID

// ListenerID identifies a registered change listener. Returned on
// registration and required for deregistration.
type ListenerID uuid.UUID

// ChangeID identifies one recorded configuration change set.
type ChangeID uuid.UUID

// NewDomainID returns a fresh random DomainID.
func NewDomainID() DomainID { return DomainID(uuid.New()) }

// NewListenerID returns a fresh random ListenerID.
func NewListenerID() ListenerID { return ListenerID(uuid.New()) }

// NewChangeID returns a fresh random ChangeID.
func NewChangeID() ChangeID { return ChangeID(uuid.New()) }

// ParseDomainID parses and validates a DomainID from its string form.
func ParseDomainID(s string) (DomainID, error) {
	id, err := parseUUID(s, "domain ID")
	return DomainID(id), err
}

// ParseListenerID parses and validates a ListenerID from its string form.
func ParseListenerID(s string) (ListenerID, error) {
	id, err := parseUUID(s, "listener ID")
	return ListenerID(id), err
}

// ParseChangeID parses and validates a ChangeID from its string form.
func ParseChangeID(s string) (ChangeID, error) {
	id, err := parseUUID(s, "change ID")
	return ChangeID(id), err
}

// parseUUID is the shared validation path for every ID type. All types must
// accept and reject identical inputs.
func parseUUID(s, what string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be empty")
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Wrap(err, dErrors.CodeInvalidInput, "invalid "+what)
	}
	if id == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, what+" must not be the nil UUID")
	}
	return id, nil
}

func (id DomainID) String() string   { return uuid.UUID(id).String() }
func (id ListenerID) String() string { return uuid.UUID(id).String() }
func (id ChangeID) String() string   { return uuid.UUID(id).String() }

// IsNil reports whether the ID is the zero value.
func (id DomainID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id ListenerID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id ChangeID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
