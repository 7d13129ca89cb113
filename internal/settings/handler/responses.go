package handler

import (
	"time"

	"confgate/internal/audit"
	"confgate/internal/hosting"
)

// DomainResponse describes the live resource domain.
type DomainResponse struct {
	Domain  string    `json:"domain"`
	Folder  string    `json:"folder"`
	BoundAt time.Time `json:"bound_at"`
}

// FromDomain maps a domain identity to its API form.
func FromDomain(d hosting.Domain) DomainResponse {
	return DomainResponse{
		Domain:  d.Name,
		Folder:  d.Folder,
		BoundAt: d.BoundAt,
	}
}

// ChangeResponse is one journal entry in API form.
type ChangeResponse struct {
	ID        string              `json:"id"`
	Timestamp time.Time           `json:"timestamp"`
	Action    string              `json:"action"`
	Reason    string              `json:"reason,omitempty"`
	Changes   []audit.FieldChange `json:"changes,omitempty"`
	RequestID string              `json:"request_id,omitempty"`
	Domain    string              `json:"domain,omitempty"`
	Folder    string              `json:"folder,omitempty"`
}

// ChangesResponse wraps the journal listing, newest first.
type ChangesResponse struct {
	Changes []ChangeResponse `json:"changes"`
}

// FromEvent maps a journal entry to its API form.
func FromEvent(e audit.Event) ChangeResponse {
	return ChangeResponse{
		ID:        e.ID.String(),
		Timestamp: e.Timestamp,
		Action:    string(e.Action),
		Reason:    e.Reason,
		Changes:   e.Changes,
		RequestID: e.RequestID,
		Domain:    e.DomainName,
		Folder:    e.Folder,
	}
}

// FromEvents maps a journal listing to its API form.
func FromEvents(events []audit.Event) ChangesResponse {
	out := ChangesResponse{Changes: make([]ChangeResponse, 0, len(events))}
	for _, e := range events {
		out.Changes = append(out.Changes, FromEvent(e))
	}
	return out
}
