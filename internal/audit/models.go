package audit

import (
	"sort"
	"strings"
	"time"

	"confgate/pkg/domain"
)

// Action identifies what a journal entry records.
type Action string

const (
	// Configuration lifecycle
	ActionConfigUpdated    Action = "config_updated"
	ActionConfigRejected   Action = "config_rejected"
	ActionConfigRolledBack Action = "config_rolled_back"

	// Notification dispatch
	ActionListenerFailed Action = "listener_failed"

	// Resource domain lifecycle
	ActionDomainBound   Action = "domain_bound"
	ActionDomainRevoked Action = "domain_revoked"
	ActionDomainReaped  Action = "domain_reaped"
)

// FieldChange is one attribute's transition inside a change set. Values of
// sensitive opaque settings are redacted before the change is recorded.
type FieldChange struct {
	Key string `json:"key"`
	Old string `json:"old"`
	New string `json:"new"`
}

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        domain.ChangeID
	Timestamp time.Time
	Action    Action
	Reason    string
	Changes   []FieldChange

	// Enrichment captured from the request context.
	RequestID string
	ClientIP  string
	UserAgent string
	Browser   string
	OS        string

	// Domain involved, when the action concerns the resource domain.
	DomainName string
	Folder     string
}

// sensitiveMarkers flag opaque setting keys whose values must never appear
// in the journal.
var sensitiveMarkers = []string{"secret", "password", "token", "key", "credential"}

const redactedValue = "[REDACTED]"

// RedactValue masks the value of a sensitive setting. Opaque keys are
// matched by substring; empty values pass through.
func RedactValue(key, value string) string {
	if value == "" {
		return value
	}
	lower := strings.ToLower(key)
	for _, marker := range sensitiveMarkers {
		if strings.Contains(lower, marker) {
			return redactedValue
		}
	}
	return value
}

// DiffFlatMaps computes the redacted change set between two flat
// serializations, sorted by key. A key present on only one side appears with
// the missing side empty.
func DiffFlatMaps(old, new map[string]string) []FieldChange {
	keys := make(map[string]struct{}, len(old)+len(new))
	for k := range old {
		keys[k] = struct{}{}
	}
	for k := range new {
		keys[k] = struct{}{}
	}

	changes := make([]FieldChange, 0, len(keys))
	for k := range keys {
		ov, nv := old[k], new[k]
		if ov == nv {
			continue
		}
		changes = append(changes, FieldChange{
			Key: k,
			Old: RedactValue(k, ov),
			New: RedactValue(k, nv),
		})
	}

	sort.Slice(changes, func(i, j int) bool { return changes[i].Key < changes[j].Key })
	return changes
}
