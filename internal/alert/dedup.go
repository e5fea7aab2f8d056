package alert

import "time"

// DefaultDedupWindow is the cooldown during which an identical,
// unacknowledged condition on the same source is not re-alerted.
const DefaultDedupWindow = 30 * time.Second

// DedupDecision is the outcome of the deduplication guard.
type DedupDecision struct {
	Emit       bool
	ExistingID string // Set when suppressed: the alert that covers this condition.
}

// ShouldEmit decides whether a candidate becomes a new alert given the
// most recent unacknowledged alert for its (room, type, severity) key.
//
// A candidate carrying a sensor id different from the existing alert's is
// a distinct source: a second sensor in the same room hitting the same
// band independently is not a duplicate. Once the existing alert is older
// than the window a fresh alert is emitted even for the same source, so
// acknowledgement timestamps stay meaningful for long-lived conditions.
func ShouldEmit(cand Candidate, existing *Alert, now time.Time, window time.Duration) DedupDecision {
	if existing == nil {
		return DedupDecision{Emit: true}
	}
	if cand.SensorID != "" && cand.SensorID != existing.SensorID {
		return DedupDecision{Emit: true}
	}
	if now.Sub(existing.CreatedAt) < window {
		return DedupDecision{Emit: false, ExistingID: existing.ID}
	}
	return DedupDecision{Emit: true}
}
