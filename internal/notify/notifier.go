// Package notify delivers alert lifecycle notifications to external
// channels.
package notify

import (
	"context"

	"github.com/HerbHall/roomsentry/internal/alert"
)

// Notifier delivers a single notification. Implementations must be safe
// for concurrent use.
type Notifier interface {
	// Notify delivers the alert. eventType is "created" or
	// "acknowledged".
	Notify(ctx context.Context, a *alert.Alert, eventType string) error

	// Type returns the notifier type identifier.
	Type() string
}
