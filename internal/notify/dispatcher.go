package notify

import (
	"context"

	"github.com/HerbHall/roomsentry/internal/alert"
	"github.com/HerbHall/roomsentry/internal/event"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Dispatcher fans alert lifecycle events out to the configured
// notification channels. A failed channel is logged and skipped; it
// never blocks the others.
type Dispatcher struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewDispatcher creates a dispatcher over the given channels.
func NewDispatcher(notifiers []Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, logger: logger}
}

// FromConfig builds a dispatcher from the notify.* config tree. Only
// channels with a URL configured are enabled.
func FromConfig(v *viper.Viper, logger *zap.Logger) (*Dispatcher, error) {
	var notifiers []Notifier

	var webhookCfg WebhookConfig
	if err := v.UnmarshalKey("notify.webhook", &webhookCfg); err != nil {
		return nil, err
	}
	if webhookCfg.URL != "" {
		notifiers = append(notifiers, NewWebhookNotifier(webhookCfg))
	}

	return NewDispatcher(notifiers, logger), nil
}

// Register subscribes the dispatcher to alert lifecycle topics on the bus.
func (d *Dispatcher) Register(bus *event.Bus) {
	bus.Subscribe(alert.TopicAlertCreated, d.HandleAlertEvent)
	bus.Subscribe(alert.TopicAlertAcknowledged, d.HandleAlertEvent)
}

// HandleAlertEvent processes an alert event from the event bus and
// delivers notifications to all enabled channels.
func (d *Dispatcher) HandleAlertEvent(ctx context.Context, e event.Event) {
	a, ok := e.Payload.(*alert.Alert)
	if !ok {
		d.logger.Warn("unexpected payload type for alert event",
			zap.String("topic", e.Topic),
		)
		return
	}

	eventType := "created"
	if e.Topic == alert.TopicAlertAcknowledged {
		eventType = "acknowledged"
	}

	for _, n := range d.notifiers {
		if err := n.Notify(ctx, a, eventType); err != nil {
			d.logger.Warn("notification delivery failed",
				zap.String("channel_type", n.Type()),
				zap.String("alert_id", a.ID),
				zap.Error(err),
			)
			continue
		}
		d.logger.Debug("notification delivered",
			zap.String("channel_type", n.Type()),
			zap.String("alert_id", a.ID),
			zap.String("event_type", eventType),
		)
	}
}
