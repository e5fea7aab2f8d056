package alert

import (
	"context"

	"github.com/HerbHall/roomsentry/internal/event"
	"go.uber.org/zap"
)

// Feed provides live subscriptions over the alert store: an initial
// snapshot followed by a re-queried batch after every alert lifecycle
// event. Cancellation of the subscriber's context stops delivery and is
// the only teardown contract.
type Feed struct {
	store  *Store
	bus    *event.Bus
	logger *zap.Logger
}

// NewFeed creates a feed over the given store and bus.
func NewFeed(store *Store, bus *event.Bus, logger *zap.Logger) *Feed {
	return &Feed{store: store, bus: bus, logger: logger}
}

// Subscribe returns a channel of alert batches matching the filter,
// ordered created_at descending like Query. The first batch is a
// snapshot of current state. Slow consumers see latest-wins coalescing:
// intermediate batches are dropped, never stale ones delivered after
// fresh ones. The channel closes when ctx is cancelled.
func (f *Feed) Subscribe(ctx context.Context, filter QueryFilter) (<-chan []Alert, error) {
	snapshot, err := f.store.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	out := make(chan []Alert, 1)
	out <- snapshot

	// notify carries at most one pending refresh signal; concurrent
	// events collapse into a single re-query.
	notify := make(chan struct{}, 1)
	kick := func(_ context.Context, e event.Event) {
		if filter.RoomID != "" {
			if a, ok := e.Payload.(*Alert); ok && a.RoomID != filter.RoomID {
				return
			}
		}
		select {
		case notify <- struct{}{}:
		default:
		}
	}

	unsubCreated := f.bus.Subscribe(TopicAlertCreated, kick)
	unsubAcked := f.bus.Subscribe(TopicAlertAcknowledged, kick)

	go func() {
		defer func() {
			unsubCreated()
			unsubAcked()
			close(out)
		}()
		for {
			select {
			case <-ctx.Done():
				return
			case <-notify:
				alerts, qErr := f.store.Query(ctx, filter)
				if qErr != nil {
					if ctx.Err() != nil {
						return
					}
					f.logger.Warn("feed query failed", zap.String("room_id", filter.RoomID), zap.Error(qErr))
					continue
				}
				// Replace any undelivered batch with the fresh one.
				select {
				case out <- alerts:
				default:
					select {
					case <-out:
					default:
					}
					select {
					case out <- alerts:
					default:
					}
				}
			}
		}
	}()

	return out, nil
}
