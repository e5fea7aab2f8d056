package alert

import (
	"context"
	"testing"
	"time"

	"github.com/HerbHall/roomsentry/internal/event"
	"github.com/HerbHall/roomsentry/internal/store"
	"go.uber.org/zap"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background(), "alert", Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewStore(db.DB(), nil, 30*time.Second, 3*time.Second, zap.NewNop())
}

func testCandidate() Candidate {
	return Candidate{
		RoomID:          "room-1",
		RoomName:        "Server Room",
		SensorID:        "th-1",
		SensorCategory:  "temp_humidity",
		Type:            TypeHighTemperature,
		Severity:        SeverityCritical,
		Message:         "Critical high temperature detected in Server Room (Rack Sensor): 37°C.",
		TriggeringValue: "37°C",
	}
}

// ageAlert rewrites created_at so dedup-window expiry can be tested
// without sleeping.
func ageAlert(t *testing.T, s *Store, id string, age time.Duration) {
	t.Helper()
	_, err := s.db.Exec("UPDATE alerts SET created_at = ? WHERE id = ?",
		time.Now().UTC().Add(-age), id)
	if err != nil {
		t.Fatalf("age alert: %v", err)
	}
}

func TestAppendAndGet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, created, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !created {
		t.Fatal("first append should create an alert")
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a == nil {
		t.Fatal("alert not found after append")
	}
	if a.Type != TypeHighTemperature || a.Severity != SeverityCritical {
		t.Errorf("got %s/%s", a.Type, a.Severity)
	}
	if a.Acknowledged || a.AcknowledgedAt != nil {
		t.Error("new alert must be unacknowledged")
	}
	if a.CreatedAt.IsZero() {
		t.Error("created_at not assigned")
	}
}

func TestAppendRejectsInvalidCandidate(t *testing.T) {
	s := newTestStore(t)
	cand := testCandidate()
	cand.RoomName = "   "
	if _, _, err := s.Append(context.Background(), cand); err != ErrInvalidCandidate {
		t.Errorf("expected ErrInvalidCandidate, got %v", err)
	}
}

func TestAppendDedupWithinWindow(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, created, err := s.Append(ctx, testCandidate())
	if err != nil || !created {
		t.Fatalf("first append: created=%v err=%v", created, err)
	}

	got, created, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("second append: %v", err)
	}
	if created {
		t.Error("identical candidate within window should be suppressed")
	}
	if got != first {
		t.Errorf("suppression should reference covering alert %s, got %s", first, got)
	}

	alerts, err := s.Query(ctx, QueryFilter{RoomID: "room-1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(alerts) != 1 {
		t.Errorf("expected 1 stored alert, got %d", len(alerts))
	}
}

func TestAppendEmitsAfterWindowExpiry(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, _, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	ageAlert(t, s, first, 31*time.Second)

	second, created, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !created {
		t.Error("candidate after window expiry should create a fresh alert")
	}
	if second == first {
		t.Error("fresh alert should have a new id")
	}
}

func TestAppendEmitsAfterAcknowledgement(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, _, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Acknowledge(ctx, first, "user-7"); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}

	_, created, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !created {
		t.Error("acknowledged alert no longer covers the condition")
	}
}

func TestAppendDistinguishesSeverity(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Append(ctx, testCandidate()); err != nil {
		t.Fatalf("Append: %v", err)
	}

	high := testCandidate()
	high.Severity = SeverityHigh
	high.TriggeringValue = "31°C"
	_, created, err := s.Append(ctx, high)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !created {
		t.Error("same type at a different severity is a distinct condition")
	}
}

func TestAppendDistinguishesSensors(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if _, _, err := s.Append(ctx, testCandidate()); err != nil {
		t.Fatalf("Append: %v", err)
	}

	other := testCandidate()
	other.SensorID = "th-2"
	_, created, err := s.Append(ctx, other)
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if !created {
		t.Error("a second sensor hitting the same band is not a duplicate")
	}
}

func TestQueryOrderingAndFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	first, _, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	ageAlert(t, s, first, time.Minute)

	other := testCandidate()
	other.RoomID = "room-2"
	other.RoomName = "Lab"
	if _, _, err := s.Append(ctx, other); err != nil {
		t.Fatalf("Append: %v", err)
	}
	second, _, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}

	all, err := s.Query(ctx, QueryFilter{})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 alerts, got %d", len(all))
	}
	if all[len(all)-1].ID != first {
		t.Error("oldest alert should sort last")
	}

	roomOnly, err := s.Query(ctx, QueryFilter{RoomID: "room-1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(roomOnly) != 2 {
		t.Fatalf("expected 2 alerts for room-1, got %d", len(roomOnly))
	}
	if roomOnly[0].ID != second {
		t.Error("newest alert should sort first")
	}

	limited, err := s.Query(ctx, QueryFilter{Limit: 1})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit 1: got %d alerts", len(limited))
	}
}

func TestAcknowledge(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, _, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Acknowledge(ctx, id, "user-7"); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}

	a, err := s.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if !a.Acknowledged || a.AcknowledgedBy != "user-7" || a.AcknowledgedAt == nil {
		t.Errorf("acknowledgement not recorded: %+v", a)
	}

	// Re-acknowledging is idempotent on the flag; attribution follows the
	// latest caller.
	if err := s.Acknowledge(ctx, id, "user-9"); err != nil {
		t.Fatalf("re-Acknowledge: %v", err)
	}
	a, _ = s.Get(ctx, id)
	if !a.Acknowledged || a.AcknowledgedBy != "user-9" {
		t.Errorf("re-acknowledgement not recorded: %+v", a)
	}
}

func TestAcknowledgeUnknownID(t *testing.T) {
	s := newTestStore(t)
	if err := s.Acknowledge(context.Background(), "alr-missing", "user-7"); err != ErrNotFound {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestGetUnknownID(t *testing.T) {
	s := newTestStore(t)
	a, err := s.Get(context.Background(), "alr-missing")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if a != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestAppendPublishesEvents(t *testing.T) {
	db, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := db.Migrate(context.Background(), "alert", Migrations()); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	bus := event.NewBus(zap.NewNop())
	got := make(chan event.Event, 2)
	bus.Subscribe(TopicAlertCreated, func(_ context.Context, e event.Event) { got <- e })
	bus.Subscribe(TopicAlertAcknowledged, func(_ context.Context, e event.Event) { got <- e })

	s := NewStore(db.DB(), bus, 30*time.Second, 3*time.Second, zap.NewNop())
	ctx := context.Background()

	id, _, err := s.Append(ctx, testCandidate())
	if err != nil {
		t.Fatalf("Append: %v", err)
	}
	select {
	case e := <-got:
		if e.Topic != TopicAlertCreated {
			t.Errorf("topic = %s", e.Topic)
		}
		if a, ok := e.Payload.(*Alert); !ok || a.ID != id {
			t.Errorf("unexpected payload %+v", e.Payload)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no alert.created event")
	}

	if err := s.Acknowledge(ctx, id, "user-7"); err != nil {
		t.Fatalf("Acknowledge: %v", err)
	}
	select {
	case e := <-got:
		if e.Topic != TopicAlertAcknowledged {
			t.Errorf("topic = %s", e.Topic)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no alert.acknowledged event")
	}
}
