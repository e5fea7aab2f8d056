package alert

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/HerbHall/roomsentry/internal/event"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrNotFound is returned by Acknowledge when the alert id does not
// exist, so callers can tell "alert no longer exists" from a storage
// failure.
var ErrNotFound = errors.New("alert not found")

// ErrInvalidCandidate is returned by Append when a candidate lacks the
// identity fields required to render an actionable alert.
var ErrInvalidCandidate = errors.New("invalid alert candidate")

// QueryFilter narrows alert queries. A zero filter returns system-wide
// alerts up to the default limit.
type QueryFilter struct {
	RoomID string
	Limit  int
}

// Store persists alerts in SQLite and runs the deduplication guard as
// part of every Append, so callers cannot bypass it.
type Store struct {
	db            *sql.DB
	bus           *event.Bus
	window        time.Duration
	lookupTimeout time.Duration
	logger        *zap.Logger
}

// NewStore creates an alert store. The bus is optional; when nil no
// lifecycle events are published. Non-positive window or lookupTimeout
// fall back to defaults.
func NewStore(db *sql.DB, bus *event.Bus, window, lookupTimeout time.Duration, logger *zap.Logger) *Store {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	if lookupTimeout <= 0 {
		lookupTimeout = 3 * time.Second
	}
	return &Store{
		db:            db,
		bus:           bus,
		window:        window,
		lookupTimeout: lookupTimeout,
		logger:        logger,
	}
}

// Append runs the dedup guard against the most recent unacknowledged
// alert for the candidate's (room, type, severity) key, then persists a
// new alert when the guard says emit. The created_at timestamp is
// assigned here, never by the caller. Returns the new alert's id and
// created=true on emit, or the covering alert's id and created=false on
// suppression.
//
// The dedup lookup runs under a short timeout; on timeout the candidate
// fails (no insert) rather than risk blocking the pipeline. Two
// concurrent Appends for the same key can both pass the lookup and both
// insert; that narrow race is accepted rather than paying for a
// transactional conditional write.
func (s *Store) Append(ctx context.Context, cand Candidate) (id string, created bool, err error) {
	if cand.RoomID == "" || strings.TrimSpace(cand.RoomName) == "" || cand.Type == "" || !cand.Severity.Valid() {
		return "", false, ErrInvalidCandidate
	}

	lookupCtx, cancel := context.WithTimeout(ctx, s.lookupTimeout)
	defer cancel()

	existing, err := s.findRecentUnacknowledged(lookupCtx, cand.RoomID, cand.Type, cand.Severity)
	if err != nil {
		alertAppendFailures.Inc()
		return "", false, fmt.Errorf("dedup lookup: %w", err)
	}

	now := time.Now().UTC()
	if d := ShouldEmit(cand, existing, now, s.window); !d.Emit {
		alertsSuppressedTotal.Inc()
		return d.ExistingID, false, nil
	}

	a := &Alert{
		ID:              "alr-" + uuid.NewString(),
		RoomID:          cand.RoomID,
		RoomName:        cand.RoomName,
		SensorID:        cand.SensorID,
		SensorCategory:  string(cand.SensorCategory),
		Type:            cand.Type,
		Severity:        cand.Severity,
		Message:         cand.Message,
		TriggeringValue: cand.TriggeringValue,
		CreatedAt:       now,
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO alerts (
			id, room_id, room_name, sensor_id, sensor_category,
			type, severity, message, triggering_value, created_at, acknowledged
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, 0)`,
		a.ID, a.RoomID, a.RoomName, a.SensorID, a.SensorCategory,
		a.Type, a.Severity, a.Message, a.TriggeringValue, a.CreatedAt,
	)
	if err != nil {
		alertAppendFailures.Inc()
		return "", false, fmt.Errorf("insert alert: %w", err)
	}

	alertsCreatedTotal.WithLabelValues(string(a.Type), string(a.Severity)).Inc()
	s.publish(ctx, TopicAlertCreated, a)
	return a.ID, true, nil
}

// Query returns alerts ordered by created_at descending. An empty RoomID
// returns system-wide alerts.
func (s *Store) Query(ctx context.Context, filter QueryFilter) ([]Alert, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 200
	}

	var rows *sql.Rows
	var err error
	if filter.RoomID == "" {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+alertColumns+`
			FROM alerts ORDER BY created_at DESC LIMIT ?`,
			limit,
		)
	} else {
		rows, err = s.db.QueryContext(ctx, `
			SELECT `+alertColumns+`
			FROM alerts WHERE room_id = ? ORDER BY created_at DESC LIMIT ?`,
			filter.RoomID, limit,
		)
	}
	if err != nil {
		return nil, fmt.Errorf("query alerts: %w", err)
	}
	defer rows.Close()

	var alerts []Alert
	for rows.Next() {
		a, scanErr := scanAlert(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		alerts = append(alerts, *a)
	}
	return alerts, rows.Err()
}

// Get returns an alert by id. Returns nil, nil if not found.
func (s *Store) Get(ctx context.Context, id string) (*Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+alertColumns+`
		FROM alerts WHERE id = ?`,
		id,
	)
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

// Acknowledge marks an alert as acknowledged by the given user. The
// acknowledged flag only ever moves false to true; re-acknowledging an
// already-acknowledged alert overwrites acknowledged_at/by without
// error. Returns ErrNotFound for an unknown id.
func (s *Store) Acknowledge(ctx context.Context, alertID, userID string) error {
	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx, `
		UPDATE alerts SET acknowledged = 1, acknowledged_at = ?, acknowledged_by = ? WHERE id = ?`,
		now, userID, alertID,
	)
	if err != nil {
		return fmt.Errorf("acknowledge alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("acknowledge alert: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	if s.bus != nil {
		a, getErr := s.Get(ctx, alertID)
		if getErr != nil {
			s.logger.Warn("failed to load acknowledged alert for event", zap.String("alert_id", alertID), zap.Error(getErr))
			return nil
		}
		s.publish(ctx, TopicAlertAcknowledged, a)
	}
	return nil
}

// findRecentUnacknowledged returns the most recent unacknowledged alert
// for the dedup key, or nil, nil when none exists. This is a query-time
// check against durable storage, so dedup correctness holds across
// process restarts.
func (s *Store) findRecentUnacknowledged(ctx context.Context, roomID string, typ Type, sev Severity) (*Alert, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+alertColumns+`
		FROM alerts
		WHERE room_id = ? AND type = ? AND severity = ? AND acknowledged = 0
		ORDER BY created_at DESC LIMIT 1`,
		roomID, typ, sev,
	)
	a, err := scanAlert(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

func (s *Store) publish(ctx context.Context, topic string, a *Alert) {
	if s.bus == nil {
		return
	}
	s.bus.PublishAsync(ctx, event.Event{
		Topic:     topic,
		Source:    "alert",
		Timestamp: time.Now().UTC(),
		Payload:   a,
	})
}

const alertColumns = `id, room_id, room_name, sensor_id, sensor_category,
		type, severity, message, triggering_value, created_at,
		acknowledged, acknowledged_at, acknowledged_by`

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanAlert(row scanner) (*Alert, error) {
	var a Alert
	var acknowledgedInt int
	var acknowledgedAt sql.NullTime
	err := row.Scan(
		&a.ID, &a.RoomID, &a.RoomName, &a.SensorID, &a.SensorCategory,
		&a.Type, &a.Severity, &a.Message, &a.TriggeringValue, &a.CreatedAt,
		&acknowledgedInt, &acknowledgedAt, &a.AcknowledgedBy,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan alert row: %w", err)
	}
	a.Acknowledged = acknowledgedInt != 0
	if acknowledgedAt.Valid {
		a.AcknowledgedAt = &acknowledgedAt.Time
	}
	return &a, nil
}
