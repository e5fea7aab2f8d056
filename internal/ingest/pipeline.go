// Package ingest orchestrates sensor update processing: room gate,
// change detection, classification, and alert persistence.
package ingest

import (
	"context"
	"sync"

	"github.com/HerbHall/roomsentry/internal/alert"
	"github.com/HerbHall/roomsentry/internal/sensor"
	"go.uber.org/zap"
)

// RoomGate reports whether a room should be evaluated at all. Readings
// for unmonitored rooms are dropped before the change detector runs.
type RoomGate interface {
	IsRoomMonitored(roomID string) bool
}

// AlertSink accepts deduplicated alert candidates. The alert store
// implements it; Append runs the dedup guard internally.
type AlertSink interface {
	Append(ctx context.Context, cand alert.Candidate) (id string, created bool, err error)
}

// Pipeline processes sensor updates. Updates for different
// (room, sensor) keys run concurrently; updates for the same key are
// serialized by a per-key lock so the last-seen cache and dedup
// decisions stay causally ordered.
type Pipeline struct {
	sink       AlertSink
	rooms      RoomGate
	classifier *alert.Classifier
	logger     *zap.Logger

	mu   sync.Mutex
	keys map[string]*sensorState
}

// sensorState is the per-(room, sensor) processing state. lastSeen is
// updated only after a reading passes the change gate; last write wins
// on out-of-order delivery.
type sensorState struct {
	mu       sync.Mutex
	lastSeen sensor.Reading
}

// New creates a pipeline. rooms may be nil, in which case every room is
// treated as monitored.
func New(sink AlertSink, rooms RoomGate, classifier *alert.Classifier, logger *zap.Logger) *Pipeline {
	return &Pipeline{
		sink:       sink,
		rooms:      rooms,
		classifier: classifier,
		logger:     logger,
		keys:       make(map[string]*sensorState),
	}
}

// OnSensorUpdate is the entry point for the external sensor feed, one
// call per update. Storage errors for one candidate are logged and do
// not block sibling candidates from the same reading.
func (p *Pipeline) OnSensorUpdate(ctx context.Context, roomID, roomName, sensorID string, r sensor.Reading) {
	if roomID == "" || sensorID == "" {
		readingsSkippedTotal.WithLabelValues("no_identity").Inc()
		p.logger.Warn("reading dropped: missing room or sensor id",
			zap.String("room_id", roomID),
			zap.String("sensor_id", sensorID),
		)
		return
	}

	if p.rooms != nil && !p.rooms.IsRoomMonitored(roomID) {
		readingsSkippedTotal.WithLabelValues("unmonitored").Inc()
		return
	}

	if !sensor.WellFormed(r) {
		readingsSkippedTotal.WithLabelValues("malformed").Inc()
		p.logger.Warn("reading dropped: malformed",
			zap.String("room_id", roomID),
			zap.String("sensor_id", sensorID),
		)
		return
	}

	st := p.state(roomID + "/" + sensorID)
	st.mu.Lock()
	defer st.mu.Unlock()

	if !sensor.HasMaterialChange(st.lastSeen, r) {
		readingsSkippedTotal.WithLabelValues("no_change").Inc()
		return
	}
	st.lastSeen = r

	readingsProcessedTotal.Inc()

	cands := p.classifier.Classify(alert.RoomRef{ID: roomID, Name: roomName}, sensorID, r)
	if len(cands) == 0 {
		return
	}

	for _, cand := range cands {
		id, created, err := p.sink.Append(ctx, cand)
		if err != nil {
			p.logger.Warn("alert append failed",
				zap.String("room_id", cand.RoomID),
				zap.String("sensor_id", cand.SensorID),
				zap.String("type", string(cand.Type)),
				zap.String("severity", string(cand.Severity)),
				zap.Error(err),
			)
			continue
		}
		if !created {
			p.logger.Debug("alert suppressed by dedup window",
				zap.String("existing_id", id),
				zap.String("room_id", cand.RoomID),
				zap.String("type", string(cand.Type)),
			)
			continue
		}
		p.logger.Info("alert created",
			zap.String("alert_id", id),
			zap.String("room_id", cand.RoomID),
			zap.String("sensor_id", cand.SensorID),
			zap.String("type", string(cand.Type)),
			zap.String("severity", string(cand.Severity)),
			zap.String("triggering_value", cand.TriggeringValue),
		)
	}
}

// state returns the per-key state, creating it on first sight.
func (p *Pipeline) state(key string) *sensorState {
	p.mu.Lock()
	defer p.mu.Unlock()
	st, ok := p.keys[key]
	if !ok {
		st = &sensorState{}
		p.keys[key] = st
	}
	return st
}
