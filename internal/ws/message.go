package ws

import (
	"time"

	"github.com/HerbHall/roomsentry/internal/alert"
)

// MessageType discriminates WebSocket messages.
type MessageType string

const (
	MessageAlertCreated      MessageType = "alert.created"
	MessageAlertAcknowledged MessageType = "alert.acknowledged"
)

// Message is the envelope for all WebSocket messages.
type Message struct {
	Type      MessageType `json:"type"`
	AlertID   string      `json:"alert_id"`
	Timestamp time.Time   `json:"timestamp"`
	Data      any         `json:"data"`
}

// AlertData is the payload for alert lifecycle messages.
type AlertData struct {
	Alert *alert.Alert `json:"alert"`
}
