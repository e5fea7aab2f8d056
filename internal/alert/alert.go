// Package alert implements the alert generation core: threshold
// classification, deduplication, and the persisted alert store.
package alert

import (
	"time"

	"github.com/HerbHall/roomsentry/internal/sensor"
)

// Severity orders alerts by urgency.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
	SeverityInfo     Severity = "info"
)

// Valid returns true when the severity is a known level.
func (s Severity) Valid() bool {
	switch s {
	case SeverityCritical, SeverityHigh, SeverityMedium, SeverityLow, SeverityInfo:
		return true
	default:
		return false
	}
}

// Type identifies the condition an alert reports.
type Type string

const (
	TypeHighTemperature Type = "high_temperature"
	TypeLowTemperature  Type = "low_temperature"
	TypeHighHumidity    Type = "high_humidity"
	TypeLowHumidity     Type = "low_humidity"
	TypeHighPM25        Type = "high_pm25"
	TypeHighPM10        Type = "high_pm10"
	TypeThermalAnomaly  Type = "thermal_anomaly"
	TypeHighVibration   Type = "high_vibration"
)

// RoomRef identifies the room a reading came from.
type RoomRef struct {
	ID   string
	Name string
}

// Candidate is a potential alert produced by the classifier. It is
// transient: it becomes an Alert only after passing deduplication.
type Candidate struct {
	RoomID          string
	RoomName        string
	SensorID        string
	SensorCategory  sensor.Category
	Type            Type
	Severity        Severity
	Message         string
	TriggeringValue string
}

// Alert is a persisted threshold violation awaiting human response.
type Alert struct {
	ID              string     `json:"id"`
	RoomID          string     `json:"room_id"`
	RoomName        string     `json:"room_name"`
	SensorID        string     `json:"sensor_id,omitempty"`
	SensorCategory  string     `json:"sensor_category,omitempty"`
	Type            Type       `json:"type"`
	Severity        Severity   `json:"severity"`
	Message         string     `json:"message"`
	TriggeringValue string     `json:"triggering_value,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	Acknowledged    bool       `json:"acknowledged"`
	AcknowledgedAt  *time.Time `json:"acknowledged_at,omitempty"`
	AcknowledgedBy  string     `json:"acknowledged_by,omitempty"`
}
