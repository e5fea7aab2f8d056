package alert

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/HerbHall/roomsentry/internal/sensor"
)

// Measurement units used in alert messages and triggering values.
const (
	unitCelsius    = "°C"
	unitPercent    = "%"
	unitMicrograms = " µg/m³"
	unitAccel      = " m/s²"
)

// Classifier maps a sensor reading to zero or more alert candidates
// according to the threshold table. Pure and deterministic: no I/O, no
// state beyond the read-only table.
type Classifier struct {
	t *Thresholds
}

// NewClassifier creates a classifier over a validated threshold table.
func NewClassifier(t *Thresholds) *Classifier {
	return &Classifier{t: t}
}

// Classify evaluates a reading against the threshold table. A reading
// without a human-readable room name or sensor display name yields no
// candidates: an alert nobody can locate is worse than no alert.
func (c *Classifier) Classify(room RoomRef, sensorID string, r sensor.Reading) []Candidate {
	if r == nil || strings.TrimSpace(room.Name) == "" || strings.TrimSpace(r.SensorName()) == "" {
		return nil
	}

	switch v := r.(type) {
	case sensor.TempHumidity:
		return c.classifyTempHumidity(room, sensorID, v)
	case sensor.AirQuality:
		return c.classifyAirQuality(room, sensorID, v)
	case sensor.Thermal:
		return c.classifyThermal(room, sensorID, v)
	case sensor.Vibration:
		return c.classifyVibration(room, sensorID, v)
	default:
		return nil
	}
}

// classifyTempHumidity evaluates temperature and humidity independently;
// both may produce a candidate for the same reading.
func (c *Classifier) classifyTempHumidity(room RoomRef, sensorID string, r sensor.TempHumidity) []Candidate {
	var out []Candidate
	tb := c.t.Temperature

	// First matching temperature band wins; at most one candidate.
	switch {
	case r.Temperature >= tb.CriticalHigh:
		out = append(out, newCandidate(room, sensorID, r, TypeHighTemperature, SeverityCritical,
			"Critical high temperature", formatValue(r.Temperature)+unitCelsius))
	case r.Temperature >= tb.High:
		out = append(out, newCandidate(room, sensorID, r, TypeHighTemperature, SeverityHigh,
			"High temperature", formatValue(r.Temperature)+unitCelsius))
	case r.Temperature <= tb.CriticalLow:
		out = append(out, newCandidate(room, sensorID, r, TypeLowTemperature, SeverityCritical,
			"Critical low temperature", formatValue(r.Temperature)+unitCelsius))
	case r.Temperature <= tb.Low:
		out = append(out, newCandidate(room, sensorID, r, TypeLowTemperature, SeverityHigh,
			"Low temperature", formatValue(r.Temperature)+unitCelsius))
	}

	hb := c.t.Humidity
	switch {
	case r.Humidity >= hb.CriticalHigh:
		out = append(out, newCandidate(room, sensorID, r, TypeHighHumidity, SeverityCritical,
			"Critical high humidity", formatValue(r.Humidity)+unitPercent))
	case r.Humidity >= hb.High:
		out = append(out, newCandidate(room, sensorID, r, TypeHighHumidity, SeverityHigh,
			"High humidity", formatValue(r.Humidity)+unitPercent))
	case r.Humidity <= hb.Low:
		out = append(out, newCandidate(room, sensorID, r, TypeLowHumidity, SeverityMedium,
			"Low humidity", formatValue(r.Humidity)+unitPercent))
	}

	return out
}

// classifyAirQuality evaluates PM2.5 and PM10 independently; both may fire.
func (c *Classifier) classifyAirQuality(room RoomRef, sensorID string, r sensor.AirQuality) []Candidate {
	var out []Candidate

	if cand, ok := classifyParticulate(room, sensorID, r, c.t.PM25, TypeHighPM25, "PM2.5", r.PM25); ok {
		out = append(out, cand)
	}
	if cand, ok := classifyParticulate(room, sensorID, r, c.t.PM10, TypeHighPM10, "PM10", r.PM10); ok {
		out = append(out, cand)
	}
	return out
}

func classifyParticulate(room RoomRef, sensorID string, r sensor.Reading, b ParticulateBands, typ Type, label string, value float64) (Candidate, bool) {
	switch {
	case value >= b.Critical:
		return newCandidate(room, sensorID, r, typ, SeverityCritical,
			"Critical "+label+" level", formatValue(value)+unitMicrograms), true
	case value >= b.High:
		return newCandidate(room, sensorID, r, typ, SeverityHigh,
			"High "+label+" level", formatValue(value)+unitMicrograms), true
	case value >= b.Moderate:
		return newCandidate(room, sensorID, r, typ, SeverityMedium,
			"Moderate "+label+" level (sensitive groups)", formatValue(value)+unitMicrograms), true
	}
	return Candidate{}, false
}

// classifyThermal fires a single candidate when either the hottest pixel
// or the frame average crosses a band pair. The message reports both
// values regardless of which one tripped it.
func (c *Classifier) classifyThermal(room RoomRef, sensorID string, r sensor.Thermal) []Candidate {
	tb := c.t.Thermal

	var condition string
	var severity Severity
	switch {
	case r.MaxPixelTemp >= tb.CriticalMax || r.AvgTemp >= tb.CriticalAvg:
		condition, severity = "Critical thermal reading", SeverityCritical
	case r.MaxPixelTemp >= tb.HighMax || r.AvgTemp >= tb.HighAvg:
		condition, severity = "High thermal reading", SeverityHigh
	default:
		return nil
	}

	cand := newCandidate(room, sensorID, r, TypeThermalAnomaly, severity,
		condition, formatValue(r.MaxPixelTemp)+unitCelsius)
	cand.Message = fmt.Sprintf("%s detected in %s (%s): max %s%s, avg %s%s.",
		condition, room.Name, r.SensorName(),
		formatValue(r.MaxPixelTemp), unitCelsius,
		formatValue(r.AvgTemp), unitCelsius)
	return []Candidate{cand}
}

func (c *Classifier) classifyVibration(room RoomRef, sensorID string, r sensor.Vibration) []Candidate {
	vb := c.t.Vibration

	switch {
	case r.RMSAcceleration >= vb.Critical:
		return []Candidate{newCandidate(room, sensorID, r, TypeHighVibration, SeverityCritical,
			"Critical vibration", formatValue(r.RMSAcceleration)+unitAccel)}
	case r.RMSAcceleration >= vb.High:
		return []Candidate{newCandidate(room, sensorID, r, TypeHighVibration, SeverityHigh,
			"High vibration", formatValue(r.RMSAcceleration)+unitAccel)}
	}
	return nil
}

// newCandidate builds a candidate with the standard message format:
// "<Condition> detected in <RoomName> (<SensorName>): <value><unit>."
func newCandidate(room RoomRef, sensorID string, r sensor.Reading, typ Type, sev Severity, condition, value string) Candidate {
	return Candidate{
		RoomID:          room.ID,
		RoomName:        room.Name,
		SensorID:        sensorID,
		SensorCategory:  r.Kind(),
		Type:            typ,
		Severity:        sev,
		Message:         fmt.Sprintf("%s detected in %s (%s): %s.", condition, room.Name, r.SensorName(), value),
		TriggeringValue: value,
	}
}

// formatValue renders a reading value exactly as the sensor reported it,
// with no rounding.
func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
