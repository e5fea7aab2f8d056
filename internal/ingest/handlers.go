package ingest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/HerbHall/roomsentry/internal/sensor"
	"go.uber.org/zap"
)

// Handler exposes the reading ingestion HTTP boundary for sensor feeds
// that push over HTTP instead of the in-process callback.
type Handler struct {
	pipeline *Pipeline
	logger   *zap.Logger
}

// NewHandler creates an ingest API handler.
func NewHandler(pipeline *Pipeline, logger *zap.Logger) *Handler {
	return &Handler{pipeline: pipeline, logger: logger}
}

// RegisterRoutes registers ingest routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/v1/readings", h.handlePostReading)
}

// readingEnvelope is the wire form of a pushed sensor update. Category
// selects which value fields are read; the rest are ignored.
type readingEnvelope struct {
	RoomID     string    `json:"room_id"`
	RoomName   string    `json:"room_name"`
	SensorID   string    `json:"sensor_id"`
	SensorName string    `json:"sensor_name"`
	Category   string    `json:"category"`
	CapturedAt time.Time `json:"captured_at"`

	Temperature     *float64 `json:"temperature,omitempty"`
	Humidity        *float64 `json:"humidity,omitempty"`
	PM25            *float64 `json:"pm25,omitempty"`
	PM10            *float64 `json:"pm10,omitempty"`
	MaxPixelTemp    *float64 `json:"max_pixel_temp,omitempty"`
	AvgTemp         *float64 `json:"avg_temp,omitempty"`
	RMSAcceleration *float64 `json:"rms_acceleration,omitempty"`
}

func (h *Handler) handlePostReading(w http.ResponseWriter, r *http.Request) {
	var env readingEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if env.RoomID == "" || env.SensorID == "" {
		writeError(w, http.StatusBadRequest, "room_id and sensor_id are required")
		return
	}

	reading, err := env.toReading()
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.pipeline.OnSensorUpdate(r.Context(), env.RoomID, env.RoomName, env.SensorID, reading)
	w.WriteHeader(http.StatusAccepted)
}

func (e *readingEnvelope) toReading() (sensor.Reading, error) {
	cat := sensor.Category(e.Category)
	switch cat {
	case sensor.CategoryTempHumidity:
		if e.Temperature == nil || e.Humidity == nil {
			return nil, fmt.Errorf("category %s requires temperature and humidity", cat)
		}
		return sensor.TempHumidity{
			Name:        e.SensorName,
			At:          e.CapturedAt,
			Temperature: *e.Temperature,
			Humidity:    *e.Humidity,
		}, nil
	case sensor.CategoryAirQuality:
		if e.PM25 == nil || e.PM10 == nil {
			return nil, fmt.Errorf("category %s requires pm25 and pm10", cat)
		}
		return sensor.AirQuality{
			Name: e.SensorName,
			At:   e.CapturedAt,
			PM25: *e.PM25,
			PM10: *e.PM10,
		}, nil
	case sensor.CategoryThermal:
		if e.MaxPixelTemp == nil || e.AvgTemp == nil {
			return nil, fmt.Errorf("category %s requires max_pixel_temp and avg_temp", cat)
		}
		return sensor.Thermal{
			Name:         e.SensorName,
			At:           e.CapturedAt,
			MaxPixelTemp: *e.MaxPixelTemp,
			AvgTemp:      *e.AvgTemp,
		}, nil
	case sensor.CategoryVibration:
		if e.RMSAcceleration == nil {
			return nil, fmt.Errorf("category %s requires rms_acceleration", cat)
		}
		return sensor.Vibration{
			Name:            e.SensorName,
			At:              e.CapturedAt,
			RMSAcceleration: *e.RMSAcceleration,
		}, nil
	default:
		return nil, fmt.Errorf("unknown sensor category %q", e.Category)
	}
}

func writeError(w http.ResponseWriter, status int, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"title":  http.StatusText(status),
		"status": status,
		"detail": detail,
	})
}
