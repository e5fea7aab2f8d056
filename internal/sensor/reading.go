// Package sensor defines the sensor reading model and the material-change
// predicate that gates alert evaluation.
package sensor

import "time"

// Category identifies the kind of physical measurement a reading carries.
type Category string

const (
	CategoryTempHumidity Category = "temp_humidity"
	CategoryAirQuality   Category = "air_quality"
	CategoryThermal      Category = "thermal"
	CategoryVibration    Category = "vibration"
)

// Valid returns true when the category is one of the supported kinds.
func (c Category) Valid() bool {
	switch c {
	case CategoryTempHumidity, CategoryAirQuality, CategoryThermal, CategoryVibration:
		return true
	default:
		return false
	}
}

// Reading is an immutable snapshot of a sensor's current values. The
// interface is sealed: the four category types below are the only
// implementations, so category dispatch is a compile-time-checked switch.
type Reading interface {
	Kind() Category
	SensorName() string
	CapturedAt() time.Time

	// values returns the category-specific numeric fields in a fixed
	// order, used for exact-inequality comparison by the change detector.
	values() []float64
}

// TempHumidity is a combined temperature/humidity sample.
type TempHumidity struct {
	Name        string
	At          time.Time
	Temperature float64 // °C
	Humidity    float64 // % relative
}

func (r TempHumidity) Kind() Category        { return CategoryTempHumidity }
func (r TempHumidity) SensorName() string    { return r.Name }
func (r TempHumidity) CapturedAt() time.Time { return r.At }
func (r TempHumidity) values() []float64     { return []float64{r.Temperature, r.Humidity} }

// AirQuality is a particulate-matter sample.
type AirQuality struct {
	Name string
	At   time.Time
	PM25 float64 // µg/m³
	PM10 float64 // µg/m³
}

func (r AirQuality) Kind() Category        { return CategoryAirQuality }
func (r AirQuality) SensorName() string    { return r.Name }
func (r AirQuality) CapturedAt() time.Time { return r.At }
func (r AirQuality) values() []float64     { return []float64{r.PM25, r.PM10} }

// Thermal is a thermal-imaging sample.
type Thermal struct {
	Name         string
	At           time.Time
	MaxPixelTemp float64 // °C, hottest pixel
	AvgTemp      float64 // °C, frame average
}

func (r Thermal) Kind() Category        { return CategoryThermal }
func (r Thermal) SensorName() string    { return r.Name }
func (r Thermal) CapturedAt() time.Time { return r.At }
func (r Thermal) values() []float64     { return []float64{r.MaxPixelTemp, r.AvgTemp} }

// Vibration is an accelerometer sample.
type Vibration struct {
	Name            string
	At              time.Time
	RMSAcceleration float64 // m/s²
}

func (r Vibration) Kind() Category        { return CategoryVibration }
func (r Vibration) SensorName() string    { return r.Name }
func (r Vibration) CapturedAt() time.Time { return r.At }
func (r Vibration) values() []float64     { return []float64{r.RMSAcceleration} }

// WellFormed reports whether a reading carries the fields evaluation
// requires. Malformed readings are dropped by the caller as a
// data-quality concern, never treated as an error.
func WellFormed(r Reading) bool {
	return r != nil && r.Kind().Valid() && !r.CapturedAt().IsZero()
}
