package alert

import (
	"fmt"

	"github.com/spf13/viper"
)

// TemperatureBands holds the four inclusive temperature bands in °C.
type TemperatureBands struct {
	CriticalHigh float64 `mapstructure:"critical_high"`
	High         float64 `mapstructure:"high"`
	CriticalLow  float64 `mapstructure:"critical_low"`
	Low          float64 `mapstructure:"low"`
}

// HumidityBands holds the humidity bands in % relative.
type HumidityBands struct {
	CriticalHigh float64 `mapstructure:"critical_high"`
	High         float64 `mapstructure:"high"`
	Low          float64 `mapstructure:"low"`
}

// ParticulateBands holds ascending particulate bands in µg/m³.
type ParticulateBands struct {
	Critical float64 `mapstructure:"critical"`
	High     float64 `mapstructure:"high"`
	Moderate float64 `mapstructure:"moderate"`
}

// ThermalBands holds the paired max-pixel/average thresholds in °C.
// A band trips when either value crosses its threshold.
type ThermalBands struct {
	CriticalMax float64 `mapstructure:"critical_max"`
	CriticalAvg float64 `mapstructure:"critical_avg"`
	HighMax     float64 `mapstructure:"high_max"`
	HighAvg     float64 `mapstructure:"high_avg"`
}

// VibrationBands holds RMS-acceleration thresholds in m/s².
type VibrationBands struct {
	Critical float64 `mapstructure:"critical"`
	High     float64 `mapstructure:"high"`
}

// Thresholds is the process-wide threshold table. It is loaded once at
// startup and read-only afterwards; operators changing thresholds is an
// external config-reload concern.
type Thresholds struct {
	Temperature TemperatureBands `mapstructure:"temperature"`
	Humidity    HumidityBands    `mapstructure:"humidity"`
	PM25        ParticulateBands `mapstructure:"pm25"`
	PM10        ParticulateBands `mapstructure:"pm10"`
	Thermal     ThermalBands     `mapstructure:"thermal"`
	Vibration   VibrationBands   `mapstructure:"vibration"`
}

// ThresholdsFromConfig loads and validates the threshold table from the
// "thresholds" config section. A malformed table is a startup-fatal
// error: the engine must refuse to run with partial thresholds.
func ThresholdsFromConfig(v *viper.Viper) (*Thresholds, error) {
	var t Thresholds
	if err := v.UnmarshalKey("thresholds", &t); err != nil {
		return nil, fmt.Errorf("unmarshal thresholds: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, fmt.Errorf("validate thresholds: %w", err)
	}
	return &t, nil
}

// Validate checks that every band is well-formed and non-overlapping.
func (t *Thresholds) Validate() error {
	if t.Temperature.CriticalHigh <= t.Temperature.High {
		return fmt.Errorf("temperature: critical_high (%v) must exceed high (%v)", t.Temperature.CriticalHigh, t.Temperature.High)
	}
	if t.Temperature.CriticalLow >= t.Temperature.Low {
		return fmt.Errorf("temperature: critical_low (%v) must be below low (%v)", t.Temperature.CriticalLow, t.Temperature.Low)
	}
	if t.Temperature.Low >= t.Temperature.High {
		return fmt.Errorf("temperature: low (%v) must be below high (%v)", t.Temperature.Low, t.Temperature.High)
	}
	if t.Humidity.CriticalHigh <= t.Humidity.High {
		return fmt.Errorf("humidity: critical_high (%v) must exceed high (%v)", t.Humidity.CriticalHigh, t.Humidity.High)
	}
	if t.Humidity.Low >= t.Humidity.High {
		return fmt.Errorf("humidity: low (%v) must be below high (%v)", t.Humidity.Low, t.Humidity.High)
	}
	if err := validateParticulate("pm25", t.PM25); err != nil {
		return err
	}
	if err := validateParticulate("pm10", t.PM10); err != nil {
		return err
	}
	if t.Thermal.CriticalMax <= t.Thermal.HighMax {
		return fmt.Errorf("thermal: critical_max (%v) must exceed high_max (%v)", t.Thermal.CriticalMax, t.Thermal.HighMax)
	}
	if t.Thermal.CriticalAvg <= t.Thermal.HighAvg {
		return fmt.Errorf("thermal: critical_avg (%v) must exceed high_avg (%v)", t.Thermal.CriticalAvg, t.Thermal.HighAvg)
	}
	if t.Vibration.High <= 0 {
		return fmt.Errorf("vibration: high (%v) must be positive", t.Vibration.High)
	}
	if t.Vibration.Critical <= t.Vibration.High {
		return fmt.Errorf("vibration: critical (%v) must exceed high (%v)", t.Vibration.Critical, t.Vibration.High)
	}
	return nil
}

func validateParticulate(name string, b ParticulateBands) error {
	if b.Moderate <= 0 {
		return fmt.Errorf("%s: moderate (%v) must be positive", name, b.Moderate)
	}
	if b.High <= b.Moderate {
		return fmt.Errorf("%s: high (%v) must exceed moderate (%v)", name, b.High, b.Moderate)
	}
	if b.Critical <= b.High {
		return fmt.Errorf("%s: critical (%v) must exceed high (%v)", name, b.Critical, b.High)
	}
	return nil
}
