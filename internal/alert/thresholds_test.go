package alert

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
)

func TestValidateAcceptsDefaults(t *testing.T) {
	if err := testThresholds().Validate(); err != nil {
		t.Fatalf("default-shaped thresholds should validate: %v", err)
	}
}

func TestValidateRejectsInvertedBands(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Thresholds)
		wantErr string
	}{
		{"temp critical below high", func(th *Thresholds) { th.Temperature.CriticalHigh = 25 }, "temperature"},
		{"temp low above high", func(th *Thresholds) { th.Temperature.Low = 31 }, "temperature"},
		{"humidity inverted", func(th *Thresholds) { th.Humidity.CriticalHigh = 60 }, "humidity"},
		{"pm25 zero moderate", func(th *Thresholds) { th.PM25.Moderate = 0 }, "pm25"},
		{"pm10 critical below high", func(th *Thresholds) { th.PM10.Critical = 100 }, "pm10"},
		{"thermal inverted", func(th *Thresholds) { th.Thermal.CriticalMax = 50 }, "thermal"},
		{"vibration inverted", func(th *Thresholds) { th.Vibration.Critical = 1 }, "vibration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th := testThresholds()
			tt.mutate(th)
			err := th.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestThresholdsFromConfig(t *testing.T) {
	v := viper.New()
	v.Set("thresholds.temperature.critical_high", 35.0)
	v.Set("thresholds.temperature.high", 30.0)
	v.Set("thresholds.temperature.critical_low", 5.0)
	v.Set("thresholds.temperature.low", 10.0)
	v.Set("thresholds.humidity.critical_high", 80.0)
	v.Set("thresholds.humidity.high", 70.0)
	v.Set("thresholds.humidity.low", 20.0)
	v.Set("thresholds.pm25.critical", 150.5)
	v.Set("thresholds.pm25.high", 55.5)
	v.Set("thresholds.pm25.moderate", 35.5)
	v.Set("thresholds.pm10.critical", 425.0)
	v.Set("thresholds.pm10.high", 255.0)
	v.Set("thresholds.pm10.moderate", 155.0)
	v.Set("thresholds.thermal.critical_max", 70.0)
	v.Set("thresholds.thermal.critical_avg", 60.0)
	v.Set("thresholds.thermal.high_max", 60.0)
	v.Set("thresholds.thermal.high_avg", 50.0)
	v.Set("thresholds.vibration.critical", 5.0)
	v.Set("thresholds.vibration.high", 2.0)

	th, err := ThresholdsFromConfig(v)
	if err != nil {
		t.Fatalf("ThresholdsFromConfig: %v", err)
	}
	if th.PM25.Critical != 150.5 {
		t.Errorf("pm25 critical = %v", th.PM25.Critical)
	}

	v.Set("thresholds.vibration.high", 0.0)
	if _, err := ThresholdsFromConfig(v); err == nil {
		t.Error("expected error for zero vibration threshold")
	}
}
