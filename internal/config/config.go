// Package config provides configuration loading and logger construction
// for RoomSentry.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Load reads configuration from the given path, or searches the standard
// locations when path is empty. A missing config file is not an error;
// defaults apply.
func Load(configPath string) (*viper.Viper, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("database.path", "./data/roomsentry.db")

	// Alert engine defaults
	v.SetDefault("alerts.dedup_window", "30s")
	v.SetDefault("alerts.lookup_timeout", "3s")
	v.SetDefault("alerts.query_limit", 200)

	// Threshold defaults. Overrides must keep the bands well-formed or
	// startup fails.
	v.SetDefault("thresholds.temperature.critical_high", 35.0)
	v.SetDefault("thresholds.temperature.high", 30.0)
	v.SetDefault("thresholds.temperature.critical_low", 5.0)
	v.SetDefault("thresholds.temperature.low", 10.0)
	v.SetDefault("thresholds.humidity.critical_high", 80.0)
	v.SetDefault("thresholds.humidity.high", 70.0)
	v.SetDefault("thresholds.humidity.low", 20.0)
	v.SetDefault("thresholds.pm25.critical", 150.5)
	v.SetDefault("thresholds.pm25.high", 55.5)
	v.SetDefault("thresholds.pm25.moderate", 35.5)
	v.SetDefault("thresholds.pm10.critical", 425.0)
	v.SetDefault("thresholds.pm10.high", 255.0)
	v.SetDefault("thresholds.pm10.moderate", 155.0)
	v.SetDefault("thresholds.thermal.critical_max", 70.0)
	v.SetDefault("thresholds.thermal.critical_avg", 60.0)
	v.SetDefault("thresholds.thermal.high_max", 60.0)
	v.SetDefault("thresholds.thermal.high_avg", 50.0)
	v.SetDefault("thresholds.vibration.critical", 5.0)
	v.SetDefault("thresholds.vibration.high", 2.0)

	// Room registry defaults: every room is monitored unless listed.
	v.SetDefault("rooms.unmonitored", []string{})

	// Notification defaults.
	v.SetDefault("notify.webhook.url", "")
	v.SetDefault("notify.webhook.timeout", "10s")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("roomsentry")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("/etc/roomsentry")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("ROOMSENTRY")
	v.AutomaticEnv()

	return v, nil
}
