package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"
)

// Interval bounds. A configured interval outside its valid range is replaced
// by the default, with a warning - it is not a fatal configuration error.
const (
	DefaultPollInterval = time.Minute
	MinPollInterval     = 10 * time.Second
	MaxPollInterval     = time.Hour

	DefaultRefreshInterval = time.Hour
	MinRefreshInterval     = time.Minute
	MaxRefreshInterval     = 24 * time.Hour
)

// DefaultLivenessFile is where the cycle-complete marker is written when the
// config does not name a path.
const DefaultLivenessFile = "/tmp/shellyflux-alive"

type InfluxConfig struct {
	Url    string `json:"url"`
	Org    string `json:"org"`
	Bucket string `json:"bucket"`
	// token is usually specified via the INFLUX_TOKEN env var
	Token string `json:"token"`
}

type ShellyCloudConfig struct {
	Url string `json:"url"`
	// authKey is usually specified via the SHELLY_CLOUD_AUTH_KEY env var
	AuthKey string `json:"authKey"`
}

type LocalDeviceConfig struct {
	Name string `json:"name"`
	Url  string `json:"url"`
}

type Config struct {
	Influx              InfluxConfig        `json:"influx"`
	ShellyCloud         ShellyCloudConfig   `json:"shellyCloud"`
	PollIntervalSecs    int                 `json:"pollIntervalSecs"`
	RefreshIntervalSecs int                 `json:"refreshIntervalSecs"`
	LivenessFile        string              `json:"livenessFile"`
	Devices             []LocalDeviceConfig `json:"devices"`
}

// Read loads the configuration file, applies environment variable overrides
// and validates the result. Env vars always take precedence over
// file-provided values for credential and endpoint fields.
func Read(path string) (Config, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	var config Config
	err = json.Unmarshal(content, &config)
	if err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}

	config.applyEnvOverrides()

	err = config.validate()
	if err != nil {
		return Config{}, fmt.Errorf("validate config: %w", err)
	}

	if config.LivenessFile == "" {
		config.LivenessFile = DefaultLivenessFile
	}

	return config, nil
}

func (c *Config) applyEnvOverrides() {
	overrideFromEnv(&c.Influx.Url, "INFLUX_URL")
	overrideFromEnv(&c.Influx.Org, "INFLUX_ORG")
	overrideFromEnv(&c.Influx.Bucket, "INFLUX_BUCKET")
	overrideFromEnv(&c.Influx.Token, "INFLUX_TOKEN")
	overrideFromEnv(&c.ShellyCloud.Url, "SHELLY_CLOUD_URL")
	overrideFromEnv(&c.ShellyCloud.AuthKey, "SHELLY_CLOUD_AUTH_KEY")
}

func overrideFromEnv(field *string, key string) {
	if value, ok := os.LookupEnv(key); ok {
		*field = value
	}
}

func (c *Config) validate() error {
	if c.Influx.Url == "" {
		return errors.New("influx url is required")
	}
	if c.Influx.Org == "" {
		return errors.New("influx org is required")
	}
	if c.Influx.Bucket == "" {
		return errors.New("influx bucket is required")
	}
	if c.Influx.Token == "" {
		return errors.New("influx token is required")
	}
	if c.ShellyCloud.Url == "" {
		return errors.New("shelly cloud url is required")
	}
	if c.ShellyCloud.AuthKey == "" {
		return errors.New("shelly cloud auth key is required")
	}
	for i, device := range c.Devices {
		if device.Name == "" {
			return fmt.Errorf("local device %d has no name", i)
		}
		if device.Url == "" {
			return fmt.Errorf("local device '%s' has no url", device.Name)
		}
	}
	return nil
}

// PollInterval returns the configured poll interval, or the default when the
// field is unset or out of range.
func (c *Config) PollInterval() time.Duration {
	return intervalOrDefault("pollIntervalSecs", c.PollIntervalSecs, MinPollInterval, MaxPollInterval, DefaultPollInterval)
}

// RefreshInterval returns the configured directory refresh interval, or the
// default when the field is unset or out of range.
func (c *Config) RefreshInterval() time.Duration {
	return intervalOrDefault("refreshIntervalSecs", c.RefreshIntervalSecs, MinRefreshInterval, MaxRefreshInterval, DefaultRefreshInterval)
}

func intervalOrDefault(name string, secs int, min, max, fallback time.Duration) time.Duration {
	if secs == 0 {
		return fallback
	}
	interval := time.Duration(secs) * time.Second
	if interval < min || interval > max {
		slog.Warn(
			"Configured interval out of range, using default",
			"field", name,
			"configured_secs", secs,
			"default", fallback,
		)
		return fallback
	}
	return interval
}
