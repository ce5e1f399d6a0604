package config

import (
	"time"

	"github.com/knadh/koanf/v2"
)

// Config represents the client configuration. The koanf instance is kept
// for generic key access (see accessors.go).
type Config struct {
	API           APIConfig           `koanf:"api" json:"api" yaml:"api"`
	Retry         RetryConfig         `koanf:"retry" json:"retry" yaml:"retry"`
	RateLimit     RateLimitConfig     `koanf:"ratelimit" json:"ratelimit" yaml:"ratelimit"`
	Log           LogConfig           `koanf:"log" json:"log" yaml:"log"`
	State         StateConfig         `koanf:"state" json:"state" yaml:"state"`
	Trace         TraceConfig         `koanf:"trace" json:"trace" yaml:"trace"`
	Observability ObservabilityConfig `koanf:"observability" json:"observability" yaml:"observability"`

	// k holds the underlying Koanf instance for flexible access
	k *koanf.Koanf `json:"-" yaml:"-"`
}

// APIConfig holds the remote API settings.
type APIConfig struct {
	Base    string        `koanf:"base" json:"base" yaml:"base" validate:"required,url"`
	Timeout time.Duration `koanf:"timeout" json:"timeout" yaml:"timeout" validate:"gt=0"`
}

// RetryConfig holds the default retry policy.
type RetryConfig struct {
	Count int           `koanf:"count" json:"count" yaml:"count" validate:"gte=0,lte=10"`
	Delay time.Duration `koanf:"delay" json:"delay" yaml:"delay" validate:"gte=0"`
}

// RateLimitConfig holds client-side throttling. RPS 0 disables it.
type RateLimitConfig struct {
	RPS   float64 `koanf:"rps" json:"rps" yaml:"rps" validate:"gte=0"`
	Burst int     `koanf:"burst" json:"burst" yaml:"burst" validate:"gte=0"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level    string `koanf:"level" json:"level" yaml:"level" validate:"oneof=debug info warn error disabled"`
	Pretty   bool   `koanf:"pretty" json:"pretty" yaml:"pretty"`
	Payloads bool   `koanf:"payloads" json:"payloads" yaml:"payloads"`
}

// StateConfig locates the persisted client state. An empty path means the
// user config directory.
type StateConfig struct {
	Path string `koanf:"path" json:"path" yaml:"path"`
}

// TraceConfig holds trace header settings.
type TraceConfig struct {
	W3C bool `koanf:"w3c" json:"w3c" yaml:"w3c"`
}

// ObservabilityConfig selects the telemetry exporter.
type ObservabilityConfig struct {
	Enabled  bool   `koanf:"enabled" json:"enabled" yaml:"enabled"`
	Exporter string `koanf:"exporter" json:"exporter" yaml:"exporter" validate:"oneof=stdout none"`
	Service  string `koanf:"service" json:"service" yaml:"service" validate:"required"`
}
