package observability

import (
	"io"
	"time"
)

// Exporter names accepted by Config.Exporter
const (
	ExporterStdout = "stdout"
	ExporterNone   = "none"
)

const (
	// DefaultMetricInterval is how often metrics are exported
	DefaultMetricInterval = 30 * time.Second
	// DefaultServiceName is reported when none is configured
	DefaultServiceName = "stockdeal-cli"
)

// Config selects and configures the telemetry exporters.
type Config struct {
	Enabled     bool
	Exporter    string
	ServiceName string
	Version     string
	// Writer receives stdout exporter output; nil means os.Stderr
	Writer io.Writer
	// MetricInterval is the periodic export interval
	MetricInterval time.Duration
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Exporter == "" {
		c.Exporter = ExporterStdout
	}
	if c.ServiceName == "" {
		c.ServiceName = DefaultServiceName
	}
	if c.MetricInterval <= 0 {
		c.MetricInterval = DefaultMetricInterval
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c == nil {
		return ErrNilConfig
	}
	if !c.Enabled {
		return nil
	}
	switch c.Exporter {
	case ExporterStdout, ExporterNone:
	default:
		return ErrInvalidExporter
	}
	if c.ServiceName == "" {
		return ErrMissingServiceName
	}
	return nil
}
