package observability

import "errors"

// ErrNilConfig is returned when Validate is called on a nil Config pointer.
var ErrNilConfig = errors.New("observability: config is nil")

// ErrMissingServiceName is returned when observability is enabled but no service name is configured.
var ErrMissingServiceName = errors.New("observability: service name is required when observability is enabled")

// ErrInvalidExporter is returned when the exporter is not "stdout" or "none".
var ErrInvalidExporter = errors.New("observability: exporter must be either 'stdout' or 'none'")
