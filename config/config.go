// Package config loads the client configuration from defaults, an optional
// YAML file, an optional .env file and STOCKDEAL_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

const (
	// EnvPrefix is the prefix of environment variables read as config keys
	EnvPrefix = "STOCKDEAL_"
	// DefaultConfigFile is read from the working directory when present
	DefaultConfigFile = "stockdeal.yaml"
	// DefaultEnvFile is read from the working directory when present
	DefaultEnvFile = ".env"
)

type loadOptions struct {
	configFile string
	envFile    string
	yamlDoc    []byte
	environ    func() []string
	overrides  map[string]any
}

// Option customizes Load.
type Option func(*loadOptions)

// WithConfigFile reads YAML from path instead of DefaultConfigFile. An
// explicitly named file must exist.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithEnvFile reads dotenv entries from path instead of DefaultEnvFile.
// An empty path disables dotenv loading.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithYAML loads an in-memory YAML document after the config file.
func WithYAML(doc []byte) Option {
	return func(o *loadOptions) {
		o.yamlDoc = doc
	}
}

// WithEnviron replaces os.Environ as the environment source.
func WithEnviron(fn func() []string) Option {
	return func(o *loadOptions) {
		o.environ = fn
	}
}

// WithOverrides applies key/value pairs above every other source, such as
// values from command-line flags.
func WithOverrides(values map[string]any) Option {
	return func(o *loadOptions) {
		o.overrides = values
	}
}

// Load loads configuration from multiple sources with priority:
// 1. Overrides (highest priority)
// 2. Environment variables
// 3. .env file
// 4. YAML configuration
// 5. Default values (lowest priority)
func Load(opts ...Option) (*Config, error) {
	o := loadOptions{envFile: DefaultEnvFile, environ: os.Environ}
	explicitFile := false
	for _, opt := range opts {
		opt(&o)
	}
	if o.configFile != "" {
		explicitFile = true
	} else {
		o.configFile = DefaultConfigFile
	}

	k := koanf.New(".")

	if err := loadDefaults(k); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if err := loadYAMLFile(k, o.configFile, explicitFile); err != nil {
		return nil, err
	}

	if len(o.yamlDoc) > 0 {
		if err := k.Load(rawbytes.Provider(o.yamlDoc), yaml.Parser()); err != nil {
			return nil, NewLoadError("yaml document", err)
		}
	}

	if err := loadDotEnv(k, o.envFile); err != nil {
		return nil, err
	}

	if err := k.Load(env.Provider(".", env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: transformEnv,
		EnvironFunc:   o.environ,
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if len(o.overrides) > 0 {
		if err := k.Load(confmap.Provider(o.overrides, "."), nil); err != nil {
			return nil, fmt.Errorf("failed to apply overrides: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, &Error{Category: CategoryInvalid, Message: "could not decode configuration", Err: err}
	}
	cfg.k = k

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// transformEnv maps STOCKDEAL_API_BASE to api.base. Empty values are skipped.
func transformEnv(key, value string) (string, any) {
	if value == "" {
		return "", nil
	}
	key = strings.TrimPrefix(key, EnvPrefix)
	return strings.ReplaceAll(strings.ToLower(key), "_", "."), value
}

func loadDefaults(k *koanf.Koanf) error {
	defaults := map[string]any{
		"api.base":    "http://localhost:8000",
		"api.timeout": "8s",

		"retry.count": 1,
		"retry.delay": "300ms",

		"ratelimit.rps":   0.0,
		"ratelimit.burst": 1,

		"log.level":    "info",
		"log.pretty":   false,
		"log.payloads": false,

		"state.path": "",

		"trace.w3c": false,

		"observability.enabled":  false,
		"observability.exporter": "stdout",
		"observability.service":  "stockdeal-cli",
	}

	return k.Load(confmap.Provider(defaults, "."), nil)
}

func loadYAMLFile(k *koanf.Koanf, path string, required bool) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) && !required {
			return nil
		}
		return NewLoadError(path, err)
	}
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
		return NewLoadError(path, err)
	}
	return nil
}

// loadDotEnv reads prefixed entries from a dotenv file without touching
// the process environment.
func loadDotEnv(k *koanf.Koanf, path string) error {
	if path == "" {
		return nil
	}
	entries, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return NewLoadError(path, err)
	}

	values := make(map[string]any, len(entries))
	for name, value := range entries {
		if !strings.HasPrefix(name, EnvPrefix) {
			continue
		}
		if key, v := transformEnv(name, value); key != "" {
			values[key] = v
		}
	}
	if len(values) == 0 {
		return nil
	}
	return k.Load(confmap.Provider(values, "."), nil)
}
