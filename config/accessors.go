package config

import "time"

// GetString retrieves a string value from the configuration or the provided default.
func (c *Config) GetString(key string, defaultVal ...string) string {
	if c == nil || c.k == nil || !c.k.Exists(key) {
		return optionalDefault("", defaultVal...)
	}
	return c.k.String(key)
}

// GetInt retrieves an int value from the configuration or the provided default.
func (c *Config) GetInt(key string, defaultVal ...int) int {
	if c == nil || c.k == nil || !c.k.Exists(key) {
		return optionalDefault(0, defaultVal...)
	}
	return c.k.Int(key)
}

// GetBool retrieves a bool value from the configuration or the provided default.
func (c *Config) GetBool(key string, defaultVal ...bool) bool {
	if c == nil || c.k == nil || !c.k.Exists(key) {
		return optionalDefault(false, defaultVal...)
	}
	return c.k.Bool(key)
}

// GetDuration retrieves a duration value from the configuration or the provided default.
func (c *Config) GetDuration(key string, defaultVal ...time.Duration) time.Duration {
	if c == nil || c.k == nil || !c.k.Exists(key) {
		return optionalDefault(time.Duration(0), defaultVal...)
	}
	return c.k.Duration(key)
}

// All returns every effective key and value, flattened.
func (c *Config) All() map[string]any {
	if c == nil || c.k == nil {
		return map[string]any{}
	}
	return c.k.All()
}

// Keys returns the effective keys in sorted order.
func (c *Config) Keys() []string {
	if c == nil || c.k == nil {
		return nil
	}
	return c.k.Keys()
}

func optionalDefault[T any](zero T, defaultVal ...T) T {
	if len(defaultVal) > 0 {
		return defaultVal[0]
	}
	return zero
}
