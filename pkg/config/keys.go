package config

import (
	"fmt"
	"strconv"
	"time"
)

// keyInfo binds a config key name to its getter and setter on a Config.
type keyInfo struct {
	get func(*Config) string
	set func(*Config, string) error
}

// configKeys is the registry of supported configuration keys, keyed by their
// dotted TOML names.
var configKeys = map[string]keyInfo{
	"database.host": {
		get: func(c *Config) string { return c.Database.Host },
		set: func(c *Config, v string) error { c.Database.Host = v; return nil },
	},
	"database.path": {
		get: func(c *Config) string { return c.Database.Path },
		set: func(c *Config, v string) error { c.Database.Path = v; return nil },
	},
	"functions.host": {
		get: func(c *Config) string { return c.Functions.Host },
		set: func(c *Config, v string) error { c.Functions.Host = v; return nil },
	},
	"watch.heartbeat_timeout": {
		get: func(c *Config) string { return c.Watch.HeartbeatTimeout },
		set: func(c *Config, v string) error {
			if _, err := time.ParseDuration(v); err != nil {
				return fmt.Errorf("invalid duration %q: %w", v, err)
			}
			c.Watch.HeartbeatTimeout = v
			return nil
		},
	},
	"watch.reconnect": {
		get: func(c *Config) string { return strconv.FormatBool(c.Watch.Reconnect) },
		set: func(c *Config, v string) error {
			b, err := strconv.ParseBool(v)
			if err != nil {
				return fmt.Errorf("invalid bool %q: %w", v, err)
			}
			c.Watch.Reconnect = b
			return nil
		},
	},
	"mirror.sqlite_path": {
		get: func(c *Config) string { return c.Mirror.SQLitePath },
		set: func(c *Config, v string) error { c.Mirror.SQLitePath = v; return nil },
	},
	"mirror.workers": {
		get: func(c *Config) string { return strconv.FormatUint(uint64(c.Mirror.Workers), 10) },
		set: func(c *Config, v string) error {
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil {
				return fmt.Errorf("invalid worker count %q: %w", v, err)
			}
			c.Mirror.Workers = uint(n)
			return nil
		},
	},
}

// ValidConfigKeys returns the list of all supported configuration key names
// in a stable, logical order matching the TOML section layout.
func ValidConfigKeys() []string {
	ordered := []string{
		"database.host",
		"database.path",
		"functions.host",
		"watch.heartbeat_timeout",
		"watch.reconnect",
		"mirror.sqlite_path",
		"mirror.workers",
	}

	// Sanity: only return keys that actually exist in the map, then append
	// any registered keys the ordered list missed.
	result := make([]string, 0, len(configKeys))
	seen := make(map[string]bool, len(configKeys))
	for _, k := range ordered {
		if _, ok := configKeys[k]; ok {
			result = append(result, k)
			seen[k] = true
		}
	}
	for k := range configKeys {
		if !seen[k] {
			result = append(result, k)
		}
	}

	return result
}

// IsValidConfigKey returns true if the given key is a supported configuration key.
func IsValidConfigKey(key string) bool {
	_, ok := configKeys[key]
	return ok
}
