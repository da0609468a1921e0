package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/rediaas/firewatch/pkg/dotdir"
)

// InitViper creates and returns a configured *viper.Viper.
// It sets defaults from NewDefaultConfig(), reads the config.toml file
// (if found via dotdir resolution), and binds environment variables
// with the FIREWATCH_ prefix.
//
// Config precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (FIREWATCH_DATABASE_HOST, FIREWATCH_WATCH_RECONNECT, etc.)
//  3. config.toml file values
//  4. Defaults from NewDefaultConfig()
func InitViper(configDir string) (*viper.Viper, error) {
	v := viper.New()

	// 1. Register all defaults from NewDefaultConfig().
	setViperDefaults(v)

	// 2. Config file discovery via dotdir resolution.
	v.SetConfigName("config")
	v.SetConfigType("toml")

	ddm := dotdir.NewManager()
	target, err := ddm.Target(configDir)
	if err != nil {
		return nil, fmt.Errorf("resolving config dir: %w", err)
	}

	if target != "" {
		v.AddConfigPath(target)
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found errors are fine, defaults will apply.
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	// 3. Environment variables: FIREWATCH_DATABASE_HOST, FIREWATCH_MIRROR_SQLITE_PATH, etc.
	v.SetEnvPrefix("FIREWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v, nil
}

// setViperDefaults registers defaults from NewDefaultConfig() into viper
// using dotted-key notation. This keeps defaults.go as the single source of truth.
func setViperDefaults(v *viper.Viper) {
	d := NewDefaultConfig()

	v.SetDefault("version", d.Version)

	// Database
	v.SetDefault("database.host", d.Database.Host)
	v.SetDefault("database.path", d.Database.Path)

	// Functions
	v.SetDefault("functions.host", d.Functions.Host)

	// Watch
	v.SetDefault("watch.heartbeat_timeout", d.Watch.HeartbeatTimeout)
	v.SetDefault("watch.reconnect", d.Watch.Reconnect)

	// Mirror
	v.SetDefault("mirror.sqlite_path", d.Mirror.SQLitePath)
	v.SetDefault("mirror.workers", d.Mirror.Workers)
}
