package config

const (
	defaultHeartbeatTimeout = "90s"
	defaultReconnect        = true
	defaultMirrorWorkers    = 3
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Watch: WatchConfig{
			HeartbeatTimeout: defaultHeartbeatTimeout,
			Reconnect:        defaultReconnect,
		},
		Mirror: MirrorConfig{
			Workers: defaultMirrorWorkers,
		},
	}
}
