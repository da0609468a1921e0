package config

// Config represents the persistent firewatch configuration stored as
// config.toml in the .firewatch/ directory. The TOML layout uses sections
// for logical grouping.
type Config struct {
	Version   int             `toml:"version"`
	Database  DatabaseConfig  `toml:"database"`
	Functions FunctionsConfig `toml:"functions"`
	Watch     WatchConfig     `toml:"watch"`
	Mirror    MirrorConfig    `toml:"mirror"`
}

// DatabaseConfig identifies the Realtime Database location to operate on.
type DatabaseConfig struct {
	// Host is the database URL, e.g. "https://[PROJECT_ID].firebaseio.com".
	Host string `toml:"host,omitempty"`

	// Path is the database path of interest, e.g. "rooms/lobby".
	Path string `toml:"path,omitempty"`
}

// FunctionsConfig holds the function-call endpoint.
type FunctionsConfig struct {
	Host string `toml:"host,omitempty"`
}

// WatchConfig holds settings for the streaming watch command.
type WatchConfig struct {
	// HeartbeatTimeout is how long the stream may stay silent before the
	// watchdog declares it stale, as a Go duration string ("90s").
	HeartbeatTimeout string `toml:"heartbeat_timeout,omitempty"`

	// Reconnect enables the reconnect supervisor.
	Reconnect bool `toml:"reconnect"`
}

// MirrorConfig holds settings for the local SQLite mirror.
type MirrorConfig struct {
	// SQLitePath is the mirror database file. Empty disables the mirror.
	SQLitePath string `toml:"sqlite_path,omitempty"`

	// Workers is the mirror worker pool size.
	Workers uint `toml:"workers,omitempty"`
}
