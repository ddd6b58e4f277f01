package config

// Config is the service configuration document.
type Config struct {
	Version  int            `toml:"version"`
	Database DatabaseConfig `toml:"database"`
	Server   ServerConfig   `toml:"server"`
	Logging  LoggingConfig  `toml:"logging"`
}

// DatabaseConfig locates the SQLite configuration database.
type DatabaseConfig struct {
	Path string `toml:"path"`
}

// ServerConfig controls the HTTP transport.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// LoggingConfig controls log output on the serve path.
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}
