package config

const (
	SchemaVersion = 1
)

// DefaultConfig returns a fully-populated v1 config document.
func DefaultConfig() Config {
	return Config{
		Version: SchemaVersion,
		Database: DatabaseConfig{
			Path: "~/.scanpath/scanpath.db",
		},
		Server: ServerConfig{
			Addr: "localhost:8477",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}
