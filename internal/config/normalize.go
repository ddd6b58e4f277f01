package config

func Normalize(cfg Config) Config {
	if cfg.Version == 0 {
		cfg.Version = SchemaVersion
	}
	if cfg.Database.Path == "" {
		cfg.Database.Path = "~/.scanpath/scanpath.db"
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = "localhost:8477"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	return cfg
}
