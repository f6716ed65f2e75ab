package log

// Config controls the global logger.
type Config struct {
	// Name is attached to every entry as the "logger" field.
	Name string `conf:"name" yaml:"name" json:"name"`

	// Level is one of debug, info, warn, error.
	Level string `conf:"level" yaml:"level" json:"level"`

	// Format is "console" or "json".
	Format string `conf:"format" yaml:"format" json:"format"`

	// File enables file output with rotation when Path is set.
	File FileConfig `conf:"file" yaml:"file" json:"file"`
}

// FileConfig configures rotating file output via lumberjack.
type FileConfig struct {
	Path       string `conf:"path" yaml:"path" json:"path"`
	MaxSizeMB  int    `conf:"max_size_mb" yaml:"max_size_mb" json:"max_size_mb"`
	MaxBackups int    `conf:"max_backups" yaml:"max_backups" json:"max_backups"`
	MaxAgeDays int    `conf:"max_age_days" yaml:"max_age_days" json:"max_age_days"`
}

// DefaultConfig is used until SetGlobalConfig is called.
func DefaultConfig() Config {
	return Config{
		Name:   "mediahub",
		Level:  "info",
		Format: "console",
	}
}
