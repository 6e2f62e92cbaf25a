package config

// Config holds docforge configuration.
type Config struct {
	// TemplatesDir is the directory holding action template files.
	TemplatesDir string `mapstructure:"templates_dir" yaml:"templates_dir"`
	// ActionsFile optionally overrides or extends the action catalogue.
	ActionsFile string `mapstructure:"actions_file" yaml:"actions_file"`
	// CountriesFile optionally extends the country table.
	CountriesFile string `mapstructure:"countries_file" yaml:"countries_file"`
	// OutputDir is where generated documents are written.
	OutputDir string `mapstructure:"output_dir" yaml:"output_dir"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	// TemplateLoadRetries is the attempt count for template reads.
	TemplateLoadRetries uint `mapstructure:"template_load_retries" yaml:"template_load_retries"`
	// WatchTemplates re-extracts form schemas when template files change.
	WatchTemplates bool `mapstructure:"watch_templates" yaml:"watch_templates"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		TemplatesDir:        "templates",
		OutputDir:           "out",
		LogLevel:            "info",
		TemplateLoadRetries: 3,
		WatchTemplates:      true,
	}
}
