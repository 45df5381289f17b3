// Package harvester holds harvester-specific configuration settings.
package harvester

// Config represents harvester-specific configuration settings.
type Config struct {
	// SourcesFile is the path to the source definitions file. When empty
	// the built-in catalog source is used.
	SourcesFile string `yaml:"sources_file"`
	// Source names which entry from the sources file to harvest. When
	// empty the first entry is used.
	Source string `yaml:"source"`
}

// New creates a new harvester configuration with the given options.
func New(opts ...Option) *Config {
	cfg := &Config{}

	for _, opt := range opts {
		opt(cfg)
	}

	return cfg
}

// Option is a function that configures a harvester configuration.
type Option func(*Config)

// WithSourcesFile sets the source definitions file path.
func WithSourcesFile(path string) Option {
	return func(c *Config) {
		c.SourcesFile = path
	}
}

// WithSource sets the named source to harvest.
func WithSource(name string) Option {
	return func(c *Config) {
		c.Source = name
	}
}
