package python

// New returns the Python language provider.
func New() *Config { return &Config{} }
