package golang

// New returns the Go language provider.
func New() *Config { return &Config{} }
