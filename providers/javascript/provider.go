package javascript

// New returns the JavaScript language provider.
func New() *Config { return &Config{} }
