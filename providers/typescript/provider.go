package typescript

// New returns the TypeScript/TSX language provider.
func New() *Config { return &Config{} }
