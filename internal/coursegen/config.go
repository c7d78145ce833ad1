package coursegen

// Config holds outline generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64
}

// DefaultConfig returns sensible defaults for outline generation. A full
// outline is an order of magnitude larger than a single activity, so the
// token ceiling is generous.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   8192,
		Temperature: 0.7,
	}
}
