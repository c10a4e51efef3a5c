package generate

import "time"

// Config holds generation settings.
type Config struct {
	MaxTokens   int
	Temperature float64

	// ChunkSize is the number of words sent per request by callers that
	// use InBatches.
	ChunkSize int

	// ChunkDelay is the pause between consecutive chunks.
	ChunkDelay time.Duration
}

// DefaultConfig returns sensible defaults for content generation.
func DefaultConfig() Config {
	return Config{
		MaxTokens:   2048,
		Temperature: 0.7,
		ChunkSize:   10,
		ChunkDelay:  time.Second,
	}
}
