package generate

import (
	"context"
	"time"
)

// InBatches calls fn with consecutive chunks of at most size words,
// waiting delay between chunks. It stops at the first error; chunks
// already processed stay processed.
func InBatches(ctx context.Context, words []string, size int, delay time.Duration, fn func(ctx context.Context, chunk []string) error) error {
	if size <= 0 {
		size = len(words)
	}
	for start := 0; start < len(words); start += size {
		if start > 0 && delay > 0 {
			t := time.NewTimer(delay)
			select {
			case <-ctx.Done():
				t.Stop()
				return ctx.Err()
			case <-t.C:
			}
		}
		end := min(start+size, len(words))
		if err := fn(ctx, words[start:end]); err != nil {
			return err
		}
	}
	return nil
}
