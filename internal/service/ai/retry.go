package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/schema"
)

// RetryPolicy bounds the external generative calls: a per-attempt timeout and
// a capped exponential backoff between attempts. Callers must never block
// indefinitely on the model.
type RetryPolicy struct {
	Attempts       int
	AttemptTimeout time.Duration
	BackoffBase    time.Duration
}

// DefaultRetryPolicy matches the recommended budget of three attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		Attempts:       3,
		AttemptTimeout: 12 * time.Second,
		BackoffBase:    200 * time.Millisecond,
	}
}

// RetryingGenerator wraps a Generator with the retry policy. It satisfies
// Generator itself so call sites stay oblivious.
type RetryingGenerator struct {
	inner  Generator
	policy RetryPolicy
}

// WithRetry applies the policy to gen. A nil gen stays nil so callers can
// keep their single nil check. A streaming gen keeps its Streamer method set
// through the wrapper.
func WithRetry(gen Generator, policy RetryPolicy) Generator {
	if gen == nil {
		return nil
	}
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if policy.AttemptTimeout <= 0 {
		policy.AttemptTimeout = DefaultRetryPolicy().AttemptTimeout
	}
	if policy.BackoffBase <= 0 {
		policy.BackoffBase = DefaultRetryPolicy().BackoffBase
	}

	base := &RetryingGenerator{inner: gen, policy: policy}
	if streamer, ok := gen.(Streamer); ok {
		return &streamingRetryingGenerator{RetryingGenerator: base, streamer: streamer}
	}
	return base
}

// streamingRetryingGenerator retries Generate like its embedded wrapper but
// forwards Stream untouched: a stream cannot be re-attempted mid-read, and
// the streaming call site already degrades to replaying the stored report.
type streamingRetryingGenerator struct {
	*RetryingGenerator
	streamer Streamer
}

// Stream hands off to the inner generator's stream.
func (s *streamingRetryingGenerator) Stream(ctx context.Context, system, query string) (*schema.StreamReader[*schema.Message], error) {
	return s.streamer.Stream(ctx, system, query)
}

// Generate retries transient failures with exponential backoff, honoring the
// caller's context between attempts.
func (r *RetryingGenerator) Generate(ctx context.Context, system, query string) (string, error) {
	var lastErr error
	backoff := r.policy.BackoffBase

	for attempt := 0; attempt < r.policy.Attempts; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		attemptCtx, cancel := context.WithTimeout(ctx, r.policy.AttemptTimeout)
		result, err := r.inner.Generate(attemptCtx, system, query)
		cancel()
		if err == nil {
			return result, nil
		}
		lastErr = err
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", r.policy.Attempts, lastErr)
}
