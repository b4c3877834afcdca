// Package ratelimit provides a rate-limiting decorator for LLM services.
// Cloud providers throttle aggressively during concurrent summarisation, so
// outbound generation calls pass through a token bucket before dispatch.
package ratelimit

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/docent-ai/docent/internal/core/ports/driven"
)

// Ensure LLMService implements the interface.
var _ driven.LLMService = (*LLMService)(nil)

// DefaultBurst is the token bucket burst size.
const DefaultBurst = 1

// LLMService wraps another LLM service with proactive throttling.
type LLMService struct {
	inner  driven.LLMService
	bucket *rate.Limiter
}

// NewLLMService wraps the inner service with a token bucket limiting
// Generate calls to requestsPerSecond. A non-positive rate returns the
// inner service unwrapped.
func NewLLMService(inner driven.LLMService, requestsPerSecond float64) driven.LLMService {
	if requestsPerSecond <= 0 {
		return inner
	}
	return &LLMService{
		inner:  inner,
		bucket: rate.NewLimiter(rate.Limit(requestsPerSecond), DefaultBurst),
	}
}

// Generate blocks until the bucket permits a request, then delegates.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	if err := s.bucket.Wait(ctx); err != nil {
		return "", err
	}
	return s.inner.Generate(ctx, prompt, opts)
}

// ModelName returns the wrapped service's model name.
func (s *LLMService) ModelName() string {
	return s.inner.ModelName()
}

// Ping delegates without consuming a token. Pings are lightweight
// connectivity checks, not inference calls.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.inner.Ping(ctx)
}

// Close releases the wrapped service's resources.
func (s *LLMService) Close() error {
	return s.inner.Close()
}
