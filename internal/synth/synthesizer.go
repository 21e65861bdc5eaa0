package synth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/episteme-app/episteme/internal/model"
)

// Synthesizer wraps a provider with the overall synthesis deadline. A
// deadline hit is reported as model.ErrSynthesisTimeout so callers can
// distinguish it from upstream faults.
type Synthesizer struct {
	provider Provider
	timeout  time.Duration
}

// NewSynthesizer creates a new synthesizer around a provider
func NewSynthesizer(provider Provider, timeoutSeconds int) *Synthesizer {
	timeout := time.Duration(timeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 110 * time.Second
	}
	return &Synthesizer{
		provider: provider,
		timeout:  timeout,
	}
}

// Available reports whether a provider is configured
func (s *Synthesizer) Available() bool {
	return s != nil && s.provider != nil
}

// Synthesize generates article prose under the configured deadline
func (s *Synthesizer) Synthesize(ctx context.Context, req SynthesizeRequest) (*SynthesizeResponse, error) {
	if !s.Available() {
		return nil, fmt.Errorf("no LLM provider configured")
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	resp, err := s.provider.Synthesize(ctx, req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w after %s", model.ErrSynthesisTimeout, s.timeout)
		}
		return nil, err
	}

	return resp, nil
}
