package embedding

import (
	"context"
	"errors"
	"time"
)

type timeoutProvider struct {
	next    EmbeddingProvider
	name    string
	timeout time.Duration
}

// WithTimeout bounds each Embed call; an expired deadline is reported as ErrTimeout.
func WithTimeout(next EmbeddingProvider, name string, timeout time.Duration) EmbeddingProvider {
	if timeout <= 0 {
		return next
	}
	return &timeoutProvider{next: next, name: name, timeout: timeout}
}

func (p *timeoutProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	vec, err := p.next.Embed(ctx, text)
	if err != nil {
		return nil, classify(p.name, ctx, err)
	}
	return vec, nil
}

func classify(provider string, ctx context.Context, err error) error {
	if errors.Is(err, ErrTimeout) || errors.Is(err, ErrUnavailable) || errors.Is(err, ErrMalformed) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return wrapErr(ErrTimeout, provider, err)
	}
	return wrapErr(ErrUnavailable, provider, err)
}
