package llm

import (
	"context"
	"time"
)

type timeoutProvider struct {
	next    LLMProvider
	timeout time.Duration
	name    string
}

// WithTimeout bounds every call to next. An expired deadline comes back as a
// ProviderError of KindTimeout whatever the adapter returned.
func WithTimeout(next LLMProvider, name string, timeout time.Duration) LLMProvider {
	if timeout <= 0 {
		return next
	}
	return &timeoutProvider{next: next, timeout: timeout, name: name}
}

func (p *timeoutProvider) Chat(ctx context.Context, history []Message, opts ...Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.next.Chat(ctx, history, opts...)
	return out, p.wrap(ctx, err)
}

func (p *timeoutProvider) Generate(ctx context.Context, prompt string, opts ...Option) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	out, err := p.next.Generate(ctx, prompt, opts...)
	return out, p.wrap(ctx, err)
}

func (p *timeoutProvider) wrap(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if ctx.Err() == context.DeadlineExceeded && !IsTimeout(err) {
		return NewProviderError(p.name, KindTimeout, err)
	}
	return Classify(p.name, err)
}
