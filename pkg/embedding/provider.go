package embedding

import (
	"context"
	"errors"
	"fmt"
)

// EmbeddingProvider turns text into a dense vector.
type EmbeddingProvider interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

var (
	ErrTimeout     = errors.New("embedding timeout")
	ErrUnavailable = errors.New("embedding service unavailable")
	ErrMalformed   = errors.New("malformed embedding response")
)

func wrapErr(kind error, provider string, err error) error {
	return fmt.Errorf("%s: %w: %w", provider, kind, err)
}
