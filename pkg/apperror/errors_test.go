package apperror

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindsMatchThroughWrapping(t *testing.T) {
	cause := errors.New("connection refused")
	err := fmt.Errorf("load context: %w", StoreUnavailable("memory.retrieve", cause))

	assert.True(t, IsStoreUnavailable(err))
	assert.False(t, IsInvalidInput(err))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "memory.retrieve")
}

func TestProviderDegradedKeepsDeadline(t *testing.T) {
	err := ProviderDegraded("llm.generate", context.DeadlineExceeded)

	assert.ErrorIs(t, err, ErrProviderDegraded)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestInvalidInputMessage(t *testing.T) {
	err := InvalidInput("run_turn", "message is empty")

	assert.True(t, IsInvalidInput(err))
	assert.Equal(t, "run_turn: invalid input: message is empty", err.Error())
}
