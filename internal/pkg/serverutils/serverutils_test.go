package serverutils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"testing"

	"career-mentor-be/internal/pkg/logger"
	"career-mentor-be/pkg/apperror"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleRequest struct {
	UserId  string `json:"user_id" validate:"required"`
	Message string `json:"message" validate:"required,max=5"`
}

func TestValidateRequest(t *testing.T) {
	assert.NoError(t, ValidateRequest(sampleRequest{UserId: "u1", Message: "hi"}))

	err := ValidateRequest(sampleRequest{Message: "too long"})
	require.Error(t, err)
	assert.True(t, apperror.IsInvalidInput(err))

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "required", verr.Fields["sampleRequest.UserId"])
	assert.Equal(t, "max=5", verr.Fields["sampleRequest.Message"])
}

func TestErrorHandlerMiddleware_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid input", apperror.InvalidInput("op", "bad"), fiber.StatusBadRequest},
		{"not found", apperror.NotFound("op", errors.New("missing")), fiber.StatusNotFound},
		{"store unavailable", apperror.StoreUnavailable("op", errors.New("down")), fiber.StatusServiceUnavailable},
		{"fiber error", fiber.ErrUnprocessableEntity, fiber.StatusUnprocessableEntity},
		{"other", errors.New("boom"), fiber.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			app.Use(ErrorHandlerMiddleware(logger.NewNopLogger()))
			app.Get("/", func(*fiber.Ctx) error { return tt.err })

			resp, err := app.Test(httptest.NewRequest("GET", "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)

			body, _ := io.ReadAll(resp.Body)
			var env map[string]interface{}
			require.NoError(t, json.Unmarshal(body, &env))
			assert.Equal(t, false, env["success"])
			assert.EqualValues(t, tt.want, env["code"])
		})
	}
}
