package ollama

import (
	"career-mentor-be/pkg/llm"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChat_SendsExplicitZeroTemperature(t *testing.T) {
	var captured map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/chat", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		_, _ = w.Write([]byte(`{"model":"llama3","message":{"role":"assistant","content":"hello"},"done":true}`))
	}))
	defer srv.Close()

	p := NewOllamaProvider(srv.URL, "llama3")
	out, err := p.Generate(context.Background(), "hi", llm.WithTemperature(0))

	require.NoError(t, err)
	assert.Equal(t, "hello", out)

	opts := captured["options"].(map[string]interface{})
	assert.Equal(t, 0.0, opts["temperature"])
	assert.Equal(t, false, captured["stream"])
}

func TestChat_ErrorKinds(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		check   func(t *testing.T, err error)
	}{
		{
			name: "non 200 is unavailable",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
			},
			check: func(t *testing.T, err error) {
				assert.False(t, llm.IsTimeout(err))
				assert.False(t, llm.IsMalformed(err))
			},
		},
		{
			name: "garbage body is malformed",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("not json"))
			},
			check: func(t *testing.T, err error) {
				assert.True(t, llm.IsMalformed(err))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(tt.handler)
			defer srv.Close()

			_, err := NewOllamaProvider(srv.URL, "llama3").Generate(context.Background(), "hi")
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestChat_TimeoutDecorator(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	p := llm.WithTimeout(NewOllamaProvider(srv.URL, "llama3"), providerName, 50*time.Millisecond)
	_, err := p.Generate(context.Background(), "hi")

	require.Error(t, err)
	assert.True(t, llm.IsTimeout(err))
	assert.False(t, llm.IsMalformed(err))
}
