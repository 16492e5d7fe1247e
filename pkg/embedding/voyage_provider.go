package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// VoyageProvider calls the Voyage AI embeddings endpoint (1024 dims for voyage-3).
type VoyageProvider struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
}

type voyageRequest struct {
	Model     string   `json:"model"`
	Input     []string `json:"input"`
	InputType string   `json:"input_type,omitempty"`
}

type voyageResponse struct {
	Data []struct {
		Object    string    `json:"object"`
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
	Detail string `json:"detail,omitempty"`
}

func NewVoyageProvider(apiKey, baseURL, model string) *VoyageProvider {
	if baseURL == "" {
		baseURL = "https://api.voyageai.com/v1"
	}
	if model == "" {
		model = "voyage-3"
	}
	return &VoyageProvider{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		client:  &http.Client{Timeout: 60 * time.Second},
	}
}

func (p *VoyageProvider) Embed(ctx context.Context, text string) ([]float32, error) {
	jsonData, err := json.Marshal(voyageRequest{Model: p.model, Input: []string{text}, InputType: "document"})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/embeddings", bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", p.apiKey))

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, classify("voyage", ctx, err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, classify("voyage", ctx, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, wrapErr(ErrUnavailable, "voyage", fmt.Errorf("status %d: %s", resp.StatusCode, string(bodyBytes)))
	}

	var voyageResp voyageResponse
	if err := json.Unmarshal(bodyBytes, &voyageResp); err != nil {
		return nil, wrapErr(ErrMalformed, "voyage", err)
	}
	if len(voyageResp.Data) == 0 || len(voyageResp.Data[0].Embedding) == 0 {
		return nil, wrapErr(ErrMalformed, "voyage", fmt.Errorf("empty embeddings"))
	}

	return voyageResp.Data[0].Embedding, nil
}
