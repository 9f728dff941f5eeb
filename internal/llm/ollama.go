package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/jask/formdesk/internal/fields"
)

const (
	DefaultOllamaEndpoint = "http://localhost:11434"
	DefaultOllamaModel    = "llama2"
)

// OllamaMapper asks a local Ollama server to map rows.
type OllamaMapper struct {
	endpoint string
	model    string
	timeout  time.Duration
	client   *http.Client
	log      *zap.Logger
}

// NewOllamaMapper creates a mapper against endpoint. Empty arguments take
// the defaults.
func NewOllamaMapper(endpoint, model string, timeout time.Duration, log *zap.Logger) *OllamaMapper {
	if endpoint == "" {
		endpoint = DefaultOllamaEndpoint
	}
	if model == "" {
		model = DefaultOllamaModel
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &OllamaMapper{
		endpoint: endpoint,
		model:    model,
		timeout:  timeout,
		client:   newClient(),
		log:      log,
	}
}

// Generate sends a prompt and returns the model's raw reply.
func (o *OllamaMapper) Generate(ctx context.Context, prompt string) (string, error) {
	ctx, cancel := withTimeout(ctx, o.timeout)
	defer cancel()

	body, err := json.Marshal(generateRequest{Model: o.model, Prompt: prompt, Stream: false})
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("ollama request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return "", fmt.Errorf("ollama returned status %d: %s", resp.StatusCode, string(b))
	}
	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return out.Response, nil
}

// MapRow builds the prompt, calls the model and parses its reply.
func (o *OllamaMapper) MapRow(ctx context.Context, row map[string]fields.Value, columns []string) (Mapped, error) {
	prompt, err := BuildPrompt(row, columns)
	if err != nil {
		return Mapped{}, err
	}
	start := time.Now()
	text, err := o.Generate(ctx, prompt)
	if err != nil {
		return Mapped{}, err
	}
	m, err := ParseMapping(text)
	if err != nil {
		o.log.Warn("unparsable ollama reply", zap.String("model", o.model), zap.Int("bytes", len(text)))
		return Mapped{}, err
	}
	o.log.Debug("row mapped", zap.String("model", o.model), zap.Int("keys", len(m.Keys)), zap.Duration("took", time.Since(start)))
	return m, nil
}

// Name identifies the backend in logs.
func (o *OllamaMapper) Name() string {
	return fmt.Sprintf("ollama:%s", o.model)
}

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// Close drops idle connections.
func (o *OllamaMapper) Close() error {
	o.client.CloseIdleConnections()
	return nil
}
