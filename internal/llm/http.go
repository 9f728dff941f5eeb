package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jask/formdesk/internal/fields"
)

// MapPath is the mapping service route.
const MapPath = "/api/ollama-map"

// HTTPMapper calls a running mapping service.
type HTTPMapper struct {
	baseURL string
	timeout time.Duration
	client  *http.Client
}

// NewHTTPMapper creates a client for the service at baseURL.
func NewHTTPMapper(baseURL string, timeout time.Duration) *HTTPMapper {
	return &HTTPMapper{
		baseURL: strings.TrimRight(baseURL, "/"),
		timeout: timeout,
		client:  newClient(),
	}
}

// ServiceError is a non-200 reply from the mapping service.
type ServiceError struct {
	Status int
	Msg    string
	Raw    string
}

func (e *ServiceError) Error() string {
	return fmt.Sprintf("mapping service returned %d: %s", e.Status, e.Msg)
}

// MapRow posts the row and decodes the returned object.
func (h *HTTPMapper) MapRow(ctx context.Context, row map[string]fields.Value, columns []string) (Mapped, error) {
	ctx, cancel := withTimeout(ctx, h.timeout)
	defer cancel()

	body, err := json.Marshal(MapRequest{Row: row, Columns: columns})
	if err != nil {
		return Mapped{}, fmt.Errorf("failed to marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+MapPath, bytes.NewReader(body))
	if err != nil {
		return Mapped{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return Mapped{}, fmt.Errorf("mapping request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return Mapped{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
			Raw   string `json:"raw"`
		}
		_ = json.Unmarshal(data, &e)
		if e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return Mapped{}, &ServiceError{Status: resp.StatusCode, Msg: e.Error, Raw: e.Raw}
	}
	m, err := decodeObject(data)
	if err != nil {
		return Mapped{}, fmt.Errorf("failed to decode mapping: %w", err)
	}
	return m, nil
}

// Close drops idle connections.
func (h *HTTPMapper) Close() error {
	h.client.CloseIdleConnections()
	return nil
}
