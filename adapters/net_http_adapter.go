package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
)

// NetHTTPAdapter is the standard HTTP adapter implementation using net/http package.
// Requests carry the client's cookies, mirroring a browser fetch with
// credentials included.
type NetHTTPAdapter struct {
	client *http.Client
}

// Ensure NetHTTPAdapter implements HTTPAdapter interface
var _ HTTPAdapter = (*NetHTTPAdapter)(nil)

// NewNetHTTPAdapter creates a new NetHTTPAdapter with its own cookie jar.
func NewNetHTTPAdapter() *NetHTTPAdapter {
	jar, _ := cookiejar.New(nil)
	return NewNetHTTPAdapterWithClient(&http.Client{Jar: jar})
}

// NewNetHTTPAdapterWithClient wraps an existing client. Share the client
// with the rest of the application to share its cookie jar.
func NewNetHTTPAdapterWithClient(client *http.Client) *NetHTTPAdapter {
	return &NetHTTPAdapter{client: client}
}

// Client returns the underlying http.Client.
func (h *NetHTTPAdapter) Client() *http.Client {
	return h.client
}

// Send posts {"events": [...]} to endpoint. The response body is drained and
// discarded.
func (h *NetHTTPAdapter) Send(ctx context.Context, endpoint string, events []Event, headers map[string]string) (*HTTPResponse, error) {
	jsonData, err := json.Marshal(EventsPayload{Events: events})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal events: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	return &HTTPResponse{
		Status: resp.StatusCode,
		OK:     resp.StatusCode >= 200 && resp.StatusCode < 300,
	}, nil
}
