package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"
)

const defaultBeaconTimeout = 5 * time.Second

// NetHTTPBeaconAdapter delivers beacons with a detached POST. The payload is
// encoded synchronously so later mutation of the events cannot race the
// send; the request itself runs in its own goroutine and its outcome is
// ignored.
type NetHTTPBeaconAdapter struct {
	client  *http.Client
	timeout time.Duration
	wg      sync.WaitGroup
}

var _ BeaconAdapter = (*NetHTTPBeaconAdapter)(nil)

// NewNetHTTPBeaconAdapter creates a beacon adapter. A nil client uses
// http.DefaultClient; a zero timeout defaults to 5s.
func NewNetHTTPBeaconAdapter(client *http.Client, timeout time.Duration) *NetHTTPBeaconAdapter {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = defaultBeaconTimeout
	}
	return &NetHTTPBeaconAdapter{client: client, timeout: timeout}
}

func (b *NetHTTPBeaconAdapter) SendBeacon(endpoint string, events []Event) bool {
	data, err := json.Marshal(EventsPayload{Events: events})
	if err != nil {
		return false
	}
	req, err := http.NewRequest(http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		defer cancel()

		resp, err := b.client.Do(req.WithContext(ctx))
		if err != nil {
			return
		}
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()
	return true
}

// Wait blocks until every beacon issued so far has completed or timed out.
// Processes that exit right after SendBeacon call it to give the request a
// chance to leave.
func (b *NetHTTPBeaconAdapter) Wait() {
	b.wg.Wait()
}
