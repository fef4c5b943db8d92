package analytics

import (
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/coder/quartz"

	"github.com/dailydotdev/analytics-go/adapters"
)

// Re-export adapter types for convenience
type (
	Event         = adapters.Event
	HTTPAdapter   = adapters.HTTPAdapter
	HTTPResponse  = adapters.HTTPResponse
	BeaconAdapter = adapters.BeaconAdapter
	CacheAdapter  = adapters.CacheAdapter
	LoggerAdapter = adapters.LoggerAdapter
	LogLevel      = adapters.LogLevel
)

const (
	// EventsPath is appended to the API URL to form the collector endpoint.
	EventsPath = "/e"

	DefaultDebounceDelay = 500 * time.Millisecond
	DefaultMaxAttempts   = 3
)

type HTTPError struct {
	Status int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP request failed with status %d", e.Status)
}

type ClientConfig struct {
	// APIURL is the collector base URL; events go to APIURL + EventsPath.
	APIURL string
	App    string
	// Version is reported as app_version on every event.
	Version string
	// DeviceID, if set, is used instead of the cached identifier.
	DeviceID string
	Headers  map[string]string

	DebounceDelay time.Duration
	MaxAttempts   int
	// NewBackOff builds the policy used between attempts of one batch.
	// Defaults to exponential backoff with jitter.
	NewBackOff func() backoff.BackOff
	Clock      quartz.Clock

	HTTPAdapter   HTTPAdapter
	BeaconAdapter BeaconAdapter
	CacheAdapter  CacheAdapter
	LoggerAdapter LoggerAdapter
}

type QueueConfig struct {
	Endpoint      string
	Headers       map[string]string
	DebounceDelay time.Duration
	MaxAttempts   int
	NewBackOff    func() backoff.BackOff
	Clock         quartz.Clock
}

func (c *QueueConfig) setDefaults() {
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = DefaultDebounceDelay
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = DefaultMaxAttempts
	}
	if c.NewBackOff == nil {
		c.NewBackOff = defaultBackOff
	}
	if c.Clock == nil {
		c.Clock = quartz.NewReal()
	}
}

func defaultBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = time.Second
	b.Multiplier = 2
	b.RandomizationFactor = 0.5
	b.MaxInterval = 30 * time.Second
	b.MaxElapsedTime = 0
	return b
}
