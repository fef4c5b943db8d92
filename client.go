package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/coder/quartz"

	"github.com/dailydotdev/analytics-go/adapters"
)

const maxEventNameLength = 255

// Client is the entry point for tracking. It enriches events with shared
// properties and feeds them to a Queue that opens once the shared
// properties are ready.
type Client struct {
	config  ClientConfig
	clock   quartz.Clock
	logger  LoggerAdapter
	devices *DeviceIDProvider
	props   *SharedProps
	queue   *Queue
}

// NewClient validates config, fills in defaults and wires the adapters.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIURL == "" {
		return nil, errors.New("APIURL is required")
	}

	if config.Clock == nil {
		config.Clock = quartz.NewReal()
	}
	if config.LoggerAdapter == nil {
		config.LoggerAdapter = adapters.NewPrintLoggerAdapter(adapters.LogLevelWarn)
	}
	if config.HTTPAdapter == nil {
		config.HTTPAdapter = adapters.NewNetHTTPAdapter()
	}
	if config.BeaconAdapter == nil {
		if h, ok := config.HTTPAdapter.(*adapters.NetHTTPAdapter); ok {
			config.BeaconAdapter = adapters.NewNetHTTPBeaconAdapter(h.Client(), 0)
		} else {
			config.BeaconAdapter = adapters.NewNetHTTPBeaconAdapter(nil, 0)
		}
	}
	if config.CacheAdapter == nil {
		config.CacheAdapter = adapters.NewFileCacheAdapter("analytics_cache.json")
	}

	devices := NewDeviceIDProvider(config.CacheAdapter)
	queue := NewQueue(QueueConfig{
		Endpoint:      strings.TrimRight(config.APIURL, "/") + EventsPath,
		Headers:       config.Headers,
		DebounceDelay: config.DebounceDelay,
		MaxAttempts:   config.MaxAttempts,
		NewBackOff:    config.NewBackOff,
		Clock:         config.Clock,
	}, config.HTTPAdapter, config.BeaconAdapter, config.LoggerAdapter)

	return &Client{
		config:  config,
		clock:   config.Clock,
		logger:  config.LoggerAdapter,
		devices: devices,
		props:   NewSharedProps(config.App, config.Version, config.DeviceID, devices),
		queue:   queue,
	}, nil
}

// Update feeds new session, settings, routing and feature flag state into
// the shared properties. The queue is enabled once, when the first snapshot
// becomes available; later updates leave the gate to SetEnabled.
func (c *Client) Update(ctx context.Context, input SharedPropsInput) error {
	wasReady := c.props.Ready()
	if err := c.props.Update(ctx, input); err != nil {
		c.logger.Error("Failed to update shared properties: %v", err)
		return err
	}
	if !wasReady && c.props.Ready() {
		c.logger.Info("Shared properties ready, enabling queue")
		c.queue.SetEnabled(true)
	}
	return nil
}

// SetProperty attaches a custom property to every subsequent event.
func (c *Client) SetProperty(ctx context.Context, key string, value any) error {
	if key == "" {
		return errors.New("property key cannot be empty")
	}
	return c.props.Set(ctx, key, value)
}

// SharedProps returns the latest shared properties snapshot and whether it
// is ready.
func (c *Client) SharedProps() (map[string]any, bool) {
	return c.props.Snapshot(), c.props.Ready()
}

// DeviceID resolves the persistent device identifier.
func (c *Client) DeviceID(ctx context.Context) (string, error) {
	if c.config.DeviceID != "" {
		return c.config.DeviceID, nil
	}
	return c.devices.GetOrGenerate(ctx)
}

// TrackOption customizes a tracked event.
type TrackOption func(Event) error

// WithExtra sets the extra payload, stored JSON-encoded.
func WithExtra(extra map[string]any) TrackOption {
	return func(e Event) error {
		data, err := json.Marshal(extra)
		if err != nil {
			return fmt.Errorf("encode extra: %w", err)
		}
		e[adapters.KeyExtra] = string(data)
		return nil
	}
}

// WithDuration sets event_duration in milliseconds.
func WithDuration(d time.Duration) TrackOption {
	return func(e Event) error {
		e[adapters.KeyEventDuration] = d.Milliseconds()
		return nil
	}
}

// WithProperty sets an arbitrary field, overriding shared properties.
func WithProperty(key string, value any) TrackOption {
	return func(e Event) error {
		e[key] = value
		return nil
	}
}

// Track builds an event from the shared properties and queues it. Events
// tracked before the shared properties are ready carry only their own
// fields; no visit_id or device_id is filled in later.
func (c *Client) Track(name string, opts ...TrackOption) error {
	if name == "" {
		return errors.New("event name cannot be empty")
	}
	if len(name) > maxEventNameLength {
		return errors.New("event name cannot exceed 255 characters")
	}

	event := Event(c.props.Snapshot()).Clone()
	event[adapters.KeyEventName] = name
	event[adapters.KeyEventTimestamp] = c.clock.Now("Client", "track")
	for _, opt := range opts {
		if err := opt(event); err != nil {
			return err
		}
	}

	c.logger.Debug("Tracking event: %s", name)
	c.queue.Push(event)
	return nil
}

// TrackDuration tracks name with event_duration measured from start.
func (c *Client) TrackDuration(name string, start time.Time, opts ...TrackOption) error {
	opts = append([]TrackOption{WithDuration(c.clock.Since(start, "Client", "track"))}, opts...)
	return c.Track(name, opts...)
}

// SetEnabled overrides the queue gate.
func (c *Client) SetEnabled(enabled bool) {
	c.queue.SetEnabled(enabled)
}

// Flush sends buffered events without waiting for the debounce delay.
func (c *Client) Flush() {
	c.logger.Debug("Flushing events")
	c.queue.FlushNow()
}

// SendBeacon hands buffered events to the beacon transport. Call it when
// the host is about to exit.
func (c *Client) SendBeacon() bool {
	return c.queue.SendBeacon()
}

// Queue exposes the underlying queue.
func (c *Client) Queue() *Queue {
	return c.queue
}

// Close stops scheduling flushes and waits for in-flight batches, bounded
// by ctx.
func (c *Client) Close(ctx context.Context) error {
	c.logger.Info("Closing client")
	return c.queue.Close(ctx)
}
