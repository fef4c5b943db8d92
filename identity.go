package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// DeviceIDKey is the cache key holding the device identifier.
const DeviceIDKey = "device_id"

// DeviceIDProvider resolves the persistent device identifier.
//
// Concurrent first-time calls on one provider share a single resolution, so
// they cannot store two different identifiers. Separate processes sharing a
// cache can still race on the first write.
type DeviceIDProvider struct {
	cache   CacheAdapter
	newID   func() string
	flights singleflight.Group
}

func NewDeviceIDProvider(cache CacheAdapter) *DeviceIDProvider {
	return &DeviceIDProvider{
		cache: cache,
		newID: uuid.NewString,
	}
}

// GetOrGenerate returns the cached identifier, generating and storing a new
// random one when the cache has none.
//
// The shared resolution runs detached from any one caller's cancellation, so
// a caller that gives up returns ctx.Err() without failing the others.
func (p *DeviceIDProvider) GetOrGenerate(ctx context.Context) (string, error) {
	flightCtx := context.WithoutCancel(ctx)
	ch := p.flights.DoChan(DeviceIDKey, func() (any, error) {
		id, ok, err := p.cache.Get(flightCtx, DeviceIDKey)
		if err != nil {
			return "", fmt.Errorf("read device id: %w", err)
		}
		if ok && id != "" {
			return id, nil
		}

		id = p.newID()
		if err := p.cache.Set(flightCtx, DeviceIDKey, id); err != nil {
			return "", fmt.Errorf("store device id: %w", err)
		}
		return id, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}
