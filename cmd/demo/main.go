package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	analytics "github.com/dailydotdev/analytics-go"
	"github.com/dailydotdev/analytics-go/adapters"
	"github.com/dailydotdev/analytics-go/internal/config"
	"github.com/dailydotdev/analytics-go/internal/logger"
)

func main() {
	cfg, err := config.LoadDemo()
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}

	log, err := logger.New(cfg.Environment, cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = log.Sync() }()

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		log.Fatal("Failed to load profile", zap.Error(err), zap.String("path", cfg.ProfilePath))
	}

	cache, closeCache := newCache(cfg)
	defer closeCache()

	httpAdapter := adapters.NewNetHTTPAdapter()
	beaconAdapter := adapters.NewNetHTTPBeaconAdapter(httpAdapter.Client(), 5*time.Second)

	client, err := analytics.NewClient(analytics.ClientConfig{
		APIURL:        cfg.APIURL,
		App:           profile.App,
		Version:       profile.Version,
		DeviceID:      cfg.DeviceID,
		DebounceDelay: cfg.DebounceDelay,
		MaxAttempts:   cfg.MaxAttempts,
		HTTPAdapter:   httpAdapter,
		BeaconAdapter: beaconAdapter,
		CacheAdapter:  cache,
		LoggerAdapter: adapters.NewZapLoggerAdapter(log),
	})
	if err != nil {
		log.Fatal("Failed to create client", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Update(ctx, profile.Input()); err != nil {
		log.Fatal("Failed to apply profile", zap.Error(err))
	}
	deviceID, err := client.DeviceID(ctx)
	if err != nil {
		log.Fatal("Failed to resolve device id", zap.Error(err))
	}
	log.Info("Demo client started",
		zap.String("api_url", cfg.APIURL),
		zap.String("device_id", deviceID),
		zap.Bool("queue_enabled", client.Queue().Enabled()))

	ticker := time.NewTicker(cfg.TrackInterval)
	defer ticker.Stop()

	trackProfile(client, profile, log)
	for {
		select {
		case <-ticker.C:
			trackProfile(client, profile, log)
		case <-ctx.Done():
			shutdown(client, beaconAdapter, log)
			return
		}
	}
}

func trackProfile(client *analytics.Client, profile *config.Profile, log *zap.Logger) {
	for _, e := range profile.Events {
		var opts []analytics.TrackOption
		if len(e.Extra) > 0 {
			opts = append(opts, analytics.WithExtra(e.Extra))
		}
		if e.DurationMs > 0 {
			opts = append(opts, analytics.WithDuration(time.Duration(e.DurationMs)*time.Millisecond))
		}
		if err := client.Track(e.Name, opts...); err != nil {
			log.Warn("Failed to track event", zap.String("event_name", e.Name), zap.Error(err))
		}
	}
}

// shutdown hands whatever is still buffered to the beacon, then waits for
// in-flight batches.
func shutdown(client *analytics.Client, beacon *adapters.NetHTTPBeaconAdapter, log *zap.Logger) {
	pending := client.Queue().Len()
	if client.SendBeacon() {
		log.Info("Beacon sent", zap.Int("events", pending))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Close(ctx); err != nil {
		log.Warn("Abandoned in-flight batches", zap.Error(err))
	}
	beacon.Wait()
	log.Info("Demo client stopped")
}

func newCache(cfg *config.DemoConfig) (analytics.CacheAdapter, func()) {
	switch cfg.CacheBackend {
	case "redis":
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		return adapters.NewRedisCacheAdapter(rdb, cfg.RedisPrefix), func() { _ = rdb.Close() }
	case "memory":
		return adapters.NewMemoryCacheAdapter(), func() {}
	default:
		return adapters.NewFileCacheAdapter(cfg.CachePath), func() {}
	}
}
