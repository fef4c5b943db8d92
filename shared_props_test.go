package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dailydotdev/analytics-go/adapters"
)

func fullInput() SharedPropsInput {
	return SharedPropsInput{
		Auth: AuthContext{
			VisitID:        "visit-1",
			SessionID:      "session-1",
			TokenRefreshed: true,
			Anonymous: &AnonymousUser{
				ID:         "anon-1",
				FirstVisit: "2024-01-01T00:00:00Z",
				Referrer:   "google",
			},
			User: &User{CreatedAt: "2024-02-01T00:00:00Z"},
		},
		Settings: SettingsContext{ThemeMode: "dark", Spaciness: "eco", InsaneMode: true},
		Query: map[string]string{
			"utm_source":   "newsletter",
			"utm_campaign": "launch",
			"ref":          "x",
		},
		Flags: map[string]any{"my_feed": true},
	}
}

func TestSharedProps_NotReadyWithoutVisit(t *testing.T) {
	ctx := testContext(t)
	cache := newCountingCache()
	p := NewSharedProps("webapp", "1.2.3", "", NewDeviceIDProvider(cache))

	input := fullInput()
	input.Auth.TokenRefreshed = false
	require.NoError(t, p.Update(ctx, input))

	assert.False(t, p.Ready())
	assert.Nil(t, p.Snapshot())
	assert.Zero(t, cache.setCount(), "device id is not resolved before a visit exists")
}

func TestSharedProps_Snapshot(t *testing.T) {
	ctx := testContext(t)
	p := NewSharedProps("webapp", "1.2.3", "device-1", NewDeviceIDProvider(newCountingCache()))
	require.NoError(t, p.Update(ctx, fullInput()))
	require.True(t, p.Ready())

	assert.Equal(t, map[string]any{
		"app_platform":           "webapp",
		"app_theme":              "dark",
		"app_version":            "1.2.3",
		"feed_density":           "eco",
		"feed_layout":            "list",
		"query_params":           `{"ref":"x","utm_campaign":"launch","utm_source":"newsletter"}`,
		"session_id":             "session-1",
		"user_first_visit":       "2024-01-01T00:00:00Z",
		"user_id":                "anon-1",
		"user_referrer":          "google",
		"user_registration_date": "2024-02-01T00:00:00Z",
		"utm_campaign":           "launch",
		"utm_source":             "newsletter",
		"visit_id":               "visit-1",
		"feature_flags":          `{"my_feed":true}`,
		"device_id":              "device-1",
	}, p.Snapshot())
}

func TestSharedProps_MinimalInput(t *testing.T) {
	ctx := testContext(t)
	p := NewSharedProps("webapp", "1.0.0", "device-1", nil)
	require.NoError(t, p.Update(ctx, SharedPropsInput{
		Auth: AuthContext{VisitID: "visit-1", TokenRefreshed: true},
	}))

	snapshot := p.Snapshot()
	assert.Equal(t, "cards", snapshot["feed_layout"])
	assert.Contains(t, snapshot, "feature_flags")
	assert.Nil(t, snapshot["feature_flags"])
	assert.NotContains(t, snapshot, "query_params", "empty query is omitted")
	assert.NotContains(t, snapshot, "user_id")
}

func TestSharedProps_VisitIDIsLatched(t *testing.T) {
	ctx := testContext(t)
	p := NewSharedProps("webapp", "1.0.0", "device-1", nil)

	input := fullInput()
	require.NoError(t, p.Update(ctx, input))

	input.Auth.VisitID = "visit-2"
	input.Settings.ThemeMode = "light"
	require.NoError(t, p.Update(ctx, input))

	assert.Equal(t, "visit-1", p.VisitID())
	assert.Equal(t, "visit-1", p.Snapshot()["visit_id"])
	assert.Equal(t, "light", p.Snapshot()["app_theme"], "other inputs still refresh")
}

func TestSharedProps_ResolvesDeviceIDOnce(t *testing.T) {
	ctx := testContext(t)
	cache := newCountingCache()
	p := NewSharedProps("webapp", "1.0.0", "", NewDeviceIDProvider(cache))

	require.NoError(t, p.Update(ctx, fullInput()))
	id := p.Snapshot()[adapters.KeyDeviceID]
	require.NotEmpty(t, id)

	require.NoError(t, p.Update(ctx, fullInput()))
	assert.Equal(t, id, p.Snapshot()[adapters.KeyDeviceID])
	assert.Equal(t, 1, cache.setCount())
}

func TestSharedProps_Idempotent(t *testing.T) {
	ctx := testContext(t)
	p := NewSharedProps("webapp", "1.0.0", "device-1", nil)

	require.NoError(t, p.Update(ctx, fullInput()))
	first := p.Snapshot()
	require.NoError(t, p.Update(ctx, fullInput()))
	assert.Equal(t, first, p.Snapshot())
}

func TestSharedProps_DeviceIDError(t *testing.T) {
	ctx := testContext(t)
	cache := newCountingCache()
	cache.fail = true
	p := NewSharedProps("webapp", "1.0.0", "", NewDeviceIDProvider(cache))

	require.ErrorIs(t, p.Update(ctx, fullInput()), errCacheDown)
	assert.False(t, p.Ready())

	cache.mu.Lock()
	cache.fail = false
	cache.mu.Unlock()
	require.NoError(t, p.Update(ctx, fullInput()))
	assert.True(t, p.Ready())
}

func TestSharedProps_CustomProperties(t *testing.T) {
	ctx := testContext(t)
	p := NewSharedProps("webapp", "1.0.0", "device-1", nil)

	require.NoError(t, p.Set(ctx, "experiment", "b"))
	require.NoError(t, p.Set(ctx, "app_platform", "spoofed"))
	assert.False(t, p.Ready())

	require.NoError(t, p.Update(ctx, fullInput()))
	assert.Equal(t, "b", p.Snapshot()["experiment"])
	assert.Equal(t, "webapp", p.Snapshot()["app_platform"])
}
