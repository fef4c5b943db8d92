package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	analytics "github.com/dailydotdev/analytics-go"
)

// chdir moves into an empty directory so no stray .env is picked up.
func chdir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestLoadCollector_Defaults(t *testing.T) {
	chdir(t)

	cfg, err := LoadCollector()
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "http://localhost:5002", cfg.AllowedOrigin)
}

func TestLoadCollector_DotEnv(t *testing.T) {
	dir := chdir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"),
		[]byte("COLLECTOR_PORT=4000\nCOLLECTOR_ALLOWED_ORIGIN=https://app.daily.dev\n"), 0o600))
	t.Setenv("COLLECTOR_PORT", "5000")
	t.Cleanup(func() { os.Unsetenv("COLLECTOR_ALLOWED_ORIGIN") })

	cfg, err := LoadCollector()
	require.NoError(t, err)
	assert.Equal(t, "5000", cfg.Port, "environment wins over .env")
	assert.Equal(t, "https://app.daily.dev", cfg.AllowedOrigin)
}

func TestLoadDemo(t *testing.T) {
	chdir(t)
	t.Setenv("ANALYTICS_API_URL", "https://api.daily.dev")
	t.Setenv("ANALYTICS_DEBOUNCE", "1s")
	t.Setenv("ANALYTICS_CACHE", "redis")

	cfg, err := LoadDemo()
	require.NoError(t, err)
	assert.Equal(t, "https://api.daily.dev", cfg.APIURL)
	assert.Equal(t, time.Second, cfg.DebounceDelay)
	assert.Equal(t, "redis", cfg.CacheBackend)
	assert.Equal(t, 3, cfg.MaxAttempts)
}

func TestLoadDemo_Invalid(t *testing.T) {
	chdir(t)

	t.Setenv("ANALYTICS_CACHE", "sqlite")
	_, err := LoadDemo()
	assert.ErrorContains(t, err, "unknown cache backend")

	t.Setenv("ANALYTICS_CACHE", "memory")
	t.Setenv("ANALYTICS_MAX_ATTEMPTS", "0")
	_, err = LoadDemo()
	assert.Error(t, err)

	t.Setenv("ANALYTICS_MAX_ATTEMPTS", "three")
	_, err = LoadDemo()
	assert.ErrorContains(t, err, "failed to process config")
}

const profileYAML = `
app: webapp
version: 2.0.0
session:
  visit_id: visit-1
  session_id: session-1
  token_refreshed: true
  anonymous:
    id: anon-1
    first_visit: "2024-01-01T00:00:00Z"
    referrer: google
  user_created_at: "2024-02-01T00:00:00Z"
settings:
  theme_mode: dark
  spaciness: cozy
query:
  utm_source: newsletter
flags:
  my_feed: true
events:
  - name: page_view
  - name: read_post
    duration_ms: 1200
    extra:
      post_id: p1
`

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	require.NoError(t, os.WriteFile(path, []byte(profileYAML), 0o600))

	p, err := LoadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, "webapp", p.App)
	assert.Equal(t, "2.0.0", p.Version)
	require.Len(t, p.Events, 2)
	assert.Equal(t, int64(1200), p.Events[1].DurationMs)
	assert.Equal(t, map[string]any{"post_id": "p1"}, p.Events[1].Extra)

	assert.Equal(t, analytics.SharedPropsInput{
		Auth: analytics.AuthContext{
			VisitID:        "visit-1",
			SessionID:      "session-1",
			TokenRefreshed: true,
			Anonymous: &analytics.AnonymousUser{
				ID:         "anon-1",
				FirstVisit: "2024-01-01T00:00:00Z",
				Referrer:   "google",
			},
			User: &analytics.User{CreatedAt: "2024-02-01T00:00:00Z"},
		},
		Settings: analytics.SettingsContext{ThemeMode: "dark", Spaciness: "cozy"},
		Query:    map[string]string{"utm_source": "newsletter"},
		Flags:    map[string]any{"my_feed": true},
	}, p.Input())
}

func TestParseProfile_Errors(t *testing.T) {
	_, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, err = ParseProfile([]byte("app: [unterminated"))
	assert.ErrorContains(t, err, "parse profile")

	_, err = ParseProfile([]byte("events:\n  - duration_ms: 3\n"))
	assert.ErrorContains(t, err, "has no name")

	p, err := ParseProfile([]byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, "demo", p.App)
	assert.Nil(t, p.Input().Auth.Anonymous)
}
