package analytics

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"
)

// AuthContext is the session and identity state of the current user.
type AuthContext struct {
	VisitID   string
	SessionID string
	// TokenRefreshed is set once the session has been confirmed with the
	// backend. The visit id is only trusted from then on.
	TokenRefreshed bool
	Anonymous      *AnonymousUser
	User           *User
}

type AnonymousUser struct {
	ID         string
	FirstVisit string
	Referrer   string
}

type User struct {
	CreatedAt string
}

// SettingsContext carries display preferences.
type SettingsContext struct {
	ThemeMode  string
	Spaciness  string
	InsaneMode bool
}

// SharedPropsInput is everything shared properties are derived from.
type SharedPropsInput struct {
	Auth     AuthContext
	Settings SettingsContext
	// Query holds the current page query parameters.
	Query map[string]string
	// Flags maps feature flag names to their values. A nil map reports
	// feature_flags as null.
	Flags map[string]any
}

// SharedProps maintains the properties merged into every event. The
// snapshot is rebuilt on each Update and published atomically.
type SharedProps struct {
	app            string
	version        string
	presetDeviceID string
	devices        *DeviceIDProvider

	mu       sync.Mutex
	visitID  string
	deviceID string
	input    SharedPropsInput
	custom   map[string]any

	snapshot atomic.Pointer[map[string]any]
}

// NewSharedProps creates a builder for app at version. presetDeviceID, when
// non-empty, takes precedence over devices.
func NewSharedProps(app, version, presetDeviceID string, devices *DeviceIDProvider) *SharedProps {
	return &SharedProps{
		app:            app,
		version:        version,
		presetDeviceID: presetDeviceID,
		devices:        devices,
		custom:         make(map[string]any),
	}
}

// Update records input and recomputes the snapshot. Nothing is published
// until a visit id has been latched from a refreshed session; the first
// latched visit id is kept for the lifetime of the builder.
func (p *SharedProps) Update(ctx context.Context, input SharedPropsInput) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.input = input
	if p.visitID == "" && input.Auth.TokenRefreshed {
		p.visitID = input.Auth.VisitID
	}
	return p.publishLocked(ctx)
}

// Set adds a custom property to every snapshot. Custom properties never
// override the computed ones.
func (p *SharedProps) Set(ctx context.Context, key string, value any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.custom[key] = value
	return p.publishLocked(ctx)
}

func (p *SharedProps) publishLocked(ctx context.Context) error {
	if p.visitID == "" {
		return nil
	}
	if p.deviceID == "" {
		p.deviceID = p.presetDeviceID
	}
	if p.deviceID == "" {
		id, err := p.devices.GetOrGenerate(ctx)
		if err != nil {
			return err
		}
		p.deviceID = id
	}

	props := make(map[string]any, len(p.custom)+20)
	for k, v := range p.custom {
		props[k] = v
	}
	for k, v := range buildSharedProps(p.app, p.version, p.visitID, p.deviceID, p.input) {
		props[k] = v
	}
	p.snapshot.Store(&props)
	return nil
}

// Snapshot returns the latest published properties, or nil before Ready.
// The map is shared and must not be modified.
func (p *SharedProps) Snapshot() map[string]any {
	if s := p.snapshot.Load(); s != nil {
		return *s
	}
	return nil
}

// Ready reports whether the first snapshot has been published.
func (p *SharedProps) Ready() bool {
	return p.snapshot.Load() != nil
}

// VisitID returns the latched visit id.
func (p *SharedProps) VisitID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.visitID
}

var utmParams = []string{"utm_campaign", "utm_content", "utm_medium", "utm_source", "utm_term"}

func buildSharedProps(app, version, visitID, deviceID string, in SharedPropsInput) map[string]any {
	props := map[string]any{
		"app_platform":  app,
		"app_version":   version,
		"feed_layout":   "cards",
		"visit_id":      visitID,
		"device_id":     deviceID,
		"feature_flags": nil,
	}
	if in.Settings.InsaneMode {
		props["feed_layout"] = "list"
	}
	setString(props, "app_theme", in.Settings.ThemeMode)
	setString(props, "feed_density", in.Settings.Spaciness)
	setString(props, "session_id", in.Auth.SessionID)

	if a := in.Auth.Anonymous; a != nil {
		setString(props, "user_first_visit", a.FirstVisit)
		setString(props, "user_id", a.ID)
		setString(props, "user_referrer", a.Referrer)
	}
	if u := in.Auth.User; u != nil {
		setString(props, "user_registration_date", u.CreatedAt)
	}

	if len(in.Query) > 0 {
		// Map keys marshal sorted, so equal queries give equal strings.
		if data, err := json.Marshal(in.Query); err == nil {
			props["query_params"] = string(data)
		}
		for _, key := range utmParams {
			setString(props, key, in.Query[key])
		}
	}
	if in.Flags != nil {
		if data, err := json.Marshal(in.Flags); err == nil {
			props["feature_flags"] = string(data)
		}
	}
	return props
}

func setString(props map[string]any, key, value string) {
	if value != "" {
		props[key] = value
	}
}
