package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	analytics "github.com/dailydotdev/analytics-go"
)

// Profile describes a simulated user session for the demo client.
type Profile struct {
	App     string `yaml:"app"`
	Version string `yaml:"version"`
	Session struct {
		VisitID        string `yaml:"visit_id"`
		SessionID      string `yaml:"session_id"`
		TokenRefreshed bool   `yaml:"token_refreshed"`
		Anonymous      *struct {
			ID         string `yaml:"id"`
			FirstVisit string `yaml:"first_visit"`
			Referrer   string `yaml:"referrer"`
		} `yaml:"anonymous"`
		UserCreatedAt string `yaml:"user_created_at"`
	} `yaml:"session"`
	Settings struct {
		ThemeMode  string `yaml:"theme_mode"`
		Spaciness  string `yaml:"spaciness"`
		InsaneMode bool   `yaml:"insane_mode"`
	} `yaml:"settings"`
	Query  map[string]string `yaml:"query"`
	Flags  map[string]any    `yaml:"flags"`
	Events []ProfileEvent    `yaml:"events"`
}

// ProfileEvent is one event the demo tracks on every round.
type ProfileEvent struct {
	Name       string         `yaml:"name"`
	Extra      map[string]any `yaml:"extra"`
	DurationMs int64          `yaml:"duration_ms"`
}

// LoadProfile reads and validates a YAML profile.
func LoadProfile(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	return ParseProfile(data)
}

func ParseProfile(data []byte) (*Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.App == "" {
		p.App = "demo"
	}
	for i, e := range p.Events {
		if e.Name == "" {
			return nil, fmt.Errorf("parse profile: event %d has no name", i)
		}
	}
	return &p, nil
}

// Input converts the profile into shared-property input.
func (p *Profile) Input() analytics.SharedPropsInput {
	in := analytics.SharedPropsInput{
		Auth: analytics.AuthContext{
			VisitID:        p.Session.VisitID,
			SessionID:      p.Session.SessionID,
			TokenRefreshed: p.Session.TokenRefreshed,
		},
		Settings: analytics.SettingsContext{
			ThemeMode:  p.Settings.ThemeMode,
			Spaciness:  p.Settings.Spaciness,
			InsaneMode: p.Settings.InsaneMode,
		},
		Query: p.Query,
		Flags: p.Flags,
	}
	if a := p.Session.Anonymous; a != nil {
		in.Auth.Anonymous = &analytics.AnonymousUser{
			ID:         a.ID,
			FirstVisit: a.FirstVisit,
			Referrer:   a.Referrer,
		}
	}
	if p.Session.UserCreatedAt != "" {
		in.Auth.User = &analytics.User{CreatedAt: p.Session.UserCreatedAt}
	}
	return in
}
