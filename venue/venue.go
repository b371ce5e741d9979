// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package venue

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

// Session labels. Exactly three sessions exist; every venue offers a subset.
const (
	SessionMorning   = "10:30"
	SessionLunchtime = "12:30"
	SessionAfternoon = "14:30"
)

// Display spans for the three sessions
const (
	SpanMorning   = "10:00 - 12:00"
	SpanLunchtime = "12:00 - 14:00"
	SpanAfternoon = "14:00 - 16:00"
)

// Preference tags members may submit
const (
	PrefMorning    = "morning"
	PrefLunchtime  = "lunchtime"
	PrefAfternoon  = "afternoon"
	PrefAfterWork  = "after_work"
	PrefNightShift = "night_shift"
)

// Class is a venue's session-availability class
type Class string

const (
	ClassSingle           Class = "single"
	ClassMorningLunch     Class = "morning_lunch"
	ClassMorningAfternoon Class = "morning_afternoon"
	ClassThreeSession     Class = "three_session"
)

// Venue is one physical forum venue for the current meeting round
type Venue struct {
	Forum    string `yaml:"forum"`
	Region   string `yaml:"region"`
	Address  string `yaml:"address"`
	Date     string `yaml:"date"`
	Sessions Class  `yaml:"sessions"`
	Time     string `yaml:"time,omitempty"` // single-session venues only
}

//go:embed venues.yaml
var rawVenues []byte

// Config is the immutable venue lookup table. It is loaded once from the
// embedded asset and injected wherever venue data is needed, so the resolver
// and the ticket builder can never drift apart.
type Config struct {
	venues map[string]Venue
}

// Load parses the embedded venue configuration
func Load() (*Config, error) {
	return parse(rawVenues)
}

func parse(data []byte) (*Config, error) {
	var file struct {
		Venues []Venue `yaml:"venues"`
	}
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse venue config: %w", err)
	}

	venues := make(map[string]Venue, len(file.Venues))
	for _, v := range file.Venues {
		if v.Forum == "" {
			return nil, fmt.Errorf("venue config entry missing forum name")
		}
		switch v.Sessions {
		case ClassSingle:
			if v.Time == "" {
				return nil, fmt.Errorf("single-session venue %q missing fixed time", v.Forum)
			}
		case ClassMorningLunch, ClassMorningAfternoon, ClassThreeSession:
		default:
			return nil, fmt.Errorf("venue %q has unknown sessions class %q", v.Forum, v.Sessions)
		}
		if _, dup := venues[v.Forum]; dup {
			return nil, fmt.Errorf("duplicate venue config entry for forum %q", v.Forum)
		}
		venues[v.Forum] = v
	}

	return &Config{venues: venues}, nil
}

var (
	defaultOnce sync.Once
	defaultCfg  *Config
	defaultErr  error
)

// Default returns the shared config loaded from the embedded asset
func Default() (*Config, error) {
	defaultOnce.Do(func() {
		defaultCfg, defaultErr = Load()
	})
	return defaultCfg, defaultErr
}

// Lookup returns the venue for a forum, if configured
func (c *Config) Lookup(forum string) (Venue, bool) {
	v, ok := c.venues[forum]
	return v, ok
}

// Forums returns all configured forum names, sorted
func (c *Config) Forums() []string {
	names := make([]string, 0, len(c.venues))
	for name := range c.venues {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ResolveSession maps a forum and a member's serialized preference list to a
// concrete session label. Total over its domain: unknown forums are treated
// as full three-session venues and malformed payloads as "no preference".
func (c *Config) ResolveSession(forum, preferredPayload string) string {
	prefs := parsePreferences(preferredPayload)

	class := ClassThreeSession
	var fixed string
	if v, ok := c.venues[forum]; ok {
		class = v.Sessions
		fixed = v.Time
	}

	switch class {
	case ClassSingle:
		// Sole fixed session; preference is ignored entirely
		if fixed != "" {
			return fixed
		}
		return SessionMorning

	case ClassMorningAfternoon:
		switch {
		case has(prefs, PrefMorning):
			return SessionMorning
		case hasAfternoonish(prefs):
			return SessionAfternoon
		default:
			// Covers lunchtime (not offered here), unrecognized tags and
			// absent preference
			return SessionMorning
		}

	case ClassMorningLunch:
		switch {
		case has(prefs, PrefMorning):
			return SessionMorning
		case has(prefs, PrefLunchtime):
			return SessionLunchtime
		case hasAfternoonish(prefs):
			// Afternoon-leaning shifts get the latest session offered
			return SessionLunchtime
		default:
			return SessionMorning
		}

	default: // full three-session
		switch {
		case has(prefs, PrefMorning):
			return SessionMorning
		case has(prefs, PrefLunchtime):
			return SessionLunchtime
		case hasAfternoonish(prefs):
			return SessionAfternoon
		case len(prefs) > 0:
			// Preference stated but nothing recognized
			return SessionLunchtime
		default:
			return SessionMorning
		}
	}
}

// TimeSpanFor maps a session label to its two-hour display window.
// Unrecognized labels fall back to the morning span.
func TimeSpanFor(session string) string {
	switch session {
	case SessionMorning:
		return SpanMorning
	case SessionLunchtime:
		return SpanLunchtime
	case SessionAfternoon:
		return SpanAfternoon
	default:
		return SpanMorning
	}
}

// parsePreferences decodes a serialized preference list. Malformed input is
// treated identically to "no preference".
func parsePreferences(payload string) []string {
	if payload == "" {
		return nil
	}
	var prefs []string
	if err := json.Unmarshal([]byte(payload), &prefs); err != nil {
		return nil
	}
	return prefs
}

func has(prefs []string, tag string) bool {
	for _, p := range prefs {
		if p == tag {
			return true
		}
	}
	return false
}

// hasAfternoonish reports whether any preference maps to the afternoon session
func hasAfternoonish(prefs []string) bool {
	return has(prefs, PrefAfternoon) || has(prefs, PrefAfterWork) || has(prefs, PrefNightShift)
}
