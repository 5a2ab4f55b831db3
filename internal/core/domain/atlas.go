package domain

import (
	"fmt"
	"maps"
	"strings"
)

// Atlas is the read-only table of scenario zones and resource markers.
// Build it once with NewAtlas and hand it to the services that need it.
type Atlas struct {
	keys    []string
	zones   map[string]Zone
	markers map[string]ResourceMarker
}

// NewAtlas builds the zone table and validates it.
func NewAtlas() (*Atlas, error) {
	return NewAtlasFrom(defaultZones(), defaultMarkers())
}

// NewAtlasFrom builds an atlas from the given zones, preserving their order as
// detection precedence.
func NewAtlasFrom(zones []Zone, markers map[string]ResourceMarker) (*Atlas, error) {
	a := &Atlas{
		keys:    make([]string, 0, len(zones)),
		zones:   make(map[string]Zone, len(zones)),
		markers: maps.Clone(markers),
	}
	for _, z := range zones {
		if z.Key == "" {
			return nil, fmt.Errorf("zone %q has no key", z.Name)
		}
		if _, dup := a.zones[z.Key]; dup {
			return nil, fmt.Errorf("duplicate zone key %q", z.Key)
		}
		if err := z.Validate(); err != nil {
			return nil, fmt.Errorf("invalid zone data: %w", err)
		}
		z.Resources = append([]string(nil), z.Resources...)
		a.keys = append(a.keys, z.Key)
		a.zones[z.Key] = z
	}
	return a, nil
}

// Get returns the zone for key. The second value is false for unknown keys.
func (a *Atlas) Get(key string) (Zone, bool) {
	z, ok := a.zones[key]
	if !ok {
		return Zone{}, false
	}
	z.Resources = append([]string(nil), z.Resources...)
	return z, true
}

// All returns a copy of every zone keyed by zone key.
func (a *Atlas) All() map[string]Zone {
	out := make(map[string]Zone, len(a.zones))
	for _, k := range a.keys {
		out[k], _ = a.Get(k)
	}
	return out
}

// Keys returns the zone keys in precedence order.
func (a *Atlas) Keys() []string {
	return append([]string(nil), a.keys...)
}

// Ordered returns the zones in precedence order.
func (a *Atlas) Ordered() []Zone {
	out := make([]Zone, 0, len(a.keys))
	for _, k := range a.keys {
		z, _ := a.Get(k)
		out = append(out, z)
	}
	return out
}

// Detect finds the first zone mentioned in free text. A key matches when its
// lowercase form ("zone a") or its lowercase form without spaces ("zonea") is
// a substring of the text. Keys are tried in precedence order and the first
// match wins, so overlapping mentions resolve to the earliest key.
func (a *Atlas) Detect(text string) (Zone, bool) {
	lower := strings.ToLower(text)
	for _, k := range a.keys {
		key := strings.ToLower(k)
		if strings.Contains(lower, key) || strings.Contains(lower, strings.ReplaceAll(key, " ", "")) {
			return a.Get(k)
		}
	}
	return Zone{}, false
}

// ResourceMarker returns the marker definition for a resource type.
func (a *Atlas) ResourceMarker(kind string) (ResourceMarker, bool) {
	m, ok := a.markers[kind]
	return m, ok
}

// ResourceMarkers returns a copy of all marker definitions.
func (a *Atlas) ResourceMarkers() map[string]ResourceMarker {
	return maps.Clone(a.markers)
}

func defaultZones() []Zone {
	return []Zone{
		{
			Key:             "Zone A",
			Name:            "📍 Zone A – Boat Basin",
			Coordinates:     GeoPoint{Lat: 24.8182, Lon: 67.0256},
			Resources:       []string{"💧 Water", "🍞 Food", "🏠 Shelter"},
			AlertText:       "🟢 Clear. No zombies spotted.",
			Danger:          LevelLow,
			Description:     "Former luxury marina district, now a safe haven with abundant fresh water from underground springs and well-stocked food supplies from abandoned restaurants.",
			History:         "Twenty years ago, this was where the wealthy evacuated first. Their abandoned yachts still hold valuable supplies.",
			Threats:         "Minimal zombie activity, but beware of other survivor groups who may be territorial.",
			TacticalNotes:   "High ground advantage, multiple escape routes via water, natural barriers.",
			ResourceDensity: LevelHigh,
		},
		{
			Key:             "Zone B",
			Name:            "📍 Zone B – Lyari",
			Coordinates:     GeoPoint{Lat: 24.8784, Lon: 67.0103},
			Resources:       []string{"💊 Medicine", "🔦 Flashlight"},
			AlertText:       "🧟‍♂ Danger! Zombie activity nearby. 🚨",
			Danger:          LevelMedium,
			Description:     "Dense urban area with narrow streets. Former gang territory turned into a medical supply cache after the outbreak.",
			History:         "The gangs initially fought the infected but were overwhelmed. Their abandoned clinics contain rare medical supplies.",
			Threats:         "Regular zombie patrols, unstable buildings, potential for being trapped in narrow alleys.",
			TacticalNotes:   "Urban warfare environment, requires stealth, multiple entry/exit points compromised.",
			ResourceDensity: LevelMedium,
		},
		{
			Key:             "Zone C",
			Name:            "📍 Zone C – Gillani Railway Station",
			Coordinates:     GeoPoint{Lat: 24.9090, Lon: 67.0940},
			Resources:       []string{"🔫 Weapons", "🩺 Medical Kit"},
			AlertText:       "🔴 Safe for now, but stay alert. 👀",
			Danger:          LevelHigh,
			Description:     "Major transportation hub converted into a military outpost during the initial outbreak. Contains high-value military equipment.",
			History:         "Last military holdout in Karachi. Fell after a three-week siege. Weapon caches remain locked in underground bunkers.",
			Threats:         "Heavy zombie concentration, military-grade infected (former soldiers), booby traps in bunkers.",
			TacticalNotes:   "High-risk, high-reward. Recommend full squad deployment with heavy weapons.",
			ResourceDensity: LevelLow,
		},
	}
}

func defaultMarkers() map[string]ResourceMarker {
	return map[string]ResourceMarker{
		"water":       {Glyph: "💧", Color: "#4A90E2", DisplayName: "Water Source"},
		"food":        {Glyph: "🍞", Color: "#8B4513", DisplayName: "Food Cache"},
		"shelter":     {Glyph: "🏠", Color: "#228B22", DisplayName: "Safe Shelter"},
		"medicine":    {Glyph: "💊", Color: "#DC143C", DisplayName: "Medical Supplies"},
		"flashlight":  {Glyph: "🔦", Color: "#FFD700", DisplayName: "Equipment"},
		"weapons":     {Glyph: "🔫", Color: "#696969", DisplayName: "Weapon Cache"},
		"medical_kit": {Glyph: "🩺", Color: "#FF6347", DisplayName: "Medical Kit"},
		"fuel":        {Glyph: "⛽", Color: "#FF4500", DisplayName: "Fuel Depot"},
		"ammo":        {Glyph: "🎯", Color: "#A0522D", DisplayName: "Ammunition"},
		"radio":       {Glyph: "📻", Color: "#9370DB", DisplayName: "Communication"},
		"battery":     {Glyph: "🔋", Color: "#00CED1", DisplayName: "Power Source"},
		"tools":       {Glyph: "🔧", Color: "#B8860B", DisplayName: "Tools & Parts"},
	}
}
