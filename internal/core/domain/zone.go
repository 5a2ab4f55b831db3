package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Level is an ordinal low/medium/high classification. It is used both for
// danger and for resource density.
type Level string

const (
	LevelLow    Level = "low"
	LevelMedium Level = "medium"
	LevelHigh   Level = "high"
)

// Valid reports whether l is one of low, medium, high.
func (l Level) Valid() bool {
	switch l {
	case LevelLow, LevelMedium, LevelHigh:
		return true
	}
	return false
}

// Zone is a fixed named region of the scenario.
type Zone struct {
	Key             string   `json:"key"`
	Name            string   `json:"name"`
	Coordinates     GeoPoint `json:"coordinates"`
	Resources       []string `json:"resources"` // display order matters
	AlertText       string   `json:"alert"`
	Danger          Level    `json:"danger"`
	Description     string   `json:"description"`
	History         string   `json:"history"`
	Threats         string   `json:"threats"`
	TacticalNotes   string   `json:"tactical_notes"`
	ResourceDensity Level    `json:"resource_density"`
}

// ResourceList joins the resources in display order.
func (z Zone) ResourceList() string {
	return strings.Join(z.Resources, ", ")
}

// Validate checks the zone invariants and returns every violation found.
func (z Zone) Validate() error {
	var errs []error
	required := map[string]string{
		"name":           z.Name,
		"alert":          z.AlertText,
		"description":    z.Description,
		"history":        z.History,
		"threats":        z.Threats,
		"tactical_notes": z.TacticalNotes,
	}
	for _, field := range []string{"name", "alert", "description", "history", "threats", "tactical_notes"} {
		if strings.TrimSpace(required[field]) == "" {
			errs = append(errs, fmt.Errorf("%s: %s is required", z.Key, field))
		}
	}
	if len(z.Resources) == 0 {
		errs = append(errs, fmt.Errorf("%s: at least one resource is required", z.Key))
	}
	if !z.Danger.Valid() {
		errs = append(errs, fmt.Errorf("%s: invalid danger level %q", z.Key, z.Danger))
	}
	if !z.ResourceDensity.Valid() {
		errs = append(errs, fmt.Errorf("%s: invalid resource density %q", z.Key, z.ResourceDensity))
	}
	if !z.Coordinates.Valid() {
		errs = append(errs, fmt.Errorf("%s: invalid coordinates %v", z.Key, z.Coordinates))
	}
	return errors.Join(errs...)
}

// ResourceMarker describes how a resource type is drawn on a map.
type ResourceMarker struct {
	Glyph       string `json:"glyph"`
	Color       string `json:"color"`
	DisplayName string `json:"display_name"`
}
