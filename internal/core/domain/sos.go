package domain

import "time"

// Priority ranks a distress signal.
type Priority string

const (
	PriorityCritical Priority = "CRITICAL"
	PriorityHigh     Priority = "HIGH"
	PriorityMedium   Priority = "MEDIUM"
)

// Priorities lists every priority from most to least urgent.
var Priorities = []Priority{PriorityCritical, PriorityHigh, PriorityMedium}

// Rank orders priorities; lower is more urgent. Unknown priorities sort last.
func (p Priority) Rank() int {
	for i, q := range Priorities {
		if p == q {
			return i
		}
	}
	return len(Priorities)
}

// SOSSignal is an ephemeral distress record built per UI action and dropped
// after rendering.
type SOSSignal struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Location  GeoPoint  `json:"location"`
	Priority  Priority  `json:"priority"`
	Survivors int       `json:"survivors"`
	Timestamp time.Time `json:"timestamp"`
	Clock     string    `json:"clock"`              // HH:MM as reported by the signal
	Distance  *float64  `json:"distance,omitempty"` // meters from scan center
}
