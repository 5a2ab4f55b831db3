package natsadapter

import (
	"testing"

	"github.com/samirrijal/survivetrack/internal/core/domain"
)

func TestSOSSubject(t *testing.T) {
	tests := map[domain.Priority]string{
		domain.PriorityCritical: "survivetrack.sos.critical",
		domain.PriorityHigh:     "survivetrack.sos.high",
		domain.PriorityMedium:   "survivetrack.sos.medium",
	}
	for p, want := range tests {
		if got := SOSSubject(p); got != want {
			t.Errorf("SOSSubject(%s) = %s, want %s", p, got, want)
		}
	}
}
