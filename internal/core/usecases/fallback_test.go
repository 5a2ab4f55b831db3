package usecases_test

import (
	"context"
	"strings"
	"testing"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
)

func TestOfflineResponder_Classify(t *testing.T) {
	zone := &domain.Zone{Key: "Zone B", Danger: domain.LevelMedium}

	tests := []struct {
		name string
		text string
		zone *domain.Zone
		want string
	}{
		{"threat wins over resource", "is it safe near water zombies", nil, "threat"},
		{"resource", "where can I find FOOD", nil, "resource"},
		{"navigation", "best route north?", nil, "navigation"},
		{"zone context", "tell me more", zone, "zone"},
		{"keyword beats zone context", "any supply here", zone, "resource"},
		{"generic", "hello", nil, "system"},
	}

	r := usecases.NewOfflineResponder()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, reply := r.Classify(tt.text, tt.zone)
			if got != tt.want {
				t.Errorf("rule = %q, want %q", got, tt.want)
			}
			if reply == "" {
				t.Error("expected a non-empty reply")
			}
		})
	}
}

func TestOfflineResponder_ZoneWarnings(t *testing.T) {
	r := usecases.NewOfflineResponder()

	cases := map[domain.Level]string{
		domain.LevelLow:    "minimal threat",
		domain.LevelMedium: "Moderate risk",
		domain.LevelHigh:   "Extreme danger",
		domain.Level("x"):  "Unknown threat level",
	}
	for level, want := range cases {
		_, reply := r.Classify("report", &domain.Zone{Danger: level})
		if !strings.Contains(reply, want) {
			t.Errorf("level %q: reply %q does not contain %q", level, reply, want)
		}
	}
}

func TestOfflineResponder_Respond(t *testing.T) {
	r := usecases.NewOfflineResponder()

	reply, err := r.Respond(context.Background(), ports.Prompt{User: "zombies!"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(reply, "Threat assessment") {
		t.Errorf("unexpected reply: %s", reply)
	}
	if r.Online() {
		t.Error("offline responder must not report online")
	}
	if r.Model() != "Offline" {
		t.Errorf("expected model Offline, got %s", r.Model())
	}
}

func TestOfflineResponder_CustomRules(t *testing.T) {
	r := usecases.NewOfflineResponder(usecases.FallbackRule{
		Name:  "echo",
		Match: func(text string, _ *domain.Zone) bool { return text == "ping" },
		Reply: func(*domain.Zone) string { return "pong" },
	})

	if name, reply := r.Classify("PING", nil); name != "echo" || reply != "pong" {
		t.Errorf("got (%q, %q)", name, reply)
	}
	if name, _ := r.Classify("other", nil); name != "system" {
		t.Errorf("unmatched text should use the system reply, got %q", name)
	}
}
