package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/ports"
)

// FallbackRule pairs a predicate over the lowercased user text with the
// canned reply used when it matches.
type FallbackRule struct {
	Name  string
	Match func(text string, zone *domain.Zone) bool
	Reply func(zone *domain.Zone) string
}

const (
	threatReply = "⚠️ *ARIA Offline Mode*\n\nThreat assessment requires full system connectivity. Current status: All zones show elevated risk levels. Maintain combat readiness and avoid unnecessary exposure."

	resourceReply = "📦 *ARIA Offline Mode*\n\nResource allocation data requires main server connection. Recommend prioritizing water and medical supplies. Check zone markers for basic resource availability."

	navigationReply = "🗺️ *ARIA Offline Mode*\n\nNavigation systems partially functional. Use main map overview for basic pathfinding. Avoid red zones during daylight hours."

	systemErrorReply = "📡 *ARIA System Error*\n\n⚠️ Main AI core offline. Emergency protocols active.\n\nBasic functions operational: Zone mapping, resource tracking, threat visualization.\n\n🔧 Contact system administrator or wait for automatic reconnection."

	unknownDangerWarning = "Unknown threat level. Exercise maximum caution."
)

var dangerWarnings = map[domain.Level]string{
	domain.LevelLow:    "This zone shows minimal threat indicators. Proceed with standard caution protocols.",
	domain.LevelMedium: "Moderate risk detected. Recommend team of 2-3 members with basic armament.",
	domain.LevelHigh:   "Extreme danger zone. Full tactical gear required. Consider alternative routes.",
}

// DefaultFallbackRules returns the offline rules in evaluation order.
// The first matching rule wins.
func DefaultFallbackRules() []FallbackRule {
	return []FallbackRule{
		{Name: "threat", Match: anyWord("danger", "threat", "zombie", "safe"), Reply: fixed(threatReply)},
		{Name: "resource", Match: anyWord("resource", "supply", "food", "water", "medicine"), Reply: fixed(resourceReply)},
		{Name: "navigation", Match: anyWord("route", "path", "travel", "move"), Reply: fixed(navigationReply)},
		{Name: "zone", Match: hasZone, Reply: zoneWarning},
		{Name: "system", Match: always, Reply: fixed(systemErrorReply)},
	}
}

func anyWord(words ...string) func(string, *domain.Zone) bool {
	return func(text string, _ *domain.Zone) bool {
		for _, w := range words {
			if strings.Contains(text, w) {
				return true
			}
		}
		return false
	}
}

func hasZone(_ string, z *domain.Zone) bool { return z != nil }

func always(string, *domain.Zone) bool { return true }

func fixed(reply string) func(*domain.Zone) string {
	return func(*domain.Zone) string { return reply }
}

func zoneWarning(z *domain.Zone) string {
	warning, ok := dangerWarnings[z.Danger]
	if !ok {
		warning = unknownDangerWarning
	}
	return fmt.Sprintf("🤖 *ARIA Emergency Protocol*\n\n%s\n\n📡 Main AI system offline. Using cached threat assessments.", warning)
}

// OfflineResponder answers from canned text. It never fails.
type OfflineResponder struct {
	rules []FallbackRule
}

var _ ports.Responder = (*OfflineResponder)(nil)

// NewOfflineResponder creates an OfflineResponder. With no rules it uses
// DefaultFallbackRules.
func NewOfflineResponder(rules ...FallbackRule) *OfflineResponder {
	if len(rules) == 0 {
		rules = DefaultFallbackRules()
	}
	return &OfflineResponder{rules: rules}
}

// Classify returns the name and reply of the first rule matching text.
func (r *OfflineResponder) Classify(text string, zone *domain.Zone) (string, string) {
	lower := strings.ToLower(text)
	for _, rule := range r.rules {
		if rule.Match(lower, zone) {
			return rule.Name, rule.Reply(zone)
		}
	}
	return "system", systemErrorReply
}

// Respond implements ports.Responder.
func (r *OfflineResponder) Respond(_ context.Context, p ports.Prompt) (string, error) {
	_, reply := r.Classify(p.User, p.Zone)
	return reply, nil
}

// Online implements ports.Responder.
func (r *OfflineResponder) Online() bool { return false }

// Model implements ports.Responder.
func (r *OfflineResponder) Model() string { return "Offline" }
