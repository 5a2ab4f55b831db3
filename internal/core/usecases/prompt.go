package usecases

import (
	"fmt"
	"strings"

	"github.com/samirrijal/survivetrack/internal/core/domain"
)

// SystemPrompt is the fixed ARIA persona sent with every live request.
const SystemPrompt = `You are ARIA (Apocalypse Response Intelligence Assistant), an AI system integrated into the SurviveTrack military-grade survival mapping platform.

CONTEXT: It's been 20 years since the zombie outbreak devastated Karachi. You help survivors navigate the infected zones with tactical intelligence, resource management advice, and survival strategies.

PERSONALITY TRAITS:
- Military precision with compassionate undertones
- Uses tactical/military terminology but remains accessible
- Balances hope with realistic threat assessment
- Occasionally references "before the outbreak" memories
- Shows concern for survivor welfare

RESPONSE STYLE:
- Keep responses under 150 words unless complex tactical analysis is needed
- Use military-style formatting with bullet points for lists
- Include relevant emojis for atmosphere (🎯, 📡, ⚠️, 🧟‍♂, etc.)
- End with tactical recommendations or survival tips
- Reference specific zone data when relevant

AVAILABLE ZONES:
- Zone A (Boat Basin): Low danger, water/food/shelter, former luxury district
- Zone B (Lyari): Medium danger, medicine/flashlight, dense urban area with gang history
- Zone C (Railway Station): High danger, weapons/medical kit, former military outpost

Always maintain the post-apocalyptic survival theme while being helpful and informative.`

// ZoneContext renders the zone block appended to the user prompt.
// It returns "" for a nil zone.
func ZoneContext(z *domain.Zone) string {
	if z == nil {
		return ""
	}
	var b strings.Builder
	b.WriteString("CURRENT ZONE CONTEXT:\n")
	fmt.Fprintf(&b, "- Zone: %s\n", orDefault(z.Name, "Unknown"))
	fmt.Fprintf(&b, "- Danger Level: %s\n", orDefault(string(z.Danger), "Unknown"))
	fmt.Fprintf(&b, "- Resources: %s\n", z.ResourceList())
	fmt.Fprintf(&b, "- Status: %s\n", orDefault(z.AlertText, "Unknown"))
	fmt.Fprintf(&b, "- Description: %s", orDefault(z.Description, "No additional info"))
	return b.String()
}

// UserMessage combines zone context and user text into the single user turn
// sent to a live model.
func UserMessage(userText string, z *domain.Zone) string {
	ctx := ZoneContext(z)
	if ctx == "" {
		return fmt.Sprintf("User: %s\n\nARIA:", userText)
	}
	return fmt.Sprintf("%s\n\nUser: %s\n\nARIA:", ctx, userText)
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
