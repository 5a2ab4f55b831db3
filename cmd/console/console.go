package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/core/usecases"
)

const rule = "--------------------------------------------------"

const helpText = `Commands:
  <text>          ask ARIA; mention a zone (A, B, C) for zone intel
  /zone <A|B|C>   quick access brief for a zone
  /scan           reveal every resource location
  /sos            broadcast an SOS from your position
  /aid            scan for nearby distress signals
  /status         ARIA status
  /history        recent conversation
  /help           this text
  /quit           close the comms link`

// console is the interactive loop. Output is serialised because SOS
// broadcasts may arrive while a reply is printing.
type console struct {
	briefing *usecases.BriefingService
	aria     *usecases.ARIAService
	atlas    *domain.Atlas
	out      io.Writer
	mapOut   string
	now      func() time.Time
	render   func(string) string // optional markdown styling

	mu sync.Mutex
}

func (c *console) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now()
}

func (c *console) run(ctx context.Context, in io.Reader) error {
	c.banner()

	scanner := bufio.NewScanner(in)
	for {
		c.print("> ")
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			break
		}
		if !c.handle(ctx, scanner.Text()) {
			break
		}
	}
	c.println(usecases.StatusLine(c.clock(), "offline", "Comms link closed.", "📴"))
	return scanner.Err()
}

// handle processes one input line and reports whether the loop continues.
func (c *console) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	cmd, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch strings.ToLower(cmd) {
	case "/quit", "/exit":
		return false
	case "/help":
		c.println(helpText)
	case "/zone":
		key, ok := c.zoneKey(arg)
		if !ok {
			c.println(fmt.Sprintf("unknown zone %q, try A, B or C", arg))
			return true
		}
		c.reply(c.briefing.QuickSelect(ctx, key))
	case "/scan":
		c.reply(c.briefing.ResourceScan(ctx))
	case "/sos":
		c.reply(c.briefing.RequestAid(ctx))
	case "/aid":
		c.reply(c.briefing.LocateAid(ctx))
	case "/status":
		st := c.aria.Status()
		c.println(usecases.StatusLine(c.clock(), st.Status, fmt.Sprintf("model %s, %d messages in memory", st.Model, st.ConversationLength), "🤖"))
	case "/history":
		for _, e := range c.aria.History() {
			c.println(fmt.Sprintf("[%s] %s", e.Role, e.Content))
		}
	default:
		c.reply(c.briefing.Message(ctx, line))
	}
	return true
}

// zoneKey accepts "A", "zone a" or "Zone A".
func (c *console) zoneKey(arg string) (string, bool) {
	if arg == "" {
		return "", false
	}
	candidates := []string{arg, "Zone " + strings.ToUpper(arg)}
	for _, k := range candidates {
		if _, ok := c.atlas.Get(k); ok {
			return k, true
		}
	}
	if z, ok := c.atlas.Detect(arg); ok {
		return z.Key, true
	}
	return "", false
}

func (c *console) reply(r usecases.Reply) {
	if r.Text != "" {
		text := r.Text
		if c.render != nil {
			text = c.render(text)
		}
		c.println(rule + "\n" + text + "\n" + rule)
	}
	if c.mapOut == "" || r.Markup == "" {
		return
	}
	if err := os.WriteFile(c.mapOut, []byte(r.Markup), 0o644); err != nil {
		c.println(usecases.StatusLine(c.clock(), "error", "map write failed: "+err.Error(), "⚠️"))
		return
	}
	c.println(usecases.StatusLine(c.clock(), "map", "updated "+c.mapOut, "🗺️"))
}

func (c *console) printSignal(sig *domain.SOSSignal) {
	c.println("\n" + usecases.StatusLine(c.clock(), "sos", fmt.Sprintf("%s at %.4f, %.4f - %s - %d survivors",
		sig.Name, sig.Location.Lat, sig.Location.Lon, sig.Priority, sig.Survivors), "🆘"))
}

func (c *console) banner() {
	status, msg := "online", "ARIA connected. Type /help for commands."
	if !c.aria.Online() {
		status, msg = "offline", "ARIA running on offline protocols. Type /help for commands."
	}
	c.println("☣ SurviveTrack - Post-Apocalyptic Karachi Intelligence System")
	c.println(usecases.StatusLine(c.clock(), status, msg, ""))
}

func (c *console) print(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprint(c.out, s)
}

func (c *console) println(s string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, s)
}
