package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/glamour"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	natsadapter "github.com/samirrijal/survivetrack/internal/adapters/nats"
	"github.com/samirrijal/survivetrack/internal/app"
	"github.com/samirrijal/survivetrack/internal/core/domain"
	"github.com/samirrijal/survivetrack/internal/pkg/config"
	"github.com/samirrijal/survivetrack/internal/pkg/logging"
)

var (
	follow  bool
	mapOut  string
	plain   bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "survivetrack-console",
	Short: "SurviveTrack terminal comms link",
	Long: `Terminal client for the SurviveTrack intelligence system.

Type a zone designation or a tactical query to talk to ARIA. Slash commands
cover quick access, resource scans and the emergency system; /help lists them.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConsole(cmd.Context())
	},
}

func init() {
	rootCmd.Flags().BoolVar(&follow, "follow", false, "print SOS broadcasts from other survivors (requires NATS)")
	rootCmd.Flags().StringVar(&mapOut, "map-out", "", "write the latest map markup to this HTML file")
	rootCmd.Flags().BoolVar(&plain, "plain", false, "print replies without markdown styling")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "debug logging on stderr")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func runConsole(ctx context.Context) error {
	cfg, err := config.Load("survivetrack-console")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := "warn"
	if verbose {
		level = "debug"
	}
	slog.SetDefault(logging.New(os.Stderr, level, "text"))

	svc, err := app.Build(ctx, cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	c := &console{
		briefing: svc.Briefing,
		aria:     svc.ARIA,
		atlas:    svc.Atlas,
		out:      os.Stdout,
		mapOut:   mapOut,
	}
	if !plain && isatty.IsTerminal(os.Stdout.Fd()) {
		c.render = markdownRenderer()
	}

	if follow {
		if !cfg.NATS.Enabled {
			return fmt.Errorf("--follow requires nats.enabled")
		}
		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			return err
		}
		defer sub.Close()
		err = sub.SubscribeSOS(ctx, func(_ context.Context, sig *domain.SOSSignal) error {
			c.printSignal(sig)
			return nil
		})
		if err != nil {
			return fmt.Errorf("subscribe sos: %w", err)
		}
	}

	return c.run(ctx, os.Stdin)
}

// markdownRenderer styles ARIA replies for the terminal. It returns nil when
// no renderer can be built, leaving replies plain.
func markdownRenderer() func(string) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		slog.Debug("markdown renderer unavailable", "error", err)
		return nil
	}
	return func(s string) string {
		out, err := r.Render(s)
		if err != nil {
			return s
		}
		return strings.TrimRight(out, "\n")
	}
}
