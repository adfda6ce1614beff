package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"surfwatch/internal/availability"
	"surfwatch/internal/config"
	appLog "surfwatch/internal/log"
	"surfwatch/internal/notify"
	"surfwatch/internal/state"
)

// flagConfig holds CLI flag values; everything else comes from the
// environment (and an optional config file).
type flagConfig struct {
	configPath string
	statePath  string
	dryRun     bool
}

func main() {
	flags := parseFlags()

	// Optional .env file for local runs; absence is fine.
	_ = godotenv.Load()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("invalid configuration", err)
		os.Exit(1)
	}
	appLog.SetLevel(appLog.ParseLevel(conf.LogLevel))

	// CLI -state overrides the configured state file if provided.
	if flags.statePath != "" {
		conf.StateFile = flags.statePath
	}

	appLog.Info("surfwatch starting",
		"range", conf.Range.String(),
		"recipient_count", len(conf.Recipients),
		"mock", conf.UseMockData,
		"state_file", conf.StateFile,
		"dry_run", flags.dryRun,
	)

	// Root context with cancellation on SIGINT/SIGTERM so a hung fetch
	// can be interrupted cleanly.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, conf, flags.dryRun); err != nil {
		appLog.Error("run failed", err)
		os.Exit(1)
	}
}

// run executes one full polling pass: fetch the range, diff against the
// previous snapshot, persist the new snapshot, then notify. Any fetch
// failure aborts before state is written.
func run(ctx context.Context, conf *config.Config, dryRun bool) error {
	store := state.NewStore(conf.StateFile)
	previous := store.Load()
	appLog.Info("previous state loaded", "seen_count", len(previous))

	fetcher := availability.NewFetcher(availability.FetcherConfig{
		UseMock:  conf.UseMockData,
		MockPath: conf.MockDataFile,
	})

	current, err := fetcher.SlotsInRange(ctx, conf.Range)
	if err != nil {
		return err
	}
	appLog.Info("availability fetched", "slot_count", len(current))

	fresh := state.Diff(current, previous)
	appLog.Info("diff computed", "new_count", len(fresh))

	// Persist unconditionally, before any notification attempt: a
	// delivery failure must not re-report the same slots next run.
	if err := store.Save(current); err != nil {
		return err
	}
	appLog.Info("state saved", "path", store.Path(), "key_count", len(current))

	if len(fresh) == 0 {
		appLog.Info("no new slots to report")
		return nil
	}

	summary := notify.Summary{Slots: fresh, Range: conf.Range}
	return notifier(conf, dryRun).Notify(ctx, summary)
}

// notifier picks the delivery transport: SendGrid when its API key is
// set, SMTP when credentials are present, otherwise the console degraded
// mode. -dry-run forces the console.
func notifier(conf *config.Config, dryRun bool) notify.Notifier {
	switch {
	case dryRun:
		appLog.Info("dry run, printing report to console")
		return notify.NewConsole(os.Stdout)
	case conf.SendGridKey != "":
		return notify.NewSendGrid(conf.SendGridKey, conf.SendGridFrom, conf.Recipients)
	case conf.SMTPUser != "" && conf.SMTPPass != "":
		return notify.NewSMTP(conf.SMTPHost, conf.SMTPPort, conf.SMTPUser, conf.SMTPPass, conf.Recipients)
	default:
		appLog.Info("mail transport not configured, printing report to console")
		return notify.NewConsole(os.Stdout)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "", "Path to optional YAML config file (env vars take precedence)")
	flag.StringVar(&cfg.statePath, "state", "", "State file path (overrides config if set)")
	flag.BoolVar(&cfg.dryRun, "dry-run", false, "Print the report to the console instead of delivering it")

	flag.Parse()

	return cfg
}
