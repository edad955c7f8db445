// Solar notifier sends a short daily production report through an
// email-to-SMS gateway. It reads the collector database or the
// extraction step's JSON metric files.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
	"github.com/solarwatch/solar_notifier/pkg/config"
	"github.com/solarwatch/solar_notifier/pkg/extractor"
	"github.com/solarwatch/solar_notifier/pkg/jsonmetrics"
	"github.com/solarwatch/solar_notifier/pkg/mailer"
	"github.com/solarwatch/solar_notifier/pkg/relay"
	"github.com/solarwatch/solar_notifier/pkg/solardb"
	"github.com/solarwatch/solar_notifier/pkg/window"
)

func main() {
	once := flag.Bool("once", false, "send one report immediately and exit")
	flag.Parse()

	cfg, err := config.LoadNotifierConfig()
	if err != nil {
		log.WithError(err).Fatal("failed to load config")
	}

	runner := &relay.Runner{
		Source:  buildSource(cfg),
		Sender:  mailer.NewMailer(cfg.SMTP),
		Clock:   relay.SystemClock{},
		Modes:   buildModes(cfg),
		Subject: cfg.SMTP.Subject,
		Extract: buildExtract(cfg),
	}

	if *once {
		if err := runner.RunOnce(context.Background()); err != nil {
			os.Exit(1)
		}
		return
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(cfg.CronSchedule, func() {
		if err := runner.RunOnce(context.Background()); err != nil {
			log.WithError(err).Error("scheduled report failed")
		}
	})
	if err != nil {
		log.WithError(err).Fatal("invalid cron schedule")
	}

	log.Infof("Report scheduled with spec %q", cfg.CronSchedule)
	scheduler.Run()
}

func buildSource(cfg *config.NotifierConfig) relay.ReadingSource {
	switch cfg.Backend {
	case "json":
		return jsonmetrics.NewSource(cfg.MetricsDir)
	case "sqlite":
		solardb.InitializeDatabase()
		return solardb.NewStore(solardb.GetDB())
	default:
		log.Fatalf("unknown backend %q", cfg.Backend)
		return nil
	}
}

// buildModes turns the configured window into an ordered candidate
// list; later entries only run when earlier ones find no data.
func buildModes(cfg *config.NotifierConfig) []window.Mode {
	switch cfg.WindowMode {
	case "trailing":
		return []window.Mode{window.TrailingHours(cfg.TrailingHours)}
	case "calendar_utc":
		return []window.Mode{
			window.CalendarDayUTC(cfg.OffsetDays),
			window.CalendarDayShifted(cfg.OffsetDays, cfg.TzOffsetHours),
		}
	case "calendar_shifted":
		return []window.Mode{
			window.CalendarDayShifted(cfg.OffsetDays, cfg.TzOffsetHours),
		}
	default:
		log.Fatalf("unknown window mode %q", cfg.WindowMode)
		return nil
	}
}

func buildExtract(cfg *config.NotifierConfig) func(ctx context.Context) error {
	if cfg.ExtractCommand == "" {
		return nil
	}
	cmd := &extractor.Command{
		Path:           cfg.ExtractCommand,
		Args:           cfg.ExtractArgs,
		ConfigTemplate: cfg.ExtractConfigTemplate,
		ConfigPath:     cfg.ExtractConfigPath,
		TemplateData:   cfg,
		Timeout:        time.Duration(cfg.ExtractTimeoutSeconds) * time.Second,
	}
	return cmd.Run
}
