package relay

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/solarwatch/solar_notifier/pkg/report"
	"github.com/solarwatch/solar_notifier/pkg/window"
)

// Runner performs one full report cycle: refresh the store, aggregate,
// format, deliver. Exactly one aggregation runs per invocation.
type Runner struct {
	Source  ReadingSource
	Sender  MessageSender
	Clock   Clock
	Modes   []window.Mode
	Subject string

	// Extract optionally refreshes the store before reading. A failed
	// extraction is logged, not fatal: stale data plus the fallback
	// window still beats no report at all.
	Extract func(ctx context.Context) error
}

// RunOnce executes a single report cycle. Every upstream failure
// collapses into the fixed failure message for the recipient; detail
// only goes to the log.
func (r *Runner) RunOnce(ctx context.Context) error {
	clock := r.Clock
	if clock == nil {
		clock = SystemClock{}
	}

	if r.Extract != nil {
		if err := r.Extract(ctx); err != nil {
			log.WithError(err).Warn("extraction step failed, reporting from existing data")
		}
	}

	body := report.FailureMessage
	readings, err := r.Source.ReadAll()
	if err != nil {
		log.WithError(err).Error("failed to read production data")
	} else {
		result := window.AggregateFirst(readings, clock.Now(), r.Modes...)
		if result.IsEmpty {
			log.WithField("window", result.WindowLabel).Warn("no production data in any candidate window")
		}
		body = report.Format(&result)
	}

	if err := r.Sender.Send(r.Subject, body); err != nil {
		log.WithError(err).Error("failed to send report")
		return err
	}

	log.WithField("message", body).Info("report sent")
	return nil
}
