package telemetry

import (
	"context"

	log "github.com/sirupsen/logrus"
)

// LogrusNotifier is the fallback sink when no remote notifier is
// configured: it just logs at warn level, a structured logger standing in
// as the lowest-common-denominator sink when an external one isn't wired up.
type LogrusNotifier struct {
	log *log.Logger
}

// NewLogrusNotifier wraps logger (or the standard logger if nil).
func NewLogrusNotifier(logger *log.Logger) *LogrusNotifier {
	if logger == nil {
		logger = log.StandardLogger()
	}
	return &LogrusNotifier{log: logger}
}

// Notify implements Notifier.
func (n *LogrusNotifier) Notify(ctx context.Context, message string) error {
	n.log.WithField("sink", "telegram_fallback").Warn(message)
	return nil
}
