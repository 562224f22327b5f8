// Package auditlog persists triage outcomes to a set of append-only sinks.
// Every sink receives every record; one sink failing never blocks another.
package auditlog

import (
	"go.uber.org/zap"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

// Sink is one append-only destination for triage records. Creation must be
// idempotent: constructing a sink over an existing populated file or table
// leaves the prior contents untouched.
type Sink interface {
	Name() string
	Append(rec *models.TriageRecord) error
	Close() error
}

// Log fans every record out to all configured sinks.
type Log struct {
	sinks  []Sink
	logger *zap.Logger
}

func New(logger *zap.Logger, sinks ...Sink) *Log {
	return &Log{sinks: sinks, logger: logger}
}

// Append writes the record to every sink. Sink errors are reported and
// swallowed so a full disk on one sink cannot lose the other's audit trail
// or abort the remaining candidates.
func (l *Log) Append(rec *models.TriageRecord) {
	for _, s := range l.sinks {
		if err := s.Append(rec); err != nil {
			l.logger.Error("audit sink write failed",
				zap.String("sink", s.Name()),
				zap.String("subject", rec.Subject),
				zap.Error(err))
		}
	}
}

// Close closes all sinks, returning the first error encountered.
func (l *Log) Close() error {
	var first error
	for _, s := range l.sinks {
		if err := s.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}
