package triage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/mailbox"
	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

// AuditLog receives exactly one record per processed candidate. Sink errors
// are the log's concern; appending never fails the pipeline.
type AuditLog interface {
	Append(rec *models.TriageRecord)
}

// Orchestrator drives every candidate through classify, summarize,
// conditional draft, audit append and conditional posting, strictly in that
// order. Candidates are processed sequentially and independently.
type Orchestrator struct {
	mailbox    mailbox.Mailbox
	classifier *Classifier
	summarizer *Summarizer
	responder  *Responder
	audit      AuditLog
	lookback   time.Duration
	logger     *zap.Logger

	now func() time.Time
}

func NewOrchestrator(
	mb mailbox.Mailbox,
	classifier *Classifier,
	summarizer *Summarizer,
	responder *Responder,
	audit AuditLog,
	lookback time.Duration,
	logger *zap.Logger,
) *Orchestrator {
	return &Orchestrator{
		mailbox:    mb,
		classifier: classifier,
		summarizer: summarizer,
		responder:  responder,
		audit:      audit,
		lookback:   lookback,
		logger:     logger,
		now:        time.Now,
	}
}

// Run executes one triage batch. A mailbox fault degrades to an empty run;
// every fetched candidate terminates in exactly one audit record regardless
// of gateway failures along the way.
func (o *Orchestrator) Run(ctx context.Context) error {
	cutoff := o.now().Add(-o.lookback)
	candidates, err := o.mailbox.ListUnread(ctx, cutoff)
	if err != nil {
		o.logger.Error("mailbox unreachable, skipping run", zap.Error(err))
		return nil
	}
	if len(candidates) == 0 {
		o.logger.Info("no unread messages in lookback window",
			zap.Time("cutoff", cutoff))
		return nil
	}

	runID := uuid.New().String()
	o.logger.Info("starting triage run",
		zap.String("run_id", runID),
		zap.Int("candidates", len(candidates)))

	for _, msg := range candidates {
		o.process(ctx, runID, msg)
	}
	return nil
}

func (o *Orchestrator) process(ctx context.Context, runID string, msg models.CandidateMessage) {
	importance := o.classifier.Classify(ctx, msg)
	summary := o.summarizer.Summarize(ctx, msg.Body)

	var reply string
	var replyOK bool
	if importance == models.NeedsReply {
		reply, replyOK = o.responder.Draft(ctx, msg)
	}

	o.audit.Append(&models.TriageRecord{
		RunID:        runID,
		Timestamp:    o.now(),
		Subject:      msg.Subject,
		Sender:       msg.Sender,
		ReceivedTime: msg.Received,
		BodySummary:  summary,
		AIResponse:   reply,
		Importance:   importance,
	})

	if importance != models.NeedsReply {
		return
	}
	if !replyOK {
		// Posting the unavailable sentinel as a live reply would be a
		// defect; the record above already captures the failure.
		o.logger.Warn("draft unavailable, reply not posted",
			zap.String("subject", msg.Subject))
		return
	}

	if err := o.mailbox.PostReply(ctx, msg.Subject, msg.Sender, reply); err != nil {
		if errors.Is(err, mailbox.ErrMessageNotFound) {
			o.logger.Warn("original message not found, reply not posted",
				zap.String("subject", msg.Subject),
				zap.String("sender", msg.Sender))
			return
		}
		o.logger.Error("failed to post reply",
			zap.String("subject", msg.Subject),
			zap.Error(err))
	}
}
