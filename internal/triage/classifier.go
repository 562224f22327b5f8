// Package triage implements the per-message pipeline: classification,
// summarization, conditional reply drafting and orchestration across a run.
package triage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

// Completer is the completion surface the pipeline components consume,
// implemented by the gateway client.
type Completer interface {
	Complete(ctx context.Context, system, user string, temperature float32) (string, error)
}

const classifierSystem = "You are a strict email classification assistant."

// classifyTemperature is kept low for reproducible labels.
const classifyTemperature = 0.3

// Criteria holds the user-configured descriptions disambiguating the three
// importance categories.
type Criteria struct {
	NeedReply  string
	MightReply string
	NoReply    string
}

// Classifier buckets one message into an importance label.
type Classifier struct {
	completer Completer
	criteria  Criteria
	logger    *zap.Logger
}

func NewClassifier(completer Completer, criteria Criteria, logger *zap.Logger) *Classifier {
	return &Classifier{completer: completer, criteria: criteria, logger: logger}
}

// Classify never fails: any gateway failure or malformed answer collapses to
// NoReplyNeeded so the pipeline cannot auto-draft a reply off a bad signal.
func (c *Classifier) Classify(ctx context.Context, msg models.CandidateMessage) models.Importance {
	prompt := fmt.Sprintf(`You have three categories:
1) %s (%s)
2) %s (%s)
3) %s (%s)

If the email explicitly addresses me with a question or direct request, it's '%s'.
If I'm just in CC or it's partly relevant, it's '%s'.
If it doesn't require any action, it's '%s'.

Email Content:
%s

Respond with exactly one of: '%s', '%s', or '%s'.`,
		models.NeedsReply, c.criteria.NeedReply,
		models.MightReply, c.criteria.MightReply,
		models.NoReplyNeeded, c.criteria.NoReply,
		models.NeedsReply, models.MightReply, models.NoReplyNeeded,
		msg.Body,
		models.NeedsReply, models.MightReply, models.NoReplyNeeded)

	answer, err := c.completer.Complete(ctx, classifierSystem, prompt, classifyTemperature)
	if err != nil {
		c.logger.Warn("classification failed, defaulting",
			zap.String("subject", msg.Subject),
			zap.String("default", string(models.NoReplyNeeded)),
			zap.Error(err))
		return models.NoReplyNeeded
	}
	return models.ParseImportance(answer)
}
