package triage

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

// ReplyUnavailable is recorded when drafting fails. It must never be posted
// to the mailbox as a live reply; Draft signals that through its ok result.
const ReplyUnavailable = "AI response was empty or invalid."

const responderSystem = "You are a helpful email reply assistant."

const draftTemperature = 0.4

// Responder drafts a reply body for messages classified as needing one.
type Responder struct {
	completer Completer
	style     string
	logger    *zap.Logger
}

// NewResponder takes the user-configured style instruction carried in every
// drafting prompt.
func NewResponder(completer Completer, style string, logger *zap.Logger) *Responder {
	return &Responder{completer: completer, style: style, logger: logger}
}

// Draft returns the reply body and whether it is usable. When the gateway
// fails, the text is ReplyUnavailable and ok is false: the record is still
// logged, but the caller must not post the sentinel into the mail thread.
func (r *Responder) Draft(ctx context.Context, msg models.CandidateMessage) (text string, ok bool) {
	prompt := fmt.Sprintf(`%s

Sender: %s
Body: %s
Please respond in HTML format, focusing on clarity, ending with 'Best regards' but excluding your name/position.
Preserve paragraph formatting and keep the tone polite.`,
		r.style, msg.Sender, msg.Body)

	reply, err := r.completer.Complete(ctx, responderSystem, prompt, draftTemperature)
	if err != nil {
		r.logger.Warn("reply drafting failed",
			zap.String("subject", msg.Subject),
			zap.Error(err))
		return ReplyUnavailable, false
	}
	return reply, true
}
