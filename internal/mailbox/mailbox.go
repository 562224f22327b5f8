// Package mailbox adapts the user's mail provider to the triage pipeline:
// listing unread candidates within a time window and posting drafted replies
// back into their original threads.
package mailbox

import (
	"context"
	"errors"
	"time"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

// ErrMessageNotFound reports that no original message matched when posting a
// reply. Callers are expected to skip posting and log a notice.
var ErrMessageNotFound = errors.New("original message not found")

// Mailbox is the provider-facing contract consumed by the orchestrator.
type Mailbox interface {
	// ListUnread returns the unread messages received at or after since,
	// in the provider's enumeration order.
	ListUnread(ctx context.Context, since time.Time) ([]models.CandidateMessage, error)

	// PostReply sends bodyHTML as a reply to the message identified by
	// subject and sender display name. Returns ErrMessageNotFound when no
	// original matches.
	PostReply(ctx context.Context, subject, sender, bodyHTML string) error
}
