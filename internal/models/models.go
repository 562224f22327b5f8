// Package models defines the core domain types shared by the triage pipeline.
package models

import (
	"strings"
	"time"
)

// Importance buckets a candidate message by how urgently it needs a reply.
type Importance string

// Canonical importance labels. The values double as the exact strings the
// model is asked to answer with, so they are part of the wire contract.
const (
	NeedsReply    Importance = "Need to Reply"
	MightReply    Importance = "Might Reply"
	NoReplyNeeded Importance = "May Not Reply"
)

// ParseImportance maps raw model output to a canonical label. Anything that is
// not byte-identical to one of the three labels after trimming collapses to
// NoReplyNeeded, so an ambiguous answer can never trigger an auto-drafted reply.
func ParseImportance(s string) Importance {
	switch Importance(strings.TrimSpace(s)) {
	case NeedsReply:
		return NeedsReply
	case MightReply:
		return MightReply
	default:
		return NoReplyNeeded
	}
}

// CandidateMessage is one unread mail item eligible for triage. It is built by
// the mailbox adapter per fetch and is read-only afterwards; only the derived
// TriageRecord is ever persisted.
type CandidateMessage struct {
	Subject  string    `json:"subject"`
	Sender   string    `json:"sender"`
	Received time.Time `json:"received"`
	Body     string    `json:"body"`
}

// TriageRecord is the durable audit entry appended once per processed
// candidate. AIResponse is empty when no reply was drafted. The JSON field
// names are the structured sink's line format and must stay stable.
type TriageRecord struct {
	RunID        string     `json:"run_id"`
	Timestamp    time.Time  `json:"timestamp"`
	Subject      string     `json:"subject"`
	Sender       string     `json:"sender"`
	ReceivedTime time.Time  `json:"received_time"`
	BodySummary  string     `json:"body_summary"`
	AIResponse   string     `json:"ai_response"`
	Importance   Importance `json:"importance"`
}

// CSVColumns is the fixed header of the tabular audit sink.
var CSVColumns = []string{
	"timestamp", "subject", "sender", "received_time",
	"body_summary", "ai_response", "importance",
}

// CSVRow renders the record in CSVColumns order.
func (r *TriageRecord) CSVRow() []string {
	return []string{
		r.Timestamp.Format(time.RFC3339),
		r.Subject,
		r.Sender,
		r.ReceivedTime.Format(time.RFC3339),
		r.BodySummary,
		r.AIResponse,
		string(r.Importance),
	}
}
