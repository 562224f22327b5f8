package triage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/mailbox"
	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

type fakeMailbox struct {
	candidates []models.CandidateMessage
	listErr    error
	postErr    error

	gotSince time.Time
	posts    []postedReply
}

type postedReply struct {
	subject, sender, body string
}

func (m *fakeMailbox) ListUnread(_ context.Context, since time.Time) ([]models.CandidateMessage, error) {
	m.gotSince = since
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.candidates, nil
}

func (m *fakeMailbox) PostReply(_ context.Context, subject, sender, bodyHTML string) error {
	m.posts = append(m.posts, postedReply{subject: subject, sender: sender, body: bodyHTML})
	return m.postErr
}

type fakeAudit struct {
	records []*models.TriageRecord
}

func (a *fakeAudit) Append(rec *models.TriageRecord) {
	a.records = append(a.records, rec)
}

func newTestOrchestrator(mb *fakeMailbox, completer *fakeCompleter, audit *fakeAudit) *Orchestrator {
	logger := zap.NewNop()
	o := NewOrchestrator(
		mb,
		NewClassifier(completer, testCriteria(), logger),
		NewSummarizer(completer, logger),
		NewResponder(completer, testStyle, logger),
		audit,
		72*time.Hour,
		logger,
	)
	o.now = func() time.Time { return time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC) }
	return o
}

func TestRunZeroCandidates(t *testing.T) {
	mb := &fakeMailbox{}
	completer := &fakeCompleter{}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))

	assert.Empty(t, audit.records)
	assert.Empty(t, completer.calls)
	assert.Empty(t, mb.posts)
}

func TestRunUsesLookbackCutoff(t *testing.T) {
	mb := &fakeMailbox{}
	o := newTestOrchestrator(mb, &fakeCompleter{}, &fakeAudit{})

	require.NoError(t, o.Run(context.Background()))
	assert.Equal(t, time.Date(2025, 5, 30, 9, 0, 0, 0, time.UTC), mb.gotSince)
}

func TestRunMailboxFaultDegradesToNoOp(t *testing.T) {
	mb := &fakeMailbox{listErr: errors.New("mailbox unreachable")}
	completer := &fakeCompleter{}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))

	assert.Empty(t, audit.records)
	assert.Empty(t, completer.calls)
}

func TestRunNeedsReplyDraftsAndPosts(t *testing.T) {
	mb := &fakeMailbox{candidates: []models.CandidateMessage{testMessage}}
	completer := &fakeCompleter{replies: map[string]string{
		classifierSystem: "Need to Reply",
		summarizerSystem: "- send figures by Friday",
		responderSystem:  "<p>Hi Dana,</p><p>Best regards</p>",
	}}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))

	require.Len(t, audit.records, 1)
	rec := audit.records[0]
	assert.Equal(t, models.NeedsReply, rec.Importance)
	assert.Equal(t, testMessage.Subject, rec.Subject)
	assert.Equal(t, testMessage.Sender, rec.Sender)
	assert.Equal(t, "- send figures by Friday", rec.BodySummary)
	assert.Equal(t, "<p>Hi Dana,</p><p>Best regards</p>", rec.AIResponse)
	assert.NotEmpty(t, rec.RunID)

	assert.Equal(t, 1, completer.callsFor(responderSystem))
	require.Len(t, mb.posts, 1)
	assert.Equal(t, postedReply{
		subject: testMessage.Subject,
		sender:  testMessage.Sender,
		body:    "<p>Hi Dana,</p><p>Best regards</p>",
	}, mb.posts[0])
}

func TestRunClassificationFailureDefaultsQuietly(t *testing.T) {
	mb := &fakeMailbox{candidates: []models.CandidateMessage{testMessage}}
	completer := &fakeCompleter{
		errs:    map[string]error{classifierSystem: errors.New("invalid api key")},
		replies: map[string]string{summarizerSystem: "- summary"},
	}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))

	require.Len(t, audit.records, 1)
	assert.Equal(t, models.NoReplyNeeded, audit.records[0].Importance)
	assert.Empty(t, audit.records[0].AIResponse)
	assert.Equal(t, 0, completer.callsFor(responderSystem))
	assert.Empty(t, mb.posts)
}

func TestRunMightReplySkipsDraftAndPost(t *testing.T) {
	mb := &fakeMailbox{candidates: []models.CandidateMessage{testMessage}}
	completer := &fakeCompleter{replies: map[string]string{
		classifierSystem: "Might Reply",
		summarizerSystem: "- summary",
	}}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))

	require.Len(t, audit.records, 1)
	assert.Equal(t, models.MightReply, audit.records[0].Importance)
	assert.Equal(t, 0, completer.callsFor(responderSystem))
	assert.Empty(t, mb.posts)
}

func TestRunDraftFailureLogsSentinelButNeverPosts(t *testing.T) {
	mb := &fakeMailbox{candidates: []models.CandidateMessage{testMessage}}
	completer := &fakeCompleter{
		replies: map[string]string{
			classifierSystem: "Need to Reply",
			summarizerSystem: "- summary",
		},
		errs: map[string]error{responderSystem: errors.New("gateway down")},
	}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))

	require.Len(t, audit.records, 1)
	assert.Equal(t, ReplyUnavailable, audit.records[0].AIResponse)
	assert.Empty(t, mb.posts)
}

func TestRunOriginalNotFoundSkipsPosting(t *testing.T) {
	mb := &fakeMailbox{
		candidates: []models.CandidateMessage{testMessage},
		postErr:    fmt.Errorf("%w: subject %q", mailbox.ErrMessageNotFound, testMessage.Subject),
	}
	completer := &fakeCompleter{replies: map[string]string{
		classifierSystem: "Need to Reply",
		summarizerSystem: "- summary",
		responderSystem:  "<p>reply</p>",
	}}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))
	require.Len(t, audit.records, 1)
	assert.Equal(t, "<p>reply</p>", audit.records[0].AIResponse)
}

func TestRunOneRecordPerCandidateInArrivalOrder(t *testing.T) {
	second := models.CandidateMessage{
		Subject: "Team lunch",
		Sender:  "Sam Ortiz",
		Body:    "Lunch on Thursday, no need to confirm.",
	}
	mb := &fakeMailbox{candidates: []models.CandidateMessage{testMessage, second}}
	completer := &fakeCompleter{replies: map[string]string{
		classifierSystem: "May Not Reply",
		summarizerSystem: "- summary",
	}}
	audit := &fakeAudit{}

	require.NoError(t, newTestOrchestrator(mb, completer, audit).Run(context.Background()))

	require.Len(t, audit.records, 2)
	assert.Equal(t, testMessage.Subject, audit.records[0].Subject)
	assert.Equal(t, second.Subject, audit.records[1].Subject)
	assert.Equal(t, audit.records[0].RunID, audit.records[1].RunID)
}
