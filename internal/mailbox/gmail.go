package mailbox

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmail "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"github.com/VladPlusIn/AI-Mail-Agent/internal/models"
)

const gmailUser = "me"

// replyTarget carries what PostReply needs to attach a reply to the right
// thread: the thread ID plus the original Message-ID chain and address.
type replyTarget struct {
	threadID   string
	messageID  string
	references string
	address    string
}

// GmailClient implements Mailbox against the Gmail API. ListUnread also
// builds the (subject, sender) reply index for the run, so PostReply never
// rescans the folder.
type GmailClient struct {
	srv    *gmail.Service
	logger *zap.Logger

	targets map[string]replyTarget
}

// NewGmailClient authenticates from a local OAuth credentials file, reusing a
// cached token when present and falling back to the browser consent flow.
func NewGmailClient(ctx context.Context, credentialsFile, tokenFile string, logger *zap.Logger) (*GmailClient, error) {
	b, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("reading client secret file: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmail.GmailReadonlyScope, gmail.GmailSendScope)
	if err != nil {
		return nil, fmt.Errorf("parsing client secret file: %w", err)
	}

	tok, err := tokenFromFile(tokenFile)
	if err != nil {
		tok, err = tokenFromWeb(ctx, oauthConfig)
		if err != nil {
			return nil, err
		}
		if err := saveToken(tokenFile, tok); err != nil {
			logger.Warn("could not cache oauth token", zap.Error(err))
		}
	}

	srv, err := gmail.NewService(ctx, option.WithHTTPClient(oauthConfig.Client(ctx, tok)))
	if err != nil {
		return nil, fmt.Errorf("creating gmail service: %w", err)
	}
	return &GmailClient{
		srv:     srv,
		logger:  logger,
		targets: make(map[string]replyTarget),
	}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	return tok, json.NewDecoder(f).Decode(tok)
}

func tokenFromWeb(ctx context.Context, config *oauth2.Config) (*oauth2.Token, error) {
	authURL := config.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Go to the following link in your browser then type the authorization code:\n%v\n", authURL)

	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("reading authorization code: %w", err)
	}
	tok, err := config.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("exchanging authorization code: %w", err)
	}
	return tok, nil
}

func saveToken(path string, token *oauth2.Token) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewEncoder(f).Encode(token)
}

// targetKey correlates a reply to its original by subject plus sender display
// name. This matching is known-weak for duplicate subject/sender pairs; the
// thread ID captured per target keeps the reply in the right thread once a
// match is made.
func targetKey(subject, sender string) string {
	return subject + "\x00" + sender
}

// ListUnread fetches unread inbox messages received at or after since and
// records each one's reply target for this run.
func (c *GmailClient) ListUnread(ctx context.Context, since time.Time) ([]models.CandidateMessage, error) {
	query := fmt.Sprintf("in:inbox is:unread after:%d", since.Unix())

	var ids []string
	pageToken := ""
	for {
		call := c.srv.Users.Messages.List(gmailUser).Q(query).Context(ctx)
		if pageToken != "" {
			call.PageToken(pageToken)
		}
		res, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("listing unread messages: %w", err)
		}
		for _, m := range res.Messages {
			ids = append(ids, m.Id)
		}
		if res.NextPageToken == "" {
			break
		}
		pageToken = res.NextPageToken
	}

	var candidates []models.CandidateMessage
	for _, id := range ids {
		msg, err := c.srv.Users.Messages.Get(gmailUser, id).Format("full").Context(ctx).Do()
		if err != nil {
			c.logger.Warn("could not fetch message", zap.String("id", id), zap.Error(err))
			continue
		}

		received := receivedTime(msg)
		if received.Before(since) {
			continue
		}

		from := headerValue(msg, "From")
		subject := headerValue(msg, "Subject")
		sender := senderName(from)

		candidates = append(candidates, models.CandidateMessage{
			Subject:  subject,
			Sender:   sender,
			Received: received,
			Body:     plainTextBody(msg.Payload),
		})

		messageID := headerValue(msg, "Message-ID")
		references := strings.TrimSpace(headerValue(msg, "References") + " " + messageID)
		c.targets[targetKey(subject, sender)] = replyTarget{
			threadID:   msg.ThreadId,
			messageID:  messageID,
			references: references,
			address:    senderAddress(from),
		}
	}
	return candidates, nil
}

// PostReply sends bodyHTML into the thread of the message matching subject
// and sender, as indexed by the preceding ListUnread call.
func (c *GmailClient) PostReply(ctx context.Context, subject, sender, bodyHTML string) error {
	target, ok := c.targets[targetKey(subject, sender)]
	if !ok {
		return fmt.Errorf("%w: subject %q from %q", ErrMessageNotFound, subject, sender)
	}

	raw := buildReplyRaw(target.address, subject, target.messageID, target.references, bodyHTML)
	_, err := c.srv.Users.Messages.Send(gmailUser, &gmail.Message{
		Raw:      raw,
		ThreadId: target.threadID,
	}).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("sending reply: %w", err)
	}

	c.logger.Info("reply posted",
		zap.String("subject", subject),
		zap.String("to", target.address))
	return nil
}
