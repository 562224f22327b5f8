package mailbox

import (
	"encoding/base64"
	"net/mail"
	"strings"
	"time"

	gmail "google.golang.org/api/gmail/v1"
)

// headerValue extracts a header from a Gmail message payload.
func headerValue(m *gmail.Message, name string) string {
	if m.Payload == nil {
		return ""
	}
	for _, h := range m.Payload.Headers {
		if strings.EqualFold(h.Name, name) {
			return h.Value
		}
	}
	return ""
}

// senderName returns the display name from a From header, falling back to the
// bare address when no name is present.
func senderName(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	if addr.Name != "" {
		return addr.Name
	}
	return addr.Address
}

// senderAddress returns the bare address from a From header.
func senderAddress(from string) string {
	addr, err := mail.ParseAddress(from)
	if err != nil {
		return strings.TrimSpace(from)
	}
	return addr.Address
}

// dateFormats are the header layouts seen in the wild beyond RFC 1123Z.
var dateFormats = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700 (MST)",
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

// receivedTime resolves a message's received instant, preferring the Date
// header and falling back to Gmail's internal epoch-millisecond stamp.
func receivedTime(m *gmail.Message) time.Time {
	if raw := headerValue(m, "Date"); raw != "" {
		for _, layout := range dateFormats {
			if t, err := time.Parse(layout, raw); err == nil {
				return t
			}
		}
	}
	return time.UnixMilli(m.InternalDate)
}

// plainTextBody walks the MIME tree for the first decodable text/plain part.
func plainTextBody(part *gmail.MessagePart) string {
	if part == nil {
		return ""
	}
	if part.MimeType == "text/plain" && part.Body != nil && part.Body.Data != "" {
		data, err := base64.URLEncoding.DecodeString(part.Body.Data)
		if err == nil {
			return string(data)
		}
	}
	for _, p := range part.Parts {
		mt := strings.ToLower(p.MimeType)
		if strings.HasPrefix(mt, "text/") || strings.HasPrefix(mt, "multipart/") {
			if body := plainTextBody(p); body != "" {
				return body
			}
		}
	}
	return ""
}

// replySubject prefixes Re: unless the subject already carries it.
func replySubject(subject string) string {
	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}
	return "Re: " + subject
}

// buildReplyRaw assembles an RFC 2822 HTML reply and encodes it for the Gmail
// send API. inReplyTo and references may be empty when the original carried
// no Message-ID.
func buildReplyRaw(to, subject, inReplyTo, references, bodyHTML string) string {
	var b strings.Builder
	b.WriteString("To: " + to + "\r\n")
	b.WriteString("Subject: " + replySubject(subject) + "\r\n")
	if inReplyTo != "" {
		b.WriteString("In-Reply-To: " + inReplyTo + "\r\n")
	}
	if references != "" {
		b.WriteString("References: " + references + "\r\n")
	}
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=\"UTF-8\"\r\n")
	b.WriteString("\r\n")
	b.WriteString(bodyHTML)
	return base64.URLEncoding.EncodeToString([]byte(b.String()))
}
