package gateway

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// FailureKind is the closed taxonomy of completion failures. The remote
// service has no typed error channel for throttling, so the phrase-matching
// heuristic lives here and nowhere else.
type FailureKind int

const (
	// Transient covers rate-limiting and server overload; worth one retry.
	Transient FailureKind = iota
	// Permanent covers every other API-level failure; never retried.
	Permanent
	// Connectivity covers DNS, TCP and TLS failures; never retried.
	Connectivity
	// EmptyResult means the call succeeded but carried no usable choice.
	EmptyResult
)

func (k FailureKind) String() string {
	switch k {
	case Transient:
		return "transient"
	case Permanent:
		return "permanent"
	case Connectivity:
		return "connectivity"
	case EmptyResult:
		return "empty_result"
	default:
		return "unknown"
	}
}

// Failure is the error type the gateway returns for every failed completion.
type Failure struct {
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	if f.Err == nil {
		return fmt.Sprintf("completion failed (%s)", f.Kind)
	}
	return fmt.Sprintf("completion failed (%s): %v", f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// transientPhrases are the known throttling signals seen in upstream error
// text when no usable status code is present.
var transientPhrases = []string{"rate limit", "overloaded"}

// classifyErr assigns a FailureKind to an error returned by the completion
// client. Connectivity is checked first so a timeout is never mistaken for
// throttling and retried against a dead connection.
func classifyErr(err error) FailureKind {
	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return Connectivity
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case 429, 503:
			return Transient
		}
	}

	msg := strings.ToLower(err.Error())
	for _, phrase := range transientPhrases {
		if strings.Contains(msg, phrase) {
			return Transient
		}
	}
	return Permanent
}
