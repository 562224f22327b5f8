package triage

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// SummaryUnavailable is logged in place of a summary when the gateway fails.
// It is deliberately not empty so the audit trail can tell "no content" from
// "failed to summarize".
const SummaryUnavailable = "Summary not available or AI call failed."

const summarizerSystem = "You are an expert email summarization assistant. " +
	"Always produce a short summary highlighting key points, deadlines, or actions."

const summarizeTemperature = 0.2

// Summarizer produces a bullet-point digest of one message body.
type Summarizer struct {
	completer Completer
	logger    *zap.Logger
}

func NewSummarizer(completer Completer, logger *zap.Logger) *Summarizer {
	return &Summarizer{completer: completer, logger: logger}
}

// Summarize never fails; on a gateway failure it returns SummaryUnavailable.
func (s *Summarizer) Summarize(ctx context.Context, body string) string {
	prompt := fmt.Sprintf(
		"Please provide a short summary in bullet points focusing on actions, deadlines, or requests:\n\n%s",
		body)

	summary, err := s.completer.Complete(ctx, summarizerSystem, prompt, summarizeTemperature)
	if err != nil {
		s.logger.Warn("summarization failed", zap.Error(err))
		return SummaryUnavailable
	}
	return summary
}
