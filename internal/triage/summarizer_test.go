package triage

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSummarizeSuccess(t *testing.T) {
	fake := &fakeCompleter{replies: map[string]string{
		summarizerSystem: "- send Q3 figures\n- deadline Friday",
	}}
	s := NewSummarizer(fake, zap.NewNop())

	got := s.Summarize(context.Background(), testMessage.Body)
	assert.Equal(t, "- send Q3 figures\n- deadline Friday", got)

	require.Len(t, fake.calls, 1)
	assert.Contains(t, fake.calls[0].user, testMessage.Body)
	assert.Contains(t, fake.calls[0].user, "bullet points")
	assert.Equal(t, float32(summarizeTemperature), fake.calls[0].temperature)
}

func TestSummarizeGatewayFailureReturnsSentinel(t *testing.T) {
	fake := &fakeCompleter{errs: map[string]error{summarizerSystem: errors.New("gateway down")}}
	s := NewSummarizer(fake, zap.NewNop())

	got := s.Summarize(context.Background(), testMessage.Body)
	assert.Equal(t, SummaryUnavailable, got)
	assert.NotEmpty(t, got)
}
