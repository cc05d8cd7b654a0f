package chat

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyFailure(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"http 429", errors.New("gemini API error 429: too many requests"), FailureQuota},
		{"quota text", errors.New("upstream says quota exceeded"), FailureQuota},
		{"resource exhausted", errors.New("status RESOURCE_EXHAUSTED"), FailureQuota},
		{"rate limit text", errors.New("upstream rate limit reached, retry later"), FailureQuota},
		{"bad api key", errors.New("Incorrect API key provided"), FailureCredential},
		{"invalid key reason", errors.New("INVALID_ARGUMENT: API_KEY_INVALID"), FailureCredential},
		{"unauthorized text", errors.New("request unauthorized for this project"), FailureCredential},
		{"http 401", errors.New("chat-completions API error 401 invalid_request_error"), FailureCredential},
		{"http 403", errors.New("gemini API error 403 PERMISSION_DENIED"), FailureCredential},
		{"network", errors.New("dial tcp: connection refused"), FailureUnknown},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			failure := classifyFailure("agent-9", tc.err)
			assert.Equal(t, tc.want, failure.Kind)
			assert.Equal(t, "agent-9", failure.AgentID)
			assert.NotEmpty(t, failure.Message())
		})
	}
}

func TestClassifyFailure_QuotaWinsOverCredential(t *testing.T) {
	// A 429 on a keyed endpoint mentions both; quota is the actionable bucket.
	err := fmt.Errorf("API key throttled: 429")
	assert.Equal(t, FailureQuota, classifyFailure("a", err).Kind)
}

func TestSendFailure_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	failure := classifyFailure("a", fmt.Errorf("wrapped: %w", cause))
	assert.ErrorIs(t, failure, cause)
}
