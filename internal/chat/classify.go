package chat

import (
	"fmt"
	"strings"
)

// FailureKind sorts upstream model errors into the bucket that decides the
// user-facing message.
type FailureKind string

const (
	FailureQuota      FailureKind = "quota"
	FailureCredential FailureKind = "credential"
	FailureUnknown    FailureKind = "unknown"
)

// SendFailure is an upstream model failure with its classification. The
// conversation is never mutated when a SendFailure is returned.
type SendFailure struct {
	Kind    FailureKind
	AgentID string
	Err     error
}

func (f *SendFailure) Error() string {
	return fmt.Sprintf("model request failed (%s): %v", f.Kind, f.Err)
}

func (f *SendFailure) Unwrap() error { return f.Err }

// Message is the user-facing text for this failure.
func (f *SendFailure) Message() string {
	switch f.Kind {
	case FailureQuota:
		return "The model is rate limited or out of quota right now. Please wait a moment and try again."
	case FailureCredential:
		return "The API key configured for this agent was rejected. Check the agent's credentials and try again."
	default:
		return "The engineering run failed unexpectedly. Your conversation is intact; please try again."
	}
}

var (
	quotaMarkers      = []string{"429", "quota", "rate limit", "RESOURCE_EXHAUSTED"}
	credentialMarkers = []string{"API key", "API_KEY_INVALID", "401", "403", "PERMISSION_DENIED", "unauthorized"}
)

// classifyFailure inspects the error text for the markers the upstream APIs
// actually emit. Quota markers win over credential markers.
func classifyFailure(agentID string, err error) *SendFailure {
	text := err.Error()
	for _, marker := range quotaMarkers {
		if strings.Contains(text, marker) {
			return &SendFailure{Kind: FailureQuota, AgentID: agentID, Err: err}
		}
	}
	for _, marker := range credentialMarkers {
		if strings.Contains(text, marker) {
			return &SendFailure{Kind: FailureCredential, AgentID: agentID, Err: err}
		}
	}
	return &SendFailure{Kind: FailureUnknown, AgentID: agentID, Err: err}
}
