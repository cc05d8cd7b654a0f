package domain

import "errors"

// Provider identifies which upstream API an agent talks to. It selects
// request formatting only; all providers receive text plus optional inline
// attachments and may answer with text plus structured tool invocations.
type Provider string

const (
	ProviderGemini    Provider = "gemini"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderDeepSeek  Provider = "deepseek"
	ProviderOther     Provider = "other"
)

// Valid reports whether p is one of the known providers.
func (p Provider) Valid() bool {
	switch p {
	case ProviderGemini, ProviderOpenAI, ProviderAnthropic, ProviderDeepSeek, ProviderOther:
		return true
	}
	return false
}

// Agent is a configured persona used to parameterize model requests.
// APIKey is an optional per-agent credential override; when empty the
// process-wide default credential is used.
type Agent struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	SystemInstruction string   `json:"systemInstruction"`
	IconType          string   `json:"iconType"`
	Color             string   `json:"color"`
	Provider          Provider `json:"provider"`
	APIKey            string   `json:"apiKey,omitempty"`
}

// BuiltInID is the reserved id of the always-present default agent.
const BuiltInID = "manus-core"

// BuiltIn returns the immutable default agent. It is never persisted and
// cannot be deleted.
func BuiltIn() Agent {
	return Agent{
		ID:                BuiltInID,
		Name:              "Manus",
		SystemInstruction: "You are Manus v2.5. You build complete, functional web and mobile applications. When tool-calling, ensure the code provided is high-quality and production-ready.",
		IconType:          "brain",
		Color:             "#2563EB",
		Provider:          ProviderGemini,
	}
}

var (
	ErrNameRequired        = errors.New("agent name required")
	ErrInstructionRequired = errors.New("agent system instruction required")
	ErrBuiltInImmutable    = errors.New("built-in agent cannot be modified")
	ErrMalformedImport     = errors.New("failed to parse agent import file")
	ErrNoValidAgents       = errors.New("invalid agent configuration format")
	ErrNothingToExport     = errors.New("no custom agents to export")
)
