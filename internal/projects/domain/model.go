package domain

import (
	"encoding/json"
	"time"
)

type ProjectStatus string

const (
	StatusPending   ProjectStatus = "pending"
	StatusCompleted ProjectStatus = "completed"
	StatusFailed    ProjectStatus = "failed"
)

// Category partitions the project list. "All" is not a real category but a
// filter wildcard matching everything.
type Category string

const (
	CategoryAll       Category = "All"
	CategoryFavorites Category = "Favorites"
	CategoryScheduled Category = "Scheduled"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// MobileAppData is the generated mobile artifact attached to a message or
// project. Platform is "React Native" or "Flutter".
type MobileAppData struct {
	Platform    string `json:"platform"`
	Code        string `json:"code"`
	Description string `json:"description"`
	AppName     string `json:"appName,omitempty"`
}

// AgentStep is a display-level step of a model turn. Kept for persistence
// compatibility; the backend never interprets it.
type AgentStep struct {
	ID     string `json:"id"`
	Type   string `json:"type"`
	Label  string `json:"label"`
	Status string `json:"status"`
}

// ChatMessage is one turn of a project conversation. Only insertion order is
// guaranteed.
type ChatMessage struct {
	ID            string         `json:"id"`
	Role          Role           `json:"role"`
	Text          string         `json:"text"`
	Timestamp     time.Time      `json:"timestamp"`
	AgentID       string         `json:"agentId,omitempty"`
	Steps         []AgentStep    `json:"steps,omitempty"`
	WebsiteCode   string         `json:"websiteCode,omitempty"`
	MobileAppData *MobileAppData `json:"mobileAppData,omitempty"`
}

// UnmarshalJSON rehydrates the ISO-8601 timestamp defensively: a missing or
// unparsable value defaults to now instead of failing the whole load.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	type alias ChatMessage
	aux := struct {
		Timestamp string `json:"timestamp"`
		*alias
	}{alias: (*alias)(m)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	ts, err := time.Parse(time.RFC3339, aux.Timestamp)
	if err != nil {
		ts = time.Now().UTC()
	}
	m.Timestamp = ts
	return nil
}

// Project aggregates a persisted conversation plus its generated artifacts.
type Project struct {
	ID            string         `json:"id"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Date          string         `json:"date"`
	Icon          string         `json:"icon"`
	IsDashedIcon  bool           `json:"isDashedIcon,omitempty"`
	Category      Category       `json:"category"`
	Status        ProjectStatus  `json:"status"`
	Progress      int            `json:"progress,omitempty"`
	Messages      []ChatMessage  `json:"messages"`
	AgentID       string         `json:"agentId,omitempty"`
	WebsiteCode   string         `json:"websiteCode,omitempty"`
	MobileAppData *MobileAppData `json:"mobileAppData,omitempty"`
}

// Normalize enforces the shape invariants after a load: a non-nil message
// list, a known category and a known status, progress meaningful only while
// pending.
func (p *Project) Normalize() {
	if p.Messages == nil {
		p.Messages = []ChatMessage{}
	}
	switch p.Category {
	case CategoryAll, CategoryFavorites, CategoryScheduled:
	default:
		p.Category = CategoryAll
	}
	switch p.Status {
	case StatusPending, StatusCompleted, StatusFailed:
	default:
		p.Status = StatusCompleted
	}
	if p.Status != StatusPending {
		p.Progress = 0
	}
	if p.Progress < 0 {
		p.Progress = 0
	}
	if p.Progress > 100 {
		p.Progress = 100
	}
}

// MatchesCategory applies the wildcard rule for "All".
func (p *Project) MatchesCategory(c Category) bool {
	return c == CategoryAll || p.Category == c
}
