package chat

import (
	"context"
	"log"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/manus-labs/manus-backend/internal/agents/registry"
	"github.com/manus-labs/manus-backend/internal/chat/llm"
	"github.com/manus-labs/manus-backend/internal/credits"
	"github.com/manus-labs/manus-backend/internal/projects/domain"
	"github.com/manus-labs/manus-backend/internal/projects/service"
)

// protocolSuffix is appended to every agent's system instruction so the
// model knows when to reach for the structured operations.
const protocolSuffix = "\n\nWhen the user asks for a website, call build_website with complete self-contained HTML and CSS. When the user asks for a mobile app, call build_mobile_app with the complete entry-point source for the chosen platform. Otherwise answer in plain text."

// defaultCompletionText stands in when the model returns artifacts without
// any accompanying prose.
const defaultCompletionText = "Engineering process complete. See results below."

// Per-user send throttle. Bursty typing is fine, sustained hammering is not.
const (
	sendRatePerSecond = 1
	sendRateBurst     = 3
)

// ClientProvider builds a wire client per send. *llm.Factory satisfies it.
type ClientProvider interface {
	ClientFor(provider, apiKey string) (llm.Client, error)
}

// SendRequest is one user message aimed at a project.
type SendRequest struct {
	ProjectID   string       `json:"projectId"`
	AgentID     string       `json:"agentId"`
	Text        string       `json:"text"`
	Attachments []Attachment `json:"attachments"`
}

// SendResult reports what a send produced. Exactly one of three shapes:
// Refused (nothing happened), NeedsTopup (nothing committed, Text may carry
// the model's prose), or a committed exchange with Project and both
// messages set.
type SendResult struct {
	Refused    bool
	NeedsTopup bool
	Text       string

	Project          *domain.Project
	UserMessage      *domain.ChatMessage
	AssistantMessage *domain.ChatMessage
}

// Orchestrator runs the send pipeline: validate, charge, call the model,
// interpret invocations, commit. A failed send leaves the conversation and
// the base charge untouched except that the base charge is not refunded.
type Orchestrator struct {
	agents   *registry.Registry
	projects *service.ProjectService
	ledger   *credits.Ledger
	clients  ClientProvider

	mu       sync.Mutex
	inflight map[string]bool
	limiters map[string]*rate.Limiter
}

func NewOrchestrator(agents *registry.Registry, projects *service.ProjectService, ledger *credits.Ledger, clients ClientProvider) *Orchestrator {
	return &Orchestrator{
		agents:   agents,
		projects: projects,
		ledger:   ledger,
		clients:  clients,
		inflight: make(map[string]bool),
		limiters: make(map[string]*rate.Limiter),
	}
}

func (o *Orchestrator) limiter(userID string) *rate.Limiter {
	o.mu.Lock()
	defer o.mu.Unlock()
	lim, ok := o.limiters[userID]
	if !ok {
		lim = rate.NewLimiter(rate.Limit(sendRatePerSecond), sendRateBurst)
		o.limiters[userID] = lim
	}
	return lim
}

// acquire marks the session busy. One in-flight send per session.
func (o *Orchestrator) acquire(key string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.inflight[key] {
		return false
	}
	o.inflight[key] = true
	return true
}

func (o *Orchestrator) release(key string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.inflight, key)
}

func sessionKey(userID, projectID string) string {
	if projectID == "" {
		projectID = "new"
	}
	return userID + "|" + projectID
}

// Send runs one full exchange. A *SendFailure error means the upstream
// model failed and nothing was committed; any other error is internal.
func (o *Orchestrator) Send(ctx context.Context, userID string, req SendRequest) (*SendResult, error) {
	body, images := composeOutgoing(req.Text, req.Attachments)
	if body == "" && len(images) == 0 {
		return &SendResult{Refused: true}, nil
	}

	key := sessionKey(userID, req.ProjectID)
	if !o.acquire(key) {
		return &SendResult{Refused: true}, nil
	}
	defer o.release(key)

	if !o.limiter(userID).Allow() {
		return &SendResult{Refused: true}, nil
	}

	// Resolve the target before charging so a stale project id costs nothing.
	var history []llm.Turn
	if req.ProjectID != "" {
		project, err := o.projects.Get(ctx, userID, req.ProjectID)
		if err != nil {
			return nil, err
		}
		history = historyTurns(project.Messages)
	}

	if !o.ledger.Debit(userID, credits.SendCost) {
		return &SendResult{NeedsTopup: true}, nil
	}

	agent := o.agents.Resolve(ctx, userID, req.AgentID)
	client, err := o.clients.ClientFor(string(agent.Provider), agent.APIKey)
	if err != nil {
		return nil, classifyFailure(agent.ID, err)
	}

	resp, err := client.Generate(ctx, llm.Request{
		History:           history,
		Text:              body,
		Images:            images,
		SystemInstruction: agent.SystemInstruction + protocolSuffix,
		Tools:             llm.BuildToolDecls(),
	})
	if err != nil {
		return nil, classifyFailure(agent.ID, err)
	}

	websiteCode, mobileApp := foldInvocations(resp.Invocations)
	if websiteCode != "" || mobileApp != nil {
		if !o.ledger.Debit(userID, credits.ArtifactCost) {
			return &SendResult{NeedsTopup: true, Text: resp.Text}, nil
		}
	}

	// The composed body is the message of record: fenced attachments have
	// to survive into stored history or the next turn loses them.
	now := time.Now().UTC()
	userMsg := domain.ChatMessage{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		Role:      domain.RoleUser,
		Text:      body,
		Timestamp: now,
	}
	modelText := resp.Text
	if modelText == "" {
		modelText = defaultCompletionText
	}
	modelMsg := domain.ChatMessage{
		ID:            strconv.FormatInt(now.UnixMilli()+1, 10),
		Role:          domain.RoleModel,
		Text:          modelText,
		Timestamp:     now,
		AgentID:       agent.ID,
		WebsiteCode:   websiteCode,
		MobileAppData: mobileApp,
	}

	project, err := o.projects.CommitExchange(ctx, userID, req.ProjectID, agent.ID, userMsg, modelMsg)
	if err != nil {
		return nil, err
	}

	n := len(project.Messages)
	return &SendResult{
		Project:          project,
		UserMessage:      &project.Messages[n-2],
		AssistantMessage: &project.Messages[n-1],
	}, nil
}

// foldInvocations reduces the invocation list to project artifacts. Later
// invocations of the same kind win; unknown operations are logged and
// skipped.
func foldInvocations(invocations []llm.Invocation) (string, *domain.MobileAppData) {
	var websiteCode string
	var mobileApp *domain.MobileAppData

	for _, inv := range invocations {
		switch v := inv.(type) {
		case llm.WebsiteInvocation:
			websiteCode = v.HTMLCode
		case llm.MobileAppInvocation:
			mobileApp = &domain.MobileAppData{
				Platform:    v.Platform,
				Code:        v.Code,
				Description: v.Description,
				AppName:     v.AppName,
			}
		case llm.UnknownInvocation:
			log.Printf("skipping unknown tool invocation %q", v.Name)
		}
	}
	return websiteCode, mobileApp
}

func historyTurns(messages []domain.ChatMessage) []llm.Turn {
	turns := make([]llm.Turn, 0, len(messages))
	for _, m := range messages {
		if m.Text == "" {
			continue
		}
		turns = append(turns, llm.Turn{Role: string(m.Role), Text: m.Text})
	}
	return turns
}
