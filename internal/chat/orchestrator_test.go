package chat

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/manus-labs/manus-backend/internal/agents/registry"
	"github.com/manus-labs/manus-backend/internal/chat/llm"
	"github.com/manus-labs/manus-backend/internal/credits"
	projdom "github.com/manus-labs/manus-backend/internal/projects/domain"
	"github.com/manus-labs/manus-backend/internal/projects/service"
	"github.com/manus-labs/manus-backend/internal/store"
)

type stubClient struct {
	resp    *llm.Response
	err     error
	calls   int
	lastReq llm.Request
}

func (s *stubClient) Generate(_ context.Context, req llm.Request) (*llm.Response, error) {
	s.calls++
	s.lastReq = req
	return s.resp, s.err
}

type stubProvider struct {
	client *stubClient
}

func (p stubProvider) ClientFor(provider, apiKey string) (llm.Client, error) {
	return p.client, nil
}

type harness struct {
	orch     *Orchestrator
	ledger   *credits.Ledger
	projects *service.ProjectService
	client   *stubClient
	store    store.Store
}

func setupOrchestrator(t *testing.T, resp *llm.Response, upstreamErr error) *harness {
	mr := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rc.Close() })

	st := store.NewRedisStore(rc)
	require.NoError(t, st.SaveProjects(context.Background(), "user-1", []projdom.Project{}))

	ledger := credits.NewLedger()
	ledger.Reset("user-1", credits.LoginGrant)

	client := &stubClient{resp: resp, err: upstreamErr}
	projects := service.NewProjectService(st)
	orch := NewOrchestrator(registry.New(st), projects, ledger, stubProvider{client: client})
	return &harness{orch: orch, ledger: ledger, projects: projects, client: client, store: st}
}

func TestOrchestrator_RefusesEmptySend(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{Text: "unused"}, nil)

	result, err := h.orch.Send(context.Background(), "user-1", SendRequest{Text: "   "})
	require.NoError(t, err)
	assert.True(t, result.Refused)
	assert.Equal(t, 0, h.client.calls)
	assert.Equal(t, credits.LoginGrant, h.ledger.Balance("user-1"))
}

func TestOrchestrator_InsufficientCreditsBeforeNetwork(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{Text: "unused"}, nil)
	h.ledger.Reset("user-1", credits.SendCost-1)

	result, err := h.orch.Send(context.Background(), "user-1", SendRequest{Text: "hello"})
	require.NoError(t, err)
	assert.True(t, result.NeedsTopup)
	assert.Equal(t, 0, h.client.calls)
	assert.Equal(t, credits.SendCost-1, h.ledger.Balance("user-1"))
}

func TestOrchestrator_PlainTextExchange(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{Text: "Sure, here is a plan."}, nil)

	result, err := h.orch.Send(context.Background(), "user-1", SendRequest{Text: "plan my week"})
	require.NoError(t, err)

	require.NotNil(t, result.Project)
	assert.Equal(t, "Sure, here is a plan.", result.AssistantMessage.Text)
	assert.Equal(t, projdom.RoleUser, result.UserMessage.Role)
	assert.NotEqual(t, result.UserMessage.ID, result.AssistantMessage.ID)
	assert.Equal(t, credits.LoginGrant-credits.SendCost, h.ledger.Balance("user-1"))

	// The default agent's instruction plus the tool protocol rider.
	assert.True(t, strings.HasPrefix(h.client.lastReq.SystemInstruction, "You are Manus v2.5."))
	assert.True(t, strings.HasSuffix(h.client.lastReq.SystemInstruction, protocolSuffix))
	assert.Len(t, h.client.lastReq.Tools, 2)
}

func TestOrchestrator_FencedAttachmentPersistsIntoHistory(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{Text: "Looks fine."}, nil)

	result, err := h.orch.Send(context.Background(), "user-1", SendRequest{
		Text: "review this",
		Attachments: []Attachment{{
			ID: "a1", Name: "main.go", Type: AttachmentCode,
			Content: "package main", Status: AttachmentReady,
		}},
	})
	require.NoError(t, err)

	// The stored user message carries the fenced file, not just the typed text.
	assert.Contains(t, result.UserMessage.Text, "```main.go\npackage main\n```")
	assert.Equal(t, h.client.lastReq.Text, result.UserMessage.Text)

	// The next turn rebuilds history from stored messages, so the file
	// content has to come back around.
	_, err = h.orch.Send(context.Background(), "user-1", SendRequest{
		ProjectID: result.Project.ID, Text: "now refactor it",
	})
	require.NoError(t, err)
	require.Len(t, h.client.lastReq.History, 2)
	assert.Contains(t, h.client.lastReq.History[0].Text, "package main")
}

func TestOrchestrator_WebsiteArtifactCommitsAndCharges(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{
		Invocations: []llm.Invocation{
			llm.WebsiteInvocation{Description: "landing", HTMLCode: "<html>v1</html>"},
			llm.WebsiteInvocation{Description: "landing", HTMLCode: "<html>v2</html>"},
		},
	}, nil)

	result, err := h.orch.Send(context.Background(), "user-1", SendRequest{Text: "build a landing page"})
	require.NoError(t, err)

	// Last invocation of a kind wins, prose falls back to the stock line.
	assert.Equal(t, "<html>v2</html>", result.Project.WebsiteCode)
	assert.Equal(t, defaultCompletionText, result.AssistantMessage.Text)
	assert.Equal(t, credits.LoginGrant-credits.SendCost-credits.ArtifactCost, h.ledger.Balance("user-1"))
}

func TestOrchestrator_ArtifactChargeShortfall(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{
		Text: "Attempted a build.",
		Invocations: []llm.Invocation{
			llm.WebsiteInvocation{HTMLCode: "<html>x</html>"},
		},
	}, nil)
	h.ledger.Reset("user-1", 50)

	result, err := h.orch.Send(context.Background(), "user-1", SendRequest{Text: "build it"})
	require.NoError(t, err)

	assert.True(t, result.NeedsTopup)
	assert.Equal(t, "Attempted a build.", result.Text)
	// Base charge stands, artifact charge was rejected, nothing committed.
	assert.Equal(t, 45, h.ledger.Balance("user-1"))
	projects, err := h.projects.List(context.Background(), "user-1", projdom.CategoryAll, "")
	require.NoError(t, err)
	assert.Empty(t, projects)
}

func TestOrchestrator_UpstreamFailureLeavesConversationIntact(t *testing.T) {
	h := setupOrchestrator(t, nil, errors.New("gemini API error 429 RESOURCE_EXHAUSTED: quota"))

	_, err := h.orch.Send(context.Background(), "user-1", SendRequest{Text: "hello"})
	var failure *SendFailure
	require.ErrorAs(t, err, &failure)
	assert.Equal(t, FailureQuota, failure.Kind)

	// The base charge is not refunded, the conversation is untouched.
	assert.Equal(t, credits.LoginGrant-credits.SendCost, h.ledger.Balance("user-1"))
	projects, listErr := h.projects.List(context.Background(), "user-1", projdom.CategoryAll, "")
	require.NoError(t, listErr)
	assert.Empty(t, projects)
}

func TestOrchestrator_ExistingProjectCarriesHistory(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{Text: "Continuing."}, nil)
	require.NoError(t, h.store.SaveProjects(context.Background(), "user-1", []projdom.Project{{
		ID: "42", Title: "Ongoing", Category: projdom.CategoryAll, Status: projdom.StatusCompleted,
		Messages: []projdom.ChatMessage{
			{ID: "1", Role: projdom.RoleUser, Text: "start"},
			{ID: "2", Role: projdom.RoleModel, Text: "started"},
		},
	}}))

	result, err := h.orch.Send(context.Background(), "user-1", SendRequest{ProjectID: "42", Text: "continue"})
	require.NoError(t, err)

	require.Len(t, h.client.lastReq.History, 2)
	assert.Equal(t, "model", h.client.lastReq.History[1].Role)
	assert.Len(t, result.Project.Messages, 4)
}

func TestOrchestrator_UnknownProjectCostsNothing(t *testing.T) {
	h := setupOrchestrator(t, &llm.Response{Text: "unused"}, nil)

	_, err := h.orch.Send(context.Background(), "user-1", SendRequest{ProjectID: "missing", Text: "hi"})
	assert.ErrorIs(t, err, projdom.ErrNotFound)
	assert.Equal(t, 0, h.client.calls)
	assert.Equal(t, credits.LoginGrant, h.ledger.Balance("user-1"))
}
