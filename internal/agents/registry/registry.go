package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/manus-labs/manus-backend/internal/agents/domain"
	"github.com/manus-labs/manus-backend/internal/store"
)

// Registry manages the custom agent roster on top of the persisted store.
// The built-in default agent is served from code and never written back.
type Registry struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func New(st store.Store) *Registry {
	return &Registry{store: st, locks: make(map[string]*sync.Mutex)}
}

// userLock serializes read-modify-write cycles on one user's roster.
func (r *Registry) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		r.locks[userID] = l
	}
	return l
}

// List returns the user's custom agents (the built-in is not included).
func (r *Registry) List(ctx context.Context, userID string) ([]domain.Agent, error) {
	return r.store.LoadAgents(ctx, userID)
}

// Resolve returns the agent for id, falling back to the built-in default
// when id is empty or unknown.
func (r *Registry) Resolve(ctx context.Context, userID, id string) domain.Agent {
	if id == "" || id == domain.BuiltInID {
		return domain.BuiltIn()
	}
	agents, err := r.store.LoadAgents(ctx, userID)
	if err != nil {
		return domain.BuiltIn()
	}
	for _, a := range agents {
		if a.ID == id {
			return a
		}
	}
	return domain.BuiltIn()
}

// CreateInput carries the user-supplied fields of a new agent.
type CreateInput struct {
	Name              string
	SystemInstruction string
	IconType          string
	Color             string
	Provider          domain.Provider
	APIKey            string
}

// Create validates the input, assigns a fresh id and persists the roster.
func (r *Registry) Create(ctx context.Context, userID string, in CreateInput) (*domain.Agent, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrNameRequired
	}
	if strings.TrimSpace(in.SystemInstruction) == "" {
		return nil, domain.ErrInstructionRequired
	}
	if !in.Provider.Valid() {
		in.Provider = domain.ProviderGemini
	}
	if in.IconType == "" {
		in.IconType = "bot"
	}
	if in.Color == "" {
		in.Color = "#2563EB"
	}

	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	agents, err := r.store.LoadAgents(ctx, userID)
	if err != nil {
		return nil, err
	}

	agent := domain.Agent{
		ID:                uuid.NewString(),
		Name:              strings.TrimSpace(in.Name),
		SystemInstruction: strings.TrimSpace(in.SystemInstruction),
		IconType:          in.IconType,
		Color:             in.Color,
		Provider:          in.Provider,
		APIKey:            in.APIKey,
	}
	agents = append(agents, agent)

	if err := r.store.SaveAgents(ctx, userID, agents); err != nil {
		return nil, err
	}
	return &agent, nil
}

// Delete removes the agent with the given id. Unknown ids are a no-op; the
// built-in id is refused.
func (r *Registry) Delete(ctx context.Context, userID, id string) error {
	if id == domain.BuiltInID {
		return domain.ErrBuiltInImmutable
	}

	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	agents, err := r.store.LoadAgents(ctx, userID)
	if err != nil {
		return err
	}

	kept := agents[:0]
	for _, a := range agents {
		if a.ID != id {
			kept = append(kept, a)
		}
	}
	if len(kept) == len(agents) {
		return nil
	}
	return r.store.SaveAgents(ctx, userID, kept)
}

// ImportBatch accepts a JSON object or array of candidate agents, keeps the
// entries carrying non-empty name, systemInstruction and provider, and
// appends them with fresh ids. Malformed JSON or zero valid entries mutate
// nothing. Returns the number of admitted agents.
func (r *Registry) ImportBatch(ctx context.Context, userID string, raw []byte) (int, error) {
	var candidates []domain.Agent
	if err := json.Unmarshal(raw, &candidates); err != nil {
		var single domain.Agent
		if err := json.Unmarshal(raw, &single); err != nil {
			return 0, domain.ErrMalformedImport
		}
		candidates = []domain.Agent{single}
	}

	valid := make([]domain.Agent, 0, len(candidates))
	for _, a := range candidates {
		if strings.TrimSpace(a.Name) == "" ||
			strings.TrimSpace(a.SystemInstruction) == "" ||
			strings.TrimSpace(string(a.Provider)) == "" {
			continue
		}
		a.ID = newImportID()
		valid = append(valid, a)
	}
	if len(valid) == 0 {
		return 0, domain.ErrNoValidAgents
	}

	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	agents, err := r.store.LoadAgents(ctx, userID)
	if err != nil {
		return 0, err
	}
	agents = append(agents, valid...)
	if err := r.store.SaveAgents(ctx, userID, agents); err != nil {
		return 0, err
	}
	return len(valid), nil
}

// ExportAll serializes the custom agent list as pretty JSON. Exporting an
// empty roster is refused.
func (r *Registry) ExportAll(ctx context.Context, userID string) ([]byte, error) {
	agents, err := r.store.LoadAgents(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(agents) == 0 {
		return nil, domain.ErrNothingToExport
	}
	data, err := json.MarshalIndent(agents, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal agents: %w", err)
	}
	return data, nil
}

// newImportID mints ids for imported entries so they can never collide with
// ids already in the roster.
func newImportID() string {
	return fmt.Sprintf("imported-%d-%s", time.Now().UnixMilli(), uuid.NewString()[:5])
}
