package service

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/manus-labs/manus-backend/internal/projects/domain"
	"github.com/manus-labs/manus-backend/internal/store"
)

// ProjectService owns every mutation of a user's project document, so there
// is one logical writer per user at a time.
type ProjectService struct {
	store store.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func NewProjectService(st store.Store) *ProjectService {
	return &ProjectService{store: st, locks: make(map[string]*sync.Mutex)}
}

func (s *ProjectService) userLock(userID string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		s.locks[userID] = l
	}
	return l
}

// List returns the user's projects filtered by category and search text.
// CategoryAll matches everything; the search matches title or description,
// case-insensitive.
func (s *ProjectService) List(ctx context.Context, userID string, category domain.Category, search string) ([]domain.Project, error) {
	all, err := s.store.LoadProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	if category == "" {
		category = domain.CategoryAll
	}
	needle := strings.ToLower(strings.TrimSpace(search))

	out := make([]domain.Project, 0, len(all))
	for _, p := range all {
		if !p.MatchesCategory(category) {
			continue
		}
		if needle != "" &&
			!strings.Contains(strings.ToLower(p.Title), needle) &&
			!strings.Contains(strings.ToLower(p.Description), needle) {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

// Get returns one project by id.
func (s *ProjectService) Get(ctx context.Context, userID, id string) (*domain.Project, error) {
	all, err := s.store.LoadProjects(ctx, userID)
	if err != nil {
		return nil, err
	}
	for i := range all {
		if all[i].ID == id {
			return &all[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// Delete removes a project by id.
func (s *ProjectService) Delete(ctx context.Context, userID, id string) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	all, err := s.store.LoadProjects(ctx, userID)
	if err != nil {
		return err
	}
	kept := all[:0]
	for _, p := range all {
		if p.ID != id {
			kept = append(kept, p)
		}
	}
	if len(kept) == len(all) {
		return domain.ErrNotFound
	}
	return s.store.SaveProjects(ctx, userID, kept)
}

// CommitExchange appends a completed user/model exchange to the target
// project and persists. An empty projectID creates a new project titled
// from the user's text. Artifacts carried by the model message overwrite
// the project-level ones.
func (s *ProjectService) CommitExchange(ctx context.Context, userID, projectID, agentID string, userMsg, modelMsg domain.ChatMessage) (*domain.Project, error) {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	all, err := s.store.LoadProjects(ctx, userID)
	if err != nil {
		return nil, err
	}

	var target *domain.Project
	if projectID != "" {
		for i := range all {
			if all[i].ID == projectID {
				target = &all[i]
				break
			}
		}
		if target == nil {
			return nil, domain.ErrNotFound
		}
	} else {
		all = append(all, newProjectFrom(userMsg.Text))
		target = &all[len(all)-1]
	}

	if agentID != "" {
		target.AgentID = agentID
	}
	target.Messages = append(target.Messages, userMsg, modelMsg)
	if modelMsg.WebsiteCode != "" {
		target.WebsiteCode = modelMsg.WebsiteCode
	}
	if modelMsg.MobileAppData != nil {
		target.MobileAppData = modelMsg.MobileAppData
	}

	if err := s.store.SaveProjects(ctx, userID, all); err != nil {
		return nil, err
	}

	committed := *target
	return &committed, nil
}

// AdvancePendingProgress bumps every pending project's progress by step,
// completing those that reach 100. Drives the simulated in-flight builds on
// the home screen.
func (s *ProjectService) AdvancePendingProgress(ctx context.Context, userID string, step int) error {
	lock := s.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	all, err := s.store.LoadProjects(ctx, userID)
	if err != nil {
		return err
	}

	changed := false
	for i := range all {
		if all[i].Status != domain.StatusPending {
			continue
		}
		all[i].Progress += step
		if all[i].Progress >= 100 {
			all[i].Progress = 0
			all[i].Status = domain.StatusCompleted
		}
		changed = true
	}
	if !changed {
		return nil
	}
	return s.store.SaveProjects(ctx, userID, all)
}

// Owners exposes the store's owner listing for the progress ticker.
func (s *ProjectService) Owners(ctx context.Context) ([]string, error) {
	return s.store.ProjectOwners(ctx)
}

func newProjectFrom(text string) domain.Project {
	p := domain.Project{
		ID:          strconv.FormatInt(time.Now().UnixMilli(), 10),
		Title:       truncate(text, 40),
		Description: truncate(text, 80),
		Date:        "Today",
		Icon:        "game",
		Category:    domain.CategoryAll,
		Status:      domain.StatusCompleted,
		Messages:    []domain.ChatMessage{},
	}
	return p
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
