package store

import (
	"context"
	"encoding/json"
	"log"

	agentdom "github.com/manus-labs/manus-backend/internal/agents/domain"
	projdom "github.com/manus-labs/manus-backend/internal/projects/domain"
)

// Key layout for the two persisted JSON documents, one pair per user.
const (
	projectsKeyPrefix = "manus:projects:"
	agentsKeyPrefix   = "manus:agents:"
)

// Store persists the two user-scoped JSON collections. Writes replace the
// whole document (last-writer-wins, single logical writer). Loads never fail
// on absent or malformed payloads: projects fall back to the seed list,
// agents to an empty list.
type Store interface {
	LoadProjects(ctx context.Context, userID string) ([]projdom.Project, error)
	SaveProjects(ctx context.Context, userID string, projects []projdom.Project) error
	LoadAgents(ctx context.Context, userID string) ([]agentdom.Agent, error)
	SaveAgents(ctx context.Context, userID string, agents []agentdom.Agent) error

	// ProjectOwners lists the user ids that currently have a projects
	// document. Used by the background progress ticker.
	ProjectOwners(ctx context.Context) ([]string, error)

	// Ping reports backend reachability for health checks.
	Ping(ctx context.Context) error
}

func projectsKey(userID string) string { return projectsKeyPrefix + userID }
func agentsKey(userID string) string   { return agentsKeyPrefix + userID }

// decodeProjects turns a stored document into a normalized project list.
// Any decode failure falls back to the seed list.
func decodeProjects(raw []byte) []projdom.Project {
	if len(raw) == 0 {
		return SeedProjects()
	}
	var out []projdom.Project
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("store: corrupt projects document, loading seed list: %v", err)
		return SeedProjects()
	}
	if out == nil {
		out = []projdom.Project{}
	}
	for i := range out {
		out[i].Normalize()
	}
	return out
}

// decodeAgents turns a stored document into the custom agent list. Any
// decode failure falls back to an empty list.
func decodeAgents(raw []byte) []agentdom.Agent {
	if len(raw) == 0 {
		return []agentdom.Agent{}
	}
	var out []agentdom.Agent
	if err := json.Unmarshal(raw, &out); err != nil {
		log.Printf("store: corrupt agents document, loading empty list: %v", err)
		return []agentdom.Agent{}
	}
	if out == nil {
		out = []agentdom.Agent{}
	}
	return out
}
