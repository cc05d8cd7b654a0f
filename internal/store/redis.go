package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"

	agentdom "github.com/manus-labs/manus-backend/internal/agents/domain"
	projdom "github.com/manus-labs/manus-backend/internal/projects/domain"
)

// RedisStore keeps each collection as a single JSON string under a fixed key.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) LoadProjects(ctx context.Context, userID string) ([]projdom.Project, error) {
	raw, err := s.client.Get(ctx, projectsKey(userID)).Bytes()
	if err == redis.Nil {
		return SeedProjects(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("load projects: %w", err)
	}
	return decodeProjects(raw), nil
}

func (s *RedisStore) SaveProjects(ctx context.Context, userID string, projects []projdom.Project) error {
	if projects == nil {
		projects = []projdom.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}
	if err := s.client.Set(ctx, projectsKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("save projects: %w", err)
	}
	return nil
}

func (s *RedisStore) LoadAgents(ctx context.Context, userID string) ([]agentdom.Agent, error) {
	raw, err := s.client.Get(ctx, agentsKey(userID)).Bytes()
	if err == redis.Nil {
		return []agentdom.Agent{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load agents: %w", err)
	}
	return decodeAgents(raw), nil
}

func (s *RedisStore) SaveAgents(ctx context.Context, userID string, agents []agentdom.Agent) error {
	if agents == nil {
		agents = []agentdom.Agent{}
	}
	data, err := json.Marshal(agents)
	if err != nil {
		return fmt.Errorf("marshal agents: %w", err)
	}
	if err := s.client.Set(ctx, agentsKey(userID), data, 0).Err(); err != nil {
		return fmt.Errorf("save agents: %w", err)
	}
	return nil
}

func (s *RedisStore) ProjectOwners(ctx context.Context) ([]string, error) {
	var owners []string
	iter := s.client.Scan(ctx, 0, projectsKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		owners = append(owners, strings.TrimPrefix(iter.Val(), projectsKeyPrefix))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan project owners: %w", err)
	}
	return owners, nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
