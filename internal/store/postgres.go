package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	agentdom "github.com/manus-labs/manus-backend/internal/agents/domain"
	projdom "github.com/manus-labs/manus-backend/internal/projects/domain"
)

// PostgresStore keeps the same two whole-document collections in a
// key/document table, so the persistence format stays identical to the
// Redis backend.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Migrate creates the documents table if it does not exist.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS manus_documents (
    key        TEXT PRIMARY KEY,
    doc        JSONB NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`
	if _, err := s.db.ExecContext(ctx, q); err != nil {
		return fmt.Errorf("migrate documents table: %w", err)
	}
	return nil
}

func (s *PostgresStore) load(ctx context.Context, key string) ([]byte, error) {
	const q = `SELECT doc FROM manus_documents WHERE key = $1;`
	var raw []byte
	err := s.db.QueryRowContext(ctx, q, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document %s: %w", key, err)
	}
	return raw, nil
}

func (s *PostgresStore) save(ctx context.Context, key string, doc []byte) error {
	const q = `
INSERT INTO manus_documents (key, doc, updated_at)
VALUES ($1, $2, now())
ON CONFLICT (key) DO UPDATE SET doc = EXCLUDED.doc, updated_at = now();
`
	if _, err := s.db.ExecContext(ctx, q, key, doc); err != nil {
		return fmt.Errorf("save document %s: %w", key, err)
	}
	return nil
}

func (s *PostgresStore) LoadProjects(ctx context.Context, userID string) ([]projdom.Project, error) {
	raw, err := s.load(ctx, projectsKey(userID))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return SeedProjects(), nil
	}
	return decodeProjects(raw), nil
}

func (s *PostgresStore) SaveProjects(ctx context.Context, userID string, projects []projdom.Project) error {
	if projects == nil {
		projects = []projdom.Project{}
	}
	data, err := json.Marshal(projects)
	if err != nil {
		return fmt.Errorf("marshal projects: %w", err)
	}
	return s.save(ctx, projectsKey(userID), data)
}

func (s *PostgresStore) LoadAgents(ctx context.Context, userID string) ([]agentdom.Agent, error) {
	raw, err := s.load(ctx, agentsKey(userID))
	if err != nil {
		return nil, err
	}
	if raw == nil {
		return []agentdom.Agent{}, nil
	}
	return decodeAgents(raw), nil
}

func (s *PostgresStore) SaveAgents(ctx context.Context, userID string, agents []agentdom.Agent) error {
	if agents == nil {
		agents = []agentdom.Agent{}
	}
	data, err := json.Marshal(agents)
	if err != nil {
		return fmt.Errorf("marshal agents: %w", err)
	}
	return s.save(ctx, agentsKey(userID), data)
}

func (s *PostgresStore) ProjectOwners(ctx context.Context) ([]string, error) {
	const q = `SELECT substring(key FROM $1 || '(.*)') FROM manus_documents WHERE key LIKE $1 || '%';`
	rows, err := s.db.QueryContext(ctx, q, projectsKeyPrefix)
	if err != nil {
		return nil, fmt.Errorf("list project owners: %w", err)
	}
	defer rows.Close()

	var owners []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		owners = append(owners, uid)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return owners, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
