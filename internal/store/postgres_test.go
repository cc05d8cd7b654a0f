package store

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	projdom "github.com/manus-labs/manus-backend/internal/projects/domain"
)

func setupPostgresStore(t *testing.T) (*PostgresStore, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresStore(db), mock, db
}

func TestPostgresStore_Migrate(t *testing.T) {
	st, mock, _ := setupPostgresStore(t)

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS manus_documents`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_LoadProjects(t *testing.T) {
	t.Run("missing document seeds the list", func(t *testing.T) {
		st, mock, _ := setupPostgresStore(t)

		mock.ExpectQuery(`SELECT doc FROM manus_documents`).
			WithArgs("manus:projects:user-1").
			WillReturnError(sql.ErrNoRows)

		projects, err := st.LoadProjects(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Len(t, projects, 4)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("stored document is decoded", func(t *testing.T) {
		st, mock, _ := setupPostgresStore(t)

		doc := `[{"id":"7","title":"Notes","category":"All","status":"completed","messages":[]}]`
		mock.ExpectQuery(`SELECT doc FROM manus_documents`).
			WithArgs("manus:projects:user-1").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte(doc)))

		projects, err := st.LoadProjects(context.Background(), "user-1")
		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, "Notes", projects[0].Title)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("corrupt document falls back to seed", func(t *testing.T) {
		st, mock, _ := setupPostgresStore(t)

		mock.ExpectQuery(`SELECT doc FROM manus_documents`).
			WithArgs("manus:projects:user-1").
			WillReturnRows(sqlmock.NewRows([]string{"doc"}).AddRow([]byte("{broken")))

		projects, err := st.LoadProjects(context.Background(), "user-1")
		require.NoError(t, err)
		assert.Len(t, projects, 4)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestPostgresStore_SaveProjectsUpserts(t *testing.T) {
	st, mock, _ := setupPostgresStore(t)

	mock.ExpectExec(`INSERT INTO manus_documents`).
		WithArgs("manus:projects:user-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.SaveProjects(context.Background(), "user-1", []projdom.Project{{
		ID: "7", Title: "Notes", Category: projdom.CategoryAll, Status: projdom.StatusCompleted,
	}})
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ProjectOwners(t *testing.T) {
	st, mock, _ := setupPostgresStore(t)

	mock.ExpectQuery(`SELECT substring`).
		WithArgs("manus:projects:").
		WillReturnRows(sqlmock.NewRows([]string{"substring"}).
			AddRow("alice").
			AddRow("bob"))

	owners, err := st.ProjectOwners(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, owners)
	require.NoError(t, mock.ExpectationsWereMet())
}
