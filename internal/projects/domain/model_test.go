package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatMessage_UnmarshalJSON(t *testing.T) {
	t.Run("valid RFC3339 timestamp is kept", func(t *testing.T) {
		var m ChatMessage
		err := json.Unmarshal([]byte(`{"id":"1","role":"user","text":"hi","timestamp":"2024-03-01T10:00:00Z"}`), &m)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), m.Timestamp)
	})

	t.Run("unparsable timestamp defaults to now", func(t *testing.T) {
		var m ChatMessage
		before := time.Now().UTC()
		err := json.Unmarshal([]byte(`{"id":"1","role":"user","text":"hi","timestamp":"yesterday-ish"}`), &m)
		require.NoError(t, err)
		assert.False(t, m.Timestamp.Before(before))
	})

	t.Run("missing timestamp defaults to now", func(t *testing.T) {
		var m ChatMessage
		err := json.Unmarshal([]byte(`{"id":"1","role":"model","text":"ok"}`), &m)
		require.NoError(t, err)
		assert.False(t, m.Timestamp.IsZero())
	})
}

func TestProject_Normalize(t *testing.T) {
	t.Run("nil messages become an empty list", func(t *testing.T) {
		p := Project{Status: StatusCompleted, Category: CategoryAll}
		p.Normalize()
		assert.NotNil(t, p.Messages)
	})

	t.Run("unknown category and status get defaults", func(t *testing.T) {
		p := Project{Category: "Archived", Status: "exploded"}
		p.Normalize()
		assert.Equal(t, CategoryAll, p.Category)
		assert.Equal(t, StatusCompleted, p.Status)
	})

	t.Run("progress only survives on pending projects", func(t *testing.T) {
		p := Project{Category: CategoryAll, Status: StatusCompleted, Progress: 60}
		p.Normalize()
		assert.Equal(t, 0, p.Progress)

		p = Project{Category: CategoryAll, Status: StatusPending, Progress: 140}
		p.Normalize()
		assert.Equal(t, 100, p.Progress)
	})
}

func TestProject_MatchesCategory(t *testing.T) {
	p := Project{Category: CategoryFavorites}
	assert.True(t, p.MatchesCategory(CategoryAll))
	assert.True(t, p.MatchesCategory(CategoryFavorites))
	assert.False(t, p.MatchesCategory(CategoryScheduled))
}
