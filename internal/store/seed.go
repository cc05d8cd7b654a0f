package store

import (
	"time"

	projdom "github.com/manus-labs/manus-backend/internal/projects/domain"
)

// SeedProjects returns the starter project list served when a user has no
// stored document (or a corrupt one). Mirrors the client's initial roster.
func SeedProjects() []projdom.Project {
	return []projdom.Project{
		{
			ID:          "1",
			Title:       "Visual Novel Engine",
			Description: "Autonomous layer for story branching and asset synthesis...",
			Date:        "Today",
			Icon:        "game",
			Category:    projdom.CategoryFavorites,
			Status:      projdom.StatusPending,
			Progress:    72,
			Messages: []projdom.ChatMessage{
				{
					ID:        "m1",
					Role:      projdom.RoleUser,
					Text:      "Build a visual novel engine",
					Timestamp: time.Now().UTC(),
				},
			},
		},
		{
			ID:          "2",
			Title:       "Market Analysis Dashboard",
			Description: "Completed e-commerce trend report for Q1 2025.",
			Date:        "Mon",
			Icon:        "chart",
			Category:    projdom.CategoryAll,
			Status:      projdom.StatusCompleted,
			Messages:    []projdom.ChatMessage{},
		},
		{
			ID:           "3",
			Title:        "System Health Automation",
			Description:  "Scheduled maintenance sequence successfully deployed.",
			Date:         "Fri",
			Icon:         "chart",
			Category:     projdom.CategoryScheduled,
			Status:       projdom.StatusCompleted,
			IsDashedIcon: true,
			Messages:     []projdom.ChatMessage{},
		},
		{
			ID:          "4",
			Title:       "Portfolio Draft",
			Description: "Initial scaffolding for a 3D personal portfolio.",
			Date:        "Draft",
			Icon:        "game",
			Category:    projdom.CategoryAll,
			Status:      projdom.StatusPending,
			Progress:    10,
			Messages:    []projdom.ChatMessage{},
		},
	}
}
