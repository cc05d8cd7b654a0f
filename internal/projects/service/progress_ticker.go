package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// progressStep is how much a pending project advances per tick.
const progressStep = 4

// ProgressTicker periodically advances the simulated progress of every
// user's pending projects.
type ProgressTicker struct {
	projects *ProjectService
	cron     *cron.Cron
	spec     string
}

func NewProgressTicker(projects *ProjectService, spec string) *ProgressTicker {
	return &ProgressTicker{
		projects: projects,
		cron:     cron.New(),
		spec:     spec,
	}
}

// Start schedules the ticker. A failure to parse the cron expression is
// reported, not fatal; the API works without the ticker.
func (t *ProgressTicker) Start() {
	if t.spec == "" {
		return
	}
	_, err := t.cron.AddFunc(t.spec, t.Tick)
	if err != nil {
		log.Printf("progress ticker: bad cron spec %q: %v", t.spec, err)
		return
	}
	t.cron.Start()
}

func (t *ProgressTicker) Stop() {
	t.cron.Stop()
}

// Tick advances every owner's pending projects once. Exported so tests can
// drive it without the scheduler.
func (t *ProgressTicker) Tick() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	owners, err := t.projects.Owners(ctx)
	if err != nil {
		log.Printf("progress ticker: list owners: %v", err)
		return
	}
	for _, uid := range owners {
		if err := t.projects.AdvancePendingProgress(ctx, uid, progressStep); err != nil {
			log.Printf("progress ticker: advance %s: %v", uid, err)
		}
	}
}
