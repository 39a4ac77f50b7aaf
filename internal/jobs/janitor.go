package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sweeper discards games idle for longer than maxIdle and reports how many it dropped.
type Sweeper interface {
	SweepIdle(maxIdle time.Duration) int
}

// Janitor periodically discards abandoned games so their timers do not outlive the player.
type Janitor struct {
	cron    *cron.Cron
	sweeper Sweeper
	maxIdle time.Duration
}

// NewJanitor schedules the sweep with a cron spec such as "@every 1m" or "*/5 * * * *".
func NewJanitor(sweeper Sweeper, schedule string, maxIdle time.Duration) (*Janitor, error) {
	j := &Janitor{
		cron:    cron.New(),
		sweeper: sweeper,
		maxIdle: maxIdle,
	}
	if _, err := j.cron.AddFunc(schedule, j.Run); err != nil {
		return nil, fmt.Errorf("schedule janitor %q: %w", schedule, err)
	}
	return j, nil
}

// Run performs one sweep.
func (j *Janitor) Run() {
	if n := j.sweeper.SweepIdle(j.maxIdle); n > 0 {
		log.Info().Int("games", n).Dur("max_idle", j.maxIdle).Msg("discarded idle games")
	}
}

// Start begins the schedule in its own goroutine.
func (j *Janitor) Start() {
	j.cron.Start()
	log.Info().Dur("max_idle", j.maxIdle).Msg("janitor scheduled")
}

// Stop halts the schedule and waits for a running sweep, bounded by ctx.
func (j *Janitor) Stop(ctx context.Context) {
	select {
	case <-j.cron.Stop().Done():
	case <-ctx.Done():
	}
}
