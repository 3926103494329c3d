package daemon

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
)

// Scheduler wraps gocron for the periodic recompose tick. The tick only
// queues a trigger; the daemon loop does the actual work, so overlapping
// ticks are harmless.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a scheduler firing tick every interval.
func NewScheduler(interval time.Duration, tick func()) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("create gocron scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(tick),
		gocron.WithName("scheduled-recompose"),
	)
	if err != nil {
		return nil, fmt.Errorf("create recompose job: %w", err)
	}

	return &Scheduler{scheduler: s}, nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting recompose scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping recompose scheduler")
	return s.scheduler.Shutdown()
}
