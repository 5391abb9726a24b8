// Package task runs the background jobs of the matchmaking service.
package task

import (
	"context"
	"log"
	"time"

	"mockmate/internal/usecase"

	"github.com/jasonlvhit/gocron"
)

// SweepTask periodically expires stale queue entries and retries every
// live bucket, so entries left behind by lost clients still pair up.
type SweepTask struct {
	sweeper *usecase.Sweeper
	logger  *log.Logger
	timeout time.Duration
}

func NewSweepTask(sweeper *usecase.Sweeper, logger *log.Logger) *SweepTask {
	if logger == nil {
		logger = log.Default()
	}
	return &SweepTask{sweeper: sweeper, logger: logger, timeout: 30 * time.Second}
}

func (t *SweepTask) Run() {
	ctx, cancel := context.WithTimeout(context.Background(), t.timeout)
	defer cancel()

	if err := t.sweeper.Sweep(ctx); err != nil {
		t.logger.Printf("sweep failed | err=%v", err)
	}
}

// Start schedules the sweep and blocks until Stop. Callers run it in
// its own goroutine.
func Start(t *SweepTask, interval time.Duration) {
	seconds := uint64(interval / time.Second)
	if seconds == 0 {
		seconds = 1
	}
	scheduler := gocron.NewScheduler()
	_ = scheduler.Every(seconds).Seconds().Do(t.Run)
	<-scheduler.Start()
}
