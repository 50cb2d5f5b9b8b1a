// Package scheduler
package scheduler

import (
	"context"
	"io"
	"log"
	"os"
	"time"

	businessflow "github.com/affiliatesimran0007/push-notification-app-sub001/business_flow"
	"github.com/affiliatesimran0007/push-notification-app-sub001/config"
	"github.com/affiliatesimran0007/push-notification-app-sub001/repository"
	"github.com/affiliatesimran0007/push-notification-app-sub001/utils"
	"gopkg.in/natefinch/lumberjack.v2"
)

// CampaignScheduler periodically sweeps for scheduled campaigns whose send
// time has passed and hands them to the dispatch flow
type CampaignScheduler struct {
	campaignRepo repository.CampaignRepository
	dispatchFlow businessflow.DispatchFlow
	logger       *log.Logger
	interval     time.Duration
}

func NewCampaignScheduler(
	campaignRepo repository.CampaignRepository,
	dispatchFlow businessflow.DispatchFlow,
	cfg config.SchedulerConfig,
) *CampaignScheduler {
	interval := cfg.Interval
	if interval <= 0 {
		interval = time.Minute
	}

	s := &CampaignScheduler{
		campaignRepo: campaignRepo,
		dispatchFlow: dispatchFlow,
		interval:     interval,
	}

	// Scheduler-specific logger writing to stdout and a rotating file
	s.initSchedulerLogger(cfg.LogPath)

	return s
}

// initSchedulerLogger configures a logger that writes to both stdout and a
// size-rotated persistent file
func (s *CampaignScheduler) initSchedulerLogger(logPath string) {
	if logPath == "" {
		s.logger = log.New(os.Stdout, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
		return
	}

	rotated := &lumberjack.Logger{
		Filename:   logPath,
		MaxSize:    50, // megabytes
		MaxBackups: 5,
		MaxAge:     30, // days
		Compress:   true,
	}
	mw := io.MultiWriter(os.Stdout, rotated)
	// log.Logger is goroutine-safe; include timestamps with microseconds and UTC
	s.logger = log.New(mw, "scheduler ", log.LstdFlags|log.Lmicroseconds|log.LUTC)
}

// Start launches the scheduler loop in a background goroutine and returns a stop function
func (s *CampaignScheduler) Start(parent context.Context) func() {
	ctx, cancel := context.WithCancel(parent)

	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.RunOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.RunOnce(ctx)
			}
		}
	}()

	return cancel
}

// RunOnce performs a single sweep over due scheduled campaigns. The dispatch
// claim is a guarded status transition, so a sweep racing an operator's
// send-now or a second sweep is harmless.
func (s *CampaignScheduler) RunOnce(ctx context.Context) int {
	due, err := s.campaignRepo.ListDueScheduled(ctx, utils.UTCNow())
	if err != nil {
		s.logger.Printf("scheduler: list due campaigns failed: %v", err)
		return 0
	}
	if len(due) == 0 {
		return 0
	}
	s.logger.Printf("scheduler: %d campaigns due for dispatch", len(due))

	// Dispatch outlives the sweep that started it
	bg := context.WithoutCancel(ctx)
	for _, camp := range due {
		c := camp
		go func() {
			summary, err := s.dispatchFlow.DispatchCampaign(bg, c.ID)
			if err != nil {
				if businessflow.IsCampaignAlreadyActive(err) {
					s.logger.Printf("scheduler: campaign id=%d already claimed", c.ID)
					return
				}
				s.logger.Printf("scheduler: dispatch campaign id=%d failed: %v", c.ID, err)
				return
			}
			s.logger.Printf("scheduler: campaign id=%d dispatched recipients=%d sent=%d failed=%d",
				c.ID, summary.Recipients, summary.Sent, summary.Failed)
		}()
	}

	return len(due)
}
