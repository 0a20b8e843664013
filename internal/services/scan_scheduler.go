package services

import (
	"fmt"
	"time"

	"github.com/alexparks333/AlexPipeline/pkg/logger"
	"github.com/robfig/cron/v3"
)

// ScanScheduler periodically enqueues a scan of the configured studio root
type ScanScheduler struct {
	cron     *cron.Cron
	schedule cron.Schedule
	queue    TaskQueue
}

// NewScanScheduler validates spec (robfig/cron syntax, e.g. "@every 15m" or "*/30 * * * *").
func NewScanScheduler(spec string, queue TaskQueue) (*ScanScheduler, error) {
	s := &ScanScheduler{
		cron:  cron.New(),
		queue: queue,
	}

	schedule, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("invalid scan cron %q: %w", spec, err)
	}
	s.schedule = schedule
	s.cron.Schedule(schedule, cron.FuncJob(s.enqueue))
	return s, nil
}

func (s *ScanScheduler) Start() {
	s.cron.Start()
	logger.Infof("[Scan] Scheduler started, next run at %s", s.NextRun(time.Now()).Format("2006-01-02 15:04:05"))
}

// NextRun returns the first scheduled scan after now.
func (s *ScanScheduler) NextRun(now time.Time) time.Time {
	return s.schedule.Next(now)
}

func (s *ScanScheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *ScanScheduler) enqueue() {
	if err := s.queue.Enqueue(&ScanTask{Reason: "cron"}); err != nil {
		logger.Errorf("[Scan] Failed to enqueue scheduled scan: %v", err)
	}
}
