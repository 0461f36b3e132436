package scheduler

import (
	"fmt"
	"sync"
	"time"

	"yoga_recommendation/config"
	"yoga_recommendation/logger"
	"yoga_recommendation/repository"
)

// validateHourMinute clamps an out-of-range schedule time to midnight.
func validateHourMinute(hour, minute int) (int, int) {
	if hour < 0 || hour > 23 {
		logger.Warn("invalid schedule hour, using 0", "hour", hour)
		hour = 0
	}
	if minute < 0 || minute > 59 {
		logger.Warn("invalid schedule minute, using 0", "minute", minute)
		minute = 0
	}
	return hour, minute
}

// getNextTimePoint computes the next daily occurrence of hour:minute.
func getNextTimePoint(now time.Time, hour, minute int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if next.Before(now) {
		next = next.Add(24 * time.Hour)
	}
	return next
}

type TaskType int

const (
	TaskHistoryPrune TaskType = iota
)

type TaskStatus struct {
	LastRun     time.Time
	NextRun     time.Time
	IsRunning   bool
	Description string
}

// Scheduler runs the daily history retention prune.
type Scheduler struct {
	cfg   *config.Config
	tasks map[TaskType]*TaskStatus
	mutex sync.Mutex
}

func NewScheduler(cfg *config.Config) *Scheduler {
	return &Scheduler{
		cfg:   cfg,
		tasks: make(map[TaskType]*TaskStatus),
	}
}

// Start launches the scheduler loop. It is a no-op when history storage
// is disabled, since pruning is the only scheduled work.
func Start(cfg *config.Config) {
	if !cfg.HistoryEnabled() {
		logger.Info("history storage disabled, scheduler not started")
		return
	}

	scheduler := NewScheduler(cfg)
	scheduler.initTasks()
	go scheduler.run()

	logger.Info("scheduler started", "check_interval_sec", cfg.Scheduler.CheckIntervalSec)
}

func (s *Scheduler) initTasks() {
	now := time.Now()

	hour, minute := validateHourMinute(s.cfg.Scheduler.CleanupHour, s.cfg.Scheduler.CleanupMinute)
	nextRun := getNextTimePoint(now, hour, minute)

	s.tasks[TaskHistoryPrune] = &TaskStatus{
		LastRun:     nextRun.Add(-24 * time.Hour),
		NextRun:     nextRun,
		IsRunning:   false,
		Description: fmt.Sprintf("history prune (%02d:%02d, retention %d days)", hour, minute, s.cfg.History.RetentionDays),
	}

	logger.Info("scheduled tasks initialized", "task_count", len(s.tasks), "next_prune", nextRun.Format(time.RFC3339))
}

func (s *Scheduler) run() {
	ticker := time.NewTicker(time.Duration(s.cfg.Scheduler.CheckIntervalSec) * time.Second)
	defer ticker.Stop()

	for now := range ticker.C {
		s.checkTasks(now)
	}
}

func (s *Scheduler) checkTasks(now time.Time) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for taskType, status := range s.tasks {
		if status.IsRunning {
			continue
		}
		if status.NextRun.IsZero() {
			continue
		}
		if now.After(status.NextRun) || now.Equal(status.NextRun) {
			status.IsRunning = true
			go s.runTask(taskType, now)
		}
	}
}

func (s *Scheduler) runTask(taskType TaskType, now time.Time) {
	defer func() {
		s.mutex.Lock()
		defer s.mutex.Unlock()

		status := s.tasks[taskType]
		status.IsRunning = false
		status.LastRun = now

		switch taskType {
		case TaskHistoryPrune:
			hour, minute := validateHourMinute(s.cfg.Scheduler.CleanupHour, s.cfg.Scheduler.CleanupMinute)
			status.NextRun = getNextTimePoint(now, hour, minute)
		}
	}()

	switch taskType {
	case TaskHistoryPrune:
		removed, err := repository.PruneHistory(s.cfg.History.RetentionDays)
		if err != nil {
			logger.Error("history prune failed", "error", err)
			return
		}
		logger.Info("history prune completed", "removed", removed, "retention_days", s.cfg.History.RetentionDays)
	}
}
