package scheduler

import (
	"log/slog"
	"time"

	"ubuntu-connect/internal/config"
	"ubuntu-connect/internal/service"
)

// Scheduler handles periodic tasks
type Scheduler struct {
	syncService *service.SyncService
	config      *config.SchedulerConfig
	stopChan    chan bool
}

// NewScheduler creates a new scheduler
func NewScheduler(syncService *service.SyncService, cfg *config.SchedulerConfig) *Scheduler {
	return &Scheduler{
		syncService: syncService,
		config:      cfg,
		stopChan:    make(chan bool),
	}
}

// Start starts all scheduled tasks
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler",
		"sync_worker_enabled", s.config.EnableSyncWorker,
		"sync_interval", s.config.SyncInterval)

	if s.config.EnableSyncWorker {
		go s.runIntervalTask(s.config.SyncInterval, "sync_retry", s.processPendingSyncs)
	}

	slog.Info("Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	slog.Info("Stopping scheduler")
	close(s.stopChan)
}

// runIntervalTask runs a task at regular intervals until Stop is called
func (s *Scheduler) runIntervalTask(interval time.Duration, taskName string, task func()) {
	slog.Info("Starting interval task", "task", taskName, "interval", interval)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run immediately on start to drain anything left from a previous run
	task()

	for {
		select {
		case <-ticker.C:
			task()
		case <-s.stopChan:
			return
		}
	}
}

// processPendingSyncs retries source synchronizations whose earlier
// attempts failed and whose backoff has elapsed
func (s *Scheduler) processPendingSyncs() {
	processed, err := s.syncService.ProcessPending(s.config.SyncBatchSize)
	if err != nil {
		slog.Error("Sync retry pass failed", "error", err)
		return
	}
	if processed > 0 {
		slog.Info("Sync retry pass completed", "processed", processed)
	}
}
