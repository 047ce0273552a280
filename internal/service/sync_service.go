package service

import (
	"fmt"
	"log/slog"
	"time"

	"ubuntu-connect/internal/metrics"
	"ubuntu-connect/internal/models"
	"ubuntu-connect/internal/repository"
)

// sourceTarget extends the repository target with the value written when
// the pipeline reaches published; other terminal-class statuses are written
// verbatim.
type sourceTarget struct {
	repository.SourceTarget
	PublishedValue string
}

// sourceTargets is the fixed mapping from submission type to its mirrored
// source record.
var sourceTargets = map[models.SubmissionType]sourceTarget{
	models.TypeContent: {
		SourceTarget:   repository.SourceTarget{Table: "content_items", StatusColumn: "status"},
		PublishedValue: "published",
	},
	models.TypeExpertApplication: {
		SourceTarget:   repository.SourceTarget{Table: "expert_applications", StatusColumn: "status"},
		PublishedValue: "approved",
	},
	models.TypeBusinessApplication: {
		SourceTarget:   repository.SourceTarget{Table: "business_applications", StatusColumn: "status"},
		PublishedValue: "approved",
	},
	models.TypeDirectoryListing: {
		SourceTarget:   repository.SourceTarget{Table: "directory_listings", StatusColumn: "status"},
		PublishedValue: "active",
	},
	models.TypeTravelBusiness: {
		SourceTarget:   repository.SourceTarget{Table: "travel_businesses", StatusColumn: "status"},
		PublishedValue: "active",
	},
}

const syncBackoffBase = time.Minute

// SyncService propagates pipeline outcomes into the type-specific source
// records. Propagation is best-effort: the submission stays the source of
// truth and a failed mirror write never rolls it back.
type SyncService struct {
	sourceRepo  *repository.SourceRepository
	outboxRepo  *repository.OutboxRepository
	maxAttempts int
}

func NewSyncService(sourceRepo *repository.SourceRepository, outboxRepo *repository.OutboxRepository, maxAttempts int) *SyncService {
	return &SyncService{
		sourceRepo:  sourceRepo,
		outboxRepo:  outboxRepo,
		maxAttempts: maxAttempts,
	}
}

// StatusValue resolves the value written to the source record for a
// pipeline status.
func StatusValue(submissionType models.SubmissionType, status models.SubmissionStatus) (string, error) {
	target, ok := sourceTargets[submissionType]
	if !ok {
		return "", fmt.Errorf("no source mapping for submission type %q", submissionType)
	}
	if status == models.StatusPublished {
		return target.PublishedValue, nil
	}
	return string(status), nil
}

// Dispatch attempts one immediate synchronization of a freshly-enqueued
// event. Failures are logged and left in the outbox for the worker.
func (s *SyncService) Dispatch(event *models.SyncEvent) {
	if err := s.process(event); err != nil {
		slog.Error("Source sync failed, leaving event for retry",
			"event_id", event.ID,
			"submission_id", event.SubmissionID,
			"type", event.SubmissionType,
			"error", err,
		)
		s.recordFailure(event, err)
		return
	}

	if err := s.outboxRepo.MarkProcessed(event.ID); err != nil {
		slog.Error("Failed to mark sync event processed", "event_id", event.ID, "error", err)
	}
}

// ProcessPending drains due outbox events, returning how many synchronized
// successfully.
func (s *SyncService) ProcessPending(limit int) (int, error) {
	events, err := s.outboxRepo.DuePending(limit)
	if err != nil {
		return 0, err
	}

	processed := 0
	for i := range events {
		event := &events[i]
		if err := s.process(event); err != nil {
			slog.Warn("Sync retry failed",
				"event_id", event.ID,
				"submission_id", event.SubmissionID,
				"attempts", event.Attempts+1,
				"error", err,
			)
			s.recordFailure(event, err)
			continue
		}
		if err := s.outboxRepo.MarkProcessed(event.ID); err != nil {
			slog.Error("Failed to mark sync event processed", "event_id", event.ID, "error", err)
			continue
		}
		processed++
	}

	return processed, nil
}

func (s *SyncService) process(event *models.SyncEvent) error {
	target, ok := sourceTargets[event.SubmissionType]
	if !ok {
		return fmt.Errorf("no source mapping for submission type %q", event.SubmissionType)
	}

	value, err := StatusValue(event.SubmissionType, event.PipelineStatus)
	if err != nil {
		return err
	}

	if err := s.sourceRepo.UpdateStatus(target.SourceTarget, event.ReferenceID, value); err != nil {
		metrics.SyncEventsTotal.WithLabelValues("failure").Inc()
		return err
	}
	metrics.SyncEventsTotal.WithLabelValues("success").Inc()
	return nil
}

func (s *SyncService) recordFailure(event *models.SyncEvent, cause error) {
	attempts := event.Attempts + 1
	if attempts >= s.maxAttempts {
		if err := s.outboxRepo.MarkAbandoned(event.ID, cause.Error()); err != nil {
			slog.Error("Failed to abandon sync event", "event_id", event.ID, "error", err)
		}
		slog.Error("Sync event abandoned after max attempts",
			"event_id", event.ID, "submission_id", event.SubmissionID, "attempts", attempts)
		return
	}

	next := time.Now().Add(backoff(attempts))
	if err := s.outboxRepo.MarkFailed(event.ID, attempts, cause.Error(), next); err != nil {
		slog.Error("Failed to record sync failure", "event_id", event.ID, "error", err)
	}
}

// backoff doubles per attempt, capped at an hour
func backoff(attempts int) time.Duration {
	d := syncBackoffBase
	for i := 1; i < attempts && d < time.Hour; i++ {
		d *= 2
	}
	if d > time.Hour {
		return time.Hour
	}
	return d
}
