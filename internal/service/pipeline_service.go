package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"ubuntu-connect/internal/access"
	"ubuntu-connect/internal/metrics"
	"ubuntu-connect/internal/models"
	"ubuntu-connect/internal/repository"
)

// awardTypes maps each pipeline type to the contribution type credited when
// a reviewer awards points for an approved or published submission.
var awardTypes = map[models.SubmissionType]models.ContributionType{
	models.TypeContent:             models.ContribContentPublished,
	models.TypeExpertApplication:   models.ContribKnowledgeSharing,
	models.TypeBusinessApplication: models.ContribListingVerified,
	models.TypeDirectoryListing:    models.ContribListingCreated,
	models.TypeTravelBusiness:      models.ContribListingCreated,
}

// TransitionRequest carries a requested status change. ExpectedUpdatedAt is
// optional optimistic concurrency: when set, the transition is rejected
// with Conflict if the submission moved since that timestamp.
type TransitionRequest struct {
	Status            models.SubmissionStatus
	Notes             *string
	Assignee          *string
	ExpectedUpdatedAt *time.Time
}

// PipelineService is the state machine over unified submissions. All
// mutations of a submission go through here; the submission flows that
// create records and this service are the only writers.
type PipelineService struct {
	db             *sql.DB
	submissionRepo *repository.SubmissionRepository
	outboxRepo     *repository.OutboxRepository
	syncService    *SyncService
	scoringService *ScoringService
	policy         *access.Policy
}

func NewPipelineService(
	db *sql.DB,
	submissionRepo *repository.SubmissionRepository,
	outboxRepo *repository.OutboxRepository,
	syncService *SyncService,
	scoringService *ScoringService,
	policy *access.Policy,
) *PipelineService {
	return &PipelineService{
		db:             db,
		submissionRepo: submissionRepo,
		outboxRepo:     outboxRepo,
		syncService:    syncService,
		scoringService: scoringService,
		policy:         policy,
	}
}

// ListAccessible returns all submissions of the types the caller may act
// on, plus that type list.
func (s *PipelineService) ListAccessible(role string, capabilities []models.Capability) ([]models.Submission, []models.SubmissionType, error) {
	types := s.policy.AccessibleTypes(role, capabilities)
	submissions, err := s.submissionRepo.ListByTypes(types)
	if err != nil {
		return nil, nil, err
	}
	return submissions, types, nil
}

// ListByType returns one page of a single type's submissions with the
// total count. The caller must be authorized for the type.
func (s *PipelineService) ListByType(
	role string,
	capabilities []models.Capability,
	submissionType models.SubmissionType,
	status *models.SubmissionStatus,
	limit, offset int,
) ([]models.Submission, int, error) {
	if !submissionType.Valid() {
		return nil, 0, fmt.Errorf("%w: unknown submission type %q", ErrInvalidInput, submissionType)
	}
	if !s.policy.IsAuthorized(role, capabilities, submissionType) {
		return nil, 0, &ForbiddenError{
			SubmissionType: submissionType,
			Required:       s.policy.RequiredFor(submissionType),
		}
	}
	if status != nil && !status.Valid() {
		return nil, 0, fmt.Errorf("%w: %q", ErrInvalidStatus, *status)
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	return s.submissionRepo.ListByType(submissionType, status, limit, offset)
}

// ListMine returns the caller's own submissions across all types
func (s *PipelineService) ListMine(userID string) ([]models.Submission, error) {
	return s.submissionRepo.ListBySubmitter(userID)
}

// Stats returns counts by status for each type the caller may act on
func (s *PipelineService) Stats(role string, capabilities []models.Capability) (map[models.SubmissionType]map[models.SubmissionStatus]int, error) {
	types := s.policy.AccessibleTypes(role, capabilities)
	return s.submissionRepo.CountByTypeAndStatus(types)
}

// UpdateStatus validates and applies a pipeline transition. Approval-class
// outcomes enqueue a source synchronization in the same transaction and
// attempt it immediately after commit; a failed mirror write never rolls
// the transition back.
func (s *PipelineService) UpdateStatus(
	actorID, role string,
	capabilities []models.Capability,
	submissionID string,
	req TransitionRequest,
) (*models.Submission, error) {
	if !req.Status.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}

	submission, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, err
	}
	if submission == nil {
		return nil, ErrNotFound
	}

	if !s.policy.IsAuthorized(role, capabilities, submission.SubmissionType) {
		return nil, &ForbiddenError{
			SubmissionType: submission.SubmissionType,
			Required:       s.policy.RequiredFor(submission.SubmissionType),
		}
	}

	applyTransition(submission, req, actorID, time.Now().UTC())

	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := s.submissionRepo.UpdateStatusTx(tx, submission, req.ExpectedUpdatedAt); err != nil {
		tx.Rollback()
		if err == sql.ErrNoRows {
			if req.ExpectedUpdatedAt != nil {
				return nil, ErrConflict
			}
			return nil, ErrNotFound
		}
		return nil, err
	}

	var event *models.SyncEvent
	if submission.Status.Syncable() {
		event = &models.SyncEvent{
			SubmissionID:   submission.ID,
			SubmissionType: submission.SubmissionType,
			ReferenceID:    submission.ReferenceID,
			PipelineStatus: submission.Status,
		}
		if err := s.outboxRepo.EnqueueTx(tx, event); err != nil {
			tx.Rollback()
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transition: %w", err)
	}

	slog.Info("Submission transitioned",
		"submission_id", submission.ID,
		"type", submission.SubmissionType,
		"status", submission.Status,
		"actor", actorID,
	)
	metrics.PipelineTransitionsTotal.WithLabelValues(string(submission.SubmissionType), string(submission.Status)).Inc()

	if event != nil {
		s.syncService.Dispatch(event)
	}

	return submission, nil
}

// AwardPoints credits the submitter for an approved or published
// submission. The operation is idempotent on (submission, contribution
// type): repeating it returns the existing contribution instead of
// awarding twice. The returned bool reports whether this call created the
// award.
func (s *PipelineService) AwardPoints(
	ctx context.Context,
	actorID, role string,
	capabilities []models.Capability,
	submissionID string,
) (*models.Contribution, bool, error) {
	submission, err := s.submissionRepo.GetByID(submissionID)
	if err != nil {
		return nil, false, err
	}
	if submission == nil {
		return nil, false, ErrNotFound
	}

	if !s.policy.IsAuthorized(role, capabilities, submission.SubmissionType) {
		return nil, false, &ForbiddenError{
			SubmissionType: submission.SubmissionType,
			Required:       s.policy.RequiredFor(submission.SubmissionType),
		}
	}

	if submission.Status != models.StatusApproved && submission.Status != models.StatusPublished {
		return nil, false, ErrNotAwardable
	}

	contributionType := awardTypes[submission.SubmissionType]

	existing, err := s.scoringService.contributionRepo.GetBySubmissionAndType(submission.ID, contributionType)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	details := fmt.Sprintf("Points awarded for %s submission %q", submission.SubmissionType, submission.Title)
	metadata, _ := json.Marshal(map[string]string{
		"submission_id":   submission.ID,
		"submission_type": string(submission.SubmissionType),
		"awarded_by":      actorID,
	})

	contribution, err := s.scoringService.RecordContribution(
		ctx, submission.SubmitterID, contributionType, nil, &details, metadata, &submission.ID,
	)
	if err != nil {
		// Two reviewers racing on the same award: the unique index wins,
		// the loser reads back the row the winner inserted.
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			existing, getErr := s.scoringService.contributionRepo.GetBySubmissionAndType(submission.ID, contributionType)
			if getErr == nil && existing != nil {
				return existing, false, nil
			}
		}
		return nil, false, err
	}

	slog.Info("Contribution awarded",
		"submission_id", submission.ID,
		"user_id", submission.SubmitterID,
		"contribution_type", contributionType,
		"points", contribution.Points,
		"actor", actorID,
	)

	return contribution, true, nil
}

// applyTransition mutates the submission in memory according to the target
// state's side effects. Persistence happens separately so the rules stay
// testable on their own.
func applyTransition(submission *models.Submission, req TransitionRequest, actorID string, now time.Time) {
	submission.Status = req.Status

	switch req.Status {
	case models.StatusInReview:
		if req.Assignee != nil {
			submission.AssignedTo = req.Assignee
		} else if submission.AssignedTo == nil {
			assignee := actorID
			submission.AssignedTo = &assignee
		}
	case models.StatusApproved, models.StatusRejected:
		reviewedAt := now
		submission.ReviewedAt = &reviewedAt
	case models.StatusPublished:
		publishedAt := now
		submission.PublishedAt = &publishedAt
	}

	if req.Notes != nil {
		submission.ReviewerNotes = req.Notes
	}

	submission.UpdatedAt = now
}
