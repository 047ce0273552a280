package repository

import (
	"database/sql"
	"fmt"
	"time"

	"ubuntu-connect/internal/models"
)

type OutboxRepository struct {
	db *sql.DB
}

func NewOutboxRepository(db *sql.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

// EnqueueTx records a pending synchronization in the same transaction as
// the submission update it mirrors.
func (r *OutboxRepository) EnqueueTx(tx *sql.Tx, event *models.SyncEvent) error {
	query := `
		INSERT INTO sync_outbox (submission_id, submission_type, reference_id, pipeline_status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, attempts, next_attempt_at, created_at
	`
	err := tx.QueryRow(query,
		event.SubmissionID,
		string(event.SubmissionType),
		event.ReferenceID,
		string(event.PipelineStatus),
	).Scan(&event.ID, &event.Attempts, &event.NextAttemptAt, &event.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to enqueue sync event: %w", err)
	}
	return nil
}

// DuePending retrieves unprocessed events whose next attempt time has
// passed, oldest first.
func (r *OutboxRepository) DuePending(limit int) ([]models.SyncEvent, error) {
	query := `
		SELECT id, submission_id, submission_type, reference_id, pipeline_status,
			attempts, last_error, next_attempt_at, processed_at, created_at
		FROM sync_outbox
		WHERE processed_at IS NULL AND next_attempt_at <= NOW()
		ORDER BY id
		LIMIT $1
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync outbox: %w", err)
	}
	defer rows.Close()

	events := []models.SyncEvent{}
	for rows.Next() {
		var event models.SyncEvent
		err := rows.Scan(
			&event.ID,
			&event.SubmissionID,
			&event.SubmissionType,
			&event.ReferenceID,
			&event.PipelineStatus,
			&event.Attempts,
			&event.LastError,
			&event.NextAttemptAt,
			&event.ProcessedAt,
			&event.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sync event: %w", err)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// MarkProcessed stamps an event as done
func (r *OutboxRepository) MarkProcessed(id int64) error {
	query := `UPDATE sync_outbox SET processed_at = NOW(), last_error = NULL WHERE id = $1`
	if _, err := r.db.Exec(query, id); err != nil {
		return fmt.Errorf("failed to mark sync event processed: %w", err)
	}
	return nil
}

// MarkFailed records a failed attempt and schedules the retry
func (r *OutboxRepository) MarkFailed(id int64, attempts int, lastError string, nextAttemptAt time.Time) error {
	query := `UPDATE sync_outbox SET attempts = $1, last_error = $2, next_attempt_at = $3 WHERE id = $4`
	if _, err := r.db.Exec(query, attempts, lastError, nextAttemptAt, id); err != nil {
		return fmt.Errorf("failed to mark sync event failed: %w", err)
	}
	return nil
}

// MarkAbandoned parks an event that exhausted its attempts. The row stays
// for operator inspection but leaves the retry queue.
func (r *OutboxRepository) MarkAbandoned(id int64, lastError string) error {
	query := `UPDATE sync_outbox SET processed_at = NOW(), last_error = $1 WHERE id = $2`
	if _, err := r.db.Exec(query, lastError, id); err != nil {
		return fmt.Errorf("failed to abandon sync event: %w", err)
	}
	return nil
}
