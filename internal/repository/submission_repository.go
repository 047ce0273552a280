package repository

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	"ubuntu-connect/internal/models"
)

const submissionColumns = `id, submitter_id, submission_type, reference_id, title, description,
		status, assigned_to, reviewer_notes, submitted_at, reviewed_at, published_at, created_at, updated_at`

type SubmissionRepository struct {
	db *sql.DB
}

func NewSubmissionRepository(db *sql.DB) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

// GetByID retrieves a submission by id, nil if it does not exist
func (r *SubmissionRepository) GetByID(id string) (*models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE id = $1
	`
	submission, err := scanSubmission(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get submission: %w", err)
	}
	return submission, nil
}

// ListByTypes retrieves submissions of the given types, newest first
func (r *SubmissionRepository) ListByTypes(types []models.SubmissionType) ([]models.Submission, error) {
	if len(types) == 0 {
		return []models.Submission{}, nil
	}

	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE submission_type = ANY($1)
		ORDER BY submitted_at DESC
	`
	rows, err := r.db.Query(query, pq.Array(typeStrings(types)))
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// ListByType retrieves one page of submissions of a single type, optionally
// filtered by status, together with the total count for that filter.
func (r *SubmissionRepository) ListByType(submissionType models.SubmissionType, status *models.SubmissionStatus, limit, offset int) ([]models.Submission, int, error) {
	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM submissions
		WHERE submission_type = $1 AND ($2::text IS NULL OR status = $2)
	`
	if err := r.db.QueryRow(countQuery, string(submissionType), statusArg(status)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count submissions: %w", err)
	}

	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE submission_type = $1 AND ($2::text IS NULL OR status = $2)
		ORDER BY submitted_at DESC
		LIMIT $3 OFFSET $4
	`
	rows, err := r.db.Query(query, string(submissionType), statusArg(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	submissions, err := scanSubmissions(rows)
	if err != nil {
		return nil, 0, err
	}
	return submissions, total, nil
}

// ListBySubmitter retrieves all submissions owned by a user, newest first
func (r *SubmissionRepository) ListBySubmitter(submitterID string) ([]models.Submission, error) {
	query := `
		SELECT ` + submissionColumns + `
		FROM submissions
		WHERE submitter_id = $1
		ORDER BY submitted_at DESC
	`
	rows, err := r.db.Query(query, submitterID)
	if err != nil {
		return nil, fmt.Errorf("failed to query submissions: %w", err)
	}
	defer rows.Close()

	return scanSubmissions(rows)
}

// CountByTypeAndStatus returns per-type counts grouped by status for the
// given types.
func (r *SubmissionRepository) CountByTypeAndStatus(types []models.SubmissionType) (map[models.SubmissionType]map[models.SubmissionStatus]int, error) {
	stats := make(map[models.SubmissionType]map[models.SubmissionStatus]int)
	if len(types) == 0 {
		return stats, nil
	}

	query := `
		SELECT submission_type, status, COUNT(*)
		FROM submissions
		WHERE submission_type = ANY($1)
		GROUP BY submission_type, status
	`
	rows, err := r.db.Query(query, pq.Array(typeStrings(types)))
	if err != nil {
		return nil, fmt.Errorf("failed to query submission stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			submissionType models.SubmissionType
			status         models.SubmissionStatus
			count          int
		)
		if err := rows.Scan(&submissionType, &status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan submission stats: %w", err)
		}
		if stats[submissionType] == nil {
			stats[submissionType] = make(map[models.SubmissionStatus]int)
		}
		stats[submissionType][status] = count
	}

	return stats, rows.Err()
}

// UpdateStatusTx persists a transition inside the given transaction. When
// expectedUpdatedAt is set the update only applies if the row has not moved
// since; a stale row surfaces as sql.ErrNoRows. The refreshed updated_at is
// written back into the submission.
func (r *SubmissionRepository) UpdateStatusTx(tx *sql.Tx, submission *models.Submission, expectedUpdatedAt *time.Time) error {
	query := `
		UPDATE submissions
		SET status = $1, assigned_to = $2, reviewer_notes = $3,
			reviewed_at = $4, published_at = $5, updated_at = NOW()
		WHERE id = $6 AND ($7::timestamptz IS NULL OR updated_at = $7)
		RETURNING updated_at
	`
	err := tx.QueryRow(query,
		string(submission.Status),
		submission.AssignedTo,
		submission.ReviewerNotes,
		submission.ReviewedAt,
		submission.PublishedAt,
		submission.ID,
		expectedUpdatedAt,
	).Scan(&submission.UpdatedAt)
	if err == sql.ErrNoRows {
		return err
	}
	if err != nil {
		return fmt.Errorf("failed to update submission status: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSubmission(row rowScanner) (*models.Submission, error) {
	var submission models.Submission
	err := row.Scan(
		&submission.ID,
		&submission.SubmitterID,
		&submission.SubmissionType,
		&submission.ReferenceID,
		&submission.Title,
		&submission.Description,
		&submission.Status,
		&submission.AssignedTo,
		&submission.ReviewerNotes,
		&submission.SubmittedAt,
		&submission.ReviewedAt,
		&submission.PublishedAt,
		&submission.CreatedAt,
		&submission.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

func scanSubmissions(rows *sql.Rows) ([]models.Submission, error) {
	submissions := []models.Submission{}
	for rows.Next() {
		submission, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan submission: %w", err)
		}
		submissions = append(submissions, *submission)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating submissions: %w", err)
	}
	return submissions, nil
}

func typeStrings(types []models.SubmissionType) []string {
	strs := make([]string, len(types))
	for i, submissionType := range types {
		strs[i] = string(submissionType)
	}
	return strs
}

func statusArg(status *models.SubmissionStatus) interface{} {
	if status == nil {
		return nil
	}
	return string(*status)
}
