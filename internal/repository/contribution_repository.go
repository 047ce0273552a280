package repository

import (
	"database/sql"
	"fmt"
	"time"

	"ubuntu-connect/internal/models"
)

const contributionColumns = `id, user_id, submission_id, contribution_type, points, details, metadata, created_at`

type ContributionRepository struct {
	db *sql.DB
}

func NewContributionRepository(db *sql.DB) *ContributionRepository {
	return &ContributionRepository{db: db}
}

// Create appends a contribution to the ledger. Rows are never updated or
// deleted afterwards.
func (r *ContributionRepository) Create(contribution *models.Contribution) error {
	query := `
		INSERT INTO contributions (id, user_id, submission_id, contribution_type, points, details, metadata)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at
	`
	err := r.db.QueryRow(query,
		contribution.ID,
		contribution.UserID,
		contribution.SubmissionID,
		string(contribution.ContributionType),
		contribution.Points,
		contribution.Details,
		nullableJSON(contribution.Metadata),
	).Scan(&contribution.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create contribution: %w", err)
	}
	return nil
}

// GetBySubmissionAndType retrieves an award contribution by its idempotency
// key, nil if none exists.
func (r *ContributionRepository) GetBySubmissionAndType(submissionID string, contributionType models.ContributionType) (*models.Contribution, error) {
	query := `
		SELECT ` + contributionColumns + `
		FROM contributions
		WHERE submission_id = $1 AND contribution_type = $2
	`
	contribution, err := scanContribution(r.db.QueryRow(query, submissionID, string(contributionType)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contribution: %w", err)
	}
	return contribution, nil
}

// ListByUser retrieves a user's most recent contributions
func (r *ContributionRepository) ListByUser(userID string, limit int) ([]models.Contribution, error) {
	query := `
		SELECT ` + contributionColumns + `
		FROM contributions
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	contributions := []models.Contribution{}
	for rows.Next() {
		contribution, err := scanContribution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, *contribution)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contributions: %w", err)
	}
	return contributions, nil
}

// TotalPointsByUser sums the user's ledger
func (r *ContributionRepository) TotalPointsByUser(userID string) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(points), 0) FROM contributions WHERE user_id = $1`
	if err := r.db.QueryRow(query, userID).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to sum points: %w", err)
	}
	return total, nil
}

// ActivityDays returns the user's distinct contribution days in UTC, most
// recent first, capped to limit.
func (r *ContributionRepository) ActivityDays(userID string, limit int) ([]time.Time, error) {
	query := `
		SELECT DISTINCT date_trunc('day', created_at AT TIME ZONE 'UTC') AS day
		FROM contributions
		WHERE user_id = $1
		ORDER BY day DESC
		LIMIT $2
	`
	rows, err := r.db.Query(query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity days: %w", err)
	}
	defer rows.Close()

	days := []time.Time{}
	for rows.Next() {
		var day time.Time
		if err := rows.Scan(&day); err != nil {
			return nil, fmt.Errorf("failed to scan activity day: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// LeaderboardTotals returns per-user point totals in descending order.
// Ties keep deterministic order by user id; rank and level are filled in by
// the caller.
func (r *ContributionRepository) LeaderboardTotals(limit int) ([]models.LeaderboardEntry, error) {
	query := `
		SELECT user_id, SUM(points) AS total_points
		FROM contributions
		GROUP BY user_id
		ORDER BY total_points DESC, user_id
		LIMIT $1
	`
	rows, err := r.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	entries := []models.LeaderboardEntry{}
	for rows.Next() {
		var entry models.LeaderboardEntry
		if err := rows.Scan(&entry.UserID, &entry.TotalPoints); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func scanContribution(row rowScanner) (*models.Contribution, error) {
	var (
		contribution models.Contribution
		metadata     []byte
	)
	err := row.Scan(
		&contribution.ID,
		&contribution.UserID,
		&contribution.SubmissionID,
		&contribution.ContributionType,
		&contribution.Points,
		&contribution.Details,
		&metadata,
		&contribution.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	contribution.Metadata = metadata
	return &contribution, nil
}

func nullableJSON(raw []byte) interface{} {
	if len(raw) == 0 {
		return nil
	}
	return raw
}
