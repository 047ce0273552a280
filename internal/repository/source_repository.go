package repository

import (
	"database/sql"
	"fmt"
)

// SourceTarget names the table and status column of a type-specific source
// record. Targets come from the synchronizer's fixed mapping, never from
// request input, which is what makes the interpolation below safe.
type SourceTarget struct {
	Table        string
	StatusColumn string
}

type SourceRepository struct {
	db *sql.DB
}

func NewSourceRepository(db *sql.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// UpdateStatus mirrors a pipeline status value onto the source record
func (r *SourceRepository) UpdateStatus(target SourceTarget, referenceID, status string) error {
	query := fmt.Sprintf(
		`UPDATE %s SET %s = $1, updated_at = NOW() WHERE id = $2`,
		target.Table, target.StatusColumn,
	)

	result, err := r.db.Exec(query, status, referenceID)
	if err != nil {
		return fmt.Errorf("failed to update source record: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check source update: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("source record %s not found in %s", referenceID, target.Table)
	}

	return nil
}
