package repository

import (
	"database/sql"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubuntu-connect/internal/models"
)

var submissionColumnList = []string{
	"id", "submitter_id", "submission_type", "reference_id", "title", "description",
	"status", "assigned_to", "reviewer_notes", "submitted_at", "reviewed_at",
	"published_at", "created_at", "updated_at",
}

func submissionRow(id string, status models.SubmissionStatus, now time.Time) []driver.Value {
	return []driver.Value{
		id, "submitter-1", "content", "ref-1", "A title", nil,
		string(status), nil, nil, now, nil, nil, now, now,
	}
}

func TestGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM submissions").
		WithArgs("missing-id").
		WillReturnError(sql.ErrNoRows)

	repo := NewSubmissionRepository(db)
	submission, err := repo.GetByID("missing-id")

	require.NoError(t, err)
	assert.Nil(t, submission)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	rows := sqlmock.NewRows(submissionColumnList).
		AddRow(submissionRow("sub-1", models.StatusInReview, now)...)

	mock.ExpectQuery("SELECT (.+) FROM submissions").
		WithArgs("sub-1").
		WillReturnRows(rows)

	repo := NewSubmissionRepository(db)
	submission, err := repo.GetByID("sub-1")

	require.NoError(t, err)
	require.NotNil(t, submission)
	assert.Equal(t, "sub-1", submission.ID)
	assert.Equal(t, models.TypeContent, submission.SubmissionType)
	assert.Equal(t, models.StatusInReview, submission.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTypeWithStatusFilter(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	status := models.StatusSubmitted

	mock.ExpectQuery("SELECT COUNT\\(\\*\\)").
		WithArgs("content", "submitted").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	rows := sqlmock.NewRows(submissionColumnList).
		AddRow(submissionRow("sub-1", models.StatusSubmitted, now)...)
	mock.ExpectQuery("SELECT (.+) FROM submissions").
		WithArgs("content", "submitted", 20, 0).
		WillReturnRows(rows)

	repo := NewSubmissionRepository(db)
	submissions, total, err := repo.ListByType(models.TypeContent, &status, 20, 0)

	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, submissions, 1)
	assert.Equal(t, models.StatusSubmitted, submissions[0].Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListByTypesEmptyInput(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewSubmissionRepository(db)
	submissions, err := repo.ListByTypes(nil)

	require.NoError(t, err)
	assert.Empty(t, submissions)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusTxStaleRow(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expected := time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC)
	submission := &models.Submission{
		ID:     "sub-1",
		Status: models.StatusApproved,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE submissions").
		WillReturnError(sql.ErrNoRows)

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewSubmissionRepository(db)
	err = repo.UpdateStatusTx(tx, submission, &expected)

	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateStatusTxRefreshesUpdatedAt(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	refreshed := time.Date(2026, 2, 1, 12, 5, 0, 0, time.UTC)
	submission := &models.Submission{
		ID:     "sub-1",
		Status: models.StatusApproved,
	}

	mock.ExpectBegin()
	mock.ExpectQuery("UPDATE submissions").
		WillReturnRows(sqlmock.NewRows([]string{"updated_at"}).AddRow(refreshed))

	tx, err := db.Begin()
	require.NoError(t, err)

	repo := NewSubmissionRepository(db)
	err = repo.UpdateStatusTx(tx, submission, nil)

	require.NoError(t, err)
	assert.Equal(t, refreshed, submission.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCountByTypeAndStatus(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"submission_type", "status", "count"}).
		AddRow("content", "submitted", 3).
		AddRow("content", "approved", 1).
		AddRow("directory_listing", "in_review", 2)

	mock.ExpectQuery("SELECT submission_type, status, COUNT\\(\\*\\)").
		WillReturnRows(rows)

	repo := NewSubmissionRepository(db)
	stats, err := repo.CountByTypeAndStatus([]models.SubmissionType{models.TypeContent, models.TypeDirectoryListing})

	require.NoError(t, err)
	assert.Equal(t, 3, stats[models.TypeContent][models.StatusSubmitted])
	assert.Equal(t, 1, stats[models.TypeContent][models.StatusApproved])
	assert.Equal(t, 2, stats[models.TypeDirectoryListing][models.StatusInReview])
	assert.NoError(t, mock.ExpectationsWereMet())
}
