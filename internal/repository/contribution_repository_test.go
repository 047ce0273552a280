package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubuntu-connect/internal/models"
)

func TestCreateContribution(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)
	submissionID := "sub-1"
	contribution := &models.Contribution{
		ID:               "contrib-1",
		UserID:           "user-1",
		SubmissionID:     &submissionID,
		ContributionType: models.ContribContentPublished,
		Points:           50,
	}

	mock.ExpectQuery("INSERT INTO contributions").
		WithArgs("contrib-1", "user-1", submissionID, "content_published", 50, nil, nil).
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	repo := NewContributionRepository(db)
	err = repo.Create(contribution)

	require.NoError(t, err)
	assert.Equal(t, created, contribution.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetBySubmissionAndTypeMiss(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM contributions").
		WithArgs("sub-1", "content_published").
		WillReturnError(sql.ErrNoRows)

	repo := NewContributionRepository(db)
	contribution, err := repo.GetBySubmissionAndType("sub-1", models.ContribContentPublished)

	require.NoError(t, err)
	assert.Nil(t, contribution)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTotalPointsByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT COALESCE\\(SUM\\(points\\), 0\\)").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow(565))

	repo := NewContributionRepository(db)
	total, err := repo.TotalPointsByUser("user-1")

	require.NoError(t, err)
	assert.Equal(t, 565, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLeaderboardTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"user_id", "total_points"}).
		AddRow("user-2", 5200).
		AddRow("user-1", 480)

	mock.ExpectQuery("SELECT user_id, SUM\\(points\\)").
		WithArgs(100).
		WillReturnRows(rows)

	repo := NewContributionRepository(db)
	entries, err := repo.LeaderboardTotals(100)

	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "user-2", entries[0].UserID)
	assert.Equal(t, 5200, entries[0].TotalPoints)
	assert.Equal(t, "user-1", entries[1].UserID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestActivityDays(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	today := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"day"}).
		AddRow(today).
		AddRow(today.AddDate(0, 0, -1))

	mock.ExpectQuery("SELECT DISTINCT date_trunc").
		WithArgs("user-1", 366).
		WillReturnRows(rows)

	repo := NewContributionRepository(db)
	days, err := repo.ActivityDays("user-1", 366)

	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, today, days[0])
	assert.NoError(t, mock.ExpectationsWereMet())
}
