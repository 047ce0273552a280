package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubuntu-connect/internal/models"
)

func testSubmission() *models.Submission {
	return &models.Submission{
		ID:             "5cb4f3a7-8d2e-4f6a-9b1c-3e7d8f2a6b4c",
		SubmitterID:    "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d",
		SubmissionType: models.TypeContent,
		ReferenceID:    "b2c3d4e5-f6a7-4b8c-9d0e-1f2a3b4c5d6e",
		Title:          "Ubuntu philosophy in modern communities",
		Status:         models.StatusSubmitted,
		SubmittedAt:    time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC),
	}
}

func TestApplyTransitionInReviewAssignsActor(t *testing.T) {
	submission := testSubmission()
	now := time.Date(2026, 1, 6, 9, 0, 0, 0, time.UTC)

	applyTransition(submission, TransitionRequest{Status: models.StatusInReview}, "reviewer-1", now)

	assert.Equal(t, models.StatusInReview, submission.Status)
	require.NotNil(t, submission.AssignedTo)
	assert.Equal(t, "reviewer-1", *submission.AssignedTo)
	assert.Equal(t, now, submission.UpdatedAt)
}

func TestApplyTransitionInReviewKeepsExistingAssignee(t *testing.T) {
	submission := testSubmission()
	existing := "reviewer-1"
	submission.AssignedTo = &existing
	now := time.Now().UTC()

	applyTransition(submission, TransitionRequest{Status: models.StatusInReview}, "reviewer-2", now)

	require.NotNil(t, submission.AssignedTo)
	assert.Equal(t, "reviewer-1", *submission.AssignedTo)
}

func TestApplyTransitionInReviewExplicitAssigneeWins(t *testing.T) {
	submission := testSubmission()
	existing := "reviewer-1"
	submission.AssignedTo = &existing
	target := "reviewer-3"
	now := time.Now().UTC()

	applyTransition(submission, TransitionRequest{Status: models.StatusInReview, Assignee: &target}, "reviewer-2", now)

	require.NotNil(t, submission.AssignedTo)
	assert.Equal(t, "reviewer-3", *submission.AssignedTo)
}

func TestApplyTransitionApprovalStampsReviewedAt(t *testing.T) {
	now := time.Date(2026, 1, 7, 14, 30, 0, 0, time.UTC)

	for _, status := range []models.SubmissionStatus{models.StatusApproved, models.StatusRejected} {
		submission := testSubmission()
		applyTransition(submission, TransitionRequest{Status: status}, "reviewer-1", now)

		require.NotNil(t, submission.ReviewedAt, "status %s", status)
		assert.Equal(t, now, *submission.ReviewedAt)
		assert.Nil(t, submission.PublishedAt)
	}
}

func TestApplyTransitionPublishedStampsPublishedAt(t *testing.T) {
	submission := testSubmission()
	submission.Status = models.StatusApproved
	now := time.Date(2026, 1, 8, 8, 0, 0, 0, time.UTC)

	applyTransition(submission, TransitionRequest{Status: models.StatusPublished}, "reviewer-1", now)

	require.NotNil(t, submission.PublishedAt)
	assert.Equal(t, now, *submission.PublishedAt)
	assert.Nil(t, submission.ReviewedAt)
}

func TestApplyTransitionNotesOverwrite(t *testing.T) {
	submission := testSubmission()
	old := "first pass"
	submission.ReviewerNotes = &old
	notes := "needs a better source list"
	now := time.Now().UTC()

	applyTransition(submission, TransitionRequest{Status: models.StatusNeedsChanges, Notes: &notes}, "reviewer-1", now)

	require.NotNil(t, submission.ReviewerNotes)
	assert.Equal(t, notes, *submission.ReviewerNotes)

	// Absent notes leave the previous value in place
	applyTransition(submission, TransitionRequest{Status: models.StatusInReview}, "reviewer-1", now)
	assert.Equal(t, notes, *submission.ReviewerNotes)
}

func TestAwardTypesCoverAllSubmissionTypes(t *testing.T) {
	for _, submissionType := range models.SubmissionTypes {
		contributionType, ok := awardTypes[submissionType]
		require.True(t, ok, "no award mapping for %s", submissionType)
		assert.True(t, contributionType.Valid())
	}

	assert.Equal(t, models.ContribContentPublished, awardTypes[models.TypeContent])
	assert.Equal(t, models.ContribListingCreated, awardTypes[models.TypeDirectoryListing])
	assert.Equal(t, models.ContribListingCreated, awardTypes[models.TypeTravelBusiness])
}
