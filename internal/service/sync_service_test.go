package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ubuntu-connect/internal/models"
)

func TestStatusValuePublishedMapsPerType(t *testing.T) {
	tests := []struct {
		submissionType models.SubmissionType
		want           string
	}{
		{models.TypeContent, "published"},
		{models.TypeExpertApplication, "approved"},
		{models.TypeBusinessApplication, "approved"},
		{models.TypeDirectoryListing, "active"},
		{models.TypeTravelBusiness, "active"},
	}

	for _, tt := range tests {
		value, err := StatusValue(tt.submissionType, models.StatusPublished)
		require.NoError(t, err)
		assert.Equal(t, tt.want, value, "type=%s", tt.submissionType)
	}
}

func TestStatusValueNonPublishedPropagatesVerbatim(t *testing.T) {
	for _, submissionType := range models.SubmissionTypes {
		for _, status := range []models.SubmissionStatus{models.StatusApproved, models.StatusRejected} {
			value, err := StatusValue(submissionType, status)
			require.NoError(t, err)
			assert.Equal(t, string(status), value)
		}
	}
}

func TestStatusValueUnknownType(t *testing.T) {
	_, err := StatusValue(models.SubmissionType("podcast"), models.StatusApproved)
	assert.Error(t, err)
}

func TestSourceTargetsCoverAllSubmissionTypes(t *testing.T) {
	for _, submissionType := range models.SubmissionTypes {
		target, ok := sourceTargets[submissionType]
		require.True(t, ok, "no source mapping for %s", submissionType)
		assert.NotEmpty(t, target.Table)
		assert.NotEmpty(t, target.StatusColumn)
		assert.NotEmpty(t, target.PublishedValue)
	}
}

func TestBackoffDoublesAndCaps(t *testing.T) {
	assert.Equal(t, time.Minute, backoff(1))
	assert.Equal(t, 2*time.Minute, backoff(2))
	assert.Equal(t, 4*time.Minute, backoff(3))
	assert.Equal(t, 32*time.Minute, backoff(6))
	assert.Equal(t, time.Hour, backoff(7))
	assert.Equal(t, time.Hour, backoff(20))
}
