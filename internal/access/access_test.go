package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ubuntu-connect/internal/models"
)

func TestIsAuthorizedAdminAlwaysPasses(t *testing.T) {
	policy := Default()

	for _, submissionType := range models.SubmissionTypes {
		assert.True(t, policy.IsAuthorized(models.RoleAdmin, nil, submissionType),
			"admin role should access %s", submissionType)
		assert.True(t, policy.IsAuthorized("user", []models.Capability{models.CapAdmin}, submissionType),
			"admin capability should access %s", submissionType)
	}
}

func TestIsAuthorizedCapabilityIntersection(t *testing.T) {
	policy := Default()

	tests := []struct {
		name           string
		capabilities   []models.Capability
		submissionType models.SubmissionType
		want           bool
	}{
		{"moderator reviews content", []models.Capability{models.CapModerator}, models.TypeContent, true},
		{"moderator cannot review expert applications", []models.Capability{models.CapModerator}, models.TypeExpertApplication, false},
		{"reviewer handles expert applications", []models.Capability{models.CapReviewer}, models.TypeExpertApplication, true},
		{"reviewer handles business applications", []models.Capability{models.CapReviewer}, models.TypeBusinessApplication, true},
		{"business reviewer handles business applications", []models.Capability{models.CapBusinessReviewer}, models.TypeBusinessApplication, true},
		{"listing moderator handles directory listings", []models.Capability{models.CapListingModerator}, models.TypeDirectoryListing, true},
		{"listing moderator handles travel businesses", []models.Capability{models.CapListingModerator}, models.TypeTravelBusiness, true},
		{"no capabilities denied", nil, models.TypeContent, false},
		{"unrelated capability denied", []models.Capability{models.CapBusinessReviewer}, models.TypeContent, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := policy.IsAuthorized("user", tt.capabilities, tt.submissionType)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAuthorizedUnknownTypeFailsClosed(t *testing.T) {
	policy := Default()

	allCaps := []models.Capability{
		models.CapModerator,
		models.CapReviewer,
		models.CapBusinessReviewer,
		models.CapListingModerator,
	}
	assert.False(t, policy.IsAuthorized("user", allCaps, models.SubmissionType("podcast")))
	assert.True(t, policy.IsAuthorized(models.RoleAdmin, nil, models.SubmissionType("podcast")))
}

func TestRequiredForIncludesAdmin(t *testing.T) {
	policy := Default()

	required := policy.RequiredFor(models.TypeContent)
	assert.Equal(t, []models.Capability{models.CapAdmin, models.CapModerator}, required)

	required = policy.RequiredFor(models.SubmissionType("podcast"))
	assert.Equal(t, []models.Capability{models.CapAdmin}, required)
}

func TestAccessibleTypes(t *testing.T) {
	policy := Default()

	types := policy.AccessibleTypes("user", []models.Capability{models.CapModerator})
	assert.Equal(t, []models.SubmissionType{
		models.TypeContent,
		models.TypeDirectoryListing,
		models.TypeTravelBusiness,
	}, types)

	types = policy.AccessibleTypes(models.RoleAdmin, nil)
	assert.Equal(t, models.SubmissionTypes, types)

	types = policy.AccessibleTypes("user", nil)
	assert.Empty(t, types)
}

func TestNewPolicyCopiesRules(t *testing.T) {
	rules := map[models.SubmissionType][]models.Capability{
		models.TypeContent: {models.CapModerator},
	}
	policy := NewPolicy(rules)

	rules[models.TypeContent][0] = models.CapReviewer

	assert.True(t, policy.IsAuthorized("user", []models.Capability{models.CapModerator}, models.TypeContent))
	assert.False(t, policy.IsAuthorized("user", []models.Capability{models.CapReviewer}, models.TypeContent))
}
