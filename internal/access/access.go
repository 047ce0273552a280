package access

import (
	"ubuntu-connect/internal/models"
)

// Policy maps each submission type to the capability set allowed to act on
// it. It is built once at startup and never mutated afterwards; tests can
// construct alternates with NewPolicy.
type Policy struct {
	rules map[models.SubmissionType][]models.Capability
}

// Default returns the built-in policy table
func Default() *Policy {
	return NewPolicy(map[models.SubmissionType][]models.Capability{
		models.TypeContent:             {models.CapModerator},
		models.TypeExpertApplication:   {models.CapReviewer},
		models.TypeBusinessApplication: {models.CapBusinessReviewer, models.CapReviewer},
		models.TypeDirectoryListing:    {models.CapListingModerator, models.CapModerator},
		models.TypeTravelBusiness:      {models.CapListingModerator, models.CapModerator},
	})
}

// NewPolicy builds a policy from an explicit rule table. The table is
// copied so later mutation of the argument cannot change the policy.
func NewPolicy(rules map[models.SubmissionType][]models.Capability) *Policy {
	copied := make(map[models.SubmissionType][]models.Capability, len(rules))
	for submissionType, caps := range rules {
		copied[submissionType] = append([]models.Capability(nil), caps...)
	}
	return &Policy{rules: copied}
}

// IsAuthorized decides whether a caller may act on the given pipeline type.
// The admin role or the admin capability always passes; otherwise the
// caller's capability set must intersect the set configured for the type.
// Unknown types fail closed to admin only.
func (p *Policy) IsAuthorized(role string, capabilities []models.Capability, submissionType models.SubmissionType) bool {
	if role == models.RoleAdmin || hasCapability(capabilities, models.CapAdmin) {
		return true
	}

	allowed, ok := p.rules[submissionType]
	if !ok {
		return false
	}

	for _, capability := range allowed {
		if hasCapability(capabilities, capability) {
			return true
		}
	}

	return false
}

// RequiredFor returns the capability set configured for a type, for
// Forbidden diagnostics. Unknown types require admin only.
func (p *Policy) RequiredFor(submissionType models.SubmissionType) []models.Capability {
	allowed, ok := p.rules[submissionType]
	if !ok {
		return []models.Capability{models.CapAdmin}
	}
	return append([]models.Capability{models.CapAdmin}, allowed...)
}

// AccessibleTypes returns the submission types the caller may act on, in
// the stable display order of the type set.
func (p *Policy) AccessibleTypes(role string, capabilities []models.Capability) []models.SubmissionType {
	types := []models.SubmissionType{}
	for _, submissionType := range models.SubmissionTypes {
		if p.IsAuthorized(role, capabilities, submissionType) {
			types = append(types, submissionType)
		}
	}
	return types
}

func hasCapability(capabilities []models.Capability, want models.Capability) bool {
	for _, capability := range capabilities {
		if capability == want {
			return true
		}
	}
	return false
}
