package access

import (
	"log/slog"

	"ubuntu-connect/internal/config"
	"ubuntu-connect/internal/models"
)

// FromConfig builds the policy from the built-in defaults plus any env
// overrides. Unknown submission types or capability tags in an override are
// skipped with a warning rather than silently widening access.
func FromConfig(cfg *config.PolicyConfig) *Policy {
	rules := make(map[models.SubmissionType][]models.Capability)
	for submissionType, caps := range Default().rules {
		rules[submissionType] = caps
	}

	for rawType, rawCaps := range cfg.Overrides {
		submissionType := models.SubmissionType(rawType)
		if !submissionType.Valid() {
			slog.Warn("Ignoring policy override for unknown submission type", "type", rawType)
			continue
		}

		var caps []models.Capability
		for _, rawCap := range rawCaps {
			capability := models.Capability(rawCap)
			if !capability.Valid() {
				slog.Warn("Ignoring unknown capability in policy override",
					"type", rawType, "capability", rawCap)
				continue
			}
			caps = append(caps, capability)
		}

		if len(caps) > 0 {
			rules[submissionType] = caps
		}
	}

	return NewPolicy(rules)
}
