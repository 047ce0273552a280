package validator

import (
	"fmt"

	"github.com/google/uuid"
)

// ValidateID checks that an identifier is a canonical UUID string.
// Malformed ids are rejected before any store access.
func ValidateID(id string) error {
	if id == "" {
		return fmt.Errorf("id is required")
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("id must be a valid UUID")
	}
	// uuid.Parse accepts urn: and braced forms; only the canonical
	// 8-4-4-4-12 form is valid on the wire
	if parsed.String() != id {
		return fmt.Errorf("id must be a canonical UUID string")
	}
	return nil
}
