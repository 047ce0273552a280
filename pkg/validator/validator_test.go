package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"canonical UUID", "5cb4f3a7-8d2e-4f6a-9b1c-3e7d8f2a6b4c", false},
		{"empty", "", true},
		{"not a UUID", "hello-world", true},
		{"braced form rejected", "{5cb4f3a7-8d2e-4f6a-9b1c-3e7d8f2a6b4c}", true},
		{"urn form rejected", "urn:uuid:5cb4f3a7-8d2e-4f6a-9b1c-3e7d8f2a6b4c", true},
		{"uppercase rejected", "5CB4F3A7-8D2E-4F6A-9B1C-3E7D8F2A6B4C", true},
		{"no hyphens rejected", "5cb4f3a78d2e4f6a9b1c3e7d8f2a6b4c", true},
		{"sql injection attempt", "1; DROP TABLE submissions--", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateID(tt.id)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
