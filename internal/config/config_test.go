package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePolicyOverrides(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want map[string][]string
	}{
		{"empty", "", map[string][]string{}},
		{
			"single type single capability",
			"content:reviewer",
			map[string][]string{"content": {"reviewer"}},
		},
		{
			"multiple capabilities",
			"business_application:business_reviewer|reviewer",
			map[string][]string{"business_application": {"business_reviewer", "reviewer"}},
		},
		{
			"multiple types",
			"content:moderator,directory_listing:listing_moderator|moderator",
			map[string][]string{
				"content":           {"moderator"},
				"directory_listing": {"listing_moderator", "moderator"},
			},
		},
		{
			"whitespace tolerated",
			" content : moderator | reviewer ",
			map[string][]string{"content": {"moderator", "reviewer"}},
		},
		{
			"malformed pairs skipped",
			"content,expert_application:reviewer,:moderator,content:",
			map[string][]string{"expert_application": {"reviewer"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parsePolicyOverrides(tt.raw))
		})
	}
}
