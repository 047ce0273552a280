package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLevelForPoints(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{0, "Newcomer"},
		{499, "Newcomer"},
		{500, "Contributor"},
		{1999, "Contributor"},
		{2000, "Community Leader"},
		{4999, "Community Leader"},
		{5000, "Ubuntu Champion"},
		{125000, "Ubuntu Champion"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForPoints(tt.points), "points=%d", tt.points)
	}
}

func TestLevelAtTenApprovedArticles(t *testing.T) {
	// Ten published content awards at the default 50 points reach exactly
	// the Contributor threshold
	assert.Equal(t, "Contributor", LevelForPoints(10*50))
}

func TestStreakDays(t *testing.T) {
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return now.Truncate(24 * time.Hour).AddDate(0, 0, -offset)
	}

	tests := []struct {
		name string
		days []time.Time
		want int
	}{
		{"no activity", nil, 0},
		{"today only", []time.Time{day(0)}, 1},
		{"yesterday only", []time.Time{day(1)}, 1},
		{"three consecutive days", []time.Time{day(0), day(1), day(2)}, 3},
		{"gap breaks the streak", []time.Time{day(0), day(1), day(3), day(4)}, 2},
		{"latest activity too old", []time.Time{day(3), day(4), day(5)}, 0},
		{"long run ending yesterday", []time.Time{day(1), day(2), day(3), day(4), day(5)}, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, streakDays(tt.days, now))
		})
	}
}
