package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"ubuntu-connect/internal/cache"
	"ubuntu-connect/internal/metrics"
	"ubuntu-connect/internal/models"
	"ubuntu-connect/internal/repository"
)

// levelTier is an inclusive lower bound on total points
type levelTier struct {
	Name string
	Min  int
}

// levelTiers in ascending order; the top tier has no upper bound
var levelTiers = []levelTier{
	{Name: "Newcomer", Min: 0},
	{Name: "Contributor", Min: 500},
	{Name: "Community Leader", Min: 2000},
	{Name: "Ubuntu Champion", Min: 5000},
}

// maxLeaderboardLimit caps leaderboard page size and is the size of the
// cached ranking.
const maxLeaderboardLimit = 100

// activityWindowDays bounds how far back the streak computation looks
const activityWindowDays = 366

// ScoringService owns the contribution ledger and everything derived from
// it: totals, levels, streaks and the leaderboard.
type ScoringService struct {
	contributionRepo *repository.ContributionRepository
	leaderboardCache *cache.LeaderboardCache
}

func NewScoringService(contributionRepo *repository.ContributionRepository, leaderboardCache *cache.LeaderboardCache) *ScoringService {
	return &ScoringService{
		contributionRepo: contributionRepo,
		leaderboardCache: leaderboardCache,
	}
}

// RecordContribution appends a point-earning event to the ledger. Points
// default to the fixed constant for the type unless explicitly overridden.
// The ledger itself enforces no authorization; callers decide who may
// write.
func (s *ScoringService) RecordContribution(
	ctx context.Context,
	userID string,
	contributionType models.ContributionType,
	points *int,
	details *string,
	metadata json.RawMessage,
	submissionID *string,
) (*models.Contribution, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if !contributionType.Valid() {
		return nil, fmt.Errorf("%w: unknown contribution type %q", ErrInvalidInput, contributionType)
	}

	awarded := models.DefaultPoints[contributionType]
	if points != nil {
		if *points < 0 {
			return nil, fmt.Errorf("%w: points must not be negative", ErrInvalidInput)
		}
		awarded = *points
	}

	contribution := &models.Contribution{
		ID:               uuid.NewString(),
		UserID:           userID,
		SubmissionID:     submissionID,
		ContributionType: contributionType,
		Points:           awarded,
		Details:          details,
		Metadata:         metadata,
	}

	if err := s.contributionRepo.Create(contribution); err != nil {
		return nil, err
	}

	metrics.ContributionsRecorded.WithLabelValues(string(contributionType)).Inc()
	s.leaderboardCache.Invalidate(ctx)

	return contribution, nil
}

// Standing computes a user's derived score state from the ledger
func (s *ScoringService) Standing(userID string) (*models.Standing, error) {
	total, err := s.contributionRepo.TotalPointsByUser(userID)
	if err != nil {
		return nil, err
	}

	days, err := s.contributionRepo.ActivityDays(userID, activityWindowDays)
	if err != nil {
		return nil, err
	}

	return &models.Standing{
		UserID:      userID,
		TotalPoints: total,
		Level:       LevelForPoints(total),
		StreakDays:  streakDays(days, time.Now().UTC()),
	}, nil
}

// RecentContributions lists a user's latest ledger entries
func (s *ScoringService) RecentContributions(userID string, limit int) ([]models.Contribution, error) {
	if limit < 1 || limit > maxLeaderboardLimit {
		limit = 10
	}
	return s.contributionRepo.ListByUser(userID, limit)
}

// Leaderboard returns the ranked standings list, descending by total
// points. The full top ranking is cached; a smaller limit slices it.
func (s *ScoringService) Leaderboard(ctx context.Context, limit int) ([]models.LeaderboardEntry, error) {
	if limit < 1 || limit > maxLeaderboardLimit {
		limit = 10
	}

	entries, ok := s.leaderboardCache.Get(ctx)
	if !ok {
		var err error
		entries, err = s.contributionRepo.LeaderboardTotals(maxLeaderboardLimit)
		if err != nil {
			return nil, err
		}
		for i := range entries {
			entries[i].Rank = i + 1
			entries[i].Level = LevelForPoints(entries[i].TotalPoints)
		}
		s.leaderboardCache.Set(ctx, entries)
	} else {
		slog.Debug("Leaderboard served from cache", "entries", len(entries))
	}

	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// LevelForPoints maps a point total onto the four-tier ladder
func LevelForPoints(points int) string {
	level := levelTiers[0].Name
	for _, tier := range levelTiers {
		if points >= tier.Min {
			level = tier.Name
		}
	}
	return level
}

// streakDays counts consecutive calendar days with activity, walking
// backward from the most recent day. The streak is zero unless the latest
// activity is today or yesterday; any gap larger than one day breaks it.
func streakDays(days []time.Time, now time.Time) int {
	if len(days) == 0 {
		return 0
	}

	today := now.Truncate(24 * time.Hour)
	latest := days[0].Truncate(24 * time.Hour)

	if today.Sub(latest) > 24*time.Hour {
		return 0
	}

	streak := 1
	previous := latest
	for _, day := range days[1:] {
		day = day.Truncate(24 * time.Hour)
		if previous.Sub(day) != 24*time.Hour {
			break
		}
		streak++
		previous = day
	}

	return streak
}
