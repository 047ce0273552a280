package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"ubuntu-connect/internal/middleware"
	"ubuntu-connect/internal/models"
	"ubuntu-connect/internal/service"
	"ubuntu-connect/pkg/validator"
)

// ScoringHandler exposes the contribution ledger and derived scores
type ScoringHandler struct {
	scoringService *service.ScoringService
}

func NewScoringHandler(scoringService *service.ScoringService) *ScoringHandler {
	return &ScoringHandler{scoringService: scoringService}
}

type myScoreResponse struct {
	UserID        string                `json:"user_id"`
	TotalPoints   int                   `json:"total_points"`
	Level         string                `json:"level"`
	StreakDays    int                   `json:"streak_days"`
	Contributions []models.Contribution `json:"contributions"`
}

type recordContributionRequest struct {
	UserID           string                  `json:"user_id"`
	ContributionType models.ContributionType `json:"contribution_type"`
	Points           *int                    `json:"points,omitempty"`
	Details          *string                 `json:"details,omitempty"`
	Metadata         json.RawMessage         `json:"metadata,omitempty"`
}

// Leaderboard godoc
// @Summary Community leaderboard
// @Description Returns the ranked standings list, descending by total points
// @Tags scoring
// @Produce json
// @Param limit query int false "Number of entries (default 10, max 100)"
// @Success 200 {array} models.LeaderboardEntry
// @Failure 500 {object} ErrorResponse
// @Router /api/v1/leaderboard [get]
func (h *ScoringHandler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	entries, err := h.scoringService.Leaderboard(r.Context(), limit)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, entries)
}

// MyScore godoc
// @Summary The caller's score and recent contributions
// @Description Returns the authenticated user's total points, level, activity streak and latest ledger entries
// @Tags scoring
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Number of recent contributions (default 10)"
// @Success 200 {object} myScoreResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/my/score [get]
func (h *ScoringHandler) MyScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	standing, err := h.scoringService.Standing(userID)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	contributions, err := h.scoringService.RecentContributions(userID, limit)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, myScoreResponse{
		UserID:        standing.UserID,
		TotalPoints:   standing.TotalPoints,
		Level:         standing.Level,
		StreakDays:    standing.StreakDays,
		Contributions: contributions,
	})
}

// RecordContribution godoc
// @Summary Record a manual contribution
// @Description Appends a point-earning event to a user's ledger; points default to the type's fixed value
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body recordContributionRequest true "Contribution"
// @Success 201 {object} models.Contribution
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/admin/contributions [post]
func (h *ScoringHandler) RecordContribution(w http.ResponseWriter, r *http.Request) {
	var req recordContributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.UserID == "" || req.ContributionType == "" {
		RespondWithError(w, http.StatusBadRequest, ErrMsgContributionRequired)
		return
	}
	if err := validator.ValidateID(req.UserID); err != nil {
		RespondWithError(w, http.StatusBadRequest, ErrMsgInvalidUserID)
		return
	}

	contribution, err := h.scoringService.RecordContribution(
		r.Context(), req.UserID, req.ContributionType, req.Points, req.Details, req.Metadata, nil,
	)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusCreated, contribution)
}

// UserContributions godoc
// @Summary A user's contribution history
// @Description Returns a user's standing and latest ledger entries, for moderation and support
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param userId path string true "User ID"
// @Param limit query int false "Number of entries (default 10)"
// @Success 200 {object} myScoreResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/admin/contributions/{userId} [get]
func (h *ScoringHandler) UserContributions(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if err := validator.ValidateID(userID); err != nil {
		RespondWithError(w, http.StatusBadRequest, ErrMsgInvalidUserID)
		return
	}

	standing, err := h.scoringService.Standing(userID)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	contributions, err := h.scoringService.RecentContributions(userID, limit)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, myScoreResponse{
		UserID:        standing.UserID,
		TotalPoints:   standing.TotalPoints,
		Level:         standing.Level,
		StreakDays:    standing.StreakDays,
		Contributions: contributions,
	})
}
