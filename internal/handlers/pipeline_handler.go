package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"ubuntu-connect/internal/middleware"
	"ubuntu-connect/internal/models"
	"ubuntu-connect/internal/service"
	"ubuntu-connect/pkg/validator"
)

// PipelineHandler exposes the submission pipeline over HTTP
type PipelineHandler struct {
	pipelineService *service.PipelineService
}

func NewPipelineHandler(pipelineService *service.PipelineService) *PipelineHandler {
	return &PipelineHandler{pipelineService: pipelineService}
}

type listAccessibleResponse struct {
	Submissions     []models.Submission     `json:"submissions"`
	AccessibleTypes []models.SubmissionType `json:"accessible_types"`
}

type listByTypeResponse struct {
	Submissions []models.Submission `json:"submissions"`
	Total       int                 `json:"total"`
	Limit       int                 `json:"limit"`
	Offset      int                 `json:"offset"`
}

type updateStatusRequest struct {
	Status            models.SubmissionStatus `json:"status"`
	Notes             *string                 `json:"notes,omitempty"`
	Assignee          *string                 `json:"assignee,omitempty"`
	ExpectedUpdatedAt *time.Time              `json:"expected_updated_at,omitempty"`
}

type awardResponse struct {
	Contribution   *models.Contribution `json:"contribution"`
	AlreadyAwarded bool                 `json:"already_awarded"`
}

// ListAccessible godoc
// @Summary List accessible submissions
// @Description Returns all submissions of the types the caller's capabilities grant access to
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} listAccessibleResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/submissions [get]
func (h *PipelineHandler) ListAccessible(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	role := middleware.GetUserRole(r)
	capabilities := middleware.GetUserCapabilities(r)

	submissions, types, err := h.pipelineService.ListAccessible(role, capabilities)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, listAccessibleResponse{
		Submissions:     submissions,
		AccessibleTypes: types,
	})
}

// ListByType godoc
// @Summary List submissions of one type
// @Description Returns one page of submissions of a single type, optionally filtered by status
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param type path string true "Submission type"
// @Param status query string false "Filter by status"
// @Param limit query int false "Page size (default 20, max 100)"
// @Param offset query int false "Page offset"
// @Success 200 {object} listByTypeResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/v1/submissions/{type} [get]
func (h *PipelineHandler) ListByType(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	role := middleware.GetUserRole(r)
	capabilities := middleware.GetUserCapabilities(r)
	submissionType := models.SubmissionType(r.PathValue("type"))

	var status *models.SubmissionStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		s := models.SubmissionStatus(raw)
		status = &s
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	submissions, total, err := h.pipelineService.ListByType(role, capabilities, submissionType, status, limit, offset)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, listByTypeResponse{
		Submissions: submissions,
		Total:       total,
		Limit:       limit,
		Offset:      offset,
	})
}

// Stats godoc
// @Summary Submission pipeline statistics
// @Description Returns submission counts by status for each type the caller may act on
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]map[string]int
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/submissions/stats [get]
func (h *PipelineHandler) Stats(w http.ResponseWriter, r *http.Request) {
	_, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	role := middleware.GetUserRole(r)
	capabilities := middleware.GetUserCapabilities(r)

	stats, err := h.pipelineService.Stats(role, capabilities)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, stats)
}

// MySubmissions godoc
// @Summary List the caller's own submissions
// @Description Returns the authenticated user's submissions across all types, regardless of capabilities
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Submission
// @Failure 401 {object} ErrorResponse
// @Router /api/v1/my/submissions [get]
func (h *PipelineHandler) MySubmissions(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	submissions, err := h.pipelineService.ListMine(userID)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, submissions)
}

// UpdateStatus godoc
// @Summary Transition a submission
// @Description Moves a submission to a new review state; approval-class outcomes are mirrored to the source table
// @Tags submissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Param request body updateStatusRequest true "Target status"
// @Success 200 {object} models.Submission
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/submissions/{id}/status [put]
func (h *PipelineHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	submissionID := r.PathValue("id")
	if err := validator.ValidateID(submissionID); err != nil {
		RespondWithError(w, http.StatusBadRequest, ErrMsgInvalidSubmissionID)
		return
	}

	var req updateStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		RespondWithError(w, http.StatusBadRequest, ErrMsgInvalidRequestBody)
		return
	}
	if req.Status == "" {
		RespondWithError(w, http.StatusBadRequest, ErrMsgStatusRequired)
		return
	}
	if req.Assignee != nil {
		if err := validator.ValidateID(*req.Assignee); err != nil {
			RespondWithError(w, http.StatusBadRequest, ErrMsgInvalidUserID)
			return
		}
	}

	role := middleware.GetUserRole(r)
	capabilities := middleware.GetUserCapabilities(r)

	submission, err := h.pipelineService.UpdateStatus(userID, role, capabilities, submissionID, service.TransitionRequest{
		Status:            req.Status,
		Notes:             req.Notes,
		Assignee:          req.Assignee,
		ExpectedUpdatedAt: req.ExpectedUpdatedAt,
	})
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	JSONResponse(w, http.StatusOK, submission)
}

// Award godoc
// @Summary Award contribution points for a submission
// @Description Credits the submitter for an approved or published submission; repeating the call returns the existing award
// @Tags submissions
// @Produce json
// @Security BearerAuth
// @Param id path string true "Submission ID"
// @Success 200 {object} awardResponse
// @Success 201 {object} awardResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /api/v1/submissions/{id}/award [post]
func (h *PipelineHandler) Award(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r)
	if !ok {
		RespondWithError(w, http.StatusUnauthorized, ErrMsgUnauthorized)
		return
	}

	submissionID := r.PathValue("id")
	if err := validator.ValidateID(submissionID); err != nil {
		RespondWithError(w, http.StatusBadRequest, ErrMsgInvalidSubmissionID)
		return
	}

	role := middleware.GetUserRole(r)
	capabilities := middleware.GetUserCapabilities(r)

	contribution, created, err := h.pipelineService.AwardPoints(r.Context(), userID, role, capabilities, submissionID)
	if err != nil {
		RespondWithServiceError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	JSONResponse(w, status, awardResponse{
		Contribution:   contribution,
		AlreadyAwarded: !created,
	})
}
