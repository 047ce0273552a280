package handlers

// Common error message constants shared across handlers
const (
	ErrMsgUnauthorized         = "Unauthorized"
	ErrMsgInvalidRequestBody   = "Invalid request body"
	ErrMsgInvalidSubmissionID  = "Invalid submission ID"
	ErrMsgInvalidUserID        = "Invalid user ID"
	ErrMsgSubmissionNotFound   = "Submission not found"
	ErrMsgStatusRequired       = "status is required"
	ErrMsgInternalServerError  = "Internal server error"
	ErrMsgInsufficientAccess   = "Insufficient permissions for this submission type"
	ErrMsgContributionRequired = "user_id and contribution_type are required"
)
