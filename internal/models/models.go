package models

import (
	"encoding/json"
	"time"
)

// SubmissionType identifies the kind of source record a submission wraps
type SubmissionType string

const (
	TypeContent             SubmissionType = "content"
	TypeExpertApplication   SubmissionType = "expert_application"
	TypeBusinessApplication SubmissionType = "business_application"
	TypeDirectoryListing    SubmissionType = "directory_listing"
	TypeTravelBusiness      SubmissionType = "travel_business"
)

// SubmissionTypes lists all known types in stable display order
var SubmissionTypes = []SubmissionType{
	TypeContent,
	TypeExpertApplication,
	TypeBusinessApplication,
	TypeDirectoryListing,
	TypeTravelBusiness,
}

// Valid reports whether the type is a member of the closed set
func (t SubmissionType) Valid() bool {
	for _, known := range SubmissionTypes {
		if t == known {
			return true
		}
	}
	return false
}

// SubmissionStatus is the pipeline state of a submission
type SubmissionStatus string

const (
	StatusSubmitted    SubmissionStatus = "submitted"
	StatusInReview     SubmissionStatus = "in_review"
	StatusNeedsChanges SubmissionStatus = "needs_changes"
	StatusApproved     SubmissionStatus = "approved"
	StatusRejected     SubmissionStatus = "rejected"
	StatusPublished    SubmissionStatus = "published"
)

// SubmissionStatuses lists the full pipeline state set
var SubmissionStatuses = []SubmissionStatus{
	StatusSubmitted,
	StatusInReview,
	StatusNeedsChanges,
	StatusApproved,
	StatusRejected,
	StatusPublished,
}

// Valid reports whether the status is a member of the six-state set.
// Membership is exact: "approved " or "done" are rejected.
func (s SubmissionStatus) Valid() bool {
	for _, known := range SubmissionStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Syncable reports whether a status is mirrored into the source record.
// Only approval-class outcomes propagate; intermediate review states stay
// internal to the pipeline.
func (s SubmissionStatus) Syncable() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusPublished
}

// Capability is a permission tag granted by the identity provider.
// It is a closed set so a typo in a capability name fails validation
// instead of silently granting or denying access.
type Capability string

const (
	CapAdmin            Capability = "admin"
	CapModerator        Capability = "moderator"
	CapReviewer         Capability = "reviewer"
	CapBusinessReviewer Capability = "business_reviewer"
	CapListingModerator Capability = "listing_moderator"
)

// Capabilities lists all known capability tags
var Capabilities = []Capability{
	CapAdmin,
	CapModerator,
	CapReviewer,
	CapBusinessReviewer,
	CapListingModerator,
}

// Valid reports whether the capability is a known tag
func (c Capability) Valid() bool {
	for _, known := range Capabilities {
		if c == known {
			return true
		}
	}
	return false
}

// RoleAdmin is the coarse role that bypasses all capability checks
const RoleAdmin = "admin"

// Submission is a unified review-workflow record wrapping a type-specific
// source record. It is created in "submitted" state by the submission flows
// and mutated only through the pipeline state machine.
type Submission struct {
	ID             string           `json:"id" db:"id"`
	SubmitterID    string           `json:"submitter_id" db:"submitter_id"`
	SubmissionType SubmissionType   `json:"submission_type" db:"submission_type"`
	ReferenceID    string           `json:"reference_id" db:"reference_id"`
	Title          string           `json:"title" db:"title"`
	Description    *string          `json:"description,omitempty" db:"description"`
	Status         SubmissionStatus `json:"status" db:"status"`
	AssignedTo     *string          `json:"assigned_to,omitempty" db:"assigned_to"`
	ReviewerNotes  *string          `json:"reviewer_notes,omitempty" db:"reviewer_notes"`
	SubmittedAt    time.Time        `json:"submitted_at" db:"submitted_at"`
	ReviewedAt     *time.Time       `json:"reviewed_at,omitempty" db:"reviewed_at"`
	PublishedAt    *time.Time       `json:"published_at,omitempty" db:"published_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at" db:"updated_at"`
}

// ContributionType categorizes a point-earning event
type ContributionType string

const (
	ContribContentPublished ContributionType = "content_published"
	ContribListingCreated   ContributionType = "listing_created"
	ContribListingVerified  ContributionType = "listing_verified"
	ContribCommunityHelp    ContributionType = "community_help"
	ContribReviewCompleted  ContributionType = "review_completed"
	ContribCollaboration    ContributionType = "collaboration"
	ContribKnowledgeSharing ContributionType = "knowledge_sharing"
)

// DefaultPoints maps each contribution type to its fixed point value.
// Callers may override the value for manual admin adjustments.
var DefaultPoints = map[ContributionType]int{
	ContribContentPublished: 50,
	ContribListingCreated:   25,
	ContribListingVerified:  40,
	ContribCommunityHelp:    15,
	ContribReviewCompleted:  20,
	ContribCollaboration:    30,
	ContribKnowledgeSharing: 35,
}

// Valid reports whether the contribution type is known
func (t ContributionType) Valid() bool {
	_, ok := DefaultPoints[t]
	return ok
}

// Contribution is an immutable point-earning event. SubmissionID is set when
// the contribution was awarded for a pipeline approval; together with the
// contribution type it keys the idempotent award operation.
type Contribution struct {
	ID               string           `json:"id" db:"id"`
	UserID           string           `json:"user_id" db:"user_id"`
	SubmissionID     *string          `json:"submission_id,omitempty" db:"submission_id"`
	ContributionType ContributionType `json:"contribution_type" db:"contribution_type"`
	Points           int              `json:"points" db:"points"`
	Details          *string          `json:"details,omitempty" db:"details"`
	Metadata         json.RawMessage  `json:"metadata,omitempty" db:"metadata"`
	CreatedAt        time.Time        `json:"created_at" db:"created_at"`
}

// Standing is a user's derived score state. It is computed from the
// contribution ledger, never stored.
type Standing struct {
	UserID      string `json:"user_id"`
	TotalPoints int    `json:"total_points"`
	Level       string `json:"level"`
	StreakDays  int    `json:"streak_days"`
}

// LeaderboardEntry is one row of the ranked standings list
type LeaderboardEntry struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	TotalPoints int    `json:"total_points"`
	Level       string `json:"level"`
}

// SyncEvent is a pending source-record synchronization, written in the same
// transaction as the submission update and drained by the outbox worker.
type SyncEvent struct {
	ID             int64            `json:"id" db:"id"`
	SubmissionID   string           `json:"submission_id" db:"submission_id"`
	SubmissionType SubmissionType   `json:"submission_type" db:"submission_type"`
	ReferenceID    string           `json:"reference_id" db:"reference_id"`
	PipelineStatus SubmissionStatus `json:"pipeline_status" db:"pipeline_status"`
	Attempts       int              `json:"attempts" db:"attempts"`
	LastError      *string          `json:"last_error,omitempty" db:"last_error"`
	NextAttemptAt  time.Time        `json:"next_attempt_at" db:"next_attempt_at"`
	ProcessedAt    *time.Time       `json:"processed_at,omitempty" db:"processed_at"`
	CreatedAt      time.Time        `json:"created_at" db:"created_at"`
}
