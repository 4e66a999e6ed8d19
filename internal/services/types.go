package services

import (
	"strings"
	"time"
)

// Answer values a supplier may give. NA is accepted on input as an
// alias for NOT_APPLICABLE.
const (
	AnswerYes           = "YES"
	AnswerNo            = "NO"
	AnswerPartial       = "PARTIAL"
	AnswerNotApplicable = "NOT_APPLICABLE"
)

// NormalizeAnswerValue uppercases and maps aliases. Returns "" for
// values outside the accepted set.
func NormalizeAnswerValue(v string) string {
	switch strings.ToUpper(strings.TrimSpace(v)) {
	case AnswerYes:
		return AnswerYes
	case AnswerNo:
		return AnswerNo
	case AnswerPartial:
		return AnswerPartial
	case AnswerNotApplicable, "NA":
		return AnswerNotApplicable
	}
	return ""
}

// BIV categories. A question may also carry no category, in which case
// it contributes to the overall score only.
const (
	CategoryBusiness     = "BUSINESS"
	CategoryIntegrity    = "INTEGRITY"
	CategoryAvailability = "AVAILABILITY"
)

// Submission statuses. PENDING, SUBMITTED and UNDER_REVIEW are treated
// as one awaiting-review superstate for permission checks.
const (
	StatusDraft          = "DRAFT"
	StatusPending        = "PENDING"
	StatusSubmitted      = "SUBMITTED"
	StatusUnderReview    = "UNDER_REVIEW"
	StatusApproved       = "APPROVED"
	StatusRejected       = "REJECTED"
	StatusRequiresAction = "REQUIRES_ACTION"
)

// StatusEditable reports whether answers may still be saved and the
// submission submitted.
func StatusEditable(status string) bool {
	switch status {
	case StatusDraft, StatusRejected, StatusRequiresAction:
		return true
	}
	return false
}

// StatusReviewable reports whether a reviewer may record a verdict.
func StatusReviewable(status string) bool {
	switch status {
	case StatusPending, StatusSubmitted, StatusUnderReview, StatusRequiresAction:
		return true
	}
	return false
}

// StatusOpen reports whether the submission is still in flight; used
// by Start to return an existing attempt instead of creating one.
func StatusOpen(status string) bool {
	return status == StatusDraft || StatusReviewable(status)
}

// ValidVerdict reports whether a reviewer-supplied terminal status is
// acceptable.
func ValidVerdict(status string) bool {
	switch status {
	case StatusApproved, StatusRejected, StatusRequiresAction:
		return true
	}
	return false
}

// Risk levels and their ordinals (used for sorting: HIGH first).
const (
	RiskLow    = "LOW"
	RiskMedium = "MEDIUM"
	RiskHigh   = "HIGH"
)

// RiskScore maps a risk level to its sort ordinal: HIGH=3, MEDIUM=2,
// LOW=1, 0 for anything else.
func RiskScore(level string) int {
	switch level {
	case RiskHigh:
		return 3
	case RiskMedium:
		return 2
	case RiskLow:
		return 1
	}
	return 0
}

// Evidence review statuses. Reviewers may still mutate these after the
// submission leaves the editable set.
const (
	EvidencePending   = "PENDING"
	EvidenceSubmitted = "SUBMITTED"
	EvidenceApproved  = "APPROVED"
	EvidenceRejected  = "REJECTED"
	EvidenceRequested = "REQUESTED"
)

// User roles.
const (
	RoleAdmin    = "ADMIN"
	RoleVendor   = "VENDOR"
	RoleSupplier = "SUPPLIER"
)

// Actor identifies the caller for ownership and permission checks.
// Authentication happens upstream; services still validate the domain
// relationship (owner of the submission, vendor of the supplier).
type Actor struct {
	UserID   string
	TenantID string
	Role     string
}

// AuditEntry records a state-changing action for the tenant audit log.
type AuditEntry struct {
	Time   time.Time
	Actor  string
	Action string
	Target string
	Note   string
}
