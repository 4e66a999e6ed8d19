package models

import "time"

// Tenant is a vendor organization. Suppliers belong to exactly one tenant.
type Tenant struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// User is an authenticated account. Role is one of ADMIN, VENDOR, SUPPLIER.
type User struct {
	ID        string    `db:"id" json:"id"`
	TenantID  string    `db:"tenant_id" json:"tenant_id"`
	Email     string    `db:"email" json:"email"`
	PassHash  []byte    `db:"pass_hash" json:"-"`
	Role      string    `db:"role" json:"role"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// Supplier is a third party assessed by a vendor tenant. The score
// fields form the rolling risk profile: overwritten on approval,
// decayed on rejection, never derived from a single submission alone.
type Supplier struct {
	ID                 string     `db:"id" json:"id"`
	TenantID           string     `db:"tenant_id" json:"tenant_id"`
	UserID             string     `db:"user_id" json:"user_id,omitempty"`
	Name               string     `db:"name" json:"name"`
	ContactEmail       string     `db:"contact_email" json:"contact_email"`
	OverallScore       float64    `db:"overall_score" json:"overall_score"`
	BIVScore           float64    `db:"biv_score" json:"biv_score"`
	BusinessScore      float64    `db:"business_score" json:"business_score"`
	IntegrityScore     float64    `db:"integrity_score" json:"integrity_score"`
	AvailabilityScore  float64    `db:"availability_score" json:"availability_score"`
	RiskLevel          string     `db:"risk_level" json:"risk_level"`
	NIS2Compliant      bool       `db:"nis2_compliant" json:"nis2_compliant"`
	LastAssessmentDate *time.Time `db:"last_assessment_date" json:"last_assessment_date,omitempty"`
	CreatedAt          time.Time  `db:"created_at" json:"created_at"`
}

// Invitation lets a supplier contact onboard against a pre-created
// supplier record. Tokens are single-use.
type Invitation struct {
	ID         string     `db:"id" json:"id"`
	TenantID   string     `db:"tenant_id" json:"tenant_id"`
	SupplierID string     `db:"supplier_id" json:"supplier_id"`
	Email      string     `db:"email" json:"email"`
	Token      string     `db:"token" json:"token"`
	AcceptedAt *time.Time `db:"accepted_at" json:"accepted_at,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
}

// Assessment is a questionnaire a tenant sends to its suppliers.
type Assessment struct {
	ID          string    `db:"id" json:"id"`
	TenantID    string    `db:"tenant_id" json:"tenant_id"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}

// Question belongs to an assessment. MaxScore and BIVCategory drive
// scoring; the engine never mutates questions.
type Question struct {
	ID               string    `db:"id" json:"id"`
	AssessmentID     string    `db:"assessment_id" json:"assessment_id"`
	Text             string    `db:"text" json:"text"`
	BIVCategory      string    `db:"biv_category" json:"biv_category,omitempty"`
	MaxScore         float64   `db:"max_score" json:"max_score"`
	EvidenceRequired bool      `db:"evidence_required" json:"evidence_required"`
	Position         int       `db:"position" json:"position"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// Submission is one supplier user's attempt at an assessment.
// Aggregate score fields are populated on submit and recomputed in
// full on every resubmit.
type Submission struct {
	ID                string     `db:"id" json:"id"`
	AssessmentID      string     `db:"assessment_id" json:"assessment_id"`
	SupplierID        string     `db:"supplier_id" json:"supplier_id"`
	UserID            string     `db:"user_id" json:"user_id"`
	TenantID          string     `db:"tenant_id" json:"tenant_id"`
	Status            string     `db:"status" json:"status"`
	TotalQuestions    int        `db:"total_questions" json:"total_questions"`
	AnsweredQuestions int        `db:"answered_questions" json:"answered_questions"`
	Progress          int        `db:"progress" json:"progress"`
	Score             float64    `db:"score" json:"score"`
	BusinessScore     float64    `db:"business_score" json:"business_score"`
	IntegrityScore    float64    `db:"integrity_score" json:"integrity_score"`
	AvailabilityScore float64    `db:"availability_score" json:"availability_score"`
	BIVScore          float64    `db:"biv_score" json:"biv_score"`
	RiskLevel         string     `db:"risk_level" json:"risk_level"`
	RiskScore         int        `db:"risk_score" json:"risk_score"`
	ReviewedAt        *time.Time `db:"reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy        string     `db:"reviewed_by" json:"reviewed_by,omitempty"`
	ReviewComments    string     `db:"review_comments" json:"review_comments,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}

// Answer is one (submission, question) response. MaxScore is copied
// from the question at scoring time so later question edits do not
// rewrite history.
type Answer struct {
	ID             string    `db:"id" json:"id"`
	SubmissionID   string    `db:"submission_id" json:"submission_id"`
	QuestionID     string    `db:"question_id" json:"question_id"`
	Value          string    `db:"value" json:"value"`
	Comments       string    `db:"comments" json:"comments,omitempty"`
	Evidence       string    `db:"evidence" json:"evidence,omitempty"`
	EvidenceStatus string    `db:"evidence_status" json:"evidence_status"`
	Score          float64   `db:"score" json:"score"`
	MaxScore       float64   `db:"max_score" json:"max_score"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

// Notification is an in-app message produced by submission and review
// events. Delivery is fire-and-forget; the core never retries.
type Notification struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Type      string    `db:"type" json:"type"`
	Title     string    `db:"title" json:"title"`
	Body      string    `db:"body" json:"body"`
	RefID     string    `db:"ref_id" json:"ref_id,omitempty"`
	Read      bool      `db:"read" json:"read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
