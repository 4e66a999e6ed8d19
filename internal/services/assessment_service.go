package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendorguard/vendorguard/internal/models"
)

type AssessmentStore interface {
	InsertAssessment(a *models.Assessment) error
	GetAssessment(id string) (*models.Assessment, error)
	ListAssessmentsByTenant(tenantID string) ([]*models.Assessment, error)
	InsertQuestion(q *models.Question) error
	ListQuestions(assessmentID string) ([]*models.Question, error)
	AddAudit(e AuditEntry)
}

// AssessmentService covers vendor-side authoring: assessments and
// their questions. Questions are never mutated by the scoring engine;
// answers copy MaxScore at scoring time instead.
type AssessmentService struct {
	store AssessmentStore
	now   func() time.Time
}

func NewAssessmentService(store AssessmentStore) *AssessmentService {
	return &AssessmentService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
	}
}

type CreateAssessmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *AssessmentService) Create(actor Actor, req CreateAssessmentRequest) (*models.Assessment, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, NewInvalidError("name required")
	}
	a := &models.Assessment{
		ID:          shortID(8),
		TenantID:    actor.TenantID,
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		CreatedAt:   s.now(),
	}
	if err := s.store.InsertAssessment(a); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: a.CreatedAt, Actor: actor.UserID, Action: "assessment.create", Target: a.ID})
	return a, nil
}

type AddQuestionRequest struct {
	AssessmentID     string  `json:"assessment_id"`
	Text             string  `json:"text"`
	BIVCategory      string  `json:"biv_category"`
	MaxScore         float64 `json:"max_score"`
	EvidenceRequired bool    `json:"evidence_required"`
	Position         int     `json:"position"`
}

func (s *AssessmentService) AddQuestion(actor Actor, req AddQuestionRequest) (*models.Question, error) {
	if err := requireVendor(actor); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, NewInvalidError("text required")
	}
	if req.MaxScore <= 0 {
		return nil, NewInvalidError("max_score must be positive")
	}
	category := strings.ToUpper(strings.TrimSpace(req.BIVCategory))
	switch category {
	case "", CategoryBusiness, CategoryIntegrity, CategoryAvailability:
	default:
		return nil, NewInvalidError("unknown biv_category")
	}
	a, err := s.store.GetAssessment(req.AssessmentID)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("assessment not found")
	}
	if a.TenantID != actor.TenantID {
		return nil, NewForbiddenError("forbidden")
	}
	q := &models.Question{
		ID:               shortID(8),
		AssessmentID:     a.ID,
		Text:             strings.TrimSpace(req.Text),
		BIVCategory:      category,
		MaxScore:         req.MaxScore,
		EvidenceRequired: req.EvidenceRequired,
		Position:         req.Position,
		CreatedAt:        s.now(),
	}
	if err := s.store.InsertQuestion(q); err != nil {
		return nil, err
	}
	return q, nil
}

func (s *AssessmentService) ListQuestions(assessmentID string) ([]*models.Question, error) {
	return s.store.ListQuestions(assessmentID)
}

func (s *AssessmentService) Get(id string) (*models.Assessment, error) {
	a, err := s.store.GetAssessment(id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return nil, NewNotFoundError("assessment not found")
	}
	return a, nil
}

func (s *AssessmentService) ListByTenant(tenantID string) ([]*models.Assessment, error) {
	return s.store.ListAssessmentsByTenant(tenantID)
}

func requireVendor(actor Actor) error {
	if actor.Role == RoleAdmin || actor.Role == RoleVendor {
		return nil
	}
	return NewForbiddenError("vendor role required")
}

func shortID(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}
