package services

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/vendorguard/vendorguard/internal/models"
)

// SubmissionStore abstracts persistence for the submission lifecycle.
// InTx runs fn against a transaction-bound store; any error aborts the
// whole transaction so no partial aggregate is ever persisted.
type SubmissionStore interface {
	GetAssessment(id string) (*models.Assessment, error)
	ListQuestions(assessmentID string) ([]*models.Question, error)
	GetQuestion(id string) (*models.Question, error)

	GetSupplier(id string) (*models.Supplier, error)
	GetSupplierByUser(userID string) (*models.Supplier, error)
	UpdateSupplierProfile(s *models.Supplier) error

	GetSubmission(id string) (*models.Submission, error)
	FindOpenSubmission(assessmentID, userID string) (*models.Submission, error)
	InsertSubmission(sub *models.Submission) error
	UpdateSubmission(sub *models.Submission) error

	GetAnswer(submissionID, questionID string) (*models.Answer, error)
	ListAnswers(submissionID string) ([]*models.Answer, error)
	InsertAnswer(a *models.Answer) error
	UpdateAnswer(a *models.Answer) error

	InTx(fn func(SubmissionStore) error) error
	AddAudit(e AuditEntry)
}

// SubmittedEvent is handed to the notifier when a submission enters
// review.
type SubmittedEvent struct {
	SubmissionID string
	AssessmentID string
	SupplierID   string
	TenantID     string
	OverallScore float64
	RiskLevel    string
}

// ReviewedEvent is handed to the notifier after a reviewer verdict.
type ReviewedEvent struct {
	SubmissionID   string
	SupplierID     string
	SubmitterID    string
	Status         string
	ReviewComments string
}

// Notifier receives lifecycle events. Calls are fire-and-forget: the
// submission transaction has already committed and delivery problems
// must not surface to the caller.
type Notifier interface {
	AssessmentSubmitted(ev SubmittedEvent)
	AssessmentReviewed(ev ReviewedEvent)
}

// SubmissionService owns the submission state machine: which
// operations are legal in which status, score recomputation on submit,
// and the review-time adjustment of the supplier's rolling profile.
type SubmissionService struct {
	store    SubmissionStore
	notifier Notifier
	policy   ScoringPolicy
	now      func() time.Time
	idGen    func() string
}

func NewSubmissionService(store SubmissionStore, notifier Notifier, policy ScoringPolicy) *SubmissionService {
	return &SubmissionService{
		store:    store,
		notifier: notifier,
		policy:   policy,
		now:      func() time.Time { return time.Now().UTC() },
		idGen:    uuid.NewString,
	}
}

// Start opens a submission for the actor on the given assessment.
// Idempotent: an existing open submission for the same assessment and
// user is returned instead of duplicated.
func (s *SubmissionService) Start(actor Actor, assessmentID string) (*models.Submission, error) {
	assessment, err := s.store.GetAssessment(assessmentID)
	if err != nil {
		return nil, err
	}
	if assessment == nil {
		return nil, NewNotFoundError("assessment not found")
	}
	supplier, err := s.store.GetSupplierByUser(actor.UserID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, NewForbiddenError("no supplier linked to this account")
	}
	if supplier.TenantID != assessment.TenantID {
		return nil, NewForbiddenError("assessment belongs to another vendor")
	}

	existing, err := s.store.FindOpenSubmission(assessmentID, actor.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	questions, err := s.store.ListQuestions(assessmentID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	sub := &models.Submission{
		ID:             s.idGen(),
		AssessmentID:   assessmentID,
		SupplierID:     supplier.ID,
		UserID:         actor.UserID,
		TenantID:       assessment.TenantID,
		Status:         StatusDraft,
		TotalQuestions: len(questions),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.store.InsertSubmission(sub); err != nil {
		return nil, err
	}
	s.store.AddAudit(AuditEntry{Time: now, Actor: actor.UserID, Action: "submission.start", Target: sub.ID})
	return sub, nil
}

// SaveAnswerRequest carries one answer upsert.
type SaveAnswerRequest struct {
	SubmissionID string
	QuestionID   string
	Value        string
	Comments     string
	Evidence     string
}

// SaveAnswer upserts the answer and scores it against the question's
// current max score. Progress counters move only when the question is
// answered for the first time.
func (s *SubmissionService) SaveAnswer(actor Actor, req SaveAnswerRequest) (*models.Answer, error) {
	value := NormalizeAnswerValue(req.Value)
	if value == "" {
		return nil, NewInvalidError("unknown answer value")
	}

	var saved *models.Answer
	err := s.store.InTx(func(tx SubmissionStore) error {
		sub, err := tx.GetSubmission(req.SubmissionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return NewNotFoundError("submission not found")
		}
		if err := requireSubmitter(actor, sub); err != nil {
			return err
		}
		if !StatusEditable(sub.Status) {
			return NewInvalidTransitionError("save answer", sub.Status)
		}
		question, err := tx.GetQuestion(req.QuestionID)
		if err != nil {
			return err
		}
		if question == nil {
			return NewNotFoundError("question not found")
		}
		if question.AssessmentID != sub.AssessmentID {
			return NewInvalidError("question belongs to another assessment")
		}

		now := s.now()
		comments := strings.TrimSpace(req.Comments)
		evidence := strings.TrimSpace(req.Evidence)
		score := AnswerScore(value, HasContent(comments), HasContent(evidence), question.MaxScore)

		existing, err := tx.GetAnswer(sub.ID, question.ID)
		if err != nil {
			return err
		}
		if existing == nil {
			answer := &models.Answer{
				ID:             s.idGen(),
				SubmissionID:   sub.ID,
				QuestionID:     question.ID,
				Value:          value,
				Comments:       comments,
				Evidence:       evidence,
				EvidenceStatus: evidenceStatusFor(evidence, ""),
				Score:          score,
				MaxScore:       question.MaxScore,
				CreatedAt:      now,
				UpdatedAt:      now,
			}
			if err := tx.InsertAnswer(answer); err != nil {
				return err
			}
			sub.AnsweredQuestions++
			sub.Progress = progressPercent(sub.AnsweredQuestions, sub.TotalQuestions)
			sub.UpdatedAt = now
			if err := tx.UpdateSubmission(sub); err != nil {
				return err
			}
			saved = answer
			return nil
		}

		existing.Value = value
		existing.Comments = comments
		existing.Evidence = evidence
		existing.EvidenceStatus = evidenceStatusFor(evidence, existing.EvidenceStatus)
		existing.Score = score
		existing.MaxScore = question.MaxScore
		existing.UpdatedAt = now
		if err := tx.UpdateAnswer(existing); err != nil {
			return err
		}
		saved = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return saved, nil
}

// Submit recomputes the full score set over every answer, classifies
// the result, moves the submission to PENDING and writes the interim
// risk profile onto the supplier. A resubmission discards the previous
// review verdict. Everything runs in one transaction.
func (s *SubmissionService) Submit(actor Actor, submissionID string) (*models.Submission, error) {
	var (
		sub      *models.Submission
		supplier *models.Supplier
	)
	err := s.store.InTx(func(tx SubmissionStore) error {
		var err error
		sub, err = tx.GetSubmission(submissionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return NewNotFoundError("submission not found")
		}
		if err := requireSubmitter(actor, sub); err != nil {
			return err
		}
		if !StatusEditable(sub.Status) {
			return NewInvalidTransitionError("submit", sub.Status)
		}
		if sub.AnsweredQuestions < sub.TotalQuestions {
			return NewIncompleteError(sub.AnsweredQuestions, sub.TotalQuestions)
		}

		questions, err := tx.ListQuestions(sub.AssessmentID)
		if err != nil {
			return err
		}
		categories := make(map[string]string, len(questions))
		for _, q := range questions {
			categories[q.ID] = q.BIVCategory
		}
		answers, err := tx.ListAnswers(sub.ID)
		if err != nil {
			return err
		}
		scored := make([]ScoredAnswer, 0, len(answers))
		for _, a := range answers {
			scored = append(scored, ScoredAnswer{
				Category: categories[a.QuestionID],
				Score:    a.Score,
				MaxScore: a.MaxScore,
			})
		}
		agg := s.policy.Aggregate(scored)
		level := s.policy.Classify(agg.OverallScore)

		now := s.now()
		sub.Score = agg.OverallScore
		sub.BusinessScore = agg.BusinessScore
		sub.IntegrityScore = agg.IntegrityScore
		sub.AvailabilityScore = agg.AvailabilityScore
		sub.BIVScore = agg.BIVScore
		sub.RiskLevel = level
		sub.RiskScore = RiskScore(level)
		sub.Status = StatusPending
		sub.ReviewedAt = nil
		sub.ReviewedBy = ""
		sub.ReviewComments = ""
		sub.UpdatedAt = now
		if err := tx.UpdateSubmission(sub); err != nil {
			return err
		}

		// Interim signal, pre-review: the rolling profile takes the raw
		// aggregate until a reviewer confirms or decays it.
		supplier, err = tx.GetSupplier(sub.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return NewNotFoundError("supplier not found")
		}
		supplier.OverallScore = agg.OverallScore
		supplier.BIVScore = agg.BIVScore
		supplier.BusinessScore = agg.BusinessScore
		supplier.IntegrityScore = agg.IntegrityScore
		supplier.AvailabilityScore = agg.AvailabilityScore
		supplier.RiskLevel = level
		supplier.NIS2Compliant = s.policy.NIS2Compliant(agg.BIVScore)
		if err := tx.UpdateSupplierProfile(supplier); err != nil {
			return err
		}
		tx.AddAudit(AuditEntry{Time: now, Actor: actor.UserID, Action: "submission.submit", Target: sub.ID})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.AssessmentSubmitted(SubmittedEvent{
			SubmissionID: sub.ID,
			AssessmentID: sub.AssessmentID,
			SupplierID:   sub.SupplierID,
			TenantID:     sub.TenantID,
			OverallScore: sub.Score,
			RiskLevel:    sub.RiskLevel,
		})
	}
	return sub, nil
}

// requireSubmitter allows the owning supplier user (or an admin)
// through. Authorization middleware cannot know this relationship.
func requireSubmitter(actor Actor, sub *models.Submission) error {
	if actor.Role == RoleAdmin {
		return nil
	}
	if sub.UserID != actor.UserID {
		return NewForbiddenError("not the submission owner")
	}
	return nil
}

func progressPercent(answered, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(answered) / float64(total)))
}

// evidenceStatusFor keeps a reviewer's APPROVED verdict sticky; any
// other prior state follows the presence of the evidence reference.
func evidenceStatusFor(evidence, prior string) string {
	if prior == EvidenceApproved {
		return prior
	}
	if HasContent(evidence) {
		return EvidenceSubmitted
	}
	return EvidencePending
}
