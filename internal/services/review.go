package services

import (
	"github.com/vendorguard/vendorguard/internal/models"
)

// ReviewRequest carries a reviewer verdict.
type ReviewRequest struct {
	SubmissionID string
	Status       string
	Comments     string
}

// Review records a reviewer verdict and adjusts the supplier's rolling
// risk profile in the same transaction. APPROVED overwrites the
// profile with the submission's scores; REJECTED and REQUIRES_ACTION
// decay the persisted profile so repeated rejections compound.
func (s *SubmissionService) Review(actor Actor, req ReviewRequest) (*models.Submission, error) {
	if !ValidVerdict(req.Status) {
		return nil, NewInvalidError("verdict must be APPROVED, REJECTED or REQUIRES_ACTION")
	}

	var sub *models.Submission
	err := s.store.InTx(func(tx SubmissionStore) error {
		var err error
		sub, err = tx.GetSubmission(req.SubmissionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return NewNotFoundError("submission not found")
		}
		supplier, err := tx.GetSupplier(sub.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return NewNotFoundError("supplier not found")
		}
		if err := requireReviewer(actor, supplier); err != nil {
			return err
		}
		if !StatusReviewable(sub.Status) {
			return NewInvalidTransitionError("review", sub.Status)
		}

		now := s.now()
		sub.Status = req.Status
		sub.ReviewedAt = &now
		sub.ReviewedBy = actor.UserID
		sub.ReviewComments = req.Comments
		sub.UpdatedAt = now
		if err := tx.UpdateSubmission(sub); err != nil {
			return err
		}

		s.adjustProfile(supplier, sub, req.Status)
		supplier.LastAssessmentDate = &now
		if err := tx.UpdateSupplierProfile(supplier); err != nil {
			return err
		}
		tx.AddAudit(AuditEntry{Time: now, Actor: actor.UserID, Action: "submission.review", Target: sub.ID, Note: req.Status})
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.notifier != nil {
		s.notifier.AssessmentReviewed(ReviewedEvent{
			SubmissionID:   sub.ID,
			SupplierID:     sub.SupplierID,
			SubmitterID:    sub.UserID,
			Status:         sub.Status,
			ReviewComments: sub.ReviewComments,
		})
	}
	return sub, nil
}

// adjustProfile applies the review outcome to the rolling profile.
// The decay multiplies the supplier's current persisted values, not
// the submission's fresh ones; that is what makes repeated rejections
// cumulative.
func (s *SubmissionService) adjustProfile(supplier *models.Supplier, sub *models.Submission, verdict string) {
	if verdict == StatusApproved {
		supplier.OverallScore = sub.Score
		supplier.BIVScore = sub.BIVScore
		supplier.BusinessScore = sub.BusinessScore
		supplier.IntegrityScore = sub.IntegrityScore
		supplier.AvailabilityScore = sub.AvailabilityScore
		supplier.RiskLevel = s.policy.Classify(supplier.OverallScore)
		supplier.NIS2Compliant = s.policy.NIS2Compliant(supplier.BIVScore)
		return
	}
	supplier.OverallScore = s.policy.Decay(supplier.OverallScore)
	supplier.BIVScore = s.policy.Decay(supplier.BIVScore)
	supplier.BusinessScore = s.policy.Decay(supplier.BusinessScore)
	supplier.IntegrityScore = s.policy.Decay(supplier.IntegrityScore)
	supplier.AvailabilityScore = s.policy.Decay(supplier.AvailabilityScore)
	supplier.RiskLevel = s.policy.ClassifyDecayed(supplier.OverallScore)
	supplier.NIS2Compliant = s.policy.NIS2Compliant(supplier.BIVScore)
}

// EvidenceStatusRequest marks one answer's evidence during review.
type EvidenceStatusRequest struct {
	SubmissionID string
	QuestionID   string
	Status       string
}

// SetEvidenceStatus lets a reviewer mutate an answer's evidence state
// while the submission awaits review. This is the only answer field
// that stays writable once the submission leaves the editable set.
func (s *SubmissionService) SetEvidenceStatus(actor Actor, req EvidenceStatusRequest) (*models.Answer, error) {
	switch req.Status {
	case EvidenceApproved, EvidenceRejected, EvidenceRequested:
	default:
		return nil, NewInvalidError("evidence status must be APPROVED, REJECTED or REQUESTED")
	}

	var answer *models.Answer
	err := s.store.InTx(func(tx SubmissionStore) error {
		sub, err := tx.GetSubmission(req.SubmissionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return NewNotFoundError("submission not found")
		}
		supplier, err := tx.GetSupplier(sub.SupplierID)
		if err != nil {
			return err
		}
		if supplier == nil {
			return NewNotFoundError("supplier not found")
		}
		if err := requireReviewer(actor, supplier); err != nil {
			return err
		}
		if !StatusReviewable(sub.Status) {
			return NewInvalidTransitionError("evidence review", sub.Status)
		}
		answer, err = tx.GetAnswer(req.SubmissionID, req.QuestionID)
		if err != nil {
			return err
		}
		if answer == nil {
			return NewNotFoundError("answer not found")
		}
		answer.EvidenceStatus = req.Status
		answer.UpdatedAt = s.now()
		return tx.UpdateAnswer(answer)
	})
	if err != nil {
		return nil, err
	}
	return answer, nil
}

// requireReviewer allows vendor users of the tenant that owns the
// supplier, or an admin.
func requireReviewer(actor Actor, supplier *models.Supplier) error {
	if actor.Role == RoleAdmin {
		return nil
	}
	if actor.Role != RoleVendor || actor.TenantID != supplier.TenantID {
		return NewForbiddenError("not a reviewer for this supplier")
	}
	return nil
}
