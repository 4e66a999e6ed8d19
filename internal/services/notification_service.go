package services

import (
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/vendorguard/vendorguard/internal/models"
)

type NotificationStore interface {
	InsertNotification(n *models.Notification) error
	ListNotificationsByUser(userID string, unreadOnly bool) ([]*models.Notification, error)
	MarkNotificationRead(id, userID string) (bool, error)
	ListTenantUserIDs(tenantID string, roles []string) ([]string, error)
	ListStaleSubmissions(statuses []string, before time.Time) ([]*models.Submission, error)
	GetSupplier(id string) (*models.Supplier, error)
}

// Notification types.
const (
	NotifySubmitted = "ASSESSMENT_SUBMITTED"
	NotifyReviewed  = "ASSESSMENT_REVIEWED"
	NotifyReminder  = "REVIEW_REMINDER"
)

// NotificationService fans lifecycle events out as in-app
// notifications. Failures are logged and swallowed: delivery must
// never abort the operation that produced the event.
type NotificationService struct {
	store NotificationStore
	now   func() time.Time
	idGen func() string
}

func NewNotificationService(store NotificationStore) *NotificationService {
	return &NotificationService{
		store: store,
		now:   func() time.Time { return time.Now().UTC() },
		idGen: uuid.NewString,
	}
}

var _ Notifier = (*NotificationService)(nil)

// AssessmentSubmitted notifies the vendor-side users of the supplier's
// tenant that a submission awaits review.
func (s *NotificationService) AssessmentSubmitted(ev SubmittedEvent) {
	supplierName := ev.SupplierID
	if sup, err := s.store.GetSupplier(ev.SupplierID); err == nil && sup != nil {
		supplierName = sup.Name
	}
	uids, err := s.store.ListTenantUserIDs(ev.TenantID, []string{RoleVendor, RoleAdmin})
	if err != nil {
		log.Printf("notifications: list tenant users: %v", err)
		return
	}
	body := fmt.Sprintf("%s submitted an assessment: score %.2f, risk %s", supplierName, ev.OverallScore, ev.RiskLevel)
	for _, uid := range uids {
		s.push(&models.Notification{
			UserID: uid,
			Type:   NotifySubmitted,
			Title:  "Assessment submitted",
			Body:   body,
			RefID:  ev.SubmissionID,
		})
	}
}

// AssessmentReviewed notifies the submitter of the verdict.
func (s *NotificationService) AssessmentReviewed(ev ReviewedEvent) {
	body := "Your assessment was reviewed: " + ev.Status
	if HasContent(ev.ReviewComments) {
		body += ": " + ev.ReviewComments
	}
	s.push(&models.Notification{
		UserID: ev.SubmitterID,
		Type:   NotifyReviewed,
		Title:  "Assessment reviewed",
		Body:   body,
		RefID:  ev.SubmissionID,
	})
}

func (s *NotificationService) push(n *models.Notification) {
	n.ID = s.idGen()
	n.CreatedAt = s.now()
	if err := s.store.InsertNotification(n); err != nil {
		log.Printf("notifications: insert %s for %s: %v", n.Type, n.UserID, err)
	}
}

func (s *NotificationService) List(actor Actor, unreadOnly bool) ([]*models.Notification, error) {
	return s.store.ListNotificationsByUser(actor.UserID, unreadOnly)
}

func (s *NotificationService) MarkRead(actor Actor, id string) error {
	ok, err := s.store.MarkNotificationRead(id, actor.UserID)
	if err != nil {
		return err
	}
	if !ok {
		return NewNotFoundError("notification not found")
	}
	return nil
}

// SweepStaleSubmissions reminds reviewers about submissions that have
// been awaiting review longer than olderThan. Read-only with respect
// to submissions and scores. Returns the number of reminders sent.
func (s *NotificationService) SweepStaleSubmissions(olderThan time.Duration) (int, error) {
	cutoff := s.now().Add(-olderThan)
	stale, err := s.store.ListStaleSubmissions(
		[]string{StatusPending, StatusSubmitted, StatusUnderReview}, cutoff)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, sub := range stale {
		uids, err := s.store.ListTenantUserIDs(sub.TenantID, []string{RoleVendor, RoleAdmin})
		if err != nil {
			log.Printf("notifications: sweep list tenant users: %v", err)
			continue
		}
		body := fmt.Sprintf("A submission has been awaiting review since %s", sub.UpdatedAt.Format(time.RFC3339))
		for _, uid := range uids {
			s.push(&models.Notification{
				UserID: uid,
				Type:   NotifyReminder,
				Title:  "Review reminder",
				Body:   body,
				RefID:  sub.ID,
			})
			sent++
		}
	}
	return sent, nil
}
