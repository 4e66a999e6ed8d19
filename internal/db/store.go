package db

import (
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/vendorguard/vendorguard/internal/models"
	"github.com/vendorguard/vendorguard/internal/services"
)

// Store is the sqlx-backed persistence layer. One Store satisfies every
// service store interface. Queries use ? placeholders and are rebound
// per driver, so the same Store runs on sqlite and postgres.
type Store struct {
	db *sqlx.DB // nil when the store is bound to a transaction
	q  sqlx.Ext
}

func New(dbx *sqlx.DB) *Store {
	return &Store{db: dbx, q: dbx}
}

// InTx runs fn against a transaction-bound copy of the store. A nested
// call reuses the surrounding transaction.
func (s *Store) InTx(fn func(services.SubmissionStore) error) error {
	if s.db == nil {
		return fn(s)
	}
	tx, err := s.db.Beginx()
	if err != nil {
		return err
	}
	if err := fn(&Store{q: tx}); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func (s *Store) get(dest interface{}, query string, args ...interface{}) error {
	err := sqlx.Get(s.q, dest, s.q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return sql.ErrNoRows
	}
	return err
}

func (s *Store) exec(query string, args ...interface{}) (sql.Result, error) {
	return s.q.Exec(s.q.Rebind(query), args...)
}

// Tenants and users.

func (s *Store) AddTenant(t *models.Tenant) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO tenants (id, name, created_at) VALUES (:id, :name, :created_at)`, t)
	return err
}

func (s *Store) AddUser(u *models.User) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO users (id, tenant_id, email, pass_hash, role, created_at)
		 VALUES (:id, :tenant_id, :email, :pass_hash, :role, :created_at)`, u)
	return err
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	var u models.User
	err := s.get(&u, `SELECT * FROM users WHERE email = ?`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) ListTenantUserIDs(tenantID string, roles []string) ([]string, error) {
	query, args, err := sqlx.In(
		`SELECT id FROM users WHERE tenant_id = ? AND role IN (?)`, tenantID, roles)
	if err != nil {
		return nil, err
	}
	var ids []string
	if err := sqlx.Select(s.q, &ids, s.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return ids, nil
}

// Suppliers and invitations.

func (s *Store) InsertSupplier(sup *models.Supplier) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO suppliers (id, tenant_id, user_id, name, contact_email,
		   overall_score, biv_score, business_score, integrity_score, availability_score,
		   risk_level, nis2_compliant, last_assessment_date, created_at)
		 VALUES (:id, :tenant_id, :user_id, :name, :contact_email,
		   :overall_score, :biv_score, :business_score, :integrity_score, :availability_score,
		   :risk_level, :nis2_compliant, :last_assessment_date, :created_at)`, sup)
	return err
}

func (s *Store) GetSupplier(id string) (*models.Supplier, error) {
	var sup models.Supplier
	err := s.get(&sup, `SELECT * FROM suppliers WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *Store) GetSupplierByUser(userID string) (*models.Supplier, error) {
	var sup models.Supplier
	err := s.get(&sup, `SELECT * FROM suppliers WHERE user_id = ?`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sup, nil
}

func (s *Store) ListSuppliersByTenant(tenantID string) ([]*models.Supplier, error) {
	var out []*models.Supplier
	err := sqlx.Select(s.q, &out,
		s.q.Rebind(`SELECT * FROM suppliers WHERE tenant_id = ? ORDER BY created_at, id`), tenantID)
	return out, err
}

func (s *Store) BindSupplierUser(supplierID, userID string) error {
	_, err := s.exec(`UPDATE suppliers SET user_id = ? WHERE id = ?`, userID, supplierID)
	return err
}

// UpdateSupplierProfile rewrites the rolling risk profile only; name
// and contact fields are left alone.
func (s *Store) UpdateSupplierProfile(sup *models.Supplier) error {
	_, err := sqlx.NamedExec(s.q,
		`UPDATE suppliers SET
		   overall_score = :overall_score, biv_score = :biv_score,
		   business_score = :business_score, integrity_score = :integrity_score,
		   availability_score = :availability_score, risk_level = :risk_level,
		   nis2_compliant = :nis2_compliant, last_assessment_date = :last_assessment_date
		 WHERE id = :id`, sup)
	return err
}

func (s *Store) InsertInvitation(inv *models.Invitation) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO invitations (id, tenant_id, supplier_id, email, token, accepted_at, created_at)
		 VALUES (:id, :tenant_id, :supplier_id, :email, :token, :accepted_at, :created_at)`, inv)
	return err
}

func (s *Store) GetInvitationByToken(token string) (*models.Invitation, error) {
	var inv models.Invitation
	err := s.get(&inv, `SELECT * FROM invitations WHERE token = ?`, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (s *Store) MarkInvitationAccepted(id string, at time.Time) error {
	_, err := s.exec(`UPDATE invitations SET accepted_at = ? WHERE id = ?`, at, id)
	return err
}

// Assessments and questions.

func (s *Store) InsertAssessment(a *models.Assessment) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO assessments (id, tenant_id, name, description, created_at)
		 VALUES (:id, :tenant_id, :name, :description, :created_at)`, a)
	return err
}

func (s *Store) GetAssessment(id string) (*models.Assessment, error) {
	var a models.Assessment
	err := s.get(&a, `SELECT * FROM assessments WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAssessmentsByTenant(tenantID string) ([]*models.Assessment, error) {
	var out []*models.Assessment
	err := sqlx.Select(s.q, &out,
		s.q.Rebind(`SELECT * FROM assessments WHERE tenant_id = ? ORDER BY created_at, id`), tenantID)
	return out, err
}

func (s *Store) InsertQuestion(q *models.Question) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO questions (id, assessment_id, text, biv_category, max_score,
		   evidence_required, position, created_at)
		 VALUES (:id, :assessment_id, :text, :biv_category, :max_score,
		   :evidence_required, :position, :created_at)`, q)
	return err
}

func (s *Store) GetQuestion(id string) (*models.Question, error) {
	var q models.Question
	err := s.get(&q, `SELECT * FROM questions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &q, nil
}

func (s *Store) ListQuestions(assessmentID string) ([]*models.Question, error) {
	var out []*models.Question
	err := sqlx.Select(s.q, &out,
		s.q.Rebind(`SELECT * FROM questions WHERE assessment_id = ? ORDER BY position, id`), assessmentID)
	return out, err
}

// Submissions and answers.

func (s *Store) InsertSubmission(sub *models.Submission) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO submissions (id, assessment_id, supplier_id, user_id, tenant_id, status,
		   total_questions, answered_questions, progress, score,
		   business_score, integrity_score, availability_score, biv_score,
		   risk_level, risk_score, reviewed_at, reviewed_by, review_comments,
		   created_at, updated_at)
		 VALUES (:id, :assessment_id, :supplier_id, :user_id, :tenant_id, :status,
		   :total_questions, :answered_questions, :progress, :score,
		   :business_score, :integrity_score, :availability_score, :biv_score,
		   :risk_level, :risk_score, :reviewed_at, :reviewed_by, :review_comments,
		   :created_at, :updated_at)`, sub)
	return err
}

func (s *Store) UpdateSubmission(sub *models.Submission) error {
	_, err := sqlx.NamedExec(s.q,
		`UPDATE submissions SET status = :status,
		   total_questions = :total_questions, answered_questions = :answered_questions,
		   progress = :progress, score = :score,
		   business_score = :business_score, integrity_score = :integrity_score,
		   availability_score = :availability_score, biv_score = :biv_score,
		   risk_level = :risk_level, risk_score = :risk_score,
		   reviewed_at = :reviewed_at, reviewed_by = :reviewed_by,
		   review_comments = :review_comments, updated_at = :updated_at
		 WHERE id = :id`, sub)
	return err
}

func (s *Store) GetSubmission(id string) (*models.Submission, error) {
	var sub models.Submission
	err := s.get(&sub, `SELECT * FROM submissions WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) FindOpenSubmission(assessmentID, userID string) (*models.Submission, error) {
	open := []string{
		services.StatusDraft, services.StatusPending, services.StatusSubmitted,
		services.StatusUnderReview, services.StatusRequiresAction,
	}
	query, args, err := sqlx.In(
		`SELECT * FROM submissions WHERE assessment_id = ? AND user_id = ? AND status IN (?)
		 ORDER BY created_at DESC LIMIT 1`, assessmentID, userID, open)
	if err != nil {
		return nil, err
	}
	var sub models.Submission
	err = sqlx.Get(s.q, &sub, s.q.Rebind(query), args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

func (s *Store) ListSubmissionsByTenant(tenantID string) ([]*models.Submission, error) {
	var out []*models.Submission
	err := sqlx.Select(s.q, &out,
		s.q.Rebind(`SELECT * FROM submissions WHERE tenant_id = ? ORDER BY created_at, id`), tenantID)
	return out, err
}

func (s *Store) ListStaleSubmissions(statuses []string, before time.Time) ([]*models.Submission, error) {
	query, args, err := sqlx.In(
		`SELECT * FROM submissions WHERE status IN (?) AND updated_at < ? ORDER BY updated_at`,
		statuses, before)
	if err != nil {
		return nil, err
	}
	var out []*models.Submission
	if err := sqlx.Select(s.q, &out, s.q.Rebind(query), args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) InsertAnswer(a *models.Answer) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO answers (id, submission_id, question_id, value, comments, evidence,
		   evidence_status, score, max_score, created_at, updated_at)
		 VALUES (:id, :submission_id, :question_id, :value, :comments, :evidence,
		   :evidence_status, :score, :max_score, :created_at, :updated_at)`, a)
	return err
}

func (s *Store) UpdateAnswer(a *models.Answer) error {
	_, err := sqlx.NamedExec(s.q,
		`UPDATE answers SET value = :value, comments = :comments, evidence = :evidence,
		   evidence_status = :evidence_status, score = :score, max_score = :max_score,
		   updated_at = :updated_at
		 WHERE id = :id`, a)
	return err
}

func (s *Store) GetAnswer(submissionID, questionID string) (*models.Answer, error) {
	var a models.Answer
	err := s.get(&a, `SELECT * FROM answers WHERE submission_id = ? AND question_id = ?`,
		submissionID, questionID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) ListAnswers(submissionID string) ([]*models.Answer, error) {
	var out []*models.Answer
	err := sqlx.Select(s.q, &out,
		s.q.Rebind(`SELECT * FROM answers WHERE submission_id = ? ORDER BY created_at, id`), submissionID)
	return out, err
}

// Notifications.

func (s *Store) InsertNotification(n *models.Notification) error {
	_, err := sqlx.NamedExec(s.q,
		`INSERT INTO notifications (id, user_id, type, title, body, ref_id, read, created_at)
		 VALUES (:id, :user_id, :type, :title, :body, :ref_id, :read, :created_at)`, n)
	return err
}

func (s *Store) ListNotificationsByUser(userID string, unreadOnly bool) ([]*models.Notification, error) {
	query := `SELECT * FROM notifications WHERE user_id = ?`
	if unreadOnly {
		query += ` AND read = FALSE`
	}
	query += ` ORDER BY created_at DESC, id`
	var out []*models.Notification
	err := sqlx.Select(s.q, &out, s.q.Rebind(query), userID)
	return out, err
}

func (s *Store) MarkNotificationRead(id, userID string) (bool, error) {
	res, err := s.exec(`UPDATE notifications SET read = TRUE WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// AddAudit records who did what. Audit writes never fail the calling
// operation; errors are logged and dropped.
func (s *Store) AddAudit(e services.AuditEntry) {
	_, err := s.exec(
		`INSERT INTO audit_log (time, actor, action, target, note) VALUES (?, ?, ?, ?, ?)`,
		e.Time, e.Actor, e.Action, e.Target, e.Note)
	if err != nil {
		log.Printf("audit write failed (%s %s): %v", e.Action, e.Target, err)
	}
}
