package db

import (
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/vendorguard/vendorguard/internal/models"
	"github.com/vendorguard/vendorguard/internal/services"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbx, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { dbx.Close() })
	require.NoError(t, RunMigrations(dbx, "sqlite3"))
	return New(dbx)
}

func ts(s string) time.Time {
	v, err := time.Parse(time.RFC3339, s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestUserRoundTrip(t *testing.T) {
	st := newTestStore(t)

	require.NoError(t, st.AddTenant(&models.Tenant{ID: "t1", Name: "Acme", CreatedAt: ts("2026-01-01T00:00:00Z")}))
	u := &models.User{ID: "u1", TenantID: "t1", Email: "a@acme.test", PassHash: []byte("hash"), Role: services.RoleVendor, CreatedAt: ts("2026-01-01T00:00:00Z")}
	require.NoError(t, st.AddUser(u))

	got, err := st.FindUserByEmail("a@acme.test")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, "u1", got.ID)
	require.Equal(t, services.RoleVendor, got.Role)
	require.Equal(t, []byte("hash"), got.PassHash)

	missing, err := st.FindUserByEmail("nobody@acme.test")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestListTenantUserIDs(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-01-01T00:00:00Z")

	for _, u := range []*models.User{
		{ID: "u1", TenantID: "t1", Email: "v@x.test", PassHash: []byte("h"), Role: services.RoleVendor, CreatedAt: now},
		{ID: "u2", TenantID: "t1", Email: "a@x.test", PassHash: []byte("h"), Role: services.RoleAdmin, CreatedAt: now},
		{ID: "u3", TenantID: "t1", Email: "s@x.test", PassHash: []byte("h"), Role: services.RoleSupplier, CreatedAt: now},
		{ID: "u4", TenantID: "t2", Email: "v2@y.test", PassHash: []byte("h"), Role: services.RoleVendor, CreatedAt: now},
	} {
		require.NoError(t, st.AddUser(u))
	}

	ids, err := st.ListTenantUserIDs("t1", []string{services.RoleVendor, services.RoleAdmin})
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"u1", "u2"}, ids)
}

func TestSupplierProfileAndBinding(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-02-01T00:00:00Z")

	sup := &models.Supplier{ID: "s1", TenantID: "t1", Name: "Parts Co", ContactEmail: "ops@parts.test", CreatedAt: now}
	require.NoError(t, st.InsertSupplier(sup))

	last := ts("2026-02-10T00:00:00Z")
	sup.OverallScore = 72.25
	sup.BIVScore = 40
	sup.BusinessScore = 100
	sup.IntegrityScore = 20
	sup.RiskLevel = services.RiskHigh
	sup.NIS2Compliant = false
	sup.LastAssessmentDate = &last
	require.NoError(t, st.UpdateSupplierProfile(sup))

	got, err := st.GetSupplier("s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, 72.25, got.OverallScore)
	require.Equal(t, services.RiskHigh, got.RiskLevel)
	require.NotNil(t, got.LastAssessmentDate)
	require.Equal(t, "Parts Co", got.Name)

	require.NoError(t, st.BindSupplierUser("s1", "u9"))
	byUser, err := st.GetSupplierByUser("u9")
	require.NoError(t, err)
	require.NotNil(t, byUser)
	require.Equal(t, "s1", byUser.ID)

	none, err := st.GetSupplierByUser("stranger")
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestInvitationRoundTrip(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-02-01T00:00:00Z")

	inv := &models.Invitation{ID: "i1", TenantID: "t1", SupplierID: "s1", Email: "ops@parts.test", Token: "tok123", CreatedAt: now}
	require.NoError(t, st.InsertInvitation(inv))

	got, err := st.GetInvitationByToken("tok123")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Nil(t, got.AcceptedAt)

	require.NoError(t, st.MarkInvitationAccepted("i1", now.Add(time.Hour)))
	got, err = st.GetInvitationByToken("tok123")
	require.NoError(t, err)
	require.NotNil(t, got.AcceptedAt)

	none, err := st.GetInvitationByToken("bogus")
	require.NoError(t, err)
	require.Nil(t, none)
}

func TestQuestionOrdering(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-03-01T00:00:00Z")

	require.NoError(t, st.InsertAssessment(&models.Assessment{ID: "a1", TenantID: "t1", Name: "Annual", CreatedAt: now}))
	require.NoError(t, st.InsertQuestion(&models.Question{ID: "q2", AssessmentID: "a1", Text: "Second", MaxScore: 10, Position: 2, CreatedAt: now}))
	require.NoError(t, st.InsertQuestion(&models.Question{ID: "q1", AssessmentID: "a1", Text: "First", BIVCategory: services.CategoryBusiness, MaxScore: 5, Position: 1, CreatedAt: now}))

	qs, err := st.ListQuestions("a1")
	require.NoError(t, err)
	require.Len(t, qs, 2)
	require.Equal(t, "q1", qs[0].ID)
	require.Equal(t, "q2", qs[1].ID)
	require.Equal(t, services.CategoryBusiness, qs[0].BIVCategory)
}

func TestSubmissionLifecycle(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-03-01T00:00:00Z")

	sub := &models.Submission{
		ID: "sub1", AssessmentID: "a1", SupplierID: "s1", UserID: "u1", TenantID: "t1",
		Status: services.StatusDraft, TotalQuestions: 2,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.InsertSubmission(sub))

	open, err := st.FindOpenSubmission("a1", "u1")
	require.NoError(t, err)
	require.NotNil(t, open)
	require.Equal(t, "sub1", open.ID)

	reviewed := now.Add(time.Hour)
	sub.Status = services.StatusApproved
	sub.ReviewedAt = &reviewed
	sub.ReviewedBy = "u2"
	sub.ReviewComments = "fine"
	sub.UpdatedAt = reviewed
	require.NoError(t, st.UpdateSubmission(sub))

	open, err = st.FindOpenSubmission("a1", "u1")
	require.NoError(t, err)
	require.Nil(t, open)

	got, err := st.GetSubmission("sub1")
	require.NoError(t, err)
	require.Equal(t, services.StatusApproved, got.Status)
	require.NotNil(t, got.ReviewedAt)
	require.Equal(t, "u2", got.ReviewedBy)
}

func TestAnswerUpsert(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-03-01T00:00:00Z")

	a := &models.Answer{
		ID: "ans1", SubmissionID: "sub1", QuestionID: "q1",
		Value: services.AnswerYes, EvidenceStatus: services.EvidencePending,
		Score: 5, MaxScore: 10, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, st.InsertAnswer(a))

	a.Value = services.AnswerNo
	a.Score = 2
	a.UpdatedAt = now.Add(time.Minute)
	require.NoError(t, st.UpdateAnswer(a))

	got, err := st.GetAnswer("sub1", "q1")
	require.NoError(t, err)
	require.NotNil(t, got)
	require.Equal(t, services.AnswerNo, got.Value)
	require.Equal(t, 2.0, got.Score)

	none, err := st.GetAnswer("sub1", "q9")
	require.NoError(t, err)
	require.Nil(t, none)

	all, err := st.ListAnswers("sub1")
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestListStaleSubmissions(t *testing.T) {
	st := newTestStore(t)
	old := ts("2026-01-01T00:00:00Z")
	fresh := ts("2026-03-01T00:00:00Z")

	for _, sub := range []*models.Submission{
		{ID: "old", AssessmentID: "a1", SupplierID: "s1", UserID: "u1", TenantID: "t1", Status: services.StatusPending, CreatedAt: old, UpdatedAt: old},
		{ID: "fresh", AssessmentID: "a1", SupplierID: "s2", UserID: "u2", TenantID: "t1", Status: services.StatusPending, CreatedAt: fresh, UpdatedAt: fresh},
		{ID: "done", AssessmentID: "a1", SupplierID: "s3", UserID: "u3", TenantID: "t1", Status: services.StatusApproved, CreatedAt: old, UpdatedAt: old},
	} {
		require.NoError(t, st.InsertSubmission(sub))
	}

	stale, err := st.ListStaleSubmissions([]string{services.StatusPending}, ts("2026-02-01T00:00:00Z"))
	require.NoError(t, err)
	require.Len(t, stale, 1)
	require.Equal(t, "old", stale[0].ID)
}

func TestNotifications(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-03-01T00:00:00Z")

	require.NoError(t, st.InsertNotification(&models.Notification{ID: "n1", UserID: "u1", Type: services.NotifySubmitted, Title: "New submission", CreatedAt: now}))
	require.NoError(t, st.InsertNotification(&models.Notification{ID: "n2", UserID: "u1", Type: services.NotifyReviewed, Title: "Reviewed", CreatedAt: now.Add(time.Minute)}))

	all, err := st.ListNotificationsByUser("u1", false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	require.Equal(t, "n2", all[0].ID) // newest first

	ok, err := st.MarkNotificationRead("n1", "u1")
	require.NoError(t, err)
	require.True(t, ok)

	unread, err := st.ListNotificationsByUser("u1", true)
	require.NoError(t, err)
	require.Len(t, unread, 1)
	require.Equal(t, "n2", unread[0].ID)

	ok, err = st.MarkNotificationRead("n1", "someone-else")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestInTxRollsBackOnError(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-03-01T00:00:00Z")

	boom := errors.New("boom")
	err := st.InTx(func(tx services.SubmissionStore) error {
		sub := &models.Submission{ID: "sub1", AssessmentID: "a1", SupplierID: "s1", UserID: "u1", TenantID: "t1", Status: services.StatusDraft, CreatedAt: now, UpdatedAt: now}
		if err := tx.InsertSubmission(sub); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	got, err := st.GetSubmission("sub1")
	require.NoError(t, err)
	require.Nil(t, got)
}

func TestInTxCommits(t *testing.T) {
	st := newTestStore(t)
	now := ts("2026-03-01T00:00:00Z")

	err := st.InTx(func(tx services.SubmissionStore) error {
		return tx.InsertSubmission(&models.Submission{ID: "sub1", AssessmentID: "a1", SupplierID: "s1", UserID: "u1", TenantID: "t1", Status: services.StatusDraft, CreatedAt: now, UpdatedAt: now})
	})
	require.NoError(t, err)

	got, err := st.GetSubmission("sub1")
	require.NoError(t, err)
	require.NotNil(t, got)
}
