package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"

	"github.com/vendorguard/vendorguard/internal/db"
	mw "github.com/vendorguard/vendorguard/internal/middleware"
	"github.com/vendorguard/vendorguard/internal/services"
)

func newTestHandler(t *testing.T) http.Handler {
	t.Helper()
	dbx, err := sqlx.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	dbx.SetMaxOpenConns(1)
	t.Cleanup(func() { dbx.Close() })
	require.NoError(t, db.RunMigrations(dbx, "sqlite3"))

	store := db.New(dbx)
	notifications := services.NewNotificationService(store)
	rt := &Router{
		Auth:          services.NewAuthService(store, mw.SignToken),
		Assessments:   services.NewAssessmentService(store),
		Suppliers:     services.NewSupplierService(store),
		Submissions:   services.NewSubmissionService(store, notifications, services.DefaultScoringPolicy()),
		Notifications: notifications,
		Export:        services.NewExportService(store),
		Analytics:     services.NewAnalyticsService(store),
	}
	return rt.Handler()
}

func doJSON(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rec.Body).Decode(v))
}

func registerVendor(t *testing.T, h http.Handler, email string) authResponse {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": email, "password": "secret123", "company_name": "Acme Corp",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var out authResponse
	decodeBody(t, rec, &out)
	return out
}

func TestRegisterAndLogin(t *testing.T) {
	h := newTestHandler(t)

	vendor := registerVendor(t, h, "owner@acme.test")
	require.NotEmpty(t, vendor.Token)
	require.Equal(t, services.RoleVendor, vendor.Role)

	rec := doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "owner@acme.test", "password": "secret123",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login authResponse
	decodeBody(t, rec, &login)
	require.Equal(t, vendor.UserID, login.UserID)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email": "owner@acme.test", "password": "wrong",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	h := newTestHandler(t)

	rec := doJSON(t, h, http.MethodGet, "/api/suppliers", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/analytics/summary", "bogus-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAssessmentWorkflow(t *testing.T) {
	h := newTestHandler(t)
	vendor := registerVendor(t, h, "owner@acme.test")

	// Build the questionnaire.
	rec := doJSON(t, h, http.MethodPost, "/api/assessments", vendor.Token, map[string]string{
		"name": "Annual Security Review",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var assessment struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &assessment)

	for i, q := range []map[string]interface{}{
		{"text": "Do you maintain an ISMS?", "biv_category": services.CategoryBusiness, "max_score": 10.0, "position": 1},
		{"text": "Is customer data encrypted at rest?", "biv_category": services.CategoryIntegrity, "max_score": 10.0, "position": 2, "evidence_required": true},
	} {
		rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/assessments/%s/questions", assessment.ID), vendor.Token, q)
		require.Equal(t, http.StatusCreated, rec.Code, "question %d: %s", i, rec.Body.String())
	}

	// Invite and onboard the supplier.
	rec = doJSON(t, h, http.MethodPost, "/api/suppliers", vendor.Token, map[string]string{
		"name": "Parts Co", "email": "ops@parts.test",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var invite struct {
		Supplier struct {
			ID string `json:"id"`
		} `json:"supplier"`
		Invitation struct {
			Token string `json:"token"`
		} `json:"invitation"`
	}
	decodeBody(t, rec, &invite)
	require.NotEmpty(t, invite.Invitation.Token)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ops@parts.test", "password": "secret123", "invite_token": invite.Invitation.Token,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var supplier authResponse
	decodeBody(t, rec, &supplier)
	require.Equal(t, services.RoleSupplier, supplier.Role)
	require.Equal(t, vendor.TenantID, supplier.TenantID)

	rec = doJSON(t, h, http.MethodPost, "/api/invitations/"+invite.Invitation.Token+"/accept", supplier.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Fill in and submit.
	rec = doJSON(t, h, http.MethodPost, fmt.Sprintf("/api/assessments/%s/submissions", assessment.ID), supplier.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var sub struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	decodeBody(t, rec, &sub)
	require.Equal(t, services.StatusDraft, sub.Status)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/api/assessments/%s/questions", assessment.ID), supplier.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var questions []struct {
		ID string `json:"id"`
	}
	decodeBody(t, rec, &questions)
	require.Len(t, questions, 2)

	// Submitting early is rejected with the remaining count.
	rec = doJSON(t, h, http.MethodPost, "/api/submissions/"+sub.ID+"/submit", supplier.Token, nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	for _, q := range questions {
		rec = doJSON(t, h, http.MethodPut, "/api/submissions/"+sub.ID+"/answers", supplier.Token, map[string]string{
			"question_id": q.ID, "value": "YES", "comments": "documented", "evidence": "https://evidence.test/report.pdf",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodPost, "/api/submissions/"+sub.ID+"/submit", supplier.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var submitted struct {
		Status    string  `json:"status"`
		Score     float64 `json:"score"`
		BIVScore  float64 `json:"biv_score"`
		RiskLevel string  `json:"risk_level"`
		RiskScore int     `json:"risk_score"`
	}
	decodeBody(t, rec, &submitted)
	require.Equal(t, services.StatusPending, submitted.Status)
	// Both answers full marks: raw 100%, scaled overall 90.
	require.InDelta(t, 90.0, submitted.Score, 1e-9)
	require.Equal(t, services.RiskLow, submitted.RiskLevel)
	require.Equal(t, 1, submitted.RiskScore)

	// Vendor reviews and the supplier profile updates.
	rec = doJSON(t, h, http.MethodPost, "/api/submissions/"+sub.ID+"/review", vendor.Token, map[string]string{
		"status": services.StatusApproved, "comments": "looks good",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/suppliers/"+invite.Supplier.ID, vendor.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var profile struct {
		OverallScore float64 `json:"overall_score"`
		RiskLevel    string  `json:"risk_level"`
	}
	decodeBody(t, rec, &profile)
	require.InDelta(t, 90.0, profile.OverallScore, 1e-9)
	require.Equal(t, services.RiskLow, profile.RiskLevel)

	// Review left a notification for the supplier user.
	rec = doJSON(t, h, http.MethodGet, "/api/notifications?unread=1", supplier.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var notes []struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	}
	decodeBody(t, rec, &notes)
	require.NotEmpty(t, notes)

	// Export and analytics are vendor-scoped.
	rec = doJSON(t, h, http.MethodGet, "/api/export/results", vendor.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	require.Contains(t, rec.Body.String(), "Parts Co")

	rec = doJSON(t, h, http.MethodGet, "/api/analytics/summary", vendor.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var summary struct {
		Suppliers int `json:"suppliers"`
		Assessed  int `json:"assessed"`
	}
	decodeBody(t, rec, &summary)
	require.Equal(t, 1, summary.Suppliers)
	require.Equal(t, 1, summary.Assessed)
}

func TestSupplierCannotReview(t *testing.T) {
	h := newTestHandler(t)
	vendor := registerVendor(t, h, "owner@acme.test")

	rec := doJSON(t, h, http.MethodPost, "/api/suppliers", vendor.Token, map[string]string{
		"name": "Parts Co", "email": "ops@parts.test",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var invite struct {
		Invitation struct {
			Token string `json:"token"`
		} `json:"invitation"`
	}
	decodeBody(t, rec, &invite)

	rec = doJSON(t, h, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email": "ops@parts.test", "password": "secret123", "invite_token": invite.Invitation.Token,
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var supplier authResponse
	decodeBody(t, rec, &supplier)

	rec = doJSON(t, h, http.MethodPost, "/api/submissions/whatever/review", supplier.Token, map[string]string{
		"status": services.StatusApproved,
	})
	require.NotEqual(t, http.StatusOK, rec.Code)
}
