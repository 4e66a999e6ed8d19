package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendorguard/vendorguard/internal/services"
)

// POST /api/assessments/{id}/submissions
// Idempotent: returns the caller's open attempt when one exists.
func (rt *Router) handleStartSubmission(w http.ResponseWriter, r *http.Request) {
	sub, err := rt.Submissions.Start(actor(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// PUT /api/submissions/{id}/answers
func (rt *Router) handleSaveAnswer(w http.ResponseWriter, r *http.Request) {
	var body struct {
		QuestionID string `json:"question_id"`
		Value      string `json:"value"`
		Comments   string `json:"comments"`
		Evidence   string `json:"evidence"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ans, err := rt.Submissions.SaveAnswer(actor(r), services.SaveAnswerRequest{
		SubmissionID: chi.URLParam(r, "id"),
		QuestionID:   body.QuestionID,
		Value:        body.Value,
		Comments:     body.Comments,
		Evidence:     body.Evidence,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}

// POST /api/submissions/{id}/submit
func (rt *Router) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sub, err := rt.Submissions.Submit(actor(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// POST /api/submissions/{id}/review
func (rt *Router) handleReview(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Status   string `json:"status"`
		Comments string `json:"comments"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	sub, err := rt.Submissions.Review(actor(r), services.ReviewRequest{
		SubmissionID: chi.URLParam(r, "id"),
		Status:       body.Status,
		Comments:     body.Comments,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sub)
}

// PUT /api/submissions/{id}/evidence-status
func (rt *Router) handleEvidenceStatus(w http.ResponseWriter, r *http.Request) {
	var body struct {
		QuestionID string `json:"question_id"`
		Status     string `json:"status"`
	}
	if err := decodeJSON(r, &body); err != nil {
		writeError(w, err)
		return
	}
	ans, err := rt.Submissions.SetEvidenceStatus(actor(r), services.EvidenceStatusRequest{
		SubmissionID: chi.URLParam(r, "id"),
		QuestionID:   body.QuestionID,
		Status:       body.Status,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ans)
}
