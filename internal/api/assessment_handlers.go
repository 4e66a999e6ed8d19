package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendorguard/vendorguard/internal/services"
)

// POST /api/assessments
func (rt *Router) handleCreateAssessment(w http.ResponseWriter, r *http.Request) {
	var req services.CreateAssessmentRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	a, err := rt.Assessments.Create(actor(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

// GET /api/assessments
func (rt *Router) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	list, err := rt.Assessments.ListByTenant(actor(r).TenantID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/assessments/{id}
func (rt *Router) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	a, err := rt.Assessments.Get(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// GET /api/assessments/{id}/questions
func (rt *Router) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := rt.Assessments.ListQuestions(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, qs)
}

// POST /api/assessments/{id}/questions
func (rt *Router) handleAddQuestion(w http.ResponseWriter, r *http.Request) {
	var req services.AddQuestionRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	req.AssessmentID = chi.URLParam(r, "id")
	q, err := rt.Assessments.AddQuestion(actor(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}
