package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vendorguard/vendorguard/internal/services"
)

// POST /api/suppliers
func (rt *Router) handleInviteSupplier(w http.ResponseWriter, r *http.Request) {
	var req services.InviteSupplierRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.Suppliers.Invite(actor(r), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GET /api/suppliers
func (rt *Router) handleListSuppliers(w http.ResponseWriter, r *http.Request) {
	list, err := rt.Suppliers.List(actor(r))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /api/suppliers/{id}
func (rt *Router) handleGetSupplier(w http.ResponseWriter, r *http.Request) {
	sup, err := rt.Suppliers.Get(actor(r), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}

// POST /api/invitations/{token}/accept
func (rt *Router) handleAcceptInvitation(w http.ResponseWriter, r *http.Request) {
	sup, err := rt.Suppliers.AcceptInvitation(actor(r), chi.URLParam(r, "token"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sup)
}
