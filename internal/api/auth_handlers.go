package api

import (
	"net/http"

	mw "github.com/vendorguard/vendorguard/internal/middleware"
	"github.com/vendorguard/vendorguard/internal/services"
)

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
	InviteToken string `json:"invite_token"`
}

type authResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Role     string `json:"role"`
}

// POST /api/auth/register
// With an invite token the account joins the inviting tenant as a
// supplier user; without one a fresh vendor tenant is created.
func (rt *Router) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.Auth.Register(req.Email, req.Password, req.CompanyName, req.InviteToken)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, authResponse{Token: res.Token, UserID: res.UserID, TenantID: res.TenantID, Role: res.Role})
}

// POST /api/auth/login
func (rt *Router) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}
	res, err := rt.Auth.Login(req.Email, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: res.Token, UserID: res.UserID, TenantID: res.TenantID, Role: res.Role})
}

// actor pulls the authenticated caller out of the request context.
// RequireAuth guarantees presence on the protected subtree.
func actor(r *http.Request) services.Actor {
	a, _ := mw.ActorFromContext(r.Context())
	return a
}
