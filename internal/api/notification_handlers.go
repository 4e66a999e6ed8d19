package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// GET /api/notifications?unread=1
func (rt *Router) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	unreadOnly := r.URL.Query().Get("unread") != ""
	list, err := rt.Notifications.List(actor(r), unreadOnly)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// POST /api/notifications/{id}/read
func (rt *Router) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	if err := rt.Notifications.MarkRead(actor(r), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
