package www

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"caterhub/store"
)

func (h *Handlers) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	user, err := h.db.GetAdminUser(req.Username)
	if err != nil || !checkPassword(req.Password, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	h.sessions.setUser(w, r, user.Username)
	writeJSON(w, map[string]interface{}{"ok": true})
}

func (h *Handlers) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.sessions.clear(w, r)
	writeJSON(w, map[string]interface{}{"ok": true})
}

func (h *Handlers) apiChangePassword(w http.ResponseWriter, r *http.Request) {
	username, _ := h.sessions.getUser(r)

	var req struct {
		Current string `json:"current"`
		New     string `json:"new"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.New == "" {
		writeError(w, http.StatusBadRequest, "current and new passwords are required")
		return
	}

	user, err := h.db.GetAdminUser(username)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusUnauthorized, "login required")
		return
	}
	if err != nil {
		log.Printf("get admin user: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !checkPassword(req.Current, user.PasswordHash) {
		writeError(w, http.StatusUnauthorized, "current password incorrect")
		return
	}

	hash, err := HashPassword(req.New)
	if err != nil {
		log.Printf("hash password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if err := h.db.UpdateAdminPassword(username, hash); err != nil {
		log.Printf("update password: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true})
}
