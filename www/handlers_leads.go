package www

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"caterhub/store"
)

func (h *Handlers) handleCreateLead(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name      string `json:"name"`
		Phone     string `json:"phone"`
		Email     string `json:"email"`
		EventDate string `json:"eventDate"`
		Guests    int64  `json:"guests"`
		Message   string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.Name == "" || req.Phone == "" {
		writeError(w, http.StatusBadRequest, "name and phone are required")
		return
	}

	l := &store.Lead{
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		EventDate: req.EventDate,
		Guests:    req.Guests,
		Message:   req.Message,
	}
	if err := h.db.CreateLead(l); err != nil {
		log.Printf("create lead: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true, "lead": l})
}

func (h *Handlers) apiListLeads(w http.ResponseWriter, r *http.Request) {
	leads, err := h.db.ListLeads()
	if err != nil {
		log.Printf("list leads: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true, "leads": leads})
}

func (h *Handlers) apiSetLeadStatus(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "leadID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lead ID")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	err = h.db.SetLeadStatus(id, req.Status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		log.Printf("set lead status: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true})
}

func (h *Handlers) apiDeleteLead(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r, "leadID")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid lead ID")
		return
	}
	err = h.db.DeleteLead(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "lead not found")
		return
	}
	if err != nil {
		log.Printf("delete lead: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true})
}

func (h *Handlers) apiExportLeadsCSV(w http.ResponseWriter, r *http.Request) {
	leads, err := h.db.ListLeads()
	if err != nil {
		log.Printf("export leads: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "name", "phone", "email", "event_date", "guests", "message", "status", "created_at"})
	for _, l := range leads {
		cw.Write([]string{
			strconv.FormatInt(l.ID, 10), l.Name, l.Phone, l.Email,
			l.EventDate, strconv.FormatInt(l.Guests, 10), l.Message, l.Status, l.CreatedAt,
		})
	}
	cw.Flush()
}
