package www

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"caterhub/store"

	"github.com/go-chi/chi/v5"
)

func (h *Handlers) apiListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.db.ListOrders()
	if err != nil {
		log.Printf("list orders: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true, "orders": orders})
}

func (h *Handlers) apiCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CustomerName string  `json:"customerName"`
		Phone        string  `json:"phone"`
		Address      string  `json:"address"`
		Notes        string  `json:"notes"`
		TotalAmount  float64 `json:"totalAmount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if req.CustomerName == "" || req.Address == "" {
		writeError(w, http.StatusBadRequest, "customerName and address are required")
		return
	}

	o := &store.Order{
		CustomerName: req.CustomerName,
		Phone:        req.Phone,
		Address:      req.Address,
		Notes:        req.Notes,
		TotalAmount:  req.TotalAmount,
	}
	if err := h.db.CreateOrder(o); err != nil {
		log.Printf("create order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true, "order": o})
}

func (h *Handlers) apiGetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.db.GetOrder(chi.URLParam(r, "orderID"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		log.Printf("get order: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true, "order": o})
}

func (h *Handlers) apiSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Status == "" {
		writeError(w, http.StatusBadRequest, "status is required")
		return
	}

	err := h.db.SetDeliveryStatus(chi.URLParam(r, "orderID"), req.Status)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}
	if err != nil {
		log.Printf("set order status: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true})
}
