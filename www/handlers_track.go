package www

import (
	"crypto/subtle"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"caterhub/track"
)

// handleTrackStream opens the customer-facing SSE stream for one order.
// The connection is held for the subscription's lifetime; updates arrive via
// hub fan-out. Teardown always unsubscribes exactly once.
func (h *Handlers) handleTrackStream(w http.ResponseWriter, r *http.Request) {
	orderID := track.CanonicalOrderID(r.URL.Query().Get("orderId"))
	token := r.URL.Query().Get("t")
	if orderID == "" || token == "" {
		writeError(w, http.StatusBadRequest, "orderId and t are required")
		return
	}

	if _, err := h.tokens.Verify(orderID, token, track.RoleCustomer); err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("track stream verify %s: %v", orderID, err)
			writeError(w, status, "internal error")
			return
		}
		writeError(w, status, "invalid tracking token")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	sub := h.hub.Subscribe(orderID)
	defer h.hub.Unsubscribe(sub)
	h.metrics.Subscribers.Inc()
	defer h.metrics.Subscribers.Dec()

	// Registration is complete before any location data can arrive.
	fmt.Fprint(w, "data: {\"ready\":true}\n\n")
	flusher.Flush()

	keepalive := time.NewTicker(h.cfg.Tracking.KeepaliveInterval)
	defer keepalive.Stop()

	var idle *time.Timer
	var idleC <-chan time.Time
	if d := h.cfg.Tracking.IdleTimeout; d > 0 {
		idle = time.NewTimer(d)
		defer idle.Stop()
		idleC = idle.C
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case <-idleC:
			return
		case upd, open := <-sub.Updates():
			if !open {
				// Hub shut down
				return
			}
			data, err := json.Marshal(upd)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
			if idle != nil {
				if !idle.Stop() {
					select {
					case <-idle.C:
					default:
					}
				}
				idle.Reset(h.cfg.Tracking.IdleTimeout)
			}
		case <-keepalive.C:
			fmt.Fprint(w, ": keepalive\n\n")
			flusher.Flush()
		}
	}
}

// handleDriverLocation ingests a driver location report and fans it out to
// whoever is watching. The driver device authenticates with a static shared
// secret, not a per-order token.
func (h *Handlers) handleDriverLocation(w http.ResponseWriter, r *http.Request) {
	secret := h.cfg.Driver.AuthSecret
	presented := r.Header.Get("driver-auth")
	if secret == "" || subtle.ConstantTimeCompare([]byte(secret), []byte(presented)) != 1 {
		writeError(w, http.StatusUnauthorized, "invalid driver credential")
		return
	}

	var req struct {
		DriverID string   `json:"driverId"`
		OrderID  string   `json:"orderId"`
		Lat      *float64 `json:"lat"`
		Lng      *float64 `json:"lng"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	orderID := track.CanonicalOrderID(req.OrderID)
	if orderID == "" {
		writeError(w, http.StatusBadRequest, "orderId is required")
		return
	}
	if req.Lat == nil || req.Lng == nil {
		writeError(w, http.StatusBadRequest, "lat and lng are required")
		return
	}

	_, dropped := h.hub.Publish(orderID, track.LocationUpdate{Lat: *req.Lat, Lng: *req.Lng})
	h.metrics.UpdatesPublished.Inc()
	if dropped > 0 {
		h.metrics.UpdatesDropped.Add(float64(dropped))
	}

	// Best-effort: a late-arriving viewer sees the last known position.
	if err := h.db.UpdateDriverLocation(orderID, *req.Lat, *req.Lng, req.DriverID); err != nil {
		log.Printf("persist driver location %s: %v", orderID, err)
	}

	// Success regardless of subscriber presence: the driver client has no
	// visibility into viewers and simply reports again next tick.
	writeJSON(w, map[string]interface{}{"ok": true})
}

// handleTrackVerify validates a customer tracking link and returns the order
// snapshot used to render the tracking page before the stream opens.
func (h *Handlers) handleTrackVerify(w http.ResponseWriter, r *http.Request) {
	h.handleVerify(w, r, track.RoleCustomer)
}

// handleDriverVerify is the driver-role mirror, used by the location-sharing
// control page.
func (h *Handlers) handleDriverVerify(w http.ResponseWriter, r *http.Request) {
	h.handleVerify(w, r, track.RoleDriver)
}

func (h *Handlers) handleVerify(w http.ResponseWriter, r *http.Request, role track.Role) {
	orderID := r.URL.Query().Get("orderId")
	token := r.URL.Query().Get("t")

	snap, err := h.tokens.Verify(orderID, token, role)
	if err != nil {
		status := statusFor(err)
		switch status {
		case http.StatusBadRequest:
			writeError(w, status, "orderId and t are required")
		case http.StatusUnauthorized:
			writeError(w, status, "invalid tracking token")
		default:
			log.Printf("verify %s: %v", orderID, err)
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	writeJSON(w, map[string]interface{}{"ok": true, "order": snap})
}

// apiGenerateTrackingLink issues (or reissues) the customer tracking token
// and returns the shareable URL. Admin-only, so a 404 for an unknown order
// leaks nothing to the public.
func (h *Handlers) apiGenerateTrackingLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	orderID := track.CanonicalOrderID(req.OrderID)
	order, err := h.db.GetOrder(orderID)
	if err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	token, err := h.tokens.Issue(orderID, track.RoleCustomer, "")
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("issue customer token %s: %v", orderID, err)
			writeError(w, status, "internal error")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	trackURL := h.trackingURL("/track", orderID, token)
	if err := h.notifier.SendTrackingLink(order.Phone, orderID, trackURL); err != nil {
		log.Printf("send tracking link %s: %v", orderID, err)
	}
	writeJSON(w, map[string]interface{}{"ok": true, "orderId": orderID, "url": trackURL})
}

// apiSendDriverLink issues a driver-role token and hands the control-page
// link to the notification boundary.
func (h *Handlers) apiSendDriverLink(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OrderID  string `json:"orderId"`
		DriverID string `json:"driverId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	orderID := track.CanonicalOrderID(req.OrderID)
	if orderID == "" || req.DriverID == "" {
		writeError(w, http.StatusBadRequest, "orderId and driverId are required")
		return
	}
	if _, err := h.db.GetOrder(orderID); err != nil {
		writeError(w, http.StatusNotFound, "order not found")
		return
	}

	token, err := h.tokens.Issue(orderID, track.RoleDriver, req.DriverID)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusInternalServerError {
			log.Printf("issue driver token %s: %v", orderID, err)
			writeError(w, status, "internal error")
			return
		}
		writeError(w, status, err.Error())
		return
	}

	driverURL := h.trackingURL("/driver", orderID, token)
	if err := h.notifier.SendDriverLink(req.DriverID, orderID, driverURL); err != nil {
		log.Printf("send driver link %s: %v", orderID, err)
	}
	writeJSON(w, map[string]interface{}{"ok": true, "orderId": orderID, "url": driverURL})
}

func (h *Handlers) trackingURL(path, orderID, token string) string {
	base := strings.TrimRight(h.cfg.BaseURL, "/")
	return fmt.Sprintf("%s%s?orderId=%s&t=%s", base, path,
		url.QueryEscape(orderID), url.QueryEscape(token))
}
