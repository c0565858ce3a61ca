package www

import (
	"net/http"

	"caterhub/config"
	"caterhub/metrics"
	"caterhub/notify"
	"caterhub/store"
	"caterhub/track"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	cfg      *config.Config
	db       *store.DB
	hub      *track.Hub
	tokens   *track.Tokens
	sessions *sessionStore
	notifier notify.Sender
	metrics  *metrics.TrackingMetrics
}

// NewRouter creates the chi router and returns it along with a stop function
// that closes the tracking hub so long-lived streams terminate.
func NewRouter(cfg *config.Config, db *store.DB, hub *track.Hub, notifier notify.Sender) (http.Handler, func()) {
	h := &Handlers{
		cfg:      cfg,
		db:       db,
		hub:      hub,
		tokens:   track.NewTokens(db),
		sessions: newSessionStore(cfg.Web.SessionSecret),
		notifier: notifier,
		metrics:  metrics.NewTrackingMetrics(),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	// Live tracking (token-authorized, no session)
	r.Get("/track/stream", h.handleTrackStream)
	r.Get("/track/verify", h.handleTrackVerify)
	r.Get("/driver/verify", h.handleDriverVerify)

	// Driver location ingestion (shared-secret header)
	r.Post("/location", h.handleDriverLocation)

	// Public enquiry form
	r.Post("/leads", h.handleCreateLead)

	// Login/logout
	r.Post("/admin/login", h.handleLogin)
	r.Post("/admin/logout", h.handleLogout)

	// Metrics
	r.Handle("/metrics", h.metrics.Handler())

	// Privileged endpoints (back office)
	r.Group(func(r chi.Router) {
		r.Use(h.adminMiddleware)

		r.Post("/track/generate", h.apiGenerateTrackingLink)
		r.Post("/driver/send-link", h.apiSendDriverLink)

		r.Route("/admin", func(r chi.Router) {
			r.Get("/orders", h.apiListOrders)
			r.Post("/orders", h.apiCreateOrder)
			r.Get("/orders/{orderID}", h.apiGetOrder)
			r.Put("/orders/{orderID}/status", h.apiSetOrderStatus)

			r.Get("/leads", h.apiListLeads)
			r.Get("/leads.csv", h.apiExportLeadsCSV)
			r.Put("/leads/{leadID}/status", h.apiSetLeadStatus)
			r.Delete("/leads/{leadID}", h.apiDeleteLead)

			r.Post("/password", h.apiChangePassword)
		})
	})

	return r, func() {
		hub.Close()
	}
}

func (h *Handlers) adminMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username, ok := h.sessions.getUser(r)
		if !ok || username == "" {
			writeError(w, http.StatusUnauthorized, "login required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
