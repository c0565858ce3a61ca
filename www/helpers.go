package www

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"caterhub/track"

	"github.com/go-chi/chi/v5"
)

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]interface{}{"ok": false, "error": msg})
}

func parseID(r *http.Request, param string) (int64, error) {
	s := chi.URLParam(r, param)
	return strconv.ParseInt(s, 10, 64)
}

// statusFor maps the tracking error taxonomy onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, track.ErrBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, track.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, track.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
