package server

import (
	"net/http"
	"time"

	"github.com/rackpulse/rackpulse/pkg/serializer"
)

// handleTrends processes GET /v1/trends requests. The optional window query
// parameter (a Go duration, e.g. 15m) filters each series to points newer
// than now minus the window; the query never consumes retained history.
func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]interface{}{
				"method": r.Method,
			})
		return
	}

	var window time.Duration
	if raw := r.URL.Query().Get("window"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed < 0 {
			s.writeError(w, r, http.StatusBadRequest, ErrCodeInvalidRequest,
				"Invalid window duration", false, map[string]interface{}{
					"window": raw,
				})
			return
		}
		window = parsed
	}

	serializer.RespondJSON(w, http.StatusOK, s.engine.Trends(window))
}
