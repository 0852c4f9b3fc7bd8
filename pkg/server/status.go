package server

import (
	"net/http"

	"github.com/rackpulse/rackpulse/pkg/serializer"
)

// handleStatus processes GET /v1/status requests, exposing the appliance
// connection state for dashboard diagnostics.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]interface{}{
				"method": r.Method,
			})
		return
	}

	serializer.RespondJSON(w, http.StatusOK, s.status.Status())
}
