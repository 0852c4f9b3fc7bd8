package server

import (
	"context"
	"net/http"

	"github.com/rackpulse/rackpulse/pkg/defaults"
	"github.com/rackpulse/rackpulse/pkg/serializer"
)

// handleSnapshot processes GET /v1/snapshot requests end-to-end, ensuring
// structured error responses consistent with the rest of the server surface.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		s.writeError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed,
			"Method not allowed", false, map[string]interface{}{
				"method": r.Method,
			})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), defaults.SnapshotHandlerTimeout)
	defer cancel()

	snap, err := s.engine.CurrentSnapshot(ctx)
	if err != nil {
		s.writeError(w, r, http.StatusServiceUnavailable, ErrCodeServiceUnavailable,
			"No telemetry source available", true, map[string]interface{}{
				"error": err.Error(),
			})
		return
	}

	// The snapshot is regenerated every cycle; the poll interval is the
	// natural cache horizon.
	w.Header().Set("Cache-Control", "no-store")
	serializer.RespondJSON(w, http.StatusOK, snap)
}
