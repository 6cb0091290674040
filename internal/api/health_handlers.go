package api

import (
	"net/http"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
)

// handleHealth is the liveness probe.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

// handleReady is the readiness probe. It fails while the database is
// unreachable.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	if s.DB == nil {
		handleError(w, r, errors.NewUnavailableError("database not configured", nil))
		return
	}
	if err := s.DB.PingContext(r.Context()); err != nil {
		log.Warn("readiness check failed - database: %v", err)
		handleError(w, r, errors.NewUnavailableError("database unavailable", err))
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]string{"status": "ready"})
}
