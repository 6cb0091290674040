package api

import (
	"net/http"

	"github.com/vytor/wordflash/internal/models"
)

type statsResponse struct {
	Library  *models.LibraryStats    `json:"library"`
	Progress *models.SessionProgress `json:"progress"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	library, err := s.CardService.Stats(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	progress, err := s.ReviewService.Progress(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, statsResponse{Library: library, Progress: progress})
}
