package api

import (
	"net/http"

	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
)

type answerRequest struct {
	Word    string `json:"word"`
	Correct *bool  `json:"correct"`
}

func (s *Server) handleReviewToday(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	state, err := s.ReviewService.Today(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	profile := profileFromContext(r.Context())
	log.Info("regenerating today's session")

	state, err := s.ReviewService.Regenerate(r.Context(), profile.ID)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleAnswer(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var req answerRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Word == "" {
		handleError(w, r, errors.NewValidationError("word", "required"))
		return
	}
	if req.Correct == nil {
		handleError(w, r, errors.NewValidationError("correct", "required"))
		return
	}

	result, err := s.ReviewService.Answer(r.Context(), profile.ID, req.Word, *req.Correct)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, result)
}
