package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
)

type createProfileRequest struct {
	Username   string `json:"username"`
	DailyQuota int    `json:"daily_quota"`
}

type updateQuotaRequest struct {
	DailyQuota *int `json:"daily_quota"`
}

func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	log.Debug("listing profiles")

	profiles, err := s.ProfileService.ListProfiles(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, map[string]any{"profiles": profiles})
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())

	var req createProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	username := strings.ToLower(strings.TrimSpace(req.Username))
	if username == "" {
		log.Warn("create profile with empty username")
		handleError(w, r, errors.NewValidationError("username", "required"))
		return
	}

	profile, err := s.ProfileService.CreateProfile(r.Context(), username, req.DailyQuota)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setProfileCookie(w, profile.ID)
	writeJSON(w, r, http.StatusCreated, profile)
}

func (s *Server) handleSelectProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	profile, err := s.ProfileService.GetProfile(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}

	setProfileCookie(w, profile.ID)
	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleUpdateQuota(w http.ResponseWriter, r *http.Request) {
	id, err := profileIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req updateQuotaRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.DailyQuota == nil {
		handleError(w, r, errors.NewValidationError("daily_quota", "required"))
		return
	}

	profile, err := s.ProfileService.UpdateQuota(r.Context(), id, *req.DailyQuota)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, profile)
}

func (s *Server) handleDeleteProfile(w http.ResponseWriter, r *http.Request) {
	id, err := profileIDParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.ProfileService.DeleteProfile(r.Context(), id); err != nil {
		handleError(w, r, err)
		return
	}

	if raw, ok := profileIDFromRequest(r); ok && raw == strconv.FormatInt(id, 10) {
		clearProfileCookie(w)
	}
	w.WriteHeader(http.StatusNoContent)
}

func profileIDParam(r *http.Request) (int64, error) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		logger.FromContext(r.Context()).Warn("invalid profile id: %s", idStr)
		return 0, errors.NewBadRequestError("invalid profile id")
	}
	return id, nil
}
