package api

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/wordflash/internal/errors"
	"github.com/vytor/wordflash/internal/logger"
	"github.com/vytor/wordflash/internal/models"
	"github.com/vytor/wordflash/internal/vocab"
)

const defaultMaxUploadBytes = 10 << 20

type cardListResponse struct {
	Cards  []models.Card `json:"cards"`
	Total  int           `json:"total"`
	Limit  int           `json:"limit"`
	Offset int           `json:"offset"`
}

type generateCardRequest struct {
	Word string `json:"word"`
}

type setMasteredRequest struct {
	Mastered *bool `json:"mastered"`
}

type importQueuedResponse struct {
	Status string `json:"status"`
	File   string `json:"file"`
}

func (s *Server) handleCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	profile := profileFromContext(r.Context())

	q := r.URL.Query()
	filter := models.CardFilter{
		ProfileID: profile.ID,
		Status:    q.Get("status"),
		Query:     q.Get("q"),
		OrderBy:   q.Get("order"),
		OrderDir:  q.Get("dir"),
	}
	var err error
	if filter.Limit, err = intQuery(q, "limit"); err != nil {
		handleError(w, r, err)
		return
	}
	if filter.Offset, err = intQuery(q, "offset"); err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("listing cards: status=%s, q=%s", filter.Status, filter.Query)

	cards, total, err := s.CardService.ListCards(r.Context(), filter)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, cardListResponse{
		Cards:  cards,
		Total:  total,
		Limit:  filter.Limit,
		Offset: filter.Offset,
	})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	var draft models.CardDraft
	if err := decodeJSON(r, &draft); err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.AddCard(r.Context(), profile.ID, draft)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusCreated, card)
}

func (s *Server) handleGenerateCard(w http.ResponseWriter, r *http.Request) {
	var req generateCardRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}

	draft, err := s.CardService.GenerateCard(r.Context(), req.Word)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, draft)
}

// handleImportCards stages the uploaded word list and queues it for a
// background import.
func (s *Server) handleImportCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	profile := profileFromContext(r.Context())

	maxBytes := s.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		log.Warn("invalid upload: %v", err)
		handleError(w, r, errors.NewBadRequestError("invalid upload: "+err.Error()))
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		handleError(w, r, errors.NewValidationError("file", "required"))
		return
	}
	defer file.Close()

	if _, err := vocab.FormatFromPath(header.Filename); err != nil {
		handleError(w, r, errors.NewValidationError("file", err.Error()))
		return
	}

	path, err := s.stageUpload(profile.ID, header.Filename, file)
	if err != nil {
		log.Error("failed to stage upload: %v", err)
		handleError(w, r, errors.NewInternalError(err))
		return
	}

	if err := s.JobQueue.EnqueueImport(profile.ID, path); err != nil {
		_ = os.Remove(path)
		handleError(w, r, errors.NewUnavailableError("import queue is busy, try again later", err))
		return
	}

	log.Info("import queued: file=%s", header.Filename)
	writeJSON(w, r, http.StatusAccepted, importQueuedResponse{Status: "queued", File: header.Filename})
}

func (s *Server) stageUpload(profileID int64, name string, src io.Reader) (string, error) {
	dir := s.UploadDir
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	dst, err := os.CreateTemp(dir, fmt.Sprintf("import-%d-*%s", profileID, filepath.Ext(name)))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", err
	}
	return dst.Name(), nil
}

func (s *Server) handleCard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	word, err := wordParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	card, err := s.CardService.GetCard(r.Context(), profile.ID, word)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, card)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	word, err := wordParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	if err := s.CardService.DeleteCard(r.Context(), profile.ID, word); err != nil {
		handleError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSetMastered(w http.ResponseWriter, r *http.Request) {
	profile := profileFromContext(r.Context())

	word, err := wordParam(r)
	if err != nil {
		handleError(w, r, err)
		return
	}

	var req setMasteredRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if req.Mastered == nil {
		handleError(w, r, errors.NewValidationError("mastered", "required"))
		return
	}

	card, err := s.CardService.SetMastered(r.Context(), profile.ID, word, *req.Mastered)
	if err != nil {
		handleError(w, r, err)
		return
	}

	writeJSON(w, r, http.StatusOK, card)
}

// wordParam returns the unescaped {word} segment; words may contain spaces.
func wordParam(r *http.Request) (string, error) {
	raw := chi.URLParam(r, "word")
	word, err := url.PathUnescape(raw)
	if err != nil {
		return "", errors.NewBadRequestError("invalid word in path")
	}
	return word, nil
}

func intQuery(q url.Values, key string) (int, error) {
	v := q.Get(key)
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, errors.NewValidationError(key, "must be a non-negative integer")
	}
	return n, nil
}
