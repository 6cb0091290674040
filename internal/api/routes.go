package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Get("/health", s.handleHealth)
	r.Get("/ready", s.handleReady)

	r.Route("/profiles", func(r chi.Router) {
		r.Get("/", s.handleProfiles)
		r.Post("/", s.handleCreateProfile)
		r.Post("/{id}/select", s.handleSelectProfile)
		r.Put("/{id}/quota", s.handleUpdateQuota)
		r.Delete("/{id}", s.handleDeleteProfile)
	})

	r.Group(func(r chi.Router) {
		r.Use(s.profileMiddleware)

		r.Route("/cards", func(r chi.Router) {
			r.Get("/", s.handleCards)
			r.Post("/", s.handleAddCard)
			r.Post("/generate", s.handleGenerateCard)
			r.Post("/import", s.handleImportCards)
			r.Get("/{word}", s.handleCard)
			r.Delete("/{word}", s.handleDeleteCard)
			r.Put("/{word}/mastered", s.handleSetMastered)
		})

		r.Get("/review/today", s.handleReviewToday)
		r.Post("/review/regenerate", s.handleRegenerate)
		r.Post("/review/answer", s.handleAnswer)
		r.Get("/stats", s.handleStats)
	})

	return r
}
