package api

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/lingoplay/internal/services"
	"github.com/vytor/lingoplay/internal/uploads"
)

// Server exposes the services over JSON HTTP.
type Server struct {
	Users          services.UserService
	Catalog        services.CatalogService
	Progress       services.ProgressService
	ExtractedTexts services.ExtractedTextService
	Pronunciation  services.PronunciationService
	Sessions       services.SessionService

	// UploadDir is served under /uploads/.
	UploadDir      string
	MaxUploadBytes int64
	// ReadyCheck backs /api/ready; nil means always ready.
	ReadyCheck func(ctx context.Context) error
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(recoveryMiddleware)
	r.Use(loggingMiddleware)
	r.Use(securityHeadersMiddleware)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/ready", s.handleReady)

		r.Post("/users/register", s.handleRegister)
		r.Post("/users/login", s.handleLogin)

		r.Get("/languages", s.handleLanguages)
		r.Get("/languages/{code}", s.handleLanguage)
		r.Get("/games", s.handleGames)
		r.Get("/games/{id}", s.handleGame)
		r.Get("/activities", s.handleActivities)
		r.Get("/activities/{type}", s.handleActivitiesByType)

		r.Post("/user-activity", s.handleUserActivity)
		r.Post("/pronunciation/compare", s.handleCompare)

		r.Route("/users/{userId}", func(r chi.Router) {
			r.Get("/", s.handleUser)
			r.Get("/progress", s.handleListProgress)
			r.Post("/progress", s.handleCreateProgress)
			r.Patch("/progress/{progressId}", s.handleUpdateProgress)
			r.Get("/activity-history", s.handleListHistory)
			r.Post("/activity-history", s.handleCreateHistory)
			r.Patch("/activity-history/{historyId}", s.handleUpdateHistory)
			r.Get("/extracted-texts", s.handleListExtractedTexts)
			r.Post("/extracted-texts", s.handleCreateExtractedText)
			r.Post("/pronunciation", s.handleRecordPronunciation)
		})

		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Get("/{id}", s.handleGetSession)
			r.Delete("/{id}", s.handleDeleteSession)
			r.Post("/{id}/start", s.handleStartSession)
			r.Post("/{id}/restart", s.handleRestartSession)
			r.Post("/{id}/actions", s.handleSessionAction)
			r.Get("/{id}/events", s.handleSessionEvents)
		})
	})

	if s.UploadDir != "" {
		r.Handle(uploads.URLPrefix+"*", http.StripPrefix(uploads.URLPrefix, http.FileServer(http.Dir(s.UploadDir))))
	}
	return r
}
