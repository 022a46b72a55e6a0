package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs, err := s.Catalog.ListLanguages(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, langs)
}

func (s *Server) handleLanguage(w http.ResponseWriter, r *http.Request) {
	lang, err := s.Catalog.GetLanguageByCode(r.Context(), chi.URLParam(r, "code"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, lang)
}

func (s *Server) handleGames(w http.ResponseWriter, r *http.Request) {
	games, err := s.Catalog.ListGames(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, games)
}

func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		handleError(w, r, err)
		return
	}
	g, err := s.Catalog.GetGame(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, g)
}

func (s *Server) handleActivities(w http.ResponseWriter, r *http.Request) {
	activities, err := s.Catalog.ListActivities(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, activities)
}

func (s *Server) handleActivitiesByType(w http.ResponseWriter, r *http.Request) {
	activities, err := s.Catalog.ListActivitiesByType(r.Context(), chi.URLParam(r, "type"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, activities)
}
