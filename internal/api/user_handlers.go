package api

import (
	"net/http"
	"strings"

	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/models"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var reg models.Registration
	if err := decodeJSON(w, r, &reg); err != nil {
		handleError(w, r, err)
		return
	}
	user, err := s.Users.Register(r.Context(), reg)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds models.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		handleError(w, r, err)
		return
	}
	if strings.TrimSpace(creds.Username) == "" || creds.Password == "" {
		handleError(w, r, errors.NewBadRequestError("username and password are required"))
		return
	}
	user, err := s.Users.Login(r.Context(), creds)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, user)
}

func (s *Server) handleUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	user, err := s.Users.GetUser(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, user)
}
