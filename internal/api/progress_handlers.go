package api

import (
	"net/http"

	"github.com/vytor/lingoplay/internal/models"
)

// handleUserActivity accepts completion reports from game sessions.
func (s *Server) handleUserActivity(w http.ResponseWriter, r *http.Request) {
	var report models.ActivityReport
	if err := decodeJSON(w, r, &report); err != nil {
		handleError(w, r, err)
		return
	}
	p, err := s.Progress.RecordActivity(r.Context(), report)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, p)
}

func (s *Server) handleListProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	list, err := s.Progress.ListProgress(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, list)
}

func (s *Server) handleCreateProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var p models.UserProgress
	if err := decodeJSON(w, r, &p); err != nil {
		handleError(w, r, err)
		return
	}
	created, err := s.Progress.CreateProgress(r.Context(), userID, p)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	progressID, err := pathID(r, "progressId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var update models.ProgressUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		handleError(w, r, err)
		return
	}
	p, err := s.Progress.UpdateProgress(r.Context(), userID, progressID, update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, p)
}

func (s *Server) handleListHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	list, err := s.Progress.ListHistory(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, list)
}

func (s *Server) handleCreateHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var entry models.ActivityHistory
	if err := decodeJSON(w, r, &entry); err != nil {
		handleError(w, r, err)
		return
	}
	created, err := s.Progress.CreateHistory(r.Context(), userID, entry)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, created)
}

func (s *Server) handleUpdateHistory(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	historyID, err := pathID(r, "historyId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var update models.HistoryUpdate
	if err := decodeJSON(w, r, &update); err != nil {
		handleError(w, r, err)
		return
	}
	h, err := s.Progress.UpdateHistory(r.Context(), userID, historyID, update)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, h)
}
