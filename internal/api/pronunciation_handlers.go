package api

import (
	"net/http"

	"github.com/vytor/lingoplay/internal/services"
)

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	var req services.PronunciationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	result, err := s.Pronunciation.Compare(r.Context(), req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, result)
}

// handleRecordPronunciation compares and folds the accuracy into the user's
// reading progress for the request language.
func (s *Server) handleRecordPronunciation(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req services.PronunciationRequest
	if err := decodeJSON(w, r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	rec, err := s.Pronunciation.CompareAndRecord(r.Context(), userID, req)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, rec)
}
