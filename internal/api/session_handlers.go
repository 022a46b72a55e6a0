package api

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/services"
)

const sseHeartbeat = 15 * time.Second

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var input services.CreateSessionInput
	if err := decodeJSON(w, r, &input); err != nil {
		handleError(w, r, err)
		return
	}
	v, err := s.Sessions.Create(r.Context(), input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, v)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	v, err := s.Sessions.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, v)
}

func (s *Server) handleStartSession(w http.ResponseWriter, r *http.Request) {
	v, err := s.Sessions.Start(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, v)
}

func (s *Server) handleRestartSession(w http.ResponseWriter, r *http.Request) {
	v, err := s.Sessions.Restart(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, v)
}

func (s *Server) handleSessionAction(w http.ResponseWriter, r *http.Request) {
	var action services.Action
	if err := decodeJSON(w, r, &action); err != nil {
		handleError(w, r, err)
		return
	}
	if action.Type == "" {
		handleError(w, r, errors.NewValidationError("type", "cannot be empty"))
		return
	}
	out, err := s.Sessions.Act(r.Context(), chi.URLParam(r, "id"), action)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, out)
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.Sessions.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSessionEvents streams the session as server-sent events: the
// current view first, then one "state" event per change, and a final
// "closed" event when the session is deleted or swept.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	id := chi.URLParam(r, "id")

	flusher, ok := w.(http.Flusher)
	if !ok {
		handleError(w, r, errors.NewInternalError(fmt.Errorf("streaming unsupported")))
		return
	}
	current, err := s.Sessions.Get(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	events, cancel, err := s.Sessions.Subscribe(ctx, id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	if err := writeEvent(w, "state", current); err != nil {
		log.Warn("failed to write event: %v", err)
		return
	}
	flusher.Flush()

	ticker := time.NewTicker(sseHeartbeat)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case v, ok := <-events:
			if !ok {
				_ = writeEvent(w, "closed", map[string]string{"id": id})
				flusher.Flush()
				return
			}
			if err := writeEvent(w, "state", v); err != nil {
				log.Warn("failed to write event: %v", err)
				return
			}
			flusher.Flush()
		case <-ticker.C:
			fmt.Fprint(w, ": heartbeat\n\n")
			flusher.Flush()
		}
	}
}

func writeEvent(w io.Writer, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data)
	return err
}
