package api

import (
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/services"
)

// multipartMemory is how much of a multipart form is held in memory before
// spilling to temporary files.
const multipartMemory = 1 << 20

func (s *Server) handleListExtractedTexts(w http.ResponseWriter, r *http.Request) {
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}
	texts, err := s.ExtractedTexts.List(r.Context(), userID)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusOK, texts)
}

// handleCreateExtractedText accepts JSON {languageId, text} or a multipart
// form with languageId, text and an optional image file.
func (s *Server) handleCreateExtractedText(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context())
	userID, err := pathID(r, "userId")
	if err != nil {
		handleError(w, r, err)
		return
	}

	var input services.ExtractedTextInput
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		r.Body = http.MaxBytesReader(w, r.Body, s.MaxUploadBytes+multipartMemory)
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			var tooLarge *http.MaxBytesError
			if stderrors.As(err, &tooLarge) {
				handleError(w, r, errors.NewTooLargeError(s.MaxUploadBytes))
				return
			}
			handleError(w, r, errors.NewBadRequestError("invalid multipart form: "+err.Error()))
			return
		}
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				log.Warn("failed to remove multipart temp files: %v", err)
			}
		}()

		if raw := r.FormValue("languageId"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil {
				handleError(w, r, errors.NewValidationError("languageId", "must be an integer"))
				return
			}
			input.LanguageID = id
		}
		input.Text = r.FormValue("text")

		file, header, err := r.FormFile("image")
		switch {
		case err == nil:
			defer file.Close()
			log.Debug("received image upload: name=%s, size=%d", header.Filename, header.Size)
			input.Image = file
		case !stderrors.Is(err, http.ErrMissingFile):
			handleError(w, r, errors.NewBadRequestError("invalid image upload: "+err.Error()))
			return
		}
	} else {
		var body struct {
			LanguageID int64  `json:"languageId"`
			Text       string `json:"text"`
		}
		if err := decodeJSON(w, r, &body); err != nil {
			handleError(w, r, err)
			return
		}
		input.LanguageID, input.Text = body.LanguageID, body.Text
	}

	created, err := s.ExtractedTexts.Create(r.Context(), userID, input)
	if err != nil {
		handleError(w, r, err)
		return
	}
	respond(w, r, http.StatusCreated, created)
}
