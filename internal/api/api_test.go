package api

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/vytor/lingoplay/internal/dataset"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/pronunciation"
	"github.com/vytor/lingoplay/internal/repository"
	"github.com/vytor/lingoplay/internal/repository/memory"
	"github.com/vytor/lingoplay/internal/services"
	"github.com/vytor/lingoplay/internal/testutil"
	"github.com/vytor/lingoplay/internal/uploads"
	"golang.org/x/crypto/bcrypt"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

type APISuite struct {
	suite.Suite
	server  *Server
	handler http.Handler
}

func (s *APISuite) SetupTest() {
	ctx := context.Background()
	clock := clockwork.NewFakeClock()
	store := memory.New(clock)
	s.Require().NoError(repository.Seed(ctx, store))

	images, err := uploads.NewStore(s.T().TempDir(), 64)
	s.Require().NoError(err)

	progress := services.NewProgressService(store, clock, "en")
	engine := pronunciation.NewEngine(pronunciation.Dice(), pronunciation.DefaultThresholds(), []string{"te", "hi"})
	s.server = &Server{
		Users:          services.NewUserService(store.Users, bcrypt.MinCost),
		Catalog:        services.NewCatalogService(store.Languages, store.Activities, store.Games),
		Progress:       progress,
		ExtractedTexts: services.NewExtractedTextService(store.ExtractedTexts, store.Languages, images),
		Pronunciation:  services.NewPronunciationService(engine, progress),
		Sessions: services.NewSessionService(services.SessionConfig{
			Games:           store.Games,
			Content:         dataset.MustLoad("en"),
			Scheduler:       testutil.NewManualScheduler(),
			Clock:           clock,
			DefaultLanguage: "en",
		}),
		UploadDir:      images.Dir(),
		MaxUploadBytes: images.MaxBytes(),
	}
	s.handler = s.server.Routes()
}

func (s *APISuite) do(method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		s.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) decode(rec *httptest.ResponseRecorder, v any) {
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func (s *APISuite) errorCode(rec *httptest.ResponseRecorder) string {
	var body struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	s.decode(rec, &body)
	s.NotEmpty(body.Error.Message)
	return body.Error.Code
}

func (s *APISuite) TestHealth() {
	rec := s.do(http.MethodGet, "/api/health", nil)
	s.Equal(http.StatusOK, rec.Code)
	s.NotEmpty(rec.Header().Get("X-Request-ID"))

	rec = s.do(http.MethodGet, "/api/ready", nil)
	s.Equal(http.StatusOK, rec.Code)

	s.server.ReadyCheck = func(context.Context) error { return assert.AnError }
	rec = s.do(http.MethodGet, "/api/ready", nil)
	s.Equal(http.StatusServiceUnavailable, rec.Code)
}

func (s *APISuite) TestRegisterAndLogin() {
	reg := models.Registration{Username: "ana", Password: "secret1", Name: "Ana", Email: "ana@example.com"}
	rec := s.do(http.MethodPost, "/api/users/register", reg)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	s.NotContains(rec.Body.String(), "secret1")
	s.NotContains(rec.Body.String(), "passwordHash")

	rec = s.do(http.MethodPost, "/api/users/register", reg)
	s.Equal(http.StatusConflict, rec.Code)
	s.Equal("CONFLICT", s.errorCode(rec))

	rec = s.do(http.MethodPost, "/api/users/login", models.Credentials{Username: "ana"})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodPost, "/api/users/login", models.Credentials{Username: "ana", Password: "nope"})
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.do(http.MethodPost, "/api/users/login", models.Credentials{Username: "ana", Password: "secret1"})
	s.Require().Equal(http.StatusOK, rec.Code)
	var user models.User
	s.decode(rec, &user)
	s.Equal("Ana", user.Name)

	rec = s.do(http.MethodGet, "/api/users/1", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestCatalog() {
	rec := s.do(http.MethodGet, "/api/languages", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var langs []models.Language
	s.decode(rec, &langs)
	s.Len(langs, 3)

	rec = s.do(http.MethodGet, "/api/games/2", nil)
	s.Require().Equal(http.StatusOK, rec.Code)
	var g models.Game
	s.decode(rec, &g)
	s.Equal("sentence-builder", g.Kind)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/games/99", nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/games/abc", nil).Code)

	rec = s.do(http.MethodGet, "/api/activities/image-ocr", nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *APISuite) TestProgressFlow() {
	report := models.ActivityReport{UserID: 3, ActivityType: "game", ActivityID: 1, Score: 5, Total: 5, LanguageCode: "hi", Completed: true}
	rec := s.do(http.MethodPost, "/api/user-activity", report)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	var p models.UserProgress
	s.decode(rec, &p)
	s.Equal(1, p.ActivitiesCompleted)
	s.Equal(3, p.Stars)
	s.Equal(5, p.VocabularyCount)

	rec = s.do(http.MethodPost, "/api/user-activity", models.ActivityReport{ActivityID: 1})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/users/3/progress", nil)
	var list []models.UserProgress
	s.decode(rec, &list)
	s.Len(list, 1)

	rec = s.do(http.MethodPost, "/api/users/3/progress", models.UserProgress{LanguageID: p.LanguageID})
	s.Equal(http.StatusConflict, rec.Code)

	level := 4
	rec = s.do(http.MethodPatch, "/api/users/3/progress/999", models.ProgressUpdate{Level: &level})
	s.Equal(http.StatusNotFound, rec.Code)

	rec = s.do(http.MethodPatch, "/api/users/3/progress/"+strconv.FormatInt(p.ID, 10), models.ProgressUpdate{Level: &level})
	s.Require().Equal(http.StatusOK, rec.Code)
	s.decode(rec, &p)
	s.Equal(4, p.Level)

	rec = s.do(http.MethodGet, "/api/users/3/activity-history", nil)
	var history []models.ActivityHistory
	s.decode(rec, &history)
	s.Len(history, 1)
}

func (s *APISuite) TestExtractedTextsJSON() {
	rec := s.do(http.MethodPost, "/api/users/2/extracted-texts", map[string]any{"languageId": 1, "text": "namaskaram"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	rec = s.do(http.MethodPost, "/api/users/2/extracted-texts", map[string]any{"languageId": 1})
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.do(http.MethodGet, "/api/users/2/extracted-texts", nil)
	var texts []models.ExtractedText
	s.decode(rec, &texts)
	s.Require().Len(texts, 1)
	s.Equal("namaskaram", texts[0].Text)
}

func (s *APISuite) multipart(fields map[string]string, image []byte) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		s.Require().NoError(mw.WriteField(k, v))
	}
	if image != nil {
		fw, err := mw.CreateFormFile("image", "photo.png")
		s.Require().NoError(err)
		_, err = fw.Write(image)
		s.Require().NoError(err)
	}
	s.Require().NoError(mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/users/2/extracted-texts", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func (s *APISuite) TestExtractedTextsMultipart() {
	rec := s.multipart(map[string]string{"languageId": "2"}, pngHeader)
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var text models.ExtractedText
	s.decode(rec, &text)
	s.Equal(services.PendingExtractionText, text.Text)
	s.Require().NotNil(text.ImageURL)
	s.True(strings.HasPrefix(*text.ImageURL, uploads.URLPrefix))

	served := s.do(http.MethodGet, *text.ImageURL, nil)
	s.Equal(http.StatusOK, served.Code)
	s.Equal(pngHeader, served.Body.Bytes())

	rec = s.multipart(map[string]string{"languageId": "2"}, []byte("%PDF-1.4 not an image"))
	s.Equal(http.StatusBadRequest, rec.Code)

	rec = s.multipart(map[string]string{"languageId": "2"}, append(pngHeader, make([]byte, 128)...))
	s.Equal(http.StatusRequestEntityTooLarge, rec.Code)

	rec = s.multipart(map[string]string{"languageId": "x", "text": "hi"}, nil)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestPronunciation() {
	req := services.PronunciationRequest{Reference: "I like books", Transcript: "I like books", Language: "en"}
	rec := s.do(http.MethodPost, "/api/pronunciation/compare", req)
	s.Require().Equal(http.StatusOK, rec.Code)
	var result pronunciation.Result
	s.decode(rec, &result)
	s.Equal(pronunciation.Correct, result.Verdict)

	rec = s.do(http.MethodPost, "/api/users/6/pronunciation", req)
	s.Require().Equal(http.StatusOK, rec.Code)
	var recorded services.RecordedPronunciation
	s.decode(rec, &recorded)
	s.Require().NotNil(recorded.Progress)
	s.Equal(100, recorded.Progress.ReadingAccuracy)

	rec = s.do(http.MethodPost, "/api/pronunciation/compare", services.PronunciationRequest{Transcript: "x"})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *APISuite) TestSessionLifecycle() {
	rec := s.do(http.MethodPost, "/api/sessions", services.CreateSessionInput{GameID: 1, Language: "te"})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())
	var v services.SessionView
	s.decode(rec, &v)
	s.Equal("word-match", string(v.Kind))
	s.Equal("te", v.Language)

	base := "/api/sessions/" + v.ID
	rec = s.do(http.MethodPost, base+"/actions", services.Action{Type: services.ActionSelectWord, ID: 1})
	s.Equal(http.StatusConflict, rec.Code, "not started")

	s.Equal(http.StatusOK, s.do(http.MethodPost, base+"/start", nil).Code)

	rec = s.do(http.MethodPost, base+"/actions", services.Action{Type: services.ActionInput, Text: "x"})
	s.Equal(http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPost, base+"/actions", services.Action{Type: services.ActionSelectWord, ID: 99999})
	s.Equal(http.StatusBadRequest, rec.Code)
	rec = s.do(http.MethodPost, base+"/actions", services.Action{})
	s.Equal(http.StatusBadRequest, rec.Code)

	s.Equal(http.StatusOK, s.do(http.MethodPost, base+"/restart", nil).Code)
	s.Equal(http.StatusOK, s.do(http.MethodGet, base, nil).Code)
	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, base, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, base, nil).Code)

	rec = s.do(http.MethodPost, "/api/sessions", services.CreateSessionInput{GameID: 42})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *APISuite) TestSessionEvents() {
	rec := s.do(http.MethodPost, "/api/sessions", services.CreateSessionInput{GameID: 2})
	s.Require().Equal(http.StatusCreated, rec.Code)
	var v services.SessionView
	s.decode(rec, &v)

	ts := httptest.NewServer(s.handler)
	defer ts.Close()

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Get(ts.URL + "/api/sessions/" + v.ID + "/events")
	s.Require().NoError(err)
	defer resp.Body.Close()
	s.Equal("text/event-stream", resp.Header.Get("Content-Type"))

	reader := bufio.NewReader(resp.Body)
	s.Equal("state", nextEvent(s.T(), reader))

	s.Equal(http.StatusOK, s.do(http.MethodPost, "/api/sessions/"+v.ID+"/start", nil).Code)
	s.Equal("state", nextEvent(s.T(), reader))

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, "/api/sessions/"+v.ID, nil).Code)
	for {
		name := nextEvent(s.T(), reader)
		if name == "closed" {
			break
		}
		s.Equal("state", name)
	}
}

// nextEvent reads one server-sent event and returns its name.
func nextEvent(t *testing.T, r *bufio.Reader) string {
	t.Helper()
	var name string
	for {
		line, err := r.ReadString('\n')
		require.NoError(t, err)
		line = strings.TrimRight(line, "\n")
		switch {
		case strings.HasPrefix(line, "event: "):
			name = strings.TrimPrefix(line, "event: ")
		case line == "" && name != "":
			return name
		}
	}
}

func TestAPISuite(t *testing.T) {
	suite.Run(t, new(APISuite))
}
