package services

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"math"
	"strings"
	"sync"

	"github.com/jonboulle/clockwork"
	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/game"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

// Games whose score counts words the learner recognised.
var vocabularyKinds = map[string]bool{
	string(game.KindWordMatch): true,
	string(game.KindRapidFire): true,
}

// ProgressService owns user progress and activity history
type ProgressService interface {
	ListProgress(ctx context.Context, userID int64) ([]models.UserProgress, error)
	CreateProgress(ctx context.Context, userID int64, progress models.UserProgress) (*models.UserProgress, error)
	UpdateProgress(ctx context.Context, userID, progressID int64, update models.ProgressUpdate) (*models.UserProgress, error)

	// RecordActivity folds a completed activity into the user's progress
	// for the reported language and appends a history entry.
	RecordActivity(ctx context.Context, report models.ActivityReport) (*models.UserProgress, error)
	// Record is RecordActivity without the result, for report delivery.
	Record(ctx context.Context, report models.ActivityReport) error
	// RecordReadingAccuracy blends a 0..100 accuracy into readingAccuracy.
	RecordReadingAccuracy(ctx context.Context, userID int64, languageCode string, accuracy float64) (*models.UserProgress, error)

	ListHistory(ctx context.Context, userID int64) ([]models.ActivityHistory, error)
	CreateHistory(ctx context.Context, userID int64, entry models.ActivityHistory) (*models.ActivityHistory, error)
	UpdateHistory(ctx context.Context, userID, historyID int64, update models.HistoryUpdate) (*models.ActivityHistory, error)
}

type progressService struct {
	progressRepo repository.ProgressRepository
	historyRepo  repository.HistoryRepository
	languageRepo repository.LanguageRepository
	gameRepo     repository.GameRepository
	clock        clockwork.Clock
	defaultLang  string

	// serializes read-modify-write of progress rows
	mu sync.Mutex
}

// NewProgressService creates a new ProgressService. Reports for an unknown
// language code are credited to defaultLanguage.
func NewProgressService(store repository.Store, clock clockwork.Clock, defaultLanguage string) ProgressService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &progressService{
		progressRepo: store.Progress,
		historyRepo:  store.History,
		languageRepo: store.Languages,
		gameRepo:     store.Games,
		clock:        clock,
		defaultLang:  defaultLanguage,
	}
}

func (s *progressService) ListProgress(ctx context.Context, userID int64) ([]models.UserProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing progress: user_id=%d", userID)

	list, err := s.progressRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return list, nil
}

func (s *progressService) CreateProgress(ctx context.Context, userID int64, p models.UserProgress) (*models.UserProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating progress: user_id=%d, language_id=%d", userID, p.LanguageID)

	if err := s.requireLanguage(ctx, p.LanguageID); err != nil {
		return nil, err
	}
	if p.ReadingAccuracy < 0 || p.VocabularyCount < 0 || p.ActivitiesCompleted < 0 || p.Stars < 0 {
		return nil, errors.NewValidationError("progress", "counters cannot be negative")
	}

	p.ID = 0
	p.UserID = userID
	if p.TotalActivities <= 0 {
		p.TotalActivities = models.DefaultTotalActivities
	}
	if p.Level <= 0 {
		p.Level = 1
	}
	if p.LastActivity == nil {
		now := s.clock.Now()
		p.LastActivity = &now
	}

	created, err := s.progressRepo.Insert(ctx, p)
	if err != nil {
		return nil, mapInsertError(ctx, "progress for this language already exists", err)
	}
	return created, nil
}

func (s *progressService) UpdateProgress(ctx context.Context, userID, progressID int64, update models.ProgressUpdate) (*models.UserProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating progress: user_id=%d, progress_id=%d", userID, progressID)

	if update.Empty() {
		return nil, errors.NewBadRequestError("no fields to update")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.progressRepo.Get(ctx, progressID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p == nil || p.UserID != userID {
		return nil, errors.NewNotFoundError("progress", progressID)
	}

	update.Apply(p)
	now := s.clock.Now()
	p.LastActivity = &now
	if err := s.progressRepo.Update(ctx, *p); err != nil {
		log.Error("failed to update progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return p, nil
}

func (s *progressService) Record(ctx context.Context, report models.ActivityReport) error {
	_, err := s.RecordActivity(ctx, report)
	return err
}

func (s *progressService) RecordActivity(ctx context.Context, report models.ActivityReport) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithFields(map[string]any{
		"user_id":     report.UserID,
		"activity_id": report.ActivityID,
	})
	log.Debug("recording activity: type=%s, score=%d/%d, language=%s", report.ActivityType, report.Score, report.Total, report.LanguageCode)

	if err := report.Validate(); err != nil {
		return nil, errors.NewBadRequestError(err.Error())
	}
	if report.ActivityType == "" {
		report.ActivityType = models.ActivityTypeGame
	}

	lang, err := s.resolveLanguage(ctx, report.LanguageCode)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	feedback, err := json.Marshal(map[string]any{
		"total":        report.Total,
		"activityType": report.ActivityType,
		"completed":    report.Completed,
	})
	if err != nil {
		return nil, errors.NewInternalError(err)
	}
	score := report.Score
	if _, err := s.historyRepo.Insert(ctx, models.ActivityHistory{
		UserID:     report.UserID,
		ActivityID: report.ActivityID,
		LanguageID: lang.ID,
		StartTime:  now,
		EndTime:    &now,
		Score:      &score,
		Feedback:   feedback,
	}); err != nil {
		return nil, mapInsertError(ctx, "history entry already exists", err)
	}

	vocabulary := 0
	if report.ActivityType == models.ActivityTypeGame {
		g, err := s.gameRepo.Get(ctx, report.ActivityID)
		if err != nil {
			log.Error("failed to get game: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if g != nil && vocabularyKinds[g.Kind] {
			vocabulary = min(report.Score, report.Total)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.progressFor(ctx, report.UserID, lang.ID)
	if err != nil {
		return nil, err
	}
	p.ActivitiesCompleted++
	p.VocabularyCount += vocabulary
	p.Stars += Stars(report.Ratio())
	p.Level = 1 + p.ActivitiesCompleted/10
	p.LastActivity = &now

	if err := s.progressRepo.Update(ctx, *p); err != nil {
		log.Error("failed to update progress: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("activity recorded: language=%s, activities=%d, stars=%d, level=%d", lang.Code, p.ActivitiesCompleted, p.Stars, p.Level)
	return p, nil
}

// Stars awards 3, 2 or 1 star for a score ratio of at least 0.9, at least
// 0.6, or anything above zero.
func Stars(ratio float64) int {
	switch {
	case ratio >= 0.9:
		return 3
	case ratio >= 0.6:
		return 2
	case ratio > 0:
		return 1
	default:
		return 0
	}
}

func (s *progressService) RecordReadingAccuracy(ctx context.Context, userID int64, languageCode string, accuracy float64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx)
	log.Debug("recording reading accuracy: user_id=%d, language=%s, accuracy=%.1f", userID, languageCode, accuracy)

	if userID <= 0 {
		return nil, errors.NewValidationError("userId", "must be positive")
	}
	if accuracy < 0 || accuracy > 100 || math.IsNaN(accuracy) {
		return nil, errors.NewValidationError("accuracy", "must be between 0 and 100")
	}

	lang, err := s.resolveLanguage(ctx, languageCode)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.progressFor(ctx, userID, lang.ID)
	if err != nil {
		return nil, err
	}
	percent := int(math.Round(accuracy))
	if p.ReadingAccuracy > 0 {
		percent = int(math.Round(float64(p.ReadingAccuracy+percent) / 2))
	}
	p.ReadingAccuracy = percent
	now := s.clock.Now()
	p.LastActivity = &now

	if err := s.progressRepo.Update(ctx, *p); err != nil {
		log.Error("failed to update progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return p, nil
}

func (s *progressService) ListHistory(ctx context.Context, userID int64) ([]models.ActivityHistory, error) {
	log := logger.FromContext(ctx)
	log.Debug("listing history: user_id=%d", userID)

	list, err := s.historyRepo.ListByUser(ctx, userID)
	if err != nil {
		log.Error("failed to list history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return list, nil
}

func (s *progressService) CreateHistory(ctx context.Context, userID int64, entry models.ActivityHistory) (*models.ActivityHistory, error) {
	log := logger.FromContext(ctx)
	log.Debug("creating history: user_id=%d, activity_id=%d", userID, entry.ActivityID)

	if entry.ActivityID <= 0 {
		return nil, errors.NewValidationError("activityId", "must be positive")
	}
	if err := s.requireLanguage(ctx, entry.LanguageID); err != nil {
		return nil, err
	}
	if len(entry.Feedback) > 0 && !json.Valid(entry.Feedback) {
		return nil, errors.NewValidationError("feedback", "must be valid JSON")
	}

	entry.ID = 0
	entry.UserID = userID
	entry.StartTime = s.clock.Now()
	entry.EndTime = nil

	created, err := s.historyRepo.Insert(ctx, entry)
	if err != nil {
		return nil, mapInsertError(ctx, "history entry already exists", err)
	}
	return created, nil
}

func (s *progressService) UpdateHistory(ctx context.Context, userID, historyID int64, update models.HistoryUpdate) (*models.ActivityHistory, error) {
	log := logger.FromContext(ctx)
	log.Debug("updating history: user_id=%d, history_id=%d", userID, historyID)

	if len(update.Feedback) > 0 && !json.Valid(update.Feedback) {
		return nil, errors.NewValidationError("feedback", "must be valid JSON")
	}

	h, err := s.historyRepo.Get(ctx, historyID)
	if err != nil {
		log.Error("failed to get history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if h == nil || h.UserID != userID {
		return nil, errors.NewNotFoundError("activity history", historyID)
	}

	update.Apply(h)
	if err := s.historyRepo.Update(ctx, *h); err != nil {
		if stderrors.Is(err, repository.ErrNotFound) {
			return nil, errors.NewNotFoundError("activity history", historyID)
		}
		log.Error("failed to update history: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return h, nil
}

// resolveLanguage looks up code, falling back to the default language.
func (s *progressService) resolveLanguage(ctx context.Context, code string) (*models.Language, error) {
	log := logger.FromContext(ctx)
	code = strings.TrimSpace(code)
	if code != "" {
		lang, err := s.languageRepo.GetByCode(ctx, code)
		if err != nil {
			log.Error("failed to get language: %v", err)
			return nil, errors.NewInternalError(err)
		}
		if lang != nil {
			return lang, nil
		}
		log.Warn("unknown language %q, crediting %s", code, s.defaultLang)
	}

	lang, err := s.languageRepo.GetByCode(ctx, s.defaultLang)
	if err != nil {
		log.Error("failed to get default language: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if lang == nil {
		return nil, errors.NewNotFoundError("language", s.defaultLang)
	}
	return lang, nil
}

func (s *progressService) requireLanguage(ctx context.Context, languageID int64) error {
	if languageID <= 0 {
		return errors.NewValidationError("languageId", "must be positive")
	}
	lang, err := s.languageRepo.Get(ctx, languageID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to get language: %v", err)
		return errors.NewInternalError(err)
	}
	if lang == nil {
		return errors.NewValidationError("languageId", "unknown language")
	}
	return nil
}

// progressFor returns the progress row for (userID, languageID), creating a
// fresh one when none exists. Callers hold s.mu.
func (s *progressService) progressFor(ctx context.Context, userID, languageID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx)
	p, err := s.progressRepo.GetByUserLanguage(ctx, userID, languageID)
	if err != nil {
		log.Error("failed to get progress: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if p != nil {
		return p, nil
	}

	log.Debug("creating progress row: user_id=%d, language_id=%d", userID, languageID)
	p, err = s.progressRepo.Insert(ctx, models.UserProgress{
		UserID:          userID,
		LanguageID:      languageID,
		TotalActivities: models.DefaultTotalActivities,
		Level:           1,
	})
	if err != nil {
		return nil, mapInsertError(ctx, "progress for this language already exists", err)
	}
	return p, nil
}

func mapInsertError(ctx context.Context, conflict string, err error) error {
	switch {
	case stderrors.Is(err, repository.ErrDuplicate):
		return errors.NewConflictError(conflict, err)
	case stderrors.Is(err, repository.ErrMissingReference):
		return errors.NewBadRequestError("referenced user or language does not exist")
	default:
		logger.FromContext(ctx).Error("insert failed: %v", err)
		return errors.NewInternalError(err)
	}
}
