package memory

import (
	"context"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

// New returns an empty in-memory store. clock stamps creation times; nil uses
// the real clock.
func New(clock clockwork.Clock) repository.Store {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return repository.Store{
		Users:          &userRepository{clock: clock, rows: newTable(cloneUser)},
		Languages:      &languageRepository{rows: newTable(cloneLanguage)},
		Progress:       &progressRepository{rows: newTable(cloneProgress)},
		Activities:     &activityRepository{rows: newTable(cloneActivity)},
		Games:          &gameRepository{rows: newTable(cloneGame)},
		History:        &historyRepository{clock: clock, rows: newTable(cloneHistory)},
		ExtractedTexts: &extractedTextRepository{clock: clock, rows: newTable(cloneExtractedText)},
	}
}

func found[T any](row T, ok bool) (*T, error) {
	if !ok {
		return nil, nil
	}
	return &row, nil
}

type userRepository struct {
	clock clockwork.Clock
	rows  *table[models.User]
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	return found(r.rows.get(id))
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	return found(r.rows.find(func(u models.User) bool { return u.Username == username }))
}

func (r *userRepository) Insert(ctx context.Context, user models.User) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	if user.CreatedAt.IsZero() {
		user.CreatedAt = r.clock.Now()
	}
	stored, ok := r.rows.insert(user, func(u *models.User, id int64) { u.ID = id },
		func(existing models.User) bool { return existing.Username == user.Username })
	if !ok {
		log.Debug("username already taken: %s", user.Username)
		return nil, repository.ErrDuplicate
	}
	log.Debug("user inserted: id=%d", stored.ID)
	return &stored, nil
}

type languageRepository struct {
	rows *table[models.Language]
}

func (r *languageRepository) List(ctx context.Context) ([]models.Language, error) {
	return r.rows.filter(nil), nil
}

func (r *languageRepository) Get(ctx context.Context, id int64) (*models.Language, error) {
	return found(r.rows.get(id))
}

func (r *languageRepository) GetByCode(ctx context.Context, code string) (*models.Language, error) {
	return found(r.rows.find(func(l models.Language) bool { return strings.EqualFold(l.Code, code) }))
}

func (r *languageRepository) Insert(ctx context.Context, language models.Language) (*models.Language, error) {
	stored, ok := r.rows.insert(language, func(l *models.Language, id int64) { l.ID = id },
		func(existing models.Language) bool { return strings.EqualFold(existing.Code, language.Code) })
	if !ok {
		return nil, repository.ErrDuplicate
	}
	return &stored, nil
}

type progressRepository struct {
	rows *table[models.UserProgress]
}

func (r *progressRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserProgress, error) {
	return r.rows.filter(func(p models.UserProgress) bool { return p.UserID == userID }), nil
}

func (r *progressRepository) Get(ctx context.Context, id int64) (*models.UserProgress, error) {
	return found(r.rows.get(id))
}

func (r *progressRepository) GetByUserLanguage(ctx context.Context, userID, languageID int64) (*models.UserProgress, error) {
	return found(r.rows.find(func(p models.UserProgress) bool {
		return p.UserID == userID && p.LanguageID == languageID
	}))
}

func (r *progressRepository) Insert(ctx context.Context, progress models.UserProgress) (*models.UserProgress, error) {
	stored, ok := r.rows.insert(progress, func(p *models.UserProgress, id int64) { p.ID = id },
		func(existing models.UserProgress) bool {
			return existing.UserID == progress.UserID && existing.LanguageID == progress.LanguageID
		})
	if !ok {
		return nil, repository.ErrDuplicate
	}
	logger.FromContext(ctx).WithPrefix("progress_repo").Debug("progress inserted: id=%d user_id=%d", stored.ID, stored.UserID)
	return &stored, nil
}

func (r *progressRepository) Update(ctx context.Context, progress models.UserProgress) error {
	if !r.rows.replace(progress.ID, progress) {
		return repository.ErrNotFound
	}
	return nil
}

type activityRepository struct {
	rows *table[models.Activity]
}

func (r *activityRepository) List(ctx context.Context) ([]models.Activity, error) {
	return r.rows.filter(nil), nil
}

func (r *activityRepository) ListByType(ctx context.Context, activityType string) ([]models.Activity, error) {
	return r.rows.filter(func(a models.Activity) bool { return a.Type == activityType }), nil
}

func (r *activityRepository) Get(ctx context.Context, id int64) (*models.Activity, error) {
	return found(r.rows.get(id))
}

func (r *activityRepository) Insert(ctx context.Context, activity models.Activity) (*models.Activity, error) {
	stored, _ := r.rows.insert(activity, func(a *models.Activity, id int64) { a.ID = id }, nil)
	return &stored, nil
}

type gameRepository struct {
	rows *table[models.Game]
}

func (r *gameRepository) List(ctx context.Context) ([]models.Game, error) {
	return r.rows.filter(nil), nil
}

func (r *gameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	return found(r.rows.get(id))
}

func (r *gameRepository) Insert(ctx context.Context, game models.Game) (*models.Game, error) {
	stored, _ := r.rows.insert(game, func(g *models.Game, id int64) { g.ID = id }, nil)
	return &stored, nil
}

type historyRepository struct {
	clock clockwork.Clock
	rows  *table[models.ActivityHistory]
}

func (r *historyRepository) ListByUser(ctx context.Context, userID int64) ([]models.ActivityHistory, error) {
	return r.rows.filter(func(h models.ActivityHistory) bool { return h.UserID == userID }), nil
}

func (r *historyRepository) Get(ctx context.Context, id int64) (*models.ActivityHistory, error) {
	return found(r.rows.get(id))
}

func (r *historyRepository) Insert(ctx context.Context, entry models.ActivityHistory) (*models.ActivityHistory, error) {
	if entry.StartTime.IsZero() {
		entry.StartTime = r.clock.Now()
	}
	stored, _ := r.rows.insert(entry, func(h *models.ActivityHistory, id int64) { h.ID = id }, nil)
	logger.FromContext(ctx).WithPrefix("history_repo").Debug("history inserted: id=%d user_id=%d", stored.ID, stored.UserID)
	return &stored, nil
}

func (r *historyRepository) Update(ctx context.Context, entry models.ActivityHistory) error {
	if !r.rows.replace(entry.ID, entry) {
		return repository.ErrNotFound
	}
	return nil
}

type extractedTextRepository struct {
	clock clockwork.Clock
	rows  *table[models.ExtractedText]
}

func (r *extractedTextRepository) ListByUser(ctx context.Context, userID int64) ([]models.ExtractedText, error) {
	return r.rows.filter(func(e models.ExtractedText) bool { return e.UserID == userID }), nil
}

func (r *extractedTextRepository) Insert(ctx context.Context, text models.ExtractedText) (*models.ExtractedText, error) {
	if text.CreatedAt.IsZero() {
		text.CreatedAt = r.clock.Now()
	}
	stored, _ := r.rows.insert(text, func(e *models.ExtractedText, id int64) { e.ID = id }, nil)
	return &stored, nil
}
