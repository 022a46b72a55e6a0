package repository

import (
	"context"

	"github.com/vytor/lingoplay/internal/models"
)

// Lookups return (nil, nil) when the record does not exist.

// UserRepository handles user data access
type UserRepository interface {
	Get(ctx context.Context, id int64) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Insert(ctx context.Context, user models.User) (*models.User, error)
}

// LanguageRepository handles language data access
type LanguageRepository interface {
	List(ctx context.Context) ([]models.Language, error)
	Get(ctx context.Context, id int64) (*models.Language, error)
	GetByCode(ctx context.Context, code string) (*models.Language, error)
	Insert(ctx context.Context, language models.Language) (*models.Language, error)
}

// ProgressRepository handles per-language user progress
type ProgressRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.UserProgress, error)
	Get(ctx context.Context, id int64) (*models.UserProgress, error)
	GetByUserLanguage(ctx context.Context, userID, languageID int64) (*models.UserProgress, error)
	Insert(ctx context.Context, progress models.UserProgress) (*models.UserProgress, error)
	Update(ctx context.Context, progress models.UserProgress) error
}

// ActivityRepository handles the featured activity catalog
type ActivityRepository interface {
	List(ctx context.Context) ([]models.Activity, error)
	ListByType(ctx context.Context, activityType string) ([]models.Activity, error)
	Get(ctx context.Context, id int64) (*models.Activity, error)
	Insert(ctx context.Context, activity models.Activity) (*models.Activity, error)
}

// GameRepository handles the game catalog
type GameRepository interface {
	List(ctx context.Context) ([]models.Game, error)
	Get(ctx context.Context, id int64) (*models.Game, error)
	Insert(ctx context.Context, game models.Game) (*models.Game, error)
}

// HistoryRepository handles activity history entries
type HistoryRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.ActivityHistory, error)
	Get(ctx context.Context, id int64) (*models.ActivityHistory, error)
	Insert(ctx context.Context, entry models.ActivityHistory) (*models.ActivityHistory, error)
	Update(ctx context.Context, entry models.ActivityHistory) error
}

// ExtractedTextRepository handles text captured from images
type ExtractedTextRepository interface {
	ListByUser(ctx context.Context, userID int64) ([]models.ExtractedText, error)
	Insert(ctx context.Context, text models.ExtractedText) (*models.ExtractedText, error)
}

// Store groups the repositories of one backend.
type Store struct {
	Users          UserRepository
	Languages      LanguageRepository
	Progress       ProgressRepository
	Activities     ActivityRepository
	Games          GameRepository
	History        HistoryRepository
	ExtractedTexts ExtractedTextRepository
}
