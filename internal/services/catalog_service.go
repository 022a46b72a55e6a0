package services

import (
	"context"
	"strings"

	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

// CatalogService serves the read-only language, activity and game catalogs
type CatalogService interface {
	ListLanguages(ctx context.Context) ([]models.Language, error)
	GetLanguageByCode(ctx context.Context, code string) (*models.Language, error)
	ListGames(ctx context.Context) ([]models.Game, error)
	GetGame(ctx context.Context, id int64) (*models.Game, error)
	ListActivities(ctx context.Context) ([]models.Activity, error)
	ListActivitiesByType(ctx context.Context, activityType string) ([]models.Activity, error)
}

type catalogService struct {
	languageRepo repository.LanguageRepository
	activityRepo repository.ActivityRepository
	gameRepo     repository.GameRepository
}

// NewCatalogService creates a new CatalogService
func NewCatalogService(languageRepo repository.LanguageRepository, activityRepo repository.ActivityRepository, gameRepo repository.GameRepository) CatalogService {
	return &catalogService{languageRepo: languageRepo, activityRepo: activityRepo, gameRepo: gameRepo}
}

func (s *catalogService) ListLanguages(ctx context.Context) ([]models.Language, error) {
	langs, err := s.languageRepo.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list languages: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return langs, nil
}

func (s *catalogService) GetLanguageByCode(ctx context.Context, code string) (*models.Language, error) {
	log := logger.FromContext(ctx)
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, errors.NewValidationError("languageCode", "cannot be empty")
	}

	lang, err := s.languageRepo.GetByCode(ctx, code)
	if err != nil {
		log.Error("failed to get language: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if lang == nil {
		return nil, errors.NewNotFoundError("language", code)
	}
	return lang, nil
}

func (s *catalogService) ListGames(ctx context.Context) ([]models.Game, error) {
	games, err := s.gameRepo.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list games: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return games, nil
}

func (s *catalogService) GetGame(ctx context.Context, id int64) (*models.Game, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting game: id=%d", id)

	game, err := s.gameRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get game: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if game == nil {
		return nil, errors.NewNotFoundError("game", id)
	}
	return game, nil
}

func (s *catalogService) ListActivities(ctx context.Context) ([]models.Activity, error) {
	activities, err := s.activityRepo.List(ctx)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list activities: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return activities, nil
}

func (s *catalogService) ListActivitiesByType(ctx context.Context, activityType string) ([]models.Activity, error) {
	activities, err := s.activityRepo.ListByType(ctx, activityType)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list activities by type: %v", err)
		return nil, errors.NewInternalError(err)
	}
	return activities, nil
}
