package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

type activityRepository struct {
	db *sql.DB
}

// NewActivityRepository creates a new ActivityRepository implementation
func NewActivityRepository(db *sql.DB) repository.ActivityRepository {
	return &activityRepository{db: db}
}

func scanActivity(row scanner) (models.Activity, error) {
	var a models.Activity
	var langs string
	if err := row.Scan(&a.ID, &a.Title, &a.Description, &a.Type, &a.ImageURL, &a.Duration, &a.Category, &a.Badge, &langs); err != nil {
		return a, err
	}
	var err error
	a.Languages, err = decodeList(langs)
	return a, err
}

func (r *activityRepository) selectActivities() squirrel.SelectBuilder {
	return sqlBuilder.Select("id", "title", "description", "type", "image_url", "duration", "category", "badge", "languages").
		From("activities").
		OrderBy("id ASC")
}

func (r *activityRepository) List(ctx context.Context) ([]models.Activity, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	return queryRows(ctx, r.db, log, r.selectActivities(), scanActivity)
}

func (r *activityRepository) ListByType(ctx context.Context, activityType string) ([]models.Activity, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	log.Debug("listing activities by type: %s", activityType)
	return queryRows(ctx, r.db, log, r.selectActivities().Where(squirrel.Eq{"type": activityType}), scanActivity)
}

func (r *activityRepository) Get(ctx context.Context, id int64) (*models.Activity, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	return queryOne(ctx, r.db, log, r.selectActivities().Where(squirrel.Eq{"id": id}), scanActivity)
}

func (r *activityRepository) Insert(ctx context.Context, a models.Activity) (*models.Activity, error) {
	log := logger.FromContext(ctx).WithPrefix("activity_repo")
	langs, err := encodeList(a.Languages)
	if err != nil {
		return nil, err
	}
	id, err := insert(ctx, r.db, log, sqlBuilder.Insert("activities").
		Columns("title", "description", "type", "image_url", "duration", "category", "badge", "languages").
		Values(a.Title, a.Description, a.Type, a.ImageURL, a.Duration, a.Category, a.Badge, langs))
	if err != nil {
		return nil, err
	}
	a.ID = id
	return &a, nil
}

type gameRepository struct {
	db *sql.DB
}

// NewGameRepository creates a new GameRepository implementation
func NewGameRepository(db *sql.DB) repository.GameRepository {
	return &gameRepository{db: db}
}

func scanGame(row scanner) (models.Game, error) {
	var g models.Game
	var langs string
	if err := row.Scan(&g.ID, &g.Title, &g.Description, &g.ImageURL, &g.Difficulty, &g.Kind, &langs); err != nil {
		return g, err
	}
	var err error
	g.Languages, err = decodeList(langs)
	return g, err
}

func (r *gameRepository) selectGames() squirrel.SelectBuilder {
	return sqlBuilder.Select("id", "title", "description", "image_url", "difficulty", "kind", "languages").
		From("games").
		OrderBy("id ASC")
}

func (r *gameRepository) List(ctx context.Context) ([]models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	return queryRows(ctx, r.db, log, r.selectGames(), scanGame)
}

func (r *gameRepository) Get(ctx context.Context, id int64) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	log.Debug("getting game: id=%d", id)
	return queryOne(ctx, r.db, log, r.selectGames().Where(squirrel.Eq{"id": id}), scanGame)
}

func (r *gameRepository) Insert(ctx context.Context, g models.Game) (*models.Game, error) {
	log := logger.FromContext(ctx).WithPrefix("game_repo")
	langs, err := encodeList(g.Languages)
	if err != nil {
		return nil, err
	}
	id, err := insert(ctx, r.db, log, sqlBuilder.Insert("games").
		Columns("title", "description", "image_url", "difficulty", "kind", "languages").
		Values(g.Title, g.Description, g.ImageURL, g.Difficulty, g.Kind, langs))
	if err != nil {
		return nil, err
	}
	g.ID = id
	return &g, nil
}
