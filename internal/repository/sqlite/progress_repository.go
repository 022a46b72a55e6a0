package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

type progressRepository struct {
	db *sql.DB
}

// NewProgressRepository creates a new ProgressRepository implementation
func NewProgressRepository(db *sql.DB) repository.ProgressRepository {
	return &progressRepository{db: db}
}

func scanProgress(row scanner) (models.UserProgress, error) {
	var p models.UserProgress
	err := row.Scan(&p.ID, &p.UserID, &p.LanguageID, &p.ReadingAccuracy, &p.VocabularyCount,
		&p.ActivitiesCompleted, &p.TotalActivities, &p.LastActivity, &p.Level, &p.Stars)
	return p, err
}

func (r *progressRepository) selectProgress() squirrel.SelectBuilder {
	return sqlBuilder.Select(
		"id", "user_id", "language_id", "reading_accuracy", "vocabulary_count",
		"activities_completed", "total_activities", "last_activity", "level", "stars",
	).From("user_progress")
}

func (r *progressRepository) ListByUser(ctx context.Context, userID int64) ([]models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("listing progress: user_id=%d", userID)
	return queryRows(ctx, r.db, log, r.selectProgress().Where(squirrel.Eq{"user_id": userID}).OrderBy("id ASC"), scanProgress)
}

func (r *progressRepository) Get(ctx context.Context, id int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	return queryOne(ctx, r.db, log, r.selectProgress().Where(squirrel.Eq{"id": id}), scanProgress)
}

func (r *progressRepository) GetByUserLanguage(ctx context.Context, userID, languageID int64) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	return queryOne(ctx, r.db, log, r.selectProgress().Where(squirrel.Eq{"user_id": userID, "language_id": languageID}), scanProgress)
}

func (r *progressRepository) Insert(ctx context.Context, p models.UserProgress) (*models.UserProgress, error) {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("inserting progress: user_id=%d, language_id=%d", p.UserID, p.LanguageID)

	id, err := insert(ctx, r.db, log, sqlBuilder.Insert("user_progress").
		Columns("user_id", "language_id", "reading_accuracy", "vocabulary_count",
			"activities_completed", "total_activities", "last_activity", "level", "stars").
		Values(p.UserID, p.LanguageID, p.ReadingAccuracy, p.VocabularyCount,
			p.ActivitiesCompleted, p.TotalActivities, p.LastActivity, p.Level, p.Stars))
	if err != nil {
		return nil, err
	}
	p.ID = id
	return &p, nil
}

func (r *progressRepository) Update(ctx context.Context, p models.UserProgress) error {
	log := logger.FromContext(ctx).WithPrefix("progress_repo")
	log.Debug("updating progress: id=%d", p.ID)

	return update(ctx, r.db, log, sqlBuilder.Update("user_progress").
		Set("reading_accuracy", p.ReadingAccuracy).
		Set("vocabulary_count", p.VocabularyCount).
		Set("activities_completed", p.ActivitiesCompleted).
		Set("total_activities", p.TotalActivities).
		Set("last_activity", p.LastActivity).
		Set("level", p.Level).
		Set("stars", p.Stars).
		Where(squirrel.Eq{"id": p.ID}))
}
