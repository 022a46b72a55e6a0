package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

type historyRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new HistoryRepository implementation
func NewHistoryRepository(db *sql.DB) repository.HistoryRepository {
	return &historyRepository{db: db}
}

func scanHistory(row scanner) (models.ActivityHistory, error) {
	var h models.ActivityHistory
	var feedback sql.NullString
	if err := row.Scan(&h.ID, &h.UserID, &h.ActivityID, &h.LanguageID, &h.StartTime, &h.EndTime, &h.Score, &feedback); err != nil {
		return h, err
	}
	if feedback.Valid && feedback.String != "" {
		h.Feedback = json.RawMessage(feedback.String)
	}
	return h, nil
}

func feedbackValue(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return string(raw)
}

func (r *historyRepository) selectHistory() squirrel.SelectBuilder {
	return sqlBuilder.Select("id", "user_id", "activity_id", "language_id", "start_time", "end_time", "score", "feedback").
		From("user_activity_history")
}

func (r *historyRepository) ListByUser(ctx context.Context, userID int64) ([]models.ActivityHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("listing history: user_id=%d", userID)
	return queryRows(ctx, r.db, log, r.selectHistory().Where(squirrel.Eq{"user_id": userID}).OrderBy("start_time ASC", "id ASC"), scanHistory)
}

func (r *historyRepository) Get(ctx context.Context, id int64) (*models.ActivityHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	return queryOne(ctx, r.db, log, r.selectHistory().Where(squirrel.Eq{"id": id}), scanHistory)
}

func (r *historyRepository) Insert(ctx context.Context, h models.ActivityHistory) (*models.ActivityHistory, error) {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("inserting history: user_id=%d, activity_id=%d", h.UserID, h.ActivityID)

	if h.StartTime.IsZero() {
		h.StartTime = time.Now().UTC()
	}
	id, err := insert(ctx, r.db, log, sqlBuilder.Insert("user_activity_history").
		Columns("user_id", "activity_id", "language_id", "start_time", "end_time", "score", "feedback").
		Values(h.UserID, h.ActivityID, h.LanguageID, h.StartTime, h.EndTime, h.Score, feedbackValue(h.Feedback)))
	if err != nil {
		return nil, err
	}
	h.ID = id
	return &h, nil
}

func (r *historyRepository) Update(ctx context.Context, h models.ActivityHistory) error {
	log := logger.FromContext(ctx).WithPrefix("history_repo")
	log.Debug("updating history: id=%d", h.ID)

	return update(ctx, r.db, log, sqlBuilder.Update("user_activity_history").
		Set("end_time", h.EndTime).
		Set("score", h.Score).
		Set("feedback", feedbackValue(h.Feedback)).
		Where(squirrel.Eq{"id": h.ID}))
}
