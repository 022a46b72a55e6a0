package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

type extractedTextRepository struct {
	db *sql.DB
}

// NewExtractedTextRepository creates a new ExtractedTextRepository implementation
func NewExtractedTextRepository(db *sql.DB) repository.ExtractedTextRepository {
	return &extractedTextRepository{db: db}
}

func scanExtractedText(row scanner) (models.ExtractedText, error) {
	var e models.ExtractedText
	err := row.Scan(&e.ID, &e.UserID, &e.LanguageID, &e.Text, &e.ImageURL, &e.CreatedAt)
	return e, err
}

func (r *extractedTextRepository) ListByUser(ctx context.Context, userID int64) ([]models.ExtractedText, error) {
	log := logger.FromContext(ctx).WithPrefix("extracted_text_repo")
	log.Debug("listing extracted texts: user_id=%d", userID)
	return queryRows(ctx, r.db, log, sqlBuilder.
		Select("id", "user_id", "language_id", "text", "image_url", "created_at").
		From("extracted_texts").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("created_at ASC", "id ASC"), scanExtractedText)
}

func (r *extractedTextRepository) Insert(ctx context.Context, e models.ExtractedText) (*models.ExtractedText, error) {
	log := logger.FromContext(ctx).WithPrefix("extracted_text_repo")
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	id, err := insert(ctx, r.db, log, sqlBuilder.Insert("extracted_texts").
		Columns("user_id", "language_id", "text", "image_url", "created_at").
		Values(e.UserID, e.LanguageID, e.Text, e.ImageURL, e.CreatedAt))
	if err != nil {
		return nil, err
	}
	e.ID = id
	log.Debug("extracted text inserted: id=%d", id)
	return &e, nil
}
