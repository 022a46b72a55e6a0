package sqlite

import (
	"context"
	"database/sql"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
)

type languageRepository struct {
	db *sql.DB
}

// NewLanguageRepository creates a new LanguageRepository implementation
func NewLanguageRepository(db *sql.DB) repository.LanguageRepository {
	return &languageRepository{db: db}
}

func scanLanguage(row scanner) (models.Language, error) {
	var l models.Language
	err := row.Scan(&l.ID, &l.Name, &l.Code, &l.ImageURL)
	return l, err
}

func (r *languageRepository) selectLanguages() squirrel.SelectBuilder {
	return sqlBuilder.Select("id", "name", "code", "image_url").From("languages")
}

func (r *languageRepository) List(ctx context.Context) ([]models.Language, error) {
	log := logger.FromContext(ctx).WithPrefix("language_repo")
	langs, err := queryRows(ctx, r.db, log, r.selectLanguages().OrderBy("id ASC"), scanLanguage)
	if err != nil {
		return nil, err
	}
	log.Debug("found %d languages", len(langs))
	return langs, nil
}

func (r *languageRepository) Get(ctx context.Context, id int64) (*models.Language, error) {
	log := logger.FromContext(ctx).WithPrefix("language_repo")
	return queryOne(ctx, r.db, log, r.selectLanguages().Where(squirrel.Eq{"id": id}), scanLanguage)
}

func (r *languageRepository) GetByCode(ctx context.Context, code string) (*models.Language, error) {
	log := logger.FromContext(ctx).WithPrefix("language_repo")
	log.Debug("getting language by code: %s", code)
	// code is declared COLLATE NOCASE
	return queryOne(ctx, r.db, log, r.selectLanguages().Where(squirrel.Eq{"code": code}), scanLanguage)
}

func (r *languageRepository) Insert(ctx context.Context, l models.Language) (*models.Language, error) {
	log := logger.FromContext(ctx).WithPrefix("language_repo")
	id, err := insert(ctx, r.db, log, sqlBuilder.Insert("languages").
		Columns("name", "code", "image_url").
		Values(l.Name, l.Code, l.ImageURL))
	if err != nil {
		return nil, err
	}
	l.ID = id
	return &l, nil
}
