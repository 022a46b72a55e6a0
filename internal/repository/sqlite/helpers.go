package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/repository"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

// New returns a Store backed by db. The schema must already be migrated.
func New(db *sql.DB) repository.Store {
	return repository.Store{
		Users:          NewUserRepository(db),
		Languages:      NewLanguageRepository(db),
		Progress:       NewProgressRepository(db),
		Activities:     NewActivityRepository(db),
		Games:          NewGameRepository(db),
		History:        NewHistoryRepository(db),
		ExtractedTexts: NewExtractedTextRepository(db),
	}
}

type scanner interface {
	Scan(dest ...any) error
}

// insert runs an INSERT and returns the new row id. Unique constraint
// violations become repository.ErrDuplicate and foreign key violations
// repository.ErrMissingReference.
func insert(ctx context.Context, db *sql.DB, log *logger.Logger, q squirrel.InsertBuilder) (int64, error) {
	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return 0, err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		if isUniqueViolation(err) {
			log.Debug("insert rejected by unique constraint: %v", err)
			return 0, repository.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			log.Debug("insert rejected by foreign key: %v", err)
			return 0, repository.ErrMissingReference
		}
		log.Error("failed to insert: %v", err)
		return 0, err
	}
	return res.LastInsertId()
}

// update runs an UPDATE and maps zero affected rows to repository.ErrNotFound.
func update(ctx context.Context, db *sql.DB, log *logger.Logger, q squirrel.UpdateBuilder) error {
	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return err
	}
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update: %v", err)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// queryRows runs a SELECT and scans every row with scan.
func queryRows[T any](ctx context.Context, db *sql.DB, log *logger.Logger, q squirrel.SelectBuilder, scan func(scanner) (T, error)) ([]T, error) {
	query, args, err := q.ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query: %v", err)
		return nil, err
	}
	defer rows.Close()

	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			log.Error("failed to scan row: %v", err)
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// queryOne returns (nil, nil) when the query matches nothing.
func queryOne[T any](ctx context.Context, db *sql.DB, log *logger.Logger, q squirrel.SelectBuilder, scan func(scanner) (T, error)) (*T, error) {
	query, args, err := q.Limit(1).ToSql()
	if err != nil {
		log.Error("failed to build query: %v", err)
		return nil, err
	}
	v, err := scan(db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		log.Error("failed to query row: %v", err)
		return nil, err
	}
	return &v, nil
}

func isUniqueViolation(err error) bool {
	var se sqlite3.Error
	if errors.As(err, &se) {
		return se.ExtendedCode == sqlite3.ErrConstraintUnique || se.ExtendedCode == sqlite3.ErrConstraintPrimaryKey
	}
	return false
}

func isForeignKeyViolation(err error) bool {
	var se sqlite3.Error
	return errors.As(err, &se) && se.ExtendedCode == sqlite3.ErrConstraintForeignKey
}

func encodeList(list []string) (string, error) {
	if list == nil {
		list = []string{}
	}
	b, err := json.Marshal(list)
	return string(b), err
}

func decodeList(raw string) ([]string, error) {
	var list []string
	if raw == "" {
		return []string{}, nil
	}
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, err
	}
	return list, nil
}
