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

var userColumns = []string{"id", "username", "password_hash", "name", "email", "avatar", "created_at"}

type userRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new UserRepository implementation
func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func scanUser(row scanner) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Name, &u.Email, &u.Avatar, &u.CreatedAt)
	return u, err
}

func (r *userRepository) Get(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user: id=%d", id)
	return queryOne(ctx, r.db, log, sqlBuilder.Select(userColumns...).From("users").Where(squirrel.Eq{"id": id}), scanUser)
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("getting user by username: %s", username)
	return queryOne(ctx, r.db, log, sqlBuilder.Select(userColumns...).From("users").Where(squirrel.Eq{"username": username}), scanUser)
}

func (r *userRepository) Insert(ctx context.Context, u models.User) (*models.User, error) {
	log := logger.FromContext(ctx).WithPrefix("user_repo")
	log.Debug("inserting user: username=%s", u.Username)

	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	id, err := insert(ctx, r.db, log, sqlBuilder.Insert("users").
		Columns("username", "password_hash", "name", "email", "avatar", "created_at").
		Values(u.Username, u.PasswordHash, u.Name, u.Email, u.Avatar, u.CreatedAt))
	if err != nil {
		return nil, err
	}
	u.ID = id
	log.Debug("user inserted: id=%d", id)
	return &u, nil
}
