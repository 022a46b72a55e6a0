package services

import (
	"context"
	stderrors "errors"
	"net/mail"
	"strings"

	"github.com/vytor/lingoplay/internal/errors"
	"github.com/vytor/lingoplay/internal/logger"
	"github.com/vytor/lingoplay/internal/models"
	"github.com/vytor/lingoplay/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

// UserService handles registration and credential checks
type UserService interface {
	Register(ctx context.Context, reg models.Registration) (*models.User, error)
	Login(ctx context.Context, creds models.Credentials) (*models.User, error)
	GetUser(ctx context.Context, id int64) (*models.User, error)
}

type userService struct {
	userRepo repository.UserRepository
	cost     int
}

// NewUserService creates a new UserService. cost is the bcrypt cost; values
// outside bcrypt's range fall back to bcrypt.DefaultCost.
func NewUserService(userRepo repository.UserRepository, cost int) UserService {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &userService{userRepo: userRepo, cost: cost}
}

func (s *userService) Register(ctx context.Context, reg models.Registration) (*models.User, error) {
	log := logger.FromContext(ctx)
	reg.Username = strings.TrimSpace(reg.Username)
	log.Debug("registering user: username=%s", reg.Username)

	if reg.Username == "" {
		return nil, errors.NewValidationError("username", "cannot be empty")
	}
	if len(reg.Password) < minPasswordLength {
		return nil, errors.NewValidationError("password", "must be at least 6 characters")
	}
	if strings.TrimSpace(reg.Name) == "" {
		return nil, errors.NewValidationError("name", "cannot be empty")
	}
	if _, err := mail.ParseAddress(reg.Email); err != nil {
		return nil, errors.NewValidationError("email", "must be a valid address")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(reg.Password), s.cost)
	if err != nil {
		log.Error("failed to hash password: %v", err)
		return nil, errors.NewInternalError(err)
	}

	user, err := s.userRepo.Insert(ctx, models.User{
		Username:     reg.Username,
		PasswordHash: string(hash),
		Name:         reg.Name,
		Email:        reg.Email,
		Avatar:       reg.Avatar,
	})
	if err != nil {
		if stderrors.Is(err, repository.ErrDuplicate) {
			return nil, errors.NewConflictError("username already exists", err)
		}
		log.Error("failed to insert user: %v", err)
		return nil, errors.NewInternalError(err)
	}

	log.Info("user registered: id=%d", user.ID)
	return user, nil
}

func (s *userService) Login(ctx context.Context, creds models.Credentials) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("login attempt: username=%s", creds.Username)

	user, err := s.userRepo.GetByUsername(ctx, strings.TrimSpace(creds.Username))
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewUnauthorizedError("invalid username or password")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(creds.Password)); err != nil {
		log.Debug("password mismatch: user_id=%d", user.ID)
		return nil, errors.NewUnauthorizedError("invalid username or password")
	}
	return user, nil
}

func (s *userService) GetUser(ctx context.Context, id int64) (*models.User, error) {
	log := logger.FromContext(ctx)
	log.Debug("getting user: id=%d", id)

	user, err := s.userRepo.Get(ctx, id)
	if err != nil {
		log.Error("failed to get user: %v", err)
		return nil, errors.NewInternalError(err)
	}
	if user == nil {
		return nil, errors.NewNotFoundError("user", id)
	}
	return user, nil
}
