package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yukikurage/task-manager/internal/authz"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"gorm.io/gorm"
)

var ErrInvalidCredentials = errors.New("invalid username or password")

// AuthService handles authentication related business logic.
type AuthService struct {
	workerRepo repository.WorkerRepository
	now        func() time.Time
}

// NewAuthService creates a new AuthService.
func NewAuthService(workerRepo repository.WorkerRepository) *AuthService {
	return &AuthService{
		workerRepo: workerRepo,
		now:        time.Now,
	}
}

// LoginInput holds the credentials for authentication.
type LoginInput struct {
	Username string
	Password string
}

// Login verifies credentials, records the login time and returns the user.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	user, err := s.workerRepo.FindUserByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !user.CheckPassword(input.Password) {
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	if err := s.workerRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		logger.Warningf("failed to record login of %s: %v", user.Username, err)
	} else {
		user.LastLogin = &now
	}

	return user, nil
}

// Actor loads the worker behind a session.
func (s *AuthService) Actor(ctx context.Context, id uint64) (authz.Actor, error) {
	worker, err := s.workerRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return authz.Actor{}, ErrWorkerNotFound
		}
		return authz.Actor{}, fmt.Errorf("failed to find worker: %w", err)
	}
	return authz.ActorFor(worker), nil
}
