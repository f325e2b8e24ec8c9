package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/yukikurage/task-manager/internal/constants"
	"github.com/yukikurage/task-manager/internal/locale"
	"github.com/yukikurage/task-manager/internal/logger"
	"github.com/yukikurage/task-manager/internal/models"
	"github.com/yukikurage/task-manager/internal/repository"
	"github.com/yukikurage/task-manager/internal/storage"
	"github.com/yukikurage/task-manager/internal/utils"
	"gorm.io/gorm"
)

var (
	ErrWorkerNotFound       = errors.New("worker not found")
	ErrFailedToHashPassword = errors.New("failed to hash password")
	ErrFailedToCreateUser   = errors.New("failed to create user")
	ErrFailedToCreateWorker = errors.New("failed to create worker")
)

// WorkerService handles registration and profile management of workers.
type WorkerService struct {
	workerRepo   repository.WorkerRepository
	positionRepo repository.PositionRepository
	avatars      storage.AvatarStore
}

// NewWorkerService creates a new WorkerService.
func NewWorkerService(workerRepo repository.WorkerRepository, positionRepo repository.PositionRepository, avatars storage.AvatarStore) *WorkerService {
	return &WorkerService{
		workerRepo:   workerRepo,
		positionRepo: positionRepo,
		avatars:      avatars,
	}
}

// ProfileInput holds the account fields shared by registration and update.
type ProfileInput struct {
	Username   string
	FirstName  string
	LastName   string
	Email      string
	PositionID uint64
}

// RegisterInput represents a self-registration. Avatar may be nil.
type RegisterInput struct {
	ProfileInput
	Password1 string
	Password2 string
	Avatar    io.Reader
}

// UpdateInput represents a profile edit. Avatar may be nil.
type UpdateInput struct {
	ProfileInput
	Avatar io.Reader
}

func (s *WorkerService) validateProfile(ctx context.Context, v *ValidationError, in *ProfileInput, workerID uint64) error {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	switch {
	case in.Username == "":
		v.add("username", locale.T("form.required"))
	case len(in.Username) > constants.MaxUsernameLength:
		v.add("username", locale.T("form.max", fmt.Sprintf("Param==%d", constants.MaxUsernameLength)))
	default:
		taken, err := s.workerRepo.UsernameTaken(ctx, in.Username, workerID)
		if err != nil {
			return fmt.Errorf("failed to check username: %w", err)
		}
		if taken {
			v.add("username", locale.T("form.usernameTaken"))
		}
	}

	if _, err := s.positionRepo.FindByID(ctx, in.PositionID); err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to find position: %w", err)
		}
		v.add("position", locale.T("form.choice"))
	}
	return nil
}

// thumbnail turns an upload into avatar bytes; nil means no upload.
func thumbnail(v *ValidationError, r io.Reader) ([]byte, error) {
	if r == nil {
		return nil, nil
	}

	data, err := storage.Thumbnail(r)
	switch {
	case errors.Is(err, storage.ErrInvalidImage):
		v.add("avatar", locale.T("form.avatarInvalid"))
		return nil, nil
	case errors.Is(err, storage.ErrImageTooLarge):
		v.add("avatar", locale.T("form.avatarTooLarge"))
		return nil, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read avatar: %w", err)
	}
	return data, nil
}

func (s *WorkerService) storeAvatar(ctx context.Context, data []byte) (string, error) {
	name := storage.NewAvatarName()
	if err := s.avatars.Save(ctx, name, data); err != nil {
		return "", fmt.Errorf("failed to store avatar: %w", err)
	}
	return name, nil
}

func (s *WorkerService) dropAvatar(ctx context.Context, name string) {
	dropAvatars(ctx, s.avatars, name)
}

// dropAvatars removes stored avatars whose rows are already gone. Failures
// only leave an orphaned object behind, so they are logged.
func dropAvatars(ctx context.Context, avatars storage.AvatarStore, names ...string) {
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := avatars.Delete(ctx, name); err != nil {
			logger.Warningf("failed to delete avatar %s: %v", name, err)
		}
	}
}

// Register creates a worker together with its account.
func (s *WorkerService) Register(ctx context.Context, input RegisterInput) (*models.Worker, error) {
	return s.register(ctx, input, false)
}

// CreateSuperuser registers an account that passes every permission check.
func (s *WorkerService) CreateSuperuser(ctx context.Context, input RegisterInput) (*models.Worker, error) {
	return s.register(ctx, input, true)
}

func (s *WorkerService) register(ctx context.Context, input RegisterInput, superuser bool) (*models.Worker, error) {
	v := &ValidationError{}
	if err := s.validateProfile(ctx, v, &input.ProfileInput, 0); err != nil {
		return nil, err
	}
	validatePassword(v, input.Password1, input.Password2)
	avatar, err := thumbnail(v, input.Avatar)
	if err != nil {
		return nil, err
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    input.Username,
		FirstName:   input.FirstName,
		LastName:    input.LastName,
		Email:       input.Email,
		IsSuperuser: superuser,
	}
	if err := user.SetPassword(input.Password1); err != nil {
		return nil, ErrFailedToHashPassword
	}

	worker := &models.Worker{PositionID: input.PositionID}
	if avatar != nil {
		if worker.Avatar, err = s.storeAvatar(ctx, avatar); err != nil {
			return nil, err
		}
	}

	if err := s.workerRepo.Create(ctx, user, worker); err != nil {
		s.dropAvatar(ctx, worker.Avatar)
		switch {
		case errors.Is(err, repository.ErrCreateUser):
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateUser, err)
		case errors.Is(err, repository.ErrCreateWorker):
			return nil, fmt.Errorf("%w: %v", ErrFailedToCreateWorker, err)
		default:
			return nil, fmt.Errorf("failed to complete registration: %w", err)
		}
	}

	logger.Infof("worker %s registered", user.Username)
	return worker, nil
}

// List returns a page of workers whose username contains the query.
func (s *WorkerService) List(ctx context.Context, input ListInput) (*Listing[models.Worker], error) {
	params := utils.NewPaginationParams(input.Page, constants.WorkerPageSize)
	workers, total, err := s.workerRepo.List(ctx, repository.ListFilter{Query: input.Query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}

	return &Listing[models.Worker]{
		Items: workers,
		Page:  utils.NewPage(params, total),
		Query: input.Query,
	}, nil
}

// All returns every worker, for assignee inputs.
func (s *WorkerService) All(ctx context.Context) ([]models.Worker, error) {
	workers, err := s.workerRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workers: %w", err)
	}
	return workers, nil
}

// Get returns a worker with account and position.
func (s *WorkerService) Get(ctx context.Context, id uint64) (*models.Worker, error) {
	worker, err := s.workerRepo.FindByID(ctx, id, "Position")
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWorkerNotFound
		}
		return nil, fmt.Errorf("failed to find worker: %w", err)
	}
	return worker, nil
}

// Update edits the profile; the password is never changed here.
func (s *WorkerService) Update(ctx context.Context, id uint64, input UpdateInput) (*models.Worker, error) {
	worker, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	v := &ValidationError{}
	if err := s.validateProfile(ctx, v, &input.ProfileInput, id); err != nil {
		return nil, err
	}
	avatar, err := thumbnail(v, input.Avatar)
	if err != nil {
		return nil, err
	}
	if err := v.orNil(); err != nil {
		return nil, err
	}

	previous := worker.Avatar
	if avatar != nil {
		if worker.Avatar, err = s.storeAvatar(ctx, avatar); err != nil {
			return nil, err
		}
	}

	worker.User.Username = input.Username
	worker.User.FirstName = input.FirstName
	worker.User.LastName = input.LastName
	worker.User.Email = input.Email
	worker.PositionID = input.PositionID

	if err := s.workerRepo.Update(ctx, worker); err != nil {
		if worker.Avatar != previous {
			s.dropAvatar(ctx, worker.Avatar)
		}
		return nil, fmt.Errorf("failed to update worker: %w", err)
	}

	if worker.Avatar != previous {
		s.dropAvatar(ctx, previous)
	}
	return worker, nil
}

// SetAvatar replaces the worker's avatar. A nil reader leaves it unchanged.
func (s *WorkerService) SetAvatar(ctx context.Context, id uint64, r io.Reader) error {
	worker, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	v := &ValidationError{}
	avatar, err := thumbnail(v, r)
	if err != nil {
		return err
	}
	if err := v.orNil(); err != nil {
		return err
	}
	if avatar == nil {
		return nil
	}

	name, err := s.storeAvatar(ctx, avatar)
	if err != nil {
		return err
	}
	if err := s.workerRepo.SetAvatar(ctx, id, name); err != nil {
		s.dropAvatar(ctx, name)
		return fmt.Errorf("failed to save avatar: %w", err)
	}

	s.dropAvatar(ctx, worker.Avatar)
	return nil
}

// OpenAvatar streams a stored avatar.
func (s *WorkerService) OpenAvatar(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	return s.avatars.Open(ctx, name)
}

// Delete removes the worker, the account, their comments and assignments.
func (s *WorkerService) Delete(ctx context.Context, id uint64) error {
	worker, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.workerRepo.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete worker: %w", err)
	}

	s.dropAvatar(ctx, worker.Avatar)
	logger.Infof("worker %s deleted", worker.User.Username)
	return nil
}
