package services

import (
	"context"
	"errors"
	"fmt"
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

var ErrPositionNotFound = errors.New("position not found")

// PositionService provides business logic for positions.
type PositionService struct {
	positionRepo repository.PositionRepository
	avatars      storage.AvatarStore
}

// NewPositionService creates a new PositionService. The avatar store is
// needed to clean up after workers removed with their position.
func NewPositionService(positionRepo repository.PositionRepository, avatars storage.AvatarStore) *PositionService {
	return &PositionService{positionRepo: positionRepo, avatars: avatars}
}

// PositionInput holds the editable fields of a position.
type PositionInput struct {
	Name string
}

func (in PositionInput) validate() error {
	v := &ValidationError{}
	name := strings.TrimSpace(in.Name)
	switch {
	case name == "":
		v.add("name", locale.T("form.required"))
	case len(name) > constants.MaxNameLength:
		v.add("name", locale.T("form.max", fmt.Sprintf("Param==%d", constants.MaxNameLength)))
	}
	return v.orNil()
}

// List returns a page of positions whose name contains the query.
func (s *PositionService) List(ctx context.Context, input ListInput) (*Listing[models.Position], error) {
	params := utils.NewPaginationParams(input.Page, constants.PositionPageSize)
	positions, total, err := s.positionRepo.List(ctx, repository.ListFilter{Query: input.Query, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}

	return &Listing[models.Position]{
		Items: positions,
		Page:  utils.NewPage(params, total),
		Query: input.Query,
	}, nil
}

// All returns every position, for select inputs.
func (s *PositionService) All(ctx context.Context) ([]models.Position, error) {
	positions, err := s.positionRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list positions: %w", err)
	}
	return positions, nil
}

// Get returns a position with its workers.
func (s *PositionService) Get(ctx context.Context, id uint64) (*models.Position, error) {
	return s.find(ctx, id, "Workers")
}

func (s *PositionService) find(ctx context.Context, id uint64, preload ...string) (*models.Position, error) {
	position, err := s.positionRepo.FindByID(ctx, id, preload...)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPositionNotFound
		}
		return nil, fmt.Errorf("failed to find position: %w", err)
	}
	return position, nil
}

func (s *PositionService) Create(ctx context.Context, input PositionInput) (*models.Position, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	position := &models.Position{Name: strings.TrimSpace(input.Name)}
	if err := s.positionRepo.Create(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to create position: %w", err)
	}
	return position, nil
}

func (s *PositionService) Update(ctx context.Context, id uint64, input PositionInput) (*models.Position, error) {
	position, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := input.validate(); err != nil {
		return nil, err
	}

	position.Name = strings.TrimSpace(input.Name)
	if err := s.positionRepo.Update(ctx, position); err != nil {
		return nil, fmt.Errorf("failed to update position: %w", err)
	}
	return position, nil
}

// Delete removes the position and, with it, every worker holding it.
func (s *PositionService) Delete(ctx context.Context, id uint64) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}

	avatars, err := s.positionRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete position: %w", err)
	}

	dropAvatars(ctx, s.avatars, avatars...)
	logger.Infof("position %d deleted with its workers", id)
	return nil
}
