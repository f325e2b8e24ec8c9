package dto

import (
	"time"

	"github.com/yukikurage/task-manager/internal/models"
)

// PositionDTO represents a position in a dump
type PositionDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// UserDTO represents an account in a dump. Unlike the model it keeps the
// password hash so that restored accounts can still log in.
type UserDTO struct {
	ID           uint64     `json:"id"`
	Username     string     `json:"username"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	IsSuperuser  bool       `json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `json:"date_joined"`
}

// WorkerDTO represents the worker half of an account in a dump
type WorkerDTO struct {
	UserID     uint64 `json:"user_id"`
	PositionID uint64 `json:"position_id"`
	Avatar     string `json:"avatar,omitempty"`
}

// ToPositionDTO converts a Position model to PositionDTO
func ToPositionDTO(position models.Position) PositionDTO {
	return PositionDTO{
		ID:   position.ID,
		Name: position.Name,
	}
}

func (d PositionDTO) Model() models.Position {
	return models.Position{ID: d.ID, Name: d.Name}
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:           user.ID,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		Email:        user.Email,
		PasswordHash: user.PasswordHash,
		IsSuperuser:  user.IsSuperuser,
		LastLogin:    user.LastLogin,
		DateJoined:   user.DateJoined,
	}
}

func (d UserDTO) Model() models.User {
	return models.User{
		ID:           d.ID,
		Username:     d.Username,
		FirstName:    d.FirstName,
		LastName:     d.LastName,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		IsSuperuser:  d.IsSuperuser,
		LastLogin:    d.LastLogin,
		DateJoined:   d.DateJoined,
	}
}

// ToWorkerDTO converts a Worker model to WorkerDTO
func ToWorkerDTO(worker models.Worker) WorkerDTO {
	return WorkerDTO{
		UserID:     worker.UserID,
		PositionID: worker.PositionID,
		Avatar:     worker.Avatar,
	}
}

func (d WorkerDTO) Model() models.Worker {
	return models.Worker{
		UserID:     d.UserID,
		PositionID: d.PositionID,
		Avatar:     d.Avatar,
	}
}
