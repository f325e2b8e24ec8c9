package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Authenticable is the capability the session layer needs from an account.
type Authenticable interface {
	GetID() uint64
	GetUsername() string
	IsSuper() bool
	CheckPassword(password string) bool
}

type User struct {
	ID           uint64     `gorm:"primarykey" json:"id"`
	Username     string     `gorm:"type:varchar(150);uniqueIndex;not null" json:"username"`
	FirstName    string     `gorm:"type:varchar(150)" json:"first_name"`
	LastName     string     `gorm:"type:varchar(150)" json:"last_name"`
	Email        string     `gorm:"type:varchar(254)" json:"email"`
	PasswordHash string     `gorm:"type:varchar(255);not null" json:"-"`
	IsSuperuser  bool       `gorm:"not null;default:false" json:"is_superuser"`
	LastLogin    *time.Time `json:"last_login"`
	DateJoined   time.Time  `gorm:"autoCreateTime" json:"date_joined"`
}

func (u *User) GetID() uint64 {
	return u.ID
}

func (u *User) GetUsername() string {
	return u.Username
}

func (u *User) IsSuper() bool {
	return u.IsSuperuser
}

// CheckPassword compares a plaintext password against the stored bcrypt hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// SetPassword hashes and stores the given password.
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hash)
	return nil
}

// FullName returns "first last", trimmed of missing parts.
func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
