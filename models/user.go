package models

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Role values understood by the permission table
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User is an operator of the mapper: surveyor, reviewer or administrator.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:64"`
	Name         *string   `json:"name,omitempty"`
	Email        *string   `json:"email,omitempty" gorm:"size:320;uniqueIndex"`
	LoginMethod  *string   `json:"loginMethod,omitempty" gorm:"size:64"`
	Role         string    `json:"role" gorm:"size:10;not null;default:user"`
	PasswordHash string    `json:"-" gorm:""` // "-" means don't include in JSON responses
	CreatedAt    time.Time `json:"createdAt" gorm:"autoCreateTime"`
	LastSignedIn time.Time `json:"lastSignedIn" gorm:"autoCreateTime"`
}

func (User) TableName() string {
	return "users"
}

// SetPassword hashes the given password and sets it on the user model.
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the given password matches the user's hashed password.
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
