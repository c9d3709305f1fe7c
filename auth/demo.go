package auth

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/camden-git/congoaddressmapper/models"
)

const (
	DemoUserID      = "demo-user-001"
	DemoUserName    = "Demo User"
	DemoUserEmail   = "demo@congo.cd"
	DemoLoginMethod = "demo"
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// DemoIdentity is the single built-in account of a demo deployment.
type DemoIdentity struct {
	passwordHash []byte
}

func NewDemoIdentity(password string) (*DemoIdentity, error) {
	if password == "" {
		return nil, errors.New("demo password must not be empty")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash demo password: %w", err)
	}
	return &DemoIdentity{passwordHash: hash}, nil
}

// User returns the demo administrator record.
func (d *DemoIdentity) User() models.User {
	name, email, method := DemoUserName, DemoUserEmail, DemoLoginMethod
	return models.User{
		ID:           DemoUserID,
		Name:         &name,
		Email:        &email,
		LoginMethod:  &method,
		Role:         models.RoleAdmin,
		PasswordHash: string(d.passwordHash),
	}
}

func (d *DemoIdentity) Caller() Caller {
	return Caller{ID: DemoUserID, Role: models.RoleAdmin}
}

// Authenticate checks the demo credentials. The email is case insensitive.
func (d *DemoIdentity) Authenticate(email, password string) (models.User, error) {
	if !strings.EqualFold(strings.TrimSpace(email), DemoUserEmail) {
		return models.User{}, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(d.passwordHash, []byte(password)); err != nil {
		return models.User{}, ErrInvalidCredentials
	}
	return d.User(), nil
}
