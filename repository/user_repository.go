package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm/clause"

	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/models"
)

type UserRepository struct {
	store *database.Provider
}

func NewUserRepository(store *database.Provider) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.Where("id = ?", id).First(&user).Error; err != nil {
		return nil, notFound(err, "user", id)
	}
	return &user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var user models.User
	if err := db.Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error; err != nil {
		return nil, notFound(err, "user", email)
	}
	return &user, nil
}

// Upsert inserts the user or refreshes its profile fields and lastSignedIn.
// Role and password hash of an existing row are kept.
func (r *UserRepository) Upsert(ctx context.Context, user *models.User) error {
	if strings.TrimSpace(user.ID) == "" {
		return invalid("id", "is required")
	}
	if user.Email != nil {
		e := strings.ToLower(strings.TrimSpace(*user.Email))
		user.Email = &e
	}
	if user.Role == "" {
		user.Role = models.RoleUser
	}
	user.LastSignedIn = time.Now().UTC()

	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "email", "login_method", "last_signed_in"}),
	}).Create(user).Error
	if err != nil {
		return fmt.Errorf("failed to upsert user %s: %w", user.ID, err)
	}
	return nil
}
