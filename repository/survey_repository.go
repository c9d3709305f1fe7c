package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/camden-git/congoaddressmapper/auth"
	"github.com/camden-git/congoaddressmapper/database"
	"github.com/camden-git/congoaddressmapper/models"
)

type SurveyRepository struct {
	store *database.Provider
}

func NewSurveyRepository(store *database.Provider) *SurveyRepository {
	return &SurveyRepository{store: store}
}

// Start opens a session for caller. If caller already has an active session
// that session is returned instead and started is false.
func (r *SurveyRepository) Start(ctx context.Context, caller auth.Caller, id, provinceID string) (session *models.SurveySession, started bool, err error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, false, invalid("id", "is required")
	}
	if caller.IsZero() {
		return nil, false, auth.ErrUnauthorized
	}

	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, false, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		active, err := activeSession(tx, caller.ID)
		if err != nil {
			return err
		}
		if active != nil {
			session = active
			return nil
		}

		s := &models.SurveySession{
			ID:         id,
			SurveyorID: caller.ID,
			Status:     models.SurveyActive,
		}
		if provinceID != "" {
			s.ProvinceID = &provinceID
		}
		if err := tx.Create(s).Error; err != nil {
			return createErr(err, "survey session", id)
		}
		session, started = s, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return session, started, nil
}

// GetActive returns the caller's active session or ErrNotFound.
func (r *SurveyRepository) GetActive(ctx context.Context, caller auth.Caller) (*models.SurveySession, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	session, err := activeSession(db, caller.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fmt.Errorf("active survey session for %s: %w", caller.ID, ErrNotFound)
	}
	return session, nil
}

func activeSession(db *gorm.DB, surveyorID string) (*models.SurveySession, error) {
	var session models.SurveySession
	err := db.Where("surveyor_id = ? AND status = ?", surveyorID, models.SurveyActive).
		Order("started_at DESC").
		First(&session).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up active survey session for %s: %w", surveyorID, err)
	}
	return &session, nil
}

// End completes the session and stamps endedAt.
func (r *SurveyRepository) End(ctx context.Context, id string) (*models.SurveySession, error) {
	now := time.Now().UTC()
	return r.setStatus(ctx, id, nil, map[string]any{"status": models.SurveyCompleted, "ended_at": now})
}

// Pause suspends an active or paused session. Completed sessions stay completed.
func (r *SurveyRepository) Pause(ctx context.Context, id string) (*models.SurveySession, error) {
	return r.setStatus(ctx, id, func(session *models.SurveySession) error {
		if session.Status == models.SurveyCompleted {
			return invalid("status", "a completed session cannot be paused")
		}
		return nil
	}, map[string]any{"status": models.SurveyPaused})
}

// Resume reactivates a paused session unless its surveyor already has another active one.
func (r *SurveyRepository) Resume(ctx context.Context, id string) (*models.SurveySession, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var resumed *models.SurveySession
	err = db.Transaction(func(tx *gorm.DB) error {
		session, err := getSession(tx, id)
		if err != nil {
			return err
		}
		if session.Status == models.SurveyCompleted {
			return invalid("status", "a completed session cannot be resumed")
		}
		active, err := activeSession(tx, session.SurveyorID)
		if err != nil {
			return err
		}
		if active != nil && active.ID != id {
			return invalid("status", "surveyor already has an active session")
		}
		if err := tx.Model(&models.SurveySession{}).Where("id = ?", id).Update("status", models.SurveyActive).Error; err != nil {
			return fmt.Errorf("failed to resume survey session %s: %w", id, err)
		}
		resumed, err = getSession(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resumed, nil
}

func (r *SurveyRepository) setStatus(ctx context.Context, id string, check func(*models.SurveySession) error, values map[string]any) (*models.SurveySession, error) {
	db, err := r.store.DB(ctx)
	if err != nil {
		return nil, err
	}
	var session *models.SurveySession
	err = db.Transaction(func(tx *gorm.DB) error {
		current, err := getSession(tx, id)
		if err != nil {
			return err
		}
		if check != nil {
			if err := check(current); err != nil {
				return err
			}
		}
		if err := tx.Model(&models.SurveySession{}).Where("id = ?", id).Updates(values).Error; err != nil {
			return fmt.Errorf("failed to update survey session %s: %w", id, err)
		}
		session, err = getSession(tx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

func getSession(db *gorm.DB, id string) (*models.SurveySession, error) {
	var session models.SurveySession
	if err := db.Where("id = ?", id).First(&session).Error; err != nil {
		return nil, notFound(err, "survey session", id)
	}
	return &session, nil
}

// IncrementCollected bumps the counter of the surveyor's active session, if any.
func (r *SurveyRepository) IncrementCollected(ctx context.Context, surveyorID string) error {
	db, err := r.store.DB(ctx)
	if err != nil {
		return err
	}
	err = db.Model(&models.SurveySession{}).
		Where("surveyor_id = ? AND status = ?", surveyorID, models.SurveyActive).
		UpdateColumn("addresses_collected", gorm.Expr("addresses_collected + 1")).
		Error
	if err != nil {
		return fmt.Errorf("failed to increment survey session counter for %s: %w", surveyorID, err)
	}
	return nil
}

