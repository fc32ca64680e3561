package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/capitalize-ai/telegram-storefront/internal/model"
)

// UserRepository stores Telegram users in Postgres.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a user repository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// UpsertUser creates the user on first contact and refreshes the profile
// fields afterwards. The user is matched by Telegram id.
func (r *UserRepository) UpsertUser(ctx context.Context, u model.User) (*model.User, error) {
	now := time.Now().UTC()
	rec := userRecord{
		ID:         uuid.Must(uuid.NewV7()).String(),
		TelegramID: u.TelegramID,
		FirstName:  u.FirstName,
		LastName:   u.LastName,
		Username:   u.Username,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var stored userRecord
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "telegram_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"first_name", "last_name", "username", "updated_at"}),
		}).Create(&rec).Error; err != nil {
			return err
		}
		return tx.Where("telegram_id = ?", u.TelegramID).First(&stored).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}

	return stored.toModel(), nil
}
