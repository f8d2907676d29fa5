package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"restaurant-review-api/internal/domain/user"
	"restaurant-review-api/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// ResetTokenRepository implements user.ResetTokenRepository.
type ResetTokenRepository struct {
	db *DB
}

func NewResetTokenRepository(db *DB) *ResetTokenRepository {
	return &ResetTokenRepository{db: db}
}

func (r *ResetTokenRepository) Create(ctx context.Context, token *user.PasswordResetToken) error {
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now()
	}
	token.Used = false
	token.UsedAt = nil

	dbModel := toResetTokenModel(token)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		return fmt.Errorf("failed to create reset token: %w", err)
	}

	token.ID = dbModel.ID
	return nil
}

func (r *ResetTokenRepository) GetByToken(ctx context.Context, token string) (*user.PasswordResetToken, error) {
	var dbModel models.PasswordResetTokenModel
	err := r.db.DB.WithContext(ctx).Where("token = ?", token).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrResetTokenNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get reset token: %w", err)
	}

	return toResetTokenEntity(&dbModel), nil
}

// Consume runs the three reset writes in one transaction. The presented token
// is only marked when it is still unused, so two concurrent resets with the
// same token cannot both succeed.
func (r *ResetTokenRepository) Consume(ctx context.Context, token *user.PasswordResetToken, passwordHash string, at time.Time) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setPasswordHash(tx, token.UserID, passwordHash, at); err != nil {
			return err
		}

		result := tx.Model(&models.PasswordResetTokenModel{}).
			Where("id = ? AND used = ?", token.ID, false).
			Updates(map[string]any{
				"used":    true,
				"used_at": at,
			})
		if result.Error != nil {
			return fmt.Errorf("failed to mark reset token used: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return user.ErrResetTokenConsumed
		}

		return burnOutstandingTokens(tx, token.UserID, at)
	})
}

func (r *ResetTokenRepository) Stats(ctx context.Context, now time.Time) (*user.ResetTokenStats, error) {
	var stats user.ResetTokenStats
	db := r.db.DB.WithContext(ctx).Model(&models.PasswordResetTokenModel{})

	if err := db.Session(&gorm.Session{}).Where("used = ? AND expires_at > ?", false, now).Count(&stats.Active).Error; err != nil {
		return nil, fmt.Errorf("failed to count active reset tokens: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("used = ? AND expires_at <= ?", false, now).Count(&stats.Expired).Error; err != nil {
		return nil, fmt.Errorf("failed to count expired reset tokens: %w", err)
	}
	if err := db.Session(&gorm.Session{}).Where("used = ?", true).Count(&stats.Used).Error; err != nil {
		return nil, fmt.Errorf("failed to count used reset tokens: %w", err)
	}

	return &stats, nil
}

func toResetTokenModel(t *user.PasswordResetToken) *models.PasswordResetTokenModel {
	return &models.PasswordResetTokenModel{
		ID:        t.ID,
		UserID:    t.UserID,
		Token:     t.Token,
		ExpiresAt: t.ExpiresAt,
		Used:      t.Used,
		UsedAt:    t.UsedAt,
		CreatedAt: t.CreatedAt,
	}
}

func toResetTokenEntity(m *models.PasswordResetTokenModel) *user.PasswordResetToken {
	return &user.PasswordResetToken{
		ID:        m.ID,
		UserID:    m.UserID,
		Token:     m.Token,
		ExpiresAt: m.ExpiresAt,
		Used:      m.Used,
		UsedAt:    m.UsedAt,
		CreatedAt: m.CreatedAt,
	}
}
