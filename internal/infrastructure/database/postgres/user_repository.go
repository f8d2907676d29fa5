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

// UserRepository implements user.Repository on top of gorm.
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *user.User) error {
	now := time.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = u.CreatedAt

	dbModel := toUserModel(u)
	if err := r.db.DB.WithContext(ctx).Create(dbModel).Error; err != nil {
		if mapped := mapUserConflict(err); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uint) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).First(&dbModel, "id = ?", userID).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	var dbModel models.UserModel
	err := r.db.DB.WithContext(ctx).Where("email = ?", email).First(&dbModel).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, user.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) ([]*user.User, error) {
	var dbModels []models.UserModel
	err := r.db.DB.WithContext(ctx).
		Where("email = ? OR username = ?", email, username).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to look up users: %w", err)
	}

	users := make([]*user.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, u *user.User) error {
	return updateUserRow(r.db.DB.WithContext(ctx), u)
}

// UpdateWithAllergies writes the profile row and replaces the allergy set in
// one transaction.
func (r *UserRepository) UpdateWithAllergies(ctx context.Context, u *user.User, ingredientIDs []uint) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := updateUserRow(tx, u); err != nil {
			return err
		}
		return replaceAllergies(tx, u.ID, ingredientIDs)
	})
}

func updateUserRow(tx *gorm.DB, u *user.User) error {
	u.UpdatedAt = time.Now()

	result := tx.Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]any{
			"email":             u.Email,
			"full_name":         u.FullName,
			"country":           u.Country,
			"phone":             u.Phone,
			"profile_image_url": u.ProfileImageURL,
			"updated_at":        u.UpdatedAt,
		})

	if result.Error != nil {
		if mapped := mapUserConflict(result.Error); mapped != nil {
			return mapped
		}
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}

	return nil
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID uint, at time.Time) error {
	result := r.db.DB.WithContext(ctx).Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("last_login", at)

	if result.Error != nil {
		return fmt.Errorf("failed to update last login: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) ChangePassword(ctx context.Context, userID uint, passwordHash string, at time.Time) error {
	return r.db.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := setPasswordHash(tx, userID, passwordHash, at); err != nil {
			return err
		}
		return burnOutstandingTokens(tx, userID, at)
	})
}

func setPasswordHash(tx *gorm.DB, userID uint, passwordHash string, at time.Time) error {
	result := tx.Model(&models.UserModel{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    at,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update password: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return user.ErrUserNotFound
	}
	return nil
}

func burnOutstandingTokens(tx *gorm.DB, userID uint, at time.Time) error {
	err := tx.Model(&models.PasswordResetTokenModel{}).
		Where("user_id = ? AND used = ?", userID, false).
		Updates(map[string]any{
			"used":    true,
			"used_at": at,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to invalidate reset tokens: %w", err)
	}
	return nil
}

func mapUserConflict(err error) error {
	constraint, ok := uniqueViolation(err)
	if !ok {
		return nil
	}
	switch constraint {
	case models.UsersEmailIndex:
		return user.ErrEmailTaken
	case models.UsersUsernameIndex:
		return user.ErrUsernameTaken
	default:
		return fmt.Errorf("unique constraint %s violated: %w", constraint, err)
	}
}

func toUserModel(u *user.User) *models.UserModel {
	return &models.UserModel{
		ID:              u.ID,
		Username:        u.Username,
		Email:           u.Email,
		PasswordHash:    u.PasswordHash,
		FullName:        u.FullName,
		Country:         u.Country,
		Phone:           u.Phone,
		ProfileImageURL: u.ProfileImageURL,
		LastLogin:       u.LastLogin,
		CreatedAt:       u.CreatedAt,
		UpdatedAt:       u.UpdatedAt,
	}
}

func toUserEntity(m *models.UserModel) *user.User {
	return &user.User{
		ID:              m.ID,
		Username:        m.Username,
		Email:           m.Email,
		PasswordHash:    m.PasswordHash,
		FullName:        m.FullName,
		Country:         m.Country,
		Phone:           m.Phone,
		ProfileImageURL: m.ProfileImageURL,
		LastLogin:       m.LastLogin,
		CreatedAt:       m.CreatedAt,
		UpdatedAt:       m.UpdatedAt,
	}
}
