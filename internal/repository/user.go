package repository

import (
	"context"
	"errors"
	"time"

	"github.com/EnzoConsoli/Gastronauta-V2/internal/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for user data operations
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error
	SetResetCode(ctx context.Context, userID uint, codeHash string, expiresAt time.Time) error
	GetByEmailWithValidResetCode(ctx context.Context, email, codeHash string) (*models.User, error)
	ClearResetCode(ctx context.Context, userID uint) error
	HardDelete(ctx context.Context, userID uint) error
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) Update(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID uint, hashedPassword string) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Update("password", hashedPassword).Error
}

// SetResetCode stores the hashed reset code; only the hash ever touches the
// database.
func (r *userRepository) SetResetCode(ctx context.Context, userID uint, codeHash string, expiresAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_code_hash":       codeHash,
			"reset_code_expires_at": expiresAt,
		}).Error
}

// GetByEmailWithValidResetCode matches email + code hash and rejects expired
// codes in the same query.
func (r *userRepository) GetByEmailWithValidResetCode(ctx context.Context, email, codeHash string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ? AND reset_code_hash = ? AND reset_code_expires_at > ?", email, codeHash, time.Now()).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) ClearResetCode(ctx context.Context, userID uint) error {
	return r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]any{
			"reset_code_hash":       nil,
			"reset_code_expires_at": nil,
		}).Error
}

// HardDelete removes the account and everything it authored in one
// transaction: reactions, replies, ratings, likes, follows, recipes.
func (r *userRepository) HardDelete(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM rating_reactions WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rating_replies WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rating_reactions WHERE rating_id IN (SELECT id FROM ratings WHERE user_id = ?)", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rating_replies WHERE rating_id IN (SELECT id FROM ratings WHERE user_id = ?)", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM ratings WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM likes WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM follows WHERE follower_id = ? OR followed_id = ?", userID, userID).Error; err != nil {
			return err
		}
		// Recipes authored by the user, with their own dependents.
		if err := tx.Exec("DELETE FROM rating_replies WHERE rating_id IN (SELECT id FROM ratings WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?))", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM rating_reactions WHERE rating_id IN (SELECT id FROM ratings WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?))", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM ratings WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?)", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM likes WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?)", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipe_tags WHERE recipe_id IN (SELECT id FROM recipes WHERE user_id = ?)", userID).Error; err != nil {
			return err
		}
		if err := tx.Exec("DELETE FROM recipes WHERE user_id = ?", userID).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(&models.User{}, userID).Error
	})
	return err
}
