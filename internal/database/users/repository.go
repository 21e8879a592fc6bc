// Package users provides database operations for user accounts.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.GetUserByLogin("alice")
package users

import (
	"time"

	"gorm.io/gorm"

	"github.com/mrlokans/doclabel/internal/entities"
)

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(user *entities.User) error {
	return r.db.Create(user).Error
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByLogin retrieves a user whose username or email equals login.
func (r *Repository) GetUserByLogin(login string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("username = ? OR email = ?", login, login).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetUserByTokenHash retrieves a user by the SHA-256 hash of their API token.
func (r *Repository) GetUserByTokenHash(tokenHash string) (*entities.User, error) {
	var user entities.User
	err := r.db.Where("token_hash = ?", tokenHash).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *Repository) ListUsers() ([]entities.User, error) {
	var users []entities.User
	err := r.db.Order("username ASC").Find(&users).Error
	return users, err
}

func (r *Repository) CountUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Count(&count).Error
	return count, err
}

// CountLoginUsers counts users that can sign in with a password.
func (r *Repository) CountLoginUsers() (int64, error) {
	var count int64
	err := r.db.Model(&entities.User{}).Where("password_hash <> ''").Count(&count).Error
	return count, err
}

// RecordLogin stamps a successful login and clears any lockout state.
func (r *Repository) RecordLogin(user *entities.User, at time.Time) error {
	return r.db.Model(user).Updates(map[string]any{
		"last_login_at":      at,
		"failed_login_count": 0,
		"locked_until":       nil,
	}).Error
}

// RecordFailedLogin persists the user's failed attempt counter and optional lock.
func (r *Repository) RecordFailedLogin(user *entities.User, lockedUntil *time.Time) error {
	updates := map[string]any{"failed_login_count": user.FailedLoginCount}
	if lockedUntil != nil {
		updates["locked_until"] = *lockedUntil
	}
	return r.db.Model(user).Updates(updates).Error
}

// SetTokenHash stores (or clears, with an empty hash) a user's API token hash.
// It returns the number of affected rows so callers can detect a missing user.
func (r *Repository) SetTokenHash(userID uint, hash string, createdAt *time.Time) (int64, error) {
	result := r.db.Model(&entities.User{}).Where("id = ?", userID).Updates(map[string]any{
		"token_hash":       hash,
		"token_created_at": createdAt,
	})
	return result.RowsAffected, result.Error
}

func (r *Repository) UpdatePasswordHash(userID uint, hash string) error {
	return r.db.Model(&entities.User{}).Where("id = ?", userID).Update("password_hash", hash).Error
}
