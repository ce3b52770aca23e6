package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type UserRepository interface {
	GetOrCreate(ctx context.Context, userID int64, username string) (*User, error)
	Get(ctx context.Context, userID int64) (*User, error)
	SetPro(ctx context.Context, userID int64, expiresAt time.Time) error
	ExpirePro(ctx context.Context, now time.Time) (int64, error)
	CountPro(ctx context.Context) (int64, error)
}

type PostgresUserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &PostgresUserRepository{db: db}
}

func (r *PostgresUserRepository) GetOrCreate(ctx context.Context, userID int64, username string) (*User, error) {
	user := User{ID: userID, Username: username}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{"username": username}),
	}).Create(&user).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert user: %w", err)
	}
	var stored User
	if err := r.db.WithContext(ctx).First(&stored, "id = ?", userID).Error; err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &stored, nil
}

func (r *PostgresUserRepository) Get(ctx context.Context, userID int64) (*User, error) {
	var user User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *PostgresUserRepository) SetPro(ctx context.Context, userID int64, expiresAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&User{}).Where("id = ?", userID).
		Updates(map[string]interface{}{
			"is_pro":         true,
			"pro_expires_at": expiresAt,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to set pro status: %w", err)
	}
	return nil
}

// ExpirePro flips is_pro off for every user whose grant has lapsed. The
// expiry timestamp is cleared in the same statement, so a repeated sweep
// with the same cutoff matches zero rows.
func (r *PostgresUserRepository) ExpirePro(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&User{}).
		Where("is_pro = ? AND pro_expires_at <= ?", true, now).
		Updates(map[string]interface{}{
			"is_pro":         false,
			"pro_expires_at": nil,
		})
	if res.Error != nil {
		return 0, fmt.Errorf("failed to expire pro users: %w", res.Error)
	}
	return res.RowsAffected, nil
}

func (r *PostgresUserRepository) CountPro(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&User{}).Where("is_pro = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count pro users: %w", err)
	}
	return count, nil
}
