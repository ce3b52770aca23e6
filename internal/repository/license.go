package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrKeyNotFound     = errors.New("license key not found")
	ErrKeyUsed         = errors.New("license key already used")
	ErrTrialExists     = errors.New("trial already exists")
	ErrKeyNotDeletable = errors.New("license key already used, cannot delete")
)

type LicenseKeyRepository interface {
	Create(ctx context.Context, days int, tier string) (*LicenseKey, error)
	Get(ctx context.Context, key string) (*LicenseKey, error)
	Redeem(ctx context.Context, key string, userID int64) (*LicenseKey, error)
	DeleteUnused(ctx context.Context, key string) error
	ListUnused(ctx context.Context) ([]LicenseKey, error)
}

type PostgresLicenseKeyRepository struct {
	db *gorm.DB
}

func NewLicenseKeyRepository(db *gorm.DB) LicenseKeyRepository {
	return &PostgresLicenseKeyRepository{db: db}
}

func newKeyToken() string {
	raw := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return fmt.Sprintf("PRO-%s-%s-%s", raw[0:4], raw[4:8], raw[8:12])
}

func (r *PostgresLicenseKeyRepository) Create(ctx context.Context, days int, tier string) (*LicenseKey, error) {
	key := LicenseKey{
		Key:       newKeyToken(),
		Tier:      tier,
		Days:      days,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&key).Error; err != nil {
		return nil, fmt.Errorf("failed to create license key: %w", err)
	}
	return &key, nil
}

func (r *PostgresLicenseKeyRepository) Get(ctx context.Context, key string) (*LicenseKey, error) {
	var lk LicenseKey
	if err := r.db.WithContext(ctx).First(&lk, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		return nil, fmt.Errorf("failed to get license key: %w", err)
	}
	return &lk, nil
}

// Redeem marks the key used in a single conditional update. With two
// concurrent callers the `used = false` guard lets exactly one of them
// match the row; the loser sees ErrKeyUsed.
func (r *PostgresLicenseKeyRepository) Redeem(ctx context.Context, key string, userID int64) (*LicenseKey, error) {
	res := r.db.WithContext(ctx).Model(&LicenseKey{}).
		Where("key = ? AND used = ?", key, false).
		Updates(map[string]interface{}{
			"used":      true,
			"issued_to": userID,
		})
	if res.Error != nil {
		return nil, fmt.Errorf("failed to redeem key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var lk LicenseKey
		err := r.db.WithContext(ctx).First(&lk, "key = ?", key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrKeyNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("failed to check key: %w", err)
		}
		return nil, ErrKeyUsed
	}
	return r.Get(ctx, key)
}

func (r *PostgresLicenseKeyRepository) DeleteUnused(ctx context.Context, key string) error {
	res := r.db.WithContext(ctx).Where("key = ? AND used = ?", key, false).Delete(&LicenseKey{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete key: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		var lk LicenseKey
		err := r.db.WithContext(ctx).First(&lk, "key = ?", key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrKeyNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to check key: %w", err)
		}
		return ErrKeyNotDeletable
	}
	return nil
}

func (r *PostgresLicenseKeyRepository) ListUnused(ctx context.Context) ([]LicenseKey, error) {
	var keys []LicenseKey
	err := r.db.WithContext(ctx).Where("used = ?", false).Order("created_at DESC").Find(&keys).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list keys: %w", err)
	}
	return keys, nil
}

type TrialRepository interface {
	Create(ctx context.Context, userID int64, startedAt, expiresAt time.Time) error
	Get(ctx context.Context, userID int64) (*Trial, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type PostgresTrialRepository struct {
	db *gorm.DB
}

func NewTrialRepository(db *gorm.DB) TrialRepository {
	return &PostgresTrialRepository{db: db}
}

// Create relies on the user_id primary key: a second insert for the same
// user is a duplicate-key violation, reported as ErrTrialExists. This is
// what makes concurrent trial starts yield exactly one success.
func (r *PostgresTrialRepository) Create(ctx context.Context, userID int64, startedAt, expiresAt time.Time) error {
	trial := Trial{
		UserID:    userID,
		StartedAt: startedAt,
		ExpiresAt: expiresAt,
		Active:    true,
	}
	err := r.db.WithContext(ctx).Create(&trial).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTrialExists
		}
		return fmt.Errorf("failed to create trial: %w", err)
	}
	return nil
}

func (r *PostgresTrialRepository) Get(ctx context.Context, userID int64) (*Trial, error) {
	var trial Trial
	if err := r.db.WithContext(ctx).First(&trial, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get trial: %w", err)
	}
	return &trial, nil
}

func (r *PostgresTrialRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&Trial{}).
		Where("active = ? AND expires_at <= ?", true, now).
		Update("active", false)
	if res.Error != nil {
		return 0, fmt.Errorf("failed to deactivate trials: %w", res.Error)
	}
	return res.RowsAffected, nil
}
