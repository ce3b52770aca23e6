package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PromoRepository interface {
	GetOrCreate(ctx context.Context, chatID int64) (*PromoSetting, error)
	Update(ctx context.Context, setting *PromoSetting) error
	ListEnabled(ctx context.Context) ([]PromoSetting, error)
	MarkSent(ctx context.Context, chatID int64, sentAt time.Time) error
}

type PostgresPromoRepository struct {
	db *gorm.DB
}

func NewPromoRepository(db *gorm.DB) PromoRepository {
	return &PostgresPromoRepository{db: db}
}

func (r *PostgresPromoRepository) GetOrCreate(ctx context.Context, chatID int64) (*PromoSetting, error) {
	setting := PromoSetting{
		ChatID:          chatID,
		IntervalMinutes: 60,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoNothing: true,
	}).Create(&setting).Error
	if err != nil {
		return nil, fmt.Errorf("failed to init promo settings: %w", err)
	}
	var stored PromoSetting
	if err := r.db.WithContext(ctx).First(&stored, "chat_id = ?", chatID).Error; err != nil {
		return nil, fmt.Errorf("failed to get promo settings: %w", err)
	}
	return &stored, nil
}

func (r *PostgresPromoRepository) Update(ctx context.Context, setting *PromoSetting) error {
	if err := r.db.WithContext(ctx).Save(setting).Error; err != nil {
		return fmt.Errorf("failed to update promo settings: %w", err)
	}
	return nil
}

func (r *PostgresPromoRepository) ListEnabled(ctx context.Context) ([]PromoSetting, error) {
	var settings []PromoSetting
	err := r.db.WithContext(ctx).Where("enabled = ? AND content <> ''", true).Find(&settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list enabled promos: %w", err)
	}
	return settings, nil
}

// MarkSent only moves last_sent_at forward, keeping the timestamp
// monotonically non-decreasing even if ticks race.
func (r *PostgresPromoRepository) MarkSent(ctx context.Context, chatID int64, sentAt time.Time) error {
	err := r.db.WithContext(ctx).Model(&PromoSetting{}).
		Where("chat_id = ? AND (last_sent_at IS NULL OR last_sent_at <= ?)", chatID, sentAt).
		Update("last_sent_at", sentAt).Error
	if err != nil {
		return fmt.Errorf("failed to mark promo sent: %w", err)
	}
	return nil
}
