package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type WarningRepository interface {
	IncrementAndGet(ctx context.Context, chatID, userID int64) (int, error)
	ResetIfAtLeast(ctx context.Context, chatID, userID int64, threshold int) (bool, error)
	Get(ctx context.Context, chatID, userID int64) (int, error)
}

type PostgresWarningRepository struct {
	db *gorm.DB
}

func NewWarningRepository(db *gorm.DB) WarningRepository {
	return &PostgresWarningRepository{db: db}
}

// IncrementAndGet is a single upsert with RETURNING, so the read-modify-write
// is atomic per (chat, user): two concurrent violations observe distinct
// counter values.
func (r *PostgresWarningRepository) IncrementAndGet(ctx context.Context, chatID, userID int64) (int, error) {
	rec := WarningRecord{
		ChatID:    chatID,
		UserID:    userID,
		Count:     1,
		UpdatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "chat_id"}, {Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("warning_records.count + 1"),
				"updated_at": time.Now(),
			}),
		},
		clause.Returning{Columns: []clause.Column{{Name: "count"}}},
	).Create(&rec).Error
	if err != nil {
		return 0, fmt.Errorf("failed to increment warning count: %w", err)
	}
	return rec.Count, nil
}

// ResetIfAtLeast zeroes the counter only when it still holds at least
// threshold warnings. With two racing callers the conditional guard makes
// the reset, and therefore the ban that follows it, happen exactly once.
func (r *PostgresWarningRepository) ResetIfAtLeast(ctx context.Context, chatID, userID int64, threshold int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&WarningRecord{}).
		Where("chat_id = ? AND user_id = ? AND count >= ?", chatID, userID, threshold).
		Update("count", 0)
	if res.Error != nil {
		return false, fmt.Errorf("failed to reset warning count: %w", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *PostgresWarningRepository) Get(ctx context.Context, chatID, userID int64) (int, error) {
	var rec WarningRecord
	err := r.db.WithContext(ctx).First(&rec, "chat_id = ? AND user_id = ?", chatID, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to get warning count: %w", err)
	}
	return rec.Count, nil
}
