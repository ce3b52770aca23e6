package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type MuteRepository interface {
	MuteUser(chatID, userID int64, userName string, duration time.Duration) error
	UnmuteUser(chatID, userID int64) error
	IsMuted(chatID, userID int64) (bool, time.Time, error)
	CountActiveMutes() (int64, error)
}

type PostgresMuteRepository struct {
	db *gorm.DB
}

func NewMuteRepository(db *gorm.DB) MuteRepository {
	return &PostgresMuteRepository{db: db}
}

func (r *PostgresMuteRepository) MuteUser(chatID, userID int64, userName string, duration time.Duration) error {
	expiresAt := time.Now().Add(duration)
	var existing Mute
	err := r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			mute := Mute{
				ChatID:    chatID,
				UserID:    userID,
				UserName:  userName,
				ExpiresAt: expiresAt,
			}
			if err := r.db.Create(&mute).Error; err != nil {
				return fmt.Errorf("failed to create mute: %w", err)
			}
			return nil
		}
		return fmt.Errorf("failed to check existing mute: %w", err)
	}

	updates := map[string]interface{}{}
	if expiresAt.After(existing.ExpiresAt) {
		updates["expires_at"] = expiresAt
	}
	if userName != "" && userName != existing.UserName {
		updates["user_name"] = userName
	}
	if len(updates) > 0 {
		if err := r.db.Model(&existing).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to update mute: %w", err)
		}
	}
	return nil
}

func (r *PostgresMuteRepository) UnmuteUser(chatID, userID int64) error {
	if err := r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).Delete(&Mute{}).Error; err != nil {
		return fmt.Errorf("failed to unmute user: %w", err)
	}
	return nil
}

func (r *PostgresMuteRepository) IsMuted(chatID, userID int64) (bool, time.Time, error) {
	var mute Mute
	err := r.db.Where("chat_id = ? AND user_id = ?", chatID, userID).
		Where("expires_at > ?", time.Now()).
		First(&mute).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, time.Time{}, nil
		}
		return false, time.Time{}, fmt.Errorf("failed to check mute status: %w", err)
	}
	return true, mute.ExpiresAt, nil
}

func (r *PostgresMuteRepository) CountActiveMutes() (int64, error) {
	var count int64
	if err := r.db.Model(&Mute{}).Where("expires_at > ?", time.Now()).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count active mutes: %w", err)
	}
	return count, nil
}
