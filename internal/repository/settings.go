package repository

import (
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingsRepository interface {
	GetSettings(chatID int64) (*ChatSetting, error)
	UpdateSettings(settings *ChatSetting) error
}

type CachedSettingsRepository struct {
	db          *gorm.DB
	cache       sync.Map
	enableCache bool
}

type cachedSettings struct {
	settings  *ChatSetting
	expiresAt time.Time
}

const cacheTTL = 5 * time.Minute

func NewSettingsRepository(db *gorm.DB, enableCache bool) SettingsRepository {
	return &CachedSettingsRepository{
		db:          db,
		enableCache: enableCache,
	}
}

func defaultSettings(chatID int64) *ChatSetting {
	return &ChatSetting{
		ChatID:     chatID,
		FloodLimit: 3,
		FloodMode:  "mute",
		Lang:       "vi",
	}
}

// GetSettings creates the row on first access. The insert is an upsert so two
// concurrent admin commands for the same chat cannot produce duplicate rows.
func (r *CachedSettingsRepository) GetSettings(chatID int64) (*ChatSetting, error) {
	if r.enableCache {
		if val, ok := r.cache.Load(chatID); ok {
			entry := val.(*cachedSettings)
			if time.Now().Before(entry.expiresAt) {
				return entry.settings, nil
			}
			r.cache.Delete(chatID)
		}
	}
	settings := defaultSettings(chatID)
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}},
		DoNothing: true,
	}).Create(settings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to init settings: %w", err)
	}
	var stored ChatSetting
	if err := r.db.First(&stored, "chat_id = ?", chatID).Error; err != nil {
		return nil, fmt.Errorf("failed to get settings: %w", err)
	}
	if r.enableCache {
		r.cache.Store(chatID, &cachedSettings{
			settings:  &stored,
			expiresAt: time.Now().Add(cacheTTL),
		})
	}
	return &stored, nil
}

func (r *CachedSettingsRepository) UpdateSettings(settings *ChatSetting) error {
	if err := r.db.Save(settings).Error; err != nil {
		return fmt.Errorf("failed to update settings: %w", err)
	}
	if r.enableCache {
		r.cache.Store(settings.ChatID, &cachedSettings{
			settings:  settings,
			expiresAt: time.Now().Add(cacheTTL),
		})
	}
	return nil
}
