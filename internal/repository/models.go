package repository

import (
	"time"
)

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement:false"`
	Username     string `gorm:"size:255"`
	IsPro        bool   `gorm:"default:false;index"`
	ProExpiresAt *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type LicenseKey struct {
	Key       string `gorm:"primaryKey;size:64"`
	Tier      string `gorm:"size:32;default:pro"`
	Days      int    `gorm:"not null"`
	IssuedTo  *int64
	Used      bool `gorm:"default:false;index"`
	CreatedAt time.Time
}

// Trial is keyed by user id: at most one row per user, ever. The row is
// deactivated on expiry, never deleted.
type Trial struct {
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	StartedAt time.Time
	ExpiresAt time.Time `gorm:"index"`
	Active    bool      `gorm:"default:true;index"`
}

type Filter struct {
	ID        int64  `gorm:"primaryKey"`
	ChatID    int64  `gorm:"not null;index"`
	Pattern   string `gorm:"size:255;not null"`
	CreatedAt time.Time
}

type WhitelistDomain struct {
	ID        int64  `gorm:"primaryKey"`
	ChatID    int64  `gorm:"not null;index:idx_whitelist_chat_domain,unique"`
	Domain    string `gorm:"size:255;not null;index:idx_whitelist_chat_domain,unique"`
	CreatedAt time.Time
}

type ChatSetting struct {
	ChatID             int64  `gorm:"primaryKey;autoIncrement:false"`
	AntilinkEnabled    bool   `gorm:"default:false"`
	AntimentionEnabled bool   `gorm:"default:false"`
	AntiforwardEnabled bool   `gorm:"default:false"`
	FloodLimit         int    `gorm:"default:3"`
	FloodMode          string `gorm:"size:32;default:mute"`
	Lang               string `gorm:"size:8;default:vi"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

type WarningRecord struct {
	ChatID    int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false"`
	Count     int   `gorm:"default:0"`
	UpdatedAt time.Time
}

type PromoSetting struct {
	ChatID          int64  `gorm:"primaryKey;autoIncrement:false"`
	Enabled         bool   `gorm:"default:false"`
	Content         string `gorm:"type:text"`
	IntervalMinutes int    `gorm:"default:60"`
	LastSentAt      *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Mute struct {
	ID        uint      `gorm:"primaryKey"`
	ChatID    int64     `gorm:"index:idx_mutes_chat_user"`
	UserID    int64     `gorm:"index:idx_mutes_chat_user"`
	UserName  string    `gorm:"size:255"`
	ExpiresAt time.Time `gorm:"index"`
}

type TemporaryMessage struct {
	ID        int64     `gorm:"primaryKey"`
	ChatID    int64     `gorm:"not null"`
	MessageID string    `gorm:"not null"`
	DeleteAt  time.Time `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
