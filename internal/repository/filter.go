package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrFilterNotFound = errors.New("filter not found")
	ErrDomainNotFound = errors.New("domain not in whitelist")
)

type FilterRepository interface {
	Add(ctx context.Context, chatID int64, pattern string) (*Filter, error)
	List(ctx context.Context, chatID int64) ([]Filter, error)
	Delete(ctx context.Context, chatID, filterID int64) error
}

type PostgresFilterRepository struct {
	db *gorm.DB
}

func NewFilterRepository(db *gorm.DB) FilterRepository {
	return &PostgresFilterRepository{db: db}
}

func (r *PostgresFilterRepository) Add(ctx context.Context, chatID int64, pattern string) (*Filter, error) {
	filter := Filter{
		ChatID:    chatID,
		Pattern:   pattern,
		CreatedAt: time.Now(),
	}
	if err := r.db.WithContext(ctx).Create(&filter).Error; err != nil {
		return nil, fmt.Errorf("failed to add filter: %w", err)
	}
	return &filter, nil
}

func (r *PostgresFilterRepository) List(ctx context.Context, chatID int64) ([]Filter, error) {
	var filters []Filter
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Order("id ASC").Find(&filters).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list filters: %w", err)
	}
	return filters, nil
}

func (r *PostgresFilterRepository) Delete(ctx context.Context, chatID, filterID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND chat_id = ?", filterID, chatID).Delete(&Filter{})
	if res.Error != nil {
		return fmt.Errorf("failed to delete filter: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrFilterNotFound
	}
	return nil
}

type WhitelistRepository interface {
	Add(ctx context.Context, chatID int64, domain string) error
	Remove(ctx context.Context, chatID int64, domain string) error
	List(ctx context.Context, chatID int64) ([]string, error)
}

type PostgresWhitelistRepository struct {
	db *gorm.DB
}

func NewWhitelistRepository(db *gorm.DB) WhitelistRepository {
	return &PostgresWhitelistRepository{db: db}
}

// Add is an upsert on (chat_id, domain): repeating the command is a no-op
// instead of a duplicate-row error.
func (r *PostgresWhitelistRepository) Add(ctx context.Context, chatID int64, domain string) error {
	entry := WhitelistDomain{
		ChatID:    chatID,
		Domain:    domain,
		CreatedAt: time.Now(),
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "chat_id"}, {Name: "domain"}},
		DoNothing: true,
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("failed to add whitelist domain: %w", err)
	}
	return nil
}

func (r *PostgresWhitelistRepository) Remove(ctx context.Context, chatID int64, domain string) error {
	res := r.db.WithContext(ctx).Where("chat_id = ? AND domain = ?", chatID, domain).Delete(&WhitelistDomain{})
	if res.Error != nil {
		return fmt.Errorf("failed to remove whitelist domain: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrDomainNotFound
	}
	return nil
}

func (r *PostgresWhitelistRepository) List(ctx context.Context, chatID int64) ([]string, error) {
	var entries []WhitelistDomain
	err := r.db.WithContext(ctx).Where("chat_id = ?", chatID).Order("domain ASC").Find(&entries).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list whitelist: %w", err)
	}
	domains := make([]string, len(entries))
	for i, e := range entries {
		domains[i] = e.Domain
	}
	return domains, nil
}
