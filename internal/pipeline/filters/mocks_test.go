package filters

import (
	"context"
	"time"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

type mockSettingsRepo struct {
	settings        *repository.ChatSetting
	err             error
	GetSettingsFunc func(_ int64) (*repository.ChatSetting, error)
}

func (m *mockSettingsRepo) GetSettings(chatID int64) (*repository.ChatSetting, error) {
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(chatID)
	}
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func (m *mockSettingsRepo) UpdateSettings(settings *repository.ChatSetting) error {
	m.settings = settings
	return m.err
}

type mockFilterRepo struct {
	filters  []repository.Filter
	err      error
	ListFunc func(ctx context.Context, chatID int64) ([]repository.Filter, error)
}

func (m *mockFilterRepo) Add(_ context.Context, chatID int64, pattern string) (*repository.Filter, error) {
	f := repository.Filter{ID: int64(len(m.filters) + 1), ChatID: chatID, Pattern: pattern}
	m.filters = append(m.filters, f)
	return &f, m.err
}

func (m *mockFilterRepo) List(ctx context.Context, chatID int64) ([]repository.Filter, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, chatID)
	}
	return m.filters, m.err
}

func (m *mockFilterRepo) Delete(_ context.Context, _, _ int64) error {
	return m.err
}

type mockWhitelistRepo struct {
	domains []string
	err     error
}

func (m *mockWhitelistRepo) Add(_ context.Context, _ int64, domain string) error {
	m.domains = append(m.domains, domain)
	return m.err
}

func (m *mockWhitelistRepo) Remove(_ context.Context, _ int64, _ string) error {
	return m.err
}

func (m *mockWhitelistRepo) List(_ context.Context, _ int64) ([]string, error) {
	return m.domains, m.err
}

type mockMuteRepo struct {
	isMuted     bool
	expiresAt   time.Time
	err         error
	activeMutes int64
	IsMutedFunc func(_, _ int64) (bool, time.Time, error)
}

func (m *mockMuteRepo) IsMuted(chatID, userID int64) (bool, time.Time, error) {
	if m.IsMutedFunc != nil {
		return m.IsMutedFunc(chatID, userID)
	}
	return m.isMuted, m.expiresAt, m.err
}

func (m *mockMuteRepo) MuteUser(_, _ int64, _ string, _ time.Duration) error {
	return m.err
}

func (m *mockMuteRepo) UnmuteUser(_, _ int64) error {
	return m.err
}

func (m *mockMuteRepo) CountActiveMutes() (int64, error) {
	return m.activeMutes, m.err
}
