package service

import (
	"context"
	"fmt"
	"time"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

type mockSettingsRepo struct {
	settings        *repository.ChatSetting
	err             error
	GetSettingsFunc func(_ int64) (*repository.ChatSetting, error)
	UpdateFunc      func(_ *repository.ChatSetting) error
}

func (m *mockSettingsRepo) GetSettings(chatID int64) (*repository.ChatSetting, error) {
	if m.GetSettingsFunc != nil {
		return m.GetSettingsFunc(chatID)
	}
	if m.err != nil {
		return nil, m.err
	}
	if m.settings == nil {
		return &repository.ChatSetting{ChatID: chatID, FloodLimit: 3, FloodMode: "mute", Lang: "vi"}, nil
	}
	return m.settings, nil
}

func (m *mockSettingsRepo) UpdateSettings(settings *repository.ChatSetting) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(settings)
	}
	m.settings = settings
	return m.err
}

type mockFilterRepo struct {
	filters []repository.Filter
	err     error
}

func (m *mockFilterRepo) Add(_ context.Context, chatID int64, pattern string) (*repository.Filter, error) {
	if m.err != nil {
		return nil, m.err
	}
	f := repository.Filter{ID: int64(len(m.filters) + 1), ChatID: chatID, Pattern: pattern}
	m.filters = append(m.filters, f)
	return &f, nil
}

func (m *mockFilterRepo) List(_ context.Context, _ int64) ([]repository.Filter, error) {
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
	if m.err != nil {
		return m.err
	}
	m.domains = append(m.domains, domain)
	return nil
}

func (m *mockWhitelistRepo) Remove(_ context.Context, _ int64, _ string) error {
	return m.err
}

func (m *mockWhitelistRepo) List(_ context.Context, _ int64) ([]string, error) {
	return m.domains, m.err
}

type mockWarningRepo struct {
	counts             map[string]int
	err                error
	IncrementFunc      func(ctx context.Context, chatID, userID int64) (int, error)
	ResetIfAtLeastFunc func(ctx context.Context, chatID, userID int64, threshold int) (bool, error)
}

func newMockWarningRepo() *mockWarningRepo {
	return &mockWarningRepo{counts: make(map[string]int)}
}

func warnKey(chatID, userID int64) string {
	return fmt.Sprintf("%d:%d", chatID, userID)
}

func (m *mockWarningRepo) IncrementAndGet(ctx context.Context, chatID, userID int64) (int, error) {
	if m.IncrementFunc != nil {
		return m.IncrementFunc(ctx, chatID, userID)
	}
	if m.err != nil {
		return 0, m.err
	}
	m.counts[warnKey(chatID, userID)]++
	return m.counts[warnKey(chatID, userID)], nil
}

func (m *mockWarningRepo) ResetIfAtLeast(ctx context.Context, chatID, userID int64, threshold int) (bool, error) {
	if m.ResetIfAtLeastFunc != nil {
		return m.ResetIfAtLeastFunc(ctx, chatID, userID, threshold)
	}
	if m.err != nil {
		return false, m.err
	}
	if m.counts[warnKey(chatID, userID)] >= threshold {
		m.counts[warnKey(chatID, userID)] = 0
		return true, nil
	}
	return false, nil
}

func (m *mockWarningRepo) Get(_ context.Context, chatID, userID int64) (int, error) {
	return m.counts[warnKey(chatID, userID)], m.err
}

type mockMuteRepo struct {
	muted       map[string]time.Time
	err         error
	activeMutes int64
}

func newMockMuteRepo() *mockMuteRepo {
	return &mockMuteRepo{muted: make(map[string]time.Time)}
}

func (m *mockMuteRepo) MuteUser(chatID, userID int64, _ string, duration time.Duration) error {
	if m.err != nil {
		return m.err
	}
	m.muted[warnKey(chatID, userID)] = time.Now().Add(duration)
	return nil
}

func (m *mockMuteRepo) UnmuteUser(chatID, userID int64) error {
	delete(m.muted, warnKey(chatID, userID))
	return m.err
}

func (m *mockMuteRepo) IsMuted(chatID, userID int64) (bool, time.Time, error) {
	until, ok := m.muted[warnKey(chatID, userID)]
	if !ok || time.Now().After(until) {
		return false, time.Time{}, m.err
	}
	return true, until, m.err
}

func (m *mockMuteRepo) CountActiveMutes() (int64, error) {
	return m.activeMutes, m.err
}

type mockUserRepo struct {
	users       map[int64]*repository.User
	err         error
	SetProFunc func(ctx context.Context, userID int64, expiresAt time.Time) error
	ExpireFunc func(ctx context.Context, now time.Time) (int64, error)
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[int64]*repository.User)}
}

func (m *mockUserRepo) GetOrCreate(_ context.Context, userID int64, username string) (*repository.User, error) {
	if m.err != nil {
		return nil, m.err
	}
	if u, ok := m.users[userID]; ok {
		u.Username = username
		return u, nil
	}
	u := &repository.User{ID: userID, Username: username}
	m.users[userID] = u
	return u, nil
}

func (m *mockUserRepo) Get(_ context.Context, userID int64) (*repository.User, error) {
	return m.users[userID], m.err
}

func (m *mockUserRepo) SetPro(ctx context.Context, userID int64, expiresAt time.Time) error {
	if m.SetProFunc != nil {
		return m.SetProFunc(ctx, userID, expiresAt)
	}
	if m.err != nil {
		return m.err
	}
	u, ok := m.users[userID]
	if !ok {
		u = &repository.User{ID: userID}
		m.users[userID] = u
	}
	u.IsPro = true
	exp := expiresAt
	u.ProExpiresAt = &exp
	return nil
}

func (m *mockUserRepo) ExpirePro(ctx context.Context, now time.Time) (int64, error) {
	if m.ExpireFunc != nil {
		return m.ExpireFunc(ctx, now)
	}
	var n int64
	for _, u := range m.users {
		if u.IsPro && u.ProExpiresAt != nil && !u.ProExpiresAt.After(now) {
			u.IsPro = false
			u.ProExpiresAt = nil
			n++
		}
	}
	return n, m.err
}

func (m *mockUserRepo) CountPro(_ context.Context) (int64, error) {
	var n int64
	for _, u := range m.users {
		if u.IsPro {
			n++
		}
	}
	return n, m.err
}

type mockKeyRepo struct {
	keys       map[string]*repository.LicenseKey
	err        error
	RedeemFunc func(ctx context.Context, key string, userID int64) (*repository.LicenseKey, error)
}

func newMockKeyRepo() *mockKeyRepo {
	return &mockKeyRepo{keys: make(map[string]*repository.LicenseKey)}
}

func (m *mockKeyRepo) Create(_ context.Context, days int, tier string) (*repository.LicenseKey, error) {
	if m.err != nil {
		return nil, m.err
	}
	k := &repository.LicenseKey{Key: "PRO-TEST-TEST-TEST", Days: days, Tier: tier}
	m.keys[k.Key] = k
	return k, nil
}

func (m *mockKeyRepo) Get(_ context.Context, key string) (*repository.LicenseKey, error) {
	k, ok := m.keys[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	return k, m.err
}

func (m *mockKeyRepo) Redeem(ctx context.Context, key string, userID int64) (*repository.LicenseKey, error) {
	if m.RedeemFunc != nil {
		return m.RedeemFunc(ctx, key, userID)
	}
	k, ok := m.keys[key]
	if !ok {
		return nil, repository.ErrKeyNotFound
	}
	if k.Used {
		return nil, repository.ErrKeyUsed
	}
	k.Used = true
	k.IssuedTo = &userID
	return k, m.err
}

func (m *mockKeyRepo) DeleteUnused(_ context.Context, key string) error {
	k, ok := m.keys[key]
	if !ok {
		return repository.ErrKeyNotFound
	}
	if k.Used {
		return repository.ErrKeyNotDeletable
	}
	delete(m.keys, key)
	return m.err
}

func (m *mockKeyRepo) ListUnused(_ context.Context) ([]repository.LicenseKey, error) {
	var out []repository.LicenseKey
	for _, k := range m.keys {
		if !k.Used {
			out = append(out, *k)
		}
	}
	return out, m.err
}

type mockTrialRepo struct {
	trials     map[int64]*repository.Trial
	err        error
	CreateFunc func(ctx context.Context, userID int64, startedAt, expiresAt time.Time) error
}

func newMockTrialRepo() *mockTrialRepo {
	return &mockTrialRepo{trials: make(map[int64]*repository.Trial)}
}

func (m *mockTrialRepo) Create(ctx context.Context, userID int64, startedAt, expiresAt time.Time) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, userID, startedAt, expiresAt)
	}
	if m.err != nil {
		return m.err
	}
	if _, ok := m.trials[userID]; ok {
		return repository.ErrTrialExists
	}
	m.trials[userID] = &repository.Trial{UserID: userID, StartedAt: startedAt, ExpiresAt: expiresAt, Active: true}
	return nil
}

func (m *mockTrialRepo) Get(_ context.Context, userID int64) (*repository.Trial, error) {
	return m.trials[userID], m.err
}

func (m *mockTrialRepo) DeactivateExpired(_ context.Context, now time.Time) (int64, error) {
	var n int64
	for _, tr := range m.trials {
		if tr.Active && !tr.ExpiresAt.After(now) {
			tr.Active = false
			n++
		}
	}
	return n, m.err
}

type mockPromoRepo struct {
	settings map[int64]*repository.PromoSetting
	err      error
}

func newMockPromoRepo() *mockPromoRepo {
	return &mockPromoRepo{settings: make(map[int64]*repository.PromoSetting)}
}

func (m *mockPromoRepo) GetOrCreate(_ context.Context, chatID int64) (*repository.PromoSetting, error) {
	if m.err != nil {
		return nil, m.err
	}
	if ps, ok := m.settings[chatID]; ok {
		return ps, nil
	}
	ps := &repository.PromoSetting{ChatID: chatID, IntervalMinutes: 60}
	m.settings[chatID] = ps
	return ps, nil
}

func (m *mockPromoRepo) Update(_ context.Context, setting *repository.PromoSetting) error {
	if m.err != nil {
		return m.err
	}
	m.settings[setting.ChatID] = setting
	return nil
}

func (m *mockPromoRepo) ListEnabled(_ context.Context) ([]repository.PromoSetting, error) {
	if m.err != nil {
		return nil, m.err
	}
	var out []repository.PromoSetting
	for _, ps := range m.settings {
		if ps.Enabled && ps.Content != "" {
			out = append(out, *ps)
		}
	}
	return out, nil
}

func (m *mockPromoRepo) MarkSent(_ context.Context, chatID int64, sentAt time.Time) error {
	if m.err != nil {
		return m.err
	}
	if ps, ok := m.settings[chatID]; ok {
		t := sentAt
		ps.LastSentAt = &t
	}
	return nil
}
