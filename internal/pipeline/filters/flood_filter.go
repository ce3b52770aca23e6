package filters

import (
	"context"
	"sync"
	"time"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

// FloodFilter keeps a sliding window of message timestamps per (chat, user).
// Counts are in-memory only; a restart starts a fresh window.
type FloodFilter struct {
	mu            sync.Mutex
	msgTimestamps map[string][]time.Time
	settingsRepo  repository.SettingsRepository
	window        time.Duration
	muteDuration  time.Duration
}

func NewFloodFilter(settingsRepo repository.SettingsRepository, window, muteDuration time.Duration) *FloodFilter {
	return &FloodFilter{
		msgTimestamps: make(map[string][]time.Time),
		settingsRepo:  settingsRepo,
		window:        window,
		muteDuration:  muteDuration,
	}
}

func (f *FloodFilter) Name() string {
	return "flood_filter"
}

func (f *FloodFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	limit := 3
	mode := "mute"
	if settings, err := f.settingsRepo.GetSettings(payload.ChatID); err == nil {
		if settings.FloodLimit > 0 {
			limit = settings.FloodLimit
		}
		if settings.FloodMode != "" {
			mode = settings.FloodMode
		}
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	key := payload.UserKey()
	now := time.Now()

	var valid []time.Time
	for _, t := range f.msgTimestamps[key] {
		if now.Sub(t) <= f.window {
			valid = append(valid, t)
		}
	}
	valid = append(valid, now)

	if len(valid) > limit {
		// Tripping the limit clears the window so the user starts over
		// after the penalty instead of re-triggering on every message.
		delete(f.msgTimestamps, key)
		res := &pipeline.Result{
			IsAllowed:    false,
			Reason:       messages.ReasonFlood,
			FilterName:   f.Name(),
			ShouldDelete: true,
		}
		if mode == "ban" {
			res.ShouldBan = true
		} else {
			res.ShouldMute = true
			res.MuteDuration = f.muteDuration
		}
		return res, nil
	}

	f.msgTimestamps[key] = valid
	return &pipeline.Result{IsAllowed: true}, nil
}
