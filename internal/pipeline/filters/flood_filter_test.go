package filters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

func TestFloodFilter_Process(t *testing.T) {
	settingsRepo := &mockSettingsRepo{
		settings: &repository.ChatSetting{ChatID: -100, FloodLimit: 3, FloodMode: "mute"},
	}
	filter := NewFloodFilter(settingsRepo, 100*time.Millisecond, 30*time.Minute)

	ctx := context.Background()
	payload := pipeline.Payload{
		ChatID:   -100,
		SenderID: 123,
		Text:     "text",
	}

	for i := 0; i < 3; i++ {
		res, err := filter.Process(ctx, payload)
		assert.NoError(t, err)
		assert.True(t, res.IsAllowed, "Message %d should be allowed", i+1)
	}

	res, err := filter.Process(ctx, payload)
	assert.NoError(t, err)
	assert.False(t, res.IsAllowed, "4th message should be blocked")
	assert.True(t, res.ShouldMute, "Should trigger mute")
	assert.True(t, res.ShouldDelete, "Should trigger delete")
	assert.Equal(t, 30*time.Minute, res.MuteDuration)

	payload2 := pipeline.Payload{
		ChatID:   -100,
		SenderID: 456,
		Text:     "text",
	}
	res, err = filter.Process(ctx, payload2)
	assert.NoError(t, err)
	assert.True(t, res.IsAllowed, "Different user should be allowed")

	// Tripping the limit clears the window, so the very next message passes.
	res, err = filter.Process(ctx, payload)
	assert.NoError(t, err)
	assert.True(t, res.IsAllowed, "Message after trip should start a fresh window")
}

func TestFloodFilter_BanMode(t *testing.T) {
	settingsRepo := &mockSettingsRepo{
		settings: &repository.ChatSetting{ChatID: -100, FloodLimit: 1, FloodMode: "ban"},
	}
	filter := NewFloodFilter(settingsRepo, time.Minute, 30*time.Minute)

	ctx := context.Background()
	payload := pipeline.Payload{ChatID: -100, SenderID: 123, Text: "text"}

	res, err := filter.Process(ctx, payload)
	assert.NoError(t, err)
	assert.True(t, res.IsAllowed)

	res, err = filter.Process(ctx, payload)
	assert.NoError(t, err)
	assert.False(t, res.IsAllowed)
	assert.True(t, res.ShouldBan, "Ban mode should request a ban")
	assert.False(t, res.ShouldMute)
}

func TestFloodFilter_WindowExpiry(t *testing.T) {
	settingsRepo := &mockSettingsRepo{
		settings: &repository.ChatSetting{ChatID: -100, FloodLimit: 1, FloodMode: "mute"},
	}
	filter := NewFloodFilter(settingsRepo, 50*time.Millisecond, 30*time.Minute)

	ctx := context.Background()
	payload := pipeline.Payload{ChatID: -100, SenderID: 123, Text: "text"}

	res, _ := filter.Process(ctx, payload)
	assert.True(t, res.IsAllowed)

	time.Sleep(80 * time.Millisecond)

	res, _ = filter.Process(ctx, payload)
	assert.True(t, res.IsAllowed, "Message after window should be allowed")
}
