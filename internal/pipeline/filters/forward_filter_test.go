package filters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

func TestForwardFilter_Process(t *testing.T) {
	settingsRepo := &mockSettingsRepo{
		settings: &repository.ChatSetting{ChatID: -100, AntiforwardEnabled: true},
	}
	filter := NewForwardFilter(settingsRepo)
	ctx := context.Background()

	res, err := filter.Process(ctx, pipeline.Payload{ChatID: -100, SenderID: 1, IsForwarded: false})
	assert.NoError(t, err)
	assert.True(t, res.IsAllowed, "Regular message should pass")

	res, err = filter.Process(ctx, pipeline.Payload{ChatID: -100, SenderID: 1, IsForwarded: true})
	assert.NoError(t, err)
	assert.False(t, res.IsAllowed, "Forwarded message should be blocked")
	assert.True(t, res.ShouldDelete)
	assert.Equal(t, "forward_filter", res.FilterName)
}

func TestForwardFilter_Disabled(t *testing.T) {
	settingsRepo := &mockSettingsRepo{
		settings: &repository.ChatSetting{ChatID: -100, AntiforwardEnabled: false},
	}
	filter := NewForwardFilter(settingsRepo)

	res, err := filter.Process(context.Background(), pipeline.Payload{ChatID: -100, IsForwarded: true})
	assert.NoError(t, err)
	assert.True(t, res.IsAllowed)
}
