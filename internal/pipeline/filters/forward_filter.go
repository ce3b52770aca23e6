package filters

import (
	"context"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

type ForwardFilter struct {
	repo repository.SettingsRepository
}

func NewForwardFilter(repo repository.SettingsRepository) *ForwardFilter {
	return &ForwardFilter{repo: repo}
}

func (f *ForwardFilter) Name() string {
	return "forward_filter"
}

func (f *ForwardFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if !payload.IsForwarded {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	settings, err := f.repo.GetSettings(payload.ChatID)
	if err != nil {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	if !settings.AntiforwardEnabled {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	return &pipeline.Result{
		IsAllowed:    false,
		Reason:       messages.ReasonForwardBlocked,
		FilterName:   f.Name(),
		ShouldDelete: true,
	}, nil
}
