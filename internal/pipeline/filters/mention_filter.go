package filters

import (
	"context"
	"strings"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

// broadMentions are the mention forms that ping every chat member.
var broadMentions = []string{"@all", "@everyone", "@here"}

type MentionFilter struct {
	repo repository.SettingsRepository
}

func NewMentionFilter(repo repository.SettingsRepository) *MentionFilter {
	return &MentionFilter{repo: repo}
}

func (f *MentionFilter) Name() string {
	return "mention_filter"
}

func (f *MentionFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	lower := strings.ToLower(payload.Text)
	var mentioned bool
	for _, m := range broadMentions {
		if strings.Contains(lower, m) {
			mentioned = true
			break
		}
	}
	if !mentioned {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	settings, err := f.repo.GetSettings(payload.ChatID)
	if err != nil {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	if !settings.AntimentionEnabled {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	return &pipeline.Result{
		IsAllowed:    false,
		Reason:       messages.ReasonMentionBlocked,
		FilterName:   f.Name(),
		ShouldDelete: true,
	}, nil
}
