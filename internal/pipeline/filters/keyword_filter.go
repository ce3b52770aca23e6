package filters

import (
	"context"
	"strings"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

type KeywordFilter struct {
	filterRepo repository.FilterRepository
}

func NewKeywordFilter(filterRepo repository.FilterRepository) *KeywordFilter {
	return &KeywordFilter{filterRepo: filterRepo}
}

func (f *KeywordFilter) Name() string {
	return "keyword_filter"
}

func (f *KeywordFilter) Process(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	if payload.Text == "" {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	patterns, err := f.filterRepo.List(ctx, payload.ChatID)
	if err != nil {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	lowerMsg := strings.ToLower(payload.Text)
	for _, p := range patterns {
		if p.Pattern == "" {
			continue
		}
		if strings.Contains(lowerMsg, strings.ToLower(p.Pattern)) {
			return &pipeline.Result{
				IsAllowed:    false,
				Reason:       messages.ReasonFilterMatch,
				FilterName:   f.Name(),
				ShouldDelete: true,
			}, nil
		}
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
