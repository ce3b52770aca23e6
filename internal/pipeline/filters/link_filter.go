package filters

import (
	"context"
	"regexp"
	"strings"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/utils"
)

type LinkFilter struct {
	repo          repository.SettingsRepository
	whitelistRepo repository.WhitelistRepository
}

func NewLinkFilter(repo repository.SettingsRepository, whitelistRepo repository.WhitelistRepository) *LinkFilter {
	return &LinkFilter{
		repo:          repo,
		whitelistRepo: whitelistRepo,
	}
}

func (f *LinkFilter) Name() string {
	return "link_filter"
}

var urlRegex = regexp.MustCompile(`(?i)(?:https?://)?(?:[\p{L}0-9](?:[\p{L}0-9-]{0,61}[\p{L}0-9])?\.)+[\p{L}0-9][\p{L}0-9-]{0,61}[\p{L}0-9](?:/[^\s]*)?`)

// Process deletes-and-warns on any link whose domain is not whitelisted for
// the chat. A message passes only when every linked domain is allowed.
func (f *LinkFilter) Process(ctx context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	urls := urlRegex.FindAllString(payload.Text, -1)
	if len(urls) == 0 {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	settings, err := f.repo.GetSettings(payload.ChatID)
	if err != nil {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	if !settings.AntilinkEnabled {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	whitelist, err := f.whitelistRepo.List(ctx, payload.ChatID)
	if err != nil {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	for _, url := range urls {
		host := utils.NormalizeDomain(strings.ToLower(url))
		if host == "" {
			continue
		}
		allowed := false
		for _, domain := range whitelist {
			if utils.DomainMatches(host, utils.NormalizeDomain(domain)) {
				allowed = true
				break
			}
		}
		if !allowed {
			return &pipeline.Result{
				IsAllowed:    false,
				Reason:       messages.ReasonLinkBlocked,
				FilterName:   f.Name(),
				ShouldDelete: true,
				ShouldWarn:   true,
			}, nil
		}
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
