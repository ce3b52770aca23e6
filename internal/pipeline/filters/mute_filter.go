package filters

import (
	"context"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
)

// MuteFilter enforces active mutes: anything a muted user sends before the
// mute lapses is deleted.
type MuteFilter struct {
	muteRepo repository.MuteRepository
}

func NewMuteFilter(muteRepo repository.MuteRepository) *MuteFilter {
	return &MuteFilter{muteRepo: muteRepo}
}

func (f *MuteFilter) Name() string {
	return "mute_filter"
}

func (f *MuteFilter) Process(_ context.Context, payload pipeline.Payload) (*pipeline.Result, error) {
	muted, _, err := f.muteRepo.IsMuted(payload.ChatID, payload.SenderID)
	if err != nil {
		return &pipeline.Result{IsAllowed: true}, nil
	}
	if muted {
		return &pipeline.Result{
			IsAllowed:    false,
			Reason:       messages.ReasonMuted,
			FilterName:   f.Name(),
			ShouldDelete: true,
		}, nil
	}
	return &pipeline.Result{IsAllowed: true}, nil
}
