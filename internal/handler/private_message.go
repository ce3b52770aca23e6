package handler

import (
	"context"

	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
)

// handlePrivateMessage serves the subscription surface in a direct dialog.
// Moderation never applies here.
func (h *Handler) handlePrivateMessage(ctx context.Context, upd *schemes.MessageCreatedUpdate) error {
	ctx, span := h.tracer.Start(ctx, "handlePrivateMessage")
	defer span.End()

	sender := upd.Message.Sender
	cmd, args := parseCommand(upd.Message.Body.Text)

	switch cmd {
	case "start", "help", "":
		return h.sendUserMessage(ctx, sender.UserId, messages.T(messages.LangVI, messages.MsgWelcome))
	case "pro":
		return h.cmdProStatus(ctx, 0, sender, messages.LangVI)
	case "trial":
		return h.cmdTrial(ctx, 0, sender, messages.LangVI)
	case "redeem":
		return h.cmdRedeem(ctx, 0, sender, messages.LangVI, args)
	case "genkey":
		if !h.isOwner(sender.UserId) {
			return h.sendUserMessage(ctx, sender.UserId, messages.T(messages.LangVI, messages.MsgOwnerOnly))
		}
		return h.cmdGenKey(ctx, 0, messages.LangVI, args)
	case "keys":
		if !h.isOwner(sender.UserId) {
			return h.sendUserMessage(ctx, sender.UserId, messages.T(messages.LangVI, messages.MsgOwnerOnly))
		}
		return h.cmdListKeys(ctx, 0, messages.LangVI)
	case "revoke":
		if !h.isOwner(sender.UserId) {
			return h.sendUserMessage(ctx, sender.UserId, messages.T(messages.LangVI, messages.MsgOwnerOnly))
		}
		return h.cmdRevokeKey(ctx, 0, messages.LangVI, args)
	default:
		return h.sendUserMessage(ctx, sender.UserId, messages.T(messages.LangVI, messages.MsgWelcome))
	}
}
