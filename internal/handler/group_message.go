package handler

import (
	"context"
	"fmt"

	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"go.opentelemetry.io/otel/attribute"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/service"
)

func (h *Handler) handleGroupMessage(ctx context.Context, upd *schemes.MessageCreatedUpdate) error {
	ctx, span := h.tracer.Start(ctx, "handleGroupMessage")
	defer span.End()

	chatID := upd.Message.Recipient.ChatId
	sender := upd.Message.Sender

	isAdmin, err := h.isChatAdmin(ctx, chatID, sender.UserId)
	if err != nil {
		h.logger.Warn("Failed to check admin status, treating sender as regular member", "error", err)
		isAdmin = false
	}

	payload := pipeline.Payload{
		ChatID:      chatID,
		SenderID:    sender.UserId,
		SenderName:  sender.Name,
		Text:        upd.Message.Body.Text,
		IsForwarded: isForwarded(upd),
		IsAdmin:     isAdmin,
	}

	decision, err := h.mod.EvaluateMessage(ctx, payload)
	if err != nil {
		return fmt.Errorf("failed to evaluate message: %w", err)
	}
	span.SetAttributes(attribute.String("action", decision.Action.String()))

	if decision.Action == service.ActionAllow {
		h.logger.Debug("Message allowed", "chat_id", chatID, "sender_id", sender.UserId)
		return nil
	}

	return h.applyDecision(ctx, upd, decision)
}

func isForwarded(upd *schemes.MessageCreatedUpdate) bool {
	return upd.Message.Link != nil && string(upd.Message.Link.Type) == "forward"
}

// applyDecision turns a moderation decision into platform calls. The
// offending message is removed for every non-allow action.
func (h *Handler) applyDecision(ctx context.Context, upd *schemes.MessageCreatedUpdate, decision *service.Decision) error {
	chatID := upd.Message.Recipient.ChatId
	sender := upd.Message.Sender

	h.logger.Info("Message blocked",
		"chat_id", chatID,
		"sender_id", sender.UserId,
		"filter", decision.FilterName,
		"action", decision.Action.String(),
	)

	_ = h.deleteMessage(ctx, upd.Message.Body.Mid, decision.FilterName)

	settings, err := h.mod.GetSettings(ctx, chatID)
	lang := messages.LangVI
	if err == nil {
		lang = settings.Lang
	}
	mention := userMention(sender.UserId, sender.Name)
	reason := messages.T(lang, decision.Reason)

	switch decision.Action {
	case service.ActionDelete:
		h.SendAutoDeleteMessage(ctx, chatID, fmt.Sprintf(messages.T(lang, messages.MsgProhibitedContent), mention, reason))

	case service.ActionDeleteAndWarn:
		text := fmt.Sprintf(messages.T(lang, messages.MsgUserWarned), mention, decision.WarnCount, service.WarnThreshold, reason)
		h.SendAutoDeleteMessage(ctx, chatID, text)

	case service.ActionMute:
		text := fmt.Sprintf(messages.T(lang, messages.MsgUserMuted), mention, decision.MuteDuration.String(), reason)
		h.SendAutoDeleteMessage(ctx, chatID, text)

	case service.ActionBan:
		if err := h.banUser(ctx, chatID, sender.UserId); err != nil {
			h.logger.Error("Failed to remove user from chat", "chat_id", chatID, "user_id", sender.UserId, "error", err)
		}
		h.sendChatMessage(ctx, chatID, fmt.Sprintf(messages.T(lang, messages.MsgUserBanned), mention, reason))
	}
	return nil
}

func (h *Handler) banUser(ctx context.Context, chatID, userID int64) error {
	if _, err := h.bot.Chats.RemoveMember(ctx, chatID, userID); err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}
	h.logger.Info("Removed user from chat", "chat_id", chatID, "user_id", userID)
	return nil
}
