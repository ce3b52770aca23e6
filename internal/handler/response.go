package handler

import (
	"context"
	"fmt"
	"time"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
)

// userMention renders a markdown mention link for the Max client.
func userMention(userID int64, name string) string {
	if name == "" {
		name = "User"
	}
	return fmt.Sprintf("[%s](max://max.ru/%%%d%%)", name, userID)
}

func (h *Handler) sendChatMessage(ctx context.Context, chatID int64, text string) error {
	msg := maxbot.NewMessage()
	msg.SetChat(chatID)
	msg.SetText(text)
	msg.SetFormat("markdown")
	if err := h.bot.Messages.Send(ctx, msg); err != nil {
		h.logger.Error("Failed to send chat message", "chat_id", chatID, "error", err)
		return err
	}
	return nil
}

func (h *Handler) sendUserMessage(ctx context.Context, userID int64, text string) error {
	msg := maxbot.NewMessage()
	msg.SetUser(userID)
	msg.SetText(text)
	msg.SetFormat("markdown")
	if err := h.bot.Messages.Send(ctx, msg); err != nil {
		h.logger.Error("Failed to send user message", "user_id", userID, "error", err)
		return err
	}
	return nil
}

// SendTemporaryMessage posts a notice and records it for the cleanup job.
func (h *Handler) SendTemporaryMessage(ctx context.Context, chatID int64, text string, duration time.Duration) {
	msg := maxbot.NewMessage()
	msg.SetChat(chatID)
	msg.SetText(text)
	msg.SetFormat("markdown")

	respMsg, err := h.bot.Messages.SendWithResult(ctx, msg)
	if err != nil {
		h.logger.Error("Failed to send temporary message", "chat_id", chatID, "error", err)
		return
	}

	if respMsg != nil && respMsg.Body.Mid != "" {
		if err := h.tempRepo.Add(chatID, respMsg.Body.Mid, duration); err != nil {
			h.logger.Error("Failed to schedule notice deletion", "error", err)
		}
	} else {
		h.logger.Warn("Message sent but ID is missing in response")
	}
}

func (h *Handler) SendAutoDeleteMessage(ctx context.Context, chatID int64, text string) {
	h.SendTemporaryMessage(ctx, chatID, text, 1*time.Minute)
}

func (h *Handler) deleteMessage(ctx context.Context, messageID string, reason string) error {
	if _, err := h.bot.Messages.DeleteMessage(ctx, messageID); err != nil {
		h.logger.Error("Failed to delete message", "message_id", messageID, "error", err)
		return err
	}
	h.logger.Info("Deleted message", "message_id", messageID, "reason", reason)
	return nil
}

// CleanupExpiredNotices deletes bot notices whose retention has elapsed. It
// is registered as a scheduler job.
func (h *Handler) CleanupExpiredNotices(ctx context.Context) error {
	expired, err := h.tempRepo.GetExpired(100)
	if err != nil {
		return fmt.Errorf("failed to query expired notices: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(expired))
	for _, m := range expired {
		if _, err := h.bot.Messages.DeleteMessage(ctx, m.MessageID); err != nil {
			h.logger.Warn("Failed to delete expired notice", "message_id", m.MessageID, "error", err)
		}
		// The row goes regardless; a message already gone from the chat
		// should not be retried forever.
		ids = append(ids, m.ID)
	}
	return h.tempRepo.Delete(ids)
}
