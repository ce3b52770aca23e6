package handler

import (
	"context"
	"strings"
	"time"

	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"go.opentelemetry.io/otel/attribute"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/metrics"
)

func (h *Handler) handleMessageCreated(ctx context.Context, upd *schemes.MessageCreatedUpdate) {
	start := time.Now()
	var handleErr error
	defer func() {
		metrics.ObserveUpdateProcessing("message_created", time.Since(start).Seconds(), handleErr)
	}()

	ctx, span := h.tracer.Start(ctx, "handleMessageCreated")
	defer span.End()

	chatID := upd.Message.Recipient.ChatId
	senderID := upd.Message.Sender.UserId
	span.SetAttributes(
		attribute.Int64("chat_id", chatID),
		attribute.Int64("sender_id", senderID),
	)

	// Private dialogs carry no chat id.
	if chatID <= 0 {
		if handleErr = h.handlePrivateMessage(ctx, upd); handleErr != nil {
			h.logger.Error("Failed to handle private message", "error", handleErr, "sender_id", senderID)
		}
		return
	}

	if strings.HasPrefix(strings.TrimSpace(upd.Message.Body.Text), "/") {
		if handleErr = h.handleCommand(ctx, upd); handleErr != nil {
			h.logger.Error("Failed to handle command", "error", handleErr, "chat_id", chatID, "sender_id", senderID)
		}
		return
	}

	if handleErr = h.handleGroupMessage(ctx, upd); handleErr != nil {
		h.logger.Error("Failed to handle group message", "error", handleErr, "chat_id", chatID, "sender_id", senderID)
	}
}

func (h *Handler) handleBotStarted(ctx context.Context, upd *schemes.BotStartedUpdate) {
	ctx, span := h.tracer.Start(ctx, "handleBotStarted")
	defer span.End()

	h.logger.Info("Bot started by user", "user_id", upd.User.UserId, "chat_id", upd.ChatId)

	text := messages.T(messages.LangVI, messages.MsgWelcome)
	if err := h.sendChatMessage(ctx, upd.ChatId, text); err != nil {
		h.logger.Error("Failed to send welcome message", "error", err)
	}
}
