package handler

import (
	"context"
	"fmt"
	"log/slog"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/config"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/service"
)

type Handler struct {
	logger   *slog.Logger
	bot      *maxbot.Api
	config   *config.Config
	mod      *service.ModerationService
	license  *service.LicenseService
	promo    *service.PromoService
	tempRepo repository.TemporaryMessageRepository
	tracer   trace.Tracer
}

func NewHandler(
	logger *slog.Logger,
	bot *maxbot.Api,
	cfg *config.Config,
	mod *service.ModerationService,
	license *service.LicenseService,
	promo *service.PromoService,
	tempRepo repository.TemporaryMessageRepository,
) *Handler {
	return &Handler{
		logger:   logger,
		bot:      bot,
		config:   cfg,
		mod:      mod,
		license:  license,
		promo:    promo,
		tempRepo: tempRepo,
		tracer:   otel.Tracer("handler"),
	}
}

func (h *Handler) HandleUpdate(ctx context.Context, upd schemes.UpdateInterface) {
	ctx, span := h.tracer.Start(ctx, "HandleUpdate")
	defer span.End()

	switch u := upd.(type) {
	case *schemes.MessageCreatedUpdate:
		span.SetAttributes(attribute.String("update_type", "message_created"))
		h.handleMessageCreated(ctx, u)
	case *schemes.BotStartedUpdate:
		span.SetAttributes(attribute.String("update_type", "bot_started"))
		h.handleBotStarted(ctx, u)
	default:
		h.logger.Debug("Received unhandled update type", "type", fmt.Sprintf("%T", u))
	}
}

// isChatAdmin resolves admin status against the platform, not local state.
func (h *Handler) isChatAdmin(ctx context.Context, chatID, userID int64) (bool, error) {
	adminList, err := h.bot.Chats.GetChatAdmins(ctx, chatID)
	if err != nil {
		return false, fmt.Errorf("failed to get chat admins: %w", err)
	}
	for _, member := range adminList.Members {
		if member.UserId == userID {
			return true, nil
		}
	}
	return false, nil
}

func (h *Handler) isOwner(userID int64) bool {
	return userID == h.config.OwnerID
}
