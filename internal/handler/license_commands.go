package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/max-messenger/max-bot-api-client-go/schemes"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/service"
)

// Subscription commands work in groups and in private dialogs. chatID <= 0
// means the reply goes to the user directly and is not auto-deleted.
func (h *Handler) replySubscription(ctx context.Context, chatID, userID int64, text string) {
	if chatID > 0 {
		h.SendAutoDeleteMessage(ctx, chatID, text)
		return
	}
	_ = h.sendUserMessage(ctx, userID, text)
}

func (h *Handler) cmdProStatus(ctx context.Context, chatID int64, sender schemes.User, lang string) error {
	user, err := h.license.ProStatus(ctx, sender.UserId)
	if err != nil {
		h.replySubscription(ctx, chatID, sender.UserId, messages.T(lang, messages.MsgInternalError))
		return err
	}

	if user == nil || !user.IsPro || user.ProExpiresAt == nil || !user.ProExpiresAt.After(time.Now()) {
		h.replySubscription(ctx, chatID, sender.UserId, messages.T(lang, messages.MsgProInactive))
		return nil
	}
	h.replySubscription(ctx, chatID, sender.UserId, fmt.Sprintf(
		messages.T(lang, messages.MsgProActive), user.ProExpiresAt.Format("2006-01-02 15:04")))
	return nil
}

func (h *Handler) cmdTrial(ctx context.Context, chatID int64, sender schemes.User, lang string) error {
	expiresAt, err := h.license.StartTrial(ctx, sender.UserId, sender.Name)
	if err != nil {
		if errors.Is(err, repository.ErrTrialExists) {
			h.replySubscription(ctx, chatID, sender.UserId, messages.T(lang, messages.MsgTrialUsed))
			return nil
		}
		h.replySubscription(ctx, chatID, sender.UserId, messages.T(lang, messages.MsgInternalError))
		return err
	}
	h.replySubscription(ctx, chatID, sender.UserId, fmt.Sprintf(
		messages.T(lang, messages.MsgTrialStarted), expiresAt.Format("2006-01-02 15:04")))
	return nil
}

func (h *Handler) cmdRedeem(ctx context.Context, chatID int64, sender schemes.User, lang string, args []string) error {
	if len(args) != 1 {
		h.replySubscription(ctx, chatID, sender.UserId, fmt.Sprintf(
			messages.T(lang, messages.MsgInvalidCommand), "/redeem <key>"))
		return nil
	}
	key := strings.ToUpper(strings.TrimSpace(args[0]))

	expiresAt, err := h.license.RedeemKey(ctx, sender.UserId, sender.Name, key)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrKeyNotFound):
			h.replySubscription(ctx, chatID, sender.UserId, messages.T(lang, messages.MsgKeyNotFound))
			return nil
		case errors.Is(err, repository.ErrKeyUsed):
			h.replySubscription(ctx, chatID, sender.UserId, messages.T(lang, messages.MsgKeyUsed))
			return nil
		default:
			h.replySubscription(ctx, chatID, sender.UserId, messages.T(lang, messages.MsgInternalError))
			return err
		}
	}
	h.replySubscription(ctx, chatID, sender.UserId, fmt.Sprintf(
		messages.T(lang, messages.MsgKeyRedeemed), expiresAt.Format("2006-01-02 15:04")))
	return nil
}

func (h *Handler) cmdGenKey(ctx context.Context, chatID int64, lang string, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		h.replySubscription(ctx, chatID, h.config.OwnerID, fmt.Sprintf(
			messages.T(lang, messages.MsgInvalidCommand), "/genkey <days> [tier]"))
		return nil
	}
	days, err := strconv.Atoi(args[0])
	if err != nil {
		h.replySubscription(ctx, chatID, h.config.OwnerID, fmt.Sprintf(
			messages.T(lang, messages.MsgInvalidCommand), "/genkey <days> [tier]"))
		return nil
	}
	tier := ""
	if len(args) == 2 {
		tier = strings.ToLower(args[1])
	}

	key, err := h.license.GenerateKey(ctx, days, tier)
	if err != nil {
		if errors.Is(err, service.ErrInvalidArgument) {
			h.replySubscription(ctx, chatID, h.config.OwnerID, err.Error())
			return nil
		}
		h.replySubscription(ctx, chatID, h.config.OwnerID, messages.T(lang, messages.MsgInternalError))
		return err
	}
	h.replySubscription(ctx, chatID, h.config.OwnerID, fmt.Sprintf(
		messages.T(lang, messages.MsgKeyGenerated), key.Key, key.Days))
	return nil
}

func (h *Handler) cmdListKeys(ctx context.Context, chatID int64, lang string) error {
	keys, err := h.license.ListUnusedKeys(ctx)
	if err != nil {
		h.replySubscription(ctx, chatID, h.config.OwnerID, messages.T(lang, messages.MsgInternalError))
		return err
	}
	if len(keys) == 0 {
		h.replySubscription(ctx, chatID, h.config.OwnerID, "-")
		return nil
	}
	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s (%s, %d days)\n", k.Key, k.Tier, k.Days)
	}
	h.replySubscription(ctx, chatID, h.config.OwnerID, strings.TrimRight(sb.String(), "\n"))
	return nil
}

func (h *Handler) cmdRevokeKey(ctx context.Context, chatID int64, lang string, args []string) error {
	if len(args) != 1 {
		h.replySubscription(ctx, chatID, h.config.OwnerID, fmt.Sprintf(
			messages.T(lang, messages.MsgInvalidCommand), "/revoke <key>"))
		return nil
	}
	key := strings.ToUpper(strings.TrimSpace(args[0]))

	if err := h.license.RevokeKey(ctx, key); err != nil {
		switch {
		case errors.Is(err, repository.ErrKeyNotFound), errors.Is(err, repository.ErrKeyNotDeletable):
			h.replySubscription(ctx, chatID, h.config.OwnerID, messages.T(lang, messages.MsgKeyNotFound))
			return nil
		default:
			h.replySubscription(ctx, chatID, h.config.OwnerID, messages.T(lang, messages.MsgInternalError))
			return err
		}
	}
	h.replySubscription(ctx, chatID, h.config.OwnerID, fmt.Sprintf(messages.T(lang, messages.MsgKeyRevoked), key))
	return nil
}
