package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"go.opentelemetry.io/otel/attribute"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/service"
)

// commandContext carries everything a command implementation needs after the
// shared parsing and authorization work is done.
type commandContext struct {
	chatID   int64
	senderID int64
	sender   schemes.User
	lang     string
	args     []string
	upd      *schemes.MessageCreatedUpdate
}

func parseCommand(text string) (string, []string) {
	fields := strings.Fields(strings.TrimSpace(text))
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil
	}
	cmd := strings.TrimPrefix(fields[0], "/")
	// Commands addressed to the bot explicitly, e.g. /setflood@botname.
	if i := strings.IndexByte(cmd, '@'); i >= 0 {
		cmd = cmd[:i]
	}
	return strings.ToLower(cmd), fields[1:]
}

func (h *Handler) handleCommand(ctx context.Context, upd *schemes.MessageCreatedUpdate) error {
	ctx, span := h.tracer.Start(ctx, "handleCommand")
	defer span.End()

	cmd, args := parseCommand(upd.Message.Body.Text)
	if cmd == "" {
		return nil
	}
	span.SetAttributes(attribute.String("command", cmd))

	chatID := upd.Message.Recipient.ChatId
	senderID := upd.Message.Sender.UserId

	settings, err := h.mod.GetSettings(ctx, chatID)
	lang := messages.LangVI
	if err != nil {
		h.logger.Error("Failed to load chat settings for command", "chat_id", chatID, "error", err)
	} else {
		lang = settings.Lang
	}

	cc := &commandContext{
		chatID:   chatID,
		senderID: senderID,
		sender:   upd.Message.Sender,
		lang:     lang,
		args:     args,
		upd:      upd,
	}

	h.logger.Info("Command received", "command", cmd, "chat_id", chatID, "sender_id", senderID)

	switch cmd {
	case "pro", "trial", "redeem":
		// Subscription commands carry no chat scope and need no rights.
	case "genkey", "keys", "revoke":
		if !h.isOwner(senderID) {
			h.SendAutoDeleteMessage(ctx, chatID, messages.T(lang, messages.MsgOwnerOnly))
			return nil
		}
	default:
		isAdmin, err := h.isChatAdmin(ctx, chatID, senderID)
		if err != nil {
			return fmt.Errorf("failed to check admin rights: %w", err)
		}
		if !isAdmin {
			h.SendAutoDeleteMessage(ctx, chatID, messages.T(lang, messages.MsgAdminOnly))
			_ = h.deleteMessage(ctx, upd.Message.Body.Mid, "non_admin_command")
			return nil
		}
	}

	switch cmd {
	case "filter_add":
		return h.cmdFilterAdd(ctx, cc)
	case "filter_list":
		return h.cmdFilterList(ctx, cc)
	case "filter_del":
		return h.cmdFilterDel(ctx, cc)
	case "antilink_on":
		return h.cmdToggle(ctx, cc, "antilink", true)
	case "antilink_off":
		return h.cmdToggle(ctx, cc, "antilink", false)
	case "antimention_on":
		return h.cmdToggle(ctx, cc, "antimention", true)
	case "antimention_off":
		return h.cmdToggle(ctx, cc, "antimention", false)
	case "antiforward_on":
		return h.cmdToggle(ctx, cc, "antiforward", true)
	case "antiforward_off":
		return h.cmdToggle(ctx, cc, "antiforward", false)
	case "setflood":
		return h.cmdSetFlood(ctx, cc)
	case "floodmode":
		return h.cmdFloodMode(ctx, cc)
	case "wl_add":
		return h.cmdWhitelistAdd(ctx, cc)
	case "wl_del":
		return h.cmdWhitelistDel(ctx, cc)
	case "wl_list":
		return h.cmdWhitelistList(ctx, cc)
	case "warn":
		return h.cmdWarn(ctx, cc)
	case "unmute":
		return h.cmdUnmute(ctx, cc)
	case "lang":
		return h.cmdLang(ctx, cc)
	case "ad_on":
		return h.cmdAdEnable(ctx, cc, true)
	case "ad_off":
		return h.cmdAdEnable(ctx, cc, false)
	case "ad_set":
		return h.cmdAdSet(ctx, cc)
	case "ad_interval":
		return h.cmdAdInterval(ctx, cc)
	case "ad_status":
		return h.cmdAdStatus(ctx, cc)
	case "pro":
		return h.cmdProStatus(ctx, cc.chatID, cc.sender, cc.lang)
	case "trial":
		return h.cmdTrial(ctx, cc.chatID, cc.sender, cc.lang)
	case "redeem":
		return h.cmdRedeem(ctx, cc.chatID, cc.sender, cc.lang, cc.args)
	case "genkey":
		return h.cmdGenKey(ctx, cc.chatID, cc.lang, cc.args)
	case "keys":
		return h.cmdListKeys(ctx, cc.chatID, cc.lang)
	case "revoke":
		return h.cmdRevokeKey(ctx, cc.chatID, cc.lang, cc.args)
	default:
		h.logger.Debug("Unknown command ignored", "command", cmd)
		return nil
	}
}

func (h *Handler) replyUsage(ctx context.Context, cc *commandContext, usage string) error {
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgInvalidCommand), usage))
	return nil
}

func (h *Handler) replyError(ctx context.Context, cc *commandContext, err error) error {
	if errors.Is(err, service.ErrInvalidArgument) {
		h.SendAutoDeleteMessage(ctx, cc.chatID, err.Error())
		return nil
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(cc.lang, messages.MsgInternalError))
	return err
}

func (h *Handler) cmdFilterAdd(ctx context.Context, cc *commandContext) error {
	if len(cc.args) == 0 {
		return h.replyUsage(ctx, cc, "/filter_add <pattern>")
	}
	pattern := strings.Join(cc.args, " ")
	f, err := h.mod.AddFilter(ctx, cc.chatID, pattern)
	if err != nil {
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgFilterAdded), f.ID, f.Pattern))
	return nil
}

func (h *Handler) cmdFilterList(ctx context.Context, cc *commandContext) error {
	list, err := h.mod.ListFilters(ctx, cc.chatID)
	if err != nil {
		return h.replyError(ctx, cc, err)
	}
	if len(list) == 0 {
		h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(cc.lang, messages.MsgFilterListEmpty))
		return nil
	}
	var sb strings.Builder
	for _, f := range list {
		fmt.Fprintf(&sb, "#%d: %s\n", f.ID, f.Pattern)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgFilterList), strings.TrimRight(sb.String(), "\n")))
	return nil
}

func (h *Handler) cmdFilterDel(ctx context.Context, cc *commandContext) error {
	if len(cc.args) != 1 {
		return h.replyUsage(ctx, cc, "/filter_del <id>")
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(cc.args[0], "#"), 10, 64)
	if err != nil {
		return h.replyUsage(ctx, cc, "/filter_del <id>")
	}
	if err := h.mod.DeleteFilter(ctx, cc.chatID, id); err != nil {
		if errors.Is(err, repository.ErrFilterNotFound) {
			return h.replyUsage(ctx, cc, "/filter_del <id>")
		}
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgFilterDeleted), id))
	return nil
}

func (h *Handler) cmdToggle(ctx context.Context, cc *commandContext, setting string, enabled bool) error {
	if err := h.mod.SetToggle(ctx, cc.chatID, setting, enabled); err != nil {
		return h.replyError(ctx, cc, err)
	}
	key := messages.MsgSettingOff
	if enabled {
		key = messages.MsgSettingOn
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, key), setting))
	return nil
}

func (h *Handler) cmdSetFlood(ctx context.Context, cc *commandContext) error {
	if len(cc.args) != 1 {
		return h.replyUsage(ctx, cc, "/setflood <1-100>")
	}
	limit, err := strconv.Atoi(cc.args[0])
	if err != nil {
		return h.replyUsage(ctx, cc, "/setflood <1-100>")
	}
	if err := h.mod.SetFloodLimit(ctx, cc.chatID, limit); err != nil {
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgFloodLimitSet), limit))
	return nil
}

func (h *Handler) cmdFloodMode(ctx context.Context, cc *commandContext) error {
	if len(cc.args) != 1 {
		return h.replyUsage(ctx, cc, "/floodmode mute|ban")
	}
	mode := strings.ToLower(cc.args[0])
	if err := h.mod.SetFloodMode(ctx, cc.chatID, mode); err != nil {
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgSettingOn), "floodmode "+mode))
	return nil
}

func (h *Handler) cmdWhitelistAdd(ctx context.Context, cc *commandContext) error {
	if len(cc.args) != 1 {
		return h.replyUsage(ctx, cc, "/wl_add <domain>")
	}
	domain, err := h.mod.AddWhitelistDomain(ctx, cc.chatID, cc.args[0])
	if err != nil {
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgWhitelistAdded), domain))
	return nil
}

func (h *Handler) cmdWhitelistDel(ctx context.Context, cc *commandContext) error {
	if len(cc.args) != 1 {
		return h.replyUsage(ctx, cc, "/wl_del <domain>")
	}
	domain, err := h.mod.RemoveWhitelistDomain(ctx, cc.chatID, cc.args[0])
	if err != nil {
		if errors.Is(err, repository.ErrDomainNotFound) {
			return h.replyUsage(ctx, cc, "/wl_del <domain>")
		}
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgWhitelistRemoved), domain))
	return nil
}

func (h *Handler) cmdWhitelistList(ctx context.Context, cc *commandContext) error {
	domains, err := h.mod.ListWhitelist(ctx, cc.chatID)
	if err != nil {
		return h.replyError(ctx, cc, err)
	}
	if len(domains) == 0 {
		h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(cc.lang, messages.MsgWhitelistEmpty))
		return nil
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgWhitelistList), strings.Join(domains, "\n")))
	return nil
}

// cmdWarn warns the author of the replied-to message, sharing the escalation
// path with automatic violations.
func (h *Handler) cmdWarn(ctx context.Context, cc *commandContext) error {
	link := cc.upd.Message.Link
	if link == nil || link.Sender.UserId == 0 {
		h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(cc.lang, messages.MsgReplyRequired))
		return nil
	}
	targetID := link.Sender.UserId
	targetName := link.Sender.Name

	decision, err := h.mod.WarnUser(ctx, cc.chatID, targetID)
	if err != nil {
		return h.replyError(ctx, cc, err)
	}
	_ = h.deleteMessage(ctx, cc.upd.Message.Body.Mid, "warn_command_cleanup")

	mention := userMention(targetID, targetName)
	if decision.Action == service.ActionBan {
		if err := h.banUser(ctx, cc.chatID, targetID); err != nil {
			h.logger.Error("Failed to remove warned user", "chat_id", cc.chatID, "user_id", targetID, "error", err)
		}
		h.sendChatMessage(ctx, cc.chatID, fmt.Sprintf(
			messages.T(cc.lang, messages.MsgUserBanned), mention, messages.T(cc.lang, messages.ReasonTooManyWarnings)))
		return nil
	}

	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(
		messages.T(cc.lang, messages.MsgUserWarned), mention, decision.WarnCount, service.WarnThreshold,
		messages.T(cc.lang, decision.Reason)))
	return nil
}

func (h *Handler) cmdUnmute(ctx context.Context, cc *commandContext) error {
	link := cc.upd.Message.Link
	if link == nil || link.Sender.UserId == 0 {
		h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(cc.lang, messages.MsgReplyRequired))
		return nil
	}
	if err := h.mod.UnmuteUser(ctx, cc.chatID, link.Sender.UserId); err != nil {
		return h.replyError(ctx, cc, err)
	}
	_ = h.deleteMessage(ctx, cc.upd.Message.Body.Mid, "unmute_command_cleanup")
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(
		messages.T(cc.lang, messages.MsgUserUnmuted), userMention(link.Sender.UserId, link.Sender.Name)))
	return nil
}

func (h *Handler) cmdLang(ctx context.Context, cc *commandContext) error {
	if len(cc.args) != 1 {
		return h.replyUsage(ctx, cc, "/lang vi|en")
	}
	lang := strings.ToLower(cc.args[0])
	if err := h.mod.SetLang(ctx, cc.chatID, lang); err != nil {
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(lang, messages.MsgLangSet))
	return nil
}

func (h *Handler) cmdAdEnable(ctx context.Context, cc *commandContext, enabled bool) error {
	if err := h.promo.SetEnabled(ctx, cc.chatID, enabled); err != nil {
		return h.replyError(ctx, cc, err)
	}
	key := messages.MsgAdDisabled
	if enabled {
		key = messages.MsgAdEnabled
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(cc.lang, key))
	return nil
}

func (h *Handler) cmdAdSet(ctx context.Context, cc *commandContext) error {
	if len(cc.args) == 0 {
		return h.replyUsage(ctx, cc, "/ad_set <text>")
	}
	content := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(cc.upd.Message.Body.Text), "/ad_set"))
	if err := h.promo.SetContent(ctx, cc.chatID, content); err != nil {
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, messages.T(cc.lang, messages.MsgAdContentSet))
	return nil
}

func (h *Handler) cmdAdInterval(ctx context.Context, cc *commandContext) error {
	if len(cc.args) != 1 {
		return h.replyUsage(ctx, cc, "/ad_interval <minutes>")
	}
	minutes, err := strconv.Atoi(cc.args[0])
	if err != nil {
		return h.replyUsage(ctx, cc, "/ad_interval <minutes>")
	}
	if err := h.promo.SetInterval(ctx, cc.chatID, minutes); err != nil {
		return h.replyError(ctx, cc, err)
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(messages.T(cc.lang, messages.MsgAdIntervalSet), minutes))
	return nil
}

func (h *Handler) cmdAdStatus(ctx context.Context, cc *commandContext) error {
	ps, err := h.promo.Status(ctx, cc.chatID)
	if err != nil {
		return h.replyError(ctx, cc, err)
	}
	state := "off"
	if ps.Enabled {
		state = "on"
	}
	lastSent := "-"
	if ps.LastSentAt != nil {
		lastSent = ps.LastSentAt.Format(time.RFC3339)
	}
	content := ps.Content
	if content == "" {
		content = "-"
	}
	h.SendAutoDeleteMessage(ctx, cc.chatID, fmt.Sprintf(
		messages.T(cc.lang, messages.MsgAdStatus), state, ps.IntervalMinutes, lastSent, content))
	return nil
}
