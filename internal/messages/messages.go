package messages

const (
	LangVI = "vi"
	LangEN = "en"
)

// Keys are stable identifiers; filters and services report keys, the
// handler resolves them against the chat language.
const (
	MsgWelcome = "msg_welcome"

	ReasonForwardBlocked  = "reason_forward_blocked"
	ReasonMentionBlocked  = "reason_mention_blocked"
	ReasonLinkBlocked     = "reason_link_blocked"
	ReasonFilterMatch     = "reason_filter_match"
	ReasonFlood           = "reason_flood"
	ReasonMuted           = "reason_muted"
	ReasonTooManyWarnings = "reason_too_many_warnings"

	MsgProhibitedContent = "msg_prohibited_content"
	MsgUserBanned        = "msg_user_banned"
	MsgUserMuted         = "msg_user_muted"
	MsgUserUnmuted       = "msg_user_unmuted"
	MsgUserWarned        = "msg_user_warned"

	MsgFilterAdded      = "msg_filter_added"
	MsgFilterDeleted    = "msg_filter_deleted"
	MsgFilterList       = "msg_filter_list"
	MsgFilterListEmpty  = "msg_filter_list_empty"
	MsgSettingOn        = "msg_setting_on"
	MsgSettingOff       = "msg_setting_off"
	MsgFloodLimitSet    = "msg_flood_limit_set"
	MsgWhitelistAdded   = "msg_whitelist_added"
	MsgWhitelistRemoved = "msg_whitelist_removed"
	MsgWhitelistList    = "msg_whitelist_list"
	MsgWhitelistEmpty   = "msg_whitelist_empty"
	MsgLangSet          = "msg_lang_set"

	MsgProActive      = "msg_pro_active"
	MsgProInactive    = "msg_pro_inactive"
	MsgTrialStarted   = "msg_trial_started"
	MsgTrialUsed      = "msg_trial_used"
	MsgKeyRedeemed    = "msg_key_redeemed"
	MsgKeyNotFound    = "msg_key_not_found"
	MsgKeyUsed        = "msg_key_used"
	MsgKeyGenerated   = "msg_key_generated"
	MsgKeyRevoked     = "msg_key_revoked"

	MsgAdEnabled     = "msg_ad_enabled"
	MsgAdDisabled    = "msg_ad_disabled"
	MsgAdContentSet  = "msg_ad_content_set"
	MsgAdIntervalSet = "msg_ad_interval_set"
	MsgAdStatus      = "msg_ad_status"

	MsgAdminOnly      = "msg_admin_only"
	MsgOwnerOnly      = "msg_owner_only"
	MsgInvalidCommand = "msg_invalid_command"
	MsgInternalError  = "msg_internal_error"
	MsgReplyRequired  = "msg_reply_required"
)

var en = map[string]string{
	MsgWelcome: "Hello! Add me to a group and grant admin rights to enable moderation.\n" +
		"In private chat: /pro, /trial, /redeem <key>.",

	ReasonForwardBlocked:  "forwarded messages are not allowed here",
	ReasonMentionBlocked:  "mass mentions are not allowed here",
	ReasonLinkBlocked:     "links outside the whitelist are not allowed",
	ReasonFilterMatch:     "message matched a blocked pattern",
	ReasonFlood:           "sending messages too fast",
	ReasonMuted:           "you are muted until %s",
	ReasonTooManyWarnings: "too many warnings",

	MsgProhibitedContent: "%s, your message was removed: %s",
	MsgUserBanned:        "%s has been banned: %s",
	MsgUserMuted:         "%s has been muted for %s: %s",
	MsgUserUnmuted:       "%s can chat again",
	MsgUserWarned:        "%s, warning %d/%d: %s",

	MsgFilterAdded:      "Filter #%d added: %q",
	MsgFilterDeleted:    "Filter #%d deleted",
	MsgFilterList:       "Active filters:\n%s",
	MsgFilterListEmpty:  "No filters configured for this chat",
	MsgSettingOn:        "%s is now ON",
	MsgSettingOff:       "%s is now OFF",
	MsgFloodLimitSet:    "Flood limit set to %d messages per minute",
	MsgWhitelistAdded:   "Domain %s added to the whitelist",
	MsgWhitelistRemoved: "Domain %s removed from the whitelist",
	MsgWhitelistList:    "Whitelisted domains:\n%s",
	MsgWhitelistEmpty:   "The whitelist is empty",
	MsgLangSet:          "Language set to English",

	MsgProActive:    "PRO is active until %s",
	MsgProInactive:  "PRO is not active. Use /trial or /redeem <key>",
	MsgTrialStarted: "Trial activated! PRO until %s",
	MsgTrialUsed:    "You have already used your trial",
	MsgKeyRedeemed:  "Key accepted! PRO until %s",
	MsgKeyNotFound:  "Unknown license key",
	MsgKeyUsed:      "This key has already been redeemed",
	MsgKeyGenerated: "Key generated: %s (%d days)",
	MsgKeyRevoked:   "Key %s revoked",

	MsgAdEnabled:     "Scheduled broadcasts enabled",
	MsgAdDisabled:    "Scheduled broadcasts disabled",
	MsgAdContentSet:  "Broadcast content updated",
	MsgAdIntervalSet: "Broadcast interval set to %d minutes",
	MsgAdStatus:      "Broadcasts: %s\nInterval: %d min\nLast sent: %s\nContent: %s",

	MsgAdminOnly:      "This command is for chat admins only",
	MsgOwnerOnly:      "This command is for the bot owner only",
	MsgInvalidCommand: "Invalid command. Usage: %s",
	MsgInternalError:  "Something went wrong, please try again later",
	MsgReplyRequired:  "Reply to a message from the user you want to warn",
}

var vi = map[string]string{
	MsgWelcome: "Xin chào! Thêm bot vào nhóm và cấp quyền quản trị để bật chế độ bảo vệ.\n" +
		"Trong chat riêng: /pro, /trial, /redeem <key>.",

	ReasonForwardBlocked:  "tin nhắn chuyển tiếp không được phép ở đây",
	ReasonMentionBlocked:  "không được phép tag toàn bộ thành viên",
	ReasonLinkBlocked:     "liên kết ngoài danh sách cho phép sẽ bị xoá",
	ReasonFilterMatch:     "tin nhắn chứa từ khoá bị chặn",
	ReasonFlood:           "gửi tin nhắn quá nhanh",
	ReasonMuted:           "bạn đang bị cấm chat đến %s",
	ReasonTooManyWarnings: "quá nhiều cảnh cáo",

	MsgProhibitedContent: "%s, tin nhắn của bạn đã bị xoá: %s",
	MsgUserBanned:        "%s đã bị cấm khỏi nhóm: %s",
	MsgUserMuted:         "%s bị cấm chat trong %s: %s",
	MsgUserUnmuted:       "%s đã được phép chat trở lại",
	MsgUserWarned:        "%s, cảnh cáo %d/%d: %s",

	MsgFilterAdded:      "Đã thêm bộ lọc #%d: %q",
	MsgFilterDeleted:    "Đã xoá bộ lọc #%d",
	MsgFilterList:       "Các bộ lọc đang hoạt động:\n%s",
	MsgFilterListEmpty:  "Nhóm chưa có bộ lọc nào",
	MsgSettingOn:        "%s đã BẬT",
	MsgSettingOff:       "%s đã TẮT",
	MsgFloodLimitSet:    "Giới hạn spam: %d tin nhắn mỗi phút",
	MsgWhitelistAdded:   "Đã thêm %s vào danh sách cho phép",
	MsgWhitelistRemoved: "Đã xoá %s khỏi danh sách cho phép",
	MsgWhitelistList:    "Tên miền được cho phép:\n%s",
	MsgWhitelistEmpty:   "Danh sách cho phép đang trống",
	MsgLangSet:          "Đã chuyển sang tiếng Việt",

	MsgProActive:    "PRO còn hiệu lực đến %s",
	MsgProInactive:  "PRO chưa kích hoạt. Dùng /trial hoặc /redeem <key>",
	MsgTrialStarted: "Đã kích hoạt dùng thử! PRO đến %s",
	MsgTrialUsed:    "Bạn đã dùng thử trước đó",
	MsgKeyRedeemed:  "Kích hoạt key thành công! PRO đến %s",
	MsgKeyNotFound:  "Key không tồn tại",
	MsgKeyUsed:      "Key này đã được sử dụng",
	MsgKeyGenerated: "Đã tạo key: %s (%d ngày)",
	MsgKeyRevoked:   "Đã thu hồi key %s",

	MsgAdEnabled:     "Đã bật quảng cáo định kỳ",
	MsgAdDisabled:    "Đã tắt quảng cáo định kỳ",
	MsgAdContentSet:  "Đã cập nhật nội dung quảng cáo",
	MsgAdIntervalSet: "Chu kỳ quảng cáo: %d phút",
	MsgAdStatus:      "Quảng cáo: %s\nChu kỳ: %d phút\nGửi lần cuối: %s\nNội dung: %s",

	MsgAdminOnly:      "Lệnh này chỉ dành cho quản trị viên",
	MsgOwnerOnly:      "Lệnh này chỉ dành cho chủ bot",
	MsgInvalidCommand: "Lệnh không hợp lệ. Cú pháp: %s",
	MsgInternalError:  "Có lỗi xảy ra, vui lòng thử lại sau",
	MsgReplyRequired:  "Hãy trả lời tin nhắn của người bạn muốn cảnh cáo",
}

// T resolves a key for the given language, falling back to Vietnamese and
// then to the key itself for anything missing from a catalog.
func T(lang, key string) string {
	var catalog map[string]string
	switch lang {
	case "en":
		catalog = en
	default:
		catalog = vi
	}
	if s, ok := catalog[key]; ok {
		return s
	}
	if s, ok := vi[key]; ok {
		return s
	}
	return key
}
