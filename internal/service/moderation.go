package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/messages"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/metrics"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/pipeline/filters"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/utils"
)

type Action int

const (
	ActionAllow Action = iota
	ActionDelete
	ActionDeleteAndWarn
	ActionMute
	ActionBan
)

func (a Action) String() string {
	switch a {
	case ActionAllow:
		return "allow"
	case ActionDelete:
		return "delete"
	case ActionDeleteAndWarn:
		return "delete_and_warn"
	case ActionMute:
		return "mute"
	case ActionBan:
		return "ban"
	default:
		return "unknown"
	}
}

// WarnThreshold is the number of accumulated warnings that converts the
// next violation into a ban.
const WarnThreshold = 3

type Decision struct {
	Action       Action
	Reason       string
	FilterName   string
	WarnCount    int
	MuteDuration time.Duration
}

type ModerationService struct {
	logger        *slog.Logger
	settingsRepo  repository.SettingsRepository
	filterRepo    repository.FilterRepository
	whitelistRepo repository.WhitelistRepository
	warningRepo   repository.WarningRepository
	muteRepo      repository.MuteRepository
	pipeline      *pipeline.Manager
	tracer        trace.Tracer
}

func NewModerationService(
	logger *slog.Logger,
	settingsRepo repository.SettingsRepository,
	filterRepo repository.FilterRepository,
	whitelistRepo repository.WhitelistRepository,
	warningRepo repository.WarningRepository,
	muteRepo repository.MuteRepository,
	floodWindow time.Duration,
	muteDuration time.Duration,
) *ModerationService {

	muteFilter := filters.NewMuteFilter(muteRepo)
	forwardFilter := filters.NewForwardFilter(settingsRepo)
	mentionFilter := filters.NewMentionFilter(settingsRepo)
	linkFilter := filters.NewLinkFilter(settingsRepo, whitelistRepo)
	keywordFilter := filters.NewKeywordFilter(filterRepo)
	floodFilter := filters.NewFloodFilter(settingsRepo, floodWindow, muteDuration)

	pm := pipeline.NewManager(muteFilter, forwardFilter, mentionFilter, linkFilter, keywordFilter, floodFilter)

	return &ModerationService{
		logger:        logger,
		settingsRepo:  settingsRepo,
		filterRepo:    filterRepo,
		whitelistRepo: whitelistRepo,
		warningRepo:   warningRepo,
		muteRepo:      muteRepo,
		pipeline:      pm,
		tracer:        otel.Tracer("service"),
	}
}

// EvaluateMessage decides what to do with a group message. Admin senders
// bypass every filter.
func (s *ModerationService) EvaluateMessage(ctx context.Context, payload pipeline.Payload) (*Decision, error) {
	ctx, span := s.tracer.Start(ctx, "EvaluateMessage")
	defer span.End()

	if payload.IsAdmin {
		return &Decision{Action: ActionAllow}, nil
	}

	res, err := s.pipeline.Process(ctx, payload)
	if err != nil {
		return nil, fmt.Errorf("pipeline failed: %w", err)
	}
	if res.IsAllowed {
		return &Decision{Action: ActionAllow}, nil
	}

	s.logger.Debug("Message blocked",
		"chat_id", payload.ChatID,
		"user_id", payload.SenderID,
		"filter", res.FilterName,
	)

	if res.ShouldBan {
		metrics.IncBans(res.FilterName)
		return &Decision{Action: ActionBan, Reason: res.Reason, FilterName: res.FilterName}, nil
	}

	if res.ShouldMute {
		if err := s.muteRepo.MuteUser(payload.ChatID, payload.SenderID, payload.SenderName, res.MuteDuration); err != nil {
			s.logger.Error("Failed to record mute", "chat_id", payload.ChatID, "user_id", payload.SenderID, "error", err)
		}
		metrics.IncMutes(res.FilterName)
		return &Decision{
			Action:       ActionMute,
			Reason:       res.Reason,
			FilterName:   res.FilterName,
			MuteDuration: res.MuteDuration,
		}, nil
	}

	if res.ShouldWarn {
		decision, err := s.applyWarning(ctx, payload.ChatID, payload.SenderID, res.Reason)
		if err != nil {
			return nil, err
		}
		decision.FilterName = res.FilterName
		return decision, nil
	}

	metrics.IncDeletedMessages(res.FilterName)
	return &Decision{Action: ActionDelete, Reason: res.Reason, FilterName: res.FilterName}, nil
}

// applyWarning performs the atomic increment-and-compare on the warning
// ledger. Reaching the threshold bans and resets the counter; the reset is
// conditional so two racing violations cannot both ban.
func (s *ModerationService) applyWarning(ctx context.Context, chatID, userID int64, reason string) (*Decision, error) {
	count, err := s.warningRepo.IncrementAndGet(ctx, chatID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to record warning: %w", err)
	}
	metrics.IncWarnings()

	if count >= WarnThreshold {
		banned, err := s.warningRepo.ResetIfAtLeast(ctx, chatID, userID, WarnThreshold)
		if err != nil {
			return nil, fmt.Errorf("failed to reset warnings: %w", err)
		}
		if banned {
			metrics.IncBans("warnings")
			return &Decision{
				Action:    ActionBan,
				Reason:    messages.ReasonTooManyWarnings,
				WarnCount: count,
			}, nil
		}
		count = WarnThreshold
	}

	return &Decision{
		Action:    ActionDeleteAndWarn,
		Reason:    reason,
		WarnCount: count,
	}, nil
}

// WarnUser backs the admin /warn command; it shares escalation with the
// automatic link-violation path.
func (s *ModerationService) WarnUser(ctx context.Context, chatID, userID int64) (*Decision, error) {
	ctx, span := s.tracer.Start(ctx, "WarnUser")
	defer span.End()
	return s.applyWarning(ctx, chatID, userID, messages.ReasonFilterMatch)
}

func (s *ModerationService) UnmuteUser(ctx context.Context, chatID, userID int64) error {
	_, span := s.tracer.Start(ctx, "UnmuteUser")
	defer span.End()
	return s.muteRepo.UnmuteUser(chatID, userID)
}

func (s *ModerationService) GetSettings(ctx context.Context, chatID int64) (*repository.ChatSetting, error) {
	_, span := s.tracer.Start(ctx, "GetSettings")
	defer span.End()
	return s.settingsRepo.GetSettings(chatID)
}

func (s *ModerationService) SetToggle(ctx context.Context, chatID int64, setting string, enabled bool) error {
	_, span := s.tracer.Start(ctx, "SetToggle")
	defer span.End()

	settings, err := s.settingsRepo.GetSettings(chatID)
	if err != nil {
		return err
	}
	switch setting {
	case "antilink":
		settings.AntilinkEnabled = enabled
	case "antimention":
		settings.AntimentionEnabled = enabled
	case "antiforward":
		settings.AntiforwardEnabled = enabled
	default:
		return fmt.Errorf("%w: unknown setting %q", ErrInvalidArgument, setting)
	}
	return s.settingsRepo.UpdateSettings(settings)
}

func (s *ModerationService) SetFloodLimit(ctx context.Context, chatID int64, limit int) error {
	_, span := s.tracer.Start(ctx, "SetFloodLimit")
	defer span.End()

	if limit < 1 || limit > 100 {
		return fmt.Errorf("%w: flood limit must be between 1 and 100", ErrInvalidArgument)
	}
	settings, err := s.settingsRepo.GetSettings(chatID)
	if err != nil {
		return err
	}
	settings.FloodLimit = limit
	return s.settingsRepo.UpdateSettings(settings)
}

func (s *ModerationService) SetFloodMode(ctx context.Context, chatID int64, mode string) error {
	_, span := s.tracer.Start(ctx, "SetFloodMode")
	defer span.End()

	if mode != "mute" && mode != "ban" {
		return fmt.Errorf("%w: flood mode must be mute or ban", ErrInvalidArgument)
	}
	settings, err := s.settingsRepo.GetSettings(chatID)
	if err != nil {
		return err
	}
	settings.FloodMode = mode
	return s.settingsRepo.UpdateSettings(settings)
}

func (s *ModerationService) SetLang(ctx context.Context, chatID int64, lang string) error {
	_, span := s.tracer.Start(ctx, "SetLang")
	defer span.End()

	if lang != "vi" && lang != "en" {
		return fmt.Errorf("%w: unsupported language %q", ErrInvalidArgument, lang)
	}
	settings, err := s.settingsRepo.GetSettings(chatID)
	if err != nil {
		return err
	}
	settings.Lang = lang
	return s.settingsRepo.UpdateSettings(settings)
}

func (s *ModerationService) AddFilter(ctx context.Context, chatID int64, pattern string) (*repository.Filter, error) {
	ctx, span := s.tracer.Start(ctx, "AddFilter")
	defer span.End()

	pattern = strings.ToLower(strings.TrimSpace(pattern))
	if pattern == "" {
		return nil, fmt.Errorf("%w: empty filter pattern", ErrInvalidArgument)
	}
	return s.filterRepo.Add(ctx, chatID, pattern)
}

func (s *ModerationService) ListFilters(ctx context.Context, chatID int64) ([]repository.Filter, error) {
	ctx, span := s.tracer.Start(ctx, "ListFilters")
	defer span.End()
	return s.filterRepo.List(ctx, chatID)
}

func (s *ModerationService) DeleteFilter(ctx context.Context, chatID, filterID int64) error {
	ctx, span := s.tracer.Start(ctx, "DeleteFilter")
	defer span.End()
	return s.filterRepo.Delete(ctx, chatID, filterID)
}

func (s *ModerationService) AddWhitelistDomain(ctx context.Context, chatID int64, domain string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "AddWhitelistDomain")
	defer span.End()

	norm := utils.NormalizeDomain(domain)
	if norm == "" || !strings.Contains(norm, ".") {
		return "", fmt.Errorf("%w: %q is not a domain", ErrInvalidArgument, domain)
	}
	if err := s.whitelistRepo.Add(ctx, chatID, norm); err != nil {
		return "", err
	}
	return norm, nil
}

func (s *ModerationService) RemoveWhitelistDomain(ctx context.Context, chatID int64, domain string) (string, error) {
	ctx, span := s.tracer.Start(ctx, "RemoveWhitelistDomain")
	defer span.End()

	norm := utils.NormalizeDomain(domain)
	if norm == "" {
		return "", fmt.Errorf("%w: %q is not a domain", ErrInvalidArgument, domain)
	}
	if err := s.whitelistRepo.Remove(ctx, chatID, norm); err != nil {
		return "", err
	}
	return norm, nil
}

func (s *ModerationService) ListWhitelist(ctx context.Context, chatID int64) ([]string, error) {
	ctx, span := s.tracer.Start(ctx, "ListWhitelist")
	defer span.End()
	return s.whitelistRepo.List(ctx, chatID)
}

func (s *ModerationService) StartMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Minute)

	update := func() {
		count, err := s.muteRepo.CountActiveMutes()
		if err != nil {
			s.logger.Error("Failed to count active mutes", "error", err)
			return
		}
		metrics.SetActiveMutes(float64(count))
	}

	go update()

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				update()
			}
		}
	}()
}
