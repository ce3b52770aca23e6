package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	maxbot "github.com/max-messenger/max-bot-api-client-go"
	"github.com/max-messenger/max-bot-api-client-go/schemes"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/01202941116/HotroSecurityBot-sub000/internal/config"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/handler"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/metrics"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/repository"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/scheduler"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/service"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/transport/polling"
	"github.com/01202941116/HotroSecurityBot-sub000/internal/transport/webhook"
)

type App struct {
	cfg    *config.Config
	logger *slog.Logger
	bot    *maxbot.Api
	tracer trace.Tracer
}

func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	bot, err := maxbot.New(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot client: %w", err)
	}

	return &App{
		cfg:    cfg,
		logger: logger,
		bot:    bot,
		tracer: otel.Tracer("hotro-security-bot"),
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	a.logger.Info("Starting HotroSecurityBot")

	botInfo, err := a.bot.Bots.GetBot(ctx)
	if err != nil {
		return fmt.Errorf("failed to get bot info: %w", err)
	}
	a.logger.Info("Bot connected", "username", botInfo.Username, "id", botInfo.UserId)

	db, err := repository.NewPostgresDB(a.cfg.GetDSN())
	if err != nil {
		return fmt.Errorf("failed to init db: %w", err)
	}

	settingsRepo := repository.NewSettingsRepository(db, a.cfg.EnableCache)
	filterRepo := repository.NewFilterRepository(db)
	whitelistRepo := repository.NewWhitelistRepository(db)
	warningRepo := repository.NewWarningRepository(db)
	muteRepo := repository.NewMuteRepository(db)
	userRepo := repository.NewUserRepository(db)
	keyRepo := repository.NewLicenseKeyRepository(db)
	trialRepo := repository.NewTrialRepository(db)
	promoRepo := repository.NewPromoRepository(db)
	tempMessageRepo := repository.NewTemporaryMessageRepository(db)

	modSvc := service.NewModerationService(
		a.logger, settingsRepo, filterRepo, whitelistRepo, warningRepo, muteRepo,
		a.cfg.FloodWindow, a.cfg.DefaultMuteDuration,
	)
	licSvc := service.NewLicenseService(a.logger, userRepo, keyRepo, trialRepo, a.cfg.TrialDays)
	promoSvc := service.NewPromoService(a.logger, promoRepo)

	modSvc.StartMetricsUpdater(ctx)

	h := handler.NewHandler(a.logger, a.bot, a.cfg, modSvc, licSvc, promoSvc, tempMessageRepo)

	sched := scheduler.New(a.logger)
	sched.Register("expiry_sweep", a.cfg.ExpirySweepInterval, func(ctx context.Context) error {
		_, err := licSvc.ExpireCheck(ctx, time.Now())
		return err
	})
	sched.Register("promo_tick", a.cfg.PromoTickInterval, func(ctx context.Context) error {
		_, err := promoSvc.Tick(ctx, time.Now(), a.sendPromo)
		return err
	})
	sched.Register("notice_cleanup", time.Minute, h.CleanupExpiredNotices)
	sched.Start(ctx)
	defer sched.Stop()

	metricsSrv := metrics.NewServer(a.logger, a.cfg.MetricsAddr)
	go func() {
		if err := metricsSrv.Listen(); err != nil && err != http.ErrServerClosed {
			a.logger.Error("Metrics server failed", "error", err)
		}
	}()

	var updates <-chan schemes.UpdateInterface
	var cleanup func() error

	if a.cfg.WebhookHost != "" {
		a.logger.Info("Starting in webhook mode", "host", a.cfg.WebhookHost)
		srv := webhook.NewServer(a.logger, a.bot, a.cfg.WebhookHost, a.cfg.Port)

		var err error
		updates, cleanup, err = srv.Start(ctx)
		if err != nil {
			return fmt.Errorf("failed to start webhook server: %w", err)
		}
		if cleanup != nil {
			defer func() {
				if err := cleanup(); err != nil {
					a.logger.Error("Webhook cleanup failed", "error", err)
				}
			}()
		}
	} else {
		a.logger.Info("Starting in long polling mode")
		poller := polling.NewPoller(a.logger, a.bot)
		updates = poller.Start(ctx)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case upd, ok := <-updates:
				if !ok {
					return
				}
				h.HandleUpdate(ctx, upd)
			}
		}
	}()

	<-ctx.Done()
	a.logger.Info("Shutting down...")

	return nil
}

func (a *App) sendPromo(ctx context.Context, chatID int64, text string) error {
	msg := maxbot.NewMessage()
	msg.SetChat(chatID)
	msg.SetText(text)
	msg.SetFormat("markdown")
	return a.bot.Messages.Send(ctx, msg)
}
